package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// syncBuffer lets handlers and assertions share a log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// withLogger installs a JSON logger writing to buf on the request context.
func withLogger(buf *syncBuffer) gin.HandlerFunc {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

func lastLogLine(t *testing.T, buf *syncBuffer) map[string]any {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines[len(lines)-1], "no log output")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))

	return entry
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "corr-1", CorrelationIDFromContext(ctx))
}

func TestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromGin    func(*gin.Context) string
		fromCtx    func(context.Context) string
		logKey     string
	}{
		{"request id", RequestID(), HeaderRequestID, GetRequestID, RequestIDFromContext, "request_id"},
		{"correlation id", CorrelationID(), HeaderCorrelationID, GetCorrelationID, CorrelationIDFromContext, "correlation_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name+" propagates inbound value", func(t *testing.T) {
			t.Parallel()

			buf := &syncBuffer{}

			var ginID, ctxID string

			router := gin.New()
			router.Use(withLogger(buf), tt.middleware)
			router.GET("/test", func(c *gin.Context) {
				ginID = tt.fromGin(c)
				ctxID = tt.fromCtx(c.Request.Context())
				logging.FromContext(c.Request.Context()).Info("handled")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(tt.header, "inbound-123")

			w := serve(router, req)

			assert.Equal(t, "inbound-123", w.Header().Get(tt.header))
			assert.Equal(t, "inbound-123", ginID)
			assert.Equal(t, "inbound-123", ctxID)
			assert.Equal(t, "inbound-123", lastLogLine(t, buf)[tt.logKey])
		})

		t.Run(tt.name+" generates uuid", func(t *testing.T) {
			t.Parallel()

			var ctxID string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/test", func(c *gin.Context) {
				ctxID = tt.fromCtx(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

			got := w.Header().Get(tt.header)
			_, err := uuid.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, got, ctxID)
		})

		t.Run(tt.name+" replaces oversized value", func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(tt.header, strings.Repeat("x", maxIDLength+1))

			w := serve(router, req)

			_, err := uuid.Parse(w.Header().Get(tt.header))
			assert.NoError(t, err)
		})
	}
}

func TestGetIDs_WithoutMiddleware(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))
}

// stubAuthenticator accepts a single secret.
type stubAuthenticator struct {
	secret string
	token  *domain.Token
	err    error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, secret string) (*domain.Token, error) {
	if s.err != nil {
		return nil, s.err
	}

	if secret != s.secret {
		return nil, domain.NewUnauthorizedError("unknown token")
	}

	return s.token, nil
}

func TestTokenFromHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
	}{
		{"Token abc123", "abc123"},
		{"token abc123", "abc123"},
		{"  Token   abc123  ", "abc123"},
		{"Bearer abc123", ""},
		{"Token", ""},
		{"", ""},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", tt.header)

		assert.Equal(t, tt.want, TokenFromHeader(c), "header %q", tt.header)
	}
}

func TestRequireToken(t *testing.T) {
	t.Parallel()

	token := &domain.Token{UserID: 1, Username: "admin", ExpiresAt: time.Now().Add(time.Hour)}

	tests := []struct {
		name       string
		auth       *stubAuthenticator
		header     string
		wantStatus int
	}{
		{"valid token", &stubAuthenticator{secret: "good", token: token}, "Token good", http.StatusOK},
		{"missing header", &stubAuthenticator{secret: "good", token: token}, "", http.StatusUnauthorized},
		{"wrong scheme", &stubAuthenticator{secret: "good", token: token}, "Bearer good", http.StatusUnauthorized},
		{"unknown token", &stubAuthenticator{secret: "good", token: token}, "Token bad", http.StatusUnauthorized},
		{"store down", &stubAuthenticator{err: domain.NewUnavailableError("database", "down")}, "Token good", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &syncBuffer{}

			var seen *domain.Token

			router := gin.New()
			router.Use(withLogger(buf), RequireToken(tt.auth))
			router.GET("/admin", func(c *gin.Context) {
				seen = GetToken(c)
				logging.FromContext(c.Request.Context()).Info("inside")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := serve(router, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Same(t, token, seen)
				assert.Equal(t, "admin", lastLogLine(t, buf)["admin"])

				return
			}

			assert.Nil(t, seen)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	newRouter := func(origins ...string) *gin.Engine {
		router := gin.New()
		router.Use(CORS(origins, 12*time.Hour))
		router.GET("/api/v1/blogs", func(c *gin.Context) { c.Status(http.StatusOK) })

		return router
	}

	t.Run("allowed origin gets headers", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/blogs", nil)
		req.Header.Set("Origin", "http://localhost:5173")

		w := serve(newRouter("http://localhost:5173/"), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Values("Vary"), "Origin")
	})

	t.Run("preflight is answered", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/blogs", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		w := serve(newRouter("*"), req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("wildcard never grants credentials", func(t *testing.T) {
		t.Parallel()

		router := newRouter("*", "http://localhost:5173")

		req := httptest.NewRequest(http.MethodGet, "/api/v1/blogs", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := serve(router, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

		req = httptest.NewRequest(http.MethodGet, "/api/v1/blogs", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w = serve(router, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no grant", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/blogs", nil)
		req.Header.Set("Origin", "https://evil.example")

		w := serve(newRouter("http://localhost:5173"), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin preflight is refused", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/blogs", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

		w := serve(newRouter("http://localhost:5173"), req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("same origin requests pass untouched", func(t *testing.T) {
		t.Parallel()

		w := serve(newRouter("http://localhost:5173"), httptest.NewRequest(http.MethodGet, "/api/v1/blogs", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Vary"))
	})
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{"success at info", "/api/v1/blogs?limit=3", http.StatusOK, "INFO"},
		{"client error at warn", "/api/v1/blogs", http.StatusBadRequest, "WARN"},
		{"server error at error", "/api/v1/blogs", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &syncBuffer{}

			router := gin.New()
			router.Use(withLogger(buf), Logging())
			router.GET("/api/v1/blogs", func(c *gin.Context) { c.Status(tt.status) })

			serve(router, httptest.NewRequest(http.MethodGet, tt.path, nil))

			entry := lastLogLine(t, buf)
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, "/api/v1/blogs", entry["route"])
			assert.InDelta(t, float64(tt.status), entry["status"], 0)
		})
	}
}

func TestLogging_SkipsProbesAndListedPaths(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}

	router := gin.New()
	router.Use(withLogger(buf), Logging("/favicon.ico"))
	router.GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(router, httptest.NewRequest(http.MethodGet, "/-/live", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

	assert.Empty(t, buf.String())
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("passes normal requests", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, serve(router, httptest.NewRequest(http.MethodGet, "/test", nil)).Code)
	})

	t.Run("panic becomes 500 envelope", func(t *testing.T) {
		t.Parallel()

		buf := &syncBuffer{}

		router := gin.New()
		router.Use(withLogger(buf), Recovery())
		router.GET("/test", func(*gin.Context) { panic("boom") })

		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)

		entry := lastLogLine(t, buf)
		assert.Equal(t, "panic recovered", entry["msg"])
		assert.Equal(t, "boom", entry["panic"])
		assert.Contains(t, entry["stack"], "runtime/debug.Stack")
	})

	t.Run("panic after write keeps status", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "partial")
			panic("late")
		})

		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(time.Second))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline)
	})

	t.Run("silent slow handler gets 504", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/slow", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := serve(router, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrorCodeTimeout)
	})

	t.Run("handler response wins", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/slow", func(c *gin.Context) {
			<-c.Request.Context().Done()
			dto.HandleError(c, c.Request.Context().Err())
		})

		w := serve(router, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})
}
