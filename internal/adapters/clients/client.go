package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/portfolio-service/internal/platform/config"
	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/portfolio-service/internal/adapters/clients"

const defaultTimeout = 10 * time.Second

// Config configures a Client.
type Config struct {
	BaseURL     string
	ServiceName string

	// Timeout bounds a single attempt; retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// Authorize, when set, decorates every attempt.
	Authorize func(*http.Request)

	Logger *slog.Logger
}

// Client calls one upstream over HTTP with retries, a circuit breaker,
// trace propagation and request metrics.
type Client struct {
	http    *http.Client
	cfg     Config
	baseURL string
	logger  *slog.Logger
	breaker *CircuitBreaker

	tracer   trace.Tracer
	duration metric.Float64Histogram
	requests metric.Int64Counter
}

// New creates a client for cfg.ServiceName.
func New(cfg Config) (*Client, error) {
	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("upstream", cfg.ServiceName))

	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Cooldown:      cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
	})
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of outbound HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	requests, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Outbound HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.Transport.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Transport.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Transport.IdleConnTimeout,
	}

	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		cfg:      cfg,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:   logger,
		breaker:  breaker,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		requests: requests,
	}, nil
}

// Get issues a GET for path relative to the base URL. The caller closes the body.
// Responses with status >= 500 are retried; any response that is returned counts
// as a success for the circuit breaker.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	logger := logging.FromContext(ctx).With(
		slog.String("upstream", c.cfg.ServiceName),
		slog.String("path", path),
	)
	start := time.Now()

	if !c.breaker.Allow() {
		c.record(ctx, 0, start, "circuit_open")
		logger.WarnContext(ctx, "upstream call refused by circuit breaker")

		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, "GET "+c.cfg.ServiceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.path", path),
			attribute.String("peer.service", c.cfg.ServiceName),
		),
	)
	defer span.End()

	var lastErr error

	for attempt := range c.cfg.Retry.MaxAttempts {
		if attempt > 0 {
			if err := c.wait(ctx, attempt, logger); err != nil {
				lastErr = err
				break
			}
		}

		resp, err := c.attempt(ctx, path)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			c.breaker.RecordSuccess()
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

			if resp.StatusCode >= http.StatusBadRequest {
				span.SetStatus(codes.Error, resp.Status)
			}

			c.record(ctx, resp.StatusCode, start, fmt.Sprintf("%dxx", resp.StatusCode/100))
			logger.DebugContext(ctx, "upstream call completed",
				slog.Int("status", resp.StatusCode),
				slog.Duration("duration", time.Since(start)),
			)

			return resp, nil
		}

		if err == nil {
			_ = resp.Body.Close()
			err = fmt.Errorf("upstream returned %s", resp.Status)
		} else if !retryable(err) {
			lastErr = err
			break
		}

		lastErr = err
	}

	c.breaker.RecordFailure()
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	c.record(ctx, 0, start, "error")
	logger.ErrorContext(ctx, "upstream call failed",
		slog.Duration("duration", time.Since(start)),
		slog.Any("error", lastErr),
	)

	return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr)
}

func (c *Client) attempt(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	if c.cfg.Authorize != nil {
		c.cfg.Authorize(req)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return c.http.Do(req)
}

func (c *Client) wait(ctx context.Context, attempt int, logger *slog.Logger) error {
	d := c.backoff(attempt)
	logger.DebugContext(ctx, "retrying upstream call",
		slog.Int("attempt", attempt+1),
		slog.Duration("backoff", d),
	)

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CircuitState returns the breaker state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// backoff grows InitialInterval by Multiplier per attempt, caps it at
// MaxInterval and spreads it by +/- JitterFactor.
func (c *Client) backoff(attempt int) time.Duration {
	r := c.cfg.Retry

	d := float64(r.InitialInterval) * math.Pow(r.Multiplier, float64(attempt-1))
	if limit := float64(r.MaxInterval); limit > 0 && d > limit {
		d = limit
	}

	d += d * r.JitterFactor * (rand.Float64()*2 - 1) //nolint:gosec // jitter needs no crypto randomness

	return time.Duration(d)
}

func (c *Client) record(ctx context.Context, status int, start time.Time, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("peer.service", c.cfg.ServiceName),
		attribute.String("result", result),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.response.status_code", status))
	}

	c.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
	c.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// retryable reports whether err is a network failure worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
