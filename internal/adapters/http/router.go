package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/portfolio-service/internal/app"
	"github.com/jsamuelsen/portfolio-service/internal/platform/config"
	"github.com/jsamuelsen/portfolio-service/internal/platform/telemetry"
)

// APIPrefix is the base path of every business route.
const APIPrefix = "/api/v1"

// Services are the application services exposed over HTTP.
type Services struct {
	Blogs        *app.BlogService
	Projects     *app.ProjectService
	Certificates *app.CertificateService
	Gallery      *app.GalleryService
	Contacts     *app.ContactService
	Quotes       *app.QuoteService
	Home         *app.HomeService
	Auth         *app.AuthService
}

// RouteRegistrar adds a handler's routes. Public routes are anonymous and
// admin routes sit behind token authentication.
type RouteRegistrar interface {
	RegisterRoutes(public, admin *gin.RouterGroup)
}

func (s *Services) registrars() []RouteRegistrar {
	return []RouteRegistrar{
		handlers.NewAuthHandler(s.Auth),
		handlers.NewHomeHandler(s.Home),
		handlers.NewBlogHandler(s.Blogs),
		handlers.NewProjectHandler(s.Projects),
		handlers.NewCertificateHandler(s.Certificates),
		handlers.NewAlbumHandler(s.Gallery),
		handlers.NewPhotoHandler(s.Gallery),
		handlers.NewContactHandler(s.Contacts),
		handlers.NewQuoteHandler(s.Quotes),
	}
}

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// ServiceName names the otelgin spans.
	ServiceName string

	// RequestTimeout bounds every /api/v1 request. Zero disables it.
	RequestTimeout time.Duration

	CORS config.CORSConfig

	HealthHandler *handlers.HealthHandler

	Services *Services
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware runs in this order:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and request metrics
//  5. CORS
//  6. Logging (skips /-/ probes)
//  7. Timeout, on /api/v1 only
//
// Route groups:
//   - /-/: health, build info and metrics, never authenticated
//   - /api/v1/: anonymous reads plus token-protected admin writes
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(
		middleware.CORS(cfg.CORS.AllowedOrigins, cfg.CORS.MaxAge),
		middleware.Logging(),
	)

	engine.NoRoute(func(c *gin.Context) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeNotFound, "route not found")
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine.Group("/-"))
	}

	if cfg.Services == nil {
		return
	}

	public := engine.Group(APIPrefix)
	if cfg.RequestTimeout > 0 {
		public.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	admin := public.Group("", middleware.RequireToken(cfg.Services.Auth))

	for _, r := range cfg.Services.registrars() {
		r.RegisterRoutes(public, admin)
	}
}
