package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/arogyamitra/internal/auth"
	"github.com/geocoder89/arogyamitra/internal/config"
	"github.com/geocoder89/arogyamitra/internal/credentials"
	"github.com/geocoder89/arogyamitra/internal/http/handlers"
	"github.com/geocoder89/arogyamitra/internal/http/middlewares"
	"github.com/geocoder89/arogyamitra/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the services the routes are built on. Tokens and Gatherer are
// optional.
type Deps struct {
	Credentials *credentials.Service
	Reports     handlers.ReportStore
	Diagnoser   handlers.Diagnoser
	Tokens      *auth.Manager
	Prom        *observability.Prom
	Gatherer    prometheus.Gatherer
	ReadyChecks map[string]handlers.Pinger
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	if cfg.OTelEnabled {
		r.Use(otelgin.Middleware(observability.ServiceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORS(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health
	h := handlers.NewHealthHandler(deps.ReadyChecks)
	r.GET("/api/health", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// a nil *auth.Manager must not reach the interfaces as a non-nil value
	var (
		issuer   handlers.TokenIssuer
		verifier middlewares.TokenVerifier
	)
	if deps.Tokens != nil {
		issuer = deps.Tokens
		verifier = deps.Tokens
	}

	var owners handlers.UserChecker
	if cfg.ValidateReportOwner {
		owners = deps.Credentials
	}

	authHandler := handlers.NewAuthHandler(deps.Credentials, issuer)
	assessHandler := handlers.NewAssessmentHandler(deps.Diagnoser, deps.Reports, owners, deps.Prom)
	reportsHandler := handlers.NewReportsHandler(deps.Reports)
	facilitiesHandler := handlers.NewFacilitiesHandler()

	authMw := middlewares.NewAuthMiddleware(verifier)
	limiter := middlewares.NewRateLimiter(cfg.RateLimitAssessPerMin, time.Minute)

	api := r.Group("/api")
	api.Use(authMw.OptionalAuth())
	{
		api.POST("/register", middlewares.RequireJSON(), authHandler.Register)
		api.POST("/login", middlewares.RequireJSON(), authHandler.Login)

		api.POST("/assess-symptoms",
			limiter.Middleware(middlewares.KeyByUserOrIP),
			middlewares.RequireJSON(),
			assessHandler.Assess,
		)

		api.GET("/user-reports/:user_id", reportsHandler.ListForUser)
		api.GET("/nearby-facilities", facilitiesHandler.Nearby)
	}

	return r
}
