package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/appointment"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/audit"
	authhandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/auth"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/billing"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/claim"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/diagnosis"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/health"
	locationhandler "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/location"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/note"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/patient"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/handler/timeline"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/auth"
)

type Handlers struct {
	Health      *health.Handler
	Auth        *authhandler.Handler
	Location    *locationhandler.Handler
	Patient     *patient.Handler
	Note        *note.Handler
	Timeline    *timeline.Handler
	Diagnosis   *diagnosis.Handler
	Appointment *appointment.Handler
	Billing     *billing.Handler
	Claim       *claim.Handler
	Audit       *audit.Handler
}

type Config struct {
	RateLimitPerSecond float64
	RateLimitBurst     int
	CORS               middleware.CORSConfig
	Timeout            middleware.TimeoutConfig
}

func DefaultConfig() Config {
	return Config{
		RateLimitPerSecond: 50,
		RateLimitBurst:     100,
		CORS:               middleware.DefaultCORSConfig(),
		Timeout:            middleware.DefaultTimeoutConfig(),
	}
}

// New assembles the gin engine: global middleware, the public surface,
// and the authenticated, location-scoped API under /api/v1.
func New(
	tokens *auth.TokenManager,
	locationMW *middleware.LocationMiddleware,
	handlers Handlers,
	cfg Config,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
		middleware.Timeout(cfg.Timeout),
		limiter.RateLimit(),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.Health.RegisterRoutes(engine)

	api := engine.Group("/api/v1")
	handlers.Auth.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.Auth(tokens))
	{
		// Tenant-independent surface: user management and the
		// location picker.
		handlers.Auth.RegisterRoutes(authed)
		handlers.Location.RegisterRoutes(authed)
	}

	scoped := api.Group("")
	scoped.Use(middleware.Auth(tokens), locationMW.Resolve())
	{
		handlers.Patient.RegisterRoutes(scoped)
		handlers.Note.RegisterRoutes(scoped)
		handlers.Timeline.RegisterRoutes(scoped)
		handlers.Diagnosis.RegisterRoutes(scoped)
		handlers.Appointment.RegisterRoutes(scoped)
		handlers.Billing.RegisterRoutes(scoped)
		handlers.Claim.RegisterRoutes(scoped)
		handlers.Audit.RegisterRoutes(scoped)
	}

	return engine
}
