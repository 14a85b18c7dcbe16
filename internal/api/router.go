package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/photoevents/photo-api/internal/api/handler"
	"github.com/photoevents/photo-api/internal/api/middleware"
	"github.com/photoevents/photo-api/internal/core/domain"
	"github.com/photoevents/photo-api/internal/core/ports"
)

const defaultUploadBodyLimit = "2100M"

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth   ports.AuthService
	Events ports.EventService
	Photos ports.PhotoService

	JWTSecret     string
	UploadMaxBody string // echo BodyLimit syntax, e.g. "2100M"

	// Checks feed the readiness probe.
	Checks []handler.DependencyCheck

	// Registerer receives the request metrics; nil means the default registry.
	Registerer prometheus.Registerer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "photoapi",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	eventHandler := handler.NewEventHandler(d.Events)
	photoHandler := handler.NewPhotoHandler(d.Photos)

	auth := middleware.Auth(d.JWTSecret, d.Log)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	uploaders := middleware.RBAC(domain.RolePhotographer, domain.RoleAdmin)

	uploadLimit := d.UploadMaxBody
	if uploadLimit == "" {
		uploadLimit = defaultUploadBodyLimit
	}

	// --- Ops (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth & profile ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/user/me", authHandler.Me, auth)

	// --- Events ---
	events := api.Group("/events")
	events.GET("", eventHandler.List)
	events.GET("/:id", eventHandler.Get)
	events.POST("", eventHandler.Create, auth, adminOnly)
	events.PUT("/:id", eventHandler.Update, auth, adminOnly)
	events.DELETE("/:id", eventHandler.Delete, auth, adminOnly)

	// --- Photos ---
	// Deletion checks the role itself so that malformed id lists are
	// reported before permissions.
	photos := api.Group("/photos")
	photos.POST("", photoHandler.Upload, echomiddleware.BodyLimit(uploadLimit), auth, uploaders)
	photos.DELETE("", photoHandler.Delete, auth)
	photos.GET("/event/:eventId", photoHandler.ListByEvent)
	photos.DELETE("/event/:eventId", photoHandler.DeleteInEvent, auth)
	photos.GET("/event/:eventId/photographer/:userId", photoHandler.ListByEventAndPhotographer)
	photos.GET("/:id/file", photoHandler.Download)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error()
			case v.Status >= 400:
				ev = log.Warn()
			}
			if v.Error != nil {
				ev = ev.Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
