package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/abdofull/LibyaParts/docs"
	"github.com/abdofull/LibyaParts/internal/api/handler"
	"github.com/abdofull/LibyaParts/internal/api/middleware"
	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

const bodyLimit = "10M"

// Dependencies is everything the HTTP layer needs. Services are built by the
// caller so the same router serves both the Mongo and the in-memory store.
type Dependencies struct {
	Log zerolog.Logger

	Tokens middleware.TokenParser
	Users  middleware.UserFinder

	Auth     ports.AuthService
	Parts    ports.PartService
	Requests ports.RequestService
	Admin    ports.AdminService

	// RequireApproval mounts the merchant approval gate.
	RequireApproval bool
	// CORSOrigins lists allowed origins; empty allows any.
	CORSOrigins []string

	// Metrics, when set, receives the HTTP metrics and is exposed on /metrics.
	Metrics *prometheus.Registry
	// ReadinessChecks are run by /health/ready.
	ReadinessChecks map[string]handler.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	if deps.Metrics != nil {
		mw, err := echoprometheus.MiddlewareConfig{
			Namespace:  "marketplace",
			Subsystem:  "http",
			Registerer: deps.Metrics,
		}.ToMiddleware()
		if err != nil {
			deps.Log.Error().Err(err).Msg("http metrics disabled")
		} else {
			e.Use(mw)
		}
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.Metrics,
		}))
	}

	// --- Health probes and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.ReadinessChecks).Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(deps.Auth)
	partHandler := handler.NewPartHandler(deps.Parts)
	requestHandler := handler.NewRequestHandler(deps.Requests)
	adminHandler := handler.NewAdminHandler(deps.Admin)

	auth := middleware.Auth(deps.Tokens, deps.Users)
	merchant := []echo.MiddlewareFunc{auth, middleware.RequireRole(domain.RoleMerchant)}
	if deps.RequireApproval {
		merchant = append(merchant, middleware.RequireApproved())
	}

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, auth)

	// --- Parts ---
	api.GET("/parts", partHandler.List)
	api.GET("/parts/my", partHandler.ListMine, merchant...)
	api.POST("/parts", partHandler.Create, merchant...)
	api.PUT("/parts/:id", partHandler.Update, merchant...)
	api.DELETE("/parts/:id", partHandler.Delete, merchant...)

	// --- Customer requests ---
	api.POST("/requests", requestHandler.Create)
	api.GET("/requests", requestHandler.List, merchant...)
	api.PUT("/requests/:id", requestHandler.UpdateStatus, merchant...)
	api.GET("/stats", requestHandler.Stats, merchant...)

	// --- Admin ---
	admin := api.Group("/admin", auth, middleware.RequireAdmin())
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/approve", adminHandler.Approve)
	admin.PUT("/users/:id/reject", adminHandler.Reject)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)

	return e
}

// requestLogger feeds one structured line per request into zerolog.
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
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
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
