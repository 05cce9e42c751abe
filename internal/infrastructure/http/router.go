// Package http exposes the operational endpoints of the tracker: liveness,
// readiness and Prometheus metrics.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/adinrama/eto-telco-tracking/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// dedup may be nil when Redis is not configured.
func NewRouter(shipments handlers.ShipmentCounter, dedup handlers.Pinger, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug().
				Str("uri", v.URI).
				Int("status", v.Status).
				Str("request_id", v.RequestID).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	healthHandler := handlers.NewHealthHandler(shipments)
	healthDepsHandler := handlers.NewHealthDependenciesHandler(dedup)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
