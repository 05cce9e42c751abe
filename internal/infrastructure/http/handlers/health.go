package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ShipmentCounter reports how many shipments the registry holds.
type ShipmentCounter interface {
	Len() int
}

// Pinger checks a dependency. go-redis clients satisfy it through PingFunc.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct {
	shipments ShipmentCounter
}

func NewHealthHandler(shipments ShipmentCounter) *HealthHandler {
	return &HealthHandler{shipments: shipments}
}

type livenessResponse struct {
	Status    string `json:"status"`
	Shipments int    `json:"shipments"`
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, livenessResponse{
		Status:    "ok",
		Shipments: h.shipments.Len(),
	})
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// A nil dedup store is reported as disabled and does not fail readiness.
type HealthDependenciesHandler struct {
	dedup Pinger
}

func NewHealthDependenciesHandler(dedup Pinger) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{dedup: dedup}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	switch {
	case h.dedup == nil:
		deps["redis"] = dependencyStatus{Status: "disabled"}
	default:
		if err := h.dedup.Ping(ctx); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
