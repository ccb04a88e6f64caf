package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthStatus is returned by /healthz for monitoring tools
type HealthStatus struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Backend string `json:"backend"`
}

// HealthHandler reports liveness
type HealthHandler struct {
	startTime time.Time
	backend   string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{startTime: time.Now(), backend: backend}
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:  "healthy",
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Backend: h.backend,
	})
}
