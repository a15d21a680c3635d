package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clipbridge/internal/clipboard"
	"clipbridge/internal/config"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves the admin listener's health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	sink    clipboard.Sink
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, sink clipboard.Sink, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, sink: sink, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status reports the version, the clip endpoint and the active clipboard
// backend.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":        "ok",
		"version":       string(h.version),
		"listen":        h.cfg.Server.Addr(),
		"clipboard":     h.sink.Name(),
		"notifications": !h.cfg.Notify.Disabled,
	})
}
