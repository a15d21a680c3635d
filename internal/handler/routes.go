package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clipbridge/internal/metrics"
)

// RegisterRoutes wires the clip listener. It carries exactly one route.
func RegisterRoutes(e *echo.Echo, clip *ClipHandler) {
	e.Any("/clip", clip.Handle)
}

// RegisterAdminRoutes wires health, status and Prometheus metrics onto the
// admin listener.
func RegisterAdminRoutes(e *echo.Echo, health *HealthHandler, m *metrics.Metrics, metricsPath string) {
	e.GET("/healthz", health.Healthz)
	e.GET("/status", health.Status)
	e.GET(metricsPath, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
}
