// Package app owns the bridge's listeners, HTTP servers and clipboard sink
// for the lifetime of the process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"clipbridge/internal/clipboard"
	"clipbridge/internal/config"
	"clipbridge/internal/handler"
	"clipbridge/internal/metrics"
	"clipbridge/internal/middleware"
)

// App is the running bridge. The admin server is nil when metrics are
// disabled.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	sink   clipboard.Sink

	clip  *echo.Echo
	admin *echo.Echo

	clipAddr  net.Addr
	adminAddr net.Addr
}

// New builds both servers and registers their routes. Nothing listens until
// Start.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	sink clipboard.Sink,
	clip *handler.ClipHandler,
	health *handler.HealthHandler,
) *App {
	a := &App{
		cfg:    cfg,
		logger: logger.With("component", "app"),
		sink:   sink,
		clip:   newClipServer(cfg, logger, m),
	}
	handler.RegisterRoutes(a.clip, clip)

	if cfg.Metrics.Enabled {
		a.admin = newAdminServer(logger)
		handler.RegisterAdminRoutes(a.admin, health, m, cfg.Metrics.Path)
	}
	return a
}

func newEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler(logger)

	// Inbound timeouts to mitigate slow clients. Bodies are buffered in full,
	// so a generous read timeout covers large screenshots over Wi-Fi.
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Server.ReadTimeout = 60 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 120 * time.Second
	return e
}

func newClipServer(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *echo.Echo {
	e := newEcho(logger)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.MetricsMiddleware(m))
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dB", cfg.Server.BodyMaxBytes)))
	e.Use(middleware.SecurityHeaders())

	if rl := cfg.Server.RateLimit; rl.Enabled {
		e.Use(middleware.RateLimiter(rl.RequestsPerSecond, rl.Burst))
		logger.Info("rate limiter enabled", "rps", rl.RequestsPerSecond, "burst", rl.Burst)
	}
	return e
}

func newAdminServer(logger *slog.Logger) *echo.Echo {
	e := newEcho(logger)
	e.Use(echomw.Recover())
	e.Use(middleware.SecurityHeaders())
	return e
}

// Start binds the listeners and serves in the background. A bind failure
// on either listener releases the other.
func (a *App) Start(_ context.Context) error {
	clipLn, err := net.Listen("tcp", a.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("bind %s: %w", a.cfg.Server.Addr(), err)
	}

	var adminLn net.Listener
	if a.admin != nil {
		adminLn, err = net.Listen("tcp", a.cfg.Metrics.Addr)
		if err != nil {
			_ = clipLn.Close()
			return fmt.Errorf("bind admin %s: %w", a.cfg.Metrics.Addr, err)
		}
	}

	a.clipAddr = clipLn.Addr()
	go a.serve("clip", a.clip, clipLn)

	if adminLn != nil {
		a.adminAddr = adminLn.Addr()
		go a.serve("admin", a.admin, adminLn)
		a.logger.Info("admin endpoints listening",
			"addr", a.adminAddr.String(),
			"metrics", a.cfg.Metrics.Path,
		)
	}

	a.logger.Info("clipbridge started",
		"url", fmt.Sprintf("http://%s/clip", a.clipAddr),
		"clipboard", a.sink.Name(),
		"accepts", "application/json, multipart/form-data, image/*",
	)
	return nil
}

func (a *App) serve(name string, e *echo.Echo, ln net.Listener) {
	if err := e.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("server error", "server", name, "err", err)
	}
}

// Stop shuts both servers down gracefully, releasing their ports, and then
// closes the clipboard sink.
func (a *App) Stop(ctx context.Context) error {
	a.logger.Info("shutting down")

	var errs []error
	if err := a.clip.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clip server: %w", err))
	}
	if a.admin != nil {
		if err := a.admin.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server: %w", err))
		}
	}
	a.sink.Close()
	return errors.Join(errs...)
}

// Addr returns the clip listener's bound address, or nil before Start.
func (a *App) Addr() net.Addr { return a.clipAddr }

// AdminAddr returns the admin listener's bound address, or nil when it is
// not running.
func (a *App) AdminAddr() net.Addr { return a.adminAddr }
