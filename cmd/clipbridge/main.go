package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"clipbridge/internal/app"
	"clipbridge/internal/client"
	"clipbridge/internal/clipboard"
	"clipbridge/internal/config"
	"clipbridge/internal/handler"
	"clipbridge/internal/logging"
	"clipbridge/internal/metrics"
	"clipbridge/internal/notify"
	"clipbridge/internal/service"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI is the root command line.
type CLI struct {
	Version kong.VersionFlag `help:"Print version and exit."`

	Serve ServeCmd `cmd:"" default:"withargs" help:"Run the clipboard bridge (default)."`
	Send  SendCmd  `cmd:"" help:"Push text or an image to a running bridge."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("clipbridge"),
		kong.Description("Copy text and images to this machine's clipboard over HTTP."),
		kong.UsageOnError(),
		kong.Vars{
			"version":     fmt.Sprintf("%s (%s, %s)", version, commit, date),
			"default_url": client.DefaultURL,
		},
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// ServeCmd runs the bridge until SIGINT or SIGTERM.
type ServeCmd struct {
	config.Flags `embed:""`
}

// Run starts the fx application and blocks.
func (s *ServeCmd) Run() error {
	fx.New(
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: logger.With("component", "fx")}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
		fx.Provide(
			func() *config.Flags { return &s.Flags },
			func() handler.Version { return handler.Version(version) },
			config.Load,
			newLogger,
			metrics.New,
			newSink,
			newNotifier,
			service.NewClipService,
			handler.NewClipHandler,
			handler.NewHealthHandler,
			app.New,
		),
		fx.Invoke(warnConfigPermissions, registerLifecycle),
	).Run()
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(os.Stderr, logging.ParseFormat(cfg.Log.Format), logging.ParseLevel(cfg.Log.Level))
	slog.SetDefault(logger)
	return logger
}

func newSink(cfg *config.Config, logger *slog.Logger) (clipboard.Sink, error) {
	return clipboard.New(cfg.Clipboard.Backend, logger.With("component", "clipboard"))
}

func newNotifier(cfg *config.Config, logger *slog.Logger) notify.Notifier {
	return notify.New(cfg.Notify.Disabled, cfg.Notify.Title, logger.With("component", "notify"))
}

func warnConfigPermissions(cfg *config.Config, logger *slog.Logger) {
	if cfg.FilePath() == "" {
		logger.Info("no config file found, using defaults", "searched", config.SearchPaths())
		return
	}
	logger.Debug("loaded config", "path", cfg.FilePath())
	cfg.WarnPermissions(logger)
}

func registerLifecycle(lc fx.Lifecycle, a *app.App) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return a.Start(ctx) },
		OnStop:  func(ctx context.Context) error { return a.Stop(ctx) },
	})
}
