// Package config handles TOML configuration loading and validation.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPort is the port the bridge has always listened on.
const DefaultPort = 5019

// Clipboard backends accepted in [clipboard] backend. Kept in sync with
// package clipboard.
var clipboardBackends = []string{"auto", "native", "command", "memory"}

// Flags holds the serve command's flags. Non-zero values override the file.
type Flags struct {
	Config    string `kong:"short='c',help='Path to TOML config file.',env='CLIPBRIDGE_CONFIG'"`
	Host      string `kong:"help='Listen host (overrides config).',env='CLIPBRIDGE_HOST'"`
	Port      int    `kong:"short='p',help='Listen port (overrides config).',env='CLIPBRIDGE_PORT'"`
	LogLevel  string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='CLIPBRIDGE_LOG_LEVEL'"`
	LogFormat string `kong:"help='Log format: auto|text|json (overrides config).',env='CLIPBRIDGE_LOG_FORMAT'"`
	Clipboard string `kong:"help='Clipboard backend: auto|native|command|memory (overrides config).',env='CLIPBRIDGE_CLIPBOARD'"`
	NoNotify  bool   `kong:"help='Disable desktop notifications.',env='CLIPBRIDGE_NO_NOTIFY'"`
}

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Notify    NotifyConfig    `toml:"notify"`
	Log       LogConfig       `toml:"log"`
	Metrics   MetricsConfig   `toml:"metrics"`

	filePath string
}

// ServerConfig holds the clip listener settings.
type ServerConfig struct {
	Host         string          `toml:"host"`
	Port         int             `toml:"port"` // 0 means DefaultPort; TOML cannot distinguish 0 from unset
	BodyMaxBytes int64           `toml:"body_max_bytes"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig controls per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// ClipboardConfig selects the clipboard backend.
type ClipboardConfig struct {
	Backend string `toml:"backend"`
}

// NotifyConfig controls desktop notifications.
type NotifyConfig struct {
	Disabled bool   `toml:"disabled"`
	Title    string `toml:"title"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig holds the admin listener settings. It serves Prometheus
// metrics, /healthz and /status.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
	Path    string `toml:"path"`
}

// SearchPaths lists the config files tried, in order, when --config is not
// given. A missing file is not an error; the defaults apply.
func SearchPaths() []string {
	paths := []string{"/etc/clipbridge/config.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "clipbridge", "config.toml"))
	}
	return append(paths, "configs/config.toml")
}

// Load reads the config file, if any, and applies flag overrides. An explicit
// path that cannot be read is an error.
func Load(flags *Flags) (*Config, error) {
	path := flags.Config
	if path == "" {
		path = findConfigInPaths(SearchPaths())
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.filePath = path
	}

	cfg.applyFlags(flags)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// FilePath returns the config file that was loaded, or "" when running on
// defaults.
func (c *Config) FilePath() string {
	return c.filePath
}

func (c *Config) applyFlags(f *Flags) {
	if f.Host != "" {
		c.Server.Host = f.Host
	}
	if f.Port != 0 {
		c.Server.Port = f.Port
	}
	if f.LogLevel != "" {
		c.Log.Level = f.LogLevel
	}
	if f.LogFormat != "" {
		c.Log.Format = f.LogFormat
	}
	if f.Clipboard != "" {
		c.Clipboard.Backend = f.Clipboard
	}
	if f.NoNotify {
		c.Notify.Disabled = true
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535; got %d", c.Server.Port)
	}
	if c.Server.BodyMaxBytes < 0 {
		return fmt.Errorf("server.body_max_bytes must be non-negative; got %d", c.Server.BodyMaxBytes)
	}
	if rl := c.Server.RateLimit; rl.Enabled {
		if rl.RequestsPerSecond <= 0 {
			return fmt.Errorf("server.rate_limit.requests_per_second must be > 0 when rate limiting is enabled; got %v", rl.RequestsPerSecond)
		}
		if rl.Burst < 0 {
			return fmt.Errorf("server.rate_limit.burst must be non-negative; got %d", rl.Burst)
		}
	}

	backend := strings.ToLower(c.Clipboard.Backend)
	if backend != "" && !slices.Contains(clipboardBackends, backend) {
		return fmt.Errorf("clipboard.backend must be one of: %s; got %q",
			strings.Join(clipboardBackends, ", "), c.Clipboard.Backend)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "auto", "json", "text", "":
	default:
		return fmt.Errorf("log.format must be one of: auto, json, text; got %q", c.Log.Format)
	}

	if !c.Metrics.Enabled {
		return nil
	}
	if p := c.Metrics.Path; p != "" {
		if p[0] != '/' {
			return fmt.Errorf("metrics.path must start with '/'; got %q", p)
		}
		for _, reserved := range []string{"/healthz", "/status"} {
			if p == reserved || strings.HasPrefix(p, reserved+"/") {
				return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, reserved)
			}
		}
	}
	if a := c.Metrics.Addr; a != "" {
		if _, _, err := net.SplitHostPort(a); err != nil {
			return fmt.Errorf("metrics.addr must be host:port: %w", err)
		}
	}
	return nil
}

// setDefaults fills zero-valued fields. Port 0 in the file therefore means
// DefaultPort; tests that need an ephemeral port build Config directly.
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 50 << 20
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = max(1, int(c.Server.RateLimit.RequestsPerSecond))
	}
	c.Clipboard.Backend = strings.ToLower(c.Clipboard.Backend)
	if c.Clipboard.Backend == "" {
		c.Clipboard.Backend = "auto"
	}
	if c.Notify.Title == "" {
		c.Notify.Title = "Clipbridge"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = "127.0.0.1:5020"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// findConfigInPaths returns the first path that exists on disk, or "".
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the clip listener address as host:port.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// WarnPermissions logs a warning if the config file is writable by group or
// others, since it controls which interface the bridge listens on.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o022 != 0 {
		logger.Warn("config file is writable by group/others; consider chmod 644",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
}
