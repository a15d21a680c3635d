package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeConfig writes data to a config.toml in a temp dir and returns its path.
func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9019
body_max_bytes = 5242880

[clipboard]
backend = "command"

[notify]
disabled = true
title = "Phone"

[log]
level = "debug"
format = "text"
`)

	cfg, err := Load(&Flags{Config: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9019 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9019)
	}
	if cfg.Server.BodyMaxBytes != 5242880 {
		t.Errorf("Server.BodyMaxBytes = %d, want %d", cfg.Server.BodyMaxBytes, 5242880)
	}
	if cfg.Clipboard.Backend != "command" {
		t.Errorf("Clipboard.Backend = %q, want %q", cfg.Clipboard.Backend, "command")
	}
	if !cfg.Notify.Disabled || cfg.Notify.Title != "Phone" {
		t.Errorf("Notify = %+v, want disabled with title Phone", cfg.Notify)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want debug/text", cfg.Log)
	}
	if cfg.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", cfg.FilePath(), path)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(&Flags{Config: writeConfig(t, "")})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.BodyMaxBytes != 50<<20 {
		t.Errorf("Server.BodyMaxBytes = %d, want %d", cfg.Server.BodyMaxBytes, 50<<20)
	}
	if cfg.Clipboard.Backend != "auto" {
		t.Errorf("Clipboard.Backend = %q, want %q", cfg.Clipboard.Backend, "auto")
	}
	if cfg.Notify.Disabled {
		t.Error("Notify.Disabled = true, want false")
	}
	if cfg.Notify.Title != "Clipbridge" {
		t.Errorf("Notify.Title = %q, want %q", cfg.Notify.Title, "Clipbridge")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "auto" {
		t.Errorf("Log = %+v, want info/auto", cfg.Log)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Metrics.Addr != "127.0.0.1:5020" || cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v, want 127.0.0.1:5020 /metrics", cfg.Metrics)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(&Flags{Config: "/nonexistent/clipbridge.toml"})
	if err == nil {
		t.Fatal("Load() expected error for unreadable explicit path, got nil")
	}
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(&Flags{Config: writeConfig(t, "[server\nport = ")})
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("Load() error = %v, want parse error", err)
	}
}

func TestLoad_FlagOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9019

[clipboard]
backend = "native"

[log]
level = "info"
format = "json"
`)

	cfg, err := Load(&Flags{
		Config:    path,
		Host:      "0.0.0.0",
		Port:      7000,
		LogLevel:  "debug",
		LogFormat: "text",
		Clipboard: "memory",
		NoNotify:  true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7000)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want debug/text", cfg.Log)
	}
	if cfg.Clipboard.Backend != "memory" {
		t.Errorf("Clipboard.Backend = %q, want %q", cfg.Clipboard.Backend, "memory")
	}
	if !cfg.Notify.Disabled {
		t.Error("Notify.Disabled = false, want true")
	}
}

func TestLoad_BackendCaseInsensitive(t *testing.T) {
	cfg, err := Load(&Flags{Config: writeConfig(t, "[clipboard]\nbackend = \"Native\"\n")})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Clipboard.Backend != "native" {
		t.Errorf("Clipboard.Backend = %q, want %q", cfg.Clipboard.Backend, "native")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		flags   Flags
		wantErr string
	}{
		{"negative port", "[server]\nport = -1\n", Flags{}, "server.port"},
		{"port too large", "", Flags{Port: 70000}, "server.port"},
		{"negative body limit", "[server]\nbody_max_bytes = -5\n", Flags{}, "body_max_bytes"},
		{"rate limit without rps", "[server.rate_limit]\nenabled = true\n", Flags{}, "requests_per_second"},
		{"negative burst", "[server.rate_limit]\nenabled = true\nrequests_per_second = 5\nburst = -1\n", Flags{}, "burst"},
		{"unknown backend", "[clipboard]\nbackend = \"pigeon\"\n", Flags{}, "clipboard.backend"},
		{"unknown backend flag", "", Flags{Clipboard: "pigeon"}, "clipboard.backend"},
		{"bad log level", "[log]\nlevel = \"verbose\"\n", Flags{}, "log.level"},
		{"bad log format", "[log]\nformat = \"xml\"\n", Flags{}, "log.format"},
		{"metrics path no slash", "[metrics]\nenabled = true\npath = \"metrics\"\n", Flags{}, "must start with"},
		{"metrics path reserved", "[metrics]\nenabled = true\npath = \"/healthz\"\n", Flags{}, "conflicts"},
		{"metrics path reserved subpath", "[metrics]\nenabled = true\npath = \"/status/prom\"\n", Flags{}, "conflicts"},
		{"metrics addr", "[metrics]\nenabled = true\naddr = \"5020\"\n", Flags{}, "metrics.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := tt.flags
			flags.Config = writeConfig(t, tt.data)
			_, err := Load(&flags)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MetricsDisabledSkipsValidation(t *testing.T) {
	_, err := Load(&Flags{Config: writeConfig(t, "[metrics]\nenabled = false\npath = \"no-slash\"\naddr = \"bogus\"\n")})
	if err != nil {
		t.Fatalf("Load() error = %v; disabled metrics should not be validated", err)
	}
}

func TestLoad_RateLimitBurstDefault(t *testing.T) {
	tests := []struct {
		rps  string
		want int
	}{
		{"0.5", 1},
		{"10", 10},
	}
	for _, tt := range tests {
		t.Run(tt.rps, func(t *testing.T) {
			cfg, err := Load(&Flags{Config: writeConfig(t, "[server.rate_limit]\nenabled = true\nrequests_per_second = "+tt.rps+"\n")})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Server.RateLimit.Burst != tt.want {
				t.Errorf("Burst = %d, want %d", cfg.Server.RateLimit.Burst, tt.want)
			}
		})
	}
}

func TestWarnPermissions_GroupWritable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on Windows")
	}
	path := writeConfig(t, "# test")
	if err := os.Chmod(path, 0o666); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{filePath: path}
	var buf bytes.Buffer
	cfg.WarnPermissions(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if !strings.Contains(buf.String(), "writable by group/others") {
		t.Errorf("expected permission warning, got: %q", buf.String())
	}
}

func TestWarnPermissions_Strict(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on Windows")
	}
	path := writeConfig(t, "# test")
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{filePath: path}
	var buf bytes.Buffer
	cfg.WarnPermissions(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if buf.Len() != 0 {
		t.Errorf("expected no warning for 0644 file, got: %q", buf.String())
	}
}

func TestWarnPermissions_NoFile(t *testing.T) {
	var buf bytes.Buffer
	(&Config{}).WarnPermissions(slog.New(slog.NewTextHandler(&buf, nil)))
	if buf.Len() != 0 {
		t.Errorf("expected no output without a config file, got: %q", buf.String())
	}
}

func TestFindConfigInPaths(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.toml")
	second := filepath.Join(dir, "b.toml")
	for _, p := range []string{first, second} {
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"first match wins", []string{first, second}, first},
		{"skips missing", []string{filepath.Join(dir, "missing.toml"), second}, second},
		{"none", []string{"/nonexistent/a.toml"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findConfigInPaths(tt.paths); got != tt.want {
				t.Errorf("findConfigInPaths() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchPaths(t *testing.T) {
	paths := SearchPaths()
	if paths[0] != "/etc/clipbridge/config.toml" {
		t.Errorf("first search path = %q", paths[0])
	}
	if paths[len(paths)-1] != "configs/config.toml" {
		t.Errorf("last search path = %q", paths[len(paths)-1])
	}
}

func TestServerConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 5019, "0.0.0.0:5019"},
		{"127.0.0.1", 0, "127.0.0.1:0"},
		{"::1", 5019, "[::1]:5019"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			sc := &ServerConfig{Host: tt.host, Port: tt.port}
			if got := sc.Addr(); got != tt.want {
				t.Errorf("Addr() = %q, want %q", got, tt.want)
			}
		})
	}
}
