package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "opsim.conf")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("LoadFrom missing file: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file did not yield defaults")
	}
}

func TestLoadFrom_PartialOverride(t *testing.T) {
	path := writeConf(t, `
[engine]
tick_interval = "800ms"
seed = 42

[generation]
use_bedrock = true
timeout = "5s"

[log]
level = "debug"

[colors]
critical = "196"
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if got := cfg.Engine.TickInterval.Duration; got != 800*time.Millisecond {
		t.Errorf("TickInterval = %s, want 800ms", got)
	}
	if cfg.Engine.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Engine.Seed)
	}
	if cfg.Engine.PoolCapacity != 6 {
		t.Errorf("PoolCapacity = %d, want default 6", cfg.Engine.PoolCapacity)
	}
	if !cfg.Generation.UseBedrock || cfg.Generation.Timeout.Duration != 5*time.Second {
		t.Errorf("Generation = %+v", cfg.Generation)
	}
	if cfg.Generation.Model != Default().Generation.Model {
		t.Errorf("Model = %q, want default", cfg.Generation.Model)
	}
	if cfg.Colors.Critical != "196" || cfg.Colors.Healthy != Default().Colors.Healthy {
		t.Errorf("Colors critical/healthy = %q/%q", cfg.Colors.Critical, cfg.Colors.Healthy)
	}
	if lvl, _ := cfg.Log.SlogLevel(); lvl != slog.LevelDebug {
		t.Errorf("level = %v, want debug", lvl)
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
		substr  string
	}{
		{"bad toml", "[engine\n", false, "parse"},
		{"bad duration", "[engine]\ntick_interval = \"soon\"\n", false, "parse"},
		{"fast tick", "[engine]\ntick_interval = \"10ms\"\n", true, "engine.tick_interval"},
		{"slow tick", "[engine]\ntick_interval = \"2m\"\n", true, "engine.tick_interval"},
		{"zero pool", "[engine]\npool_capacity = 0\n", true, "engine.pool_capacity"},
		{"bad level", "[log]\nlevel = \"loud\"\n", true, "log.level"},
		{"negative timeout", "[generation]\ntimeout = \"-1s\"\n", true, "generation.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConf(t, tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, ErrInvalid) != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (%v)", !tt.invalid, tt.invalid, err)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("err = %q, want it to mention %q", err, tt.substr)
			}
		})
	}
}

func TestLoadFrom_ZeroTickIntervalUsesDefault(t *testing.T) {
	cfg, err := LoadFrom(writeConf(t, "[engine]\ntick_interval = \"0s\"\n"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got := cfg.Engine.TickInterval.Duration; got != time.Second {
		t.Errorf("TickInterval = %s, want the 1s default", got)
	}

	c := Default()
	c.Engine.TickInterval = Duration{}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate with zero interval: %v", err)
	}
}

func TestPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := Path(), filepath.Join("/tmp/xdg", "opsim", "opsim.conf"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got, want := (Log{}).LogPath(), filepath.Join("/tmp/state", "opsim", "opsim.log"); got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
	if got := (Log{File: "/var/log/x.log"}).LogPath(); got != "/var/log/x.log" {
		t.Errorf("LogPath() = %q", got)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "opsim.conf")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if cfg != Default() {
		t.Error("commented template changed the defaults")
	}

	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(path); err != nil {
		t.Fatalf("second WriteDefault: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "warn") {
		t.Error("WriteDefault overwrote an existing file")
	}
}
