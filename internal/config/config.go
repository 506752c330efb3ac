package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration written as a string ("1s", "800ms") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Colors holds color values for every UI style.
// Values can be xterm-256 codes (0-255) or hex colors (#rrggbb).
type Colors struct {
	Title      string `toml:"title"`
	Header     string `toml:"header"`
	SelectedBG string `toml:"selected_bg"`
	SelectedFG string `toml:"selected_fg"`
	Healthy    string `toml:"healthy"`
	Warning    string `toml:"warning"`
	Critical   string `toml:"critical"`
	Queue      string `toml:"queue"`
	Processing string `toml:"processing"`
	Validating string `toml:"validating"`
	Success    string `toml:"success"`
	Revenue    string `toml:"revenue"`
	Help       string `toml:"help"`
	HelpActive string `toml:"help_active"`
	Border     string `toml:"border"`
	Separator  string `toml:"separator"`
	Error      string `toml:"error"`
	Logo       string `toml:"logo"`
	Paused     string `toml:"paused"`
}

// Engine holds simulation settings.
type Engine struct {
	TickInterval Duration `toml:"tick_interval"`
	// Seed fixes the random source. Zero seeds from the clock.
	Seed         uint64 `toml:"seed"`
	PoolCapacity int    `toml:"pool_capacity"`
}

// Generation configures the text-generation service used by agent chat.
type Generation struct {
	Model      string   `toml:"model"`
	APIKey     string   `toml:"api_key"`
	UseBedrock bool     `toml:"use_bedrock"`
	AWSRegion  string   `toml:"aws_region"`
	AWSProfile string   `toml:"aws_profile"`
	Timeout    Duration `toml:"timeout"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Config is the top-level configuration.
type Config struct {
	Engine     Engine     `toml:"engine"`
	Generation Generation `toml:"generation"`
	Log        Log        `toml:"log"`
	Colors     Colors     `toml:"colors"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Engine: Engine{
			TickInterval: Duration{time.Second},
			PoolCapacity: 6,
		},
		Generation: Generation{
			Model:     "claude-haiku-4-5-20251001",
			AWSRegion: "us-west-2",
			Timeout:   Duration{30 * time.Second},
		},
		Log: Log{
			Level: "info",
		},
		Colors: Colors{
			Title:      "#cba6f7", // Mauve
			Header:     "#89b4fa", // Blue
			SelectedBG: "#313244", // Surface 0
			SelectedFG: "#cdd6f4", // Text
			Healthy:    "#a6e3a1", // Green
			Warning:    "#f9e2af", // Yellow
			Critical:   "#f38ba8", // Red
			Queue:      "#7f849c", // Overlay 1
			Processing: "#89b4fa", // Blue
			Validating: "#94e2d5", // Teal
			Success:    "#a6e3a1", // Green
			Revenue:    "#fab387", // Peach
			Help:       "#7f849c", // Overlay 1
			HelpActive: "#bac2de", // Subtext 1
			Border:     "#585b70", // Surface 2
			Separator:  "#585b70", // Surface 2
			Error:      "#f38ba8", // Red
			Logo:       "#cba6f7", // Mauve
			Paused:     "#f5c2e7", // Pink
		},
	}
}

// Load reads the config file at Path.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path and returns a Config. Omitted
// fields keep their default values. If the file does not exist, defaults are
// returned with no error.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Engine.TickInterval.Duration == 0 {
		cfg.Engine.TickInterval = Default().Engine.TickInterval
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

const (
	minTickInterval = 100 * time.Millisecond
	maxTickInterval = time.Minute
	maxPoolCapacity = 64
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks value ranges. A zero tick interval means the default.
func (c Config) Validate() error {
	var errs []error
	if d := c.Engine.TickInterval.Duration; d != 0 && (d < minTickInterval || d > maxTickInterval) {
		errs = append(errs, fmt.Errorf("engine.tick_interval %s not in [%s, %s]", d, minTickInterval, maxTickInterval))
	}
	if n := c.Engine.PoolCapacity; n < 1 || n > maxPoolCapacity {
		errs = append(errs, fmt.Errorf("engine.pool_capacity %d not in [1, %d]", n, maxPoolCapacity))
	}
	if c.Generation.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("generation.timeout must not be negative"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// SlogLevel maps the configured level name to a slog.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q is not one of debug, info, warn, error", l.Level)
}

// LogPath returns the configured log file or DefaultLogPath.
func (l Log) LogPath() string {
	if l.File != "" {
		return l.File
	}
	return DefaultLogPath()
}

const defaultFileContent = `# opsim configuration
# Uncomment and modify values to customize. All values are optional.
# Colors can be hex (#rrggbb) or xterm-256 codes (0-255).
# Defaults use the Catppuccin Mocha palette.

[engine]
# tick_interval = "1s"   # 100ms to 1m, 0 for the default
# seed          = 0      # 0 seeds from the clock
# pool_capacity = 6      # maximum in-flight tasks

[generation]
# model       = "claude-haiku-4-5-20251001"
# api_key     = ""        # falls back to ANTHROPIC_API_KEY
# use_bedrock = false
# aws_region  = "us-west-2"
# aws_profile = ""
# timeout     = "30s"

[log]
# level = "info"   # debug, info, warn, error
# file  = ""       # defaults to ~/.local/state/opsim/opsim.log

[colors]
# title       = "#cba6f7"  # Mauve
# header      = "#89b4fa"  # Blue
# selected_bg = "#313244"  # Surface 0
# selected_fg = "#cdd6f4"  # Text
# healthy     = "#a6e3a1"  # Green
# warning     = "#f9e2af"  # Yellow
# critical    = "#f38ba8"  # Red
# queue       = "#7f849c"  # Overlay 1
# processing  = "#89b4fa"  # Blue
# validating  = "#94e2d5"  # Teal
# success     = "#a6e3a1"  # Green
# revenue     = "#fab387"  # Peach
# help        = "#7f849c"  # Overlay 1
# help_active = "#bac2de"  # Subtext 1
# border      = "#585b70"  # Surface 2
# separator   = "#585b70"  # Surface 2
# error       = "#f38ba8"  # Red
# logo        = "#cba6f7"  # Mauve
# paused      = "#f5c2e7"  # Pink
`

// WriteDefault writes the default config file with all values commented out.
// It no-ops if the file already exists. Parent directories are created as needed.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // file already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultFileContent), 0o644)
}
