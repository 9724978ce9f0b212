package cloudxr

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds bridge settings. Values are read from CLOUDXR_* environment
// variables by LoadConfig.
type Config struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEV" default:"false"`

	// LogBackend selects "zap" or "slog". The slog backend writes through
	// slog.Default so an embedding process keeps control of the output.
	LogBackend string `envconfig:"LOG_BACKEND" default:"zap"`

	// StrictOrdering rejects draw calls issued before the surface exists
	// instead of forwarding them to the engine.
	StrictOrdering bool `envconfig:"STRICT_ORDERING" default:"false"`

	// MaxFrameBytes caps the size of a camera frame copied back to the host.
	// Larger frames are dropped and reported as empty. Zero disables the cap.
	MaxFrameBytes int `envconfig:"MAX_FRAME_BYTES" default:"33554432"`

	MetricsAddr string `envconfig:"METRICS_ADDR"`
	PrefsPath   string `envconfig:"PREFS_PATH" default:"cloudxr-prefs.yaml"`

	// Simulate makes the shared library serve the simulated engine at load.
	// cloudxr_register_engine then fails.
	Simulate bool `envconfig:"SIMULATE" default:"false"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("cloudxr", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads configuration from the environment or returns
// DefaultConfig when it cannot be parsed.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:      "info",
		LogBackend:    "zap",
		MaxFrameBytes: 32 << 20,
		PrefsPath:     "cloudxr-prefs.yaml",
	}
}
