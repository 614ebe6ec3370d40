// Package daemon manages the Echo daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all daemon configuration. Values load from
// ~/.echo/config.toml with ECHO_* environment variables layered on top.
type Config struct {
	App       AppConfig       `toml:"app"`
	API       APIConfig       `toml:"api"`
	Seasons   SeasonsConfig   `toml:"seasons"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// AppConfig controls storage and date resolution.
type AppConfig struct {
	DataDir         string `toml:"data_dir" env:"ECHO_DATA_DIR"`
	DefaultTimezone string `toml:"default_timezone" env:"ECHO_DEFAULT_TZ"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host" env:"ECHO_API_HOST"`
	Port        int      `toml:"port" env:"ECHO_API_PORT"`
	CORSOrigins []string `toml:"cors_origins"`
}

// SeasonsConfig controls the season-start background sweep.
type SeasonsConfig struct {
	SweepIntervalMinutes int `toml:"sweep_interval_minutes" env:"ECHO_SWEEP_INTERVAL_MINUTES"`
	SweepBatchSize       int `toml:"sweep_batch_size" env:"ECHO_SWEEP_BATCH_SIZE"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `toml:"level" env:"ECHO_LOG_LEVEL"`
	Format string `toml:"format" env:"ECHO_LOG_FORMAT"` // "text" or "json"
}

// TelemetryConfig controls the /metrics endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus" env:"ECHO_PROMETHEUS"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		App: AppConfig{
			DataDir:         echoHome(),
			DefaultTimezone: "UTC",
		},
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8710,
			CORSOrigins: []string{"*"},
		},
		Seasons: SeasonsConfig{
			SweepIntervalMinutes: 60,
			SweepBatchSize:       100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from ~/.echo/config.toml, falling back to
// defaults, then applies environment overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	// Optional .env file in the working directory.
	_ = godotenv.Load()

	path := filepath.Join(echoHome(), "config.toml")

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env overrides: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.echo/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(echoHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// echoHome returns the Echo data directory.
func echoHome() string {
	if env := os.Getenv("ECHO_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".echo")
}

