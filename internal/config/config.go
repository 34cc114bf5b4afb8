package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"gobenford/internal"
	"gobenford/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Plot     PlotConfig     `yaml:"plot"`
	History  HistoryConfig  `yaml:"history"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port          string        `yaml:"port"`
	MaxUploadMB   int           `yaml:"max_upload_mb"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

// DatabaseConfig holds the optional history database. An empty URL keeps
// history in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// PlotConfig holds chart dimensions in inches
type PlotConfig struct {
	WidthInches  float64 `yaml:"width_in"`
	HeightInches float64 `yaml:"height_in"`
}

// HistoryConfig bounds history listings
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// MaxUploadBytes returns the upload limit in bytes
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			MaxUploadMB:   50,
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  60 * time.Second,
			ShutdownGrace: 10 * time.Second,
		},
		Plot:    PlotConfig{WidthInches: 8, HeightInches: 5},
		History: HistoryConfig{Limit: 50},
		Log:     LogConfig{Level: "INFO"},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// BENFORD_CONFIG (if set), then environment variables, and validates it
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("BENFORD_CONFIG"); path != "" {
		if err := config.mergeFile(path); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	config.applyEnv()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// mergeFile overlays the YAML file at path onto c
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.ConfigInvalid("cannot read " + path + ": " + err.Error())
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.ConfigInvalid("invalid YAML in " + path + ": " + err.Error())
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.MaxUploadMB = getEnvIntOrDefault("MAX_UPLOAD_MB", c.Server.MaxUploadMB)
	c.Server.ReadTimeout = getEnvDurationOrDefault("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDurationOrDefault("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Database.URL = getEnvOrDefault("DATABASE_URL", c.Database.URL)
	c.Plot.WidthInches = getEnvFloatOrDefault("PLOT_WIDTH_IN", c.Plot.WidthInches)
	c.Plot.HeightInches = getEnvFloatOrDefault("PLOT_HEIGHT_IN", c.Plot.HeightInches)
	c.History.Limit = getEnvIntOrDefault("HISTORY_LIMIT", c.History.Limit)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
}

func validateConfig(config *Config) error {
	if port, err := strconv.Atoi(config.Server.Port); err != nil || port <= 0 || port > 65535 {
		return errors.ConfigInvalid("server port must be a number between 1 and 65535")
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("max upload size must be positive")
	}
	if config.Plot.WidthInches <= 0 || config.Plot.HeightInches <= 0 {
		return errors.ConfigInvalid("plot dimensions must be positive")
	}
	if config.History.Limit <= 0 {
		return errors.ConfigInvalid("history limit must be positive")
	}
	if _, ok := internal.ParseLogLevel(config.Log.Level); !ok {
		return errors.ConfigInvalid("unknown log level " + config.Log.Level)
	}
	return nil
}

// Logger returns a logger at the configured level
func (c *Config) Logger() *internal.Logger {
	level, _ := internal.ParseLogLevel(c.Log.Level)
	return internal.NewLogger(level)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
