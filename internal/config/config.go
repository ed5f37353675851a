package config

// #region imports
import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/tasks"
)

// #endregion

// #region config

// Environment variables that override file values.
const (
	EnvDB       = "SIFRA_DB"
	EnvLogLevel = "SIFRA_LOG_LEVEL"
)

// Config holds every tunable of the reasoning core and its binaries.
type Config struct {
	ForecastSteps       int     `yaml:"forecast_steps"`
	AnomalyThresholdStd float64 `yaml:"anomaly_threshold_std"`
	TopInsightsLimit    int     `yaml:"top_insights_limit"`

	FillNaNValue       float64          `yaml:"fill_nan_value"`
	DateConversionMode dataset.DateMode `yaml:"date_conversion_mode"`

	EnableLogs bool   `yaml:"enable_logs"`
	LogLevel   string `yaml:"log_level"`
	LogJSON    bool   `yaml:"log_json"`

	DBPath       string `yaml:"db_path"`
	BatchWorkers int    `yaml:"batch_workers"`
}

// Default returns the stock configuration.
func Default() *Config {
	settings := tasks.DefaultSettings()
	return &Config{
		ForecastSteps:       settings.ForecastSteps,
		AnomalyThresholdStd: settings.AnomalyThresholdStd,
		TopInsightsLimit:    settings.TopInsightsLimit,
		FillNaNValue:        0,
		DateConversionMode:  dataset.DateTimestamp,
		EnableLogs:          true,
		LogLevel:            "info",
		LogJSON:             false,
		DBPath:              "sifra.db",
		BatchWorkers:        4,
	}
}

// #endregion

// #region load-save

// Load reads path over the defaults, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults (with environment
// overrides) when path is empty or missing.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		_, err := os.Stat(path)
		if err == nil {
			return Load(path)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes c as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DBPath = envOr(EnvDB, c.DBPath)
	c.LogLevel = envOr(EnvLogLevel, c.LogLevel)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion

// #region validate

// Validate reports the first setting out of range.
func (c *Config) Validate() error {
	switch {
	case c.ForecastSteps < 0:
		return fmt.Errorf("forecast_steps must be >= 0, got %d", c.ForecastSteps)
	case c.AnomalyThresholdStd <= 0:
		return fmt.Errorf("anomaly_threshold_std must be > 0, got %v", c.AnomalyThresholdStd)
	case c.TopInsightsLimit < 0:
		return fmt.Errorf("top_insights_limit must be >= 0, got %d", c.TopInsightsLimit)
	case c.BatchWorkers < 0:
		return fmt.Errorf("batch_workers must be >= 0, got %d", c.BatchWorkers)
	case c.DateConversionMode != dataset.DateTimestamp && c.DateConversionMode != dataset.DateOrdinal:
		return fmt.Errorf("date_conversion_mode must be %q or %q, got %q",
			dataset.DateTimestamp, dataset.DateOrdinal, c.DateConversionMode)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// #endregion

// #region views

// TaskSettings projects the task-layer settings.
func (c *Config) TaskSettings() tasks.Settings {
	return tasks.Settings{
		ForecastSteps:       c.ForecastSteps,
		AnomalyThresholdStd: c.AnomalyThresholdStd,
		TopInsightsLimit:    c.TopInsightsLimit,
	}
}

// CleanOptions projects the preprocessing settings.
func (c *Config) CleanOptions() dataset.CleanOptions {
	return dataset.CleanOptions{FillValue: c.FillNaNValue, DateMode: c.DateConversionMode}
}

// #endregion
