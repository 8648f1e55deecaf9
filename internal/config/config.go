// Package config loads runtime settings from defaults, an optional YAML
// file and PROPPILOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure returned by Load.
var ErrInvalid = errors.New("invalid configuration")

const envPrefix = "PROPPILOT_"

// Config holds everything the binary needs to start.
type Config struct {
	StoragePath    string        `yaml:"storage_path"`
	LogPath        string        `yaml:"log_path"`
	LogLevel       string        `yaml:"log_level"`
	ResponseDelay  time.Duration `yaml:"response_delay"`
	ExportDelay    time.Duration `yaml:"export_delay"`
	AnalyzeDelay   time.Duration `yaml:"analyze_delay"`
	GenerationTick time.Duration `yaml:"generation_tick"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	AltScreen      bool          `yaml:"alt_screen"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StoragePath:    filepath.Join(".", "proppilot.json"),
		LogLevel:       "info",
		ResponseDelay:  1500 * time.Millisecond,
		ExportDelay:    2 * time.Second,
		AnalyzeDelay:   2 * time.Second,
		GenerationTick: 300 * time.Millisecond,
		MaxUploadBytes: 10 * 1024 * 1024,
		AltScreen:      true,
	}
}

// Load layers the YAML file at path (skipped when empty) and the environment
// over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.StoragePath, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.ResponseDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.ExportDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.AnalyzeDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.GenerationTick, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.StoragePath = getEnv("STORAGE_PATH", cfg.StoragePath)
	cfg.LogPath = getEnv("LOG_PATH", cfg.LogPath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"RESPONSE_DELAY", &cfg.ResponseDelay},
		{"EXPORT_DELAY", &cfg.ExportDelay},
		{"ANALYZE_DELAY", &cfg.AnalyzeDelay},
		{"GENERATION_TICK", &cfg.GenerationTick},
	}
	for _, d := range durations {
		raw := getEnv(d.key, "")
		if raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalid, envPrefix, d.key, err)
		}
		*d.dst = parsed
	}

	if raw := getEnv("MAX_UPLOAD_BYTES", ""); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sMAX_UPLOAD_BYTES: %v", ErrInvalid, envPrefix, err)
		}
		cfg.MaxUploadBytes = n
	}
	if raw := getEnv("ALT_SCREEN", ""); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %sALT_SCREEN: %v", ErrInvalid, envPrefix, err)
		}
		cfg.AltScreen = b
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}
