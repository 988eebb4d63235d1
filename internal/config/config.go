package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port             string        `env:"PORT"                 envDefault:"8080"`
	HFToken          string        `env:"HF_API_KEY"`
	HFModel          string        `env:"HF_MODEL"             envDefault:"mistralai/Mistral-7B-Instruct-v0.2"`
	HFBaseURL        string        `env:"HF_BASE_URL"          envDefault:"https://api-inference.huggingface.co/models"`
	InferenceTimeout time.Duration `env:"HF_TIMEOUT"           envDefault:"2m"`
	AllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	MaxBodyBytes     int64         `env:"MAX_BODY_BYTES"       envDefault:"1048576"`
	LogLevel         string        `env:"LOG_LEVEL"            envDefault:"info"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.HFToken = strings.TrimSpace(cfg.HFToken)
	cfg.HFModel = strings.TrimSpace(cfg.HFModel)
	return &cfg, nil
}

// HasCredential reports whether a bearer token for the inference backend is set.
func (c *Config) HasCredential() bool {
	return c.HFToken != ""
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
