// Package config loads application configuration from the environment, with
// optional model settings overrides from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lettergen/lettergen/pkg/db"
	"github.com/lettergen/lettergen/pkg/llm/openai"
	"github.com/lettergen/lettergen/pkg/llm/perplexity"
	"github.com/lettergen/lettergen/pkg/logger"
	"github.com/lettergen/lettergen/pkg/mailer/resend"
)

var ErrLoadConfig = errors.New("config: load failed")

// Config is the full application configuration.
type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	JWTSecret string `env:"JWT_SECRET,required"`

	// ModelSettingsPath optionally points to a YAML file overriding the
	// generation model settings without touching the environment.
	ModelSettingsPath string `env:"MODEL_SETTINGS_PATH"`

	Database   db.Config
	Sentry     logger.SentryConfig
	Resend     resend.Config
	OpenAI     openai.Config
	Perplexity perplexity.Config
}

// Load parses the environment and applies the YAML model settings file when
// one is configured.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Join(ErrLoadConfig, err)
	}
	if cfg.ModelSettingsPath != "" {
		if err := cfg.applyModelSettings(cfg.ModelSettingsPath); err != nil {
			return nil, errors.Join(ErrLoadConfig, err)
		}
	}
	return cfg, nil
}

type modelSettings struct {
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"maxTokens"`
	Temperature *float64 `yaml:"temperature"`
}

type modelSettingsFile struct {
	OpenAI     modelSettings `yaml:"openai"`
	Perplexity modelSettings `yaml:"perplexity"`
}

func (c *Config) applyModelSettings(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading model settings: %w", err)
	}
	var file modelSettingsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parsing model settings: %w", err)
	}

	if file.OpenAI.Model != "" {
		c.OpenAI.Model = file.OpenAI.Model
	}
	if file.OpenAI.MaxTokens > 0 {
		c.OpenAI.MaxTokens = file.OpenAI.MaxTokens
	}
	if file.OpenAI.Temperature != nil {
		c.OpenAI.Temperature = *file.OpenAI.Temperature
	}

	if file.Perplexity.Model != "" {
		c.Perplexity.Model = file.Perplexity.Model
	}
	if file.Perplexity.MaxTokens > 0 {
		c.Perplexity.MaxTokens = file.Perplexity.MaxTokens
	}
	if file.Perplexity.Temperature != nil {
		c.Perplexity.Temperature = *file.Perplexity.Temperature
	}

	return nil
}
