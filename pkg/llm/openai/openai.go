// Package openai implements llm.Provider using the OpenAI chat completions
// API. It is the general-purpose variant: no web search, no citations.
package openai

import (
	"context"
	"time"

	"github.com/lettergen/lettergen/pkg/llm"
)

const systemPrompt = `You are a professional newsletter writer. Your task is to create a well-structured, informative, and engaging newsletter based on the provided prompt.

Format the content with appropriate HTML tags for email rendering.`

// Config holds OpenAI provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string        `env:"OPENAI_API_KEY,required"`
	BaseURL     string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model       string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	MaxTokens   int           `env:"OPENAI_MAX_TOKENS" envDefault:"2000"`
	Temperature float64       `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	Timeout     time.Duration `env:"OPENAI_TIMEOUT" envDefault:"2m"`
}

// Provider is the general-purpose generation provider.
type Provider struct {
	client *llm.ChatClient
}

// New creates an OpenAI-backed provider.
func New(cfg Config) *Provider {
	return &Provider{
		client: llm.NewChatClient(cfg.BaseURL, cfg.APIKey, systemPrompt, llm.Settings{
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}, cfg.Timeout),
	}
}

// Generate implements llm.Provider. Citations are always empty for this
// variant.
func (p *Provider) Generate(ctx context.Context, prompt string) (*llm.Result, error) {
	res, err := p.client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	res.Citations = nil
	return res, nil
}
