// Package perplexity implements llm.Provider using the Perplexity API.
// It is the search-augmented variant: generated content is grounded in live
// web results and the response carries source citations.
package perplexity

import (
	"context"
	"time"

	"github.com/lettergen/lettergen/pkg/llm"
)

const systemPrompt = `You are a professional newsletter writer. Your task is to create a well-structured, informative, and engaging newsletter based on the provided prompt.

The newsletter should include:
1. A compelling title
2. An introduction that sets the context
3. 3-5 main sections with relevant content
4. A conclusion or call to action

Format the content with appropriate HTML tags for email rendering.`

// Config holds Perplexity provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string        `env:"PERPLEXITY_API_KEY,required"`
	BaseURL     string        `env:"PERPLEXITY_BASE_URL" envDefault:"https://api.perplexity.ai"`
	Model       string        `env:"PERPLEXITY_MODEL" envDefault:"sonar-pro"`
	MaxTokens   int           `env:"PERPLEXITY_MAX_TOKENS" envDefault:"2000"`
	Temperature float64       `env:"PERPLEXITY_TEMPERATURE" envDefault:"0.7"`
	Timeout     time.Duration `env:"PERPLEXITY_TIMEOUT" envDefault:"2m"`
}

// Provider is the search-augmented generation provider.
type Provider struct {
	client *llm.ChatClient
}

// New creates a Perplexity-backed provider.
func New(cfg Config) *Provider {
	return &Provider{
		client: llm.NewChatClient(cfg.BaseURL, cfg.APIKey, systemPrompt, llm.Settings{
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}, cfg.Timeout),
	}
}

// Generate implements llm.Provider. Citations are returned in the order the
// provider reported them.
func (p *Provider) Generate(ctx context.Context, prompt string) (*llm.Result, error) {
	return p.client.Complete(ctx, prompt)
}
