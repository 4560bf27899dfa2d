// Package llm abstracts the newsletter generation providers.
//
// Both supported providers speak the chat-completions wire format; the
// search-augmented one additionally returns source citations. Callers depend
// on the Provider interface only, so the two variants stay interchangeable.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrMissingAPIKey indicates no credential is configured for the provider.
	ErrMissingAPIKey = errors.New("llm: api key is not configured")

	// ErrRequestFailed indicates a non-2xx response from the provider.
	ErrRequestFailed = errors.New("llm: provider request failed")

	// ErrMalformedResponse indicates the provider returned a body without the
	// expected message content.
	ErrMalformedResponse = errors.New("llm: malformed provider response")
)

// Result is the normalized output of a generation call. Citations is empty
// for providers without web search.
type Result struct {
	Content   string
	Citations []string
}

// Provider generates newsletter body content from a prompt. Implementations
// make exactly one upstream call per invocation and never retry; transient
// failures surface to the caller, who may re-submit.
type Provider interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
}

// Settings bound the generation output. They are configuration, not
// correctness-critical constants, and are exposed through each provider's
// Config rather than buried at call sites.
type Settings struct {
	Model       string
	MaxTokens   int
	Temperature float64
}
