package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxErrorBodyBytes = 2048

// ChatClient calls a chat-completions style endpoint. It carries the
// credential and sampling settings; adapters in the openai and perplexity
// subpackages configure it per provider.
type ChatClient struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	systemPrompt string
	settings     Settings
}

// NewChatClient creates a client for a chat-completions endpoint.
// baseURL is the API root without the /chat/completions suffix.
func NewChatClient(baseURL, apiKey, systemPrompt string, settings Settings, timeout time.Duration) *ChatClient {
	return &ChatClient{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		apiKey:       apiKey,
		systemPrompt: systemPrompt,
		settings:     settings,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	// Populated by search-augmented providers only.
	Citations []string `json:"citations"`
}

// Complete performs a single chat-completions call and returns the message
// content plus any citations. No retries: a failure is terminal for this
// invocation.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model: c.settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.settings.Temperature,
		MaxTokens:   c.settings.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The upstream error detail is kept for diagnostics. The credential
		// is never part of the response body, so this is safe to log.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, errors.Join(ErrRequestFailed,
			fmt.Errorf("llm: %s returned HTTP %d: %s", c.settings.Model, resp.StatusCode, string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.Join(ErrMalformedResponse, errors.New("llm: response has no choices"))
	}

	return &Result{
		Content:   parsed.Choices[0].Message.Content,
		Citations: parsed.Citations,
	}, nil
}
