package perplexity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lettergen/lettergen/pkg/llm"
	"github.com/lettergen/lettergen/pkg/llm/perplexity"
)

func newProvider(baseURL string) *perplexity.Provider {
	return perplexity.New(perplexity.Config{
		APIKey:      "pplx-test",
		BaseURL:     baseURL,
		Model:       "sonar-pro",
		MaxTokens:   2000,
		Temperature: 0.7,
		Timeout:     time.Minute,
	})
}

func TestProvider_Generate_ReturnsCitationsInOrder(t *testing.T) {
	t.Parallel()

	citations := []string{
		"https://news.example.com/article-1",
		"https://blog.example.com/post-2",
		"https://docs.example.com/page-3",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "<p>researched body</p>"}},
			},
			"citations": citations,
		})
	}))
	defer srv.Close()

	res, err := newProvider(srv.URL).Generate(context.Background(), "Summarize this week")
	require.NoError(t, err)
	assert.Equal(t, "<p>researched body</p>", res.Content)
	assert.Equal(t, citations, res.Citations)
}

func TestProvider_Generate_MissingCredential(t *testing.T) {
	t.Parallel()

	p := perplexity.New(perplexity.Config{BaseURL: "http://localhost:0"})
	_, err := p.Generate(context.Background(), "prompt")

	require.ErrorIs(t, err, llm.ErrMissingAPIKey)
}
