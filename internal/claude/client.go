// Package claude sends curated prompts to the Anthropic API and returns the
// model's review. The analysis pipeline itself never depends on it; only the
// analyze-with-claude surface does.
package claude

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Client wraps the Anthropic API for prompt review.
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewFromEnv builds a client from ANTHROPIC_API_KEY. Returns nil when the
// key is unset; callers treat a nil client as reviews being unavailable.
func NewFromEnv(model string, maxTokens int) *Client {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	return &Client{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

// Available reports whether reviews can be performed.
func (c *Client) Available() bool {
	return c != nil
}

// Review sends the curated prompt and returns the text of the response.
func (c *Client) Review(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("claude client not initialized (missing ANTHROPIC_API_KEY)")
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude api: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}
