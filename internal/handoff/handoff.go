// Package handoff streams curated prompts through the local Claude Code CLI
// via the agent SDK. It is the implementation side of `speclint handoff`.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	claudecode "github.com/severity1/claude-agent-sdk-go"
)

const defaultMaxTurns = 3

// Runner hands curated prompts to Claude Code.
type Runner struct {
	model    string
	maxTurns int
}

// NewRunner builds a runner for the given model alias. An empty model falls
// back to sonnet.
func NewRunner(model string) *Runner {
	if model == "" {
		model = "sonnet"
	}
	return &Runner{model: model, maxTurns: defaultMaxTurns}
}

// Send streams the prompt through Claude Code. Each assistant text block is
// handed to onText as it arrives (nil is allowed); the concatenated response
// is returned. A missing CLI is a clean, explained failure rather than a
// raw exec error.
func (r *Runner) Send(ctx context.Context, prompt string, onText func(string)) (string, error) {
	iterator, err := claudecode.Query(ctx, prompt,
		claudecode.WithModel(r.model),
		claudecode.WithMaxTurns(r.maxTurns),
	)
	if err != nil {
		if claudecode.IsCLINotFoundError(err) {
			return "", fmt.Errorf("claude code cli not found; install it and ensure it is on PATH")
		}
		return "", fmt.Errorf("claude code: %w", err)
	}
	defer iterator.Close()

	var out strings.Builder
	for {
		message, err := iterator.Next(ctx)
		if err != nil {
			if errors.Is(err, claudecode.ErrNoMoreMessages) {
				break
			}
			return out.String(), fmt.Errorf("reading claude response: %w", err)
		}

		assistant, ok := message.(*claudecode.AssistantMessage)
		if !ok {
			continue
		}
		for _, block := range assistant.Content {
			if text, ok := block.(*claudecode.TextBlock); ok {
				if onText != nil {
					onText(text.Text)
				}
				out.WriteString(text.Text)
			}
		}
	}
	return out.String(), nil
}
