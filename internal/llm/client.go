// Package llm provides text-generation clients for the backends that can
// drive resume tailoring: a local Ollama instance and the Anthropic API.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailorcv/tailorcv/internal/config"
)

// Client generates a completion for a single prompt.
type Client interface {
	// Generate returns the model's full text response. Implementations do
	// not retry JSON extraction or validate structure; callers recover
	// structured data from the raw text themselves.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the backend for logging and run history.
	Name() string
}

// ErrMissingAPIKey is returned when the Claude backend is selected without
// an Anthropic API key configured.
var ErrMissingAPIKey = errors.New("anthropic API key not set")

// FromConfig returns the client selected by cfg.LLM.Backend.
//
// Accepted backend names: "ollama", "mistral" and "local" map to Ollama;
// "claude" and "anthropic" map to the Anthropic API.
func FromConfig(cfg config.LLMConfig) (Client, error) {
	switch cfg.Backend {
	case "", "ollama", "mistral", "local":
		return NewOllama(cfg.OllamaURL, cfg.Model), nil
	case "claude", "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY to use the %s backend", ErrMissingAPIKey, cfg.Backend)
		}
		model := cfg.Model
		if model == "" || model == "mistral" {
			model = defaultClaudeModel
		}
		return NewClaude(cfg.AnthropicAPIKey, model), nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q (use ollama or claude)", cfg.Backend)
	}
}
