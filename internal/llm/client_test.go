package llm

import (
	"errors"
	"testing"

	"github.com/tailorcv/tailorcv/internal/config"
)

func TestFromConfig_OllamaAliases(t *testing.T) {
	for _, backend := range []string{"", "ollama", "mistral", "local"} {
		c, err := FromConfig(config.LLMConfig{Backend: backend, Model: "mistral", OllamaURL: "http://localhost:11434"})
		if err != nil {
			t.Fatalf("backend %q: %v", backend, err)
		}
		if c.Name() != "ollama" {
			t.Errorf("backend %q resolved to %s", backend, c.Name())
		}
	}
}

func TestFromConfig_Claude(t *testing.T) {
	c, err := FromConfig(config.LLMConfig{Backend: "claude", AnthropicAPIKey: "sk-test"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != "claude" {
		t.Errorf("name = %s", c.Name())
	}
	// The Ollama default model name does not carry over to Claude.
	if cl := c.(*Claude); cl.Model() != defaultClaudeModel {
		t.Errorf("model = %s", cl.Model())
	}
}

func TestFromConfig_ClaudeWithoutKey(t *testing.T) {
	_, err := FromConfig(config.LLMConfig{Backend: "anthropic"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestFromConfig_Unknown(t *testing.T) {
	if _, err := FromConfig(config.LLMConfig{Backend: "gpt-4"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
