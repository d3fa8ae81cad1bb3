package config

import (
	"path/filepath"
	"testing"
)

// mockBackend is an in-memory ConfigBackend.
type mockBackend struct {
	strings map[string]string
	ints    map[string]int
}

func (m *mockBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *mockBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *mockBackend) SetString(key, val string) error {
	if m.strings == nil {
		m.strings = map[string]string{}
	}
	m.strings[key] = val
	return nil
}

func (m *mockBackend) SetInt(key string, val int) error {
	if m.ints == nil {
		m.ints = map[string]int{}
	}
	m.ints[key] = val
	return nil
}

func (m *mockBackend) Delete(key string) error {
	delete(m.strings, key)
	delete(m.ints, key)
	return nil
}

// mockKeychain is a test double for the keychain interface.
type mockKeychain struct {
	value string
	err   error
}

func (m mockKeychain) Get(service, account string) (string, error) {
	return m.value, m.err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		if s.env != "" {
			t.Setenv(s.env, "")
		}
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(&mockBackend{}, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4200 {
		t.Errorf("Server.Port = %d, want 4200", cfg.Server.Port)
	}
	if cfg.Server.MCPPort != 4201 {
		t.Errorf("Server.MCPPort = %d, want 4201", cfg.Server.MCPPort)
	}
	if cfg.LLM.Backend != "ollama" {
		t.Errorf("LLM.Backend = %q, want %q", cfg.LLM.Backend, "ollama")
	}
	if cfg.LLM.Model != "mistral" {
		t.Errorf("LLM.Model = %q, want %q", cfg.LLM.Model, "mistral")
	}
	if cfg.LLM.OllamaURL != "http://localhost:11434" {
		t.Errorf("LLM.OllamaURL = %q, want %q", cfg.LLM.OllamaURL, "http://localhost:11434")
	}
	want := filepath.Join(cfg.Storage.DataDir, "profile.json")
	if cfg.Storage.ProfilePath != want {
		t.Errorf("Storage.ProfilePath = %q, want %q", cfg.Storage.ProfilePath, want)
	}
}

func TestBackendValues(t *testing.T) {
	clearEnv(t)

	b := &mockBackend{
		strings: map[string]string{
			"llm.backend":          "claude",
			"llm.model":            "claude-sonnet-4-20250514",
			"storage.profile_path": "/srv/profile.json",
		},
		ints: map[string]int{"server.port": 8080},
	}
	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLM.Backend != "claude" {
		t.Errorf("LLM.Backend = %q", cfg.LLM.Backend)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Storage.ProfilePath != "/srv/profile.json" {
		t.Errorf("Storage.ProfilePath = %q", cfg.Storage.ProfilePath)
	}
}

func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("TAILORCV_LLM_BACKEND", "claude")
	t.Setenv("TAILORCV_SERVER_PORT", "9999")
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	b := &mockBackend{strings: map[string]string{"llm.backend": "ollama"}}
	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLM.Backend != "claude" {
		t.Errorf("LLM.Backend = %q, want env override", cfg.LLM.Backend)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.LLM.AnthropicAPIKey != "env-key" {
		t.Errorf("AnthropicAPIKey = %q, want env-key", cfg.LLM.AnthropicAPIKey)
	}
}

func TestKeychainFallback(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(&mockBackend{}, mockKeychain{value: "kc-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.AnthropicAPIKey != "kc-key" {
		t.Errorf("AnthropicAPIKey = %q, want keychain fallback", cfg.LLM.AnthropicAPIKey)
	}
}

func TestSecretsExcludedFromShowAll(t *testing.T) {
	cfg := defaults()
	cfg.LLM.AnthropicAPIKey = "super-secret"
	cfg.Server.APIToken = "also-secret"

	for _, ki := range ShowAll(cfg) {
		if ki.Key == "llm.anthropic_api_key" || ki.Key == "server.api_token" {
			t.Errorf("secret key %s exposed by ShowAll", ki.Key)
		}
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	if len(keys) == 0 {
		t.Fatal("no valid keys")
	}
	for _, k := range keys {
		if k == "llm.anthropic_api_key" {
			t.Error("secret listed as settable key")
		}
	}
}
