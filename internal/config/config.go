package config

import (
	"path/filepath"
	"strings"
)

type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port     int
	MCPPort  int
	APIToken string
}

type LLMConfig struct {
	Backend         string
	Model           string
	OllamaURL       string
	AnthropicAPIKey string
}

type StorageConfig struct {
	DataDir     string
	ProfilePath string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port:    4200,
			MCPPort: 4201,
		},
		LLM: LLMConfig{
			Backend:   "ollama",
			Model:     "mistral",
			OllamaURL: "http://localhost:11434",
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.tailorcv.app) and the
// Anthropic API key falls back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/tailorcv/config.json
// and secrets live in a mode-0600 secrets file under $XDG_DATA_HOME.
//
// Environment variables (TAILORCV_*) override backend values on all
// platforms. A missing API key is not an error here: the Claude backend
// checks for its key when it is actually selected.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts platform secret access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.LLM.AnthropicAPIKey == "" {
		if key, err := kc.Get("tailorcv", "anthropic_api_key"); err == nil && key != "" {
			cfg.LLM.AnthropicAPIKey = key
		}
	}

	if cfg.Storage.ProfilePath == "" {
		cfg.Storage.ProfilePath = filepath.Join(cfg.Storage.DataDir, "profile.json")
	}

	return cfg, nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
