// Package config loads the JSON configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// LLM selects and authenticates the text-generation provider.
type LLM struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	APIKey    string `json:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	LLM        *LLM   `json:"llm,omitempty"`
	ServerAddr string `json:"server_addr,omitempty"`
}

// Conventional key variable per provider, used when the config names neither
// an api_key nor an api_key_env.
var defaultKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"deepseek":  "DEEPSEEK_API_KEY",
	"gemini":    "GOOGLE_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// Load reads JSON config from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.LLM != nil {
		if cfg.LLM.Provider == "" || cfg.LLM.Model == "" {
			return Config{}, errors.New("config must include llm.provider and llm.model")
		}
	}
	return cfg, nil
}

// ResolveAPIKey returns the key from the config file, the configured
// environment variable, or the provider's conventional variable, in that
// order. Empty means no key was found.
func (l *LLM) ResolveAPIKey() string {
	if l.APIKey != "" {
		return l.APIKey
	}
	if l.APIKeyEnv != "" {
		return os.Getenv(l.APIKeyEnv)
	}
	return os.Getenv(defaultKeyEnv[l.Provider])
}
