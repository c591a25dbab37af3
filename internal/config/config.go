// Package config loads the quorumd server configuration from a JSON file,
// applying defaults for anything unset. The model catalog in the config is
// the source of the immutable registry built at startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/leandrotocalini/quorum/internal/catalog"
)

// Config is the quorumd server configuration.
type Config struct {
	Listen             string              `json:"listen"`                    // default ":8080"
	APIKey             string              `json:"apiKey,omitempty"`          // server-held OpenRouter key
	DefaultSynthesizer string              `json:"defaultSynthesizer"`        // model ID for the synthesis pass
	MaxModels          int                 `json:"maxModels"`                 // per-request fan-out cap, default 12
	Models             []catalog.ModelSpec `json:"models,omitempty"`          // empty uses the built-in catalog
	SlackWebhookURL    string              `json:"slackWebhookUrl,omitempty"` // credit alerts; empty disables
	HistoryDB          string              `json:"historyDb"`                 // default "quorum.db"
}

// apiKeyEnv overrides the config file's API key when set.
const apiKeyEnv = "QUORUM_API_KEY"

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		Listen:             ":8080",
		DefaultSynthesizer: catalog.DefaultSynthesizer,
		MaxModels:          12,
		HistoryDB:          "quorum.db",
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// a present but unparsable file is an error. QUORUM_API_KEY overrides the
// file's key either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Re-apply defaults for fields the file zeroed out.
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.DefaultSynthesizer == "" {
		cfg.DefaultSynthesizer = catalog.DefaultSynthesizer
	}
	if cfg.MaxModels == 0 {
		cfg.MaxModels = 12
	}
	if cfg.HistoryDB == "" {
		cfg.HistoryDB = "quorum.db"
	}

	applyEnv(cfg)
	return cfg, nil
}

// Registry builds the model registry from the config, falling back to the
// built-in catalog when no models are configured.
func (c *Config) Registry() *catalog.Registry {
	specs := c.Models
	if len(specs) == 0 {
		specs = catalog.DefaultModels()
	}
	return catalog.NewRegistry(specs, c.MaxModels)
}

func applyEnv(cfg *Config) {
	if key := os.Getenv(apiKeyEnv); key != "" {
		cfg.APIKey = key
	}
}
