// Package config loads application settings from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "FACTCHECK_CONFIG"
	portEnv             = "FACTCHECK_PORT"
	evalProviderEnv     = "FACTCHECK_EVAL_PROVIDER"
	maxSearchResultsEnv = "FACTCHECK_MAX_SEARCH_RESULTS"
	openRouterKeyEnv    = "OPENROUTER_API_KEY"
	openRouterURLEnv    = "OPENROUTER_BASE_URL"
	anthropicKeyEnv     = "ANTHROPIC_API_KEY"
	googleKeyEnv        = "GOOGLE_API_KEY"
)

// Config holds all settings consumed across the application. Read-only
// after Load.
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	OpenRouter OpenRouter     `yaml:"openrouter"`
	Providers  ProviderConfig `yaml:"providers"`
	Models     ModelConfig    `yaml:"models"`
	Search     SearchConfig   `yaml:"search"`
	Retry      RetryConfig    `yaml:"retry"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// OpenRouter holds provider credentials and endpoint.
type OpenRouter struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
}

// ProviderConfig selects the backend for the evaluation step and carries
// keys for the non-default backends. The websearch step always runs through
// OpenRouter, whose model-naming contract enables grounded browsing.
type ProviderConfig struct {
	Evaluation   string `yaml:"evaluation"`
	AnthropicKey string `yaml:"anthropicApiKey"`
	GoogleKey    string `yaml:"googleApiKey"`
}

// ModelConfig maps pipeline use cases to model identifiers.
type ModelConfig struct {
	Websearch  string `yaml:"websearch"`
	Evaluation string `yaml:"evaluation"`
}

// SearchConfig tunes the evidence step.
type SearchConfig struct {
	MaxResults int `yaml:"maxResults"`
}

// RetryConfig tunes the provider retry policy.
type RetryConfig struct {
	MaxRetries   int           `yaml:"maxRetries"`
	BaseDelay    time.Duration `yaml:"baseDelay"`
	MaxDelay     time.Duration `yaml:"maxDelay"`
	JitterFactor float64       `yaml:"jitterFactor"`
}

// UnmarshalYAML accepts durations in time.ParseDuration syntax ("1s",
// "500ms"). Fields absent from the document keep their current values.
func (r *RetryConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxRetries   *int     `yaml:"maxRetries"`
		BaseDelay    string   `yaml:"baseDelay"`
		MaxDelay     string   `yaml:"maxDelay"`
		JitterFactor *float64 `yaml:"jitterFactor"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.MaxRetries != nil {
		r.MaxRetries = *raw.MaxRetries
	}
	if raw.BaseDelay != "" {
		d, err := time.ParseDuration(raw.BaseDelay)
		if err != nil {
			return fmt.Errorf("retry.baseDelay: %w", err)
		}
		r.BaseDelay = d
	}
	if raw.MaxDelay != "" {
		d, err := time.ParseDuration(raw.MaxDelay)
		if err != nil {
			return fmt.Errorf("retry.maxDelay: %w", err)
		}
		r.MaxDelay = d
	}
	if raw.JitterFactor != nil {
		r.JitterFactor = *raw.JitterFactor
	}
	return nil
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv(openRouterKeyEnv); v != "" {
		c.OpenRouter.APIKey = v
	}
	if v := os.Getenv(openRouterURLEnv); v != "" {
		c.OpenRouter.BaseURL = v
	}
	if v := os.Getenv(anthropicKeyEnv); v != "" {
		c.Providers.AnthropicKey = v
	}
	if v := os.Getenv(googleKeyEnv); v != "" {
		c.Providers.GoogleKey = v
	}
	if v := os.Getenv(evalProviderEnv); v != "" {
		c.Providers.Evaluation = v
	}
	if v := os.Getenv(maxSearchResultsEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.MaxResults = n
		} else {
			log.Printf("config: invalid %s=%q, keeping %d", maxSearchResultsEnv, v, c.Search.MaxResults)
		}
	}
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		OpenRouter: OpenRouter{
			BaseURL: "https://openrouter.ai/api/v1",
		},
		Providers: ProviderConfig{
			Evaluation: "openrouter",
		},
		Models: ModelConfig{
			Websearch:  "x-ai/grok-4-fast",
			Evaluation: "openai/gpt-4o-mini",
		},
		Search: SearchConfig{MaxResults: 5},
		Retry: RetryConfig{
			MaxRetries:   3,
			BaseDelay:    time.Second,
			MaxDelay:     60 * time.Second,
			JitterFactor: 0.1,
		},
	}
}
