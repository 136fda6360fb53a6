package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures the LLM backend used for explanations.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter" or
	// "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries. Zero disables it.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig also serves OpenAI compatible endpoints through BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is an exponential backoff schedule.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig picks the cheapest model of each vendor. Explanations are
// short, so small models are enough.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// envBinding copies one environment variable into a config field.
type envBinding struct {
	name string
	dst  func(*Config) *string
}

var envBindings = []envBinding{
	{"APTIZ_LLM_PROVIDER", func(c *Config) *string { return &c.Provider }},
	{"APTIZ_ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"APTIZ_ANTHROPIC_MODEL", func(c *Config) *string { return &c.Anthropic.Model }},
	{"APTIZ_OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"APTIZ_OPENAI_MODEL", func(c *Config) *string { return &c.OpenAI.Model }},
	{"APTIZ_OPENAI_BASE_URL", func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{"APTIZ_GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"APTIZ_GEMINI_MODEL", func(c *Config) *string { return &c.Gemini.Model }},
	{"APTIZ_OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{"APTIZ_OPENROUTER_MODEL", func(c *Config) *string { return &c.OpenRouter.Model }},
}

// ConfigFromEnv overlays APTIZ_* variables on DefaultConfig.
// APTIZ_LLM_TIMEOUT takes a Go duration; an unparsable value keeps the
// default.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			*b.dst(&cfg) = v
		}
	}
	if v := os.Getenv("APTIZ_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// vendorKeys are the vendors' own API key variables in discovery order.
var vendorKeys = []struct {
	env      string
	provider string
	dst      func(*Config) *string
}{
	{"GEMINI_API_KEY", "gemini", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"OPENAI_API_KEY", "openai", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"ANTHROPIC_API_KEY", "anthropic", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"OPENROUTER_API_KEY", "openrouter", func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// DiscoverConfig returns a default Config for the first vendor whose
// standard API key variable is set.
func DiscoverConfig() (Config, bool) {
	for _, k := range vendorKeys {
		if v := os.Getenv(k.env); v != "" {
			cfg := DefaultConfig()
			cfg.Provider = k.provider
			*k.dst(&cfg) = v
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "anthropic":
		key, env = c.Anthropic.APIKey, "APTIZ_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "APTIZ_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "APTIZ_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "APTIZ_OPENROUTER_API_KEY"
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
