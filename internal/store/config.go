package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"stock-monitor-agent/internal/types"
)

const (
	ProviderGemini = "GEMINI"
	ProviderOpenAI = "OPENAI"
	ProviderClaude = "CLAUDE"
	// ProviderRules decides locally from the thresholds and needs no credential.
	ProviderRules = "RULES"

	// OnAdvisoryErrorFatal ends the run on the first advisory fault.
	OnAdvisoryErrorFatal = "FATAL"
	// OnAdvisoryErrorSkip treats an advisory fault like a failed price fetch.
	OnAdvisoryErrorSkip = "SKIP"
)

type Config struct {
	Symbol      string  `yaml:"symbol"`
	Lower       float64 `yaml:"lower"`
	Upper       float64 `yaml:"upper"`
	Iterations  int     `yaml:"iterations"`
	PollSeconds float64 `yaml:"poll_seconds"`
	// OnAdvisoryError is FATAL or SKIP.
	OnAdvisoryError string `yaml:"on_advisory_error"`

	Price struct {
		Base   float64 `yaml:"base"`
		Spread float64 `yaml:"spread"`
		Tick   float64 `yaml:"tick"`
	} `yaml:"price"`

	LLM struct {
		Provider       string  `yaml:"provider"`
		Model          string  `yaml:"model"`
		Endpoint       string  `yaml:"endpoint"`
		APIKeyEnv      string  `yaml:"api_key_env"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float64 `yaml:"temperature"`
		System         string  `yaml:"system"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"llm"`

	Notify struct {
		TelegramTokenEnv string `yaml:"telegram_token_env"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"notify"`

	Journal struct {
		Enabled       bool   `yaml:"enabled"`
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"journal"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{
		Symbol:          "HDFCBANK",
		Lower:           1400,
		Upper:           1600,
		Iterations:      5,
		PollSeconds:     2,
		OnAdvisoryError: OnAdvisoryErrorFatal,
	}
	c.Price.Base = 1500
	c.Price.Spread = 50
	c.Price.Tick = 0.05

	c.LLM.Provider = ProviderGemini
	c.LLM.MaxTokens = 1000
	c.LLM.Temperature = 0.7

	c.Notify.TelegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	c.Journal.Dir = "logs"

	c.normalize()
	return c
}

// normalize upper-cases the enum fields and fills the provider specific
// model and key variable when they are unset.
func (c *Config) normalize() {
	c.OnAdvisoryError = strings.ToUpper(c.OnAdvisoryError)
	c.LLM.Provider = strings.ToUpper(c.LLM.Provider)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = defaultAPIKeyEnv(c.LLM.Provider)
	}
}

// ProviderChanged re-derives provider specific defaults after a flag override.
func (c *Config) ProviderChanged(provider string) {
	c.LLM.Provider = strings.ToUpper(provider)
	c.LLM.Model = defaultModel(c.LLM.Provider)
	c.LLM.APIKeyEnv = defaultAPIKeyEnv(c.LLM.Provider)
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderClaude:
		return "claude-3-5-haiku-latest"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return ""
	}
}

func defaultAPIKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderClaude:
		return "CLAUDE_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// PollInterval is the fixed pause between loop passes.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds * float64(time.Second))
}

// AdvisoryTimeout is the per-call deadline; zero means the call is unbounded.
func (c *Config) AdvisoryTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// APIKey resolves the advisory credential from the environment.
func (c *Config) APIKey() (string, error) {
	if c.LLM.Provider == ProviderRules {
		return "", nil
	}
	key := os.Getenv(c.LLM.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%w: %s not found in environment or .env file", types.ErrConfig, c.LLM.APIKeyEnv)
	}
	return key, nil
}

// Validate checks the config shape. Thresholds are passed through to the
// decider as given, so their order is not checked.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderClaude, ProviderRules:
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be GEMINI, OPENAI, CLAUDE or RULES", c.LLM.Provider)
	}
	if strings.TrimSpace(c.Symbol) == "" {
		return errors.New("symbol cannot be empty")
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.PollSeconds < 0 {
		return fmt.Errorf("poll_seconds cannot be negative, got %.2f", c.PollSeconds)
	}
	if c.OnAdvisoryError != OnAdvisoryErrorFatal && c.OnAdvisoryError != OnAdvisoryErrorSkip {
		return fmt.Errorf("on_advisory_error must be 'FATAL' or 'SKIP', got '%s'", c.OnAdvisoryError)
	}
	if c.Price.Spread < 0 || c.Price.Tick < 0 {
		return errors.New("price.spread and price.tick cannot be negative")
	}
	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("llm.timeout_seconds cannot be negative, got %d", c.LLM.TimeoutSeconds)
	}
	return nil
}

// LoadConfig reads a YAML file and applies defaults. A missing file yields the defaults.
// The result is not validated; call Validate after applying flag overrides.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", types.ErrConfig, path, err)
	}
	// Fields absent from the file keep their defaults; explicit zeros are kept.
	c := Default()
	c.LLM.Model, c.LLM.APIKeyEnv = "", ""
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", types.ErrConfig, path, err)
	}
	c.normalize()
	return c, nil
}
