package llm

import (
	"context"
	"fmt"
	"time"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/llm/claude"
	"stock-monitor-agent/internal/llm/gemini"
	"stock-monitor-agent/internal/llm/llmobs"
	"stock-monitor-agent/internal/llm/openai"
	"stock-monitor-agent/internal/store"
	"stock-monitor-agent/internal/types"
)

const defaultSystem = "You are a stock monitoring agent. Answer with MONITOR, ALERT or ERROR followed by a one-line reason."

// New builds the advisory client for cfg.LLM.Provider, wrapped with
// observability and the configured per-call timeout.
func New(cfg *store.Config, apiKey string) (interfaces.Advisor, error) {
	system := cfg.LLM.System
	if system == "" {
		system = defaultSystem
	}

	var advisor interfaces.Advisor
	switch cfg.LLM.Provider {
	case store.ProviderGemini:
		g, err := gemini.New(gemini.Params{
			APIKey:      apiKey,
			Model:       cfg.LLM.Model,
			Endpoint:    cfg.LLM.Endpoint,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			System:      system,
		})
		if err != nil {
			return nil, err
		}
		advisor = g
	case store.ProviderOpenAI:
		advisor = openai.New(openai.Params{
			APIKey:      apiKey,
			Model:       cfg.LLM.Model,
			Endpoint:    cfg.LLM.Endpoint,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			System:      system,
		})
	case store.ProviderClaude:
		advisor = claude.New(claude.Params{
			APIKey:      apiKey,
			Model:       cfg.LLM.Model,
			Endpoint:    cfg.LLM.Endpoint,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			System:      system,
		})
	default:
		return nil, fmt.Errorf("%w: no advisory client for provider %q", types.ErrConfig, cfg.LLM.Provider)
	}

	return WithTimeout(llmobs.Wrap(advisor, cfg.LLM.Provider), cfg.AdvisoryTimeout()), nil
}

type timeoutAdvisor struct {
	advisor interfaces.Advisor
	timeout time.Duration
}

// WithTimeout bounds every Advise call by d. A zero d returns a unchanged.
func WithTimeout(a interfaces.Advisor, d time.Duration) interfaces.Advisor {
	if d <= 0 {
		return a
	}
	return &timeoutAdvisor{advisor: a, timeout: d}
}

func (t *timeoutAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.advisor.Advise(ctx, prompt)
}
