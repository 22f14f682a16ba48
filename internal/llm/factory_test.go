package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-monitor-agent/internal/store"
	"stock-monitor-agent/internal/types"
)

func TestNewRejectsRules(t *testing.T) {
	cfg := store.Default()
	cfg.ProviderChanged(store.ProviderRules)

	if _, err := New(cfg, ""); !errors.Is(err, types.ErrConfig) {
		t.Fatalf("expected ErrConfig for RULES provider, got %v", err)
	}
}

func TestNewBuildsEachProvider(t *testing.T) {
	for _, p := range []string{store.ProviderGemini, store.ProviderOpenAI, store.ProviderClaude} {
		cfg := store.Default()
		cfg.ProviderChanged(p)
		a, err := New(cfg, "key")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", p, err)
		}
		if a == nil {
			t.Fatalf("%s: expected advisor", p)
		}
	}
}

type slowAdvisor struct{}

func (slowAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Second):
		return "MONITOR", nil
	}
}

func TestWithTimeout(t *testing.T) {
	a := WithTimeout(slowAdvisor{}, 20*time.Millisecond)
	if _, err := a.Advise(context.Background(), "p"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	if _, ok := WithTimeout(slowAdvisor{}, 0).(slowAdvisor); !ok {
		t.Fatal("expected zero timeout to return the advisor unchanged")
	}
}
