package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stock-monitor-agent/internal/store"
	"stock-monitor-agent/internal/types"
)

func TestParseFlagsTracksExplicitFlags(t *testing.T) {
	o, err := parseFlags([]string{"--symbol", "TCS", "--lower", "100"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if !o.set["symbol"] || !o.set["lower"] {
		t.Errorf("expected symbol and lower to be marked set: %v", o.set)
	}
	if o.set["upper"] {
		t.Error("upper should not be marked set")
	}
	if o.upper != 1600 || o.iterations != 5 || o.interval != 2 {
		t.Errorf("unexpected defaults: %+v", o)
	}
}

func TestUsageListsSupportedSymbols(t *testing.T) {
	var usage strings.Builder
	_, err := parseFlags([]string{"-h"}, &usage)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("parseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
	for _, sym := range []string{"HDFCBANK", "INFY", "TCS"} {
		if !strings.Contains(usage.String(), sym) {
			t.Errorf("usage should list %s:\n%s", sym, usage.String())
		}
	}
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "symbol: INFY\nlower: 10\nupper: 20\nllm:\n  provider: OPENAI\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := parseFlags([]string{"--config", path, "--upper", "30", "--provider", "claude"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(context.Background(), o)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Symbol != "INFY" || cfg.Lower != 10 || cfg.Upper != 30 {
		t.Errorf("unexpected monitor config: %s %.2f %.2f", cfg.Symbol, cfg.Lower, cfg.Upper)
	}
	if cfg.LLM.Provider != store.ProviderClaude || cfg.LLM.APIKeyEnv != "CLAUDE_API_KEY" {
		t.Errorf("provider override not applied: %s %s", cfg.LLM.Provider, cfg.LLM.APIKeyEnv)
	}
}

func TestLoadConfigRejectsZeroIterations(t *testing.T) {
	o, err := parseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--iterations", "0"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	_, err = loadConfig(context.Background(), o)
	if !errors.Is(err, types.ErrConfig) {
		t.Errorf("loadConfig() error = %v, want ErrConfig", err)
	}
}

func TestRunAcceptsInvertedThresholds(t *testing.T) {
	// lower 1800 sits above every simulated price, so the rules decider alerts
	code := run(context.Background(), []string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--provider", "RULES",
		"--lower", "1800",
		"--upper", "100",
		"--iterations", "1",
		"--interval", "0",
	}, io.Discard, io.Discard)
	if code != exitAlerted {
		t.Errorf("run() = %d, want %d", code, exitAlerted)
	}
}

func TestRunMissingCredentialIsConfigError(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	var stderr strings.Builder
	code := run(context.Background(), []string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--provider", "GEMINI",
	}, io.Discard, &stderr)
	if code != exitConfig {
		t.Fatalf("run() = %d, want %d", code, exitConfig)
	}
	if !strings.Contains(stderr.String(), "GEMINI_API_KEY") {
		t.Errorf("stderr should name the missing variable: %q", stderr.String())
	}
}

func TestRunWithRulesAlertsAboveUpper(t *testing.T) {
	var stdout strings.Builder
	// simulated prices sit around 1500, far above the upper threshold
	code := run(context.Background(), []string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--provider", "RULES",
		"--symbol", "TCS",
		"--lower", "100",
		"--upper", "200",
		"--iterations", "3",
		"--interval", "0",
	}, &stdout, io.Discard)
	if code != exitAlerted {
		t.Fatalf("run() = %d, want %d\n%s", code, exitAlerted, stdout.String())
	}
	if !strings.Contains(stdout.String(), "ALERT: TCS price") {
		t.Errorf("console alert missing:\n%s", stdout.String())
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		res  *types.RunResult
		err  error
		want int
	}{
		{"exhausted", &types.RunResult{State: types.StateExhausted}, nil, exitExhausted},
		{"alerted", &types.RunResult{State: types.StateAlerted}, nil, exitAlerted},
		{"errored", &types.RunResult{State: types.StateErrored}, nil, exitErrored},
		{"advisory fault", &types.RunResult{State: types.StateAborted}, fmt.Errorf("iteration 1: %w", types.ErrAdvisory), exitAborted},
		{"interrupted", &types.RunResult{State: types.StateAborted}, context.Canceled, exitInterrupted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.res, tc.err); got != tc.want {
				t.Errorf("exitCode() = %d, want %d", got, tc.want)
			}
		})
	}
}
