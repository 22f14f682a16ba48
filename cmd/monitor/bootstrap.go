package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"stock-monitor-agent/internal/decider/oracle"
	"stock-monitor-agent/internal/decider/rules"
	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/journal"
	"stock-monitor-agent/internal/llm"
	"stock-monitor-agent/internal/logger"
	"stock-monitor-agent/internal/notify"
	"stock-monitor-agent/internal/price"
	"stock-monitor-agent/internal/price/priceobs"
	"stock-monitor-agent/internal/store"
	"stock-monitor-agent/internal/trace"
	"stock-monitor-agent/internal/types"
)

// initializeSystem loads .env and sets up logging and tracing
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

type options struct {
	config     string
	symbol     string
	lower      float64
	upper      float64
	iterations int
	provider   string
	model      string
	interval   float64
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{set: map[string]bool{}}
	fs.StringVar(&o.config, "config", "config.yaml", "path to config file (optional)")
	fs.StringVar(&o.symbol, "symbol", "HDFCBANK", "stock symbol to monitor, one of: "+strings.Join(price.Symbols(), ", "))
	fs.Float64Var(&o.lower, "lower", 1400, "lower price threshold")
	fs.Float64Var(&o.upper, "upper", 1600, "upper price threshold")
	fs.IntVar(&o.iterations, "iterations", 5, "maximum number of monitoring iterations")
	fs.StringVar(&o.provider, "provider", "", "advisory provider: GEMINI, OPENAI, CLAUDE or RULES")
	fs.StringVar(&o.model, "model", "", "advisory model override")
	fs.Float64Var(&o.interval, "interval", 2, "seconds to wait between iterations")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(ctx context.Context, o *options) (*store.Config, error) {
	cfg, err := store.LoadConfig(o.config)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}

	if o.set["symbol"] {
		cfg.Symbol = o.symbol
	}
	if o.set["lower"] {
		cfg.Lower = o.lower
	}
	if o.set["upper"] {
		cfg.Upper = o.upper
	}
	if o.set["iterations"] {
		cfg.Iterations = o.iterations
	}
	if o.set["interval"] {
		cfg.PollSeconds = o.interval
	}
	if o.set["provider"] {
		cfg.ProviderChanged(o.provider)
	}
	if o.set["model"] {
		cfg.LLM.Model = o.model
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrConfig, err)
	}
	return cfg, nil
}

// initializeDecider picks the local rule decider or an advisory-backed oracle
func initializeDecider(ctx context.Context, cfg *store.Config) (interfaces.Decider, error) {
	if cfg.LLM.Provider == store.ProviderRules {
		logger.Info(ctx, "Using rule-based decider, no advisory service configured")
		return rules.New(), nil
	}

	apiKey, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}
	advisor, err := llm.New(cfg, apiKey)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Using advisory service", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return oracle.New(advisor), nil
}

func initializePriceSource(cfg *store.Config) interfaces.PriceSource {
	return priceobs.Wrap(price.NewSimulated(price.Params{
		Base:   cfg.Price.Base,
		Spread: cfg.Price.Spread,
		Tick:   cfg.Price.Tick,
	}))
}

// initializeNotifier always writes to the console and adds Telegram when configured
func initializeNotifier(ctx context.Context, cfg *store.Config, out io.Writer) interfaces.Notifier {
	notifiers := notify.Multi{notify.NewConsole(out)}

	token := os.Getenv(cfg.Notify.TelegramTokenEnv)
	if token == "" || cfg.Notify.TelegramChatID == 0 {
		return notifiers
	}
	tg, err := notify.NewTelegram(token, cfg.Notify.TelegramChatID)
	if err != nil {
		logger.Warn(ctx, "Telegram alerts disabled", "error", err)
		return notifiers
	}
	logger.Info(ctx, "Telegram alerts enabled", "chat_id", cfg.Notify.TelegramChatID)
	return append(notifiers, tg)
}

// initializeJournal returns nil unless the journal is enabled
func initializeJournal(ctx context.Context, cfg *store.Config) interfaces.Journal {
	if !cfg.Journal.Enabled {
		return nil
	}
	j := journal.New(cfg.Journal.Dir)
	if cfg.Journal.RetentionDays > 0 {
		if err := j.CompressOlder(cfg.Journal.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old journal files", "error", err)
		}
	}
	return j
}
