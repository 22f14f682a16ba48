package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"stock-monitor-agent/internal/logger"
	"stock-monitor-agent/internal/monitor"
	"stock-monitor-agent/internal/trace"
	"stock-monitor-agent/internal/types"
)

const (
	exitExhausted   = 0
	exitConfig      = 1
	exitAlerted     = 2
	exitErrored     = 3
	exitAborted     = 4
	exitInterrupted = 130
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err := trace.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shut down tracer: %v\n", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitExhausted
		}
		return exitConfig
	}

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	decider, err := initializeDecider(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize decider", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	m := monitor.NewObserved(monitor.Params{
		Config:   cfg,
		Source:   initializePriceSource(cfg),
		Decider:  decider,
		Notifier: initializeNotifier(ctx, cfg, stdout),
		Journal:  initializeJournal(ctx, cfg),
		Out:      stdout,
	})

	res, err := m.Run(ctx)
	return exitCode(res, err)
}

func exitCode(res *types.RunResult, err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	if err != nil || res == nil {
		return exitAborted
	}
	switch res.State {
	case types.StateAlerted:
		return exitAlerted
	case types.StateErrored:
		return exitErrored
	case types.StateExhausted:
		return exitExhausted
	default:
		return exitAborted
	}
}
