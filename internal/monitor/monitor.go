package monitor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/logger"
	"stock-monitor-agent/internal/store"
	"stock-monitor-agent/internal/types"
)

// SleepFunc pauses between loop passes and returns early with ctx.Err() on cancellation.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Params struct {
	Config   *store.Config
	Source   interfaces.PriceSource
	Decider  interfaces.Decider
	Notifier interfaces.Notifier
	// Journal is optional.
	Journal interfaces.Journal
	// Out receives the human-readable progress lines. Defaults to io.Discard.
	Out   io.Writer
	Sleep SleepFunc
	Now   func() time.Time
	RunID string
}

// Monitor runs one symbol through a bounded number of price/decision passes.
type Monitor struct {
	cfg      *store.Config
	source   interfaces.PriceSource
	decider  interfaces.Decider
	notifier interfaces.Notifier
	journal  interfaces.Journal
	out      io.Writer
	sleep    SleepFunc
	now      func() time.Time
	runID    string
}

var _ interfaces.Monitor = (*Monitor)(nil)

func New(p Params) *Monitor {
	m := &Monitor{
		cfg:      p.Config,
		source:   p.Source,
		decider:  p.Decider,
		notifier: p.Notifier,
		journal:  p.Journal,
		out:      p.Out,
		sleep:    p.Sleep,
		now:      p.Now,
		runID:    p.RunID,
	}
	if m.out == nil {
		m.out = io.Discard
	}
	if m.sleep == nil {
		m.sleep = Sleep
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.runID == "" {
		m.runID = uuid.NewString()
	}
	return m
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *Monitor) thresholds() types.Thresholds {
	return types.Thresholds{Lower: m.cfg.Lower, Upper: m.cfg.Upper}
}

func (m *Monitor) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

// Run drives the loop until a terminal state. The returned error is non-nil
// only for StateAborted.
func (m *Monitor) Run(ctx context.Context) (*types.RunResult, error) {
	symbol := m.cfg.Symbol
	max := m.cfg.Iterations
	hist := &History{}
	res := &types.RunResult{RunID: m.runID, Symbol: symbol, State: types.StateRunning}

	finish := func(state types.State, err error) (*types.RunResult, error) {
		res.State = state
		res.History = hist.Entries()
		return res, err
	}

	m.printf("\nStarting monitoring for %s\n", symbol)
	m.printf("Lower threshold: %.2f\n", m.cfg.Lower)
	m.printf("Upper threshold: %.2f\n", m.cfg.Upper)
	m.printf("%s\n", strings.Repeat("-", 50))

	for iteration := 1; iteration <= max; iteration++ {
		if err := ctx.Err(); err != nil {
			return finish(types.StateAborted, err)
		}
		res.Iterations = iteration
		last := iteration == max
		m.printf("\nIteration %d/%d\n", iteration, max)

		op := logger.StartOperation(ctx, "monitor.iteration", "symbol", symbol, "iteration", iteration)
		ictx := op.GetContext()

		price, err := m.source.FetchPrice(ictx, symbol)
		if err != nil {
			logger.Warn(ictx, "Price unavailable, retrying after pause", "symbol", symbol, "iteration", iteration, "error", err)
			m.record(types.JournalEntry{Iteration: iteration, Error: err.Error()})
			op.End("outcome", "price_failed")
			if err := m.pause(ctx, last); err != nil {
				return finish(types.StateAborted, err)
			}
			continue
		}
		res.LastPrice = price

		obs := types.Observation{
			Symbol:     symbol,
			Price:      price,
			Thresholds: m.thresholds(),
			Iteration:  iteration,
			Time:       m.now(),
		}

		m.printf("Current price: %.2f\n", price)
		verdict, err := m.decider.Decide(ictx, obs, hist.Entries())
		if err != nil {
			m.record(types.JournalEntry{Iteration: iteration, Price: price, Request: verdict.Prompt, Error: err.Error()})
			if ctx.Err() != nil {
				op.EndWithError(err)
				return finish(types.StateAborted, ctx.Err())
			}
			if m.cfg.OnAdvisoryError == store.OnAdvisoryErrorSkip {
				logger.Warn(ictx, "Advisory call failed, skipping iteration", "symbol", symbol, "iteration", iteration, "error", err)
				op.End("outcome", "advisory_skipped")
				if err := m.pause(ctx, last); err != nil {
					return finish(types.StateAborted, err)
				}
				continue
			}
			op.EndWithError(err)
			return finish(types.StateAborted, fmt.Errorf("iteration %d: %w", iteration, err))
		}
		res.Verdict = verdict

		logger.Verdict(ictx, symbol, string(verdict.Action), price, iteration, "run_id", m.runID)
		m.record(types.JournalEntry{
			Iteration: iteration,
			Price:     price,
			Action:    verdict.Action,
			Request:   verdict.Prompt,
			Response:  verdict.Text,
		})
		m.printf("LLM Response: %s\n", verdict.Text)

		switch verdict.Action {
		case types.ActionAlert:
			op.End("outcome", string(types.StateAlerted))
			m.alert(ctx, price, verdict)
			return finish(types.StateAlerted, nil)
		case types.ActionError:
			op.End("outcome", string(types.StateErrored))
			logger.Warn(ctx, "Advisor reported an error", "symbol", symbol, "iteration", iteration, "response", verdict.Text)
			m.printf("\nError in monitoring process\n")
			return finish(types.StateErrored, nil)
		}

		hist.Append(fmt.Sprintf("Price: %.2f", price), "LLM Response: "+verdict.Text)
		op.End("outcome", string(types.StateRunning), "history_len", hist.Len())

		if err := m.pause(ctx, last); err != nil {
			return finish(types.StateAborted, err)
		}
	}

	logger.Info(ctx, "Iteration budget exhausted", "symbol", symbol, "iterations", max)
	return finish(types.StateExhausted, nil)
}

// pause sleeps the poll interval unless this was the final pass.
func (m *Monitor) pause(ctx context.Context, last bool) error {
	if last {
		return nil
	}
	return m.sleep(ctx, m.cfg.PollInterval())
}

func (m *Monitor) alert(ctx context.Context, price float64, v types.Verdict) {
	a := types.Alert{
		RunID:      m.runID,
		Symbol:     m.cfg.Symbol,
		Price:      price,
		Thresholds: m.thresholds(),
		Reason:     v.Text,
		Time:       m.now(),
	}
	logger.Alert(ctx, a.Symbol, a.Price, "run_id", m.runID, "reason", v.Text)
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Notify(ctx, a); err != nil {
		logger.ErrorWithErr(ctx, "Failed to deliver alert", err, "symbol", a.Symbol)
	}
}

func (m *Monitor) record(e types.JournalEntry) {
	if m.journal == nil {
		return
	}
	e.RunID = m.runID
	e.Symbol = m.cfg.Symbol
	e.Thresholds = m.thresholds()
	if err := m.journal.Record(e); err != nil {
		logger.Warn(context.Background(), "Failed to write journal entry", "run_id", m.runID, "error", err)
	}
}
