package monitorobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/logger"
	"stock-monitor-agent/internal/trace"
	"stock-monitor-agent/internal/types"
)

type observableMonitor struct {
	monitor interfaces.Monitor
	symbol  string
}

var _ interfaces.Monitor = (*observableMonitor)(nil)

func Wrap(m interfaces.Monitor, symbol string) interfaces.Monitor {
	return &observableMonitor{
		monitor: m,
		symbol:  symbol,
	}
}

func (om *observableMonitor) Run(ctx context.Context) (*types.RunResult, error) {
	ctx, span := trace.StartSpan(ctx, "monitor.Run")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", om.symbol))

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting monitoring run",
		"symbol", om.symbol,
	)

	result, err := om.monitor.Run(ctx)
	if result != nil {
		span.SetAttributes(
			attribute.String("state", string(result.State)),
			attribute.Int("iterations", result.Iterations),
		)
	}
	if err != nil {
		fields := []any{
			"symbol", om.symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if result != nil {
			fields = append(fields, "state", result.State, "iterations", result.Iterations)
		}
		logger.ErrorWithErrSkip(ctx, 1, "Monitoring run aborted", err, fields...)
		return result, err
	}

	logger.InfoSkip(ctx, 1, "Monitoring run finished",
		"symbol", om.symbol,
		"run_id", result.RunID,
		"state", result.State,
		"iterations", result.Iterations,
		"last_price", result.LastPrice,
		"history_len", len(result.History),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
