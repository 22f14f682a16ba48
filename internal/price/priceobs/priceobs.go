package priceobs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/logger"
	"stock-monitor-agent/internal/trace"
)

// observableSource wraps a PriceSource with logging and tracing
type observableSource struct {
	source interfaces.PriceSource
}

var _ interfaces.PriceSource = (*observableSource)(nil)

func Wrap(source interfaces.PriceSource) interfaces.PriceSource {
	return &observableSource{source: source}
}

func (ps *observableSource) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "price.FetchPrice")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	logger.DebugSkip(ctx, 1, "Fetching price", "symbol", symbol)

	price, err := ps.source.FetchPrice(ctx, symbol)
	if err != nil {
		// the loop owns the warning for a failed fetch
		span.SetAttributes(attribute.String("error", err.Error()))
		logger.DebugSkip(ctx, 1, "Failed to fetch price", "symbol", symbol, "error", err)
		return 0, err
	}

	span.SetAttributes(attribute.Float64("price", price))
	logger.DebugSkip(ctx, 1, "Price fetched", "symbol", symbol, "price", price)
	return price, nil
}
