package rules

import (
	"context"
	"fmt"
	"math"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/types"
)

// Decider compares the price against the thresholds directly. It ignores history.
type Decider struct{}

var _ interfaces.Decider = (*Decider)(nil)

func New() *Decider {
	return &Decider{}
}

func (d *Decider) Decide(ctx context.Context, obs types.Observation, history []string) (types.Verdict, error) {
	price := obs.Price
	lower, upper := obs.Thresholds.Lower, obs.Thresholds.Upper

	if math.IsNaN(price) || price <= 0 {
		return types.Verdict{Action: types.ActionError, Text: fmt.Sprintf("ERROR: invalid price %v", price)}, nil
	}

	lowerDiff := pctDiff(price-lower, lower)
	upperDiff := pctDiff(upper-price, upper)

	switch {
	case price <= lower:
		return types.Verdict{
			Action: types.ActionAlert,
			Text:   fmt.Sprintf("ALERT: Price has dropped below lower threshold. Currently %.2f%% below target.", math.Abs(lowerDiff)),
		}, nil
	case price >= upper:
		return types.Verdict{
			Action: types.ActionAlert,
			Text:   fmt.Sprintf("ALERT: Price has exceeded upper threshold. Currently %.2f%% above target.", math.Abs(upperDiff)),
		}, nil
	case price-lower < upper-price:
		return types.Verdict{
			Action: types.ActionMonitor,
			Text:   fmt.Sprintf("MONITOR: Price is closer to lower threshold (%.2f%% away). Monitor for potential support levels.", lowerDiff),
		}, nil
	default:
		return types.Verdict{
			Action: types.ActionMonitor,
			Text:   fmt.Sprintf("MONITOR: Price is closer to upper threshold (%.2f%% away). Watch for resistance levels.", upperDiff),
		}, nil
	}
}

func pctDiff(delta, base float64) float64 {
	if base == 0 {
		return 0
	}
	return delta / math.Abs(base) * 100
}
