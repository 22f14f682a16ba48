package price

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/logger"
	"stock-monitor-agent/internal/types"
)

type Params struct {
	Base   float64
	Spread float64
	Tick   float64
	// Rand returns values in [0, 1). Defaults to math/rand.
	Rand func() float64
}

// Simulated is a stand-in for a market feed: Base perturbed by a uniform
// offset in [-Spread, +Spread], rounded to Tick.
type Simulated struct {
	p Params
}

var _ interfaces.PriceSource = (*Simulated)(nil)

func NewSimulated(p Params) *Simulated {
	if p.Rand == nil {
		p.Rand = rand.Float64
	}
	return &Simulated{p: p}
}

func (s *Simulated) FetchPrice(ctx context.Context, symbol string) (price float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			price, err = 0, fmt.Errorf("%w: %s: %v", types.ErrPriceFetch, symbol, r)
		}
	}()

	code, ok := ProviderCode(symbol)
	if !ok {
		return 0, fmt.Errorf("%w: %s", types.ErrUnknownSymbol, symbol)
	}

	offset := (s.p.Rand()*2 - 1) * s.p.Spread
	price = roundToTick(s.p.Base+offset, s.p.Tick)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: %s: invalid simulated value", types.ErrPriceFetch, symbol)
	}

	logger.Info(ctx, fmt.Sprintf("Simulated price for %s: %.2f", symbol, price), "symbol", symbol, "provider_code", code, "price", price)
	return price, nil
}

func roundToTick(x, tick float64) float64 {
	if tick <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	t := decimal.NewFromFloat(tick)
	return decimal.NewFromFloat(x).Div(t).Round(0).Mul(t).InexactFloat64()
}
