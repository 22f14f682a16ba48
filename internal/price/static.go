package price

import (
	"context"
	"fmt"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/types"
)

// Static always quotes the same price for mapped symbols.
type Static struct {
	Price float64
}

var _ interfaces.PriceSource = (*Static)(nil)

func (s *Static) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	if _, ok := ProviderCode(symbol); !ok {
		return 0, fmt.Errorf("%w: %s", types.ErrUnknownSymbol, symbol)
	}
	return s.Price, nil
}
