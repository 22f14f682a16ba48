package interfaces

import "context"

// PriceSource returns the latest price for a symbol.
type PriceSource interface {
	FetchPrice(ctx context.Context, symbol string) (float64, error)
}
