package interfaces

import (
	"context"

	"stock-monitor-agent/internal/types"
)

type Monitor interface {
	Run(ctx context.Context) (*types.RunResult, error)
}
