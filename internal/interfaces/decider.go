package interfaces

import (
	"context"

	"stock-monitor-agent/internal/types"
)

type Decider interface {
	Decide(ctx context.Context, obs types.Observation, history []string) (types.Verdict, error)
}
