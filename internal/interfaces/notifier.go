package interfaces

import (
	"context"

	"stock-monitor-agent/internal/types"
)

// Notifier delivers an alert to a user-facing channel.
type Notifier interface {
	Notify(ctx context.Context, alert types.Alert) error
}

// Journal records one iteration of a run. Implementations must not be read back by the loop.
type Journal interface {
	Record(entry types.JournalEntry) error
}
