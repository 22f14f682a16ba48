package notify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/types"
)

// FormatAlert renders the user-facing alert line.
func FormatAlert(a types.Alert) string {
	return fmt.Sprintf("ALERT: %s price (%.2f) has crossed threshold! [lower %.2f, upper %.2f]",
		a.Symbol, a.Price, a.Thresholds.Lower, a.Thresholds.Upper)
}

// Console writes alerts to a terminal.
type Console struct {
	w io.Writer
}

var _ interfaces.Notifier = (*Console)(nil)

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(ctx context.Context, a types.Alert) error {
	_, err := fmt.Fprintf(c.w, "\n%s\n", FormatAlert(a))
	return err
}

// Multi fans an alert out to every notifier and joins their errors.
type Multi []interfaces.Notifier

func (m Multi) Notify(ctx context.Context, a types.Alert) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
