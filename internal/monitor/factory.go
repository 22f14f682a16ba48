package monitor

import (
	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/monitor/monitorobs"
)

// NewObserved returns a Monitor wrapped with run-level logging and tracing.
func NewObserved(p Params) interfaces.Monitor {
	return monitorobs.Wrap(New(p), p.Config.Symbol)
}
