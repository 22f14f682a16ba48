package oracle

import (
	"context"
	"fmt"
	"strings"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/types"
)

const instruction = `What should we do next? Respond with one of these formats:
1. MONITOR: Continue monitoring
2. ALERT: Price has crossed threshold
3. ERROR: Something went wrong`

// Decider delegates the decision to a remote text-generation service and
// classifies the free-text reply by keyword.
type Decider struct {
	advisor interfaces.Advisor
}

var _ interfaces.Decider = (*Decider)(nil)

func New(advisor interfaces.Advisor) *Decider {
	return &Decider{advisor: advisor}
}

func (d *Decider) Decide(ctx context.Context, obs types.Observation, history []string) (types.Verdict, error) {
	prompt := BuildPrompt(obs, history)

	text, err := d.advisor.Advise(ctx, prompt)
	if err != nil {
		return types.Verdict{Prompt: prompt}, err
	}

	return types.Verdict{Action: Classify(text), Text: text, Prompt: prompt}, nil
}

// BuildPrompt renders the observation and the whole history, newline joined.
func BuildPrompt(obs types.Observation, history []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a stock monitoring agent. Your task is to monitor %s stock price.\n", obs.Symbol)
	fmt.Fprintf(&b, "Current price: %.2f\n", obs.Price)
	fmt.Fprintf(&b, "Lower threshold: %.2f\n", obs.Thresholds.Lower)
	fmt.Fprintf(&b, "Upper threshold: %.2f\n", obs.Thresholds.Upper)
	b.WriteString("\nPrevious interactions:\n")
	b.WriteString(strings.Join(history, "\n"))
	b.WriteString("\n\n")
	b.WriteString(instruction)
	return b.String()
}

// Classify maps advice text to an action. ALERT is checked before ERROR, and
// text containing neither keyword means keep monitoring.
func Classify(text string) types.Action {
	switch {
	case strings.Contains(text, string(types.ActionAlert)):
		return types.ActionAlert
	case strings.Contains(text, string(types.ActionError)):
		return types.ActionError
	default:
		return types.ActionMonitor
	}
}
