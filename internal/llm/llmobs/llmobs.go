package llmobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/logger"
	"stock-monitor-agent/internal/trace"
)

// observableAdvisor wraps an Advisor with observability (logging & tracing)
type observableAdvisor struct {
	advisor  interfaces.Advisor
	provider string
}

// Compile-time interface check
var _ interfaces.Advisor = (*observableAdvisor)(nil)

// Wrap wraps an advisor with observability middleware
func Wrap(advisor interfaces.Advisor, provider string) interfaces.Advisor {
	return &observableAdvisor{
		advisor:  advisor,
		provider: provider,
	}
}

// Advise requests advice with observability
func (oa *observableAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Advise")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", oa.provider),
		attribute.Int("prompt_length", len(prompt)),
	)

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Sending prompt to advisor",
		"provider", oa.provider,
		"prompt_length", len(prompt),
	)

	start := time.Now()
	advice, err := oa.advisor.Advise(ctx, prompt)
	latency := time.Since(start)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Advisory call failed", err,
			"provider", oa.provider,
			"latency_ms", latency.Milliseconds(),
		)
		return "", err
	}

	span.SetAttributes(attribute.Int("response_length", len(advice)))
	logger.InfoSkip(ctx, 1, "Advice received",
		"provider", oa.provider,
		"latency_ms", latency.Milliseconds(),
		"response_length", len(advice),
	)

	return advice, nil
}
