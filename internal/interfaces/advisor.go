package interfaces

import "context"

// Advisor sends a free-text prompt to a text-generation service and returns its reply.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}
