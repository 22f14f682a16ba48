package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/trace"
	"stock-monitor-agent/internal/types"
)

type Params struct {
	APIKey      string
	Model       string
	Endpoint    string // base URL override
	MaxTokens   int
	Temperature float64
	System      string
	HTTPClient  *http.Client
}

type Advisor struct {
	p      Params
	client openai.Client
}

var _ interfaces.Advisor = (*Advisor)(nil)

func New(p Params) *Advisor {
	// retries are owned by the monitor's advisory error policy
	opts := []option.RequestOption{
		option.WithAPIKey(p.APIKey),
		option.WithMaxRetries(0),
	}
	if p.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(p.Endpoint))
	}
	if p.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(p.HTTPClient))
	}
	return &Advisor{p: p, client: openai.NewClient(opts...)}
}

func (a *Advisor) Advise(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if a.p.APIKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY missing", types.ErrAdvisory)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if a.p.System != "" {
		messages = append(messages, openai.SystemMessage(a.p.System))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(a.p.Model),
		Messages:    messages,
		Temperature: openai.Float(a.p.Temperature),
	}
	if a.p.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(a.p.MaxTokens))
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", types.ErrAdvisory, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", types.ErrAdvisory)
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("%w: empty openai response", types.ErrAdvisory)
	}
	return out, nil
}
