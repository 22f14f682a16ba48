package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/logger"
	"stock-monitor-agent/internal/trace"
	"stock-monitor-agent/internal/types"
)

type Params struct {
	APIKey      string
	Model       string
	Endpoint    string // base URL override, the API version and model path are appended
	MaxTokens   int
	Temperature float64
	System      string
	HTTPClient  *http.Client
}

// Advisor calls Gemini generateContent through the genai SDK.
type Advisor struct {
	p      Params
	client *genai.Client
}

var _ interfaces.Advisor = (*Advisor)(nil)

func New(p Params) (*Advisor, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key missing", types.ErrAdvisory)
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      p.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  p.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: p.Endpoint},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %v", types.ErrAdvisory, err)
	}
	return &Advisor{p: p, client: client}, nil
}

func (a *Advisor) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(a.p.Temperature)),
	}
	if a.p.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(a.p.MaxTokens)
	}
	if a.p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(a.p.System, genai.RoleUser)
	}
	return cfg
}

func (a *Advisor) Advise(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	logger.Debug(ctx, "Sending request to Gemini", "model", a.p.Model, "temperature", a.p.Temperature)
	start := time.Now()
	resp, err := a.client.Models.GenerateContent(ctx, a.p.Model, genai.Text(prompt), a.generateConfig())
	latency := time.Since(start)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: gemini http %d: %s", types.ErrAdvisory, apiErr.Code, strings.TrimSpace(apiErr.Message))
		}
		return "", fmt.Errorf("%w: gemini request: %v", types.ErrAdvisory, err)
	}

	logger.Debug(ctx, "Received response from Gemini", "candidates", len(resp.Candidates), "latency_ms", latency.Milliseconds())

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: gemini blocked prompt: %s", types.ErrAdvisory, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: invalid response format from gemini: no candidates", types.ErrAdvisory)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty gemini response (finish reason %q)", types.ErrAdvisory, resp.Candidates[0].FinishReason)
	}
	return text, nil
}
