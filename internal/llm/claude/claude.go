package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"stock-monitor-agent/internal/interfaces"
	"stock-monitor-agent/internal/trace"
	"stock-monitor-agent/internal/types"
)

const (
	defaultEndpoint = "https://api.anthropic.com/v1/messages"
	apiVersion      = "2023-06-01"
)

type Params struct {
	APIKey      string
	Model       string
	Endpoint    string // full messages URL, for proxies
	MaxTokens   int
	Temperature float64
	System      string
	HTTPClient  *http.Client
}

// Advisor implements interfaces.Advisor using the Anthropic Messages API
type Advisor struct {
	p Params
}

var _ interfaces.Advisor = (*Advisor)(nil)

func New(p Params) *Advisor {
	if p.Endpoint == "" {
		p.Endpoint = defaultEndpoint
	}
	if p.HTTPClient == nil {
		p.HTTPClient = http.DefaultClient
	}
	return &Advisor{p: p}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (a *Advisor) Advise(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	if a.p.APIKey == "" {
		return "", fmt.Errorf("%w: CLAUDE_API_KEY missing", types.ErrAdvisory)
	}

	bb, err := json.Marshal(request{
		Model:       a.p.Model,
		MaxTokens:   a.p.MaxTokens,
		Temperature: a.p.Temperature,
		System:      a.p.System,
		Messages:    []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", types.ErrAdvisory, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.p.Endpoint, bytes.NewReader(bb))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", types.ErrAdvisory, err)
	}
	req.Header.Set("x-api-key", a.p.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.p.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: claude request: %v", types.ErrAdvisory, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: claude http %d: %s", types.ErrAdvisory, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("%w: decode claude response: %v", types.ErrAdvisory, err)
	}

	var sb strings.Builder
	for _, c := range r.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty claude response (stop reason %q)", types.ErrAdvisory, r.StopReason)
	}
	return text, nil
}
