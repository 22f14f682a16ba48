package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-monitor-agent/internal/types"
)

type sentPart struct {
	Text string `json:"text"`
}

type sentContent struct {
	Role  string     `json:"role"`
	Parts []sentPart `json:"parts"`
}

type sentRequest struct {
	Contents          []sentContent `json:"contents"`
	SystemInstruction *sentContent  `json:"systemInstruction"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func TestAdviseSendsPromptAndParsesCandidate(t *testing.T) {
	var got sentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Errorf("expected api key header, got %q", r.Header.Get("x-goog-api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"MONITOR: "},{"text":"price is stable\n"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	a, err := New(Params{APIKey: "secret", Model: "gemini-2.0-flash", Endpoint: srv.URL, MaxTokens: 1000, Temperature: 0.7, System: "be brief"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	text, err := a.Advise(context.Background(), "Current price: 1500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "MONITOR: price is stable" {
		t.Errorf("unexpected text %q", text)
	}
	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 1 || got.Contents[0].Parts[0].Text != "Current price: 1500" {
		t.Errorf("prompt not forwarded: %+v", got.Contents)
	}
	if got.GenerationConfig.MaxOutputTokens != 1000 || math.Abs(got.GenerationConfig.Temperature-0.7) > 1e-6 {
		t.Errorf("generation config not forwarded: %+v", got.GenerationConfig)
	}
	if got.SystemInstruction == nil || len(got.SystemInstruction.Parts) != 1 || got.SystemInstruction.Parts[0].Text != "be brief" {
		t.Errorf("system instruction not forwarded: %+v", got.SystemInstruction)
	}
}

func TestAdviseErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http status", http.StatusUnauthorized, `{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`, "gemini http 401"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, "no candidates"},
		{"blocked", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, "SAFETY"},
		{"empty text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"  "}]},"finishReason":"MAX_TOKENS"}]}`, "empty gemini response"},
		{"bad json", http.StatusOK, `not json`, "gemini request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			a, err := New(Params{APIKey: "k", Model: "m", Endpoint: srv.URL})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			_, err = a.Advise(context.Background(), "p")
			if !errors.Is(err, types.ErrAdvisory) {
				t.Fatalf("expected ErrAdvisory, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error to mention %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNewMissingKey(t *testing.T) {
	if _, err := New(Params{Model: "m"}); !errors.Is(err, types.ErrAdvisory) {
		t.Fatalf("expected ErrAdvisory, got %v", err)
	}
}
