package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-monitor-agent/internal/types"
)

func TestAdvise(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":" MONITOR: inside the band "}}]}`))
	}))
	defer srv.Close()

	a := New(Params{APIKey: "secret", Model: "gpt-4o-mini", Endpoint: srv.URL, MaxTokens: 50, Temperature: 0.7})
	text, err := a.Advise(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "MONITOR: inside the band" {
		t.Errorf("unexpected text %q", text)
	}
	if body["model"] != "gpt-4o-mini" {
		t.Errorf("expected model to be forwarded, got %v", body["model"])
	}
}

func TestAdviseServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	a := New(Params{APIKey: "secret", Model: "gpt-4o-mini", Endpoint: srv.URL})
	if _, err := a.Advise(context.Background(), "hello"); !errors.Is(err, types.ErrAdvisory) {
		t.Fatalf("expected ErrAdvisory, got %v", err)
	}
}
