package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIProviderChat(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"model":"tutor-small","choices":[{"message":{"role":"assistant","content":"Photosynthesis makes sugar."}}],"usage":{"total_tokens":42}}`))
	}))
	defer srv.Close()

	p := NewWithHTTPClient(srv.URL+"/v1/", "sk-test", "tutor-small", srv.Client())
	resp, err := p.Chat(context.Background(), []ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "what is photosynthesis?"},
	}, &GenerateOptions{Temperature: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "Photosynthesis makes sugar." || resp.TotalTokens != 42 {
		t.Fatalf("resp = %+v", resp)
	}
	if got.Model != "tutor-small" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("request = %+v", got)
	}
}

func TestOpenAIProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	p := NewWithHTTPClient(srv.URL, "", "m", srv.Client())
	_, err := p.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v", err)
	}
}

func TestOpenAIProviderEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewWithHTTPClient(srv.URL, "", "m", srv.Client())
	if _, err := p.Chat(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error for empty completion")
	}
}

func TestUnconfigured(t *testing.T) {
	if _, err := (Unconfigured{}).Chat(context.Background(), nil, nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
