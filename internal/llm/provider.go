package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("llm: provider not configured")

// Provider is a chat-completion backend.
type Provider interface {
	Chat(ctx context.Context, messages []ChatMessage, options *GenerateOptions) (*GenerateResponse, error)
	Name() string
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerateOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

type GenerateResponse struct {
	Content     string
	Model       string
	TotalTokens int
}

// OpenAIProvider talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAIProvider(baseURL, apiKey, model string, timeout time.Duration) *OpenAIProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIProvider{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient swaps the transport; used by tests.
func NewWithHTTPClient(baseURL, apiKey, model string, c *http.Client) *OpenAIProvider {
	p := NewOpenAIProvider(baseURL, apiKey, model, 0)
	if c != nil {
		p.client = c
	}
	return p
}

func (p *OpenAIProvider) Name() string { return "openai-compatible" }

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Chat(ctx context.Context, messages []ChatMessage, options *GenerateOptions) (*GenerateResponse, error) {
	req := chatCompletionRequest{Model: p.model, Messages: messages}
	if options != nil {
		if options.Model != "" {
			req.Model = options.Model
		}
		req.Temperature = options.Temperature
		req.MaxTokens = options.MaxTokens
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("llm: read body: %w", err)
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("llm: status %d: decode: %w", resp.StatusCode, err)
	}
	if resp.StatusCode/100 != 2 {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("llm: status %d: %s", resp.StatusCode, msg)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return nil, errors.New("llm: empty completion")
	}
	return &GenerateResponse{
		Content:     out.Choices[0].Message.Content,
		Model:       out.Model,
		TotalTokens: out.Usage.TotalTokens,
	}, nil
}

// Unconfigured is used when no API key is set; every call fails fast.
type Unconfigured struct{}

func (Unconfigured) Name() string { return "unconfigured" }

func (Unconfigured) Chat(context.Context, []ChatMessage, *GenerateOptions) (*GenerateResponse, error) {
	return nil, ErrUnavailable
}
