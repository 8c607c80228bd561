package ai

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

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/erp-issue-hub/pkg/config"
)

// ErrEmptyCompletion is returned when the API answers without any choice
var ErrEmptyCompletion = errors.New("empty completion response")

// Message is a single chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System builds a system message
func System(content string) Message { return Message{Role: "system", Content: content} }

// User builds a user message
func User(content string) Message { return Message{Role: "user", Content: content} }

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Completer produces a chat completion for a list of messages
type Completer interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

// GroqClient talks to an OpenAI-compatible chat completion API (Groq by default)
type GroqClient struct {
	apiKey     string
	baseURL    string
	model      string
	client     *http.Client
	maxElapsed time.Duration
}

var _ Completer = (*GroqClient)(nil)

// NewGroqClient creates a client from the LLM config
func NewGroqClient(cfg config.LLMConfig) *GroqClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GroqClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		client:     &http.Client{Timeout: timeout},
		maxElapsed: 30 * time.Second,
	}
}

// Complete sends the messages and returns the assistant content.
// Rate limits and server errors are retried with exponential backoff.
func (g *GroqClient) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	body, err := json.Marshal(ChatRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", err
	}

	var content string
	call := func() error {
		c, err := g.do(ctx, body)
		if err != nil {
			return err
		}
		content = c
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = g.maxElapsed

	if err := backoff.Retry(call, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return content, nil
}

func (g *GroqClient) do(ctx context.Context, body []byte) (string, error) {
	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", fmt.Errorf("llm returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", backoff.Permanent(fmt.Errorf("llm returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode llm response: %w", err))
	}
	if len(cr.Choices) == 0 {
		return "", backoff.Permanent(ErrEmptyCompletion)
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
