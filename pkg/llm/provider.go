// Package llm talks to chat-completion providers that answer with a JSON
// object. Two providers are supported: any OpenAI-compatible endpoint (Groq by
// default) and Anthropic.
package llm

import (
	"context"
	"fmt"
)

// Request is one system+user exchange
type Request struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Response is the raw assistant text with token accounting
type Response struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Provider performs a single chat completion
type Provider interface {
	Name() string
	Chat(ctx context.Context, req Request) (*Response, error)
}

// StatusError is a non-2xx answer from a provider
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether the provider may succeed on a second attempt
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
