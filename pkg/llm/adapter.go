package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-insight/pkg/config"
	"github.com/johnquangdev/call-insight/pkg/jobcontext"
)

// ErrorKind tells callers which part of a completion failed
type ErrorKind string

const (
	KindProvider      ErrorKind = "provider"
	KindSchema        ErrorKind = "schema"
	KindConfiguration ErrorKind = "configuration"
)

// Error is returned by Adapter.Complete. Tokens holds whatever the provider
// billed before the failure.
type Error struct {
	Kind   ErrorKind
	Err    error
	Tokens int
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrMissingAPIKey is returned when no provider credential is configured
var ErrMissingAPIKey = errors.New("LLM_API_KEY is not set")

// Completion is a successfully parsed JSON answer
type Completion struct {
	Content     map[string]interface{}
	Raw         string
	TokensTotal int
	Model       string
}

// Adapter wraps a Provider with JSON extraction and a single retry
type Adapter struct {
	provider   Provider
	model      string
	retryDelay time.Duration
	logger     *zap.Logger
}

// Option customises an Adapter
type Option func(*Adapter)

// WithRetryDelay sets the wait before the retry attempt
func WithRetryDelay(d time.Duration) Option {
	return func(a *Adapter) { a.retryDelay = d }
}

// NewAdapter builds the provider selected by cfg
func NewAdapter(cfg config.LLMConfig, logger *zap.Logger, opts ...Option) (*Adapter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &Error{Kind: KindConfiguration, Err: ErrMissingAPIKey}
	}

	var (
		p     Provider
		model = strings.TrimSpace(cfg.Model)
	)
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderAnthropic:
		base := cfg.BaseURL
		if base == DefaultOpenAIBaseURL {
			base = ""
		}
		p = NewAnthropicProvider(cfg.APIKey, base, cfg.Timeout)
		if model == "" {
			model = DefaultAnthropicModel
		}
	case config.ProviderOpenAI, "":
		p = NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Timeout)
		if model == "" {
			model = DefaultOpenAIModel
		}
	default:
		return nil, &Error{Kind: KindConfiguration, Err: fmt.Errorf("unknown provider %q", cfg.Provider)}
	}
	return NewAdapterWithProvider(p, model, logger, opts...), nil
}

// NewAdapterWithProvider wraps an existing provider
func NewAdapterWithProvider(p Provider, model string, logger *zap.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		provider:   p,
		model:      model,
		retryDelay: time.Second,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ModelID returns the configured model identifier
func (a *Adapter) ModelID() string { return a.model }

// ProviderName returns the provider in use
func (a *Adapter) ProviderName() string { return a.provider.Name() }

// Complete sends a system+user exchange and parses the answer as a JSON
// object. Transient provider failures are retried once.
func (a *Adapter) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (*Completion, error) {
	req := Request{
		Model:       a.model,
		System:      system,
		User:        user,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	var (
		resp    *Response
		attempt int
	)
	call := func() error {
		attempt++
		callCtx := jobcontext.SetRetryAttempt(ctx, attempt-1)
		r, err := a.provider.Chat(callCtx, req)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			if a.logger != nil {
				a.logger.Warn("🔁 LLM call failed, will retry",
					append(jobcontext.LogFields(callCtx),
						zap.String("provider", a.provider.Name()),
						zap.Error(err))...)
			}
			return err
		}
		resp = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = a.retryDelay
	if err := backoff.Retry(call, backoff.WithContext(backoff.WithMaxRetries(bo, 1), ctx)); err != nil {
		if a.logger != nil {
			a.logger.Error("❌ LLM call failed",
				append(jobcontext.LogFields(ctx),
					zap.String("provider", a.provider.Name()),
					zap.String("model", a.model),
					zap.Int("attempts", attempt),
					zap.Error(err))...)
		}
		return nil, &Error{Kind: KindProvider, Err: err}
	}

	raw := extractJSON(resp.Content)
	var content map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, &Error{Kind: KindSchema, Err: fmt.Errorf("failed to parse JSON response: %w", err), Tokens: resp.TotalTokens}
	}
	if content == nil {
		return nil, &Error{Kind: KindSchema, Err: errors.New("response is not a JSON object"), Tokens: resp.TotalTokens}
	}

	if a.logger != nil {
		a.logger.Debug("🤖 LLM call completed",
			append(jobcontext.LogFields(ctx),
				zap.String("provider", a.provider.Name()),
				zap.String("model", resp.Model),
				zap.Int("tokens", resp.TotalTokens))...)
	}

	model := resp.Model
	if model == "" {
		model = a.model
	}
	return &Completion{
		Content:     content,
		Raw:         raw,
		TokensTotal: resp.TotalTokens,
		Model:       model,
	}, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return jobcontext.IsRetryableError(err)
}

// extractJSON strips markdown fences and any prose around the outermost object
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "{") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start != -1 && end > start {
			content = content[start : end+1]
		}
	}
	return content
}
