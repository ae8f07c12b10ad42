package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOpenAIBaseURL is Groq's OpenAI-compatible endpoint
const DefaultOpenAIBaseURL = "https://api.groq.com/openai/v1"

// DefaultOpenAIModel is used when LLM_MODEL is not set
const DefaultOpenAIModel = "llama-3.3-70b-versatile"

// OpenAIProvider calls any OpenAI-compatible chat completions endpoint
// in JSON-object mode.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider creates a provider for baseURL (e.g. https://api.groq.com/openai/v1)
func NewOpenAIProvider(apiKey, baseURL string, timeout time.Duration) *OpenAIProvider {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// chatRequest is the shape for chat completion requests
type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is a minimal response shape
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Chat sends one completion request and returns the assistant content
func (p *OpenAIProvider) Chat(ctx context.Context, req Request) (*Response, error) {
	body := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := p.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Provider: p.Name(), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("failed to decode completion: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("empty response from %s", p.Name())
	}

	out := &Response{
		Content: cr.Choices[0].Message.Content,
		Model:   cr.Model,
	}
	if out.Model == "" {
		out.Model = req.Model
	}
	if cr.Usage != nil {
		out.InputTokens = cr.Usage.PromptTokens
		out.OutputTokens = cr.Usage.CompletionTokens
		out.TotalTokens = cr.Usage.TotalTokens
		if out.TotalTokens == 0 {
			out.TotalTokens = out.InputTokens + out.OutputTokens
		}
	}
	return out, nil
}
