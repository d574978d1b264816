package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the OpenAI v1 API root
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultMaxTokens caps the length of a predicted chart
	DefaultMaxTokens = 500
)

// Completer turns a prompt into a single response string
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds client configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultConfig returns greedy decoding settings for model
func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		Model:       model,
		Temperature: 0.0,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     60 * time.Second,
	}
}

// Client talks to an OpenAI-compatible API for completions, files and fine-tuning jobs
type Client struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewClient creates a new API client. Requests are never retried.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	return &Client{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			option.WithMaxRetries(0),
		),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Model returns the model used for completions
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the first choice
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	// Temperature is always set so zero never falls back to the provider default
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		return "", serviceError("complete", err)
	}

	if len(resp.Choices) == 0 {
		return "", &ServiceError{Op: "complete", Message: "no completion returned"}
	}

	content := resp.Choices[0].Message.Content
	log.Debug().
		Str("model", c.model).
		Int("prompt_len", len(prompt)).
		Int("response_len", len(content)).
		Dur("latency", time.Since(start)).
		Msg("Completion received")
	return content, nil
}

// serviceError converts an SDK failure to a *ServiceError, keeping the HTTP status
func serviceError(op string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = errorMessage(apiErr.RawJSON())
		}
		return &ServiceError{Op: op, StatusCode: apiErr.StatusCode, Message: msg}
	}
	return &ServiceError{Op: op, Err: err}
}

type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// errorMessage extracts the provider's error message, falling back to the raw body
func errorMessage(raw string) string {
	var errResp errorResponse
	if err := json.Unmarshal([]byte(raw), &errResp); err == nil && errResp.Error != nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return strings.TrimSpace(raw)
}
