// Package openai implements the completion collaborator on top of an
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"docqa/internal/domain"
)

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	DefaultModel     = "gpt-4o-mini"
	DefaultTimeout   = 60 * time.Second
)

// ErrNoChoices is returned when the endpoint answers without any completion.
var ErrNoChoices = errors.New("no response generated")

// Sampling holds the generation parameters sent with every request.
type Sampling struct {
	Temperature      float32
	TopP             float32
	MaxTokens        int
	FrequencyPenalty float32
	PresencePenalty  float32
}

// DefaultSampling returns the fixed parameters used for document questions.
func DefaultSampling() Sampling {
	return Sampling{Temperature: 0.7, TopP: 1.0, MaxTokens: 800}
}

// Retry bounds re-attempts of transient failures. Attempts of 1 disables retry.
type Retry struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

func (r Retry) options(ctx context.Context) []retry.Option {
	attempts := r.Attempts
	if attempts == 0 {
		// zero means unlimited to retry-go
		attempts = 1
	}
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(r.Delay),
		retry.MaxDelay(r.MaxDelay),
		retry.RetryIf(transient),
		retry.LastErrorOnly(true),
	}
}

// Config configures the chat completions client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	Sampling  Sampling
	Retry     Retry
}

// Client issues one chat completion per question.
type Client struct {
	api      *openai.Client
	model    string
	sampling Sampling
	retry    Retry
	logger   *zap.Logger
}

var _ domain.Completer = (*Client)(nil)

// NewClient creates a client reading the API key from the environment variable named in cfg.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	apiCfg := openai.DefaultConfig(key)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:      openai.NewClientWithConfig(apiCfg),
		model:    cfg.Model,
		sampling: cfg.Sampling,
		retry:    cfg.Retry,
		logger:   logger.Named("openai"),
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// Complete sends the system and user messages and returns the first choice verbatim.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature:      wireTemperature(c.sampling.Temperature),
		TopP:             c.sampling.TopP,
		MaxTokens:        c.sampling.MaxTokens,
		FrequencyPenalty: c.sampling.FrequencyPenalty,
		PresencePenalty:  c.sampling.PresencePenalty,
	}

	attempt := 0
	text, err := retry.DoWithData(func() (string, error) {
		attempt++
		start := time.Now()
		resp, err := c.api.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			c.logger.Warn("chat completion failed",
				zap.Int("attempt", attempt),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrNoChoices
		}
		c.logger.Debug("chat completion",
			zap.String("model", resp.Model),
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			zap.Duration("elapsed", time.Since(start)))
		return resp.Choices[0].Message.Content, nil
	}, c.retry.options(ctx)...)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return text, nil
}

// wireTemperature keeps a configured zero on the wire; the request field is
// omitempty, so a plain zero would select the endpoint default.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// transient reports whether err is worth another attempt: rate limits,
// server errors and transport failures.
func transient(err error) bool {
	if errors.Is(err, ErrNoChoices) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
