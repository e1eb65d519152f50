package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/internal/metrics"
	"github.com/portfolio-assistant/backend/pkg/logger"
	"github.com/portfolio-assistant/backend/pkg/retry"
)

var ErrEmptyCompletion = errors.New("llm returned no answer")

// Generator produces a free-text answer for a fully rendered prompt.
type Generator interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration

	RetryAttempts int
	RetryDelay    time.Duration
	// Consecutive failures before the breaker opens.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *gobreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewClient(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 200
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	retryConfig := retry.Config{
		MaxAttempts:    cfg.RetryAttempts,
		InitialDelay:   cfg.RetryDelay,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Retryable:      isTransient,
		Logger:         logger.GetLogger(),
	}

	logger.Info("LLM client initialized",
		zap.String("model", cfg.Model),
		zap.String("base_url", clientConfig.BaseURL),
	)

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

// Answer asks the model to respond to prompt and returns the cleaned text.
func (c *Client) Answer(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.cb.Execute(func() (interface{}, error) {
		return retry.DoWithResult(ctx, c.retryConfig, func() (string, error) {
			return c.complete(ctx, prompt)
		})
	})
	if err != nil {
		metrics.LLMRequests.WithLabelValues("error").Inc()
		return "", err
	}

	metrics.LLMRequests.WithLabelValues("ok").Inc()
	return result.(string), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		TopP:        0.95,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	metrics.LLMTokensUsed.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	answer := CleanAnswer(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", ErrEmptyCompletion
	}

	logger.Debug("LLM completion generated",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return answer, nil
}

var (
	responseLabel    = regexp.MustCompile(`(?i)^RESPONSE:\s*`)
	suggestionsLabel = regexp.MustCompile(`(?is)\s*SUGGESTIONS:.*$`)
)

// CleanAnswer strips the formatting labels models sometimes echo back.
func CleanAnswer(text string) string {
	text = strings.TrimSpace(text)
	text = responseLabel.ReplaceAllString(text, "")
	text = suggestionsLabel.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func isTransient(err error) bool {
	if errors.Is(err, ErrEmptyCompletion) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}

	return true
}
