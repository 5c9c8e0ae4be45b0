// Package openai provides the chat-completion client used for
// natural-language intent resolution.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mealradar/mealradar/internal/domain"
	"github.com/mealradar/mealradar/internal/metrics"
)

// Completer performs single-turn JSON-mode chat completions against an
// OpenAI-compatible API.
type Completer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the intent provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewCompleter creates an OpenAI-compatible chat completion client.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Completer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Complete sends one system+user exchange and returns the raw JSON
// content of the first choice. The response format is pinned to a JSON
// object so the caller can unmarshal without fence stripping.
func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.IntentRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.IntentRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrIntentUnavailable)
	}

	metrics.IntentRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.IntentRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrIntentUnavailable; intent failures never
// reach the client as hard errors, so the wrap only matters for logs.
func parseAPIError(err error) error {
	wrap := domain.ErrIntentUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("intent API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("intent API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("intent API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("intent request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
