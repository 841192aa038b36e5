// Package ai provides model provider implementations for aicommit.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultOpenAIModel is the default model for OpenAI-compatible endpoints.
	DefaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIProvider implements Provider for OpenAI and OpenAI-compatible APIs.
// A custom endpoint covers DeepSeek, local gateways, and similar services.
type OpenAIProvider struct {
	client *openai.Client
	config ProviderConfig
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(config ProviderConfig) (*OpenAIProvider, error) {
	if err := validateOpenAIConfig(config); err != nil {
		return nil, err
	}

	if config.Model == "" {
		config.Model = DefaultOpenAIModel
	}
	if config.Temperature == nil {
		config.Temperature = temperaturePtr(DefaultTemperature)
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.Endpoint != "" {
		clientConfig.BaseURL = config.Endpoint
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// validateOpenAIConfig validates the provider configuration.
func validateOpenAIConfig(config ProviderConfig) error {
	if config.APIKey == "" {
		return apperrors.NewMissingAPIKeyError("openai")
	}
	if len(config.APIKey) < 20 {
		return apperrors.NewInvalidConfigError("API key appears to be invalid (too short)")
	}
	return nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// ValidateConfig validates the provider configuration.
func (p *OpenAIProvider) ValidateConfig(config ProviderConfig) error {
	return validateOpenAIConfig(config)
}

// Generate sends the prompt as a chat completion and returns the raw text.
// A single request is made; failures are mapped and surfaced, never retried.
func (p *OpenAIProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: *p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	}

	apperrors.LogAPIRequest("openai", p.config.Endpoint, p.config.Model, len(userPrompt))
	startTime := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", wrapOpenAIError(err)
	}

	responseLen := 0
	if len(resp.Choices) > 0 {
		responseLen = len(resp.Choices[0].Message.Content)
	}
	apperrors.LogAPIResponse("openai", http.StatusOK, responseLen, time.Since(startTime))

	if len(resp.Choices) == 0 {
		return "", apperrors.NewProviderError("openai", errors.New("empty response from model"))
	}

	return resp.Choices[0].Message.Content, nil
}

// wrapOpenAIError maps go-openai errors onto application error kinds.
func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewAuthenticationError("OpenAI")
		case http.StatusTooManyRequests:
			return apperrors.NewRateLimitError(0)
		default:
			return apperrors.NewProviderError("openai",
				fmt.Errorf("API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message))
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err)
	}

	return apperrors.NewNetworkError(err)
}
