// Package ai provides model provider implementations for aicommit.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

const (
	// DefaultGeminiModel is the default model for the Gemini provider.
	DefaultGeminiModel = "gemini-1.5-flash"

	// DefaultGeminiEndpoint is the Generative Language API base URL.
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultTemperature is the default temperature for generation.
	DefaultTemperature = 0.2

	// DefaultMaxTokens is the default output token budget.
	DefaultMaxTokens = 500

	// DefaultTimeout is the default timeout for API calls.
	DefaultTimeout = 60 * time.Second
)

// GeminiProvider implements Provider against the Generative Language API.
type GeminiProvider struct {
	httpClient *http.Client
	config     ProviderConfig
}

// geminiRequest is the generateContent request payload.
type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float32 `json:"temperature,omitempty"`
}

// geminiResponse is the generateContent response payload.
type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *geminiFeedback   `json:"promptFeedback,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(config ProviderConfig) (*GeminiProvider, error) {
	if err := validateGeminiConfig(config); err != nil {
		return nil, err
	}

	if config.Model == "" {
		config.Model = DefaultGeminiModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultGeminiEndpoint
	}
	if config.Temperature == nil {
		config.Temperature = temperaturePtr(DefaultTemperature)
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	return &GeminiProvider{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		config:     config,
	}, nil
}

// validateGeminiConfig validates the Gemini provider configuration.
func validateGeminiConfig(config ProviderConfig) error {
	if config.APIKey == "" {
		return apperrors.NewMissingAPIKeyError("gemini")
	}
	if len(config.APIKey) < 20 {
		return apperrors.NewInvalidConfigError("API key appears to be invalid (too short)")
	}
	return nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// ValidateConfig validates the provider configuration.
func (p *GeminiProvider) ValidateConfig(config ProviderConfig) error {
	return validateGeminiConfig(config)
}

// Generate sends the prompt to the Gemini API and returns the raw text.
// The call is made exactly once; rate limits and transient failures are
// surfaced to the caller.
func (p *GeminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: userPrompt}},
			},
		},
		GenerationConfig: &geminiGenConfig{
			MaxOutputTokens: p.config.MaxTokens,
			Temperature:     p.config.Temperature,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", apperrors.NewProviderError("gemini", fmt.Errorf("marshaling request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.config.Endpoint, p.config.Model)

	apperrors.LogAPIRequest("gemini", p.config.Endpoint, p.config.Model, len(userPrompt))
	startTime := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewProviderError("gemini", fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.config.APIKey)

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewTimeoutError(err)
		}
		return "", apperrors.NewNetworkError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", apperrors.NewNetworkError(fmt.Errorf("reading response: %w", err))
	}

	apperrors.LogAPIResponse("gemini", httpResp.StatusCode, len(respBody), time.Since(startTime))

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		retryAfter := apperrors.ParseRetryAfterHeader(httpResp.Header.Get("Retry-After"))
		return "", apperrors.NewRateLimitError(retryAfter)
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return "", apperrors.NewAuthenticationError("Gemini")
	case httpResp.StatusCode != http.StatusOK:
		return "", apperrors.NewProviderError("gemini",
			fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody)))
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", apperrors.NewProviderError("gemini", fmt.Errorf("parsing response: %w", err))
	}

	if len(result.Candidates) == 0 {
		reason := "unknown"
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			reason = result.PromptFeedback.BlockReason
		}
		return "", apperrors.NewProviderError("gemini",
			fmt.Errorf("response blocked by the model (reason: %s)", reason))
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", apperrors.NewProviderError("gemini", errors.New("empty response from model"))
	}

	return text, nil
}
