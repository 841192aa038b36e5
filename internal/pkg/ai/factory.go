// Package ai provides model provider implementations for aicommit.
package ai

import (
	"fmt"

	"github.com/aicommit/aicommit/internal/pkg/config"
)

// ProviderName constants for supported providers.
const (
	ProviderNameGemini = "gemini"
	ProviderNameOpenAI = "openai"
)

// NewProvider creates a model provider based on the configuration.
func NewProvider(cfg *config.ProviderConfig) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("provider configuration is required")
	}

	// The config layer always resolves a temperature (its default is
	// applied when the key is absent), so an explicit zero reaches the
	// provider instead of being mistaken for "unset".
	aiConfig := ProviderConfig{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Endpoint:    cfg.Endpoint,
		Temperature: temperaturePtr(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
	}

	switch cfg.Name {
	case ProviderNameGemini, "":
		// Default to Gemini if no provider specified
		return NewGeminiProvider(aiConfig)

	case ProviderNameOpenAI:
		return NewOpenAIProvider(aiConfig)

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}
