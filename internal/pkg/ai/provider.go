// Package ai provides model provider implementations for aicommit.
package ai

import "context"

// ProviderConfig contains configuration for a model provider.
type ProviderConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	// Temperature of nil means "use the provider default"; an explicit
	// zero is passed through for deterministic output.
	Temperature *float32
	MaxTokens   int
}

func temperaturePtr(v float32) *float32 {
	return &v
}

// Provider defines the interface for generative-text providers.
// Generate performs exactly one network call; no provider retries
// internally.
type Provider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
	ValidateConfig(config ProviderConfig) error
}
