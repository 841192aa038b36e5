package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/aicommit/aicommit/internal/pkg/config"
)

func validateAPIKey(s string) error {
	if len(strings.TrimSpace(s)) < 5 {
		return fmt.Errorf("api key too short")
	}
	return nil
}

func validateModelName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	return nil
}

// RunInteractiveSetup runs the interactive setup wizard using Bubble Tea (huh).
func RunInteractiveSetup(cfgMgr *config.ViperManager) error {
	fmt.Println("No configuration found. Let's set up aicommit!")
	fmt.Println()

	// Ensure the config directory and file exist; an existing file is fine.
	_ = cfgMgr.Init()

	var provider string

	// Stage 1: Select Provider
	err := huh.NewSelect[string]().
		Title("Select AI Provider").
		Options(
			huh.NewOption("Gemini", "gemini"),
			huh.NewOption("OpenAI-compatible", "openai"),
		).
		Value(&provider).
		Run()
	if err != nil {
		return err
	}

	var apiKey string
	var model string
	var endpoint string
	var language string

	switch provider {
	case "gemini":
		model = "gemini-1.5-flash"
	case "openai":
		model = "gpt-4o-mini"
	}
	language = "pt-BR"

	// Stage 2: Details
	fields := []huh.Field{
		huh.NewInput().
			Title("API Key").
			Description("Enter your API key").
			Value(&apiKey).
			Password(true).
			Validate(validateAPIKey),
		huh.NewInput().
			Title("Model Name").
			Description("Model to use").
			Value(&model).
			Validate(validateModelName),
		huh.NewInput().
			Title("Message Language").
			Description("Language for generated commit messages (e.g. pt-BR, en)").
			Value(&language),
	}

	if provider == "openai" {
		fields = append(fields,
			huh.NewInput().
				Title("API Endpoint").
				Description("Optional custom endpoint").
				Value(&endpoint),
		)
	}

	err = huh.NewForm(huh.NewGroup(fields...)).Run()
	if err != nil {
		return err
	}

	// Save configuration
	if err := cfgMgr.Set("provider.name", provider); err != nil {
		return fmt.Errorf("failed to set provider: %w", err)
	}

	if apiKey != "" {
		if err := cfgMgr.Set("provider.api_key", apiKey); err != nil {
			return fmt.Errorf("failed to set api key: %w", err)
		}
	}

	if err := cfgMgr.Set("provider.model", model); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}

	if endpoint != "" {
		if err := cfgMgr.Set("provider.endpoint", endpoint); err != nil {
			return fmt.Errorf("failed to set endpoint: %w", err)
		}
	}

	if language != "" {
		if err := cfgMgr.Set("prompt.language", language); err != nil {
			return fmt.Errorf("failed to set language: %w", err)
		}
	}

	fmt.Printf("\nConfiguration saved to %s\n", cfgMgr.GetConfigPath())
	fmt.Println("Setup complete! You can now use aicommit.")
	fmt.Println()

	return nil
}
