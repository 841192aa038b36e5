// Package config provides configuration management for aicommit.
package config

// Config represents the complete aicommit configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Prompt   PromptConfig   `mapstructure:"prompt"`
	Git      GitConfig      `mapstructure:"git"`
	UI       UIConfig       `mapstructure:"ui"`
}

// ProviderConfig contains model provider settings.
type ProviderConfig struct {
	Name        string  `mapstructure:"name"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Endpoint    string  `mapstructure:"endpoint"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// PromptConfig contains prompt construction settings.
type PromptConfig struct {
	Language     string `mapstructure:"language"`
	CommitType   string `mapstructure:"commit_type"`
	MaxDiffChars int    `mapstructure:"max_diff_chars"`
}

// GitConfig contains git-related settings.
type GitConfig struct {
	AutoStage bool `mapstructure:"auto_stage"`
	Push      bool `mapstructure:"push"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Editor       string `mapstructure:"editor"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
}

// Manager defines the interface for configuration management.
type Manager interface {
	Load() (*Config, error)
	Set(key string, value string) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
