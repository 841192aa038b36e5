package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigFileExt is the config file format.
	DefaultConfigFileExt = "yaml"
)

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v          *viper.Viper
	configPath string
}

// NewManager creates a new configuration manager.
// If configPath is empty, it uses the default path (~/.aicommit/config.yaml).
func NewManager(configPath string) (*ViperManager, error) {
	v := viper.New()
	v.SetConfigType(DefaultConfigFileExt)

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, ".aicommit", "config.yaml")
	}

	v.SetConfigFile(configPath)

	// Set up environment variable binding
	v.SetEnvPrefix("AICOMMIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults first (required for env binding to work with nested keys)
	setDefaults(v)

	// Explicitly bind environment variables for nested keys
	bindEnvVars(v)

	return &ViperManager{
		v:          v,
		configPath: configPath,
	}, nil
}

// bindEnvVars explicitly binds environment variables for all config keys.
// Each key accepts an AICOMMIT_-prefixed variable; the provider key and
// model additionally accept the variables the Gemini ecosystem uses
// (GOOGLE_API_KEY, GEMINI_MODEL).
func bindEnvVars(v *viper.Viper) {
	// Provider settings
	_ = v.BindEnv("provider.name", "AICOMMIT_PROVIDER_NAME")
	_ = v.BindEnv("provider.api_key", "AICOMMIT_PROVIDER_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("provider.model", "AICOMMIT_PROVIDER_MODEL", "GEMINI_MODEL")
	_ = v.BindEnv("provider.endpoint", "AICOMMIT_PROVIDER_ENDPOINT")
	_ = v.BindEnv("provider.temperature", "AICOMMIT_PROVIDER_TEMPERATURE")
	_ = v.BindEnv("provider.max_tokens", "AICOMMIT_PROVIDER_MAX_TOKENS")

	// Prompt settings
	_ = v.BindEnv("prompt.language", "AICOMMIT_LANG")
	_ = v.BindEnv("prompt.commit_type", "AICOMMIT_COMMIT_TYPE")
	_ = v.BindEnv("prompt.max_diff_chars", "AICOMMIT_MAX_DIFF_CHARS")

	// Git settings
	_ = v.BindEnv("git.auto_stage", "AICOMMIT_GIT_AUTO_STAGE")
	_ = v.BindEnv("git.push", "AICOMMIT_GIT_PUSH")

	// UI settings
	_ = v.BindEnv("ui.editor", "AICOMMIT_UI_EDITOR")
	_ = v.BindEnv("ui.color_enabled", "AICOMMIT_UI_COLOR_ENABLED")
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	// Provider defaults
	v.SetDefault("provider.name", "gemini")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", "gemini-1.5-flash")
	v.SetDefault("provider.endpoint", "")
	v.SetDefault("provider.temperature", 0.2)
	v.SetDefault("provider.max_tokens", 500)

	// Prompt defaults
	v.SetDefault("prompt.language", "pt-BR")
	v.SetDefault("prompt.commit_type", "chore")
	v.SetDefault("prompt.max_diff_chars", 40000)

	// Git defaults
	v.SetDefault("git.auto_stage", false)
	v.SetDefault("git.push", false)

	// UI defaults
	v.SetDefault("ui.editor", "")
	v.SetDefault("ui.color_enabled", true)
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// Load loads the configuration from file, environment, and defaults.
// Priority: flags > env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	if err := m.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A missing file is fine; anything else is a real error
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Init creates a new configuration file with default values.
// Sets file permissions to 0600 since the file may hold an API key.
func (m *ViperManager) Init() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", m.configPath)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

// Set sets a configuration value by key.
// Supports nested keys using dot notation (e.g., "provider.model").
func (m *ViperManager) Set(key string, value string) error {
	if err := m.v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	existingValue := m.v.Get(key)
	convertedValue, err := convertValue(value, existingValue)
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}

	m.v.Set(key, convertedValue)

	if err := m.v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// convertValue converts a string value to the type of the existing value.
func convertValue(value string, existingValue interface{}) (interface{}, error) {
	if existingValue == nil {
		return value, nil
	}

	switch existingValue.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	default:
		return value, nil
	}
}

// Get retrieves a configuration value by key.
func (m *ViperManager) Get(key string) (string, error) {
	if err := m.v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
	}

	value := m.v.Get(key)
	if value == nil {
		return "", fmt.Errorf("key not found: %s", key)
	}

	return fmt.Sprintf("%v", value), nil
}

// List returns all configuration values as a map.
func (m *ViperManager) List() map[string]interface{} {
	_ = m.v.ReadInConfig()
	return m.v.AllSettings()
}

// SetOverride sets a temporary override for a configuration key.
// Used for command-line flag overrides that must not persist.
func (m *ViperManager) SetOverride(key string, value interface{}) {
	m.v.Set(key, value)
}

// ConfigExists checks if the configuration file exists.
func (m *ViperManager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

// MaskAPIKey masks an API key, showing only the last 4 characters.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
