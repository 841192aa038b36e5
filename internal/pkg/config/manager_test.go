package config

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) *ViperManager {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	mgr, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return mgr
}

func TestLoad_Defaults(t *testing.T) {
	mgr := newTestManager(t)

	cfg, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider.Name != "gemini" {
		t.Errorf("Provider.Name = %q, want gemini", cfg.Provider.Name)
	}
	if cfg.Provider.Model != "gemini-1.5-flash" {
		t.Errorf("Provider.Model = %q, want gemini-1.5-flash", cfg.Provider.Model)
	}
	if cfg.Provider.Temperature != 0.2 {
		t.Errorf("Provider.Temperature = %v, want 0.2", cfg.Provider.Temperature)
	}
	if cfg.Provider.MaxTokens != 500 {
		t.Errorf("Provider.MaxTokens = %d, want 500", cfg.Provider.MaxTokens)
	}
	if cfg.Prompt.Language != "pt-BR" {
		t.Errorf("Prompt.Language = %q, want pt-BR", cfg.Prompt.Language)
	}
	if cfg.Prompt.CommitType != "chore" {
		t.Errorf("Prompt.CommitType = %q, want chore", cfg.Prompt.CommitType)
	}
	if cfg.Prompt.MaxDiffChars != 40000 {
		t.Errorf("Prompt.MaxDiffChars = %d, want 40000", cfg.Prompt.MaxDiffChars)
	}
	if !cfg.UI.ColorEnabled {
		t.Error("UI.ColorEnabled should default to true")
	}
	if cfg.Git.AutoStage || cfg.Git.Push {
		t.Error("git automation should default to off")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "AIza-test-key-from-env-0123456789")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("AICOMMIT_MAX_DIFF_CHARS", "12345")
	t.Setenv("AICOMMIT_LANG", "en")

	mgr := newTestManager(t)
	cfg, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider.APIKey != "AIza-test-key-from-env-0123456789" {
		t.Errorf("Provider.APIKey = %q, want env value", cfg.Provider.APIKey)
	}
	if cfg.Provider.Model != "gemini-1.5-pro" {
		t.Errorf("Provider.Model = %q, want gemini-1.5-pro", cfg.Provider.Model)
	}
	if cfg.Prompt.MaxDiffChars != 12345 {
		t.Errorf("Prompt.MaxDiffChars = %d, want 12345", cfg.Prompt.MaxDiffChars)
	}
	if cfg.Prompt.Language != "en" {
		t.Errorf("Prompt.Language = %q, want en", cfg.Prompt.Language)
	}
}

func TestLoad_PrefixedEnvWinsOverAlias(t *testing.T) {
	t.Setenv("AICOMMIT_PROVIDER_API_KEY", "prefixed-key-0123456789")
	t.Setenv("GOOGLE_API_KEY", "alias-key-0123456789")

	mgr := newTestManager(t)
	cfg, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider.APIKey != "prefixed-key-0123456789" {
		t.Errorf("Provider.APIKey = %q, want the AICOMMIT_-prefixed value", cfg.Provider.APIKey)
	}
}

func TestInit(t *testing.T) {
	mgr := newTestManager(t)

	if mgr.ConfigExists() {
		t.Fatal("config should not exist before Init")
	}

	if err := mgr.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if !mgr.ConfigExists() {
		t.Error("config should exist after Init")
	}

	info, err := os.Stat(mgr.GetConfigPath())
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 0600", perm)
	}

	// Second init must refuse to overwrite
	if err := mgr.Init(); err == nil {
		t.Error("Init() should fail when the file already exists")
	}
}

func TestSetAndGet(t *testing.T) {
	mgr := newTestManager(t)
	if err := mgr.Init(); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Set("provider.model", "gemini-1.5-pro"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := mgr.Get("provider.model")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "gemini-1.5-pro" {
		t.Errorf("Get() = %q, want gemini-1.5-pro", got)
	}

	// Value persists across manager instances
	mgr2, err := NewManager(mgr.GetConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := mgr2.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Model != "gemini-1.5-pro" {
		t.Errorf("persisted model = %q, want gemini-1.5-pro", cfg.Provider.Model)
	}
}

func TestSet_ConvertsTypes(t *testing.T) {
	mgr := newTestManager(t)
	if err := mgr.Init(); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Set("prompt.max_diff_chars", "20000"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := mgr.Set("ui.color_enabled", "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := mgr.Set("provider.temperature", "0.9"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	cfg, err := mgr.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt.MaxDiffChars != 20000 {
		t.Errorf("MaxDiffChars = %d, want 20000", cfg.Prompt.MaxDiffChars)
	}
	if cfg.UI.ColorEnabled {
		t.Error("ColorEnabled should be false")
	}
	if cfg.Provider.Temperature != 0.9 {
		t.Errorf("Temperature = %v, want 0.9", cfg.Provider.Temperature)
	}
}

func TestSet_RejectsBadValues(t *testing.T) {
	mgr := newTestManager(t)
	if err := mgr.Init(); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Set("prompt.max_diff_chars", "lots"); err == nil {
		t.Error("Set() should reject a non-integer for an integer key")
	}
	if err := mgr.Set("ui.color_enabled", "maybe"); err == nil {
		t.Error("Set() should reject a non-boolean for a boolean key")
	}
}

func TestGet_UnknownKey(t *testing.T) {
	mgr := newTestManager(t)
	if _, err := mgr.Get("provider.does_not_exist"); err == nil {
		t.Error("Get() should fail for an unknown key")
	}
}

func TestSetOverride(t *testing.T) {
	mgr := newTestManager(t)

	mgr.SetOverride("provider.model", "override-model")

	cfg, err := mgr.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Model != "override-model" {
		t.Errorf("Provider.Model = %q, want override-model", cfg.Provider.Model)
	}

	// Overrides never persist
	if mgr.ConfigExists() {
		t.Error("SetOverride must not create the config file")
	}
}

func TestList(t *testing.T) {
	mgr := newTestManager(t)

	settings := mgr.List()

	provider, ok := settings["provider"].(map[string]interface{})
	if !ok {
		t.Fatalf("provider section missing from %v", settings)
	}
	if provider["name"] != "gemini" {
		t.Errorf("provider.name = %v, want gemini", provider["name"])
	}
}

func TestDefaultConfigPath(t *testing.T) {
	mgr, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager(\"\") error = %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	want := filepath.Join(home, ".aicommit", "config.yaml")
	if mgr.GetConfigPath() != want {
		t.Errorf("GetConfigPath() = %q, want %q", mgr.GetConfigPath(), want)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "****"},
		{"abcd", "****"},
		{"abcdefgh", "****efgh"},
		{"AIzaSyA1234567890", "*************7890"},
	}

	for _, tt := range tests {
		if got := MaskAPIKey(tt.key); got != tt.want {
			t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
