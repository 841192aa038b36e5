package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
	"github.com/aicommit/aicommit/internal/pkg/git"
)

func TestNewBuilder(t *testing.T) {
	tests := []struct {
		name         string
		maxDiffChars int
		language     string
		commitType   string
		wantErr      bool
		wantLang     string
		wantType     string
	}{
		{
			name:         "explicit values",
			maxDiffChars: 1000,
			language:     "en",
			commitType:   "feat",
			wantLang:     "en",
			wantType:     "feat",
		},
		{
			name:         "defaults applied",
			maxDiffChars: DefaultMaxDiffChars,
			wantLang:     DefaultLanguage,
			wantType:     DefaultCommitType,
		},
		{
			name:         "zero limit rejected",
			maxDiffChars: 0,
			wantErr:      true,
		},
		{
			name:         "negative limit rejected",
			maxDiffChars: -5,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuilder(tt.maxDiffChars, tt.language, tt.commitType)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !apperrors.HasCode(err, apperrors.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBuilder() error = %v", err)
			}
			if b.language != tt.wantLang {
				t.Errorf("language = %q, want %q", b.language, tt.wantLang)
			}
			if b.commitType != tt.wantType {
				t.Errorf("commitType = %q, want %q", b.commitType, tt.wantType)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	b, err := NewBuilder(100, "", "")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("under limit untouched", func(t *testing.T) {
		diff := strings.Repeat("a", 100)
		got, truncated := b.Truncate(diff)
		if truncated {
			t.Error("diff at the limit should not be truncated")
		}
		if got != diff {
			t.Errorf("got %q, want unchanged input", got)
		}
	})

	t.Run("over limit cut and marked", func(t *testing.T) {
		diff := strings.Repeat("a", 150)
		got, truncated := b.Truncate(diff)
		if !truncated {
			t.Error("oversized diff should be truncated")
		}
		if !strings.HasSuffix(got, TruncationMarker) {
			t.Errorf("truncated diff should end with the marker, got %q", got)
		}
		if len(got) != 100+len(TruncationMarker) {
			t.Errorf("len = %d, want %d", len(got), 100+len(TruncationMarker))
		}
	})

	t.Run("limit inside a multibyte rune backs off", func(t *testing.T) {
		b5, err := NewBuilder(5, "", "")
		if err != nil {
			t.Fatal(err)
		}
		// "é" is 2 bytes; a 5-byte limit lands in the middle of the
		// third rune.
		got, truncated := b5.Truncate(strings.Repeat("é", 10))
		if !truncated {
			t.Fatal("oversized diff should be truncated")
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncated diff is not valid UTF-8: %q", got)
		}
		if !strings.HasPrefix(got, "éé") {
			t.Errorf("whole runes below the limit should survive, got %q", got)
		}
		if len(got) > 5+len(TruncationMarker) {
			t.Errorf("len = %d, want at most %d", len(got), 5+len(TruncationMarker))
		}
	})

	t.Run("empty diff", func(t *testing.T) {
		got, truncated := b.Truncate("")
		if truncated || got != "" {
			t.Errorf("Truncate(\"\") = (%q, %v)", got, truncated)
		}
	})
}

func TestBuild(t *testing.T) {
	b, err := NewBuilder(DefaultMaxDiffChars, "en", "fix")
	if err != nil {
		t.Fatal(err)
	}

	diff := "--- a/main.go\n+++ b/main.go\n+fixed := true"
	stats := &git.DiffStats{
		TotalFiles:     1,
		TotalAdditions: 1,
		TotalDeletions: 0,
	}

	got, err := b.Build(diff, stats)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, want := range []string{
		"Language: en",
		"Preferred type: fix",
		"Files changed: 1 (+1 -0)",
		"<diff>",
		"</diff>",
		"+fixed := true",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuild_NilStats(t *testing.T) {
	b, err := NewBuilder(DefaultMaxDiffChars, "", "")
	if err != nil {
		t.Fatal(err)
	}

	got, err := b.Build("+change", nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if strings.Contains(got, "Files changed:") {
		t.Errorf("nil stats should omit the stats line:\n%s", got)
	}
	if !strings.Contains(got, "Language: "+DefaultLanguage) {
		t.Errorf("prompt should carry the default language:\n%s", got)
	}
}

func TestSystemPromptMentionsFormat(t *testing.T) {
	if !strings.Contains(SystemPrompt, "Conventional Commits") {
		t.Error("system prompt should name the convention")
	}
	if !strings.Contains(SystemPrompt, "feat") {
		t.Error("system prompt should list valid types")
	}
}
