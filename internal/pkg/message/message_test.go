package message

import (
	"strings"
	"testing"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name    string
		rawText string
		want    string
	}{
		{
			name:    "plain message untouched",
			rawText: "feat: add login",
			want:    "feat: add login",
		},
		{
			name:    "surrounding whitespace",
			rawText: "  fix: handle nil\n",
			want:    "fix: handle nil",
		},
		{
			name:    "markdown fences",
			rawText: "```\nfeat: add login\n```",
			want:    "feat: add login",
		},
		{
			name:    "language-tagged fence",
			rawText: "```text\nchore: bump version\n```",
			want:    "chore: bump version",
		},
		{
			name:    "label prefix",
			rawText: "Commit message: feat: add login",
			want:    "feat: add login",
		},
		{
			name:    "portuguese label prefix",
			rawText: "Mensagem de commit: fix: corrige parsing",
			want:    "fix: corrige parsing",
		},
		{
			name:    "surrounding quotes",
			rawText: `"feat: add login"`,
			want:    "feat: add login",
		},
		{
			name:    "single quotes",
			rawText: "'docs: update readme'",
			want:    "docs: update readme",
		},
		{
			name:    "empty input",
			rawText: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.rawText); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.rawText, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantType    string
		wantScope   string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "simple feat",
			text:        "feat: add new feature",
			wantType:    "feat",
			wantSubject: "add new feature",
		},
		{
			name:        "feat with scope",
			text:        "feat(auth): add login",
			wantType:    "feat",
			wantScope:   "auth",
			wantSubject: "add login",
		},
		{
			name:        "breaking change marker",
			text:        "feat(api)!: drop v1 endpoints",
			wantType:    "feat",
			wantScope:   "api",
			wantSubject: "drop v1 endpoints",
		},
		{
			name:        "with body",
			text:        "fix: resolve crash\n\nThe crash happened on empty input.",
			wantType:    "fix",
			wantSubject: "resolve crash",
			wantBody:    "The crash happened on empty input.",
		},
		{
			name:        "no type prefix",
			text:        "just a sentence about the change",
			wantSubject: "just a sentence about the change",
		},
		{
			name: "empty",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := Parse(tt.text)
			if cm.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", cm.Type, tt.wantType)
			}
			if cm.Scope != tt.wantScope {
				t.Errorf("Scope = %q, want %q", cm.Scope, tt.wantScope)
			}
			if cm.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", cm.Subject, tt.wantSubject)
			}
			if cm.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", cm.Body, tt.wantBody)
			}
		})
	}
}

func TestFromResponse(t *testing.T) {
	t.Run("valid response", func(t *testing.T) {
		cm, err := FromResponse("```\nfeat(user): add profile page\n```")
		if err != nil {
			t.Fatalf("FromResponse() error = %v", err)
		}
		if cm.Type != "feat" || cm.Scope != "user" || cm.Subject != "add profile page" {
			t.Errorf("unexpected message: %+v", cm)
		}
	})

	t.Run("empty response", func(t *testing.T) {
		_, err := FromResponse("   \n  ")
		if err == nil {
			t.Fatal("expected an error")
		}
		if !apperrors.HasCode(err, apperrors.ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})

	t.Run("missing type prefix", func(t *testing.T) {
		_, err := FromResponse("I think this change adds a login page to the app")
		if err == nil {
			t.Fatal("expected an error")
		}
		if !apperrors.HasCode(err, apperrors.ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}

		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Context["response"] == nil {
			t.Error("format error should carry the raw response for debugging")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := FromResponse("update: change stuff")
		if err == nil {
			t.Fatal("expected an error for an unknown type")
		}
	})

	t.Run("format errors map to external exit code", func(t *testing.T) {
		_, err := FromResponse("garbage")
		if got := apperrors.GetExitCode(err); got != 3 {
			t.Errorf("exit code = %d, want 3", got)
		}
	})
}

func TestFormatSubject(t *testing.T) {
	tests := []struct {
		name string
		cm   CommitMessage
		want string
	}{
		{
			name: "type and subject",
			cm:   CommitMessage{Type: "feat", Subject: "add login"},
			want: "feat: add login",
		},
		{
			name: "with scope",
			cm:   CommitMessage{Type: "fix", Scope: "parser", Subject: "handle tabs"},
			want: "fix(parser): handle tabs",
		},
		{
			name: "no type",
			cm:   CommitMessage{Subject: "freeform"},
			want: "freeform",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cm.FormatSubject(); got != tt.want {
				t.Errorf("FormatSubject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	cm := CommitMessage{Type: "feat", Subject: "add login", Body: "Adds the login page."}
	want := "feat: add login\n\nAdds the login page."
	if got := cm.Format(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	noBody := CommitMessage{Type: "chore", Subject: "tidy"}
	if got := noBody.Format(); got != "chore: tidy" {
		t.Errorf("Format() = %q, want %q", got, "chore: tidy")
	}
}

func TestValidateWithWarnings(t *testing.T) {
	t.Run("valid message", func(t *testing.T) {
		cm := CommitMessage{Type: "feat", Subject: "add login"}
		result := cm.ValidateWithWarnings()
		if !result.IsValid {
			t.Errorf("expected valid, got errors: %v", result.Errors)
		}
		if len(result.Warnings) != 0 {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})

	t.Run("missing type", func(t *testing.T) {
		cm := CommitMessage{Subject: "something"}
		result := cm.ValidateWithWarnings()
		if result.IsValid {
			t.Error("expected invalid")
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		cm := CommitMessage{Type: "update", Subject: "something"}
		result := cm.ValidateWithWarnings()
		if result.IsValid {
			t.Error("expected invalid")
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		cm := CommitMessage{Type: "feat"}
		result := cm.ValidateWithWarnings()
		if result.IsValid {
			t.Error("expected invalid")
		}
	})

	t.Run("long subject is a warning not an error", func(t *testing.T) {
		cm := CommitMessage{Type: "feat", Subject: strings.Repeat("x", 100)}
		result := cm.ValidateWithWarnings()
		if !result.IsValid {
			t.Errorf("length overflow should not invalidate: %v", result.Errors)
		}
		if len(result.Warnings) != 1 {
			t.Errorf("expected one warning, got %v", result.Warnings)
		}
		if !cm.SubjectExceedsLength() {
			t.Error("SubjectExceedsLength() should be true")
		}
	})
}

func TestIsValidCommitType(t *testing.T) {
	for _, valid := range ValidCommitTypes {
		if !IsValidCommitType(valid) {
			t.Errorf("IsValidCommitType(%q) = false", valid)
		}
	}
	for _, invalid := range []string{"", "update", "FEAT", "feature"} {
		if IsValidCommitType(invalid) {
			t.Errorf("IsValidCommitType(%q) = true", invalid)
		}
	}
}
