// Package prompt builds the model prompt from a redacted diff.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
	"unicode/utf8"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
	"github.com/aicommit/aicommit/internal/pkg/git"
)

const (
	// DefaultMaxDiffChars is the default truncation limit for the diff.
	DefaultMaxDiffChars = 40000

	// DefaultLanguage is the default output language for the commit message.
	DefaultLanguage = "pt-BR"

	// DefaultCommitType is the preferred type when the change is mixed or unclear.
	DefaultCommitType = "chore"

	// TruncationMarker is appended to the diff when it exceeds the limit.
	TruncationMarker = "\n... [diff truncated]"
)

// SystemPrompt carries the Conventional Commits instructions sent with
// every request.
const SystemPrompt = `You are an assistant that writes short, clear commit messages following the Conventional Commits convention.

Rules:
- Respond ONLY with the subject line (no body), in the requested language.
- Types: feat, fix, chore, refactor, docs, test, perf, build, ci, style.
- Maximum ~72 characters.
- Describe the change, not the file; use the imperative mood (e.g. "add", "fix", "update").
- Include a scope when it makes sense (e.g. feat(user): ...).
- Do NOT end with a period.

If the change is mixed, pick the predominant type; when unsure, use the preferred type given below.`

// userPromptTemplate renders the per-request portion of the prompt.
const userPromptTemplate = `Language: {{.Language}}
Preferred type: {{.CommitType}}
{{if .Stats}}Files changed: {{.Stats.TotalFiles}} (+{{.Stats.TotalAdditions}} -{{.Stats.TotalDeletions}})
{{end}}
Below is the git diff (unified, no colors). Generate ONE line:

<diff>
{{.Diff}}
</diff>`

// Builder turns a redacted diff into a prompt, enforcing the size limit.
type Builder struct {
	maxDiffChars int
	language     string
	commitType   string
	tmpl         *template.Template
}

// promptData is the template payload.
type promptData struct {
	Language   string
	CommitType string
	Stats      *git.DiffStats
	Diff       string
}

// NewBuilder creates a Builder. maxDiffChars must be a positive integer;
// empty language and commitType fall back to the defaults.
func NewBuilder(maxDiffChars int, language, commitType string) (*Builder, error) {
	if maxDiffChars <= 0 {
		return nil, apperrors.NewInvalidConfigError(
			fmt.Sprintf("max diff chars must be a positive integer, got %d", maxDiffChars))
	}
	if language == "" {
		language = DefaultLanguage
	}
	if commitType == "" {
		commitType = DefaultCommitType
	}

	tmpl, err := template.New("userPrompt").Parse(userPromptTemplate)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to parse prompt template")
	}

	return &Builder{
		maxDiffChars: maxDiffChars,
		language:     language,
		commitType:   commitType,
		tmpl:         tmpl,
	}, nil
}

// MaxDiffChars returns the configured truncation limit.
func (b *Builder) MaxDiffChars() int {
	return b.maxDiffChars
}

// Truncate bounds the diff at the configured limit, appending the
// truncation marker when anything was cut. The returned string is never
// longer than the limit plus the marker length. The cut never splits a
// multibyte character, so a valid diff stays valid UTF-8.
func (b *Builder) Truncate(diff string) (string, bool) {
	if len(diff) <= b.maxDiffChars {
		return diff, false
	}
	cut := b.maxDiffChars
	for cut > 0 && !utf8.RuneStart(diff[cut]) {
		cut--
	}
	return diff[:cut] + TruncationMarker, true
}

// Build renders the user prompt for the given redacted diff. stats may be nil.
func (b *Builder) Build(diff string, stats *git.DiffStats) (string, error) {
	bounded, _ := b.Truncate(diff)

	var buf bytes.Buffer
	err := b.tmpl.Execute(&buf, &promptData{
		Language:   b.language,
		CommitType: b.commitType,
		Stats:      stats,
		Diff:       bounded,
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to render prompt template")
	}

	return buf.String(), nil
}
