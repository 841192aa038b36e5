// Package message provides commit message parsing, cleanup, and validation.
package message

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

// ValidCommitTypes contains all valid Conventional Commits types.
var ValidCommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"test", "chore", "perf", "ci", "build", "revert",
}

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

// conventionalCommitRegex matches the Conventional Commits format.
// Format: <type>(<scope>): <subject> or <type>: <subject>, with optional
// breaking-change marker before the colon.
var conventionalCommitRegex = regexp.MustCompile(`^(feat|fix|docs|style|refactor|test|chore|perf|ci|build|revert)(\([^)]+\))?!?:\s*(.+)$`)

// codeFenceRegex strips markdown code fences the model sometimes wraps
// its answer in.
var codeFenceRegex = regexp.MustCompile("^```[a-zA-Z]*\n?|\n?```$")

// ValidationError represents a commit message validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains the result of commit message validation.
type ValidationResult struct {
	IsValid  bool
	Errors   []ValidationError
	Warnings []string
}

// CommitMessage represents a structured Conventional Commits message.
type CommitMessage struct {
	Type    string // feat, fix, docs, etc.
	Scope   string // Optional scope
	Subject string // Short description (max 72 chars recommended)
	Body    string // Optional detailed description
}

// Clean strips formatting noise from a raw model response: markdown
// fences, surrounding quotes, and leading chatter like "Commit message:".
func Clean(rawText string) string {
	text := strings.TrimSpace(rawText)
	text = codeFenceRegex.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	// Models occasionally prefix the answer with a label.
	for _, label := range []string{"commit message:", "mensagem de commit:", "message:"} {
		if len(text) >= len(label) && strings.EqualFold(text[:len(label)], label) {
			text = strings.TrimSpace(text[len(label):])
		}
	}

	// Strip a matching pair of surrounding quotes from the first line.
	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		lines[0] = strings.Trim(lines[0], `"'`)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// FromResponse cleans and parses a raw model response, failing with a
// format error when no recognized type prefix survives cleanup. This is
// the gate between the model and git: an invalid message never reaches
// the commit.
func FromResponse(rawText string) (*CommitMessage, error) {
	cleaned := Clean(rawText)
	if cleaned == "" {
		return nil, apperrors.NewFormatError(rawText, []string{"empty response"})
	}

	cm := Parse(cleaned)
	result := cm.ValidateWithWarnings()
	if !result.IsValid {
		var issues []string
		for _, e := range result.Errors {
			issues = append(issues, e.Error())
		}
		return nil, apperrors.NewFormatError(rawText, issues)
	}

	return cm, nil
}

// Parse parses cleaned text into a CommitMessage.
func Parse(text string) *CommitMessage {
	cm := &CommitMessage{}

	text = strings.TrimSpace(text)
	if text == "" {
		return cm
	}

	lines := strings.Split(text, "\n")
	cm.parseSubject(strings.TrimSpace(lines[0]))

	if len(lines) > 1 {
		cm.Body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}

	return cm
}

// parseSubject parses the subject line for Conventional Commits format.
func (cm *CommitMessage) parseSubject(subject string) {
	matches := conventionalCommitRegex.FindStringSubmatch(subject)
	if matches != nil {
		cm.Type = matches[1]
		if matches[2] != "" {
			cm.Scope = strings.Trim(matches[2], "()")
		}
		cm.Subject = strings.TrimSpace(matches[3])
		return
	}

	// Try to extract type if it looks like "type: subject"
	if idx := strings.Index(subject, ":"); idx > 0 {
		potentialType := strings.TrimSpace(subject[:idx])
		if IsValidCommitType(potentialType) {
			cm.Type = potentialType
			cm.Subject = strings.TrimSpace(subject[idx+1:])
			return
		}
	}

	// Not a valid format, store as subject only
	cm.Subject = subject
}

// FormatSubject formats the subject line in Conventional Commits format.
func (cm *CommitMessage) FormatSubject() string {
	if cm.Type == "" {
		return cm.Subject
	}

	if cm.Scope != "" {
		return cm.Type + "(" + cm.Scope + "): " + cm.Subject
	}
	return cm.Type + ": " + cm.Subject
}

// Format returns the full commit message: subject plus optional body.
func (cm *CommitMessage) Format() string {
	if cm.Body == "" {
		return cm.FormatSubject()
	}
	return cm.FormatSubject() + "\n\n" + cm.Body
}

// ValidateWithWarnings validates the message and returns detailed results.
// Errors make the message unusable; warnings are advisory only.
func (cm *CommitMessage) ValidateWithWarnings() *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
	}

	if cm.Type == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "type",
			Message: "missing commit type",
		})
	} else if !IsValidCommitType(cm.Type) {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("invalid commit type: %s (valid types: %s)", cm.Type, strings.Join(ValidCommitTypes, ", ")),
		})
	}

	if cm.Subject == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "subject",
			Message: "missing commit subject",
		})
	}

	// Length overflow is a warning, not an error
	subjectLine := cm.FormatSubject()
	if len(subjectLine) > MaxSubjectLength {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"subject line exceeds %d characters (%d chars)",
			MaxSubjectLength, len(subjectLine),
		))
	}

	return result
}

// IsValidCommitType checks if the given type is a valid Conventional Commits type.
func IsValidCommitType(commitType string) bool {
	return slices.Contains(ValidCommitTypes, commitType)
}

// SubjectExceedsLength checks if the formatted subject line exceeds the max length.
func (cm *CommitMessage) SubjectExceedsLength() bool {
	return len(cm.FormatSubject()) > MaxSubjectLength
}

// HasBody returns true if the commit message has a body section.
func (cm *CommitMessage) HasBody() bool {
	return cm.Body != ""
}
