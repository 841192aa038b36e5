// Package redact masks credential-like content in diffs before they are
// sent to an external model provider.
package redact

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Placeholder replaces every detected secret.
const Placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for common secret shapes.
// Matching is best-effort: false positives are acceptable, the cost of a
// masked harmless line is much lower than a leaked credential.
var secretPatterns = []*regexp.Regexp{
	// Env-style assignments: API_KEY=..., SECRET_TOKEN: "...", password = '...'
	regexp.MustCompile(`(?i)\b[A-Za-z0-9_.-]*(api[_-]?key|apikey|api[_-]?secret|secret|token|password|passwd|credential)[A-Za-z0-9_.-]*\s*[:=]\s*["']?[^\s"']+["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs (three base64url segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+[A-Z ]*PRIVATE KEY-----`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Slack tokens
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	// OpenAI API keys
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	// Google AI keys
	regexp.MustCompile(`AIza[A-Za-z0-9_-]{30,}`),
}

// sensitivePathPatterns match files whose whole content is considered
// sensitive inside a diff.
var sensitivePathPatterns = []string{
	".env",
	".env.*",
	"*.pem",
	"*.key",
	"*credentials*",
	"*secrets*",
	"id_rsa*",
	"id_ed25519*",
}

// Secrets replaces detected secrets in text with the placeholder.
// The transform is idempotent: no pattern matches already-redacted text.
func Secrets(text string) string {
	result := text
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllString(result, Placeholder)
	}
	return result
}

// PathSensitive reports whether a file path looks like it holds credentials.
func PathSensitive(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range sensitivePathPatterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// Diff redacts a unified diff. On top of pattern-based masking it blanks
// every added line that belongs to a sensitive file, tracked from the
// "+++ b/<path>" headers git emits per file.
func Diff(diff string) string {
	lines := strings.Split(diff, "\n")
	inSensitiveFile := false

	for i, line := range lines {
		if strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "--- ") {
			inSensitiveFile = PathSensitive(diffHeaderPath(line))
			continue
		}
		if inSensitiveFile && strings.HasPrefix(line, "+") {
			lines[i] = "+" + Placeholder
		}
	}

	return Secrets(strings.Join(lines, "\n"))
}

// diffHeaderPath extracts the file path from a "+++ b/path" or "--- a/path" line.
func diffHeaderPath(line string) string {
	path := strings.TrimSpace(line[4:])
	path = strings.TrimPrefix(path, "a/")
	path = strings.TrimPrefix(path, "b/")
	return path
}
