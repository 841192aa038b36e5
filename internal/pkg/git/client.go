// Package git wraps the local git binary for diff collection and committing.
package git

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

const (
	// CommandTimeout is the default timeout for local git commands.
	CommandTimeout = 10 * time.Second

	// PushTimeout is the timeout for push (network operation).
	PushTimeout = 60 * time.Second
)

// diffArgs keep the output stable for the model: no colors, no external
// diff drivers, binary content forced to text markers.
var diffArgs = []string{"diff", "--no-color", "--no-ext-diff", "--text"}

// FileStat holds per-file statistics from numstat.
type FileStat struct {
	Path      string
	Additions int
	Deletions int
	IsBinary  bool
}

// DiffStats contains statistics about the collected diff.
type DiffStats struct {
	TotalFiles     int
	TotalAdditions int
	TotalDeletions int
	Files          []FileStat
}

// Client defines the git operations the pipeline needs.
type Client interface {
	GetStagedDiff(ctx context.Context) (string, error)
	GetUnstagedDiff(ctx context.Context) (string, error)
	GetDiffStats(ctx context.Context, staged bool) (*DiffStats, error)
	HasStagedChanges(ctx context.Context) (bool, error)
	HasUnstagedChanges(ctx context.Context) (bool, error)
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
	GetCurrentBranch(ctx context.Context) (string, error)
	GetRepoRoot(ctx context.Context) (string, error)
}

// DefaultClient implements Client using exec.CommandContext.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClient creates a new DefaultClient.
func NewClient() *DefaultClient {
	return &DefaultClient{}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	return &DefaultClient{workDir: workDir}
}

// run executes a git command with the given timeout and returns stdout.
func (c *DefaultClient) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}
	// Keep output deterministic regardless of user git config.
	cmd.Env = append(cmd.Environ(), "GIT_PAGER=cat", "LC_ALL=C.UTF-8")

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewTimeoutError(ctx.Err())
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, apperrors.NewGitError(err, string(exitErr.Stderr))
		}
		return nil, apperrors.NewGitError(err, "")
	}
	return output, nil
}

// GetRepoRoot returns the top-level directory of the repository.
// Fails if the current directory is not inside a git work tree or the
// git binary is unavailable.
func (c *DefaultClient) GetRepoRoot(ctx context.Context) (string, error) {
	output, err := c.run(ctx, CommandTimeout, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// HasStagedChanges checks if there are any staged changes in the repository.
func (c *DefaultClient) HasStagedChanges(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--quiet")
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, apperrors.NewTimeoutError(ctx.Err())
		}
		// Exit code 1 means there are differences (staged changes exist)
		if exitErr, ok := err.(*exec.ExitError); ok {
			if exitErr.ExitCode() == 1 {
				return true, nil
			}
		}
		return false, apperrors.NewGitError(err, "")
	}
	// Exit code 0 means no differences
	return false, nil
}

// HasUnstagedChanges checks for modified or untracked files.
func (c *DefaultClient) HasUnstagedChanges(ctx context.Context) (bool, error) {
	output, err := c.run(ctx, CommandTimeout, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(strings.TrimSpace(string(output))) > 0, nil
}

// GetStagedDiff returns the staged diff as raw unified text.
// Fails with a no-staged-changes error when the index is clean.
func (c *DefaultClient) GetStagedDiff(ctx context.Context) (string, error) {
	hasChanges, err := c.HasStagedChanges(ctx)
	if err != nil {
		return "", err
	}
	if !hasChanges {
		return "", apperrors.NewNoStagedChangesError()
	}

	args := append([]string{diffArgs[0], "--cached"}, diffArgs[1:]...)
	output, err := c.run(ctx, CommandTimeout, args...)
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// GetUnstagedDiff returns the working-tree diff as raw unified text.
func (c *DefaultClient) GetUnstagedDiff(ctx context.Context) (string, error) {
	output, err := c.run(ctx, CommandTimeout, diffArgs...)
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// GetDiffStats returns file statistics from git diff --numstat.
func (c *DefaultClient) GetDiffStats(ctx context.Context, staged bool) (*DiffStats, error) {
	args := []string{"diff", "--numstat"}
	if staged {
		args = []string{"diff", "--cached", "--numstat"}
	}

	output, err := c.run(ctx, CommandTimeout, args...)
	if err != nil {
		return nil, err
	}
	return parseNumstat(output), nil
}

// AddAll stages all changes (git add -A).
func (c *DefaultClient) AddAll(ctx context.Context) error {
	_, err := c.run(ctx, CommandTimeout, "add", "-A")
	return err
}

// Commit executes a git commit with the given message.
func (c *DefaultClient) Commit(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "commit", "-m", message)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewGitError(err, string(output))
	}
	return nil
}

// Push pushes commits to the remote repository.
func (c *DefaultClient) Push(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, PushTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "push")
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewGitError(err, string(output))
	}
	return nil
}

// GetCurrentBranch returns the name of the current branch.
func (c *DefaultClient) GetCurrentBranch(ctx context.Context) (string, error) {
	output, err := c.run(ctx, CommandTimeout, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// parseNumstat parses the output of git diff --numstat.
// Format: additions<TAB>deletions<TAB>filepath
// Binary files show as: -<TAB>-<TAB>filepath
func parseNumstat(output []byte) *DiffStats {
	stats := &DiffStats{}
	scanner := bufio.NewScanner(bytes.NewReader(output))

	for scanner.Scan() {
		// The path is everything after the second tab; paths themselves
		// may contain tabs.
		parts := strings.SplitN(scanner.Text(), "\t", 3)
		if len(parts) < 3 {
			continue
		}

		addStr, delStr, filePath := parts[0], parts[1], parts[2]

		fs := FileStat{Path: filePath}
		if addStr == "-" && delStr == "-" {
			fs.IsBinary = true
		} else {
			fs.Additions, _ = strconv.Atoi(addStr)
			fs.Deletions, _ = strconv.Atoi(delStr)
		}

		stats.Files = append(stats.Files, fs)
		stats.TotalFiles++
		stats.TotalAdditions += fs.Additions
		stats.TotalDeletions += fs.Deletions
	}

	return stats
}
