// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/aicommit/aicommit/internal/pkg/ai"
	"github.com/aicommit/aicommit/internal/pkg/config"
	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
	"github.com/aicommit/aicommit/internal/pkg/git"
	"github.com/aicommit/aicommit/internal/pkg/message"
	"github.com/aicommit/aicommit/internal/pkg/prompt"
	"github.com/aicommit/aicommit/internal/pkg/redact"
	"github.com/aicommit/aicommit/internal/pkg/ui"
)

// writeFile is a variable to allow mocking in tests.
var writeFile = os.WriteFile

// Options contains options for the commit workflow.
type Options struct {
	// Unstaged generates the message from the working tree diff instead
	// of the index. Committing in this mode stages everything first.
	Unstaged bool
	// DryRun generates and displays the message without committing.
	DryRun bool
	// PrintOnly prints the message to stdout and exits. Implies no commit.
	PrintOnly bool
	// OutputFile writes the accepted message to a file instead of committing.
	OutputFile string
	// Yes skips the interactive confirmation and commits directly.
	Yes bool
	// NoEdit commits the generated message without offering the editor.
	NoEdit bool
	// AutoStage runs `git add -A` before reading the diff.
	AutoStage bool
	// Push runs `git push` after a successful commit.
	Push bool
}

// Service orchestrates the commit message generation workflow:
// collect diff → redact secrets → build prompt → call model →
// validate message → confirm → commit.
type Service struct {
	gitClient     git.Client
	provider      ai.Provider
	promptBuilder *prompt.Builder
	uiManager     ui.Manager
	config        *config.Config
}

// NewService creates a new Service with the given dependencies.
func NewService(
	gitClient git.Client,
	provider ai.Provider,
	promptBuilder *prompt.Builder,
	uiManager ui.Manager,
	cfg *config.Config,
) *Service {
	return &Service{
		gitClient:     gitClient,
		provider:      provider,
		promptBuilder: promptBuilder,
		uiManager:     uiManager,
		config:        cfg,
	}
}

// Run executes the complete workflow.
func (s *Service) Run(ctx context.Context, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	// Step 1: make sure there is something to describe. This happens
	// before any network call so an empty index fails fast and free.
	if err := s.ensureChanges(ctx, opts); err != nil {
		return err
	}

	// Step 2: collect diff and stats
	diff, stats, err := s.collectDiff(ctx, opts)
	if err != nil {
		return err
	}

	// Step 3: redact secrets before anything leaves the machine
	redacted := redact.Diff(diff)

	// Step 4: build the prompt (truncates oversized diffs)
	userPrompt, err := s.promptBuilder.Build(redacted, stats)
	if err != nil {
		return err
	}

	// Step 5: call the model
	spinner := s.uiManager.ShowSpinner(fmt.Sprintf("Generating commit message (%s)...", s.provider.Name()))
	spinner.Start()
	raw, err := s.provider.Generate(ctx, prompt.SystemPrompt, userPrompt)
	spinner.Stop()
	if err != nil {
		return err
	}

	// Step 6: parse and validate. An invalid message never reaches git.
	msg, err := message.FromResponse(raw)
	if err != nil {
		return err
	}

	// Step 7: display with lint warnings
	result := msg.ValidateWithWarnings()
	if err := s.uiManager.DisplayMessage(msg, result.Warnings); err != nil {
		return err
	}

	if opts.PrintOnly {
		return nil
	}

	// Step 8: confirm, edit, or cancel
	return s.confirmAndCommit(ctx, opts, msg)
}

// ensureChanges verifies there are changes to commit, optionally staging
// the working tree first.
func (s *Service) ensureChanges(ctx context.Context, opts *Options) error {
	if opts.AutoStage {
		spinner := s.uiManager.ShowSpinner("Staging all changes...")
		spinner.Start()
		err := s.gitClient.AddAll(ctx)
		spinner.Stop()
		if err != nil {
			return err
		}
	}

	if opts.Unstaged {
		hasUnstaged, err := s.gitClient.HasUnstagedChanges(ctx)
		if err != nil {
			return err
		}
		if !hasUnstaged {
			return apperrors.NewNoStagedChangesError()
		}
		return nil
	}

	hasStaged, err := s.gitClient.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if hasStaged {
		return nil
	}

	hasUnstaged, err := s.gitClient.HasUnstagedChanges(ctx)
	if err != nil {
		return err
	}
	if !hasUnstaged {
		return apperrors.NewNoStagedChangesError()
	}

	confirmed, err := s.uiManager.PromptConfirm("No staged changes found. Run 'git add -A' to stage all changes?")
	if err != nil {
		return err
	}
	if !confirmed {
		return apperrors.NewNoStagedChangesError()
	}

	spinner := s.uiManager.ShowSpinner("Staging all changes...")
	spinner.Start()
	err = s.gitClient.AddAll(ctx)
	spinner.Stop()
	if err != nil {
		return err
	}
	s.uiManager.ShowSuccess("All changes staged")
	return nil
}

// collectDiff reads the diff and numstat for the selected source.
func (s *Service) collectDiff(ctx context.Context, opts *Options) (string, *git.DiffStats, error) {
	spinner := s.uiManager.ShowSpinner("Reading changes...")
	spinner.Start()
	defer spinner.Stop()

	var diff string
	var err error
	if opts.Unstaged {
		diff, err = s.gitClient.GetUnstagedDiff(ctx)
	} else {
		diff, err = s.gitClient.GetStagedDiff(ctx)
	}
	if err != nil {
		return "", nil, err
	}

	stats, err := s.gitClient.GetDiffStats(ctx, !opts.Unstaged)
	if err != nil {
		return "", nil, err
	}

	return diff, stats, nil
}

// confirmAndCommit handles the display → action → commit loop.
func (s *Service) confirmAndCommit(ctx context.Context, opts *Options, msg *message.CommitMessage) error {
	for {
		var action ui.Action
		if opts.Yes || opts.NoEdit {
			action = ui.ActionAccept
		} else {
			var err error
			action, err = s.uiManager.PromptAction()
			if err != nil {
				return err
			}
		}

		switch action {
		case ui.ActionAccept:
			return s.finalize(ctx, opts, msg)

		case ui.ActionEdit:
			edited, err := s.uiManager.EditMessage(msg)
			if err != nil {
				s.uiManager.ShowError(err)
				continue
			}
			msg = edited
			return s.finalize(ctx, opts, msg)

		case ui.ActionCancel:
			s.uiManager.ShowSuccess("Commit cancelled")
			return nil
		}
	}
}

// finalize writes the message to its destination: file, dry-run output,
// or an actual git commit (optionally followed by a push).
func (s *Service) finalize(ctx context.Context, opts *Options, msg *message.CommitMessage) error {
	commitMsg := msg.Format()

	if opts.OutputFile != "" {
		if err := writeFile(opts.OutputFile, []byte(commitMsg+"\n"), 0644); err != nil {
			return apperrors.NewFileSystemError("write message file", err)
		}
		s.uiManager.ShowSuccess(fmt.Sprintf("Message written to %s", opts.OutputFile))
		if opts.DryRun {
			return nil
		}
	}

	if opts.DryRun {
		s.uiManager.ShowSuccess("Dry-run complete - message generated but not committed")
		return nil
	}

	// Unstaged mode reads the working tree; the commit still goes
	// through the index.
	if opts.Unstaged {
		if err := s.gitClient.AddAll(ctx); err != nil {
			return err
		}
	}

	spinner := s.uiManager.ShowSpinner("Committing changes...")
	spinner.Start()
	err := s.gitClient.Commit(ctx, commitMsg)
	spinner.Stop()
	if err != nil {
		return err
	}

	s.uiManager.ShowSuccess("Successfully committed!")

	if opts.Push {
		branch, berr := s.gitClient.GetCurrentBranch(ctx)
		if berr != nil {
			branch = "current branch"
		}
		spinner = s.uiManager.ShowSpinner(fmt.Sprintf("Pushing %s...", branch))
		spinner.Start()
		err = s.gitClient.Push(ctx)
		spinner.Stop()
		if err != nil {
			return err
		}
		s.uiManager.ShowSuccess("Pushed!")
	}

	return nil
}
