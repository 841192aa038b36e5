// Package cmd contains the CLI command definitions for aicommit.
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aicommit/aicommit/internal/app"
	"github.com/aicommit/aicommit/internal/pkg/ai"
	"github.com/aicommit/aicommit/internal/pkg/config"
	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
	"github.com/aicommit/aicommit/internal/pkg/git"
	"github.com/aicommit/aicommit/internal/pkg/prompt"
	"github.com/aicommit/aicommit/internal/pkg/ui"
)

// CommitFlags holds the flags for the commit command.
type CommitFlags struct {
	Unstaged   bool
	CommitType string
	Language   string
	NoEdit     bool
	PrintOnly  bool
	DryRun     bool
	Yes        bool
	OutputFile string
	Add        bool
	Push       bool
}

// NewCommitCmd creates the commit command.
func NewCommitCmd() *cobra.Command {
	flags := &CommitFlags{}

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Generate and commit with an AI-generated message",
		Long: `Generate a Conventional Commits message from your staged changes,
then optionally commit with that message.

The command reads the staged git diff, redacts secrets, sends the
result to the configured model, and presents an interactive interface
to review, edit, and confirm the commit message.

Examples:
  aicommit commit                # Interactive commit
  aicommit commit --yes          # Auto-accept generated message
  aicommit commit --dry-run      # Generate without committing
  aicommit commit --print-only   # Print the message and exit
  aicommit commit -t feat        # Suggest a commit type to the model
  aicommit commit -l en          # Generate the message in English`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, flags)
		},
	}

	addCommitFlags(cmd, flags)

	return cmd
}

// addCommitFlags registers the commit workflow flags on a command.
func addCommitFlags(cmd *cobra.Command, flags *CommitFlags) {
	cmd.Flags().BoolVarP(&flags.Unstaged, "unstaged", "u", false, "Use the working tree diff instead of the index")
	cmd.Flags().StringVarP(&flags.CommitType, "type", "t", "", "Commit type to suggest to the model (feat, fix, ...)")
	cmd.Flags().StringVarP(&flags.Language, "lang", "l", "", "Language for the generated message (e.g. pt-BR, en)")
	cmd.Flags().BoolVar(&flags.NoEdit, "no-edit", false, "Commit the generated message without the action prompt")
	cmd.Flags().BoolVarP(&flags.PrintOnly, "print-only", "p", false, "Print the generated message and exit without committing")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Generate message without committing")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip interactive confirmation and commit immediately")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write generated message to file (implies --dry-run)")
	cmd.Flags().BoolVarP(&flags.Add, "add", "a", false, "Run 'git add -A' before reading the diff")
	cmd.Flags().BoolVar(&flags.Push, "push", false, "Push after a successful commit")
}

// runCommit executes the commit command logic.
func runCommit(cmd *cobra.Command, flags *CommitFlags) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Get global flags
	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")
	providerOverride, _ := cmd.Flags().GetString("provider")
	modelOverride, _ := cmd.Flags().GetString("model")

	apperrors.SetVerbose(verbose)

	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		apperrors.Error("Failed to create config manager: %v", err)
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}

	if configPath != "" {
		apperrors.Debug("Using custom config path: %s", configPath)
	}

	// First run without an API key in the environment: offer the setup
	// wizard, but only when we can actually interact with the user.
	if !cfgMgr.ConfigExists() && !hasAPIKeyEnv() && !flags.Yes && !flags.PrintOnly {
		if err := ui.RunInteractiveSetup(cfgMgr); err != nil {
			return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "setup failed")
		}
	}

	// Apply command-line flag overrides BEFORE loading config so flags
	// take highest priority (flags > env > file > defaults). These are
	// temporary and never persist to the config file.
	if providerOverride != "" {
		cfgMgr.SetOverride("provider.name", providerOverride)
		apperrors.Debug("Provider overridden via flag: %s", providerOverride)
	}
	if modelOverride != "" {
		cfgMgr.SetOverride("provider.model", modelOverride)
		apperrors.Debug("Model overridden via flag: %s", modelOverride)
	}
	if flags.Language != "" {
		cfgMgr.SetOverride("prompt.language", flags.Language)
	}
	if flags.CommitType != "" {
		cfgMgr.SetOverride("prompt.commit_type", flags.CommitType)
	}

	cfg, err := cfgMgr.Load()
	if err != nil {
		apperrors.Error("Failed to load config: %v", err)
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load config")
	}

	// If output file is specified, enable dry-run mode
	if flags.OutputFile != "" {
		flags.DryRun = true
	}

	// Fail fast on a missing API key, before touching git or the network
	if cfg.Provider.APIKey == "" {
		return apperrors.NewMissingAPIKeyError(cfg.Provider.Name)
	}

	if verbose {
		apperrors.Info("Using provider: %s", cfg.Provider.Name)
		apperrors.Info("Using model: %s", cfg.Provider.Model)
		apperrors.Info("API key: %s", config.MaskAPIKey(cfg.Provider.APIKey))
		if flags.DryRun {
			apperrors.Info("Dry-run mode enabled")
		}
	}

	// Create dependencies
	gitClient := git.NewClient()

	provider, err := ai.NewProvider(&cfg.Provider)
	if err != nil {
		apperrors.Error("Failed to create AI provider: %v", err)
		return err
	}
	apperrors.Debug("AI provider created: %s", provider.Name())

	promptBuilder, err := prompt.NewBuilder(cfg.Prompt.MaxDiffChars, cfg.Prompt.Language, cfg.Prompt.CommitType)
	if err != nil {
		return err
	}

	// Create UI manager based on interactivity
	var uiMgr ui.Manager
	if flags.Yes || flags.PrintOnly {
		uiMgr = ui.NewNonInteractiveManager(cfg.UI.ColorEnabled)
	} else {
		uiMgr = ui.NewDefaultManager(cfg.UI.ColorEnabled, cfg.UI.Editor)
	}

	service := app.NewService(gitClient, provider, promptBuilder, uiMgr, cfg)

	opts := &app.Options{
		Unstaged:   flags.Unstaged,
		DryRun:     flags.DryRun,
		PrintOnly:  flags.PrintOnly,
		OutputFile: flags.OutputFile,
		Yes:        flags.Yes,
		NoEdit:     flags.NoEdit,
		AutoStage:  flags.Add || cfg.Git.AutoStage,
		Push:       flags.Push || cfg.Git.Push,
	}

	return service.Run(ctx, opts)
}

// hasAPIKeyEnv reports whether an API key is available via environment.
func hasAPIKeyEnv() bool {
	for _, name := range []string{"AICOMMIT_PROVIDER_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
