// Package cmd contains the CLI command definitions for aicommit.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the aicommit CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	// Create commit command first so we can reference it
	commitCmd := NewCommitCmd()

	rootCmd := &cobra.Command{
		Use:   "aicommit",
		Short: "AI-powered git commit message generator",
		Long: `aicommit is a command-line tool that generates Conventional Commits
messages from your git diff using the Gemini API.

It reads the staged diff, redacts anything that looks like a secret,
sends the result to the configured model, and presents an interactive
interface to review, edit, and confirm the message before committing.`,
		Version: version,
		// Default action is to run the commit command
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := &CommitFlags{}
			flags.Unstaged, _ = cmd.Flags().GetBool("unstaged")
			flags.CommitType, _ = cmd.Flags().GetString("type")
			flags.Language, _ = cmd.Flags().GetString("lang")
			flags.NoEdit, _ = cmd.Flags().GetBool("no-edit")
			flags.PrintOnly, _ = cmd.Flags().GetBool("print-only")
			flags.DryRun, _ = cmd.Flags().GetBool("dry-run")
			flags.Yes, _ = cmd.Flags().GetBool("yes")
			flags.OutputFile, _ = cmd.Flags().GetString("output")
			flags.Add, _ = cmd.Flags().GetBool("add")
			flags.Push, _ = cmd.Flags().GetBool("push")

			return runCommit(cmd, flags)
		},
	}

	// Set version template
	rootCmd.SetVersionTemplate(`aicommit {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.aicommit/config.yaml)")
	rootCmd.PersistentFlags().String("provider", "", "AI provider to use (gemini, openai)")
	rootCmd.PersistentFlags().String("model", "", "Model to use")

	// Add commit-specific flags to root command for default action
	addCommitFlags(rootCmd, &CommitFlags{})

	// Add subcommands
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}
