// Package cmd contains the CLI command definitions for aicommit.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command as a print-only variant
// of the commit command.
func NewGenerateCmd() *cobra.Command {
	flags := &CommitFlags{
		PrintOnly: true, // Never commits
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message without committing",
		Long: `Generate a commit message from your staged changes without
actually committing.

This is equivalent to running 'aicommit commit --print-only'.

The generated message is printed to stdout so it can be piped into
other tools, or written to a file using the --output flag.

Examples:
  aicommit generate              # Generate and print message
  aicommit generate -o msg.txt   # Save message to file
  aicommit generate -u           # Use the working tree diff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.OutputFile != "" {
				// Writing to a file goes through the dry-run path
				flags.PrintOnly = false
				flags.DryRun = true
				flags.Yes = true
			}
			return runCommit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Unstaged, "unstaged", "u", false, "Use the working tree diff instead of the index")
	cmd.Flags().StringVarP(&flags.CommitType, "type", "t", "", "Commit type to suggest to the model (feat, fix, ...)")
	cmd.Flags().StringVarP(&flags.Language, "lang", "l", "", "Language for the generated message (e.g. pt-BR, en)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write generated message to file")

	return cmd
}
