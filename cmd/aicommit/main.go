// Package main is the entry point for the aicommit CLI application.
// aicommit generates Conventional Commits messages from git diffs using
// the Gemini API.
package main

import (
	"fmt"
	"os"

	"github.com/aicommit/aicommit/internal/cmd"
	apperrors "github.com/aicommit/aicommit/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatExitError(err))
		os.Exit(apperrors.GetExitCode(err))
	}
}

// formatExitError renders the final error for stderr. Verbose mode shows
// the full detail, including any raw model response kept in the error
// context.
func formatExitError(err error) string {
	if apperrors.IsVerbose() {
		return apperrors.FormatErrorVerbose(err)
	}
	return apperrors.FormatError(err)
}
