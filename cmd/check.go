// =============================================================================
// Comma Fixer - Check Command
// =============================================================================
//
// This file defines the 'check' command. It runs the same discovery and repair
// as 'process' but never writes, and exits with status 1 when any file would
// change. It is meant for CI and pre-commit hooks.
//
// COMMAND USAGE:
//   commafix check [root] [flags]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

var checkFlags runFlags

// checkCmd represents the 'check' command.
var checkCmd = &cobra.Command{
	// Use is the one-line usage message.
	Use: "check [root]",

	// Short is a short description shown in the 'help' output.
	Short: "Report files with missing commas without changing them",

	// Long is a longer description shown in the 'help check' output.
	Long: `The check command reports every file that 'process' would rewrite and
exits with status 1 if there is at least one. Nothing is written.
Use --diff to print the exact lines that would change.`,

	// Args accepts at most the root directory.
	Args: cobra.MaximumNArgs(1),

	// RunE forces a dry run and turns pending changes into errChangesFound.
	RunE: func(cmd *cobra.Command, args []string) error {
		checkFlags.dryRun = true
		settings, err := resolveSettings(cmd, args, checkFlags)
		if err != nil {
			return err
		}
		summary, err := executeRun(cmd.Context(), cmd.OutOrStdout(), settings, logger)
		if err != nil {
			return err
		}
		if err := failedFilesError(summary); err != nil {
			return err
		}
		if len(summary.Changed()) > 0 {
			return errChangesFound
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addRunFlags(checkCmd, &checkFlags, false)
}
