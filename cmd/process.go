// =============================================================================
// Comma Fixer - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the tool. It
// discovers source files and rewrites every file whose content changes.
//
// COMMAND USAGE:
//   commafix process [root] [flags]
//
// FLAGS:
//   --ext          : File extension to repair (repeatable, default .ts,.tsx)
//   --exclude      : Glob of paths to skip, relative to root (repeatable)
//   --file         : Repair a single file instead of walking a tree
//   --dry-run      : Report what would change without writing
//   --diff         : Print a diff of every change (implies --dry-run)
//   --concurrency  : Number of files processed at once
//   --report-dir   : Write a summary (and error log) to this directory
//   --xlsx         : Also write the report as an .xlsx workbook
//   --backup-dir   : Copy every file here before it is rewritten
//
// PROCESSING PIPELINE:
//   1. Resolve settings (defaults < config file < flags)
//   2. Discover files under the root directory
//   3. Repair each file, writing only those that change
//   4. Print the summary and write report files
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// runFlags holds the flags shared by process and check.
type runFlags struct {
	extensions  []string
	exclude     []string
	singleFile  string
	dryRun      bool
	diff        bool
	concurrency int
	reportDir   string
	xlsx        bool
	backupDir   string
}

var processFlags runFlags

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	// Use is the one-line usage message. The optional argument overrides
	// root_dir from the configuration.
	Use: "process [root]",

	// Short is a short description shown in the 'help' output.
	Short: "Repair missing commas in every matching file under root",

	// Long is a longer description shown in the 'help process' output.
	Long: `The process command walks the root directory (default ./src), repairs every
file with a matching extension and rewrites the files whose content changed.

Files that need no commas are never written. Each file is independent, and a
failure on one file does not stop the others unless continue_on_error is
disabled in the configuration. The command fails if any file failed.`,

	// Args accepts at most the root directory.
	Args: cobra.MaximumNArgs(1),

	// RunE returns an error instead of exiting so Execute decides the exit
	// status. A run with failed files is an error.
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveSettings(cmd, args, processFlags)
		if err != nil {
			return err
		}
		summary, err := executeRun(cmd.Context(), cmd.OutOrStdout(), settings, logger)
		if err != nil {
			return err
		}
		return failedFilesError(summary)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)
	addRunFlags(processCmd, &processFlags, true)
}

// addRunFlags registers the flags shared by process and check.
func addRunFlags(cmd *cobra.Command, f *runFlags, withWriteFlags bool) {
	cmd.Flags().StringSliceVar(&f.extensions, "ext", nil, "File extension to repair (repeatable)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "Glob of paths to skip, relative to root (repeatable)")
	cmd.Flags().StringVar(&f.singleFile, "file", "", "Repair a single file instead of walking root")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "Print a diff of every change")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Number of files processed at once")
	cmd.Flags().StringVar(&f.reportDir, "report-dir", "", "Write a run summary to this directory")
	cmd.Flags().BoolVar(&f.xlsx, "xlsx", false, "Also write the run report as an .xlsx workbook")

	if withWriteFlags {
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Report what would change without writing")
		cmd.Flags().StringVar(&f.backupDir, "backup-dir", "", "Copy every file to this directory before rewriting it")
	}
}
