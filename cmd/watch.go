// =============================================================================
// Comma Fixer - Watch Command
// =============================================================================
//
// This file defines the 'watch' command, which keeps a source tree repaired
// while it is being edited. It runs until interrupted (Ctrl+C).
//
// COMMAND USAGE:
//   commafix watch [root] [--debounce 300ms]
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/commafix/internal/rewriter"
	"github.com/ginjaninja78/commafix/internal/types"
	"github.com/ginjaninja78/commafix/internal/watch"
)

var (
	watchFlags    runFlags
	watchDebounce time.Duration
)

// watchCmd represents the 'watch' command.
var watchCmd = &cobra.Command{
	// Use is the one-line usage message.
	Use: "watch [root]",

	// Short is a short description shown in the 'help' output.
	Short: "Repair files as they are saved",

	// Long is a longer description shown in the 'help watch' output.
	Long: `The watch command observes the root directory and all of its subdirectories
and repairs a matching file shortly after it has been created or saved.
Excluded directories are not watched.`,

	// Args accepts at most the root directory.
	Args: cobra.MaximumNArgs(1),

	// RunE blocks until the command context is cancelled (Ctrl+C).
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveSettings(cmd, args, watchFlags)
		if err != nil {
			return err
		}
		cfg := settings.cfg
		out := cmd.OutOrStdout()

		// The watcher reports resolved paths.
		root := cfg.RootDir
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			root = resolved
		}

		rw := rewriter.New(rewriter.Options{
			Verify:          *cfg.Verify,
			Atomic:          *cfg.AtomicWrite,
			ContinueOnError: true,
			MaxConcurrency:  1,
			Backup:          newBackuper(cfg, root, false),
		}, logger)

		w, err := watch.New(watch.Options{
			Root:       cfg.RootDir,
			Extensions: cfg.Extensions,
			Exclude:    cfg.Exclude,
			Debounce:   watchDebounce,
			OnResult: func(r types.FileResult) {
				switch r.Status {
				case types.StatusRepaired:
					fmt.Fprintf(out, "  ✓ %s (%d comma(s))\n", r.FilePath, r.Stats.CommasInserted)
				case types.StatusFailed:
					fmt.Fprintf(out, "  ✗ %s: %v\n", r.FilePath, r.Error)
				}
			},
		}, rw, logger)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Watching %s for %v (Ctrl+C to stop)\n", cfg.RootDir, cfg.Extensions)
		return w.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchFlags.extensions, "ext", nil, "File extension to repair (repeatable)")
	watchCmd.Flags().StringSliceVar(&watchFlags.exclude, "exclude", nil, "Glob of paths to skip, relative to root (repeatable)")
	watchCmd.Flags().StringVar(&watchFlags.backupDir, "backup-dir", "", "Copy every file to this directory before rewriting it")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a changed file is repaired")
}
