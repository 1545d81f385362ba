package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/commafix/internal/config"
	"github.com/ginjaninja78/commafix/internal/logging"
	"github.com/ginjaninja78/commafix/internal/rewriter"
	"github.com/ginjaninja78/commafix/internal/types"
	"github.com/ginjaninja78/commafix/internal/walker"
	"github.com/ginjaninja78/commafix/internal/xlsxreport"
	"github.com/ginjaninja78/commafix/pkg/utils"
)

// errChangesFound is returned by check when at least one file needs commas.
var errChangesFound = errors.New("files need repair")

// runSettings is the fully resolved input of a process or check run.
type runSettings struct {
	cfg        *config.MainConfig
	singleFile string
	dryRun     bool
	diff       bool
}

// resolveSettings layers command-line flags over the loaded configuration.
func resolveSettings(cmd *cobra.Command, args []string, f runFlags) (runSettings, error) {
	cfg := config.Default()
	if appConfig != nil {
		copied := *appConfig
		cfg = &copied
	}

	if len(args) == 1 {
		cfg.RootDir = args[0]
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extensions = config.NormalizeExtensions(f.extensions)
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.MaxConcurrency = f.concurrency
	}
	if cmd.Flags().Changed("report-dir") {
		cfg.ReportDir = f.reportDir
	}
	if cmd.Flags().Changed("xlsx") {
		cfg.XLSXReport = f.xlsx
	}
	if cmd.Flags().Changed("backup-dir") {
		cfg.BackupDir = f.backupDir
	}

	if err := cfg.Validate(); err != nil {
		return runSettings{}, fmt.Errorf("invalid settings: %w", err)
	}
	if f.singleFile != "" && !fileExists(f.singleFile) {
		return runSettings{}, fmt.Errorf("file not found: %s", f.singleFile)
	}

	return runSettings{
		cfg:        cfg,
		singleFile: f.singleFile,
		dryRun:     f.dryRun || f.diff,
		diff:       f.diff,
	}, nil
}

// executeRun discovers files, repairs them and reports the outcome.
//
// RETURNS:
//   - The run summary (also when some files failed).
//   - An error when discovery fails, the run was aborted, or a report could
//     not be written.
func executeRun(ctx context.Context, out io.Writer, s runSettings, log logging.Logger) (types.RunSummary, error) {
	if log == nil {
		log = logging.Nop()
	}

	summary := types.RunSummary{
		RunID:     uuid.NewString(),
		RootDir:   s.cfg.RootDir,
		DryRun:    s.dryRun,
		StartTime: time.Now(),
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	var paths []string
	if s.singleFile != "" {
		paths = []string{s.singleFile}
		summary.RootDir = filepath.Dir(s.singleFile)
	} else {
		found, err := walker.Walk(ctx, walker.Options{
			Root:       s.cfg.RootDir,
			Extensions: s.cfg.Extensions,
			Exclude:    s.cfg.Exclude,
		})
		if err != nil {
			return summary, fmt.Errorf("failed to discover input files: %w", err)
		}
		paths = found
	}

	log.Infof("Found %d file(s) under %s", len(paths), summary.RootDir)

	// =========================================================================
	// STEP 2: REPAIR FILES
	// =========================================================================

	rw := rewriter.New(rewriter.Options{
		DryRun:          s.dryRun,
		Diff:            s.diff,
		Verify:          *s.cfg.Verify,
		Atomic:          *s.cfg.AtomicWrite,
		ContinueOnError: *s.cfg.ContinueOnError,
		MaxConcurrency:  s.cfg.MaxConcurrency,
		Backup:          newBackuper(s.cfg, summary.RootDir, s.dryRun),
	}, log)

	results, runErr := rw.Run(ctx, paths)
	summary.Results = results
	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 3: REPORT
	// =========================================================================

	printSummary(out, summary, s.diff)

	if s.cfg.ReportDir != "" {
		if err := writeReports(out, summary, s.cfg); err != nil {
			return summary, err
		}
	}

	if !s.dryRun && s.cfg.BackupDir != "" && s.cfg.BackupMaxAge > 0 {
		removed, err := utils.CleanOldBackups(s.cfg.BackupDir, s.cfg.BackupMaxAge)
		if err != nil {
			return summary, err
		}
		if removed > 0 {
			fmt.Fprintf(out, "Removed %d backup(s) older than %s\n", removed, s.cfg.BackupMaxAge)
		}
	}

	if runErr != nil {
		return summary, fmt.Errorf("run aborted: %w", runErr)
	}
	return summary, nil
}

// newBackuper returns the backup manager for a run, or nil when backups are
// off or nothing is written.
func newBackuper(cfg *config.MainConfig, root string, dryRun bool) rewriter.Backuper {
	if dryRun || cfg.BackupDir == "" {
		return nil
	}
	return utils.NewBackupManager(cfg.BackupDir, root, cfg.BackupDateSubdirs)
}

// printSummary prints one line per changed or failed file and the totals.
func printSummary(out io.Writer, summary types.RunSummary, withDiff bool) {
	for _, r := range summary.Results {
		switch r.Status {
		case types.StatusRepaired:
			fmt.Fprintf(out, "  ✓ %s (%d comma(s))\n", r.FilePath, r.Stats.CommasInserted)
		case types.StatusWouldRepair:
			fmt.Fprintf(out, "  ~ %s (%d comma(s))\n", r.FilePath, r.Stats.CommasInserted)
			if withDiff && r.Diff != "" {
				fmt.Fprint(out, r.Diff)
			}
		case types.StatusFailed:
			fmt.Fprintf(out, "  ✗ %s: %v\n", r.FilePath, r.Error)
		}
	}

	counts := summary.Counts()
	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", len(summary.Results))
	if summary.DryRun {
		fmt.Fprintf(out, "Would repair:    %d\n", counts[types.StatusWouldRepair])
	} else {
		fmt.Fprintf(out, "Repaired:        %d\n", counts[types.StatusRepaired])
	}
	fmt.Fprintf(out, "Unchanged:       %d\n", counts[types.StatusUnchanged])
	fmt.Fprintf(out, "Errors:          %d\n", counts[types.StatusFailed])
	fmt.Fprintf(out, "Commas:          %d\n", summary.TotalCommas())
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.Duration())
}

// writeReports writes the summary, the error log and the optional workbook.
func writeReports(out io.Writer, summary types.RunSummary, cfg *config.MainConfig) error {
	path, err := utils.WriteSummaryLog(summary, cfg.ReportDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Summary written to %s\n", path)

	path, err = utils.WriteErrorLog(summary, cfg.ReportDir)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(out, "Errors have been logged to %s\n", path)
	}

	if cfg.XLSXReport {
		path = filepath.Join(cfg.ReportDir, xlsxreport.FileName(summary))
		if err := xlsxreport.Write(summary, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Workbook written to %s\n", path)
	}
	return nil
}

// failedFilesError turns per-file failures into a command error so the exit
// status reflects them.
func failedFilesError(summary types.RunSummary) error {
	if failed := len(summary.Failed()); failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

// fileExists is used to reject a --file that does not exist before any work
// starts.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
