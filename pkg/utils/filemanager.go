// =============================================================================
// Comma Fixer - File Manager Utility
// =============================================================================
//
// This module provides file utilities for the rewriter and the commands:
//   - Whole-file writes, atomic or in place
//   - Run summary generation
//   - Error log generation
//
// ATOMIC WRITES:
//   The new content is written to a temporary file in the same directory,
//   flushed to disk and renamed over the target. Readers see either the old
//   file or the new one, never a truncated file. The original permission bits
//   are kept.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/commafix/internal/types"
)

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteFileAtomic replaces path with data through a temporary sibling file.
//
// PARAMETERS:
//   - path: The file to replace. It does not need to exist.
//   - data: The new content.
//   - perm: Permission bits used when path does not exist yet.
//
// RETURNS:
//   - An error if any step fails. The temporary file is removed on failure.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	// Replace the target of a symlink, not the link itself.
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	// OpenFile applies the umask; make the final mode match.
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	syncDir(dir)
	return nil
}

// WriteFileInPlace truncates and rewrites path, keeping its permission bits.
func WriteFileInPlace(path string, data []byte, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}

// syncDir is a best-effort fsync of a directory so the rename survives a crash.
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// WriteErrorLog writes the failed files of a run to a log file.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the log file.
//
// RETURNS:
//   - The path to the error log file, or "" when there were no failures.
//   - An error if writing fails.
func WriteErrorLog(summary types.RunSummary, outputDir string) (string, error) {
	failed := summary.Failed()
	if len(failed) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	logPath := filepath.Join(outputDir, fmt.Sprintf("error_log_%s.txt", fileStamp(summary)))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Comma Fixer - Error Log\n"+
		"Run ID: %s\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		summary.RunID,
		time.Now().Format("2006-01-02 15:04:05"),
		len(failed))

	for i, result := range failed {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  File:           %s\n"+
			"  Message:        %v\n\n",
			i+1,
			result.FilePath,
			result.Error)
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// WriteSummaryLog writes a processing summary to a log file.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary types.RunSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", fileStamp(summary)))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	counts := summary.Counts()

	fmt.Fprintf(writer, "Comma Fixer - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Root:           %s\n"+
		"  Dry Run:        %t\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:        %d\n"+
		"  Repaired:           %d\n"+
		"  Would Repair:       %d\n"+
		"  Unchanged:          %d\n"+
		"  Failed:             %d\n"+
		"  Commas Inserted:    %d\n\n",
		summary.RunID,
		summary.RootDir,
		summary.DryRun,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.Duration().String(),
		len(summary.Results),
		counts[types.StatusRepaired],
		counts[types.StatusWouldRepair],
		counts[types.StatusUnchanged],
		counts[types.StatusFailed],
		summary.TotalCommas())

	if changed := summary.Changed(); len(changed) > 0 {
		writer.WriteString("Changed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, r := range changed {
			fmt.Fprintf(writer, "  File:         %s\n", r.FilePath)
			fmt.Fprintf(writer, "  Lines:        %d\n", r.Stats.Lines)
			fmt.Fprintf(writer, "  Commas:       %d\n", r.Stats.CommasInserted)
			if r.BackupPath != "" {
				fmt.Fprintf(writer, "  Backup:       %s\n", r.BackupPath)
			}
			fmt.Fprintf(writer, "  Process Time: %s\n\n", r.Stats.ProcessingTime.String())
		}
	}

	if failed := summary.Failed(); len(failed) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, r := range failed {
			fmt.Fprintf(writer, "  File:  %s\n", r.FilePath)
			fmt.Fprintf(writer, "  Error: %v\n\n", r.Error)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// fileStamp builds the unique part of report file names.
func fileStamp(summary types.RunSummary) string {
	stamp := summary.StartTime.Format("20060102_150405")
	if len(summary.RunID) >= 8 {
		stamp += "_" + summary.RunID[:8]
	}
	return stamp
}
