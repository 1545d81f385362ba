// =============================================================================
// Comma Fixer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - rewriter
//   - watch
//   - xlsxreport
//   - pkg/utils
//   - cmd
//
// =============================================================================

package types

import "time"

// =============================================================================
// FILE RESULT
// =============================================================================

// Status describes what happened to a single file.
type Status string

const (
	// StatusUnchanged means the repair produced identical text; nothing was written.
	StatusUnchanged Status = "unchanged"

	// StatusRepaired means the file was rewritten with inserted commas.
	StatusRepaired Status = "repaired"

	// StatusWouldRepair means the file needs commas but the run was a dry run.
	StatusWouldRepair Status = "would-repair"

	// StatusFailed means the file could not be read, verified or written.
	StatusFailed Status = "failed"
)

// FileResult represents the outcome of processing a single file.
type FileResult struct {
	// FilePath is the path of the processed file.
	FilePath string

	// Status is the outcome.
	Status Status

	// Error contains the error if processing failed.
	Error error

	// Diff is a line diff of the change. Only filled in for dry runs that
	// asked for it.
	Diff string

	// BackupPath is where the original content was copied before the file
	// was rewritten. Empty when backups are off.
	BackupPath string

	// Stats contains per-file statistics.
	Stats FileStats
}

// Changed reports whether the file needed (or received) at least one comma.
func (r FileResult) Changed() bool {
	return r.Status == StatusRepaired || r.Status == StatusWouldRepair
}

// FileStats contains statistics about one file.
type FileStats struct {
	// Lines is the number of lines in the file.
	Lines int

	// CommasInserted is the number of lines that received a comma.
	CommasInserted int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a processing run.
type RunSummary struct {
	// RunID uniquely identifies the run in reports.
	RunID string

	// RootDir is the directory tree that was scanned.
	RootDir string

	// DryRun is true when no file was written.
	DryRun bool

	StartTime time.Time
	EndTime   time.Time

	// Results holds one entry per processed file, in traversal order.
	Results []FileResult
}

// Counts returns the number of files per status.
func (s RunSummary) Counts() map[Status]int {
	counts := make(map[Status]int, 4)
	for _, r := range s.Results {
		counts[r.Status]++
	}
	return counts
}

// Failed returns the results that ended in an error.
func (s RunSummary) Failed() []FileResult {
	var failed []FileResult
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Changed returns the results that needed at least one comma.
func (s RunSummary) Changed() []FileResult {
	var changed []FileResult
	for _, r := range s.Results {
		if r.Changed() {
			changed = append(changed, r)
		}
	}
	return changed
}

// TotalCommas returns the number of commas inserted (or that would be).
func (s RunSummary) TotalCommas() int {
	total := 0
	for _, r := range s.Results {
		total += r.Stats.CommasInserted
	}
	return total
}

// Duration returns the wall time of the run.
func (s RunSummary) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
