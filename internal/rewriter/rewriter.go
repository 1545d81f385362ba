// =============================================================================
// Comma Fixer - File Rewriter
// =============================================================================
//
// This module owns all file I/O around the repair engine. For each file it:
//   1. Reads the whole file
//   2. Runs the repair engine on the text
//   3. Compares the result with the original byte-for-byte
//   4. Verifies the repaired text (optional, on by default)
//   5. Backs up the original (optional)
//   6. Writes the file back, atomically by default, only if it changed
//
// CONCURRENCY:
//   Files share no state, so Run processes them with a bounded pool of
//   goroutines. Results are always returned in the order of the input paths.
//   With a limit of 1 the run is strictly sequential.
//
// ERROR HANDLING:
//   Failures are reported per file as *FileError. When ContinueOnError is
//   false the first failure cancels the files that have not started yet and
//   Run returns that error.
//
// =============================================================================

package rewriter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/commafix/internal/logging"
	"github.com/ginjaninja78/commafix/internal/repair"
	"github.com/ginjaninja78/commafix/internal/types"
	"github.com/ginjaninja78/commafix/internal/validation"
	"github.com/ginjaninja78/commafix/pkg/utils"
)

// =============================================================================
// ERRORS
// =============================================================================

// Error kinds. A *FileError matches exactly one of them with errors.Is.
var (
	ErrRead   = errors.New("read failed")
	ErrWrite  = errors.New("write failed")
	ErrVerify = errors.New("verification failed")
	ErrBackup = errors.New("backup failed")
)

// FileError describes a failure on a single file.
type FileError struct {
	Path string
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *FileError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// =============================================================================
// REWRITER
// =============================================================================

// Options controls how files are rewritten.
type Options struct {
	// DryRun computes results without writing anything.
	DryRun bool

	// Diff fills FileResult.Diff for changed files during a dry run.
	Diff bool

	// Verify runs validation.VerifyRepair before a file is written.
	Verify bool

	// Atomic writes through a temporary file and a rename.
	Atomic bool

	// ContinueOnError keeps going after a failed file.
	ContinueOnError bool

	// MaxConcurrency bounds the number of files processed at once.
	MaxConcurrency int

	// Backup, if set, copies every file before it is rewritten. A file whose
	// backup fails is not written.
	Backup Backuper
}

// Backuper keeps a copy of a file and returns where it was stored.
type Backuper interface {
	Backup(path string) (string, error)
}

// Rewriter applies the repair engine to files on disk.
type Rewriter struct {
	opts   Options
	logger logging.Logger
}

// New creates a Rewriter. A nil logger discards output.
func New(opts Options, logger logging.Logger) *Rewriter {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Rewriter{opts: opts, logger: logger}
}

// Run processes paths and returns one result per file that was started, in
// input order.
//
// RETURNS:
//   - The per-file results.
//   - The first failure when ContinueOnError is false, or ctx.Err() when the
//     run was cancelled from outside.
func (r *Rewriter) Run(ctx context.Context, paths []string) ([]types.FileResult, error) {
	results := make([]types.FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxConcurrency)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			result := r.RewriteFile(gctx, path)
			results[i] = result
			if result.Status == types.StatusFailed && !r.opts.ContinueOnError {
				return result.Error
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	done := results[:0]
	for _, result := range results {
		if result.FilePath != "" {
			done = append(done, result)
		}
	}
	return done, err
}

// RewriteFile repairs a single file.
func (r *Rewriter) RewriteFile(ctx context.Context, path string) (result types.FileResult) {
	start := time.Now()
	result = types.FileResult{FilePath: path, Status: types.StatusFailed}
	defer func() {
		result.Stats.ProcessingTime = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		result.Error = &FileError{Path: path, Kind: ErrRead, Err: err}
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Error = &FileError{Path: path, Kind: ErrRead, Err: err}
		r.logger.Errorf("Failed to read %s: %v", path, err)
		return result
	}
	original := string(data)

	lines := strings.Split(original, "\n")
	repairedLines, inserted := repair.RepairLines(lines)
	result.Stats.Lines = len(lines)
	result.Stats.CommasInserted = len(inserted)

	if len(inserted) == 0 {
		result.Status = types.StatusUnchanged
		r.logger.Debugf("Unchanged: %s", path)
		return result
	}
	repaired := strings.Join(repairedLines, "\n")

	if r.opts.Verify {
		if verrs := validation.VerifyRepair(original, repaired); len(verrs) > 0 {
			result.Error = &FileError{Path: path, Kind: ErrVerify, Err: errors.New(validation.FormatErrors(verrs))}
			r.logger.Errorf("Refusing to rewrite %s: %s", path, validation.FormatErrors(verrs))
			return result
		}
	}

	if r.opts.DryRun {
		result.Status = types.StatusWouldRepair
		if r.opts.Diff {
			result.Diff = Diff(path, original, repaired)
		}
		r.logger.Infof("Would insert %d comma(s) in %s", len(inserted), path)
		return result
	}

	if r.opts.Backup != nil {
		backupPath, err := r.opts.Backup.Backup(path)
		if err != nil {
			result.Error = &FileError{Path: path, Kind: ErrBackup, Err: err}
			r.logger.Errorf("Failed to back up %s: %v", path, err)
			return result
		}
		result.BackupPath = backupPath
		r.logger.Debugf("Backed up %s to %s", path, backupPath)
	}

	write := utils.WriteFileInPlace
	if r.opts.Atomic {
		write = utils.WriteFileAtomic
	}
	if err := write(path, []byte(repaired), 0o644); err != nil {
		result.Error = &FileError{Path: path, Kind: ErrWrite, Err: err}
		r.logger.Errorf("Failed to write %s: %v", path, err)
		return result
	}

	result.Status = types.StatusRepaired
	r.logger.Infof("Inserted %d comma(s) in %s", len(inserted), path)
	return result
}
