// =============================================================================
// Comma Fixer - Tree Walker
// =============================================================================
//
// This module discovers the files to repair. It descends the root directory in
// lexical order and returns every regular file whose name ends in one of the
// configured extensions, skipping anything matched by an exclude glob.
//
// MATCHING:
//   - Extensions are compared case-insensitively against the end of the file
//     name, so ".ts" also selects "types.d.ts".
//   - Exclude globs use doublestar syntax ("**/node_modules/**") and are
//     matched against the slash-separated path relative to the root. A
//     directory is skipped when either "dir" or "dir/" plus anything matches.
//
// SYMLINKS:
//   A root that is a symlink is resolved before the walk. Symlinked files are
//   selected when their target is a regular file. Symlinked directories below
//   the root are not descended.
//
// =============================================================================

package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options controls a walk.
type Options struct {
	// Root is the directory to descend.
	Root string

	// Extensions are the accepted suffixes, already normalised to lower case
	// with a leading dot.
	Extensions []string

	// Exclude is a list of doublestar patterns relative to Root.
	Exclude []string
}

// Walk returns the matching files under opts.Root in traversal order.
//
// RETURNS:
//   - A slice of file paths, each joined onto opts.Root.
//   - An error if the root cannot be read or ctx is cancelled.
func Walk(ctx context.Context, opts Options) ([]string, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", opts.Root)
	}

	// WalkDir does not follow a symlinked root.
	resolved, err := filepath.EvalSymlinks(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	var files []string

	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(resolved, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && IsExcluded(rel+"/", opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isRegularFile(path, d) {
			return nil
		}
		if IsExcluded(rel, opts.Exclude) || !HasExtension(path, opts.Extensions) {
			return nil
		}

		files = append(files, filepath.Join(opts.Root, filepath.FromSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", opts.Root, err)
	}

	return files, nil
}

// isRegularFile accepts regular files and symlinks whose target is one.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// HasExtension reports whether path ends in one of extensions
// (case-insensitive).
func HasExtension(path string, extensions []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether the slash-separated relative path matches any of
// the patterns. Invalid patterns never match; config validation rejects them
// up front.
func IsExcluded(rel string, patterns []string) bool {
	trimmed := strings.TrimSuffix(rel, "/")
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, trimmed); ok {
			return true
		}
	}
	return false
}
