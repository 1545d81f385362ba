package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/commafix/internal/types"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "existing permissions are kept")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file is left behind")
}

func TestWriteFileAtomicThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "shared.ts")
	link := filepath.Join(dir, "linked.ts")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	require.NoError(t, WriteFileAtomic(link, []byte("new"), 0o644))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link is kept")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteFileAtomicNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.ts")

	require.NoError(t, WriteFileAtomic(path, []byte("x"), 0o640))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "c.ts"), []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestWriteFileInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("a longer old body"), 0o644))

	require.NoError(t, WriteFileInPlace(path, []byte("short"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func sampleSummary() types.RunSummary {
	start := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	return types.RunSummary{
		RunID:     "0123456789abcdef",
		RootDir:   "./src",
		StartTime: start,
		EndTime:   start.Add(2 * time.Second),
		Results: []types.FileResult{
			{FilePath: "src/a.ts", Status: types.StatusRepaired, Stats: types.FileStats{Lines: 10, CommasInserted: 2}},
			{FilePath: "src/b.ts", Status: types.StatusUnchanged, Stats: types.FileStats{Lines: 4}},
			{FilePath: "src/c.ts", Status: types.StatusFailed, Error: errors.New("permission denied")},
		},
	}
}

func TestWriteSummaryLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := WriteSummaryLog(sampleSummary(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "processing_summary_20261017_093000_01234567.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Run ID:         0123456789abcdef")
	assert.Contains(t, text, "Total Files:        3")
	assert.Contains(t, text, "Repaired:           1")
	assert.Contains(t, text, "Commas Inserted:    2")
	assert.Contains(t, text, "File:         src/a.ts")
	assert.Contains(t, text, "Error: permission denied")
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(sampleSummary(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Errors: 1")
	assert.Contains(t, string(data), "src/c.ts")

	clean := sampleSummary()
	clean.Results = clean.Results[:2]
	path, err = WriteErrorLog(clean, dir)
	require.NoError(t, err)
	assert.Empty(t, path)
}
