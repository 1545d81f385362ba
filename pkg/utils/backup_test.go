package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupMirrorsSourceTree(t *testing.T) {
	root := t.TempDir()
	backups := filepath.Join(t.TempDir(), "backups")
	src := filepath.Join(root, "components", "Header.tsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("  a: 1\n  b: 2\n"), 0o640))

	bm := NewBackupManager(backups, root, false)
	bm.now = func() time.Time { return time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC) }

	path, err := bm.Backup(src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(backups, "components"), filepath.Dir(path))
	assert.Regexp(t, regexp.MustCompile(`^Header\.tsx\.20240115_143022_[0-9a-f]{8}\.bak$`), filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "  a: 1\n  b: 2\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	// A second backup within the same second does not overwrite the first.
	again, err := bm.Backup(src)
	require.NoError(t, err)
	assert.NotEqual(t, path, again)
}

func TestBackupDateSubdirs(t *testing.T) {
	bm := NewBackupManager("backups", "src", true)
	now := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	path := bm.getBackupPath(filepath.Join("src", "lessons", "a.ts"), now)
	assert.Equal(t, filepath.Join("backups", "2024", "01", "05", "lessons"), filepath.Dir(path))

	// Files outside the root keep only their name.
	path = bm.getBackupPath(filepath.Join("elsewhere", "b.ts"), now)
	assert.Equal(t, filepath.Join("backups", "2024", "01", "05"), filepath.Dir(path))
}

func TestBackupMissingSource(t *testing.T) {
	bm := NewBackupManager(t.TempDir(), t.TempDir(), false)
	_, err := bm.Backup(filepath.Join(t.TempDir(), "missing.ts"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateBackupFileName(t *testing.T) {
	name := GenerateBackupFileName("{name}-{date}", map[string]string{"name": "a.ts"})
	assert.Regexp(t, regexp.MustCompile(`^a\.ts-\d{8}\.bak$`), name)

	name = GenerateBackupFileName("{name}.{uuid}.bak", map[string]string{"name": "b.ts"})
	assert.Regexp(t, regexp.MustCompile(`^b\.ts\.[0-9a-f-]{36}\.bak$`), name)
}

func TestCleanOldBackups(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "2023", "a.ts.20230101_000000_aaaaaaaa.bak")
	fresh := filepath.Join(dir, "b.ts.20240101_000000_bbbbbbbb.bak")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(other, past, past))

	removed, err := CleanOldBackups(dir, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other, "only backup files are removed")

	removed, err = CleanOldBackups(filepath.Join(dir, "missing"), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
