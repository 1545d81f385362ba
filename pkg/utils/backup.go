// =============================================================================
// Comma Fixer - Backup Utility
// =============================================================================
//
// This module keeps a copy of every file before the rewriter replaces it.
//
// BACKUP LAYOUT:
//   Backups mirror the source tree below the backup directory. With date
//   subdirectories enabled they are grouped by the day of the run:
//     backups/components/Header.tsx.20240115_143022_a1b2c3d4.bak
//     backups/2024/01/15/components/Header.tsx.20240115_143022_a1b2c3d4.bak
//
// RETENTION:
//   CleanOldBackups removes backup files older than a maximum age. Only files
//   ending in ".bak" are ever removed.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BackupExt is the extension of every backup file.
const BackupExt = ".bak"

// DefaultBackupNameFormat is the file name format used by BackupManager.
const DefaultBackupNameFormat = "{name}.{timestamp}_{id}" + BackupExt

// BackupManager copies files into a backup directory before they are
// rewritten.
type BackupManager struct {
	// Dir is the backup directory.
	Dir string

	// Root is the source root. Backup paths are built from the path of a file
	// relative to Root.
	Root string

	// UseDateSubdirs groups backups under year/month/day directories.
	UseDateSubdirs bool

	// NameFormat is passed to GenerateBackupFileName.
	NameFormat string

	now func() time.Time
}

// NewBackupManager creates a BackupManager with the default name format.
func NewBackupManager(dir, root string, useDateSubdirs bool) *BackupManager {
	return &BackupManager{
		Dir:            dir,
		Root:           root,
		UseDateSubdirs: useDateSubdirs,
		NameFormat:     DefaultBackupNameFormat,
		now:            time.Now,
	}
}

// Backup copies filePath into the backup directory.
//
// PARAMETERS:
//   - filePath: The file about to be rewritten.
//
// RETURNS:
//   - The path of the backup copy.
//   - An error if the copy fails.
func (bm *BackupManager) Backup(filePath string) (string, error) {
	backupPath := bm.getBackupPath(filePath, bm.now())

	if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := copyFile(filePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", filePath, err)
	}

	return backupPath, nil
}

// getBackupPath constructs the backup path for a file.
func (bm *BackupManager) getBackupPath(filePath string, now time.Time) string {
	rel, err := filepath.Rel(bm.Root, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(filePath)
	}

	dir := bm.Dir
	if bm.UseDateSubdirs {
		dir = filepath.Join(
			dir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	format := bm.NameFormat
	if format == "" {
		format = DefaultBackupNameFormat
	}
	name := generateBackupFileName(format, now, map[string]string{"name": filepath.Base(rel)})

	return filepath.Join(dir, filepath.Dir(rel), name)
}

// GenerateBackupFileName builds a backup file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {name}      - Name of the original file
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {uuid}      - A random UUID
//               {id}        - The first 8 characters of a random UUID
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name, always ending in ".bak".
//
// EXAMPLE:
//   format: "{name}.{timestamp}_{id}.bak"
//   params: {"name": "Header.tsx"}
//   output: "Header.tsx.20240115_143022_a1b2c3d4.bak"
func GenerateBackupFileName(format string, params map[string]string) string {
	return generateBackupFileName(format, time.Now(), params)
}

func generateBackupFileName(format string, now time.Time, params map[string]string) string {
	id := uuid.NewString()

	replacements := map[string]string{
		"{uuid}":      id,
		"{id}":        id[:8],
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(result, BackupExt) {
		result += BackupExt
	}
	return result
}

// CleanOldBackups removes backup files older than maxAge.
//
// RETURNS:
//   - The number of removed files.
//   - An error if the directory cannot be walked or a file cannot be removed.
//     A missing directory is not an error.
func CleanOldBackups(backupDir string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.WalkDir(backupDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), BackupExt) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return removed, fmt.Errorf("failed to clean backups: %w", err)
	}

	return removed, nil
}

// copyFile copies src to dst, keeping the permission bits of src.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
