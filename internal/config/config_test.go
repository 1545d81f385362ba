package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commafix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./src", cfg.RootDir)
	assert.Equal(t, []string{".ts", ".tsx"}, cfg.Extensions)
	assert.Equal(t, []string{"**/node_modules/**", "**/.git/**"}, cfg.Exclude)
	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.True(t, *cfg.ContinueOnError)
	assert.True(t, *cfg.AtomicWrite)
	assert.True(t, *cfg.Verify)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
root_dir: ./app
extensions: [TS, ".Vue", ".ts"]
exclude: []
max_concurrency: 8
continue_on_error: false
atomic_write: false
log_level: debug
report_dir: ./reports
xlsx_report: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./app", cfg.RootDir)
	assert.Equal(t, []string{".ts", ".vue"}, cfg.Extensions)
	assert.Empty(t, cfg.Exclude, "an explicit empty exclude list is kept")
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.False(t, *cfg.ContinueOnError)
	assert.False(t, *cfg.AtomicWrite)
	assert.True(t, *cfg.Verify)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "./reports", cfg.ReportDir)
	assert.True(t, cfg.XLSXReport)
}

func TestLoadBackupSettings(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
backup_dir: ./backups
backup_date_subdirs: true
backup_max_age: 720h
`))
	require.NoError(t, err)

	assert.Equal(t, "./backups", cfg.BackupDir)
	assert.True(t, cfg.BackupDateSubdirs)
	assert.Equal(t, 30*24*time.Hour, cfg.BackupMaxAge)
	assert.Empty(t, Default().BackupDir, "backups are off by default")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "root_dir: [", "failed to parse config file"},
		{"bad level", "log_level: loud", `unknown log_level "loud"`},
		{"bad concurrency", "max_concurrency: -2", "max_concurrency must be at least 1"},
		{"bad glob", "exclude: ['a/[b']", "invalid exclude pattern"},
		{"xlsx without dir", "xlsx_report: true", "xlsx_report requires report_dir"},
		{"negative backup age", "backup_dir: ./b\nbackup_max_age: -1h", "backup_max_age must not be negative"},
		{"backup age without dir", "backup_max_age: 24h", "backup_max_age requires backup_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := LoadOrDefault(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(missing, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadOrDefault(writeConfig(t, "log_level: loud"), false)
	assert.Error(t, err, "an invalid file is never silently replaced by defaults")
}

func TestNormalizeExtensions(t *testing.T) {
	assert.Equal(t,
		[]string{".ts", ".tsx", ".js"},
		NormalizeExtensions([]string{"ts", " .TSX ", "", ".ts", "JS"}),
	)
	assert.Empty(t, NormalizeExtensions(nil))
}
