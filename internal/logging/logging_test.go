package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	tests := []struct {
		name string
		want zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atom := zap.NewAtomicLevel()
			SetLevel(atom, tt.name)
			assert.Equal(t, tt.want, atom.Level())
		})
	}
}

func TestNewWritesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "commafix.log")

	logger, cleanup, err := New(LevelInfo, logFile)
	require.NoError(t, err)

	logger.Debugf("hidden %d", 1)
	logger.Infof("repaired %s", "a.ts")
	cleanup()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "repaired a.ts")
	assert.NotContains(t, string(data), "hidden")
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Infof("nothing %s", "happens")
}
