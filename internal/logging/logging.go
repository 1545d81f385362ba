// Package logging builds the zap logger shared by the commands, the rewriter
// and the watcher.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level names accepted by New and SetLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger is the logging interface used across the tool.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
}

// New returns a console logger at the given level writing to stderr and, when
// logFile is not empty, appending to that file as well. The returned cleanup
// function flushes and closes the file.
func New(level, logFile string) (*zap.SugaredLogger, func(), error) {
	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	SetLevel(atom, level)

	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), atom),
	}

	var file *os.File
	var buffered *zapcore.BufferedWriteSyncer
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		buffered = &zapcore.BufferedWriteSyncer{WS: zapcore.AddSync(f)}
		cores = append(cores, zapcore.NewCore(encoder, buffered, atom))
	}

	logger := zap.New(zapcore.NewTee(cores...)).Sugar()
	// cleanup must run for the log file to receive buffered entries.
	cleanup := func() {
		_ = logger.Sync()
		if buffered != nil {
			_ = buffered.Stop()
		}
		if file != nil {
			_ = file.Close()
		}
	}
	return logger, cleanup, nil
}

// SetLevel sets atom to the named level. Unknown names fall back to info.
func SetLevel(atom zap.AtomicLevel, level string) {
	switch level {
	case LevelDebug:
		atom.SetLevel(zapcore.DebugLevel)
	case LevelWarn:
		atom.SetLevel(zapcore.WarnLevel)
	case LevelError:
		atom.SetLevel(zapcore.ErrorLevel)
	default:
		atom.SetLevel(zapcore.InfoLevel)
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return zap.NewNop().Sugar()
}
