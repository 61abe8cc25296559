// Package logger provides process-wide levelled logging.
//
// Messages are printf-style. Debug output is suppressed unless verbose mode
// is enabled with SetVerbose.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar = newDefault()
)

func newDefault() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetVerbose enables or disables debug output.
func SetVerbose(v bool) {
	if v {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	return level.Enabled(zapcore.DebugLevel)
}

// SetLogger replaces the underlying logger. Used by tests to capture output.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs at debug level.
func Debug(format string, args ...any) {
	current().Debugf(format, args...)
}

// Info logs at info level.
func Info(format string, args ...any) {
	current().Infof(format, args...)
}

// Warn logs at warn level.
func Warn(format string, args ...any) {
	current().Warnf(format, args...)
}

// Error logs at error level.
func Error(format string, args ...any) {
	current().Errorf(format, args...)
}

// Sync flushes buffered log entries.
func Sync() error {
	return current().Sync()
}
