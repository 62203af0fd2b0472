package exi

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger atomic.Pointer[zap.Logger]
	nop    = zap.NewNop()
)

// Logger returns the package logger.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

// SetLogger replaces the package logger. A nil logger restores the no-op default.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

var trace atomic.Bool

// SetTrace turns on per-event debug logging of grammar walks.
func SetTrace(on bool) {
	trace.Store(on)
}

func debugf(format string, args ...any) {
	if trace.Load() {
		Logger().Sugar().Debugf(format, args...)
	}
}
