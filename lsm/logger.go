package lsm

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the store's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs l as the store's logger, replacing the default or any
// previously installed logger. Not safe to call concurrently with store
// activity.
func SetLogger(l *zap.Logger) {
	logger = l
}
