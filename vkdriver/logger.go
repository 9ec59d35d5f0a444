package vkdriver

import (
	"sync/atomic"

	"github.com/andewx/dieselcore/logging"
	"golang.org/x/exp/slog"
)

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(logging.Discard())
}

// SetLogger sets the logger used for loader and driver diagnostics. Nil
// restores the silent default.
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(logging.OrDiscard(l))
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}
