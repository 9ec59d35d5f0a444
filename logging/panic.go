package logging

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"golang.org/x/exp/slog"
)

// LogPanic records a panic in progress on logger and panics again with the
// same value. It must be deferred directly:
//
//	defer logging.LogPanic(logger)
func LogPanic(logger *slog.Logger) {
	r := recover()
	if r == nil {
		return
	}
	OrDiscard(logger).Error("Panic.",
		slog.String("message", fmt.Sprint(r)),
		slog.String("location", panicLocation()),
		slog.String("stack", string(debug.Stack())))
	panic(r)
}

// panicLocation returns file:line of the first frame outside the runtime
// below runtime.gopanic.
func panicLocation() string {
	pcs := make([]uintptr, 64)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])
	panicking := false
	for {
		frame, more := frames.Next()
		switch {
		case frame.Function == "runtime.gopanic":
			panicking = true
		case panicking && !strings.HasPrefix(frame.Function, "runtime."):
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return "unknown"
		}
	}
}
