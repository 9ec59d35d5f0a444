package logging

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/exp/slog"
)

func panicsWith(logger *slog.Logger, value any) {
	defer LogPanic(logger)
	panic(value)
}

func TestLogPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var repanicked any
	func() {
		defer func() { repanicked = recover() }()
		panicsWith(logger, "device lost")
	}()

	if repanicked != "device lost" {
		t.Errorf("re-panicked with %v, want the original value", repanicked)
	}
	out := buf.String()
	for _, want := range []string{"level=ERROR", "message=\"device lost\"", "panic_test.go:", "panicsWith"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLogPanicWithoutPanic(t *testing.T) {
	var buf bytes.Buffer
	func() {
		defer LogPanic(slog.New(slog.NewTextHandler(&buf, nil)))
	}()
	if buf.Len() != 0 {
		t.Errorf("logged %q without a panic", buf.String())
	}
}

func TestLogPanicNilLogger(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("panic swallowed")
		}
	}()
	panicsWith(nil, 42)
}
