package dieselcore

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// ErrLoaderFailure is returned when the graphics library cannot be loaded.
var ErrLoaderFailure = errors.New("unable to load the Vulkan library")

// ErrContextDestroyed is returned by shader calls on a destroyed Context.
var ErrContextDestroyed = errors.New("context already destroyed")

// LoaderError carries the loader's own failure. It matches ErrLoaderFailure.
type LoaderError struct {
	Err error
}

func (e *LoaderError) Error() string {
	return ErrLoaderFailure.Error() + ": " + e.Err.Error()
}

func (e *LoaderError) Unwrap() error { return e.Err }

func (e *LoaderError) Is(target error) bool {
	return target == ErrLoaderFailure
}

var (
	ErrShaderDuplicate     = errors.New("duplicated shader")
	ErrShaderInvalidKind   = errors.New("invalid shader kind")
	ErrShaderIO            = errors.New("shader source unreadable")
	ErrShaderCompileFailed = errors.New("shader compilation failed")
)

// ErrNoSuitableDevice is the reason carried when no physical device passes
// every filter.
var ErrNoSuitableDevice = errors.New("no suitable device")

// InstanceCreationError reports a missing required layer or extension, or an
// instance rejected by the driver.
type InstanceCreationError struct {
	Reason string
	Err    error
}

func (e *InstanceCreationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("instance creation failed: %s: %v", e.Reason, e.Err)
	}
	return "instance creation failed: " + e.Reason
}

func (e *InstanceCreationError) Unwrap() error { return e.Err }

// DeviceCreationError reports that no physical device survived selection or
// that the driver rejected the logical device.
type DeviceCreationError struct {
	Reason string
	Err    error
}

func (e *DeviceCreationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("device creation failed: %s: %v", e.Reason, e.Err)
	}
	return "device creation failed: " + e.Reason
}

func (e *DeviceCreationError) Unwrap() error { return e.Err }

// APIError wraps a failed driver call with its result code. Result is the
// driver's description of Code.
type APIError struct {
	Call   string
	Code   int32
	Result string
}

func NewAPIError(call string, code int32, result string) error {
	return &APIError{Call: call, Code: code, Result: result}
}

func (e *APIError) Error() string {
	if e.Result == "" {
		return fmt.Sprintf("%s: vulkan result %d", e.Call, e.Code)
	}
	return fmt.Sprintf("%s: %s (%d)", e.Call, e.Result, e.Code)
}

// ShaderErrorKind classifies a failed shader load.
type ShaderErrorKind int

const (
	ShaderDuplicate ShaderErrorKind = iota
	ShaderInvalidKind
	ShaderIO
	ShaderCompileFailed
)

func (k ShaderErrorKind) sentinel() error {
	switch k {
	case ShaderDuplicate:
		return ErrShaderDuplicate
	case ShaderInvalidKind:
		return ErrShaderInvalidKind
	case ShaderIO:
		return ErrShaderIO
	default:
		return ErrShaderCompileFailed
	}
}

type ShaderError struct {
	Kind   ShaderErrorKind
	Path   string
	Detail string
	Err    error
}

func (e *ShaderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Path)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShaderError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind, so callers can test with
// errors.Is(err, ErrShaderDuplicate).
func (e *ShaderError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Fatal runs the finalizers, prints err to stderr and exits the process.
// It is meant for the application shell only; library code returns errors.
func Fatal(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	fmt.Fprintf(os.Stderr, "FATAL: %+v\n", err)
	os.Exit(1)
}
