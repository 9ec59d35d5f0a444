package dieselcore

import (
	"io"

	"github.com/andewx/dieselcore/logging"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// EngineOptions selects the operating profile and where logs go.
type EngineOptions struct {
	Profile      logging.Profile
	LogDirectory string
	LogFile      string
	Stdout       io.Writer

	// Compiler overrides the shader compiler. Nil selects NagaCompiler.
	Compiler ShaderCompiler
}

// Engine pairs the log sink with the rendering context built on it.
type Engine struct {
	logging *logging.Logging
	context *Context
}

// NewEngine opens the engine log for the profile and creates the context
// against window.
func NewEngine(loader Loader, window Window, opts EngineOptions) (*Engine, error) {
	logs, err := logging.New(logging.Options{
		Profile:   opts.Profile,
		Directory: opts.LogDirectory,
		File:      opts.LogFile,
		Stdout:    opts.Stdout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "logging")
	}

	defer logging.LogPanic(logs.Logger)

	cfg := DefaultConfig(opts.Profile)
	cfg.Logger = logs.Logger
	cfg.Compiler = opts.Compiler

	logs.Logger.Info("Initializing renderer.")
	ctx, err := NewContext(loader, window, cfg)
	if err != nil {
		logs.Logger.Error("Failed to initialize renderer.", slog.Any("error", err))
		logs.Close()
		return nil, err
	}
	return &Engine{
		logging: logs,
		context: ctx,
	}, nil
}

func (e *Engine) Context() *Context {
	return e.context
}

func (e *Engine) Logger() *slog.Logger {
	return e.logging.Logger
}

// Close destroys the context and then closes the log file.
func (e *Engine) Close() error {
	err := e.context.Destroy()
	if cerr := e.logging.Close(); err == nil {
		err = cerr
	}
	return err
}
