// Package logging builds the engine's leveled, structured logger for one of
// the three operating profiles.
//
// Every record is written to a log file that is truncated at startup. The
// development profile additionally mirrors records to stdout.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

const (
	DefaultDirectory = "logs"
	DefaultFile      = "engine.log"
)

// Options configures New. Zero Directory and File fall back to the defaults.
type Options struct {
	Profile   Profile
	Directory string
	File      string

	// Stdout overrides the console sink used by the development profile.
	Stdout io.Writer
}

// Logging owns the file sink behind Logger. Close must be called on shutdown.
type Logging struct {
	Logger  *slog.Logger
	profile Profile
	file    *os.File
}

// New creates the log directory, truncates the log file and returns a logger
// whose minimum level follows the profile.
func New(opts Options) (*Logging, error) {
	if !opts.Profile.Valid() {
		return nil, ErrNoProfile
	}
	dir := opts.Directory
	if dir == "" {
		dir = DefaultDirectory
	}
	name := opts.File
	if name == "" {
		name = DefaultFile
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating log directory %s", dir)
	}
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", path)
	}

	handlerOpts := &slog.HandlerOptions{
		AddSource: true,
		Level:     opts.Profile.Level(),
	}
	handlers := []slog.Handler{slog.NewTextHandler(file, handlerOpts)}
	if opts.Profile.IsDevelopment() {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		handlers = append(handlers, slog.NewTextHandler(stdout, handlerOpts))
	}

	logger := slog.New(newFanout(handlers...)).With(slog.String("profile", opts.Profile.Tag()))
	return &Logging{
		Logger:  logger,
		profile: opts.Profile,
		file:    file,
	}, nil
}

func (l *Logging) Profile() Profile {
	return l.profile
}

// Close syncs and closes the log file. It is safe to call more than once.
func (l *Logging) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	if err := file.Sync(); err != nil {
		file.Close()
		return errors.Wrap(err, "syncing log file")
	}
	return errors.Wrap(file.Close(), "closing log file")
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(nopHandler{})
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
