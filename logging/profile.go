package logging

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// Profile is the operating profile the engine was started with. It gates
// validation layers, the debug messenger and the minimum log severity.
type Profile int

const (
	// Invalid is the zero value and never a valid operating profile.
	Invalid Profile = iota
	Development
	Editor
	Shipping
)

var (
	ErrNoProfile       = errors.New("no operating profile selected")
	ErrProfileConflict = errors.New("more than one operating profile selected")
	ErrUnknownProfile  = errors.New("unknown operating profile")
)

func (p Profile) String() string {
	switch p {
	case Development:
		return "development"
	case Editor:
		return "editor"
	case Shipping:
		return "shipping"
	default:
		return "invalid"
	}
}

// Tag is the short upper-case name stamped on every log record.
func (p Profile) Tag() string {
	switch p {
	case Development:
		return "DEV"
	case Editor:
		return "EDITOR"
	case Shipping:
		return "SHIPPING"
	default:
		return "INVALID"
	}
}

// Level is the minimum severity emitted under the profile.
func (p Profile) Level() slog.Level {
	switch p {
	case Development:
		return slog.LevelDebug
	case Editor:
		return slog.LevelInfo
	default:
		return slog.LevelError
	}
}

func (p Profile) Valid() bool {
	return p == Development || p == Editor || p == Shipping
}

// IsDevelopment reports whether validation layers and the debug messenger
// should be enabled.
func (p Profile) IsDevelopment() bool {
	return p == Development
}

// ProfileFromFlags resolves three mutually exclusive switches into a profile.
// Exactly one switch must be set.
func ProfileFromFlags(dev, editor, shipping bool) (Profile, error) {
	selected := Invalid
	count := 0
	if dev {
		selected = Development
		count++
	}
	if editor {
		selected = Editor
		count++
	}
	if shipping {
		selected = Shipping
		count++
	}
	switch count {
	case 0:
		return Invalid, ErrNoProfile
	case 1:
		return selected, nil
	default:
		return Invalid, errors.Wrapf(ErrProfileConflict, "dev=%t editor=%t shipping=%t", dev, editor, shipping)
	}
}

// ParseProfile accepts the long or short profile name, case-insensitive.
func ParseProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dev", "development":
		return Development, nil
	case "editor":
		return Editor, nil
	case "shipping", "ship", "release":
		return Shipping, nil
	case "":
		return Invalid, ErrNoProfile
	default:
		return Invalid, errors.Wrapf(ErrUnknownProfile, "%q", name)
	}
}
