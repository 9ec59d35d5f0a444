package dieselcore

import (
	"github.com/andewx/dieselcore/logging"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// ApplicationIdentity names an application or engine for the driver.
type ApplicationIdentity struct {
	Name    string
	Version Version
}

func (a ApplicationIdentity) String() string {
	return a.Name + " " + versionString(a.Version)
}

var (
	DefaultApplication = ApplicationIdentity{Name: "Preparation", Version: MakeVersion(0, 1, 0)}
	DefaultEngine      = ApplicationIdentity{Name: "No Engine", Version: MakeVersion(0, 1, 0)}

	// DefaultAPIVersion is also the minimum: dynamic rendering is core in 1.3.
	DefaultAPIVersion = MakeVersion(1, 3, 0)
)

var ErrInvalidConfig = errors.New("invalid context configuration")

// Config carries the startup choices of a Context.
type Config struct {
	Profile     logging.Profile
	Application ApplicationIdentity
	Engine      ApplicationIdentity
	APIVersion  Version
	Logger      *slog.Logger

	// Compiler turns shader sources into SPIR-V. Nil selects NagaCompiler.
	Compiler ShaderCompiler
}

// DefaultConfig returns the engine's fixed identity and API version for the
// given profile.
func DefaultConfig(profile logging.Profile) Config {
	return Config{
		Profile:     profile,
		Application: DefaultApplication,
		Engine:      DefaultEngine,
		APIVersion:  DefaultAPIVersion,
	}
}

func (c Config) Validate() error {
	if !c.Profile.Valid() {
		return errors.Wrap(ErrInvalidConfig, "exactly one operating profile must be selected")
	}
	if c.APIVersion < DefaultAPIVersion {
		return errors.Wrapf(ErrInvalidConfig, "api version %s is below %s", versionString(c.APIVersion), versionString(DefaultAPIVersion))
	}
	if c.Application.Name == "" || c.Engine.Name == "" {
		return errors.Wrap(ErrInvalidConfig, "application and engine names are required")
	}
	return nil
}

// requiredLayers lists the layers demanded at instance and device level.
func (c Config) requiredLayers() []string {
	if c.Profile.IsDevelopment() {
		return []string{ValidationLayer}
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	return logging.OrDiscard(c.Logger)
}

func (c Config) compiler() ShaderCompiler {
	if c.Compiler != nil {
		return c.Compiler
	}
	return NewNagaCompiler(c.APIVersion, c.Profile.IsDevelopment())
}
