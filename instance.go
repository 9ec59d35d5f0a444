package dieselcore

import (
	"golang.org/x/exp/slog"
)

// CoreInstance owns the API instance created from the negotiated layers and
// extensions.
type CoreInstance struct {
	driver      Driver
	handle      Instance
	application ApplicationIdentity
	engine      ApplicationIdentity
	apiVersion  Version
	layers      []string
	extensions  []string
}

// NewCoreInstance negotiates instance layers and extensions and creates the
// instance. A missing required name is fatal.
func NewCoreInstance(driver Driver, window Window, cfg Config) (*CoreInstance, error) {
	logger := cfg.logger()
	logger.Debug("Creating Application Information.")

	logger.Debug("Checking for Instance Layers requirement.")
	layers := cfg.requiredLayers()
	if len(layers) > 0 {
		available, err := driver.InstanceLayers()
		if err != nil {
			return nil, &InstanceCreationError{Reason: "unable to enumerate instance layers", Err: err}
		}
		support := CheckSupport(layers, available)
		if !support.Supported {
			logger.Debug(support.Report("Failed to find required Layers of Instance"))
			return nil, &InstanceCreationError{Reason: "required layers are not present for the Vulkan instance"}
		}
	}

	logger.Debug("Checking for Instance Extensions requirement.")
	extensions := instanceExtensions(window, cfg)
	available, err := driver.InstanceExtensions()
	if err != nil {
		return nil, &InstanceCreationError{Reason: "unable to enumerate instance extensions", Err: err}
	}
	support := CheckSupport(extensions, available)
	if !support.Supported {
		logger.Debug(support.Report("Failed to find required Extensions of Instance"))
		return nil, &InstanceCreationError{Reason: "required extensions are not present for the Vulkan instance"}
	}

	logger.Debug("Creating an Instance.")
	handle, err := driver.CreateInstance(InstanceInfo{
		ApplicationName:    cfg.Application.Name,
		ApplicationVersion: cfg.Application.Version,
		EngineName:         cfg.Engine.Name,
		EngineVersion:      cfg.Engine.Version,
		APIVersion:         cfg.APIVersion,
		Layers:             layers,
		Extensions:         extensions,
	})
	if err != nil {
		return nil, &InstanceCreationError{Reason: "driver rejected the instance", Err: err}
	}

	core := &CoreInstance{
		driver:      driver,
		handle:      handle,
		application: cfg.Application,
		engine:      cfg.Engine,
		apiVersion:  cfg.APIVersion,
		layers:      layers,
		extensions:  extensions,
	}
	core.logMetadata(logger, cfg.Profile.IsDevelopment())
	return core, nil
}

// instanceExtensions is the window's presentation extensions plus the debug
// report extension in the development profile.
func instanceExtensions(window Window, cfg Config) []string {
	required := window.GetRequiredInstanceExtensions()
	if cfg.Profile.IsDevelopment() {
		return MergeNames(required, []string{DebugReportExtension})
	}
	return MergeNames(required)
}

func (core *CoreInstance) logMetadata(logger *slog.Logger, withLayers bool) {
	s := newSummary("Created an Instance.")
	s.section("Application Info")
	s.field("Application Name", core.application.Name)
	s.field("Application Version", versionString(core.application.Version))
	s.field("Engine Name", core.engine.Name)
	s.field("Engine Version", versionString(core.engine.Version))
	s.field("Vulkan API", versionString(core.apiVersion))
	if withLayers {
		s.list("Layers", core.layers)
	}
	s.list("Extensions", core.extensions)
	logger.Debug(s.String(),
		slog.String("application", core.application.String()),
		slog.String("engine", core.engine.String()),
		slog.Any("layers", core.layers),
		slog.Any("extensions", core.extensions))
}

func (core *CoreInstance) Handle() Instance {
	return core.handle
}

func (core *CoreInstance) APIVersion() Version {
	return core.apiVersion
}

func (core *CoreInstance) Layers() []string {
	return core.layers
}

func (core *CoreInstance) Extensions() []string {
	return core.extensions
}

func (core *CoreInstance) Destroy() {
	if core == nil || core.handle == 0 {
		return
	}
	core.driver.DestroyInstance(core.handle)
	core.handle = 0
}
