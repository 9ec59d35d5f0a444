package dieselcore

import (
	"fmt"

	"golang.org/x/exp/slog"
)

// DefaultQueuePriority is used for both queues requested from the chosen
// family.
const DefaultQueuePriority = float32(1.0)

// Candidate is a physical device that passed every selection filter.
type Candidate struct {
	Device        PhysicalDevice
	Properties    PhysicalDeviceProperties
	QueueFamily   uint32
	SurfaceFormat SurfaceFormat
	PresentModes  *PresentModes
}

// Rank orders candidates by device type: discrete, then integrated, then
// everything else.
func (c *Candidate) Rank() int {
	return deviceTypeRank(c.Properties.Type)
}

func deviceTypeRank(t PhysicalDeviceType) int {
	switch t {
	case DeviceTypeDiscreteGPU:
		return 2
	case DeviceTypeIntegratedGPU:
		return 1
	default:
		return 0
	}
}

// deviceSelector carries what every filter needs while enumerating.
type deviceSelector struct {
	driver     Driver
	surface    Surface
	layers     []string
	extensions []string
	logger     *slog.Logger
}

// SelectPhysicalDevice enumerates the instance's physical devices, drops every
// device failing a filter and returns the best ranked survivor. The first
// enumerated device wins a tie.
func SelectPhysicalDevice(driver Driver, instance Instance, surface Surface, layers []string, logger *slog.Logger) (*Candidate, error) {
	logger.Debug("Finding suitable device.")
	gpus, err := driver.PhysicalDevices(instance)
	if err != nil {
		return nil, &DeviceCreationError{Reason: "unable to enumerate physical devices", Err: err}
	}

	sel := &deviceSelector{
		driver:     driver,
		surface:    surface,
		layers:     layers,
		extensions: []string{SwapchainExtension},
		logger:     logger,
	}
	var best *Candidate
	for _, gpu := range gpus {
		candidate, ok := sel.evaluate(gpu)
		if !ok {
			continue
		}
		if best == nil || candidate.Rank() > best.Rank() {
			best = candidate
		}
	}
	if best == nil {
		return nil, &DeviceCreationError{Reason: "unable to find suitable device", Err: ErrNoSuitableDevice}
	}
	return best, nil
}

// evaluate runs the filters in order and stops at the first failure.
func (sel *deviceSelector) evaluate(gpu PhysicalDevice) (*Candidate, bool) {
	driver := sel.driver
	props := driver.PhysicalDeviceProperties(gpu)
	logger := sel.logger.With(slog.String("gpu", props.Name))
	logger.Debug(fmt.Sprintf("Checking for compatibility GPU: %s.", props.Name))

	logger.Debug("Checking for Queue Families requirements.")
	family, ok, err := FindQueueFamily(driver, gpu, sel.surface)
	if err != nil {
		logger.Debug("Unable to query surface support.", slog.Any("error", err))
		return nil, false
	}
	if !ok {
		logger.Debug("Unable to find required Queues.")
		return nil, false
	}

	logger.Debug("Checking for Surface Format requirements.")
	formats, err := driver.SurfaceFormats(gpu, sel.surface)
	if err != nil {
		logger.Debug("Unable to query surface formats.", slog.Any("error", err))
		return nil, false
	}
	format, ok := ChooseSurfaceFormat(formats)
	if !ok {
		logger.Debug("Unable to find required Surface Format (RGBA8, SRGB Nonlinear).")
		return nil, false
	}

	logger.Debug("Checking for Present Modes requirements.")
	modes, err := driver.SurfacePresentModes(gpu, sel.surface)
	if err != nil {
		logger.Debug("Unable to query present modes.", slog.Any("error", err))
		return nil, false
	}
	presentModes, ok := NewPresentModes(modes)
	if !ok {
		logger.Debug("Unable to find required Present Modes (MAILBOX, FIFO).")
		return nil, false
	}

	if len(sel.layers) > 0 {
		logger.Debug("Checking for Device Layers requirement.")
		available, err := driver.DeviceLayers(gpu)
		if err != nil {
			logger.Debug("Unable to enumerate device layers.", slog.Any("error", err))
			return nil, false
		}
		if support := CheckSupport(sel.layers, available); !support.Supported {
			logger.Debug(support.Report("Failed to find required Layers of Device - " + props.Name))
			return nil, false
		}
	}

	logger.Debug("Checking for Device Extensions requirement.")
	available, err := driver.DeviceExtensions(gpu)
	if err != nil {
		logger.Debug("Unable to enumerate device extensions.", slog.Any("error", err))
		return nil, false
	}
	if support := CheckSupport(sel.extensions, available); !support.Supported {
		logger.Debug(support.Report("Failed to find required Extensions of Device - " + props.Name))
		return nil, false
	}

	return &Candidate{
		Device:        gpu,
		Properties:    props,
		QueueFamily:   family,
		SurfaceFormat: format,
		PresentModes:  presentModes,
	}, true
}

// CoreDevice owns the logical device and its queues. It is created once per
// context and destroyed after every object allocated from it.
type CoreDevice struct {
	driver        Driver
	gpu           PhysicalDevice
	handle        Device
	properties    PhysicalDeviceProperties
	queueFamily   uint32
	surfaceFormat SurfaceFormat
	presentModes  *PresentModes
	layers        []string
	extensions    []string
	features      []string

	// graphicsQueue and transferQueue are the same hardware queue, index 0
	// of the chosen family.
	graphicsQueue Queue
	transferQueue Queue
}

// NewCoreDevice selects a physical device and creates the logical device on
// it with dynamic rendering enabled.
func NewCoreDevice(driver Driver, instance *CoreInstance, surface *CoreSurface, cfg Config) (*CoreDevice, error) {
	logger := cfg.logger()
	layers := cfg.requiredLayers()
	candidate, err := SelectPhysicalDevice(driver, instance.Handle(), surface.Handle(), layers, logger)
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Found suitable GPU: %s.", candidate.Properties.Name),
		slog.String("type", candidate.Properties.Type.String()))

	logger.Debug("Creating Vulkan Device.")
	extensions := []string{SwapchainExtension}
	// Two priorities for what is one aliased queue; see graphicsQueue.
	handle, err := driver.CreateDevice(candidate.Device, DeviceInfo{
		QueueFamily:      candidate.QueueFamily,
		QueuePriorities:  []float32{DefaultQueuePriority, DefaultQueuePriority},
		Layers:           layers,
		Extensions:       extensions,
		DynamicRendering: true,
	})
	if err != nil {
		return nil, &DeviceCreationError{Reason: "driver rejected the logical device", Err: err}
	}

	core := &CoreDevice{
		driver:        driver,
		gpu:           candidate.Device,
		handle:        handle,
		properties:    candidate.Properties,
		queueFamily:   candidate.QueueFamily,
		surfaceFormat: candidate.SurfaceFormat,
		presentModes:  candidate.PresentModes,
		layers:        layers,
		extensions:    extensions,
		features:      []string{DynamicRenderingFeature},
	}
	core.logInfo(logger, cfg.Profile.IsDevelopment())

	logger.Debug("Picking Queues of Device.")
	core.graphicsQueue = driver.DeviceQueue(handle, candidate.QueueFamily, 0)
	core.transferQueue = driver.DeviceQueue(handle, candidate.QueueFamily, 0)
	return core, nil
}

func (core *CoreDevice) logInfo(logger *slog.Logger, withLayers bool) {
	s := newSummary("Created a Device.")
	s.section("Device Info")
	s.field("Device Name", core.properties.Name)
	s.field("Device Type", core.properties.Type)
	s.field("Using Queue Family Index", core.queueFamily)
	if withLayers {
		s.list("Layers", core.layers)
	}
	s.list("Extensions", core.extensions)
	s.list("Features", core.features)
	logger.Debug(s.String(),
		slog.Int("queue_family", int(core.queueFamily)),
		slog.Any("extensions", core.extensions),
		slog.Any("features", core.features))
}

func (core *CoreDevice) Handle() Device                { return core.handle }
func (core *CoreDevice) PhysicalDevice() PhysicalDevice { return core.gpu }
func (core *CoreDevice) Name() string                  { return core.properties.Name }
func (core *CoreDevice) Type() PhysicalDeviceType      { return core.properties.Type }
func (core *CoreDevice) QueueFamily() uint32           { return core.queueFamily }
func (core *CoreDevice) GraphicsQueue() Queue          { return core.graphicsQueue }
func (core *CoreDevice) TransferQueue() Queue          { return core.transferQueue }
func (core *CoreDevice) SurfaceFormat() SurfaceFormat  { return core.surfaceFormat }
func (core *CoreDevice) PresentModes() *PresentModes   { return core.presentModes }

func (core *CoreDevice) CreateShaderModule(code []byte) (ShaderModule, error) {
	return core.driver.CreateShaderModule(core.handle, code)
}

func (core *CoreDevice) DestroyShaderModule(module ShaderModule) {
	core.driver.DestroyShaderModule(core.handle, module)
}

func (core *CoreDevice) CreateSemaphore() (Semaphore, error) {
	return core.driver.CreateSemaphore(core.handle)
}

func (core *CoreDevice) DestroySemaphore(semaphore Semaphore) {
	core.driver.DestroySemaphore(core.handle, semaphore)
}

func (core *CoreDevice) CreateFence(signaled bool) (Fence, error) {
	return core.driver.CreateFence(core.handle, signaled)
}

func (core *CoreDevice) DestroyFence(fence Fence) {
	core.driver.DestroyFence(core.handle, fence)
}

// WaitIdle blocks until the device has finished all submitted work.
func (core *CoreDevice) WaitIdle() error {
	return core.driver.DeviceWaitIdle(core.handle)
}

func (core *CoreDevice) Destroy() {
	if core == nil || core.handle == 0 {
		return
	}
	core.driver.DestroyDevice(core.handle)
	core.handle = 0
}
