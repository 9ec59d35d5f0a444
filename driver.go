package dieselcore

// Opaque handles handed out by a Driver. The zero value of every handle is the
// null handle.
type (
	Instance       uint64
	Surface        uint64
	DebugMessenger uint64
	PhysicalDevice uint64
	Device         uint64
	Queue          uint64
	ShaderModule   uint64
	Semaphore      uint64
	Fence          uint64
)

// Version is a packed Vulkan version number.
type Version uint32

func MakeVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | minor<<12 | patch)
}

func (v Version) Major() uint32 { return uint32(v) >> 22 }
func (v Version) Minor() uint32 { return (uint32(v) >> 12) & 0x3ff }
func (v Version) Patch() uint32 { return uint32(v) & 0xfff }

// QueueFlags mirror VkQueueFlagBits.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 0x1
	QueueCompute  QueueFlags = 0x2
	QueueTransfer QueueFlags = 0x4
)

func (f QueueFlags) Has(bits QueueFlags) bool {
	return f&bits == bits
}

// PhysicalDeviceType mirrors VkPhysicalDeviceType.
type PhysicalDeviceType int32

const (
	DeviceTypeOther PhysicalDeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t PhysicalDeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "integrated"
	case DeviceTypeDiscreteGPU:
		return "discrete"
	case DeviceTypeVirtualGPU:
		return "virtual"
	case DeviceTypeCPU:
		return "cpu"
	default:
		return "other"
	}
}

// Format mirrors the subset of VkFormat the engine inspects.
type Format int32

const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Srgb  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50
)

// ColorSpace mirrors VkColorSpaceKHR.
type ColorSpace int32

const (
	ColorSpaceSrgbNonlinear ColorSpace = 0
)

// PresentMode mirrors VkPresentModeKHR.
type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFifo        PresentMode = 2
	PresentModeFifoRelaxed PresentMode = 3
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeFifo:
		return "fifo"
	case PresentModeFifoRelaxed:
		return "fifo-relaxed"
	default:
		return "unknown"
	}
}

// ShaderStage mirrors VkShaderStageFlagBits.
type ShaderStage uint32

const (
	StageVertex                 ShaderStage = 0x01
	StageTessellationControl    ShaderStage = 0x02
	StageTessellationEvaluation ShaderStage = 0x04
	StageGeometry               ShaderStage = 0x08
	StageFragment               ShaderStage = 0x10
	StageCompute                ShaderStage = 0x20
)

// DebugSeverity mirrors VkDebugReportFlagBitsEXT.
type DebugSeverity uint32

const (
	DebugInformation        DebugSeverity = 0x01
	DebugWarning            DebugSeverity = 0x02
	DebugPerformanceWarning DebugSeverity = 0x04
	DebugError              DebugSeverity = 0x08
	DebugDebug              DebugSeverity = 0x10
)

// DebugMessage is one diagnostic event reported by the driver.
type DebugMessage struct {
	Severity DebugSeverity

	// Category is the reporting layer prefix.
	Category string
	Code     int32
	Text     string
}

type DebugCallback func(msg DebugMessage)

type InstanceInfo struct {
	ApplicationName    string
	ApplicationVersion Version
	EngineName         string
	EngineVersion      Version
	APIVersion         Version
	Layers             []string
	Extensions         []string
}

type PhysicalDeviceProperties struct {
	Name       string
	Type       PhysicalDeviceType
	APIVersion Version
	VendorID   uint32
	DeviceID   uint32
}

type QueueFamilyProperties struct {
	Flags QueueFlags
	Count uint32
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

type DeviceInfo struct {
	QueueFamily     uint32
	QueuePriorities []float32
	Layers          []string
	Extensions      []string

	// DynamicRendering is chained through the extended features structure.
	DynamicRendering bool
}

// Driver is the low-level graphics API as seen by the context. Every call is
// a synchronous round-trip; failures carry the driver's result code as an
// *APIError.
type Driver interface {
	InstanceLayers() ([]string, error)
	InstanceExtensions() ([]string, error)
	CreateInstance(info InstanceInfo) (Instance, error)
	DestroyInstance(instance Instance)

	CreateDebugMessenger(instance Instance, callback DebugCallback) (DebugMessenger, error)
	DestroyDebugMessenger(instance Instance, messenger DebugMessenger)

	CreateSurface(instance Instance, window Window) (Surface, error)
	DestroySurface(instance Instance, surface Surface)

	PhysicalDevices(instance Instance) ([]PhysicalDevice, error)
	PhysicalDeviceProperties(gpu PhysicalDevice) PhysicalDeviceProperties
	QueueFamilies(gpu PhysicalDevice) []QueueFamilyProperties
	SurfaceSupport(gpu PhysicalDevice, family uint32, surface Surface) (bool, error)
	SurfaceFormats(gpu PhysicalDevice, surface Surface) ([]SurfaceFormat, error)
	SurfacePresentModes(gpu PhysicalDevice, surface Surface) ([]PresentMode, error)
	DeviceLayers(gpu PhysicalDevice) ([]string, error)
	DeviceExtensions(gpu PhysicalDevice) ([]string, error)

	CreateDevice(gpu PhysicalDevice, info DeviceInfo) (Device, error)
	DeviceQueue(device Device, family, index uint32) Queue
	DeviceWaitIdle(device Device) error
	DestroyDevice(device Device)

	CreateShaderModule(device Device, code []byte) (ShaderModule, error)
	DestroyShaderModule(device Device, module ShaderModule)
	CreateSemaphore(device Device) (Semaphore, error)
	DestroySemaphore(device Device, semaphore Semaphore)
	CreateFence(device Device, signaled bool) (Fence, error)
	DestroyFence(device Device, fence Fence)

	// Release unloads the API entry points. No call is valid afterwards.
	Release()
}

// Loader opens the graphics library and returns a ready Driver.
type Loader func() (Driver, error)
