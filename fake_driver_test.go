package dieselcore

import (
	"github.com/pkg/errors"
)

var errFake = errors.New("fake driver failure")

// fakeGPU describes one physical device as the fake driver reports it.
type fakeGPU struct {
	props      PhysicalDeviceProperties
	families   []QueueFamilyProperties
	present    map[uint32]bool
	formats    []SurfaceFormat
	modes      []PresentMode
	layers     []string
	extensions []string

	presentErr    error
	formatsErr    error
	modesErr      error
	layersErr     error
	extensionsErr error
}

// suitableGPU passes every selection filter.
func suitableGPU(name string, typ PhysicalDeviceType) *fakeGPU {
	return &fakeGPU{
		props: PhysicalDeviceProperties{Name: name, Type: typ},
		families: []QueueFamilyProperties{
			{Flags: QueueGraphics | QueueCompute | QueueTransfer, Count: 2},
		},
		present:    map[uint32]bool{0: true},
		formats:    []SurfaceFormat{{Format: FormatB8G8R8A8Srgb, ColorSpace: ColorSpaceSrgbNonlinear}},
		modes:      []PresentMode{PresentModeMailbox, PresentModeFifo},
		layers:     []string{ValidationLayer},
		extensions: []string{SwapchainExtension},
	}
}

type fakeWindow struct {
	extensions []string
}

func (w fakeWindow) GetRequiredInstanceExtensions() []string {
	return w.extensions
}

func newFakeWindow() fakeWindow {
	return fakeWindow{extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}}
}

// fakeDriver records every call in order and tracks live objects so tests
// can assert ordering, leaks and double destruction.
type fakeDriver struct {
	instanceLayers     []string
	instanceExtensions []string
	gpus               []*fakeGPU

	// failOn makes the nth call (1-based) of the named method fail.
	failOn map[string]int
	counts map[string]int

	calls     []string
	next      uint64
	live      map[uint64]string
	destroyed map[uint64]int

	instanceInfo  InstanceInfo
	deviceInfo    DeviceInfo
	deviceGPU     PhysicalDevice
	debugCallback DebugCallback
	shaderCode    [][]byte
	fenceSignaled []bool
	released      int
}

func newFakeDriver(gpus ...*fakeGPU) *fakeDriver {
	return &fakeDriver{
		instanceLayers:     []string{"VK_LAYER_MESA_device_select", ValidationLayer},
		instanceExtensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface", DebugReportExtension},
		gpus:               gpus,
		failOn:             make(map[string]int),
		counts:             make(map[string]int),
		live:               make(map[uint64]string),
		destroyed:          make(map[uint64]int),
	}
}

func (d *fakeDriver) loader() Loader {
	return func() (Driver, error) { return d, nil }
}

// call records name and reports whether it must fail.
func (d *fakeDriver) call(name string) error {
	d.calls = append(d.calls, name)
	d.counts[name]++
	if n, ok := d.failOn[name]; ok && n == d.counts[name] {
		return NewAPIError(name, -3, "vulkan error: initialization failed")
	}
	return nil
}

func (d *fakeDriver) create(kind string) uint64 {
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *fakeDriver) destroy(name string, h uint64) {
	d.calls = append(d.calls, name)
	d.counts[name]++
	d.destroyed[h]++
	delete(d.live, h)
}

func (d *fakeDriver) called(name string) int {
	return d.counts[name]
}

// index returns the position of the first call to name, or -1.
func (d *fakeDriver) index(name string) int {
	for i, c := range d.calls {
		if c == name {
			return i
		}
	}
	return -1
}

func (d *fakeDriver) gpu(h PhysicalDevice) *fakeGPU {
	return d.gpus[int(h)-1]
}

func (d *fakeDriver) InstanceLayers() ([]string, error) {
	if err := d.call("InstanceLayers"); err != nil {
		return nil, err
	}
	return d.instanceLayers, nil
}

func (d *fakeDriver) InstanceExtensions() ([]string, error) {
	if err := d.call("InstanceExtensions"); err != nil {
		return nil, err
	}
	return d.instanceExtensions, nil
}

func (d *fakeDriver) CreateInstance(info InstanceInfo) (Instance, error) {
	if err := d.call("CreateInstance"); err != nil {
		return 0, err
	}
	d.instanceInfo = info
	return Instance(d.create("instance")), nil
}

func (d *fakeDriver) DestroyInstance(instance Instance) {
	d.destroy("DestroyInstance", uint64(instance))
}

func (d *fakeDriver) CreateDebugMessenger(instance Instance, callback DebugCallback) (DebugMessenger, error) {
	if err := d.call("CreateDebugMessenger"); err != nil {
		return 0, err
	}
	d.debugCallback = callback
	return DebugMessenger(d.create("debug")), nil
}

func (d *fakeDriver) DestroyDebugMessenger(instance Instance, messenger DebugMessenger) {
	d.destroy("DestroyDebugMessenger", uint64(messenger))
}

func (d *fakeDriver) CreateSurface(instance Instance, window Window) (Surface, error) {
	if err := d.call("CreateSurface"); err != nil {
		return 0, err
	}
	return Surface(d.create("surface")), nil
}

func (d *fakeDriver) DestroySurface(instance Instance, surface Surface) {
	d.destroy("DestroySurface", uint64(surface))
}

func (d *fakeDriver) PhysicalDevices(instance Instance) ([]PhysicalDevice, error) {
	if err := d.call("PhysicalDevices"); err != nil {
		return nil, err
	}
	handles := make([]PhysicalDevice, len(d.gpus))
	for i := range d.gpus {
		handles[i] = PhysicalDevice(i + 1)
	}
	return handles, nil
}

func (d *fakeDriver) PhysicalDeviceProperties(gpu PhysicalDevice) PhysicalDeviceProperties {
	d.calls = append(d.calls, "PhysicalDeviceProperties")
	return d.gpu(gpu).props
}

func (d *fakeDriver) QueueFamilies(gpu PhysicalDevice) []QueueFamilyProperties {
	d.calls = append(d.calls, "QueueFamilies")
	return d.gpu(gpu).families
}

func (d *fakeDriver) SurfaceSupport(gpu PhysicalDevice, family uint32, surface Surface) (bool, error) {
	d.calls = append(d.calls, "SurfaceSupport")
	g := d.gpu(gpu)
	if g.presentErr != nil {
		return false, g.presentErr
	}
	return g.present[family], nil
}

func (d *fakeDriver) SurfaceFormats(gpu PhysicalDevice, surface Surface) ([]SurfaceFormat, error) {
	d.calls = append(d.calls, "SurfaceFormats")
	g := d.gpu(gpu)
	return g.formats, g.formatsErr
}

func (d *fakeDriver) SurfacePresentModes(gpu PhysicalDevice, surface Surface) ([]PresentMode, error) {
	d.calls = append(d.calls, "SurfacePresentModes")
	g := d.gpu(gpu)
	return g.modes, g.modesErr
}

func (d *fakeDriver) DeviceLayers(gpu PhysicalDevice) ([]string, error) {
	d.calls = append(d.calls, "DeviceLayers")
	g := d.gpu(gpu)
	return g.layers, g.layersErr
}

func (d *fakeDriver) DeviceExtensions(gpu PhysicalDevice) ([]string, error) {
	d.calls = append(d.calls, "DeviceExtensions")
	g := d.gpu(gpu)
	return g.extensions, g.extensionsErr
}

func (d *fakeDriver) CreateDevice(gpu PhysicalDevice, info DeviceInfo) (Device, error) {
	if err := d.call("CreateDevice"); err != nil {
		return 0, err
	}
	d.deviceGPU = gpu
	d.deviceInfo = info
	return Device(d.create("device")), nil
}

func (d *fakeDriver) DeviceQueue(device Device, family, index uint32) Queue {
	d.calls = append(d.calls, "DeviceQueue")
	// Queues are identified by family and index, like the hardware queue.
	return Queue(1000 + uint64(family)*16 + uint64(index))
}

func (d *fakeDriver) DeviceWaitIdle(device Device) error {
	return d.call("DeviceWaitIdle")
}

func (d *fakeDriver) DestroyDevice(device Device) {
	d.destroy("DestroyDevice", uint64(device))
}

func (d *fakeDriver) CreateShaderModule(device Device, code []byte) (ShaderModule, error) {
	if err := d.call("CreateShaderModule"); err != nil {
		return 0, err
	}
	d.shaderCode = append(d.shaderCode, code)
	return ShaderModule(d.create("shader")), nil
}

func (d *fakeDriver) DestroyShaderModule(device Device, module ShaderModule) {
	d.destroy("DestroyShaderModule", uint64(module))
}

func (d *fakeDriver) CreateSemaphore(device Device) (Semaphore, error) {
	if err := d.call("CreateSemaphore"); err != nil {
		return 0, err
	}
	return Semaphore(d.create("semaphore")), nil
}

func (d *fakeDriver) DestroySemaphore(device Device, semaphore Semaphore) {
	d.destroy("DestroySemaphore", uint64(semaphore))
}

func (d *fakeDriver) CreateFence(device Device, signaled bool) (Fence, error) {
	if err := d.call("CreateFence"); err != nil {
		return 0, err
	}
	d.fenceSignaled = append(d.fenceSignaled, signaled)
	return Fence(d.create("fence")), nil
}

func (d *fakeDriver) DestroyFence(device Device, fence Fence) {
	d.destroy("DestroyFence", uint64(fence))
}

func (d *fakeDriver) Release() {
	d.calls = append(d.calls, "Release")
	d.released++
}

// fakeCompiler returns a fixed two-word module or err.
type fakeCompiler struct {
	err     error
	sources []ShaderSource
}

func (c *fakeCompiler) Compile(src ShaderSource) ([]byte, error) {
	c.sources = append(c.sources, src)
	if c.err != nil {
		return nil, c.err
	}
	return []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}, nil
}
