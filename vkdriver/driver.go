// Package vkdriver implements dieselcore.Driver on top of the vulkan-go
// bindings.
package vkdriver

import (
	"unsafe"

	"github.com/andewx/dieselcore"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// surfaceCreator is the part of *glfw.Window used to create the platform
// surface.
type surfaceCreator interface {
	CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (uintptr, error)
}

// Load returns a loader that initializes the bindings through procAddr,
// usually glfw.GetVulkanGetInstanceProcAddress().
func Load(procAddr unsafe.Pointer) dieselcore.Loader {
	return func() (dieselcore.Driver, error) {
		if procAddr == nil {
			return nil, errors.New("vkGetInstanceProcAddr is nil")
		}
		vk.SetGetInstanceProcAddr(procAddr)
		if err := vk.Init(); err != nil {
			return nil, errors.Wrap(err, "vulkan init")
		}
		logger().Debug("Vulkan loader initialized.")
		return newDriver(), nil
	}
}

// LoadDefault returns a loader that opens the system Vulkan library itself.
func LoadDefault() dieselcore.Loader {
	return func() (dieselcore.Driver, error) {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "locate vulkan library")
		}
		if err := vk.Init(); err != nil {
			return nil, errors.Wrap(err, "vulkan init")
		}
		logger().Debug("Vulkan loader initialized from the system library.")
		return newDriver(), nil
	}
}

// Driver translates dieselcore handles to vulkan-go objects. It is not safe
// for concurrent use.
type Driver struct {
	instances  *table[vk.Instance]
	debugs     *table[vk.DebugReportCallback]
	surfaces   *table[vk.Surface]
	gpus       *table[vk.PhysicalDevice]
	devices    *table[vk.Device]
	queues     *table[vk.Queue]
	modules    *table[vk.ShaderModule]
	semaphores *table[vk.Semaphore]
	fences     *table[vk.Fence]
	released   bool
}

var _ dieselcore.Driver = (*Driver)(nil)

func newDriver() *Driver {
	return &Driver{
		instances:  newTable[vk.Instance](),
		debugs:     newTable[vk.DebugReportCallback](),
		surfaces:   newTable[vk.Surface](),
		gpus:       newTable[vk.PhysicalDevice](),
		devices:    newTable[vk.Device](),
		queues:     newTable[vk.Queue](),
		modules:    newTable[vk.ShaderModule](),
		semaphores: newTable[vk.Semaphore](),
		fences:     newTable[vk.Fence](),
	}
}

func (d *Driver) InstanceLayers() ([]string, error) {
	var count uint32
	if err := check("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.LayerProperties, count)
	if err := check("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, list)); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, layer := range list[:count] {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

func (d *Driver) InstanceExtensions() ([]string, error) {
	var count uint32
	if err := check("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	if err := check("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &count, list)); err != nil {
		return nil, err
	}
	return extensionNames(list[:count]), nil
}

func (d *Driver) CreateInstance(info dieselcore.InstanceInfo) (dieselcore.Instance, error) {
	layers := safeStrings(info.Layers)
	extensions := safeStrings(info.Extensions)
	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   safeString(info.ApplicationName),
			ApplicationVersion: uint32(info.ApplicationVersion),
			PEngineName:        safeString(info.EngineName),
			EngineVersion:      uint32(info.EngineVersion),
			ApiVersion:         uint32(info.APIVersion),
		},
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}, nil, &instance)
	if err := check("vkCreateInstance", ret); err != nil {
		return 0, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return 0, errors.Wrap(err, "load instance functions")
	}
	return dieselcore.Instance(d.instances.put(instance)), nil
}

func (d *Driver) DestroyInstance(instance dieselcore.Instance) {
	if vi, ok := d.instances.remove(uint64(instance)); ok {
		vk.DestroyInstance(vi, nil)
	}
}

func (d *Driver) CreateDebugMessenger(instance dieselcore.Instance, callback dieselcore.DebugCallback) (dieselcore.DebugMessenger, error) {
	vi, ok := d.instances.get(uint64(instance))
	if !ok {
		return 0, errors.New("unknown instance handle")
	}
	var handle vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(vi, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportInformationBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit | vk.DebugReportErrorBit),
		PfnCallback: func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
			object uint64, location uint, messageCode int32, pLayerPrefix string,
			pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
			callback(dieselcore.DebugMessage{
				Severity: dieselcore.DebugSeverity(flags),
				Category: pLayerPrefix,
				Code:     messageCode,
				Text:     pMessage,
			})
			return vk.False
		},
	}, nil, &handle)
	if err := check("vkCreateDebugReportCallbackEXT", ret); err != nil {
		return 0, err
	}
	return dieselcore.DebugMessenger(d.debugs.put(handle)), nil
}

func (d *Driver) DestroyDebugMessenger(instance dieselcore.Instance, messenger dieselcore.DebugMessenger) {
	vi, ok := d.instances.get(uint64(instance))
	if !ok {
		return
	}
	if handle, ok := d.debugs.remove(uint64(messenger)); ok {
		vk.DestroyDebugReportCallback(vi, handle, nil)
	}
}

func (d *Driver) CreateSurface(instance dieselcore.Instance, window dieselcore.Window) (dieselcore.Surface, error) {
	vi, ok := d.instances.get(uint64(instance))
	if !ok {
		return 0, errors.New("unknown instance handle")
	}
	creator, ok := window.(surfaceCreator)
	if !ok {
		return 0, errors.Errorf("window %T cannot create a Vulkan surface", window)
	}
	ptr, err := creator.CreateWindowSurface(vi, nil)
	if err != nil {
		return 0, errors.Wrap(err, "create window surface")
	}
	surface := vk.SurfaceFromPointer(ptr)
	if surface == vk.NullSurface {
		return 0, errors.New("window returned a null surface")
	}
	return dieselcore.Surface(d.surfaces.put(surface)), nil
}

func (d *Driver) DestroySurface(instance dieselcore.Instance, surface dieselcore.Surface) {
	vi, ok := d.instances.get(uint64(instance))
	if !ok {
		return
	}
	if vs, ok := d.surfaces.remove(uint64(surface)); ok {
		vk.DestroySurface(vi, vs, nil)
	}
}

func (d *Driver) PhysicalDevices(instance dieselcore.Instance) ([]dieselcore.PhysicalDevice, error) {
	vi, ok := d.instances.get(uint64(instance))
	if !ok {
		return nil, errors.New("unknown instance handle")
	}
	var count uint32
	if err := check("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(vi, &count, nil)); err != nil {
		return nil, err
	}
	gpus := make([]vk.PhysicalDevice, count)
	if err := check("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(vi, &count, gpus)); err != nil {
		return nil, err
	}
	handles := make([]dieselcore.PhysicalDevice, 0, count)
	for _, gpu := range gpus[:count] {
		handles = append(handles, dieselcore.PhysicalDevice(d.gpus.put(gpu)))
	}
	return handles, nil
}

func (d *Driver) PhysicalDeviceProperties(gpu dieselcore.PhysicalDevice) dieselcore.PhysicalDeviceProperties {
	vg, ok := d.gpus.get(uint64(gpu))
	if !ok {
		return dieselcore.PhysicalDeviceProperties{}
	}
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(vg, &props)
	props.Deref()
	return dieselcore.PhysicalDeviceProperties{
		Name:       vk.ToString(props.DeviceName[:]),
		Type:       deviceType(props.DeviceType),
		APIVersion: dieselcore.Version(props.ApiVersion),
		VendorID:   props.VendorID,
		DeviceID:   props.DeviceID,
	}
}

func deviceType(t vk.PhysicalDeviceType) dieselcore.PhysicalDeviceType {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return dieselcore.DeviceTypeIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return dieselcore.DeviceTypeDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return dieselcore.DeviceTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return dieselcore.DeviceTypeCPU
	default:
		return dieselcore.DeviceTypeOther
	}
}

func (d *Driver) QueueFamilies(gpu dieselcore.PhysicalDevice) []dieselcore.QueueFamilyProperties {
	vg, ok := d.gpus.get(uint64(gpu))
	if !ok {
		return nil
	}
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(vg, &count, nil)
	list := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(vg, &count, list)
	families := make([]dieselcore.QueueFamilyProperties, 0, count)
	for _, family := range list[:count] {
		family.Deref()
		families = append(families, dieselcore.QueueFamilyProperties{
			Flags: dieselcore.QueueFlags(family.QueueFlags),
			Count: family.QueueCount,
		})
	}
	return families
}

func (d *Driver) SurfaceSupport(gpu dieselcore.PhysicalDevice, family uint32, surface dieselcore.Surface) (bool, error) {
	vg, vs, err := d.gpuSurface(gpu, surface)
	if err != nil {
		return false, err
	}
	var supported vk.Bool32
	if err := check("vkGetPhysicalDeviceSurfaceSupportKHR", vk.GetPhysicalDeviceSurfaceSupport(vg, family, vs, &supported)); err != nil {
		return false, err
	}
	return supported == vk.True, nil
}

func (d *Driver) SurfaceFormats(gpu dieselcore.PhysicalDevice, surface dieselcore.Surface) ([]dieselcore.SurfaceFormat, error) {
	vg, vs, err := d.gpuSurface(gpu, surface)
	if err != nil {
		return nil, err
	}
	var count uint32
	if err := check("vkGetPhysicalDeviceSurfaceFormatsKHR", vk.GetPhysicalDeviceSurfaceFormats(vg, vs, &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.SurfaceFormat, count)
	if err := check("vkGetPhysicalDeviceSurfaceFormatsKHR", vk.GetPhysicalDeviceSurfaceFormats(vg, vs, &count, list)); err != nil {
		return nil, err
	}
	formats := make([]dieselcore.SurfaceFormat, 0, count)
	for _, f := range list[:count] {
		f.Deref()
		formats = append(formats, dieselcore.SurfaceFormat{
			Format:     dieselcore.Format(f.Format),
			ColorSpace: dieselcore.ColorSpace(f.ColorSpace),
		})
	}
	return formats, nil
}

func (d *Driver) SurfacePresentModes(gpu dieselcore.PhysicalDevice, surface dieselcore.Surface) ([]dieselcore.PresentMode, error) {
	vg, vs, err := d.gpuSurface(gpu, surface)
	if err != nil {
		return nil, err
	}
	var count uint32
	if err := check("vkGetPhysicalDeviceSurfacePresentModesKHR", vk.GetPhysicalDeviceSurfacePresentModes(vg, vs, &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.PresentMode, count)
	if err := check("vkGetPhysicalDeviceSurfacePresentModesKHR", vk.GetPhysicalDeviceSurfacePresentModes(vg, vs, &count, list)); err != nil {
		return nil, err
	}
	modes := make([]dieselcore.PresentMode, 0, count)
	for _, m := range list[:count] {
		modes = append(modes, dieselcore.PresentMode(m))
	}
	return modes, nil
}

func (d *Driver) gpuSurface(gpu dieselcore.PhysicalDevice, surface dieselcore.Surface) (vk.PhysicalDevice, vk.Surface, error) {
	vg, ok := d.gpus.get(uint64(gpu))
	if !ok {
		return nil, vk.NullSurface, errors.New("unknown physical device handle")
	}
	vs, ok := d.surfaces.get(uint64(surface))
	if !ok {
		return nil, vk.NullSurface, errors.New("unknown surface handle")
	}
	return vg, vs, nil
}

func (d *Driver) DeviceLayers(gpu dieselcore.PhysicalDevice) ([]string, error) {
	vg, ok := d.gpus.get(uint64(gpu))
	if !ok {
		return nil, errors.New("unknown physical device handle")
	}
	var count uint32
	if err := check("vkEnumerateDeviceLayerProperties", vk.EnumerateDeviceLayerProperties(vg, &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.LayerProperties, count)
	if err := check("vkEnumerateDeviceLayerProperties", vk.EnumerateDeviceLayerProperties(vg, &count, list)); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, layer := range list[:count] {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

func (d *Driver) DeviceExtensions(gpu dieselcore.PhysicalDevice) ([]string, error) {
	vg, ok := d.gpus.get(uint64(gpu))
	if !ok {
		return nil, errors.New("unknown physical device handle")
	}
	var count uint32
	if err := check("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(vg, "", &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	if err := check("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(vg, "", &count, list)); err != nil {
		return nil, err
	}
	return extensionNames(list[:count]), nil
}

func extensionNames(list []vk.ExtensionProperties) []string {
	names := make([]string, 0, len(list))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names
}

func (d *Driver) CreateDevice(gpu dieselcore.PhysicalDevice, info dieselcore.DeviceInfo) (dieselcore.Device, error) {
	vg, ok := d.gpus.get(uint64(gpu))
	if !ok {
		return 0, errors.New("unknown physical device handle")
	}
	chain := newFeatureChain(info.DynamicRendering)
	defer chain.release()

	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: info.QueueFamily,
		QueueCount:       uint32(len(info.QueuePriorities)),
		PQueuePriorities: info.QueuePriorities,
	}}
	layers := safeStrings(info.Layers)
	extensions := safeStrings(info.Extensions)
	var device vk.Device
	ret := vk.CreateDevice(vg, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   chain.head(),
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}, nil, &device)
	if err := check("vkCreateDevice", ret); err != nil {
		return 0, err
	}
	logger().Debug("Created logical device.", slog.Int("queue_family", int(info.QueueFamily)))
	return dieselcore.Device(d.devices.put(device)), nil
}

func (d *Driver) DeviceQueue(device dieselcore.Device, family, index uint32) dieselcore.Queue {
	vd, ok := d.devices.get(uint64(device))
	if !ok {
		return 0
	}
	var queue vk.Queue
	vk.GetDeviceQueue(vd, family, index, &queue)
	return dieselcore.Queue(d.queues.put(queue))
}

func (d *Driver) DeviceWaitIdle(device dieselcore.Device) error {
	vd, ok := d.devices.get(uint64(device))
	if !ok {
		return errors.New("unknown device handle")
	}
	return check("vkDeviceWaitIdle", vk.DeviceWaitIdle(vd))
}

func (d *Driver) DestroyDevice(device dieselcore.Device) {
	vd, ok := d.devices.remove(uint64(device))
	if !ok {
		return
	}
	vk.DestroyDevice(vd, nil)
	// Queues die with their device.
	d.queues = newTable[vk.Queue]()
}

func (d *Driver) CreateShaderModule(device dieselcore.Device, code []byte) (dieselcore.ShaderModule, error) {
	vd, ok := d.devices.get(uint64(device))
	if !ok {
		return 0, errors.New("unknown device handle")
	}
	if len(code) == 0 || len(code)%4 != 0 {
		return 0, errors.Errorf("shader code of %d bytes is not a whole number of words", len(code))
	}
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(vd, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if err := check("vkCreateShaderModule", ret); err != nil {
		return 0, err
	}
	return dieselcore.ShaderModule(d.modules.put(module)), nil
}

func (d *Driver) DestroyShaderModule(device dieselcore.Device, module dieselcore.ShaderModule) {
	vd, ok := d.devices.get(uint64(device))
	if !ok {
		return
	}
	if vm, ok := d.modules.remove(uint64(module)); ok {
		vk.DestroyShaderModule(vd, vm, nil)
	}
}

func (d *Driver) CreateSemaphore(device dieselcore.Device) (dieselcore.Semaphore, error) {
	vd, ok := d.devices.get(uint64(device))
	if !ok {
		return 0, errors.New("unknown device handle")
	}
	var semaphore vk.Semaphore
	ret := vk.CreateSemaphore(vd, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &semaphore)
	if err := check("vkCreateSemaphore", ret); err != nil {
		return 0, err
	}
	return dieselcore.Semaphore(d.semaphores.put(semaphore)), nil
}

func (d *Driver) DestroySemaphore(device dieselcore.Device, semaphore dieselcore.Semaphore) {
	vd, ok := d.devices.get(uint64(device))
	if !ok {
		return
	}
	if vs, ok := d.semaphores.remove(uint64(semaphore)); ok {
		vk.DestroySemaphore(vd, vs, nil)
	}
}

func (d *Driver) CreateFence(device dieselcore.Device, signaled bool) (dieselcore.Fence, error) {
	vd, ok := d.devices.get(uint64(device))
	if !ok {
		return 0, errors.New("unknown device handle")
	}
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	if err := check("vkCreateFence", vk.CreateFence(vd, &info, nil, &fence)); err != nil {
		return 0, err
	}
	return dieselcore.Fence(d.fences.put(fence)), nil
}

func (d *Driver) DestroyFence(device dieselcore.Device, fence dieselcore.Fence) {
	vd, ok := d.devices.get(uint64(device))
	if !ok {
		return
	}
	if vf, ok := d.fences.remove(uint64(fence)); ok {
		vk.DestroyFence(vd, vf, nil)
	}
}

// Release drops every handle table. The bindings keep the loader library
// mapped for the life of the process; no call is valid afterwards.
func (d *Driver) Release() {
	if d.released {
		return
	}
	d.released = true
	leaked := d.modules.len() + d.semaphores.len() + d.fences.len() +
		d.devices.len() + d.surfaces.len() + d.debugs.len() + d.instances.len()
	if leaked > 0 {
		logger().Warn("Releasing driver with live objects.", slog.Int("count", leaked))
	}
	*d = *newDriver()
	d.released = true
}
