package vkdriver

import (
	"runtime"
	"unsafe"
)

const (
	structureTypePhysicalDeviceFeatures2                = 1000059000
	structureTypePhysicalDeviceDynamicRenderingFeatures = 1000044003

	// physicalDeviceFeatureCount is the number of VkBool32 members of
	// VkPhysicalDeviceFeatures.
	physicalDeviceFeatureCount = 55
)

// The extended feature structures are missing from the bindings, so they are
// laid out here to match the C definitions.
type physicalDeviceFeatures2 struct {
	sType    int32
	pNext    unsafe.Pointer
	features [physicalDeviceFeatureCount]uint32
}

type physicalDeviceDynamicRenderingFeatures struct {
	sType            int32
	pNext            unsafe.Pointer
	dynamicRendering uint32
}

// featureChain is the pNext chain handed to vkCreateDevice. It must stay
// pinned until the call returns.
type featureChain struct {
	pin      runtime.Pinner
	features *physicalDeviceFeatures2
	dynamic  *physicalDeviceDynamicRenderingFeatures
}

func newFeatureChain(dynamicRendering bool) *featureChain {
	c := &featureChain{
		features: &physicalDeviceFeatures2{sType: structureTypePhysicalDeviceFeatures2},
		dynamic:  &physicalDeviceDynamicRenderingFeatures{sType: structureTypePhysicalDeviceDynamicRenderingFeatures},
	}
	if dynamicRendering {
		c.dynamic.dynamicRendering = 1
	}
	c.pin.Pin(c.features)
	c.pin.Pin(c.dynamic)
	c.features.pNext = unsafe.Pointer(c.dynamic)
	return c
}

// head is the value for DeviceCreateInfo.PNext.
func (c *featureChain) head() unsafe.Pointer {
	return unsafe.Pointer(c.features)
}

func (c *featureChain) release() {
	c.pin.Unpin()
}
