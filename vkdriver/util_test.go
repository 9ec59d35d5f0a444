package vkdriver

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/andewx/dieselcore"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func TestSafeStrings(t *testing.T) {
	got := safeStrings([]string{"VK_KHR_swapchain", "VK_LAYER_KHRONOS_validation\x00"})
	want := []string{"VK_KHR_swapchain\x00", "VK_LAYER_KHRONOS_validation\x00"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("safeStrings[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSliceUint32(t *testing.T) {
	code := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}
	words := sliceUint32(code)
	if len(words) != 2 {
		t.Fatalf("len = %d, want 2", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("magic = %#x, want 0x07230203", words[0])
	}
	if sliceUint32(nil) != nil {
		t.Errorf("sliceUint32(nil) is not nil")
	}
}

func TestFeatureChainLayout(t *testing.T) {
	// Sizes of the C structures on 64-bit targets.
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout checked on 64-bit targets only")
	}
	if got := unsafe.Sizeof(physicalDeviceFeatures2{}); got != 240 {
		t.Errorf("sizeof VkPhysicalDeviceFeatures2 = %d, want 240", got)
	}
	if got := unsafe.Sizeof(physicalDeviceDynamicRenderingFeatures{}); got != 24 {
		t.Errorf("sizeof VkPhysicalDeviceDynamicRenderingFeatures = %d, want 24", got)
	}

	chain := newFeatureChain(true)
	defer chain.release()
	if chain.head() != unsafe.Pointer(chain.features) {
		t.Errorf("head is not the features2 structure")
	}
	if chain.features.pNext != unsafe.Pointer(chain.dynamic) {
		t.Errorf("features2.pNext does not point at the dynamic rendering structure")
	}
	if chain.dynamic.dynamicRendering != 1 {
		t.Errorf("dynamicRendering = %d, want 1", chain.dynamic.dynamicRendering)
	}
}

func TestCheckNamesResult(t *testing.T) {
	if err := check("vkDeviceWaitIdle", vk.Success); err != nil {
		t.Fatalf("check(Success) = %v", err)
	}
	tests := []struct {
		ret  vk.Result
		want string
	}{
		{vk.ErrorMemoryMapFailed, "mmap failed"},
		{vk.ErrorFragmentedPool, "(-12)"},
		{vk.ErrorOutOfDate, "out of date"},
		{vk.EventSet, "event set"},
	}
	for _, tt := range tests {
		err := check("vkCall", tt.ret)
		var api *dieselcore.APIError
		if !errors.As(err, &api) {
			t.Fatalf("check(%d) = %v, want *APIError", tt.ret, err)
		}
		if api.Code != int32(tt.ret) || api.Result != vk.Error(tt.ret).Error() {
			t.Errorf("check(%d) = %+v", tt.ret, api)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("check(%d) = %q, want %q", tt.ret, err, tt.want)
		}
	}
}
