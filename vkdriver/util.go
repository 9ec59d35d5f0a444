package vkdriver

import (
	"strings"
	"unsafe"

	"github.com/andewx/dieselcore"
	vk "github.com/vulkan-go/vulkan"
)

// safeString terminates s with a NUL byte as the C side expects.
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

// sliceUint32 reinterprets SPIR-V bytes as words. len(data) must be a
// multiple of four.
func sliceUint32(data []byte) []uint32 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func check(call string, ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return dieselcore.NewAPIError(call, int32(ret), vk.Error(ret).Error())
}
