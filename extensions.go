package dieselcore

import "strings"

// ValidationLayer is required at instance and device level in the
// development profile.
const ValidationLayer = "VK_LAYER_KHRONOS_validation"

const (
	SwapchainExtension      = "VK_KHR_swapchain"
	DebugReportExtension    = "VK_EXT_debug_report"
	DynamicRenderingFeature = "VK_KHR_dynamic_rendering"
)

// Support is the verdict of a capability check. Missing keeps the order of
// the required list.
type Support struct {
	Supported bool
	Missing   []string
}

// CheckSupport compares required names against the available ones by exact
// byte equality. A request is satisfied only when every name is present.
func CheckSupport(required, available []string) Support {
	have := make(map[string]struct{}, len(available))
	for _, name := range available {
		have[name] = struct{}{}
	}
	var missing []string
	for _, req := range required {
		if _, ok := have[req]; !ok {
			missing = append(missing, req)
		}
	}
	return Support{
		Supported: len(missing) == 0,
		Missing:   missing,
	}
}

// Report formats the missing names under header, one per line.
func (s Support) Report(header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(":\n")
	for _, name := range s.Missing {
		b.WriteString(tab)
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String()
}

// MergeNames concatenates the lists, dropping repeated names but keeping the
// first occurrence's position.
func MergeNames(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
