package dieselcore

// ChooseSurfaceFormat picks the first 8-bit sRGB RGBA or BGRA format paired
// with the sRGB non-linear color space.
func ChooseSurfaceFormat(formats []SurfaceFormat) (SurfaceFormat, bool) {
	for _, f := range formats {
		if (f.Format == FormatR8G8B8A8Srgb || f.Format == FormatB8G8R8A8Srgb) &&
			f.ColorSpace == ColorSpaceSrgbNonlinear {
			return f, true
		}
	}
	return SurfaceFormat{}, false
}

// PresentModes holds the present modes kept for swapchain creation. A nil
// field means the mode is unavailable.
type PresentModes struct {
	Mailbox     *PresentMode
	FifoRelaxed *PresentMode
}

// NewPresentModes keeps mailbox and FIFO when available. It reports false when
// neither is offered.
func NewPresentModes(available []PresentMode) (*PresentModes, bool) {
	var modes PresentModes
	for _, m := range available {
		switch m {
		case PresentModeMailbox:
			mailbox := PresentModeMailbox
			modes.Mailbox = &mailbox
		case PresentModeFifo:
			fifo := PresentModeFifo
			modes.FifoRelaxed = &fifo
		}
	}
	if modes.Mailbox == nil && modes.FifoRelaxed == nil {
		return nil, false
	}
	return &modes, true
}

// Preferred is mailbox when available, otherwise FIFO.
func (p *PresentModes) Preferred() PresentMode {
	if p.Mailbox != nil {
		return *p.Mailbox
	}
	return *p.FifoRelaxed
}
