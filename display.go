package dieselcore

import "golang.org/x/exp/slog"

// Window is the platform window the context renders into. *glfw.Window
// satisfies it; the driver reaches the native handles through the concrete
// value when creating the surface.
type Window interface {
	// GetRequiredInstanceExtensions lists the presentation extensions the
	// platform needs enabled on the instance.
	GetRequiredInstanceExtensions() []string
}

// CoreSurface is the presentation surface bound to the window. It must be
// destroyed after the device and before the instance.
type CoreSurface struct {
	driver   Driver
	instance Instance
	handle   Surface
}

func NewCoreSurface(driver Driver, instance *CoreInstance, window Window, logger *slog.Logger) (*CoreSurface, error) {
	logger.Debug("Creating Surface of Vulkan Instance.")
	handle, err := driver.CreateSurface(instance.Handle(), window)
	if err != nil {
		return nil, err
	}
	return &CoreSurface{
		driver:   driver,
		instance: instance.Handle(),
		handle:   handle,
	}, nil
}

func (s *CoreSurface) Handle() Surface {
	return s.handle
}

func (s *CoreSurface) Destroy() {
	if s == nil || s.handle == 0 {
		return
	}
	s.driver.DestroySurface(s.instance, s.handle)
	s.handle = 0
}
