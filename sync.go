package dieselcore

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// SyncDevice creates and destroys synchronization primitives. *CoreDevice
// implements it.
type SyncDevice interface {
	CreateSemaphore() (Semaphore, error)
	DestroySemaphore(semaphore Semaphore)
	CreateFence(signaled bool) (Fence, error)
	DestroyFence(fence Fence)
}

// CoreSync holds the per-frame primitives: two semaphores ordering image
// acquisition and rendering, and a fence the host waits on before reusing
// frame resources. The fence starts signaled so the first wait returns.
type CoreSync struct {
	ImageAvailable Semaphore
	RenderFinished Semaphore
	RenderFence    Fence

	destroyed bool
}

func NewCoreSync(device SyncDevice, logger *slog.Logger) (*CoreSync, error) {
	logger.Debug("Initializing sync primitives")
	imageAvailable, err := device.CreateSemaphore()
	if err != nil {
		return nil, errors.Wrap(err, "image available semaphore")
	}
	renderFinished, err := device.CreateSemaphore()
	if err != nil {
		device.DestroySemaphore(imageAvailable)
		return nil, errors.Wrap(err, "render finished semaphore")
	}
	renderFence, err := device.CreateFence(true)
	if err != nil {
		device.DestroySemaphore(renderFinished)
		device.DestroySemaphore(imageAvailable)
		return nil, errors.Wrap(err, "render fence")
	}
	return &CoreSync{
		ImageAvailable: imageAvailable,
		RenderFinished: renderFinished,
		RenderFence:    renderFence,
	}, nil
}

func (s *CoreSync) Destroy(device SyncDevice) {
	if s == nil || s.destroyed {
		return
	}
	device.DestroySemaphore(s.ImageAvailable)
	device.DestroySemaphore(s.RenderFinished)
	device.DestroyFence(s.RenderFence)
	s.destroyed = true
}
