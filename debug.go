package dieselcore

import (
	"golang.org/x/exp/slog"
)

// CoreDebug forwards driver diagnostics into the engine log. It exists only in
// the development profile and must be destroyed before the instance.
type CoreDebug struct {
	driver   Driver
	instance Instance
	handle   DebugMessenger
}

func NewCoreDebug(driver Driver, instance *CoreInstance, logger *slog.Logger) (*CoreDebug, error) {
	logger.Debug("Initializing Validation Layer of Vulkan Instance")
	handle, err := driver.CreateDebugMessenger(instance.Handle(), func(msg DebugMessage) {
		RouteDebugMessage(logger, msg)
	})
	if err != nil {
		return nil, err
	}
	return &CoreDebug{
		driver:   driver,
		instance: instance.Handle(),
		handle:   handle,
	}, nil
}

// RouteDebugMessage re-emits a driver message at the matching level.
// Severities other than information, warning and error are dropped.
func RouteDebugMessage(logger *slog.Logger, msg DebugMessage) {
	attrs := []any{
		slog.String("category", msg.Category),
		slog.Int("code", int(msg.Code)),
	}
	switch {
	case msg.Severity&DebugError != 0:
		logger.Error(msg.Text, attrs...)
	case msg.Severity&(DebugWarning|DebugPerformanceWarning) != 0:
		logger.Warn(msg.Text, attrs...)
	case msg.Severity&DebugInformation != 0:
		logger.Info(msg.Text, attrs...)
	}
}

func (d *CoreDebug) Destroy() {
	if d == nil || d.handle == 0 {
		return
	}
	d.driver.DestroyDebugMessenger(d.instance, d.handle)
	d.handle = 0
}
