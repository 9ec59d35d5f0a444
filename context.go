package dieselcore

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// Context owns every GPU object of the renderer. It is built in dependency
// order by NewContext and released only through Destroy.
type Context struct {
	driver   Driver
	logger   *slog.Logger
	instance *CoreInstance
	debug    *CoreDebug
	surface  *CoreSurface
	device   *CoreDevice
	sync     *CoreSync
	shaders  *CoreShader

	destroyed bool
}

// NewContext loads the driver and creates instance, debug messenger
// (development only), surface, device, sync primitives and shader manager in
// that order. On failure everything already created is released in reverse.
func NewContext(loader Loader, window Window, cfg Config) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.logger()

	logger.Debug("Loading Vulkan lib.")
	driver, err := loader()
	if err != nil {
		return nil, &LoaderError{Err: err}
	}

	ctx := &Context{
		driver: driver,
		logger: logger,
	}
	if err := ctx.build(window, cfg); err != nil {
		ctx.teardown()
		return nil, err
	}
	return ctx, nil
}

func (ctx *Context) build(window Window, cfg Config) error {
	var err error
	ctx.instance, err = NewCoreInstance(ctx.driver, window, cfg)
	if err != nil {
		return err
	}

	if cfg.Profile.IsDevelopment() {
		ctx.debug, err = NewCoreDebug(ctx.driver, ctx.instance, ctx.logger)
		if err != nil {
			return errors.Wrap(err, "debug messenger")
		}
	}

	ctx.surface, err = NewCoreSurface(ctx.driver, ctx.instance, window, ctx.logger)
	if err != nil {
		return errors.Wrap(err, "surface")
	}

	ctx.logger.Debug("Creating Device.")
	ctx.device, err = NewCoreDevice(ctx.driver, ctx.instance, ctx.surface, cfg)
	if err != nil {
		return err
	}

	ctx.sync, err = NewCoreSync(ctx.device, ctx.logger)
	if err != nil {
		return errors.Wrap(err, "sync primitives")
	}

	ctx.shaders = NewCoreShader(cfg.compiler(), ctx.logger)
	return nil
}

// Destroy waits for the device to go idle, then releases shaders, sync
// primitives, device, debug messenger, surface, instance and finally the
// driver. Later calls do nothing. A failed idle wait is returned but does
// not stop the release.
func (ctx *Context) Destroy() error {
	if ctx == nil || ctx.destroyed {
		return nil
	}
	ctx.logger.Debug("Destroying context.")
	return ctx.teardown()
}

func (ctx *Context) teardown() error {
	ctx.destroyed = true
	var err error
	if ctx.device != nil {
		if werr := ctx.device.WaitIdle(); werr != nil {
			ctx.logger.Error("Failed to wait for device idle.", slog.Any("error", werr))
			err = errors.Wrap(werr, "wait for device idle")
		}
		if ctx.shaders != nil {
			ctx.shaders.UnloadAll(ctx.device)
		}
		ctx.sync.Destroy(ctx.device)
		ctx.device.Destroy()
	}
	ctx.debug.Destroy()
	ctx.surface.Destroy()
	ctx.instance.Destroy()
	ctx.driver.Release()
	return err
}

// LoadShader compiles the file at path on the context's device.
func (ctx *Context) LoadShader(path string) (Identity, error) {
	if ctx.destroyed {
		return 0, ErrContextDestroyed
	}
	return ctx.shaders.Load(ctx.device, path)
}

func (ctx *Context) LoadShaders(paths ...string) ([]Identity, error) {
	if ctx.destroyed {
		return nil, ErrContextDestroyed
	}
	return ctx.shaders.LoadAll(ctx.device, paths...)
}

// UnloadShader reports false for unknown identities and after Destroy.
func (ctx *Context) UnloadShader(id Identity) bool {
	if ctx.destroyed {
		return false
	}
	return ctx.shaders.Unload(ctx.device, id)
}

func (ctx *Context) Instance() *CoreInstance { return ctx.instance }
func (ctx *Context) Surface() *CoreSurface   { return ctx.surface }
func (ctx *Context) Device() *CoreDevice     { return ctx.device }
func (ctx *Context) Sync() *CoreSync         { return ctx.sync }
func (ctx *Context) Shaders() *CoreShader    { return ctx.shaders }
