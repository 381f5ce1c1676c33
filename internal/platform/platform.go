// Package platform connects the demo to SDL2, the Windows console and
// the Vulkan loader.
package platform

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/vkdemo/internal/console"
	"github.com/vkngwrapper/vkdemo/internal/demo"
	"github.com/vkngwrapper/vkdemo/internal/logger"
	"github.com/vkngwrapper/vkdemo/internal/vkinit"
	"github.com/vkngwrapper/vkdemo/internal/vkng"
	"github.com/vkngwrapper/vkdemo/internal/window"
)

// SDL is the production demo.Platform.
type SDL struct {
	log logger.LoggerInterface
}

var _ demo.Platform = (*SDL)(nil)

// NewSDL returns a platform that logs to log.
func NewSDL(log logger.LoggerInterface) *SDL {
	return &SDL{log: log}
}

func (p *SDL) PrepareConsole(opts console.Options) (func(), error) {
	return console.Prepare(opts)
}

func (p *SDL) OpenWindow(opts demo.WindowOptions) (demo.Window, error) {
	w, err := window.Open(window.Options{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		X:      opts.X,
		Y:      opts.Y,
	}, p.log)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Driver loads Vulkan through the library SDL already opened for the window.
func (p *SDL) Driver(w demo.Window) (vkinit.Driver, error) {
	sdlWindow, ok := w.(*window.Window)
	if !ok {
		return nil, errors.Newf("unsupported window type %T", w)
	}
	driver, err := vkng.NewDriverFromProcAddr(sdlWindow.ProcAddr(), p.log)
	if err != nil {
		return nil, err
	}
	return driver, nil
}

func (p *SDL) CreateSurface(w demo.Window, instance vkinit.Instance) (vkinit.Surface, error) {
	sdlWindow, ok := w.(*window.Window)
	if !ok {
		return nil, errors.Newf("unsupported window type %T", w)
	}

	vkInstance, ok := instance.(*vkng.Instance)
	if !ok {
		return nil, errors.Newf("unsupported instance type %T", instance)
	}

	surface, err := vkInstance.CreateSurface(sdlWindow.SDL())
	if err != nil {
		return nil, err
	}
	return surface, nil
}
