// Package window opens the native window that will host Vulkan output.
package window

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/vkdemo/internal/logger"
)

// LoadingTitle is shown until the GPU name is known.
const LoadingTitle = "Loading..."

const pollInterval = 50 // ms

var (
	ErrStart  = errors.New("Unexpected error trying to start the application!")
	ErrCreate = errors.New("Cannot create a window in which to draw!")
)

// Options describes the window to create.
type Options struct {
	Title string

	// Size of the client area.
	Width, Height int

	// Position of the window's top-left corner.
	X, Y int
}

// Window is an SDL window created with Vulkan support.
type Window struct {
	window    *sdl.Window
	log       logger.LoggerInterface
	minimized bool
}

// Open initializes SDL video and creates the window.
func Open(opts Options, log logger.LoggerInterface) (*Window, error) {
	if opts.Title == "" {
		opts.Title = LoadingTitle
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Mark(errors.Wrap(err, ErrStart.Error()), ErrStart)
	}

	window, err := sdl.CreateWindow(opts.Title,
		int32(opts.X), int32(opts.Y),
		int32(opts.Width), int32(opts.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, errors.Mark(errors.Wrap(err, ErrCreate.Error()), ErrCreate)
	}

	// The client area must stay at least one pixel high.
	window.SetMinimumSize(1, 1)

	log.Debug("Window created",
		slog.Int("width", opts.Width),
		slog.Int("height", opts.Height),
		slog.Int("x", opts.X),
		slog.Int("y", opts.Y),
	)

	return &Window{window: window, log: log}, nil
}

// SDL returns the underlying SDL window.
func (w *Window) SDL() *sdl.Window {
	return w.window
}

// SetTitle changes the window caption.
func (w *Window) SetTitle(title string) {
	w.window.SetTitle(title)
}

// RequiredInstanceExtensions lists the instance extensions needed to
// create a surface for this window.
func (w *Window) RequiredInstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// ProcAddr returns vkGetInstanceProcAddr from the Vulkan library SDL loaded.
func (w *Window) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// IsMinimized reports the last minimize/restore event seen by Run.
func (w *Window) IsMinimized() bool {
	return w.minimized
}

// Run pumps window events until the window is closed, Escape is
// pressed or ctx is done.
func (w *Window) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Event loop cancelled")
			return nil
		default:
		}

		for event := sdl.WaitEventTimeout(pollInterval); event != nil; event = sdl.PollEvent() {
			if w.handle(event) {
				return nil
			}
		}
	}
}

// handle applies one event and reports whether the loop should stop.
func (w *Window) handle(event sdl.Event) (quit bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return true
	case *sdl.KeyboardEvent:
		return e.Keysym.Sym == sdl.K_ESCAPE && e.State == sdl.PRESSED
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_MINIMIZED:
			w.minimized = true
		case sdl.WINDOWEVENT_RESTORED:
			w.minimized = false
		}
	}
	return false
}

// Destroy closes the window and shuts SDL down.
func (w *Window) Destroy() {
	if w.window != nil {
		_ = w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}
