//go:build windows

package console

import (
	"os"
	"unsafe"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procAllocConsole     = kernel32.NewProc("AllocConsole")
	procAttachConsole    = kernel32.NewProc("AttachConsole")
	procFreeConsole      = kernel32.NewProc("FreeConsole")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
	procSetConsoleTitleW = kernel32.NewProc("SetConsoleTitleW")
	user32               = windows.NewLazySystemDLL("user32.dll")
	procMoveWindow       = user32.NewProc("MoveWindow")
)

// attach allocates a console for a GUI-subsystem process and points the
// standard streams at it.
func attach(opts Options) (func(), error) {
	allocated := true
	if ret, _, err := procAllocConsole.Call(); ret == 0 {
		// A process started from a terminal already has one.
		if !errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return nil, errors.Wrap(err, "AllocConsole")
		}
		allocated = false
	}

	// Fails harmlessly once AllocConsole has attached us.
	_, _, _ = procAttachConsole.Call(uintptr(windows.GetCurrentProcessId()))

	conin, err := os.OpenFile("CONIN$", os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(err, "open CONIN$")
	}

	conout, err := os.OpenFile("CONOUT$", os.O_RDWR, 0)
	if err != nil {
		_ = conin.Close()
		return nil, errors.Wrap(err, "open CONOUT$")
	}

	_ = windows.SetStdHandle(windows.STD_INPUT_HANDLE, windows.Handle(conin.Fd()))
	_ = windows.SetStdHandle(windows.STD_OUTPUT_HANDLE, windows.Handle(conout.Fd()))
	_ = windows.SetStdHandle(windows.STD_ERROR_HANDLE, windows.Handle(conout.Fd()))

	stdin, stdout, stderr := os.Stdin, os.Stdout, os.Stderr
	os.Stdin, os.Stdout, os.Stderr = conin, conout, conout

	if opts.Title != "" {
		if title, err := windows.UTF16PtrFromString(opts.Title); err == nil {
			_, _, _ = procSetConsoleTitleW.Call(uintptr(unsafe.Pointer(title)))
		}
	}

	if opts.Width > 0 && opts.Height > 0 {
		if hwnd, _, _ := procGetConsoleWindow.Call(); hwnd != 0 {
			_, _, _ = procMoveWindow.Call(hwnd,
				uintptr(opts.X), uintptr(opts.Y),
				uintptr(opts.Width), uintptr(opts.Height),
				1, // repaint
			)
		}
	}

	return func() {
		os.Stdin, os.Stdout, os.Stderr = stdin, stdout, stderr
		_ = conin.Close()
		_ = conout.Close()
		if allocated {
			_, _, _ = procFreeConsole.Call()
		}
	}, nil
}
