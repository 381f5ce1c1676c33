// Package console gives the process a visible console during development
// and can divert everything printed to it into a file.
package console

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// Options configures Prepare.
type Options struct {
	// Title of the console window (Windows only).
	Title string

	// Console window placement (Windows only). The demo window opens to
	// the right of it.
	X, Y          int
	Width, Height int

	// OutputFile, when set, receives stdout and stderr in append mode
	// instead of the console.
	OutputFile string
}

// DefaultOptions places a 640x360 console at the top-left corner. The
// extra 40 pixels of height account for the title bar.
func DefaultOptions() Options {
	return Options{
		Title:  "Console window",
		Width:  640,
		Height: 360 + 40,
	}
}

// Prepare attaches a console and applies the output redirection. The
// returned function undoes both.
func Prepare(opts Options) (restore func(), err error) {
	detach, err := attach(opts)
	if err != nil {
		return nil, errors.Wrap(err, "could not attach a console")
	}

	undoRedirect, err := redirect(opts.OutputFile)
	if err != nil {
		detach()
		return nil, err
	}

	return func() {
		undoRedirect()
		detach()
	}, nil
}

func redirect(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open console output file %s", path)
	}

	stdout, stderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = f, f

	return func() {
		os.Stdout, os.Stderr = stdout, stderr
		_ = f.Close()
	}, nil
}

type stdoutWriter struct{}

func (stdoutWriter) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

// Stdout writes to whatever os.Stdout is at the time of each write, so
// output created before Prepare still follows the console.
var Stdout io.Writer = stdoutWriter{}
