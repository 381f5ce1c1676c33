//go:build !windows

package console

// attach is a no-op: the process already inherits its terminal.
func attach(Options) (func(), error) {
	return func() {}, nil
}
