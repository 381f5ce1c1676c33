package demo

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/vkdemo/internal/console"
	"github.com/vkngwrapper/vkdemo/internal/vkinit"
)

// LoadingTitle is the window title while the program initializes.
const LoadingTitle = "Loading..."

// ConsoleConfig controls the development console.
type ConsoleConfig struct {
	// Enabled should be turned off for a release.
	Enabled bool
	Options console.Options
}

// Config holds every knob of the demo.
type Config struct {
	ApplicationName string

	// Validate turns on the Khronos validation layer. Leave it on while
	// developing; it keeps checking even when nothing is wrong.
	Validate bool

	Console ConsoleConfig

	// Client area size of the window.
	Width, Height int

	GPUStrategy vkinit.Strategy
	GPUIndex    int
}

// DefaultConfig returns the settings the walkthrough starts with.
func DefaultConfig() Config {
	return Config{
		ApplicationName: "vkdemo",
		Validate:        true,
		Console: ConsoleConfig{
			Enabled: true,
			Options: console.DefaultOptions(),
		},
		Width:       640,
		Height:      360,
		GPUStrategy: vkinit.StrategyFirst,
	}
}

// Check rejects configurations that cannot produce a window.
func (c Config) Check() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Newf("window size must be positive, got %dx%d", c.Width, c.Height)
	}

	if _, err := vkinit.ParseStrategy(string(c.GPUStrategy)); err != nil {
		return err
	}

	if c.GPUStrategy == vkinit.StrategyIndex && c.GPUIndex < 0 {
		return errors.Newf("gpu index must not be negative, got %d", c.GPUIndex)
	}

	return nil
}
