// Package demo runs the initialization walkthrough: console, window,
// Vulkan instance and physical device, in that order and exactly once.
package demo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"

	"github.com/vkngwrapper/vkdemo/internal/console"
	"github.com/vkngwrapper/vkdemo/internal/logger"
	"github.com/vkngwrapper/vkdemo/internal/vkinit"
)

// Window is the native window hosting the demo.
type Window interface {
	SetTitle(title string)
	RequiredInstanceExtensions() []string
	Run(ctx context.Context) error
	Destroy()
}

// WindowOptions describes the window to open.
type WindowOptions struct {
	Title         string
	Width, Height int
	X, Y          int
}

// Platform supplies the operating-system and driver pieces the demo
// drives.
type Platform interface {
	PrepareConsole(opts console.Options) (restore func(), err error)
	OpenWindow(opts WindowOptions) (Window, error)
	Driver(window Window) (vkinit.Driver, error)
	CreateSurface(window Window, instance vkinit.Instance) (vkinit.Surface, error)
}

// StepTiming records how long one preparation step took.
type StepTiming struct {
	Step     string
	Duration time.Duration
}

// Demo owns every handle created during preparation.
type Demo struct {
	cfg      Config
	platform Platform
	log      logger.LoggerInterface
	out      io.Writer

	// firstInit is true until Prepare has run once. Instance, window and
	// device are only ever created on the first call.
	firstInit bool

	restoreConsole func()
	window         Window
	instance       *vkinit.PreparedInstance
	surface        vkinit.Surface
	gpu            *vkinit.SelectedDevice
	timings        []StepTiming
}

// New creates the demo and prepares it. out receives the messages meant
// for the student reading the console.
func New(cfg Config, platform Platform, log logger.LoggerInterface, out io.Writer) (*Demo, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	d := &Demo{
		cfg:       cfg,
		platform:  platform,
		log:       log,
		out:       out,
		firstInit: true,
	}

	if err := d.Prepare(); err != nil {
		err = d.Fail(err)
		d.Close()
		return nil, err
	}
	return d, nil
}

// ErrReported marks errors that were already printed to the console.
var ErrReported = errors.New("error already reported")

// Fail prints err and its hints while the console is still attached, and
// marks it with ErrReported.
func (d *Demo) Fail(err error) error {
	if errors.Is(err, ErrReported) {
		return err
	}
	PrintError(d.out, err)
	return errors.Mark(err, ErrReported)
}

// PrintError writes err and every hint attached to it.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "ERROR: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "HINT: %s\n", hint)
	}
}

// Prepare builds the console, window, instance and physical device. Only
// the first call does any work.
func (d *Demo) Prepare() error {
	if !d.firstInit {
		d.log.Trace("Prepare called again, nothing to rebuild")
		return nil
	}
	d.firstInit = false

	steps := []struct {
		name string
		run  func() error
	}{
		{"console", d.prepareConsole},
		{"window", d.prepareWindow},
		{"instance", d.prepareInstance},
		{"physical device", d.preparePhysicalDevice},
	}

	for _, step := range steps {
		start := hrtime.Now()
		if err := step.run(); err != nil {
			d.log.Error("Preparation failed", slog.String("step", step.name), slog.Any("error", err))
			return err
		}

		elapsed := hrtime.Since(start)
		d.timings = append(d.timings, StepTiming{Step: step.name, Duration: elapsed})
		d.log.Debug("Prepared", slog.String("step", step.name), slog.Duration("took", elapsed))
	}

	return nil
}

func (d *Demo) prepareConsole() error {
	if !d.cfg.Console.Enabled {
		return nil
	}

	restore, err := d.platform.PrepareConsole(d.cfg.Console.Options)
	if err != nil {
		return err
	}
	d.restoreConsole = restore
	return nil
}

func (d *Demo) prepareWindow() error {
	window, err := d.platform.OpenWindow(WindowOptions{
		Title:  LoadingTitle,
		Width:  d.cfg.Width,
		Height: d.cfg.Height,
		// Right next to the console window.
		X: d.cfg.Console.Options.X + d.cfg.Console.Options.Width,
		Y: d.cfg.Console.Options.Y,
	})
	if err != nil {
		return err
	}
	d.window = window
	return nil
}

func (d *Demo) prepareInstance() error {
	driver, err := d.platform.Driver(d.window)
	if err != nil {
		return err
	}

	d.instance, err = vkinit.PrepareInstance(driver, vkinit.InstanceOptions{
		ApplicationName:  d.cfg.ApplicationName,
		Validate:         d.cfg.Validate,
		WindowExtensions: d.window.RequiredInstanceExtensions(),
		Messages:         d.logValidation,
	}, d.log)
	if err != nil {
		return err
	}

	d.log.Info("Vulkan instance created",
		slog.Bool("validation", d.cfg.Validate),
		slog.Int("extensions", len(d.instance.EnabledExtensions)),
	)

	d.surface, err = d.platform.CreateSurface(d.window, d.instance.Instance)
	if err != nil {
		return errors.Wrap(err, "vkCreateSurfaceKHR Failure")
	}
	return nil
}

func (d *Demo) preparePhysicalDevice() error {
	gpu, err := vkinit.PreparePhysicalDevice(d.instance.Instance, vkinit.DeviceOptions{
		Strategy: d.cfg.GPUStrategy,
		Index:    d.cfg.GPUIndex,
		Surface:  d.surface,
		Found:    d.announceGPU,
	}, d.log)
	if err != nil {
		return err
	}
	d.gpu = gpu

	d.log.Debug("Physical device selected",
		slog.String("device", gpu.Properties.Describe()),
		slog.Int("index", gpu.Index),
		slog.Any("extensions", gpu.EnabledExtensions),
	)
	return nil
}

// announceGPU shows the GPU name in the title bar and on the console.
func (d *Demo) announceGPU(props vkinit.DeviceProperties) {
	d.window.SetTitle(props.Name)
	fmt.Fprintf(d.out, "We found a GPU, the name of the GPU is:\n%s\n\n", props.Name)
}

func (d *Demo) logValidation(msg vkinit.DebugMessage) {
	args := []any{slog.String("type", msg.Type)}
	switch msg.Severity {
	case vkinit.SeverityError:
		d.log.Error(msg.Text, args...)
	case vkinit.SeverityWarning:
		d.log.Warn(msg.Text, args...)
	default:
		d.log.Debug(msg.Text, args...)
	}
}

// Run pumps window events until the user closes the window or ctx ends.
func (d *Demo) Run(ctx context.Context) error {
	if d.window == nil {
		return errors.New("demo is not prepared")
	}
	return d.window.Run(ctx)
}

// GPU returns the selected physical device.
func (d *Demo) GPU() *vkinit.SelectedDevice {
	return d.gpu
}

// EnabledLayers returns the instance layers that were enabled.
func (d *Demo) EnabledLayers() []string {
	if d.instance == nil {
		return nil
	}
	return d.instance.EnabledLayers
}

// EnabledExtensions returns the instance extensions that were enabled.
func (d *Demo) EnabledExtensions() []string {
	if d.instance == nil {
		return nil
	}
	return d.instance.EnabledExtensions
}

// Timings returns how long each preparation step took.
func (d *Demo) Timings() []StepTiming {
	return d.timings
}

// Close releases everything in reverse creation order. It is safe after
// a partial Prepare and when called more than once.
func (d *Demo) Close() {
	if d.surface != nil {
		d.surface.Destroy()
		d.surface = nil
	}

	if d.instance != nil {
		d.instance.Instance.Destroy()
		d.instance = nil
	}

	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}

	if d.restoreConsole != nil {
		d.restoreConsole()
		d.restoreConsole = nil
	}
}
