package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vkngwrapper/vkdemo/internal/console"
	"github.com/vkngwrapper/vkdemo/internal/demo"
	"github.com/vkngwrapper/vkdemo/internal/logger"
	"github.com/vkngwrapper/vkdemo/internal/platform"
	"github.com/vkngwrapper/vkdemo/internal/version"
)

// RootCmd is the root command for the vkdemo CLI application.
var RootCmd = &cobra.Command{
	Use:               "vkdemo",
	Short:             "vkdemo - Open a window and bring up Vulkan step by step",
	Version:           version.GetVersion(),
	Args:              cobra.NoArgs,
	PersistentPreRunE: loadEnvironment,
	RunE:              Execute,
	SilenceUsage:      true, // Don't show usage on runtime errors
	SilenceErrors:     true, // main prints the error with its hints
}

// newPlatform is replaced in tests.
var newPlatform = func(log logger.LoggerInterface) demo.Platform {
	return platform.NewSDL(log)
}

func init() {
	RootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	addFlags(RootCmd)
}

func addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolP("verbose", "V", false, "enable verbose output")
	cmd.PersistentFlags().String("log-dir", "", "directory for the rotating log file")

	defaults := demo.DefaultConfig()
	cmd.Flags().Bool("validate", defaults.Validate, "enable the Khronos validation layer")
	cmd.Flags().Bool("console", defaults.Console.Enabled, "open a console window next to the demo (Windows)")
	cmd.Flags().String("console-output", "", "append console output to this file instead")
	cmd.Flags().Int("width", defaults.Width, "window width in pixels")
	cmd.Flags().Int("height", defaults.Height, "window height in pixels")
	cmd.Flags().String("gpu-strategy", string(defaults.GPUStrategy), "how to pick the GPU: first, best or index")
	cmd.Flags().Int("gpu-index", 0, "GPU to use with --gpu-strategy=index")
}

// loadEnvironment reads .env from the working directory before any
// configuration is resolved.
func loadEnvironment(*cobra.Command, []string) error {
	return LoadDotEnv(".env")
}

// initializeLogger creates the rotating file logger with console output to consoleOut
func initializeLogger(cfg *Config, consoleOut io.Writer) (logger.LoggerInterface, error) {
	log, err := logger.NewLogger(logger.LoggerOptions{
		Verbose:  cfg.Verbose,
		LogDir:   cfg.LogDir,
		Console:  consoleOut,
		Compress: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	return log, nil
}

// Execute runs the demo with the configuration from flags and environment.
func Execute(cmd *cobra.Command, _ []string) error {
	cfg, err := NewConfigFromFlags(cmd, nil)
	if err != nil {
		return err
	}

	log, err := initializeLogger(cfg, console.Stdout)
	if err != nil {
		return err
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runDemo(ctx, cfg, newPlatform(log), log, console.Stdout)
}

// runDemo prepares the demo, runs its event loop and tears it down.
func runDemo(ctx context.Context, cfg *Config, p demo.Platform, log logger.LoggerInterface, out io.Writer) (err error) {
	runID := uuid.New()
	log.Debug("Starting vkdemo",
		slog.String("run", runID.String()),
		slog.String("version", version.GetFullVersion()),
	)
	log.Debug("Flags set",
		slog.Bool("verbose", cfg.Verbose),
		slog.Bool("validate", cfg.Validate),
		slog.Bool("console", cfg.Console),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.String("gpuStrategy", cfg.GPUStrategy),
	)

	// Recover from panics and log them
	defer func() {
		if r := recover(); r != nil {
			log.Error("PANIC RECOVERED",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = errors.Newf("panic: %v", r)
		}
	}()

	demoCfg, err := cfg.DemoConfig()
	if err != nil {
		return err
	}

	d, err := demo.New(demoCfg, p, log, out)
	if err != nil {
		return err
	}
	defer d.Close()

	for _, timing := range d.Timings() {
		log.Trace("Step timing", slog.String("step", timing.Step), slog.Duration("took", timing.Duration))
	}

	if err := d.Run(ctx); err != nil {
		return d.Fail(err)
	}

	log.Debug("Window closed, shutting down", slog.String("run", runID.String()))
	return nil
}

// PrintError writes err and every hint attached to it, unless the demo
// already printed it to its console.
func PrintError(w io.Writer, err error) {
	if errors.Is(err, demo.ErrReported) {
		return
	}
	demo.PrintError(w, err)
}
