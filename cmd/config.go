// Package cmd implements the command-line interface for vkdemo.
package cmd

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vkngwrapper/vkdemo/internal/demo"
	"github.com/vkngwrapper/vkdemo/internal/vkinit"
)

// Environment variables that override flag defaults.
const (
	EnvValidate    = "VKDEMO_VALIDATE"
	EnvWidth       = "VKDEMO_WIDTH"
	EnvHeight      = "VKDEMO_HEIGHT"
	EnvConsole     = "VKDEMO_CONSOLE"
	EnvGPUStrategy = "VKDEMO_GPU_STRATEGY"
	EnvGPUIndex    = "VKDEMO_GPU_INDEX"
	EnvLogDir      = "VKDEMO_LOG_DIR"
)

// Config holds all application configuration
type Config struct {
	Verbose       bool
	Validate      bool
	Console       bool
	ConsoleOutput string
	Width         int
	Height        int
	GPUStrategy   string
	GPUIndex      int
	LogDir        string
}

// LoadDotEnv reads a .env file into the environment. A missing file is
// not an error and variables already set are left alone.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", path)
	}
	return nil
}

// NewConfigFromFlags creates a Config from parsed command flags. A flag
// given on the command line wins over its environment variable, which
// wins over the flag default.
func NewConfigFromFlags(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*Config, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	r := flagReader{cmd: cmd, lookupEnv: lookupEnv}

	cfg := &Config{
		Verbose:       r.bool("verbose", ""),
		Validate:      r.bool("validate", EnvValidate),
		Console:       r.bool("console", EnvConsole),
		ConsoleOutput: r.string("console-output", ""),
		Width:         r.int("width", EnvWidth),
		Height:        r.int("height", EnvHeight),
		GPUStrategy:   r.string("gpu-strategy", EnvGPUStrategy),
		GPUIndex:      r.int("gpu-index", EnvGPUIndex),
		LogDir:        r.string("log-dir", EnvLogDir),
	}

	if r.err != nil {
		return nil, r.err
	}
	return cfg, nil
}

// NewLogConfigFromFlags reads only the logging settings, for commands
// that never open a window.
func NewLogConfigFromFlags(cmd *cobra.Command, lookupEnv func(string) (string, bool)) *Config {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	r := flagReader{cmd: cmd, lookupEnv: lookupEnv}
	return &Config{
		Verbose: r.bool("verbose", ""),
		LogDir:  r.string("log-dir", EnvLogDir),
	}
}

// DemoConfig converts the CLI configuration into the demo's settings.
func (c *Config) DemoConfig() (demo.Config, error) {
	strategy, err := vkinit.ParseStrategy(c.GPUStrategy)
	if err != nil {
		return demo.Config{}, err
	}

	cfg := demo.DefaultConfig()
	cfg.Validate = c.Validate
	cfg.Console.Enabled = c.Console
	cfg.Console.Options.OutputFile = c.ConsoleOutput
	cfg.Width = c.Width
	cfg.Height = c.Height
	cfg.GPUStrategy = strategy
	cfg.GPUIndex = c.GPUIndex

	return cfg, cfg.Check()
}

// flagReader resolves flag values, remembering the first parse failure.
type flagReader struct {
	cmd       *cobra.Command
	lookupEnv func(string) (string, bool)
	err       error
}

// env returns the environment value for a flag the user did not set.
func (r *flagReader) env(name, key string) (string, bool) {
	if key == "" || r.cmd.Flags().Changed(name) {
		return "", false
	}
	return r.lookupEnv(key)
}

func (r *flagReader) fail(err error, key, value string) {
	if r.err == nil {
		r.err = errors.Wrapf(err, "invalid %s=%q", key, value)
	}
}

func (r *flagReader) bool(name, key string) bool {
	if value, ok := r.env(name, key); ok {
		v, err := strconv.ParseBool(value)
		if err != nil {
			r.fail(err, key, value)
		}
		return v
	}

	v, err := r.cmd.Flags().GetBool(name)
	if err != nil {
		// Try persistent flags if not found in local flags
		v, _ = r.cmd.PersistentFlags().GetBool(name)
	}
	return v
}

func (r *flagReader) int(name, key string) int {
	if value, ok := r.env(name, key); ok {
		v, err := strconv.Atoi(value)
		if err != nil {
			r.fail(err, key, value)
		}
		return v
	}

	v, err := r.cmd.Flags().GetInt(name)
	if err != nil {
		v, _ = r.cmd.PersistentFlags().GetInt(name)
	}
	return v
}

func (r *flagReader) string(name, key string) string {
	if value, ok := r.env(name, key); ok {
		return value
	}

	v, err := r.cmd.Flags().GetString(name)
	if err != nil {
		v, _ = r.cmd.PersistentFlags().GetString(name)
	}
	return v
}
