package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/vkdemo/internal/vkinit"
)

// newTestCommand returns a command with the root flags parsed from args.
func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "vkdemo"}
	addFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestNewConfigFromFlags_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfigFromFlags(newTestCommand(t), envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Validate:    true,
		Console:     true,
		Width:       640,
		Height:      360,
		GPUStrategy: "first",
	}, cfg)
}

func TestNewConfigFromFlags_Flags(t *testing.T) {
	t.Parallel()

	cmd := newTestCommand(t,
		"--validate=false",
		"--console=false",
		"--console-output", "out.txt",
		"--width", "800",
		"--height", "600",
		"--gpu-strategy", "index",
		"--gpu-index", "1",
		"-V",
		"--log-dir", "logs",
	)

	cfg, err := NewConfigFromFlags(cmd, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Verbose:       true,
		Validate:      false,
		Console:       false,
		ConsoleOutput: "out.txt",
		Width:         800,
		Height:        600,
		GPUStrategy:   "index",
		GPUIndex:      1,
		LogDir:        "logs",
	}, cfg)
}

func TestNewConfigFromFlags_EnvOverridesDefaults(t *testing.T) {
	t.Parallel()

	env := envFrom(map[string]string{
		EnvValidate:    "false",
		EnvConsole:     "0",
		EnvWidth:       "1024",
		EnvHeight:      "768",
		EnvGPUStrategy: "best",
		EnvGPUIndex:    "3",
		EnvLogDir:      "/tmp/vkdemo",
	})

	cfg, err := NewConfigFromFlags(newTestCommand(t), env)
	require.NoError(t, err)

	assert.False(t, cfg.Validate)
	assert.False(t, cfg.Console)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 768, cfg.Height)
	assert.Equal(t, "best", cfg.GPUStrategy)
	assert.Equal(t, 3, cfg.GPUIndex)
	assert.Equal(t, "/tmp/vkdemo", cfg.LogDir)
}

func TestNewConfigFromFlags_FlagWinsOverEnv(t *testing.T) {
	t.Parallel()

	env := envFrom(map[string]string{
		EnvValidate: "false",
		EnvWidth:    "1024",
	})

	cmd := newTestCommand(t, "--validate=true", "--width", "320")
	cfg, err := NewConfigFromFlags(cmd, env)
	require.NoError(t, err)

	assert.True(t, cfg.Validate)
	assert.Equal(t, 320, cfg.Width)
}

func TestNewConfigFromFlags_InvalidEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bool", map[string]string{EnvValidate: "maybe"}},
		{"int", map[string]string{EnvWidth: "wide"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewConfigFromFlags(newTestCommand(t), envFrom(tt.env))
			require.Error(t, err)
			for key := range tt.env {
				assert.Contains(t, err.Error(), key)
			}
		})
	}
}

func TestConfig_DemoConfig(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Validate:      false,
		Console:       true,
		ConsoleOutput: "console.log",
		Width:         320,
		Height:        200,
		GPUStrategy:   "index",
		GPUIndex:      2,
	}

	demoCfg, err := cfg.DemoConfig()
	require.NoError(t, err)

	assert.False(t, demoCfg.Validate)
	assert.True(t, demoCfg.Console.Enabled)
	assert.Equal(t, "console.log", demoCfg.Console.Options.OutputFile)
	assert.Equal(t, 320, demoCfg.Width)
	assert.Equal(t, 200, demoCfg.Height)
	assert.Equal(t, vkinit.StrategyIndex, demoCfg.GPUStrategy)
	assert.Equal(t, 2, demoCfg.GPUIndex)
}

func TestConfig_DemoConfigRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown strategy", Config{Width: 640, Height: 360, GPUStrategy: "fastest"}},
		{"zero width", Config{Width: 0, Height: 360, GPUStrategy: "first"}},
		{"negative index", Config{Width: 640, Height: 360, GPUStrategy: "index", GPUIndex: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.cfg.DemoConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "VKDEMO_TEST_DOTENV"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestLoadDotEnv_KeepsExistingValues(t *testing.T) {
	const key = "VKDEMO_TEST_DOTENV_EXISTING"
	t.Setenv(key, "from-shell")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-shell", os.Getenv(key))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Parallel()

	err := LoadDotEnv(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(t, err)
}

func TestNewLogConfigFromFlags_IgnoresDemoSettings(t *testing.T) {
	t.Parallel()

	env := envFrom(map[string]string{
		EnvWidth:    "wide",
		EnvValidate: "maybe",
		EnvLogDir:   "/tmp/vkdemo-logs",
	})

	cfg := NewLogConfigFromFlags(newTestCommand(t, "-V"), env)

	assert.Equal(t, &Config{Verbose: true, LogDir: "/tmp/vkdemo-logs"}, cfg)
}
