package vkinit_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/vkdemo/internal/logger"
	"github.com/vkngwrapper/vkdemo/internal/vkinit"
	"github.com/vkngwrapper/vkdemo/internal/vkinit/vkinittest"
)

func newInstance(devices ...*vkinittest.PhysicalDevice) *vkinittest.Instance {
	return &vkinittest.Instance{Devices: devices}
}

func TestPreparePhysicalDevice_TakesFirstDevice(t *testing.T) {
	integrated := vkinittest.NewPhysicalDevice("Integrated", vkinit.DeviceTypeIntegratedGPU)
	discrete := vkinittest.NewPhysicalDevice("Discrete", vkinit.DeviceTypeDiscreteGPU)

	selected, err := vkinit.PreparePhysicalDevice(newInstance(integrated, discrete), vkinit.DeviceOptions{}, logger.NewNoOpLogger())
	require.NoError(t, err)

	assert.Equal(t, 0, selected.Index)
	assert.Equal(t, "Integrated", selected.Properties.Name)
	assert.Equal(t, []string{vkinit.SwapchainExtensionName}, selected.EnabledExtensions)
}

func TestPreparePhysicalDevice_NoDevices(t *testing.T) {
	_, err := vkinit.PreparePhysicalDevice(newInstance(), vkinit.DeviceOptions{}, logger.NewNoOpLogger())

	require.Error(t, err)
	assert.True(t, errors.Is(err, vkinit.ErrNoPhysicalDevices))
	assert.Contains(t, err.Error(), "vkEnumeratePhysicalDevices Failure")
	assert.Contains(t, errors.GetAllHints(err), "Do you have a compatible Vulkan installable client driver (ICD) installed?")
}

func TestPreparePhysicalDevice_EnumerationError(t *testing.T) {
	instance := newInstance()
	instance.DevicesErr = errors.New("device lost")

	_, err := vkinit.PreparePhysicalDevice(instance, vkinit.DeviceOptions{}, logger.NewNoOpLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
}

func TestPreparePhysicalDevice_SwapchainMissing(t *testing.T) {
	device := vkinittest.NewPhysicalDevice("Compute only", vkinit.DeviceTypeDiscreteGPU)
	device.Exts = []vkinit.Extension{{Name: "VK_KHR_maintenance1"}}

	_, err := vkinit.PreparePhysicalDevice(newInstance(device), vkinit.DeviceOptions{}, logger.NewNoOpLogger())

	require.Error(t, err)
	assert.True(t, errors.Is(err, vkinit.ErrSwapchainNotFound))
	assert.Contains(t, err.Error(), "vkCreateInstance Failure")
	assert.Contains(t, err.Error(), "vkEnumerateDeviceExtensionProperties failed to find the VK_KHR_swapchain extension")
}

func TestPreparePhysicalDevice_FoundBeforeExtensionCheck(t *testing.T) {
	device := vkinittest.NewPhysicalDevice("Compute only", vkinit.DeviceTypeDiscreteGPU)
	device.Exts = nil

	var found []string
	_, err := vkinit.PreparePhysicalDevice(newInstance(device), vkinit.DeviceOptions{
		Found: func(props vkinit.DeviceProperties) { found = append(found, props.Name) },
	}, logger.NewNoOpLogger())

	require.Error(t, err)
	assert.True(t, errors.Is(err, vkinit.ErrSwapchainNotFound))
	assert.Equal(t, []string{"Compute only"}, found)
}

func TestPreparePhysicalDevice_FoundNotCalledWithoutProperties(t *testing.T) {
	device := vkinittest.NewPhysicalDevice("Broken", vkinit.DeviceTypeDiscreteGPU)
	device.PropsErr = errors.New("device lost")

	called := false
	_, err := vkinit.PreparePhysicalDevice(newInstance(device), vkinit.DeviceOptions{
		Found: func(vkinit.DeviceProperties) { called = true },
	}, logger.NewNoOpLogger())

	require.Error(t, err)
	assert.False(t, called)
}

func TestPreparePhysicalDevice_NoDeviceExtensions(t *testing.T) {
	device := vkinittest.NewPhysicalDevice("Bare", vkinit.DeviceTypeCPU)
	device.Exts = nil

	_, err := vkinit.PreparePhysicalDevice(newInstance(device), vkinit.DeviceOptions{}, logger.NewNoOpLogger())

	assert.True(t, errors.Is(err, vkinit.ErrSwapchainNotFound))
}

func TestPreparePhysicalDevice_PortabilitySubset(t *testing.T) {
	device := vkinittest.NewPhysicalDevice("MoltenVK", vkinit.DeviceTypeIntegratedGPU)
	device.Exts = append(device.Exts, vkinit.Extension{Name: vkinit.PortabilitySubsetExtensionName})

	selected, err := vkinit.PreparePhysicalDevice(newInstance(device), vkinit.DeviceOptions{}, logger.NewNoOpLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{vkinit.SwapchainExtensionName, vkinit.PortabilitySubsetExtensionName}, selected.EnabledExtensions)
}

func TestPreparePhysicalDevice_Index(t *testing.T) {
	first := vkinittest.NewPhysicalDevice("First", vkinit.DeviceTypeIntegratedGPU)
	second := vkinittest.NewPhysicalDevice("Second", vkinit.DeviceTypeDiscreteGPU)

	selected, err := vkinit.PreparePhysicalDevice(newInstance(first, second), vkinit.DeviceOptions{
		Strategy: vkinit.StrategyIndex,
		Index:    1,
	}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, "Second", selected.Properties.Name)

	for _, index := range []int{-1, 2} {
		_, err = vkinit.PreparePhysicalDevice(newInstance(first, second), vkinit.DeviceOptions{
			Strategy: vkinit.StrategyIndex,
			Index:    index,
		}, logger.NewNoOpLogger())
		assert.True(t, errors.Is(err, vkinit.ErrDeviceIndexOutOfRange), "index %d", index)
	}
}

func TestPreparePhysicalDevice_Best(t *testing.T) {
	integrated := vkinittest.NewPhysicalDevice("Integrated", vkinit.DeviceTypeIntegratedGPU)
	discrete := vkinittest.NewPhysicalDevice("Discrete", vkinit.DeviceTypeDiscreteGPU)
	discrete.Props.MaxImageDimension2D = 8192
	noGraphics := vkinittest.NewPhysicalDevice("Compute", vkinit.DeviceTypeDiscreteGPU)
	noGraphics.Props.MaxImageDimension2D = 32768
	noGraphics.Families = []vkinit.QueueFamily{{Index: 0, QueueCount: 4, Compute: true}}

	selected, err := vkinit.PreparePhysicalDevice(newInstance(noGraphics, integrated, discrete), vkinit.DeviceOptions{
		Strategy: vkinit.StrategyBest,
	}, logger.NewNoOpLogger())
	require.NoError(t, err)

	// integrated: 16384, discrete: 8192 + 1000, compute-only: unusable
	assert.Equal(t, "Integrated", selected.Properties.Name)
	assert.Equal(t, 1, selected.Index)
}

func TestPreparePhysicalDevice_BestNoneSuitable(t *testing.T) {
	device := vkinittest.NewPhysicalDevice("Compute", vkinit.DeviceTypeDiscreteGPU)
	device.Families = []vkinit.QueueFamily{{Index: 0, Compute: true}}

	_, err := vkinit.PreparePhysicalDevice(newInstance(device), vkinit.DeviceOptions{
		Strategy: vkinit.StrategyBest,
	}, logger.NewNoOpLogger())

	assert.True(t, errors.Is(err, vkinit.ErrNoSuitableDevice))
}

func TestPreparePhysicalDevice_QueueFamilies(t *testing.T) {
	device := vkinittest.NewPhysicalDevice("Split", vkinit.DeviceTypeDiscreteGPU)
	device.Families = []vkinit.QueueFamily{
		{Index: 0, Graphics: true},
		{Index: 1, Transfer: true},
	}
	device.PresentFamily = 1

	selected, err := vkinit.PreparePhysicalDevice(newInstance(device), vkinit.DeviceOptions{
		Surface: &vkinittest.Surface{},
	}, logger.NewNoOpLogger())
	require.NoError(t, err)

	require.True(t, selected.CanPresent())
	assert.Equal(t, 0, *selected.GraphicsFamily)
	assert.Equal(t, 1, *selected.PresentFamily)

	selected, err = vkinit.PreparePhysicalDevice(newInstance(device), vkinit.DeviceOptions{}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.False(t, selected.CanPresent(), "without a surface nothing can present")
}

func TestPreparePhysicalDevice_PrefersSharedFamily(t *testing.T) {
	device := vkinittest.NewPhysicalDevice("Shared", vkinit.DeviceTypeDiscreteGPU)
	device.Families = []vkinit.QueueFamily{
		{Index: 0, Graphics: true},
		{Index: 1, Graphics: true},
	}
	device.PresentFamily = 1

	selected, err := vkinit.PreparePhysicalDevice(newInstance(device), vkinit.DeviceOptions{
		Surface: &vkinittest.Surface{},
	}, logger.NewNoOpLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, *selected.GraphicsFamily)
	assert.Equal(t, 1, *selected.PresentFamily)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"first", "best", "index"} {
		strategy, err := vkinit.ParseStrategy(s)
		require.NoError(t, err)
		assert.Equal(t, vkinit.Strategy(s), strategy)
	}

	strategy, err := vkinit.ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, vkinit.StrategyFirst, strategy)

	_, err = vkinit.ParseStrategy("fastest")
	assert.Error(t, err)
}

func TestDeviceProperties_Describe(t *testing.T) {
	props := vkinittest.NewPhysicalDevice("Fake GPU", vkinit.DeviceTypeDiscreteGPU).Props

	assert.Equal(t, "Fake GPU (discrete GPU, vendor 0x10de, device 0x1234, api 1.3.0)", props.Describe())
}
