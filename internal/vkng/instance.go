package vkng

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/vkdemo/internal/logger"
	"github.com/vkngwrapper/vkdemo/internal/vkinit"
)

// Instance wraps a vkngwrapper instance driver and the extension drivers
// created from it.
type Instance struct {
	driver        core1_0.CoreInstanceDriver
	surfaceDriver khr_surface.ExtensionDriver
	debugDriver   ext_debug_utils.ExtensionDriver
	messenger     ext_debug_utils.DebugUtilsMessenger
	log           logger.LoggerInterface
}

var _ vkinit.Instance = (*Instance)(nil)

func (i *Instance) PhysicalDevices() ([]vkinit.PhysicalDevice, error) {
	devices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}

	wrapped := make([]vkinit.PhysicalDevice, 0, len(devices))
	for _, device := range devices {
		wrapped = append(wrapped, &PhysicalDevice{instance: i, device: device})
	}
	return wrapped, nil
}

// CreateSurface creates a presentable surface for an SDL window.
func (i *Instance) CreateSurface(window *sdl.Window) (*Surface, error) {
	surface, err := vkng_sdl2.CreateSurface(i.driver.Instance(), i.surfaceDriver, window)
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateSurfaceKHR")
	}
	return &Surface{driver: i.surfaceDriver, surface: surface}, nil
}

func (i *Instance) Destroy() {
	if i.messenger.Initialized() {
		i.debugDriver.DestroyDebugUtilsMessenger(i.messenger, nil)
		i.messenger = ext_debug_utils.DebugUtilsMessenger{}
	}

	if i.driver != nil {
		i.driver.DestroyInstance(nil)
		i.driver = nil
	}
}

// Surface wraps a khr_surface.Surface.
type Surface struct {
	driver  khr_surface.ExtensionDriver
	surface khr_surface.Surface
}

var _ vkinit.Surface = (*Surface)(nil)

func (s *Surface) Destroy() {
	if s.surface.Initialized() {
		s.driver.DestroySurface(s.surface, nil)
		s.surface = khr_surface.Surface{}
	}
}

// PhysicalDevice wraps a core1_0.PhysicalDevice.
type PhysicalDevice struct {
	instance *Instance
	device   core1_0.PhysicalDevice
}

var _ vkinit.PhysicalDevice = (*PhysicalDevice)(nil)

func (p *PhysicalDevice) Properties() (vkinit.DeviceProperties, error) {
	props, err := p.instance.driver.GetPhysicalDeviceProperties(p.device)
	if err != nil {
		return vkinit.DeviceProperties{}, err
	}

	out := vkinit.DeviceProperties{
		Name:          props.DriverName,
		Type:          deviceType(props.DriverType),
		VendorID:      uint32(props.VendorID),
		DeviceID:      uint32(props.DeviceID),
		APIVersion:    fmt.Sprint(props.APIVersion),
		DriverVersion: fmt.Sprint(props.DriverVersion),
	}
	if props.Limits != nil {
		out.MaxImageDimension2D = int(props.Limits.MaxImageDimension2D)
	}
	return out, nil
}

func (p *PhysicalDevice) Extensions() ([]vkinit.Extension, error) {
	available, _, err := p.instance.driver.EnumerateDeviceExtensionProperties(p.device)
	if err != nil {
		return nil, err
	}
	return toExtensions(available), nil
}

func (p *PhysicalDevice) QueueFamilies(surface vkinit.Surface) ([]vkinit.QueueFamily, error) {
	var target *Surface
	if surface != nil {
		s, ok := surface.(*Surface)
		if !ok {
			return nil, errors.Newf("unsupported surface type %T", surface)
		}
		target = s
	}

	properties := p.instance.driver.GetPhysicalDeviceQueueFamilyProperties(p.device)

	families := make([]vkinit.QueueFamily, 0, len(properties))
	for idx, family := range properties {
		entry := vkinit.QueueFamily{
			Index:      idx,
			QueueCount: int(family.QueueCount),
			Graphics:   family.QueueFlags&core1_0.QueueGraphics != 0,
			Compute:    family.QueueFlags&core1_0.QueueCompute != 0,
			Transfer:   family.QueueFlags&core1_0.QueueTransfer != 0,
		}

		if target != nil {
			supported, _, err := target.driver.GetPhysicalDeviceSurfaceSupport(target.surface, p.device, idx)
			if err != nil {
				return nil, errors.Wrap(err, "vkGetPhysicalDeviceSurfaceSupportKHR")
			}
			entry.Present = supported
		}

		families = append(families, entry)
	}
	return families, nil
}

func deviceType(t core1_0.PhysicalDeviceType) vkinit.DeviceType {
	switch t {
	case core1_0.PhysicalDeviceTypeIntegratedGPU:
		return vkinit.DeviceTypeIntegratedGPU
	case core1_0.PhysicalDeviceTypeDiscreteGPU:
		return vkinit.DeviceTypeDiscreteGPU
	case core1_0.PhysicalDeviceTypeVirtualGPU:
		return vkinit.DeviceTypeVirtualGPU
	case core1_0.PhysicalDeviceTypeCPU:
		return vkinit.DeviceTypeCPU
	}
	return vkinit.DeviceTypeOther
}
