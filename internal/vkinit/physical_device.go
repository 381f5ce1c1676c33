package vkinit

import (
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/vkdemo/internal/logger"
)

// Strategy decides which physical device PreparePhysicalDevice uses.
type Strategy string

const (
	// StrategyFirst takes the first device the driver lists. Drivers put
	// the GPU chosen in the vendor control panel first.
	StrategyFirst Strategy = "first"
	// StrategyBest scores every device and takes the highest.
	StrategyBest Strategy = "best"
	// StrategyIndex takes DeviceOptions.Index.
	StrategyIndex Strategy = "index"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyFirst, StrategyBest, StrategyIndex:
		return Strategy(s), nil
	case "":
		return StrategyFirst, nil
	}
	return "", errors.Newf("unknown gpu strategy %q (want first, best or index)", s)
}

// DeviceOptions controls PreparePhysicalDevice.
type DeviceOptions struct {
	Strategy Strategy
	Index    int

	// Surface, when set, is used to find a queue family that can present.
	Surface Surface

	// Found, when set, is called with the chosen device's properties
	// before its extensions are checked.
	Found func(props DeviceProperties)
}

// SelectedDevice is the physical device chosen by PreparePhysicalDevice.
type SelectedDevice struct {
	Device     PhysicalDevice
	Index      int
	Properties DeviceProperties

	// EnabledExtensions is the device extension list for the logical
	// device that would be created next.
	EnabledExtensions []string

	QueueFamilies  []QueueFamily
	GraphicsFamily *int
	PresentFamily  *int
}

// CanPresent reports whether a graphics and a present queue family were found.
func (d *SelectedDevice) CanPresent() bool {
	return d.GraphicsFamily != nil && d.PresentFamily != nil
}

// PreparePhysicalDevice enumerates the GPUs of instance, picks one and
// checks that it can drive a swapchain.
func PreparePhysicalDevice(instance Instance, opts DeviceOptions, log logger.LoggerInterface) (*SelectedDevice, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, failure("vkEnumeratePhysicalDevices", err, hintICDInstalled, hintGettingStarted)
	}

	if len(devices) == 0 {
		return nil, failure("vkEnumeratePhysicalDevices", ErrNoPhysicalDevices, hintICDInstalled, hintGettingStarted)
	}

	log.Debug("Enumerated physical devices", slog.Int("count", len(devices)))

	index, err := pickDevice(devices, opts, log)
	if err != nil {
		return nil, err
	}

	selected := &SelectedDevice{
		Device: devices[index],
		Index:  index,
	}

	selected.Properties, err = selected.Device.Properties()
	if err != nil {
		return nil, failure("vkGetPhysicalDeviceProperties", err)
	}

	if opts.Found != nil {
		opts.Found(selected.Properties)
	}

	extensions, err := selected.Device.Extensions()
	if err != nil {
		return nil, failure("vkEnumerateDeviceExtensionProperties", err, hintICDInstalled, hintGettingStarted)
	}
	available := extensionNames(extensions)

	if !Contains(available, SwapchainExtensionName) {
		// Same failure title as instance creation.
		return nil, failure("vkCreateInstance", ErrSwapchainNotFound, hintICDInstalled, hintGettingStarted)
	}
	selected.EnabledExtensions = []string{SwapchainExtensionName}

	// Needed on portability implementations such as MoltenVK.
	if Contains(available, PortabilitySubsetExtensionName) {
		selected.EnabledExtensions = append(selected.EnabledExtensions, PortabilitySubsetExtensionName)
	}

	selected.QueueFamilies, err = selected.Device.QueueFamilies(opts.Surface)
	if err != nil {
		return nil, failure("vkGetPhysicalDeviceQueueFamilyProperties", err)
	}
	selected.GraphicsFamily, selected.PresentFamily = findQueueFamilies(selected.QueueFamilies)

	if opts.Surface != nil && !selected.CanPresent() {
		log.Warn("Selected GPU has no queue family that can present to the window",
			slog.String("gpu", selected.Properties.Name))
	}

	return selected, nil
}

func pickDevice(devices []PhysicalDevice, opts DeviceOptions, log logger.LoggerInterface) (int, error) {
	switch opts.Strategy {
	case StrategyIndex:
		if opts.Index < 0 || opts.Index >= len(devices) {
			return 0, failure("vkEnumeratePhysicalDevices",
				errors.Wrapf(ErrDeviceIndexOutOfRange, "index %d, %d device(s) available", opts.Index, len(devices)))
		}
		return opts.Index, nil
	case StrategyBest:
		best, bestScore := -1, 0
		for i, device := range devices {
			score := rateDevice(device, log)
			log.Debug("Rated physical device", slog.Int("index", i), slog.Int("score", score))

			if score > bestScore {
				best, bestScore = i, score
			}
		}

		if best < 0 {
			return 0, failure("vkEnumeratePhysicalDevices", ErrNoSuitableDevice, hintICDInstalled)
		}
		return best, nil
	}
	return 0, nil
}

// rateDevice scores a device; zero means unusable.
func rateDevice(device PhysicalDevice, log logger.LoggerInterface) int {
	properties, err := device.Properties()
	if err != nil {
		log.Warn("Could not get physical device properties", slog.Any("error", err))
		return 0
	}

	families, err := device.QueueFamilies(nil)
	if err != nil {
		log.Warn("Could not get physical device queue families", slog.Any("error", err))
		return 0
	}

	if graphics, _ := findQueueFamilies(families); graphics == nil {
		return 0
	}

	score := properties.MaxImageDimension2D
	if properties.Type == DeviceTypeDiscreteGPU {
		score += 1000
	}

	// A device that reports nothing still beats no device at all.
	if score <= 0 {
		score = 1
	}
	return score
}

// findQueueFamilies returns the first graphics family and a present
// family, preferring one family that does both.
func findQueueFamilies(families []QueueFamily) (graphics, present *int) {
	for i := range families {
		family := families[i]
		if family.Graphics && family.Present {
			return &family.Index, &family.Index
		}
	}

	for i := range families {
		family := families[i]
		if family.Graphics && graphics == nil {
			graphics = &family.Index
		}
		if family.Present && present == nil {
			present = &family.Index
		}
	}
	return graphics, present
}

// Describe formats the properties for a human reader.
func (p DeviceProperties) Describe() string {
	return fmt.Sprintf("%s (%s, vendor 0x%04x, device 0x%04x, api %s)",
		p.Name, p.Type, p.VendorID, p.DeviceID, p.APIVersion)
}
