package vkinit

import (
	"log/slog"

	"github.com/vkngwrapper/vkdemo/internal/logger"
)

// DeviceInventory is everything enumerable about one physical device.
type DeviceInventory struct {
	Properties    DeviceProperties
	Extensions    []Extension
	QueueFamilies []QueueFamily
}

// SupportsSwapchain reports whether the device offers VK_KHR_swapchain.
func (d DeviceInventory) SupportsSwapchain() bool {
	return Contains(extensionNames(d.Extensions), SwapchainExtensionName)
}

// Inventory lists the layers, extensions and devices a driver exposes.
type Inventory struct {
	Layers     []Layer
	Extensions []Extension
	Devices    []DeviceInventory
}

// HasValidationLayer reports whether the Khronos validation layer is installed.
func (inv *Inventory) HasValidationLayer() bool {
	return Contains(layerNames(inv.Layers), ValidationLayerName)
}

// TakeInventory enumerates everything the driver offers. It creates a
// short-lived instance with no layers to reach the physical devices.
func TakeInventory(driver Driver, log logger.LoggerInterface) (*Inventory, error) {
	inv := &Inventory{}

	var err error
	inv.Layers, err = driver.InstanceLayers()
	if err != nil {
		return nil, failure("vkEnumerateInstanceLayerProperties", err)
	}

	inv.Extensions, err = driver.InstanceExtensions()
	if err != nil {
		return nil, failure("vkEnumerateInstanceExtensionProperties", err)
	}

	info := InstanceInfo{
		ApplicationName: "vkdemo info",
		EngineName:      "No Engine",
	}
	if Contains(extensionNames(inv.Extensions), PortabilityEnumerationExtensionName) {
		info.EnabledExtensions = []string{PortabilityEnumerationExtensionName}
		info.EnumeratePortability = true
	}

	instance, err := driver.CreateInstance(info)
	if err != nil {
		return nil, classifyCreateInstance(err)
	}
	defer instance.Destroy()

	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, failure("vkEnumeratePhysicalDevices", err)
	}

	for i, device := range devices {
		var entry DeviceInventory

		entry.Properties, err = device.Properties()
		if err != nil {
			return nil, failure("vkGetPhysicalDeviceProperties", err)
		}

		entry.Extensions, err = device.Extensions()
		if err != nil {
			return nil, failure("vkEnumerateDeviceExtensionProperties", err)
		}

		entry.QueueFamilies, err = device.QueueFamilies(nil)
		if err != nil {
			return nil, failure("vkGetPhysicalDeviceQueueFamilyProperties", err)
		}

		log.Debug("Inspected physical device", slog.Int("index", i), slog.String("name", entry.Properties.Name))
		inv.Devices = append(inv.Devices, entry)
	}

	return inv, nil
}
