// Package vkinit walks through the first steps of bringing up Vulkan:
// choosing instance layers and extensions, creating the instance, and
// picking a physical device that can present to a window.
//
// The package talks to the driver only through the small interfaces
// below. internal/vkng implements them on top of vkngwrapper; tests use
// the fakes in vkinittest.
package vkinit

// Names of the layers and extensions this package looks for.
const (
	ValidationLayerName                 = "VK_LAYER_KHRONOS_validation"
	DebugUtilsExtensionName             = "VK_EXT_debug_utils"
	PortabilityEnumerationExtensionName = "VK_KHR_portability_enumeration"
	SwapchainExtensionName              = "VK_KHR_swapchain"
	PortabilitySubsetExtensionName      = "VK_KHR_portability_subset"
)

// Layer describes one instance layer reported by the loader.
type Layer struct {
	Name                  string
	Description           string
	SpecVersion           string
	ImplementationVersion string
}

// Extension describes one instance or device extension.
type Extension struct {
	Name        string
	SpecVersion uint32
}

// Severity of a message produced by the validation layer.
type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// DebugMessage is one callback from the debug messenger.
type DebugMessage struct {
	Severity Severity
	Type     string
	Text     string
}

// MessageHandler receives validation layer output.
type MessageHandler func(msg DebugMessage)

// InstanceInfo is everything handed to vkCreateInstance.
type InstanceInfo struct {
	ApplicationName   string
	EngineName        string
	EnabledLayers     []string
	EnabledExtensions []string

	// EnumeratePortability sets the portability enumeration create flag.
	EnumeratePortability bool

	// Messages is non-nil when a debug messenger should be attached to
	// the instance.
	Messages MessageHandler
}

// Driver is the global (pre-instance) entry point of the Vulkan loader.
type Driver interface {
	InstanceLayers() ([]Layer, error)
	InstanceExtensions() ([]Extension, error)
	CreateInstance(info InstanceInfo) (Instance, error)
}

// Instance is a live Vulkan instance.
type Instance interface {
	PhysicalDevices() ([]PhysicalDevice, error)
	Destroy()
}

// Surface is a presentable window surface owned by an instance.
type Surface interface {
	Destroy()
}

// DeviceType mirrors VkPhysicalDeviceType.
type DeviceType int

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "integrated GPU"
	case DeviceTypeDiscreteGPU:
		return "discrete GPU"
	case DeviceTypeVirtualGPU:
		return "virtual GPU"
	case DeviceTypeCPU:
		return "CPU"
	}
	return "other"
}

// DeviceProperties is the subset of VkPhysicalDeviceProperties we report.
type DeviceProperties struct {
	Name                string
	Type                DeviceType
	VendorID            uint32
	DeviceID            uint32
	APIVersion          string
	DriverVersion       string
	MaxImageDimension2D int
}

// QueueFamily summarizes one queue family of a physical device.
type QueueFamily struct {
	Index      int
	QueueCount int
	Graphics   bool
	Compute    bool
	Transfer   bool
	Present    bool
}

// PhysicalDevice is a GPU as reported by vkEnumeratePhysicalDevices.
// It can be queried but not commanded.
type PhysicalDevice interface {
	Properties() (DeviceProperties, error)
	Extensions() ([]Extension, error)

	// QueueFamilies reports present support against surface; with a nil
	// surface Present is always false.
	QueueFamilies(surface Surface) ([]QueueFamily, error)
}
