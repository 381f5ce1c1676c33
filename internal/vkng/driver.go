// Package vkng implements the vkinit driver interfaces with vkngwrapper.
package vkng

import (
	"fmt"
	"log/slog"
	"sort"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/vkdemo/internal/logger"
	"github.com/vkngwrapper/vkdemo/internal/vkinit"
)

// Driver wraps the vkngwrapper global driver.
type Driver struct {
	global core1_0.GlobalDriver
	log    logger.LoggerInterface
}

var _ vkinit.Driver = (*Driver)(nil)

// NewSystemDriver loads the system Vulkan loader.
func NewSystemDriver(log logger.LoggerInterface) (*Driver, error) {
	global, err := core.CreateSystemDriver()
	if err != nil {
		return nil, errors.Wrap(err, "could not load the Vulkan loader")
	}
	return &Driver{global: global, log: log}, nil
}

// NewDriverFromProcAddr builds a driver on a vkGetInstanceProcAddr
// obtained elsewhere, typically from SDL.
func NewDriverFromProcAddr(procAddr unsafe.Pointer, log logger.LoggerInterface) (*Driver, error) {
	global, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "could not load the Vulkan loader")
	}
	return &Driver{global: global, log: log}, nil
}

func (d *Driver) InstanceLayers() ([]vkinit.Layer, error) {
	available, _, err := d.global.AvailableLayers()
	if err != nil {
		return nil, err
	}

	layers := make([]vkinit.Layer, 0, len(available))
	for name, props := range available {
		layers = append(layers, vkinit.Layer{
			Name:                  name,
			Description:           props.Description,
			SpecVersion:           fmt.Sprint(props.SpecVersion),
			ImplementationVersion: fmt.Sprint(props.ImplementationVersion),
		})
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].Name < layers[j].Name })

	return layers, nil
}

func (d *Driver) InstanceExtensions() ([]vkinit.Extension, error) {
	available, _, err := d.global.AvailableExtensions()
	if err != nil {
		return nil, err
	}
	return toExtensions(available), nil
}

func (d *Driver) CreateInstance(info vkinit.InstanceInfo) (vkinit.Instance, error) {
	options := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    common.CreateVersion(1, 0, 0),
		EngineName:            info.EngineName,
		EngineVersion:         common.CreateVersion(1, 0, 0),
		APIVersion:            common.Vulkan1_2,
		EnabledExtensionNames: info.EnabledExtensions,
		EnabledLayerNames:     info.EnabledLayers,
	}

	if info.EnumeratePortability {
		options.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	var messengerOptions ext_debug_utils.DebugUtilsMessengerCreateInfo
	if info.Messages != nil {
		messengerOptions = debugMessengerOptions(info.Messages)
		// Also covers messages from vkCreateInstance itself.
		options.Next = messengerOptions
	}

	vkInstance, result, err := d.global.CreateInstance(nil, options)
	if err != nil {
		return nil, &vkinit.ResultError{Call: "vkCreateInstance", Result: vkinit.Result(result), Err: err}
	}

	instanceDriver, err := d.global.BuildInstanceDriver(vkInstance)
	if err != nil {
		return nil, errors.Wrap(err, "could not load instance-level Vulkan commands")
	}

	instance := &Instance{
		driver:        instanceDriver,
		surfaceDriver: khr_surface.CreateExtensionDriverFromCoreDriver(instanceDriver),
		log:           d.log,
	}

	if info.Messages != nil {
		instance.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(instanceDriver)
		instance.messenger, result, err = instance.debugDriver.CreateDebugUtilsMessenger(nil, messengerOptions)
		if err != nil {
			instanceDriver.DestroyInstance(nil)
			return nil, &vkinit.ResultError{Call: "vkCreateDebugUtilsMessengerEXT", Result: vkinit.Result(result), Err: err}
		}
		d.log.Debug("Debug messenger installed")
	}

	d.log.Debug("Instance created", slog.String("application", info.ApplicationName))
	return instance, nil
}

func debugMessengerOptions(handler vkinit.MessageHandler) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			msg := vkinit.DebugMessage{
				Severity: vkinit.SeverityInfo,
				Type:     msgType.String(),
				Text:     data.Message,
			}
			switch {
			case severity&ext_debug_utils.SeverityError != 0:
				msg.Severity = vkinit.SeverityError
			case severity&ext_debug_utils.SeverityWarning != 0:
				msg.Severity = vkinit.SeverityWarning
			}
			handler(msg)
			return false
		},
	}
}

func toExtensions(available map[string]*core1_0.ExtensionProperties) []vkinit.Extension {
	extensions := make([]vkinit.Extension, 0, len(available))
	for name, props := range available {
		extensions = append(extensions, vkinit.Extension{
			Name:        name,
			SpecVersion: uint32(props.SpecVersion),
		})
	}
	sort.Slice(extensions, func(i, j int) bool { return extensions[i].Name < extensions[j].Name })
	return extensions
}
