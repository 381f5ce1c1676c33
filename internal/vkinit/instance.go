package vkinit

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/vkdemo/internal/logger"
)

// InstanceOptions controls PrepareInstance.
type InstanceOptions struct {
	ApplicationName string

	// Validate enables the Khronos validation layer. It should be on
	// during development and off for a release.
	Validate bool

	// WindowExtensions are the instance extensions the window system
	// needs to create a surface.
	WindowExtensions []string

	// Messages receives validation output when Validate is set.
	Messages MessageHandler
}

// PreparedInstance is the result of PrepareInstance.
type PreparedInstance struct {
	Instance          Instance
	EnabledLayers     []string
	EnabledExtensions []string
}

// PrepareInstance picks the layers and extensions to enable and creates
// the Vulkan instance.
func PrepareInstance(driver Driver, opts InstanceOptions, log logger.LoggerInterface) (*PreparedInstance, error) {
	info := InstanceInfo{
		ApplicationName: opts.ApplicationName,
		EngineName:      "No Engine",
	}

	if opts.Validate {
		layers, err := driver.InstanceLayers()
		if err != nil {
			return nil, failure("vkEnumerateInstanceLayerProperties", err, hintGettingStarted)
		}

		log.Debug("Enumerated instance layers", slog.Int("count", len(layers)))

		if len(layers) == 0 || !Contains(layerNames(layers), ValidationLayerName) {
			return nil, failure("vkCreateInstance", ErrValidationLayerNotFound, hintGettingStarted, hintDisableValidation)
		}

		info.EnabledLayers = []string{ValidationLayerName}
	}

	extensions, err := driver.InstanceExtensions()
	if err != nil {
		return nil, failure("vkEnumerateInstanceExtensionProperties", err, hintGettingStarted)
	}
	available := extensionNames(extensions)

	log.Debug("Enumerated instance extensions", slog.Int("count", len(extensions)))

	if missing := Missing(available, opts.WindowExtensions); len(missing) > 0 {
		return nil, failure("vkCreateInstance",
			errors.Wrapf(ErrWindowExtensionMissing, "missing %s", strings.Join(missing, ", ")),
			hintICDInstalled, hintGettingStarted)
	}

	for _, ext := range opts.WindowExtensions {
		info.EnabledExtensions = appendUnique(info.EnabledExtensions, ext)
	}

	if opts.Validate {
		info.EnabledExtensions = appendUnique(info.EnabledExtensions, DebugUtilsExtensionName)
		info.Messages = opts.Messages
	}

	if Contains(available, PortabilityEnumerationExtensionName) {
		info.EnabledExtensions = appendUnique(info.EnabledExtensions, PortabilityEnumerationExtensionName)
		info.EnumeratePortability = true
	}

	log.Debug("Creating instance",
		slog.Any("layers", info.EnabledLayers),
		slog.Any("extensions", info.EnabledExtensions),
	)

	instance, err := driver.CreateInstance(info)
	if err != nil {
		return nil, classifyCreateInstance(err)
	}

	return &PreparedInstance{
		Instance:          instance,
		EnabledLayers:     info.EnabledLayers,
		EnabledExtensions: info.EnabledExtensions,
	}, nil
}
