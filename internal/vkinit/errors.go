package vkinit

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Result is a raw VkResult code.
type Result int32

const (
	ResultSuccess                   Result = 0
	ResultErrorOutOfHostMemory      Result = -1
	ResultErrorOutOfDeviceMemory    Result = -2
	ResultErrorInitializationFailed Result = -3
	ResultErrorLayerNotPresent      Result = -6
	ResultErrorExtensionNotPresent  Result = -7
	ResultErrorIncompatibleDriver   Result = -9
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "VK_SUCCESS"
	case ResultErrorOutOfHostMemory:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case ResultErrorOutOfDeviceMemory:
		return "VK_ERROR_OUT_OF_DEVICE_MEMORY"
	case ResultErrorInitializationFailed:
		return "VK_ERROR_INITIALIZATION_FAILED"
	case ResultErrorLayerNotPresent:
		return "VK_ERROR_LAYER_NOT_PRESENT"
	case ResultErrorExtensionNotPresent:
		return "VK_ERROR_EXTENSION_NOT_PRESENT"
	case ResultErrorIncompatibleDriver:
		return "VK_ERROR_INCOMPATIBLE_DRIVER"
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

// ResultError carries the VkResult a driver call failed with.
type ResultError struct {
	Call   string
	Result Result
	Err    error
}

func (e *ResultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s returned %s: %v", e.Call, e.Result, e.Err)
	}
	return fmt.Sprintf("%s returned %s", e.Call, e.Result)
}

func (e *ResultError) Unwrap() error {
	return e.Err
}

var (
	ErrValidationLayerNotFound = errors.New("vkEnumerateInstanceLayerProperties failed to find required validation layer")
	ErrWindowExtensionMissing  = errors.New("the window system requires an instance extension the driver does not offer")
	ErrIncompatibleDriver      = errors.New("cannot find a compatible Vulkan installable client driver (ICD)")
	ErrExtensionNotPresent     = errors.New("cannot find a specified extension library")
	ErrLayerNotPresent         = errors.New("cannot find a specified layer")
	ErrInstanceCreate          = errors.New("vkCreateInstance failed")
	ErrNoPhysicalDevices       = errors.New("vkEnumeratePhysicalDevices reported zero accessible devices")
	ErrDeviceIndexOutOfRange   = errors.New("requested physical device index is out of range")
	ErrNoSuitableDevice        = errors.New("failed to find a suitable GPU")
	ErrSwapchainNotFound       = errors.New("vkEnumerateDeviceExtensionProperties failed to find the " + SwapchainExtensionName + " extension")
)

const (
	hintGettingStarted    = "Please look at the Getting Started guide for additional information."
	hintICDInstalled      = "Do you have a compatible Vulkan installable client driver (ICD) installed?"
	hintLayersPath        = "Make sure your layers path is set appropriately."
	hintDisableValidation = "Validation can be turned off with --validate=false."
)

// failure prefixes err with the driver call that failed and attaches hints.
func failure(call string, err error, hints ...string) error {
	err = errors.Wrap(err, call+" Failure")
	for _, hint := range hints {
		err = errors.WithHint(err, hint)
	}
	return err
}

// because returns cause annotated with the sentinel's message and marked
// so that errors.Is(err, sentinel) holds.
func because(sentinel, cause error) error {
	return errors.Mark(errors.Wrap(cause, sentinel.Error()), sentinel)
}

// classifyCreateInstance maps a failed vkCreateInstance to the matching
// sentinel and advice.
func classifyCreateInstance(err error) error {
	var resultErr *ResultError
	if !errors.As(err, &resultErr) {
		return failure("vkCreateInstance", because(ErrInstanceCreate, err), hintICDInstalled, hintGettingStarted)
	}

	if resultErr.Call != "" && resultErr.Call != "vkCreateInstance" {
		return failure(resultErr.Call, err, hintGettingStarted)
	}

	switch resultErr.Result {
	case ResultErrorIncompatibleDriver:
		return failure("vkCreateInstance", because(ErrIncompatibleDriver, err), hintGettingStarted)
	case ResultErrorExtensionNotPresent:
		return failure("vkCreateInstance", because(ErrExtensionNotPresent, err), hintLayersPath)
	case ResultErrorLayerNotPresent:
		return failure("vkCreateInstance", because(ErrLayerNotPresent, err), hintLayersPath)
	}
	return failure("vkCreateInstance", because(ErrInstanceCreate, err), hintICDInstalled, hintGettingStarted)
}
