// Package vkinittest provides in-memory implementations of the vkinit
// driver interfaces.
package vkinittest

import (
	"github.com/vkngwrapper/vkdemo/internal/vkinit"
)

// Driver is a scripted vkinit.Driver.
type Driver struct {
	Layers        []vkinit.Layer
	Extensions    []vkinit.Extension
	LayersErr     error
	ExtensionsErr error
	CreateErr     error

	Instance *Instance

	// Created records every InstanceInfo passed to CreateInstance.
	Created []vkinit.InstanceInfo
}

// NewDriver returns a driver offering the validation layer, the given
// instance extensions and one GPU that supports the swapchain.
func NewDriver(extensions ...string) *Driver {
	d := &Driver{
		Layers: []vkinit.Layer{
			{Name: vkinit.ValidationLayerName, Description: "Khronos Validation Layer"},
		},
		Instance: &Instance{
			Devices: []*PhysicalDevice{NewPhysicalDevice("Fake GPU", vkinit.DeviceTypeDiscreteGPU)},
		},
	}
	for _, name := range extensions {
		d.Extensions = append(d.Extensions, vkinit.Extension{Name: name, SpecVersion: 1})
	}
	return d
}

func (d *Driver) InstanceLayers() ([]vkinit.Layer, error) {
	return d.Layers, d.LayersErr
}

func (d *Driver) InstanceExtensions() ([]vkinit.Extension, error) {
	return d.Extensions, d.ExtensionsErr
}

func (d *Driver) CreateInstance(info vkinit.InstanceInfo) (vkinit.Instance, error) {
	d.Created = append(d.Created, info)
	if d.CreateErr != nil {
		return nil, d.CreateErr
	}
	if d.Instance == nil {
		d.Instance = &Instance{}
	}
	d.Instance.Info = info
	return d.Instance, nil
}

// Instance is a scripted vkinit.Instance.
type Instance struct {
	Info       vkinit.InstanceInfo
	Devices    []*PhysicalDevice
	DevicesErr error
	Destroyed  int
}

func (i *Instance) PhysicalDevices() ([]vkinit.PhysicalDevice, error) {
	if i.DevicesErr != nil {
		return nil, i.DevicesErr
	}
	devices := make([]vkinit.PhysicalDevice, 0, len(i.Devices))
	for _, device := range i.Devices {
		devices = append(devices, device)
	}
	return devices, nil
}

func (i *Instance) Destroy() {
	i.Destroyed++
}

// PhysicalDevice is a scripted vkinit.PhysicalDevice.
type PhysicalDevice struct {
	Props         vkinit.DeviceProperties
	PropsErr      error
	Exts          []vkinit.Extension
	ExtsErr       error
	Families      []vkinit.QueueFamily
	FamiliesErr   error
	PresentFamily int
}

// NewPhysicalDevice returns a device with the swapchain extension and a
// single graphics queue family that can present.
func NewPhysicalDevice(name string, deviceType vkinit.DeviceType) *PhysicalDevice {
	return &PhysicalDevice{
		Props: vkinit.DeviceProperties{
			Name:                name,
			Type:                deviceType,
			VendorID:            0x10de,
			DeviceID:            0x1234,
			APIVersion:          "1.3.0",
			MaxImageDimension2D: 16384,
		},
		Exts: []vkinit.Extension{
			{Name: vkinit.SwapchainExtensionName, SpecVersion: 70},
		},
		Families: []vkinit.QueueFamily{
			{Index: 0, QueueCount: 16, Graphics: true, Compute: true, Transfer: true},
		},
		PresentFamily: 0,
	}
}

func (p *PhysicalDevice) Properties() (vkinit.DeviceProperties, error) {
	return p.Props, p.PropsErr
}

func (p *PhysicalDevice) Extensions() ([]vkinit.Extension, error) {
	return p.Exts, p.ExtsErr
}

func (p *PhysicalDevice) QueueFamilies(surface vkinit.Surface) ([]vkinit.QueueFamily, error) {
	if p.FamiliesErr != nil {
		return nil, p.FamiliesErr
	}
	families := make([]vkinit.QueueFamily, len(p.Families))
	copy(families, p.Families)
	for i := range families {
		families[i].Present = surface != nil && families[i].Index == p.PresentFamily
	}
	return families, nil
}

// Surface is a vkinit.Surface that counts Destroy calls.
type Surface struct {
	Destroyed int
}

func (s *Surface) Destroy() {
	s.Destroyed++
}
