package dieselcore

import (
	"reflect"
	"testing"

	"github.com/andewx/dieselcore/logging"
	"github.com/pkg/errors"
)

func TestNewCoreInstanceDevelopment(t *testing.T) {
	d := newFakeDriver()
	instance, err := NewCoreInstance(d, newFakeWindow(), DefaultConfig(logging.Development))
	if err != nil {
		t.Fatalf("NewCoreInstance: %v", err)
	}
	info := d.instanceInfo
	if want := []string{ValidationLayer}; !reflect.DeepEqual(info.Layers, want) {
		t.Errorf("Layers = %q, want %q", info.Layers, want)
	}
	want := []string{"VK_KHR_surface", "VK_KHR_xcb_surface", DebugReportExtension}
	if !reflect.DeepEqual(info.Extensions, want) {
		t.Errorf("Extensions = %q, want %q", info.Extensions, want)
	}
	if info.ApplicationName != "Preparation" || info.EngineName != "No Engine" {
		t.Errorf("identity = %q / %q", info.ApplicationName, info.EngineName)
	}
	if info.APIVersion != MakeVersion(1, 3, 0) {
		t.Errorf("APIVersion = %s", versionString(info.APIVersion))
	}
	if !reflect.DeepEqual(instance.Extensions(), want) {
		t.Errorf("instance.Extensions = %q", instance.Extensions())
	}

	instance.Destroy()
	instance.Destroy()
	if n := d.called("DestroyInstance"); n != 1 {
		t.Errorf("DestroyInstance called %d times, want 1", n)
	}
}

func TestNewCoreInstanceShippingSkipsLayers(t *testing.T) {
	d := newFakeDriver()
	d.instanceLayers = nil
	if _, err := NewCoreInstance(d, newFakeWindow(), DefaultConfig(logging.Shipping)); err != nil {
		t.Fatalf("NewCoreInstance: %v", err)
	}
	if d.called("InstanceLayers") != 0 {
		t.Error("instance layers enumerated outside development")
	}
	if len(d.instanceInfo.Layers) != 0 {
		t.Errorf("Layers = %q, want none", d.instanceInfo.Layers)
	}
	if want := []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}; !reflect.DeepEqual(d.instanceInfo.Extensions, want) {
		t.Errorf("Extensions = %q, want %q", d.instanceInfo.Extensions, want)
	}
}

func TestNewCoreInstanceFailures(t *testing.T) {
	tests := []struct {
		name    string
		profile logging.Profile
		setup   func(d *fakeDriver)
		wantAPI bool
	}{
		{
			name:    "missing validation layer",
			profile: logging.Development,
			setup:   func(d *fakeDriver) { d.instanceLayers = []string{"VK_LAYER_MESA_device_select"} },
		},
		{
			name:    "missing surface extension",
			profile: logging.Editor,
			setup:   func(d *fakeDriver) { d.instanceExtensions = []string{"VK_KHR_surface"} },
		},
		{
			name:    "missing debug report extension",
			profile: logging.Development,
			setup:   func(d *fakeDriver) { d.instanceExtensions = []string{"VK_KHR_surface", "VK_KHR_xcb_surface"} },
		},
		{
			name:    "layer enumeration fails",
			profile: logging.Development,
			setup:   func(d *fakeDriver) { d.failOn["InstanceLayers"] = 1 },
			wantAPI: true,
		},
		{
			name:    "driver rejects instance",
			profile: logging.Shipping,
			setup:   func(d *fakeDriver) { d.failOn["CreateInstance"] = 1 },
			wantAPI: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDriver()
			tt.setup(d)
			instance, err := NewCoreInstance(d, newFakeWindow(), DefaultConfig(tt.profile))
			if instance != nil {
				t.Fatal("instance returned with an error")
			}
			var ice *InstanceCreationError
			if !errors.As(err, &ice) {
				t.Fatalf("err = %v, want *InstanceCreationError", err)
			}
			var api *APIError
			if got := errors.As(err, &api); got != tt.wantAPI {
				t.Errorf("wraps APIError = %v, want %v (%v)", got, tt.wantAPI, err)
			}
			if !tt.wantAPI && d.called("CreateInstance") != 0 {
				t.Error("instance created despite missing names")
			}
		})
	}
}
