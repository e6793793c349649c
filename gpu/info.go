package gpu

import "fmt"

// AdapterInfo describes the adapter the benchmarks ran on.
type AdapterInfo struct {
	Name        string `json:"name"`
	Vendor      string `json:"vendor"`
	VendorID    uint32 `json:"vendor_id"`
	DeviceID    uint32 `json:"device_id"`
	Driver      string `json:"driver"`
	Backend     string `json:"backend"`
	AdapterType string `json:"adapter_type"`
}

// Info returns a description of the acquired adapter.
func (gc *Context) Info() AdapterInfo {
	if gc.Adapter == nil {
		return AdapterInfo{}
	}

	p := gc.Adapter.GetInfo()

	return AdapterInfo{
		Name:        p.Name,
		Vendor:      p.VendorName,
		VendorID:    p.VendorId,
		DeviceID:    p.DeviceId,
		Driver:      p.DriverDescription,
		Backend:     fmt.Sprint(p.BackendType),
		AdapterType: fmt.Sprint(p.AdapterType),
	}
}
