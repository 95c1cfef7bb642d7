package usbcdc

import (
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Device is a USB serial device found on the host.
type Device struct {
	Path         string
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

var detailedPorts = enumerator.GetDetailedPortsList

// Devices lists the USB serial devices on the host, sorted by path.
func Devices() ([]Device, error) {
	ports, err := detailedPorts()
	if err != nil {
		return nil, err
	}

	var out []Device
	for _, p := range ports {
		if p == nil || !p.IsUSB {
			continue
		}
		out = append(out, Device{
			Path:         p.Name,
			VID:          strings.ToLower(p.VID),
			PID:          strings.ToLower(p.PID),
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Find returns the path of the first device with the given vendor and product
// IDs (hex, case-insensitive). An empty pid matches any product.
func Find(vid, pid string) (string, error) {
	devices, err := Devices()
	if err != nil {
		return "", err
	}
	for _, d := range devices {
		if strings.EqualFold(d.VID, vid) && (pid == "" || strings.EqualFold(d.PID, pid)) {
			return d.Path, nil
		}
	}
	return "", ErrDeviceNotFound
}
