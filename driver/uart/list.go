package uart

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	devDir    = "/dev"
	sysfsRoot = "/sys"
)

// Serial device name patterns, checked after the exclusions below
var serialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
	regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
	regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
	regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
	regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
	regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
	regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
	regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
}

// Virtual terminals and other non-serial devices
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^tty\d+$`),
	regexp.MustCompile(`^console$`),
	regexp.MustCompile(`^ptmx$`),
	regexp.MustCompile(`^pty.*$`),
	regexp.MustCompile(`^pts/.*$`),
}

// ListPorts returns a sorted list of serial devices on the system
func ListPorts() ([]string, error) {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		name := entry.Name()
		if !isSerialName(name) {
			continue
		}
		fullPath := filepath.Join(devDir, name)
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

func isSerialName(name string) bool {
	for _, p := range excludePatterns {
		if p.MatchString(name) {
			return false
		}
	}
	for _, p := range serialPatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo describes a serial device
type PortInfo struct {
	Name            string
	Path            string
	Description     string
	USB             bool
	VendorID        string
	ProductID       string
	SerialNumber    string
	Manufacturer    string
	Product         string
	InterfaceNumber string
}

// CDC reports whether the device is a USB CDC/ACM endpoint, which behaves
// like a board's native USB serial rather than a UART behind an adapter.
func (p *PortInfo) CDC() bool {
	return strings.HasPrefix(p.Name, "ttyACM")
}

// GetPortInfo returns detailed information about a specific port
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)
	info := &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
	}

	if strings.HasPrefix(name, "ttyUSB") || strings.HasPrefix(name, "ttyACM") {
		info.USB = true
		enrichUSBInfo(info)
	}

	return info, nil
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// enrichUSBInfo fills the USB fields from sysfs. The tty's device link points
// at the USB interface; the USB device is its parent. Missing files leave the
// fields empty.
func enrichUSBInfo(info *PortInfo) {
	link := filepath.Join(sysfsRoot, "class", "tty", info.Name, "device")
	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return
	}

	// ttyUSB has an extra ttyUSBn directory below the interface
	iface := resolved
	if strings.HasPrefix(filepath.Base(iface), "ttyUSB") {
		iface = filepath.Dir(iface)
	}
	info.InterfaceNumber = readSysfsFile(filepath.Join(iface, "bInterfaceNumber"))

	dev := filepath.Dir(iface)
	info.VendorID = readSysfsFile(filepath.Join(dev, "idVendor"))
	info.ProductID = readSysfsFile(filepath.Join(dev, "idProduct"))
	info.SerialNumber = readSysfsFile(filepath.Join(dev, "serial"))
	info.Manufacturer = readSysfsFile(filepath.Join(dev, "manufacturer"))
	info.Product = readSysfsFile(filepath.Join(dev, "product"))
}

func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
