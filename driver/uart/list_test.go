package uart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListPorts(t *testing.T) {
	ports, err := ListPorts()
	if err != nil {
		t.Errorf("ListPorts failed: %v", err)
	}

	for _, port := range ports {
		if !strings.HasPrefix(port, "/dev/") {
			t.Errorf("Port path doesn't start with /dev/: %s", port)
		}
		if !isCharacterDevice(port) {
			t.Errorf("Port is not a character device: %s", port)
		}
	}

	for i := 1; i < len(ports); i++ {
		if ports[i-1] > ports[i] {
			t.Errorf("Ports are not sorted: %s > %s", ports[i-1], ports[i])
		}
	}
}

func TestListPortsMissingDir(t *testing.T) {
	old := devDir
	devDir = filepath.Join(t.TempDir(), "nope")
	defer func() { devDir = old }()

	if _, err := ListPorts(); err == nil {
		t.Error("Expected error for missing device directory")
	}
}

func TestIsCharacterDevice(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/dev/null", true},
		{"/dev/zero", true},
		{"/tmp", false},
		{"/nonexistent", false},
	}

	for _, test := range tests {
		result := isCharacterDevice(test.path)
		if result != test.expected {
			t.Errorf("isCharacterDevice(%s) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestGetPortDescription(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"ttyUSB0", "USB Serial Port"},
		{"ttyACM0", "USB CDC/ACM Device"},
		{"ttyS0", "Standard Serial Port"},
		{"ttyAMA0", "ARM Serial Port"},
		{"ttymxc0", "i.MX Serial Port"},
		{"ttyO0", "OMAP Serial Port"},
		{"ttySAC0", "Samsung Serial Port"},
		{"ttyTHS0", "Tegra Serial Port"},
		{"unknown", "Serial Port"},
	}

	for _, test := range tests {
		result := getPortDescription(test.name)
		if result != test.expected {
			t.Errorf("getPortDescription(%s) = %s, expected %s", test.name, result, test.expected)
		}
	}
}

func TestGetPortInfo(t *testing.T) {
	info, err := GetPortInfo("/dev/null")
	if err != nil {
		t.Fatalf("GetPortInfo failed for /dev/null: %v", err)
	}

	if info.Name != "null" {
		t.Errorf("Expected name 'null', got '%s'", info.Name)
	}
	if info.Path != "/dev/null" {
		t.Errorf("Expected path '/dev/null', got '%s'", info.Path)
	}
	if info.Description == "" {
		t.Error("Description should not be empty")
	}
	if info.USB {
		t.Error("/dev/null reported as USB")
	}

	_, err = GetPortInfo("/dev/nonexistent")
	if err != ErrDeviceNotFound {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestSerialNameFiltering(t *testing.T) {
	tests := []struct {
		name        string
		shouldMatch bool
	}{
		{"ttyUSB0", true},
		{"ttyUSB1", true},
		{"ttyACM0", true},
		{"ttyS0", true},
		{"ttyAMA0", true},
		{"ttyTHS2", true},
		{"tty1", false},
		{"tty2", false},
		{"console", false},
		{"ptmx", false},
		{"ptyp0", false},
		{"random", false},
		{"urandom", false},
		{"ttyUSB", false},
	}

	for _, tt := range tests {
		if got := isSerialName(tt.name); got != tt.shouldMatch {
			t.Errorf("isSerialName(%q) = %v, expected %v", tt.name, got, tt.shouldMatch)
		}
	}
}

func TestReadSysfsFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		content  *string
		expected string
	}{
		{"normal file", strPtr("1234\n"), "1234"},
		{"file with spaces", strPtr("  test value  \n"), "test value"},
		{"nonexistent file", nil, ""},
		{"empty file", strPtr(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name)
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0644); err != nil {
					t.Fatalf("Setup failed: %v", err)
				}
			}
			if got := readSysfsFile(path); got != tt.expected {
				t.Errorf("readSysfsFile() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

// mockSysfs builds class/tty/<name>/device pointing at target and writes the
// USB device attributes two levels up from the interface.
func mockSysfs(t *testing.T, name string, nested bool) string {
	t.Helper()
	root := t.TempDir()

	devicePath := filepath.Join(root, "devices", "usb5", "5-2.3.1")
	interfacePath := filepath.Join(devicePath, "5-2.3.1:1.0")
	target := interfacePath
	if nested {
		target = filepath.Join(interfacePath, name)
	}
	classPath := filepath.Join(root, "class", "tty", name)

	for _, dir := range []string{target, classPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	files := map[string]string{
		"idVendor":     "0403",
		"idProduct":    "6010",
		"serial":       "FT123456",
		"manufacturer": "FTDI",
		"product":      "FT2232C Dual USB-UART",
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(devicePath, file), []byte(content+"\n"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", file, err)
		}
	}
	if err := os.WriteFile(filepath.Join(interfacePath, "bInterfaceNumber"), []byte("00\n"), 0644); err != nil {
		t.Fatalf("Failed to write interface number: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(classPath, "device")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}
	return root
}

func TestEnrichUSBInfo(t *testing.T) {
	for _, tc := range []struct {
		name   string
		nested bool
	}{
		{"ttyUSB0", true},
		{"ttyACM0", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			old := sysfsRoot
			sysfsRoot = mockSysfs(t, tc.name, tc.nested)
			defer func() { sysfsRoot = old }()

			info := &PortInfo{Name: tc.name, Path: "/dev/" + tc.name}
			enrichUSBInfo(info)

			tests := []struct {
				field    string
				got      string
				expected string
			}{
				{"VendorID", info.VendorID, "0403"},
				{"ProductID", info.ProductID, "6010"},
				{"SerialNumber", info.SerialNumber, "FT123456"},
				{"InterfaceNumber", info.InterfaceNumber, "00"},
				{"Manufacturer", info.Manufacturer, "FTDI"},
				{"Product", info.Product, "FT2232C Dual USB-UART"},
			}
			for _, tt := range tests {
				if tt.got != tt.expected {
					t.Errorf("%s = %q, expected %q", tt.field, tt.got, tt.expected)
				}
			}
		})
	}
}

func TestEnrichUSBInfoGracefulFailure(t *testing.T) {
	old := sysfsRoot
	sysfsRoot = t.TempDir()
	defer func() { sysfsRoot = old }()

	info := &PortInfo{Name: "ttyUSB999", Path: "/dev/ttyUSB999"}
	enrichUSBInfo(info)

	if info.VendorID != "" || info.ProductID != "" || info.SerialNumber != "" {
		t.Errorf("Expected empty USB fields, got %+v", info)
	}
}

func TestPortInfoCDC(t *testing.T) {
	if !(&PortInfo{Name: "ttyACM3"}).CDC() {
		t.Error("ttyACM3 should be CDC")
	}
	if (&PortInfo{Name: "ttyUSB0"}).CDC() {
		t.Error("ttyUSB0 should not be CDC")
	}
}

func BenchmarkListPorts(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := ListPorts(); err != nil {
			b.Errorf("ListPorts failed: %v", err)
		}
	}
}
