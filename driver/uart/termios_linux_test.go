package uart

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		rate int
		want uint32
	}{
		{300, unix.B300},
		{9600, unix.B9600},
		{19200, unix.B19200},
		{115200, unix.B115200},
		{4000000, unix.B4000000},
	}
	for _, tt := range tests {
		got, err := getBaudRate(tt.rate)
		if err != nil {
			t.Errorf("getBaudRate(%d) failed: %v", tt.rate, err)
			continue
		}
		if got != tt.want {
			t.Errorf("getBaudRate(%d) = %#o, want %#o", tt.rate, got, tt.want)
		}
	}

	for _, rate := range []int{0, 1, 31250, 12345} {
		if _, err := getBaudRate(rate); !errors.Is(err, ErrInvalidBaudRate) {
			t.Errorf("getBaudRate(%d) error = %v, want ErrInvalidBaudRate", rate, err)
		}
	}
}

func TestDataBitsFlag(t *testing.T) {
	tests := map[int]uint32{5: unix.CS5, 6: unix.CS6, 7: unix.CS7, 8: unix.CS8}
	for bits, want := range tests {
		if got := dataBitsFlag(bits); got != want {
			t.Errorf("dataBitsFlag(%d) = %#o, want %#o", bits, got, want)
		}
	}
}

func TestOpenMissingDevice(t *testing.T) {
	if _, err := open("/dev/does-not-exist-anyserial", 9600, DefaultConfig()); err == nil {
		t.Error("Expected error opening a missing device")
	}
}
