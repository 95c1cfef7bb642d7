//go:build !anyserial_nosoftware

package anyserial

import (
	"errors"
	"testing"
)

func TestSoftwareVariantForwardsArbitration(t *testing.T) {
	d := softFake{newFake("")}
	p, err := NewSoftware(d)
	if err != nil {
		t.Fatalf("NewSoftware failed: %v", err)
	}

	if p.Variant() != SoftwareEmulated {
		t.Fatalf("Variant() = %v, want %v", p.Variant(), SoftwareEmulated)
	}
	if p.IsListening() {
		t.Error("IsListening() = true before Listen")
	}
	if !p.Listen() {
		t.Error("first Listen() = false, want true")
	}
	if !p.IsListening() {
		t.Error("IsListening() = false after Listen")
	}
	if p.Listen() {
		t.Error("second Listen() = true, the driver reports no change")
	}
}

func TestSoftwareVariantOverflowClears(t *testing.T) {
	d := softFake{newFake("")}
	d.over = true
	p, _ := NewSoftware(d)

	if !p.Overflow() {
		t.Error("Overflow() = false, want true")
	}
	if p.Overflow() {
		t.Error("Overflow() did not clear")
	}
}

func TestSoftwareCapabilities(t *testing.T) {
	p, _ := NewSoftware(softFake{newFake("")})
	want := CapListen | CapOverflow
	if got := p.Capabilities(); got != want {
		t.Errorf("Capabilities() = %v, want %v", got, want)
	}
}

func TestNewSoftwareRejectsNil(t *testing.T) {
	if _, err := NewSoftware(nil); !errors.Is(err, ErrNilDriver) {
		t.Errorf("NewSoftware(nil) error = %v, want ErrNilDriver", err)
	}
	p, _ := NewHardware(newFake(""))
	if err := p.AttachSoftware(nil); !errors.Is(err, ErrNilDriver) {
		t.Errorf("AttachSoftware(nil) error = %v, want ErrNilDriver", err)
	}
	if p.Variant() != Hardware {
		t.Error("failed attach changed the variant")
	}
}

func TestReattachSwitchesDispatch(t *testing.T) {
	hw := newFake("h")
	sw := softFake{newFake("s")}
	p, _ := NewHardware(hw)

	if !p.Listen() || p.IsListening() {
		t.Fatal("hardware binding did not report neutral listen values")
	}
	if err := p.AttachSoftware(sw); err != nil {
		t.Fatalf("AttachSoftware failed: %v", err)
	}
	if p.Variant() != SoftwareEmulated {
		t.Errorf("Variant() = %v after attach", p.Variant())
	}
	if got := p.Read(); got != 's' {
		t.Errorf("Read() = %d, want %d from the new driver", got, 's')
	}
	p.Listen()
	if !p.IsListening() {
		t.Error("IsListening() not forwarded after attach")
	}
	if len(hw.rx) != 1 {
		t.Error("old driver was read after re-attach")
	}
	if _, ok := p.Driver().(SoftwareUART); !ok {
		t.Error("Driver() is not the software driver")
	}
}
