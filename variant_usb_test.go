//go:build !anyserial_nousb

package anyserial

import "testing"

func TestUSBVariant(t *testing.T) {
	d := usbFake{newFake("")}
	p, err := NewUSB(d)
	if err != nil {
		t.Fatalf("NewUSB failed: %v", err)
	}

	if p.Variant() != USB {
		t.Fatalf("Variant() = %v, want %v", p.Variant(), USB)
	}
	if p.Connected() {
		t.Error("Connected() = true with DTR low")
	}
	d.dtr = true
	if !p.Connected() {
		t.Error("Connected() = false with DTR high")
	}
	if !p.Listen() || p.IsListening() || p.Overflow() {
		t.Error("usb should report neutral listen/overflow values")
	}
	if got := p.Capabilities(); got != CapConnected {
		t.Errorf("Capabilities() = %v, want %v", got, CapConnected)
	}
}

func TestUSBForwardsDetectedOverflow(t *testing.T) {
	d := detectingUSBFake{detectingFake{newFake("")}}
	p, err := NewUSB(d)
	if err != nil {
		t.Fatalf("NewUSB failed: %v", err)
	}

	if !p.Supports(CapOverflow | CapConnected) {
		t.Errorf("Capabilities() = %v, want overflow and connected", p.Capabilities())
	}
	if p.Overflow() {
		t.Fatal("Overflow() = true before any loss")
	}
	d.over = true
	if !p.Overflow() {
		t.Error("Overflow() = false after the driver dropped bytes")
	}
	if p.Overflow() {
		t.Error("Overflow() did not clear")
	}
}

func TestEveryVariantRoundTrips(t *testing.T) {
	attach := map[Variant]func(p *Port) error{
		Hardware: func(p *Port) error { return p.AttachHardware(newFake("")) },
		USB:      func(p *Port) error { return p.AttachUSB(usbFake{newFake("")}) },
	}

	p, _ := NewUSB(usbFake{newFake("")})
	for v, fn := range attach {
		if err := fn(p); err != nil {
			t.Fatalf("attach %v failed: %v", v, err)
		}
		if p.Variant() != v {
			t.Errorf("Variant() = %v, want %v", p.Variant(), v)
		}
	}
}
