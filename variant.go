package anyserial

import (
	"fmt"
	"sort"
	"strings"
)

// Variant identifies which kind of driver a Port is bound to.
type Variant int

const (
	Hardware            Variant = iota // Dedicated hardware UART
	SoftwareEmulated                   // Bit-banged UART sharing a timer with other instances
	AltSoftwareEmulated                // Low-jitter software UART on a fixed timer
	USB                                // USB virtual serial (CDC-ACM)
)

var variantNames = map[Variant]string{
	Hardware:            "hardware",
	SoftwareEmulated:    "software",
	AltSoftwareEmulated: "altsoftware",
	USB:                 "usb",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant converts a variant name as printed by String back to a Variant.
// Matching is case-insensitive.
func ParseVariant(name string) (Variant, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for v, n := range variantNames {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// compiled holds the variants linked into this build. Hardware is always
// present; the others register themselves from their own files so that
// build tags can leave them out.
var compiled = map[Variant]bool{Hardware: true}

// CompiledVariants returns the variants available in this build, in
// declaration order.
func CompiledVariants() []Variant {
	out := make([]Variant, 0, len(compiled))
	for v := range compiled {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Capability is a bit set of the optional operations a bound driver really
// implements. Unsupported operations still return neutral values on a Port;
// Capability lets callers tell "unsupported" apart from "nothing happened".
type Capability int

const (
	CapFlushInput Capability = 1 << iota
	CapFlushOutput
	CapListen
	CapOverflow
	CapReadUntil
	CapConnected
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapFlushInput, "flush-input"},
	{CapFlushOutput, "flush-output"},
	{CapListen, "listen"},
	{CapOverflow, "overflow"},
	{CapReadUntil, "read-until"},
	{CapConnected, "connected"},
}

// AllCapabilities lists every capability bit in a stable order.
func AllCapabilities() []Capability {
	out := make([]Capability, len(capabilityNames))
	for i, cn := range capabilityNames {
		out[i] = cn.c
	}
	return out
}

// Has reports whether every bit of other is set in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	for _, cn := range capabilityNames {
		if c&cn.c != 0 {
			names = append(names, cn.name)
		}
	}
	return strings.Join(names, ",")
}
