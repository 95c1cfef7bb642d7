package anyserial

import (
	"strconv"
	"strings"
	"testing"
)

func TestLibraryVersionMatchesRelease(t *testing.T) {
	major, _, ok := strings.Cut(Version, ".")
	if !ok {
		t.Fatalf("Version %q is not dotted", Version)
	}
	if got := strconv.Itoa(LibraryVersion()); got != major {
		t.Errorf("LibraryVersion() = %s, want %s from %q", got, major, Version)
	}
}
