package anyserial

// Version is the release of this package.
const Version = "1.1.0"

// libraryMajor only changes when the Port or Driver contract breaks.
const libraryMajor = 1

// LibraryVersion returns the major version of the library, for code that
// gates on contract changes rather than releases.
func LibraryVersion() int {
	return libraryMajor
}
