package anyserial

import "errors"

// Predefined error types for robust error handling
var (
	ErrNilDriver      = errors.New("anyserial: nil driver")
	ErrDebugLoop      = errors.New("anyserial: debug sink would mirror back into the port")
	ErrInvalidConfig  = errors.New("anyserial: invalid configuration")
	ErrUnknownVariant = errors.New("anyserial: unknown port variant")
)
