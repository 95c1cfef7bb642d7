package softuart

import "errors"

var (
	ErrAltInUse        = errors.New("softuart: alt slot already claimed")
	ErrNotBegun        = errors.New("softuart: not begun")
	ErrNotListening    = errors.New("softuart: not listening")
	ErrNoData          = errors.New("softuart: no data available")
	ErrInvalidBaudRate = errors.New("softuart: invalid baud rate")
	ErrInvalidConfig   = errors.New("softuart: invalid configuration")
)
