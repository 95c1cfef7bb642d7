package uart

import "errors"

var (
	ErrDeviceNotFound  = errors.New("serial device not found")
	ErrInvalidBaudRate = errors.New("invalid baud rate")
	ErrInvalidConfig   = errors.New("invalid serial configuration")
	ErrNotOpen         = errors.New("serial port is not open")
	ErrNoData          = errors.New("no data available")
)
