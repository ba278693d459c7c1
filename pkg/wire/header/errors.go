package header

import "errors"

var (
	// ErrEmptyFrame indicates a zero length field.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrFrameTooLong indicates the payload does not fit the ring buffer.
	ErrFrameTooLong = errors.New("frame too long")
	// ErrPayloadTooLong indicates a message too long for the length byte.
	ErrPayloadTooLong = errors.New("payload too long")
)
