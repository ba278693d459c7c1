package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferTooSmall indicates the output buffer cannot hold the frame.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrFrameDecode matches every FrameDecodeError.
	ErrFrameDecode = errors.New("frame decode error")
)

// FrameDecodeError reports a malformed frame or payload.
type FrameDecodeError struct {
	Err error
}

// Error implements error.
func (e *FrameDecodeError) Error() string {
	return fmt.Sprintf("frame decode error: %v", e.Err)
}

// Unwrap returns the cause.
func (e *FrameDecodeError) Unwrap() error { return e.Err }

// Is matches ErrFrameDecode.
func (e *FrameDecodeError) Is(target error) bool { return target == ErrFrameDecode }

func decodeErrorf(format string, args ...interface{}) error {
	return &FrameDecodeError{Err: fmt.Errorf(format, args...)}
}
