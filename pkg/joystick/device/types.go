// Package device reads joystick events from the Linux joystick API.
package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Event types.
const (
	TypeButton uint8 = 0x01
	TypeAxis   uint8 = 0x02
	TypeInit   uint8 = 0x80
)

// EventSize is the size of a raw js_event.
const EventSize = 8

// AxisMax is the magnitude of a fully deflected axis.
const AxisMax = 32767

// ErrUnsupported is returned where no joystick API is available.
var ErrUnsupported = errors.New("joystick not supported on this platform")

// Event is one js_event.
type Event struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

// Decode parses a raw js_event.
func Decode(b []byte) (Event, error) {
	if len(b) < EventSize {
		return Event{}, fmt.Errorf("short joystick event: %d bytes", len(b))
	}
	return Event{
		Time:   binary.LittleEndian.Uint32(b[0:]),
		Value:  int16(binary.LittleEndian.Uint16(b[4:])),
		Type:   b[6],
		Number: b[7],
	}, nil
}

// IsInit indicates the event reports initial state.
func (e Event) IsInit() bool { return e.Type&TypeInit != 0 }

// IsAxis indicates an axis event.
func (e Event) IsAxis() bool { return e.Type&^TypeInit == TypeAxis }

// IsButton indicates a button event.
func (e Event) IsButton() bool { return e.Type&^TypeInit == TypeButton }

// Pressed reports a button is down.
func (e Event) Pressed() bool { return e.Value != 0 }

func (e Event) String() string {
	var prefix string
	if e.IsInit() {
		prefix = "[INIT] "
	}
	switch {
	case e.IsAxis():
		return fmt.Sprintf("%sAxis %d: %d", prefix, e.Number, e.Value)
	case e.IsButton():
		return fmt.Sprintf("%sButton %d: %v", prefix, e.Number, e.Pressed())
	}
	return fmt.Sprintf("%sEvent 0x%02x %d: %d", prefix, e.Type, e.Number, e.Value)
}

// Device represents an opened joystick.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name of the device.
	Name() string
	// AxisCount returns the number of axes on the device.
	AxisCount() int
	// ButtonCount returns the number of buttons on the device.
	ButtonCount() int
	// ReadEvent blocks until the next event.
	ReadEvent() (Event, error)
}

// Reader reads events from a raw event stream.
type Reader struct {
	R   io.Reader
	buf [EventSize]byte
}

// ReadEvent reads one event.
func (r *Reader) ReadEvent() (Event, error) {
	if _, err := io.ReadFull(r.R, r.buf[:]); err != nil {
		return Event{}, err
	}
	return Decode(r.buf[:])
}
