package header

import (
	"io"

	"github.com/robotalks/icarus.go/pkg/wire"
)

// Frame layout constants.
const (
	Sync       byte = 0x7E
	CRCLen          = 2
	HeaderLen       = 2
	MaxPayload      = 0xff
)

// crcPlaceholder fills the reserved CRC field.
var crcPlaceholder = [CRCLen]byte{0xff, 0xff}

// Encode writes the frame of msg into out and returns its length.
func Encode(msg wire.Message, out []byte) (int, error) {
	var scratch [wire.MaxPayloadLen]byte
	payload := wire.AppendPayload(scratch[:0], msg)
	if len(payload) > MaxPayload {
		return 0, ErrPayloadTooLong
	}
	n := HeaderLen + len(payload) + CRCLen
	if len(out) < n {
		return 0, wire.ErrBufferTooSmall
	}
	out[0], out[1] = Sync, byte(len(payload))
	copy(out[HeaderLen:], payload)
	copy(out[HeaderLen+len(payload):], crcPlaceholder[:])
	return n, nil
}

// Marshal returns the frame of msg.
func Marshal(msg wire.Message) ([]byte, error) {
	out := make([]byte, HeaderLen+wire.MaxPayloadLen+CRCLen)
	n, err := Encode(msg, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// WriteTo encodes msg and writes the frame to w.
func WriteTo(w io.Writer, msg wire.Message) (int, error) {
	frame, err := Marshal(msg)
	if err != nil {
		return 0, err
	}
	return w.Write(frame)
}
