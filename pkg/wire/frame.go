package wire

import (
	"bytes"

	"github.com/robotalks/icarus.go/pkg/wire/cobs"
)

// Delimiter terminates every frame.
const Delimiter byte = 0x00

// MaxPayloadLen is the largest tagged payload any message produces.
const MaxPayloadLen = 1 + binaryUvarintLen + MaxLogLen

const binaryUvarintLen = 2

// MaxFrameLen is the largest frame any message produces.
const MaxFrameLen = MaxPayloadLen + MaxPayloadLen/254 + 2

// Encode writes the frame of msg into out and returns its length.
func Encode(msg Message, out []byte) (int, error) {
	var scratch [MaxPayloadLen]byte
	payload := AppendPayload(scratch[:0], msg)
	n, err := cobs.Encode(out, payload)
	if err != nil || n >= len(out) {
		return 0, ErrBufferTooSmall
	}
	out[n] = Delimiter
	return n + 1, nil
}

// Marshal returns the frame of msg.
func Marshal(msg Message) []byte {
	var scratch [MaxPayloadLen]byte
	frame := cobs.Append(make([]byte, 0, MaxFrameLen), AppendPayload(scratch[:0], msg))
	return append(frame, Delimiter)
}

// Decode decodes one frame. The trailing delimiter is optional.
func Decode(frame []byte) (Message, error) {
	buf := make([]byte, len(frame))
	copy(buf, frame)
	return decodeInPlace(buf)
}

// decodeInPlace decodes a frame and overwrites it with the payload.
func decodeInPlace(frame []byte) (Message, error) {
	if n := len(frame); n > 0 && frame[n-1] == Delimiter {
		frame = frame[:n-1]
	}
	if bytes.IndexByte(frame, Delimiter) >= 0 {
		return nil, decodeErrorf("delimiter inside frame")
	}
	n, err := cobs.Decode(frame, frame)
	if err != nil {
		return nil, &FrameDecodeError{Err: err}
	}
	return UnmarshalPayload(frame[:n])
}
