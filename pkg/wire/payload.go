package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// MaxLogLen limits the length of a Log payload.
const MaxLogLen = 200

func appendF32(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

func appendVector3(b []byte, v Vector3) []byte {
	return appendF32(appendF32(appendF32(b, v.X), v.Y), v.Z)
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func (m Sensors) appendFields(b []byte) []byte {
	b = appendVector3(b, m.Accel)
	b = appendVector3(b, m.Gyro)
	return appendF32(b, m.Altitude)
}

func (m EstimatedState) appendFields(b []byte) []byte {
	b = appendF32(b, m.Attitude.Pitch)
	b = appendF32(b, m.Attitude.Roll)
	b = appendF32(b, m.Attitude.Yaw)
	return appendF32(b, m.ZVel)
}

func (m Battery) appendFields(b []byte) []byte {
	b = binary.LittleEndian.AppendUint16(b, m.Voltage)
	b = binary.LittleEndian.AppendUint16(b, m.ADCRaw)
	return appendBool(b, m.ChargeComplete)
}

func (m Log) appendFields(b []byte) []byte {
	data := m.Data
	if len(data) > MaxLogLen {
		data = data[:MaxLogLen]
	}
	b = binary.AppendUvarint(b, uint64(len(data)))
	return append(b, data...)
}

func (CycleLed) appendFields(b []byte) []byte { return b }

func (m Throttle) appendFields(b []byte) []byte {
	return append(b, byte(m.X), byte(m.Y), byte(m.Z))
}

// AppendPayload appends the tagged binary form of msg to b. Log data longer
// than MaxLogLen is truncated.
func AppendPayload(b []byte, msg Message) []byte {
	return msg.appendFields(append(b, byte(msg.Tag())))
}

// MarshalPayload returns the tagged binary form of msg.
func MarshalPayload(msg Message) []byte {
	return AppendPayload(nil, msg)
}

type fieldReader struct {
	r   io.ByteReader
	err error
}

func (f *fieldReader) byte() byte {
	if f.err != nil {
		return 0
	}
	b, err := f.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		f.err = err
	}
	return b
}

func (f *fieldReader) u16() uint16 {
	lo := f.byte()
	hi := f.byte()
	return uint16(lo) | uint16(hi)<<8
}

func (f *fieldReader) f32() float32 {
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(f.byte()) << (8 * i)
	}
	return math.Float32frombits(v)
}

func (f *fieldReader) vector3() Vector3 {
	return Vector3{X: f.f32(), Y: f.f32(), Z: f.f32()}
}

func (f *fieldReader) bool() bool {
	switch b := f.byte(); b {
	case 0:
		return false
	case 1:
		return true
	default:
		if f.err == nil {
			f.err = decodeErrorf("invalid bool 0x%02x", b)
		}
		return false
	}
}

func (f *fieldReader) bytes() []byte {
	if f.err != nil {
		return nil
	}
	n, err := binary.ReadUvarint(f.r)
	if err != nil {
		f.err = err
		return nil
	}
	if n > MaxLogLen {
		f.err = decodeErrorf("byte string too long: %d", n)
		return nil
	}
	if n == 0 {
		return nil
	}
	data := make([]byte, n)
	for i := range data {
		data[i] = f.byte()
	}
	return data
}

// ReadPayload reads one tagged message from r. Bytes after the message are
// left unread.
func ReadPayload(r io.ByteReader) (Message, error) {
	f := &fieldReader{r: r}
	tag := Tag(f.byte())
	if f.err != nil {
		return nil, decodeErrorf("missing tag: %v", f.err)
	}
	var msg Message
	switch tag {
	case TagSensors:
		msg = Sensors{Accel: f.vector3(), Gyro: f.vector3(), Altitude: f.f32()}
	case TagEstimatedState:
		msg = EstimatedState{
			Attitude: Attitude{Pitch: f.f32(), Roll: f.f32(), Yaw: f.f32()},
			ZVel:     f.f32(),
		}
	case TagBattery:
		msg = Battery{Voltage: f.u16(), ADCRaw: f.u16(), ChargeComplete: f.bool()}
	case TagLog:
		msg = Log{Data: f.bytes()}
	case TagCycleLed:
		msg = CycleLed{}
	case TagThrottle:
		msg = Throttle{X: int8(f.byte()), Y: int8(f.byte()), Z: int8(f.byte())}
	default:
		return nil, decodeErrorf("unknown tag 0x%02x", byte(tag))
	}
	if f.err != nil {
		if errors.Is(f.err, ErrFrameDecode) {
			return nil, f.err
		}
		return nil, decodeErrorf("%s: %v", tag, f.err)
	}
	return msg, nil
}

// UnmarshalPayload decodes exactly one message from b.
func UnmarshalPayload(b []byte) (Message, error) {
	r := bytes.NewReader(b)
	msg, err := ReadPayload(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, decodeErrorf("%d trailing bytes after %s", r.Len(), msg.Tag())
	}
	return msg, nil
}
