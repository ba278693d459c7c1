package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/icarus.go/pkg/wire"
)

// Vector3 is a tri-axial reading.
type Vector3 struct {
	X float32 `protobuf:"fixed32,1,opt,name=x,proto3" json:"x,omitempty"`
	Y float32 `protobuf:"fixed32,2,opt,name=y,proto3" json:"y,omitempty"`
	Z float32 `protobuf:"fixed32,3,opt,name=z,proto3" json:"z,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Vector3) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Vector3) Reset() { *m = Vector3{} }

// String implements proto.Message.
func (m *Vector3) String() string { return proto.CompactTextString(m) }

func vector3From(v wire.Vector3) *Vector3 {
	return &Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

func (m *Vector3) wire() wire.Vector3 {
	if m == nil {
		return wire.Vector3{}
	}
	return wire.Vector3{X: m.X, Y: m.Y, Z: m.Z}
}

// Sensors is the raw inertial telemetry.
type Sensors struct {
	Accel    *Vector3 `protobuf:"bytes,1,opt,name=accel,proto3" json:"accel,omitempty"`
	Gyro     *Vector3 `protobuf:"bytes,2,opt,name=gyro,proto3" json:"gyro,omitempty"`
	Altitude float32  `protobuf:"fixed32,3,opt,name=altitude,proto3" json:"altitude,omitempty"`
}

// NewMessage implements Message.
func (m *Sensors) NewMessage() Message { return &Sensors{} }

// TypeID implements Message.
func (m *Sensors) TypeID() uint32 { return SensorsTypeID }

// Wire implements Message.
func (m *Sensors) Wire() wire.Message {
	return wire.Sensors{Accel: m.Accel.wire(), Gyro: m.Gyro.wire(), Altitude: m.Altitude}
}

// ProtoMessage implements proto.Message.
func (m *Sensors) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Sensors) Reset() { *m = Sensors{} }

// String implements proto.Message.
func (m *Sensors) String() string { return proto.CompactTextString(m) }

// EstimatedState is the attitude estimate.
type EstimatedState struct {
	Pitch float32 `protobuf:"fixed32,1,opt,name=pitch,proto3" json:"pitch,omitempty"`
	Roll  float32 `protobuf:"fixed32,2,opt,name=roll,proto3" json:"roll,omitempty"`
	Yaw   float32 `protobuf:"fixed32,3,opt,name=yaw,proto3" json:"yaw,omitempty"`
	ZVel  float32 `protobuf:"fixed32,4,opt,name=z_vel,proto3" json:"z_vel,omitempty"`
}

// NewMessage implements Message.
func (m *EstimatedState) NewMessage() Message { return &EstimatedState{} }

// TypeID implements Message.
func (m *EstimatedState) TypeID() uint32 { return EstimatedStateTypeID }

// Wire implements Message.
func (m *EstimatedState) Wire() wire.Message {
	return wire.EstimatedState{
		Attitude: wire.Attitude{Pitch: m.Pitch, Roll: m.Roll, Yaw: m.Yaw},
		ZVel:     m.ZVel,
	}
}

// ProtoMessage implements proto.Message.
func (m *EstimatedState) ProtoMessage() {}

// Reset implements proto.Message.
func (m *EstimatedState) Reset() { *m = EstimatedState{} }

// String implements proto.Message.
func (m *EstimatedState) String() string { return proto.CompactTextString(m) }

// Battery is the battery monitor reading.
type Battery struct {
	Voltage        uint32 `protobuf:"varint,1,opt,name=voltage,proto3" json:"voltage,omitempty"`
	AdcRaw         uint32 `protobuf:"varint,2,opt,name=adc_raw,proto3" json:"adc_raw,omitempty"`
	ChargeComplete bool   `protobuf:"varint,3,opt,name=charge_complete,proto3" json:"charge_complete,omitempty"`
}

// NewMessage implements Message.
func (m *Battery) NewMessage() Message { return &Battery{} }

// TypeID implements Message.
func (m *Battery) TypeID() uint32 { return BatteryTypeID }

// Wire implements Message.
func (m *Battery) Wire() wire.Message {
	return wire.Battery{Voltage: uint16(m.Voltage), ADCRaw: uint16(m.AdcRaw), ChargeComplete: m.ChargeComplete}
}

// ProtoMessage implements proto.Message.
func (m *Battery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Battery) Reset() { *m = Battery{} }

// String implements proto.Message.
func (m *Battery) String() string { return proto.CompactTextString(m) }

// Log is text from the flight core.
type Log struct {
	Text string `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
}

// NewMessage implements Message.
func (m *Log) NewMessage() Message { return &Log{} }

// TypeID implements Message.
func (m *Log) TypeID() uint32 { return LogTypeID }

// Wire implements Message.
func (m *Log) Wire() wire.Message { return wire.Log{Data: []byte(m.Text)} }

// ProtoMessage implements proto.Message.
func (m *Log) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Log) Reset() { *m = Log{} }

// String implements proto.Message.
func (m *Log) String() string { return proto.CompactTextString(m) }

// CycleLed asks the device to cycle its indicator color.
type CycleLed struct {
}

// NewMessage implements Message.
func (m *CycleLed) NewMessage() Message { return &CycleLed{} }

// TypeID implements Message.
func (m *CycleLed) TypeID() uint32 { return CycleLedTypeID }

// Wire implements Message.
func (m *CycleLed) Wire() wire.Message { return wire.CycleLed{} }

// ProtoMessage implements proto.Message.
func (m *CycleLed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CycleLed) Reset() { *m = CycleLed{} }

// String implements proto.Message.
func (m *CycleLed) String() string { return proto.CompactTextString(m) }

// Throttle sets the per-axis throttle. Values are clamped to int8.
type Throttle struct {
	X int32 `protobuf:"zigzag32,1,opt,name=x,proto3" json:"x,omitempty"`
	Y int32 `protobuf:"zigzag32,2,opt,name=y,proto3" json:"y,omitempty"`
	Z int32 `protobuf:"zigzag32,3,opt,name=z,proto3" json:"z,omitempty"`
}

// NewMessage implements Message.
func (m *Throttle) NewMessage() Message { return &Throttle{} }

// TypeID implements Message.
func (m *Throttle) TypeID() uint32 { return ThrottleTypeID }

func clampInt8(v int32) int8 {
	return int8(max(-128, min(127, v)))
}

// Wire implements Message.
func (m *Throttle) Wire() wire.Message {
	return wire.Throttle{X: clampInt8(m.X), Y: clampInt8(m.Y), Z: clampInt8(m.Z)}
}

// ProtoMessage implements proto.Message.
func (m *Throttle) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Throttle) Reset() { *m = Throttle{} }

// String implements proto.Message.
func (m *Throttle) String() string { return proto.CompactTextString(m) }

// TypeIDs carry the wire tag in the low byte.
const (
	SensorsTypeID        = TypeIDKindEvent | uint32(wire.TagSensors)
	EstimatedStateTypeID = TypeIDKindEvent | uint32(wire.TagEstimatedState)
	BatteryTypeID        = TypeIDKindEvent | uint32(wire.TagBattery)
	LogTypeID            = TypeIDKindEvent | uint32(wire.TagLog)
	CycleLedTypeID       = TypeIDKindCommand | uint32(wire.TagCycleLed)
	ThrottleTypeID       = TypeIDKindCommand | uint32(wire.TagThrottle)
)

// MessageTypes maps type IDs to message prototypes.
var MessageTypes = map[uint32]Message{
	SensorsTypeID:        (*Sensors)(nil),
	EstimatedStateTypeID: (*EstimatedState)(nil),
	BatteryTypeID:        (*Battery)(nil),
	LogTypeID:            (*Log)(nil),
	CycleLedTypeID:       (*CycleLed)(nil),
	ThrottleTypeID:       (*Throttle)(nil),
}

// FromWire converts a wire message.
func FromWire(msg wire.Message) (Message, error) {
	switch m := msg.(type) {
	case wire.Sensors:
		return &Sensors{Accel: vector3From(m.Accel), Gyro: vector3From(m.Gyro), Altitude: m.Altitude}, nil
	case wire.EstimatedState:
		return &EstimatedState{Pitch: m.Attitude.Pitch, Roll: m.Attitude.Roll, Yaw: m.Attitude.Yaw, ZVel: m.ZVel}, nil
	case wire.Battery:
		return &Battery{Voltage: uint32(m.Voltage), AdcRaw: uint32(m.ADCRaw), ChargeComplete: m.ChargeComplete}, nil
	case wire.Log:
		return &Log{Text: m.String()}, nil
	case wire.CycleLed:
		return &CycleLed{}, nil
	case wire.Throttle:
		return &Throttle{X: int32(m.X), Y: int32(m.Y), Z: int32(m.Z)}, nil
	}
	return nil, &ErrUnknownType{TypeID: uint32(msg.Tag())}
}
