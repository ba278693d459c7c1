package wire

import "fmt"

// Tag selects the message variant.
type Tag byte

// Message tags.
const (
	TagSensors        Tag = 0x01
	TagEstimatedState Tag = 0x02
	TagBattery        Tag = 0x03
	TagLog            Tag = 0x04
	TagCycleLed       Tag = 0x10
	TagThrottle       Tag = 0x11
)

func (t Tag) String() string {
	switch t {
	case TagSensors:
		return "Sensors"
	case TagEstimatedState:
		return "EstimatedState"
	case TagBattery:
		return "Battery"
	case TagLog:
		return "Log"
	case TagCycleLed:
		return "CycleLed"
	case TagThrottle:
		return "Throttle"
	}
	return fmt.Sprintf("Tag(0x%02x)", byte(t))
}

// Direction tells which side sends a message.
type Direction int

const (
	// Outbound messages flow from the flight core to the ground station.
	Outbound Direction = iota
	// Inbound messages are commands from the ground station.
	Inbound
)

// DirectionOf returns the direction of a tag.
func DirectionOf(t Tag) Direction {
	if t >= TagCycleLed {
		return Inbound
	}
	return Outbound
}

// Message is one of the variants declared in this package.
type Message interface {
	// Tag returns the variant tag.
	Tag() Tag

	appendFields([]byte) []byte
}

// IsCommand reports whether msg is an inbound command.
func IsCommand(msg Message) bool {
	return DirectionOf(msg.Tag()) == Inbound
}

// Vector3 is a tri-axial reading.
type Vector3 struct {
	X, Y, Z float32
}

// Attitude is an orientation in radians.
type Attitude struct {
	Pitch, Roll, Yaw float32
}

// Sensors carries raw inertial readings and altitude.
type Sensors struct {
	Accel    Vector3
	Gyro     Vector3
	Altitude float32
}

// EstimatedState carries the attitude estimate.
type EstimatedState struct {
	Attitude Attitude
	ZVel     float32
}

// Battery carries battery monitor readings.
type Battery struct {
	Voltage        uint16
	ADCRaw         uint16
	ChargeComplete bool
}

// Log carries free form text from the flight core.
type Log struct {
	Data []byte
}

// CycleLed asks the flight core to cycle the indicator color.
type CycleLed struct{}

// Throttle is a raw three axis throttle command.
type Throttle struct {
	X, Y, Z int8
}

// Tag implements Message.
func (Sensors) Tag() Tag { return TagSensors }

// Tag implements Message.
func (EstimatedState) Tag() Tag { return TagEstimatedState }

// Tag implements Message.
func (Battery) Tag() Tag { return TagBattery }

// Tag implements Message.
func (Log) Tag() Tag { return TagLog }

// Tag implements Message.
func (CycleLed) Tag() Tag { return TagCycleLed }

// Tag implements Message.
func (Throttle) Tag() Tag { return TagThrottle }

// Logf creates a Log message.
func Logf(format string, args ...interface{}) Log {
	return Log{Data: []byte(fmt.Sprintf(format, args...))}
}

func (m Log) String() string { return string(m.Data) }
