package ground

import (
	"fmt"
	"math"

	"github.com/robotalks/icarus.go/pkg/wire"
)

func degrees(rad float32) float64 {
	return float64(rad) * 180 / math.Pi
}

// Format renders msg as one line of text.
func Format(msg wire.Message) string {
	switch m := msg.(type) {
	case wire.Sensors:
		return fmt.Sprintf("%s accel=(%.3f, %.3f, %.3f) gyro=(%.4f, %.4f, %.4f) alt=%.2f",
			m.Tag(), m.Accel.X, m.Accel.Y, m.Accel.Z, m.Gyro.X, m.Gyro.Y, m.Gyro.Z, m.Altitude)
	case wire.EstimatedState:
		return fmt.Sprintf("%s pitch=%.1f roll=%.1f yaw=%.1f z_vel=%.2f",
			m.Tag(), degrees(m.Attitude.Pitch), degrees(m.Attitude.Roll), degrees(m.Attitude.Yaw), m.ZVel)
	case wire.Battery:
		return fmt.Sprintf("%s voltage=%dmV adc=%d charged=%v", m.Tag(), m.Voltage, m.ADCRaw, m.ChargeComplete)
	case wire.Log:
		return fmt.Sprintf("%s %q", m.Tag(), m.String())
	case wire.Throttle:
		return fmt.Sprintf("%s %d %d %d", m.Tag(), m.X, m.Y, m.Z)
	}
	return msg.Tag().String()
}
