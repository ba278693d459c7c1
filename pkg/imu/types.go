// Package imu provides inertial samples, bias calibration and smoothing.
//
// Samples use body NED axes: x forward, y right, z down. A level and
// stationary board reads an accelerometer vector of (0, 0, -g).
package imu

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// StandardGravity in m/s^2.
const StandardGravity = 9.80665

// Vector3 is a tri-axial reading.
type Vector3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Add returns v+o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v-o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v*s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Norm returns the euclidean length.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Tuple returns the components in (x, y, z) order.
func (v Vector3) Tuple() (x, y, z float64) {
	return v.X, v.Y, v.Z
}

// Sample is one reading from the inertial sensor.
type Sample struct {
	Accel       Vector3
	Gyro        Vector3
	Temperature float64
}

// Sensor is the inertial sensor collaborator.
type Sensor interface {
	// Read blocks until one sample is available.
	Read(ctx context.Context) (Sample, error)
}

// SensorFunc is the func form of Sensor.
type SensorFunc func(ctx context.Context) (Sample, error)

// Read implements Sensor.
func (f SensorFunc) Read(ctx context.Context) (Sample, error) {
	return f(ctx)
}

// Altimeter is an optional altitude source.
type Altimeter interface {
	Altitude(ctx context.Context) (float64, error)
}

// ErrSensorRead matches every SensorReadError.
var ErrSensorRead = errors.New("sensor read error")

// SensorReadError wraps a failure from the sensor collaborator.
type SensorReadError struct {
	Err error
}

// Error implements error.
func (e *SensorReadError) Error() string {
	return fmt.Sprintf("sensor read error: %v", e.Err)
}

// Unwrap returns the cause.
func (e *SensorReadError) Unwrap() error { return e.Err }

// Is matches ErrSensorRead.
func (e *SensorReadError) Is(target error) bool { return target == ErrSensorRead }

// ReadSample reads from the sensor and wraps failures as SensorReadError.
func ReadSample(ctx context.Context, s Sensor) (Sample, error) {
	sample, err := s.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrSensorRead) {
			return sample, err
		}
		return sample, &SensorReadError{Err: err}
	}
	return sample, nil
}
