package imu

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Offset is the per-axis bias of a stationary sensor.
type Offset struct {
	Accel Vector3 `yaml:"accel"`
	Gyro  Vector3 `yaml:"gyro"`
}

// Apply removes the bias from s. The accelerometer keeps the gravity
// reference so that a calibrated stationary board reads gravity rather than
// zero.
func (o Offset) Apply(s Sample, gravity Vector3) Sample {
	s.Accel = s.Accel.Sub(o.Accel).Add(gravity)
	s.Gyro = s.Gyro.Sub(o.Gyro)
	return s
}

// GravityNED is the accelerometer reading of a level stationary board.
func GravityNED() Vector3 {
	return Vector3{Z: -StandardGravity}
}

type axisRange struct {
	min, max [6]float64
}

func (r *axisRange) seed(v [6]float64) {
	r.min, r.max = v, v
}

func (r *axisRange) update(v [6]float64) {
	for i, val := range v {
		r.min[i] = math.Min(r.min[i], val)
		r.max[i] = math.Max(r.max[i], val)
	}
}

func (r *axisRange) midpoint() (mid [6]float64) {
	for i := range mid {
		mid[i] = r.min[i] + (r.max[i]-r.min[i])/2
	}
	return
}

func axesOf(s Sample) [6]float64 {
	return [6]float64{s.Accel.X, s.Accel.Y, s.Accel.Z, s.Gyro.X, s.Gyro.Y, s.Gyro.Z}
}

// Calibrate samples a stationary sensor and computes the bias of each axis
// as the midpoint of the observed min/max swing.
//
// Any read failure aborts calibration. The caller must not continue with
// undefined offsets.
func Calibrate(ctx context.Context, sensor Sensor, samples int, delay time.Duration) (Offset, error) {
	if samples < 1 {
		return Offset{}, fmt.Errorf("calibration requires at least 1 sample, got %d", samples)
	}
	var r axisRange
	for n := 0; n < samples; n++ {
		if n > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return Offset{}, ctx.Err()
			case <-time.After(delay):
			}
		}
		s, err := ReadSample(ctx, sensor)
		if err != nil {
			return Offset{}, fmt.Errorf("calibration sample %d: %w", n, err)
		}
		if n == 0 {
			r.seed(axesOf(s))
		} else {
			r.update(axesOf(s))
		}
	}
	mid := r.midpoint()
	return Offset{
		Accel: Vector3{X: mid[0], Y: mid[1], Z: mid[2]},
		Gyro:  Vector3{X: mid[3], Y: mid[4], Z: mid[5]},
	}, nil
}
