// Package ahrs estimates attitude from accelerometer and gyroscope samples.
package ahrs

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/robotalks/icarus.go/pkg/imu"
)

// Default filter parameters.
const (
	DefaultSamplePeriod = 0.02
	DefaultBeta         = 0.1
)

// Attitude is the orientation in body NED Euler angles (radians).
type Attitude struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// Madgwick is the IMU-only gradient descent orientation filter.
//
// The internal quaternion rotates a forward-left-up body frame into a
// z-up earth frame. Inputs and the reported Attitude use NED axes and are
// converted at the boundary.
type Madgwick struct {
	// Beta is the gradient descent gain.
	Beta float64
	// SamplePeriod is the nominal integration period in seconds.
	SamplePeriod float64

	q quat.Number
}

// NewMadgwick creates a filter at identity orientation.
func NewMadgwick(samplePeriod, beta float64) *Madgwick {
	return &Madgwick{
		Beta:         beta,
		SamplePeriod: samplePeriod,
		q:            quat.Number{Real: 1},
	}
}

// Reset restores identity orientation.
func (m *Madgwick) Reset() {
	m.q = quat.Number{Real: 1}
}

// Quaternion returns the current orientation.
func (m *Madgwick) Quaternion() quat.Number {
	return m.q
}

func nedToFLU(v imu.Vector3) imu.Vector3 {
	return imu.Vector3{X: v.X, Y: -v.Y, Z: -v.Z}
}

// UpdateNominal runs one step with the nominal sample period.
func (m *Madgwick) UpdateNominal(gyro, accel imu.Vector3) error {
	return m.Update(gyro, accel, m.SamplePeriod)
}

// Update runs one step integrating over dt seconds. gyro is in rad/s.
// accel only contributes its direction.
func (m *Madgwick) Update(gyro, accel imu.Vector3, dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return &EstimationError{Reason: "invalid delta time"}
	}
	n := accel.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return &EstimationError{Reason: "accelerometer norm is zero or not finite"}
	}
	a := nedToFLU(accel).Scale(1 / n)
	g := nedToFLU(gyro)

	q := m.q
	qDot := quat.Scale(0.5, quat.Mul(q, quat.Number{Imag: g.X, Jmag: g.Y, Kmag: g.Z}))
	s := gradient(q, a)
	if sn := quat.Abs(s); sn > 1e-12 {
		qDot = quat.Sub(qDot, quat.Scale(m.Beta/sn, s))
	}

	next := quat.Add(q, quat.Scale(dt, qDot))
	qn := quat.Abs(next)
	if qn == 0 || quat.IsNaN(next) || quat.IsInf(next) {
		return &EstimationError{Reason: "quaternion degenerated"}
	}
	m.q = quat.Scale(1/qn, next)
	return nil
}

// gradient of the objective between the gravity direction predicted by q and
// the measured direction a.
func gradient(q quat.Number, a imu.Vector3) quat.Number {
	q0, q1, q2, q3 := q.Real, q.Imag, q.Jmag, q.Kmag
	q0q0, q1q1, q2q2, q3q3 := q0*q0, q1*q1, q2*q2, q3*q3
	return quat.Number{
		Real: 4*q0*q2q2 + 2*q2*a.X + 4*q0*q1q1 - 2*q1*a.Y,
		Imag: 4*q1*q3q3 - 2*q3*a.X + 4*q0q0*q1 - 2*q0*a.Y - 4*q1 + 8*q1*q1q1 + 8*q1*q2q2 + 4*q1*a.Z,
		Jmag: 4*q0q0*q2 + 2*q0*a.X + 4*q2*q3q3 - 2*q3*a.Y - 4*q2 + 8*q2*q1q1 + 8*q2*q2q2 + 4*q2*a.Z,
		Kmag: 4*q1q1*q3 - 2*q1*a.X + 4*q2q2*q3 - 2*q2*a.Y,
	}
}

// Euler returns the orientation as NED roll, pitch and yaw.
func (m *Madgwick) Euler() Attitude {
	q0, q1, q2, q3 := m.q.Real, m.q.Imag, m.q.Jmag, m.q.Kmag
	roll := math.Atan2(q0*q1+q2*q3, 0.5-q1*q1-q2*q2)
	pitch := math.Asin(math.Max(-1, math.Min(1, 2*(q0*q2-q1*q3))))
	yaw := math.Atan2(q1*q2+q0*q3, 0.5-q2*q2-q3*q3)
	return Attitude{Roll: roll, Pitch: -pitch, Yaw: -yaw}
}
