package ahrs

import (
	"errors"

	"github.com/robotalks/icarus.go/pkg/imu"
)

// ErrEstimation matches every EstimationError.
var ErrEstimation = errors.New("estimation error")

// EstimationError reports a numerically degenerate filter step. The step is
// discarded and the previous orientation kept.
type EstimationError struct {
	Reason string
}

// Error implements error.
func (e *EstimationError) Error() string {
	return "estimation error: " + e.Reason
}

// Is matches ErrEstimation.
func (e *EstimationError) Is(target error) bool { return target == ErrEstimation }

// EstimatedState is the published estimate.
type EstimatedState struct {
	Attitude
	// ZVel is the vertical velocity. It is not estimated and always 0.
	ZVel float64
}

// Config configures an Estimator.
type Config struct {
	SamplePeriod float64 `yaml:"sample-period"`
	Beta         float64 `yaml:"beta"`
	FilterDepth  int     `yaml:"filter-depth"`
}

// DefaultConfig returns the default estimator parameters.
func DefaultConfig() Config {
	return Config{
		SamplePeriod: DefaultSamplePeriod,
		Beta:         DefaultBeta,
		FilterDepth:  imu.DefaultFilterDepth,
	}
}

// Estimator smooths calibrated samples and runs the Madgwick filter.
type Estimator struct {
	accel  *imu.TriAxialFilter
	gyro   *imu.TriAxialFilter
	filter *Madgwick
}

// NewEstimator creates an Estimator. Zero fields in conf take defaults.
func NewEstimator(conf Config) *Estimator {
	def := DefaultConfig()
	if conf.SamplePeriod <= 0 {
		conf.SamplePeriod = def.SamplePeriod
	}
	if conf.Beta <= 0 {
		conf.Beta = def.Beta
	}
	if conf.FilterDepth < 1 {
		conf.FilterDepth = def.FilterDepth
	}
	return &Estimator{
		accel:  imu.NewTriAxialFilter(conf.FilterDepth),
		gyro:   imu.NewTriAxialFilter(conf.FilterDepth),
		filter: NewMadgwick(conf.SamplePeriod, conf.Beta),
	}
}

// Filter exposes the underlying Madgwick filter.
func (e *Estimator) Filter() *Madgwick {
	return e.filter
}

// Update consumes one calibrated sample. dt is the measured time in seconds
// since the previous successful update and replaces the nominal period.
func (e *Estimator) Update(s imu.Sample, dt float64) (EstimatedState, error) {
	e.accel.Update(s.Accel)
	e.gyro.Update(s.Gyro)
	if err := e.filter.Update(e.gyro.Value(), e.accel.Value(), dt); err != nil {
		return EstimatedState{}, err
	}
	return EstimatedState{Attitude: e.filter.Euler()}, nil
}
