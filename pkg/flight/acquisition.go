package flight

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/ahrs"
	"github.com/robotalks/icarus.go/pkg/framework"
	"github.com/robotalks/icarus.go/pkg/imu"
	"github.com/robotalks/icarus.go/pkg/queue"
	"github.com/robotalks/icarus.go/pkg/status"
	"github.com/robotalks/icarus.go/pkg/wire"
)

// AcquisitionStats counts acquisition outcomes.
type AcquisitionStats struct {
	Ticks            uint64
	SensorErrors     uint64
	EstimationErrors uint64
	Dropped          uint64
}

// Acquisition owns the sensor, calibration and attitude estimation.
type Acquisition struct {
	Sensor    imu.Sensor
	Altimeter imu.Altimeter
	Estimator *ahrs.Estimator
	Out       *queue.Producer[wire.Message]
	// Fault, when set, is raised while samples or estimates fail.
	Fault *status.Flag

	Interval           time.Duration
	CalibrationSamples int
	CalibrationDelay   time.Duration
	Gravity            imu.Vector3

	offset     imu.Offset
	calibrated bool
	last       time.Time

	ticks, sensorErrs, estimationErrs, dropped atomic.Uint64
}

// Name implements framework.Named.
func (a *Acquisition) Name() string { return "acquisition" }

// Offset returns the calibration offset.
func (a *Acquisition) Offset() imu.Offset { return a.offset }

// Stats returns counters.
func (a *Acquisition) Stats() AcquisitionStats {
	return AcquisitionStats{
		Ticks:            a.ticks.Load(),
		SensorErrors:     a.sensorErrs.Load(),
		EstimationErrors: a.estimationErrs.Load(),
		Dropped:          a.dropped.Load(),
	}
}

// Calibrate computes the bias offset. It must succeed before ticking.
func (a *Acquisition) Calibrate(ctx context.Context) error {
	glog.Infof("calibrating with %d samples, keep the board still", a.CalibrationSamples)
	offset, err := imu.Calibrate(ctx, a.Sensor, a.CalibrationSamples, a.CalibrationDelay)
	if err != nil {
		return fmt.Errorf("calibration: %w", err)
	}
	a.offset, a.calibrated = offset, true
	glog.Infof("calibrated: accel %+v gyro %+v", offset.Accel, offset.Gyro)
	return nil
}

// Run implements framework.Runnable. A calibration failure ends the task.
func (a *Acquisition) Run(ctx context.Context) error {
	if !a.calibrated {
		if err := a.Calibrate(ctx); err != nil {
			return err
		}
	}
	return framework.NewPeriodic(a.Name(), a.Interval, a.Tick).Run(ctx)
}

// Tick samples once and publishes. Sensor and estimation errors skip the
// tick and never stop the task.
func (a *Acquisition) Tick(ctx context.Context, now time.Time) error {
	a.ticks.Add(1)
	raw, err := imu.ReadSample(ctx, a.Sensor)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.sensorErrs.Add(1)
		a.fault(true)
		glog.V(1).Infof("tick skipped: %v", err)
		return nil
	}

	var altitude float64
	if a.Altimeter != nil {
		if altitude, err = a.Altimeter.Altitude(ctx); err != nil {
			glog.V(1).Infof("altitude unavailable: %v", err)
			altitude = 0
		}
	}
	a.publish(SensorsMessage(raw, altitude))

	dt := a.Estimator.Filter().SamplePeriod
	if !a.last.IsZero() {
		dt = now.Sub(a.last).Seconds()
	}
	state, err := a.Estimator.Update(a.offset.Apply(raw, a.Gravity), dt)
	if err != nil {
		if errors.Is(err, ahrs.ErrEstimation) {
			a.estimationErrs.Add(1)
			a.fault(true)
			glog.V(1).Infof("estimate skipped: %v", err)
			return nil
		}
		return err
	}
	a.last = now
	a.fault(false)
	a.publish(EstimatedStateMessage(state))
	return nil
}

func (a *Acquisition) fault(v bool) {
	if a.Fault != nil && a.Fault.Set(v) {
		glog.Infof("acquisition fault: %v", v)
	}
}

func (a *Acquisition) publish(msg wire.Message) {
	if err := a.Out.Enqueue(msg); err != nil {
		a.dropped.Add(1)
		glog.V(2).Infof("%s dropped: %v", msg.Tag(), err)
	}
}

func vector3(v imu.Vector3) wire.Vector3 {
	return wire.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// SensorsMessage converts a raw sample.
func SensorsMessage(s imu.Sample, altitude float64) wire.Sensors {
	return wire.Sensors{Accel: vector3(s.Accel), Gyro: vector3(s.Gyro), Altitude: float32(altitude)}
}

// EstimatedStateMessage converts an estimate.
func EstimatedStateMessage(st ahrs.EstimatedState) wire.EstimatedState {
	return wire.EstimatedState{
		Attitude: wire.Attitude{
			Pitch: float32(st.Pitch),
			Roll:  float32(st.Roll),
			Yaw:   float32(st.Yaw),
		},
		ZVel: float32(st.ZVel),
	}
}
