package flight

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/ahrs"
	"github.com/robotalks/icarus.go/pkg/framework"
	"github.com/robotalks/icarus.go/pkg/imu"
	"github.com/robotalks/icarus.go/pkg/queue"
	"github.com/robotalks/icarus.go/pkg/status"
	"github.com/robotalks/icarus.go/pkg/transport"
	"github.com/robotalks/icarus.go/pkg/wire"
	"github.com/robotalks/icarus.go/pkg/wire/codec"
)

// Collaborators are the hardware facing dependencies of the pipeline.
type Collaborators struct {
	Sensor    imu.Sensor
	Altimeter imu.Altimeter
	Battery   BatteryMonitor
	Transport transport.Transport
	Indicator status.Indicator
	Actuator  Actuator
	// Handler overrides the default Commands handler.
	Handler CommandHandler
}

// Pipeline wires acquisition, ingestion and status tasks around the
// central loop.
type Pipeline struct {
	Acquisition *Acquisition
	Ingestion   *Ingestion
	Status      *StatusTask
	Outbound    *Outbound
	Dispatcher  *Dispatcher

	Link     status.Flag
	Fault    status.Flag
	Activity Activity

	loop *framework.Loop
}

// NewPipeline builds the pipeline.
func NewPipeline(conf *Config, c Collaborators) (*Pipeline, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if c.Sensor == nil || c.Transport == nil {
		return nil, fmt.Errorf("sensor and transport are required")
	}
	framing, err := codec.Lookup(conf.Framing)
	if err != nil {
		return nil, err
	}
	if c.Indicator == nil {
		c.Indicator = &status.LogIndicator{}
	}
	if c.Actuator == nil {
		c.Actuator = &LogActuator{}
	}
	handler := c.Handler
	if handler == nil {
		handler = &Commands{Indicator: c.Indicator, Actuator: c.Actuator}
	}

	stateOut, stateIn := conf.newQueue()
	batOut, batIn := conf.newQueue()
	cmdOut, cmdIn := conf.newQueue()

	p := &Pipeline{loop: framework.NewLoop()}
	p.loop.Interval = conf.LoopInterval
	p.Acquisition = &Acquisition{
		Sensor:             c.Sensor,
		Altimeter:          c.Altimeter,
		Estimator:          ahrs.NewEstimator(conf.Estimator),
		Out:                stateOut,
		Fault:              &p.Fault,
		Interval:           conf.AcquisitionInterval,
		CalibrationSamples: conf.CalibrationSamples,
		CalibrationDelay:   conf.CalibrationDelay,
		Gravity:            conf.Gravity,
	}
	p.Ingestion = &Ingestion{
		Transport: c.Transport,
		Decoder:   framing.NewDecoder(conf.AccumulatorSize),
		Out:       cmdOut,
		Activity:  &p.Activity,
	}
	p.Status = &StatusTask{
		Indicator:       c.Indicator,
		Link:            &p.Link,
		Fault:           &p.Fault,
		Battery:         c.Battery,
		BatteryInterval: conf.BatteryInterval,
		Out:             batOut,
	}
	p.Outbound = &Outbound{
		Writer:   codec.NewWriter(c.Transport, framing),
		Sources:  []*queue.Consumer[wire.Message]{stateIn, batIn},
		Activity: &p.Activity,
	}
	p.Dispatcher = &Dispatcher{
		Commands: cmdIn,
		Handler:  handler,
		Replies:  p.Outbound,
	}

	p.loop.
		AddRunnable(
			p.Acquisition,
			p.Ingestion,
			framework.NewPeriodic(p.Status.Name(), conf.StatusInterval, p.Status.Tick),
		).
		AddController(framework.PrLvOutput, p.Outbound).
		AddController(framework.PrLvDispatch, p.Dispatcher).
		AddController(framework.PrLvStatus, &LinkMonitor{
			Activity: &p.Activity,
			Timeout:  conf.LinkTimeout,
			Link:     &p.Link,
		})
	return p, nil
}

// Name implements framework.Named.
func (p *Pipeline) Name() string { return "flight" }

// Loop exposes the central loop.
func (p *Pipeline) Loop() *framework.Loop {
	return p.loop
}

// Run runs until ctx is done or a task fails.
func (p *Pipeline) Run(ctx context.Context) error {
	glog.Info("flight pipeline started")
	err := p.loop.Run(ctx)
	glog.Infof("flight pipeline stopped: %v", err)
	return err
}
