package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/flight"
	"github.com/robotalks/icarus.go/pkg/framework"
	"github.com/robotalks/icarus.go/pkg/imu"
	"github.com/robotalks/icarus.go/pkg/transport"
	"github.com/robotalks/icarus.go/pkg/wire"
)

var (
	configFile string
	seed       uint64
	accelBias  = imu.Vector3{X: 0.05, Y: -0.03, Z: 0.12}
	gyroBias   = imu.Vector3{X: 0.004, Y: -0.002, Z: 0.001}
)

func init() {
	flight.SetupFlags()
	flag.StringVar(&configFile, "config", configFile, "YAML config file, overrides flags.")
	flag.Uint64Var(&seed, "seed", seed, "Seed of the simulated IMU noise, 0 for random.")
}

// simBattery drains linearly from 4.2V to 3.3V over an hour.
func simBattery(start time.Time) flight.BatteryFunc {
	return func(context.Context) (wire.Battery, error) {
		frac := math.Min(time.Since(start).Hours(), 1)
		mv := 4200 - 900*frac
		return wire.Battery{
			Voltage: uint16(mv),
			ADCRaw:  uint16(mv * 4095 / 5000),
		}, nil
	}
}

func main() {
	flag.Parse()

	conf := flight.Default()
	if configFile != "" {
		if err := conf.LoadFile(configFile); err != nil {
			glog.Exit(err)
		}
	}
	if err := conf.Validate(); err != nil {
		glog.Exit(err)
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sensor := imu.NewSimulated(seed)
	sensor.Gravity = conf.Gravity
	sensor.AccelBias, sensor.GyroBias = accelBias, gyroBias
	sensor.Period = conf.AcquisitionInterval / 2

	runner := framework.NewRunner().HandleSignals()
	t, err := transport.Open(runner.Context, conf.Transport)
	if err != nil {
		glog.Exitf("open %s: %v", conf.Transport, err)
	}
	defer t.Close()

	p, err := flight.NewPipeline(conf, flight.Collaborators{
		Sensor:    sensor,
		Battery:   simBattery(time.Now()),
		Transport: t,
	})
	if err != nil {
		glog.Exit(err)
	}
	runner.Go(p).RunOrFail()
}
