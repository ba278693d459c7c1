package flight

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/icarus.go/pkg/ahrs"
	"github.com/robotalks/icarus.go/pkg/imu"
	"github.com/robotalks/icarus.go/pkg/queue"
	"github.com/robotalks/icarus.go/pkg/wire"
	"github.com/robotalks/icarus.go/pkg/wire/codec"
)

// Config configures the flight core pipeline.
type Config struct {
	// Transport is the URL of the ground link, see transport.Open.
	Transport string `yaml:"transport"`
	// Framing is "cobs" or "header".
	Framing string `yaml:"framing"`

	LoopInterval        time.Duration `yaml:"loop-interval"`
	AcquisitionInterval time.Duration `yaml:"acquisition-interval"`
	StatusInterval      time.Duration `yaml:"status-interval"`
	BatteryInterval     time.Duration `yaml:"battery-interval"`
	// LinkTimeout is how long without traffic before the link is shown
	// as down.
	LinkTimeout time.Duration `yaml:"link-timeout"`

	CalibrationSamples int           `yaml:"calibration-samples"`
	CalibrationDelay   time.Duration `yaml:"calibration-delay"`
	Gravity            imu.Vector3   `yaml:"gravity"`

	Estimator ahrs.Config `yaml:"estimator"`

	QueueSize       int `yaml:"queue-size"`
	AccumulatorSize int `yaml:"accumulator-size"`
}

var defaultConfig = Config{
	Transport:           "tcp-listen://:7777",
	Framing:             codec.COBS.Name,
	LoopInterval:        10 * time.Millisecond,
	AcquisitionInterval: 20 * time.Millisecond,
	StatusInterval:      100 * time.Millisecond,
	BatteryInterval:     time.Second,
	LinkTimeout:         time.Second,
	CalibrationSamples:  100,
	CalibrationDelay:    5 * time.Millisecond,
	Gravity:             imu.GravityNED(),
	Estimator:           ahrs.DefaultConfig(),
	QueueSize:           4,
	AccumulatorSize:     wire.DefaultAccumulatorSize,
}

func init() {
	if val := os.Getenv("ICARUS_TRANSPORT"); val != "" {
		defaultConfig.Transport = val
	}
	if val := os.Getenv("ICARUS_FRAMING"); val != "" {
		defaultConfig.Framing = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Transport, "transport", defaultConfig.Transport, "Ground link URL.")
	flag.StringVar(&defaultConfig.Framing, "framing", defaultConfig.Framing, "Frame encoding: cobs or header.")
	flag.DurationVar(&defaultConfig.LoopInterval, "loop-interval", defaultConfig.LoopInterval, "Central loop interval.")
	flag.DurationVar(&defaultConfig.AcquisitionInterval, "acquisition-interval", defaultConfig.AcquisitionInterval, "Sensor acquisition interval.")
	flag.IntVar(&defaultConfig.CalibrationSamples, "calibration-samples", defaultConfig.CalibrationSamples, "Samples taken for bias calibration.")
	flag.Float64Var(&defaultConfig.Estimator.Beta, "beta", defaultConfig.Estimator.Beta, "Attitude filter gain.")
	flag.IntVar(&defaultConfig.QueueSize, "queue-size", defaultConfig.QueueSize, "Capacity of pipeline queues.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Validate checks the config.
func (c *Config) Validate() error {
	if _, err := codec.Lookup(c.Framing); err != nil {
		return err
	}
	if c.QueueSize < 1 || c.QueueSize > 64 {
		return fmt.Errorf("queue size must be in [1, 64], got %d", c.QueueSize)
	}
	if c.CalibrationSamples < 1 {
		return fmt.Errorf("calibration samples must be at least 1, got %d", c.CalibrationSamples)
	}
	if c.LoopInterval <= 0 || c.AcquisitionInterval <= 0 {
		return fmt.Errorf("loop and acquisition intervals must be positive")
	}
	return nil
}

// newQueue creates a message queue of QueueSize.
func (c *Config) newQueue() (*queue.Producer[wire.Message], *queue.Consumer[wire.Message]) {
	return queue.New[wire.Message](c.QueueSize)
}
