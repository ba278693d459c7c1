package joystick

import (
	"flag"
	"time"
)

// Config defines the configurations for the controller.
type Config struct {
	DeviceIndex int
	Verbose     bool
	// Axes maps the throttle X, Y, Z to joystick axis numbers.
	Axes [3]int
	// Invert flips the sign of each throttle axis.
	Invert [3]bool
	// Deadzone is the raw axis magnitude treated as centered.
	Deadzone int
	// LedButton cycles the indicator, -1 to disable.
	LedButton int
	// Interval is the minimum interval between throttle commands.
	Interval time.Duration
}

var defaultConfig = Config{
	DeviceIndex: -1,
	Axes:        [3]int{3, 4, 1},
	Invert:      [3]bool{false, true, true},
	Deadzone:    1500,
	LedButton:   0,
	Interval:    50 * time.Millisecond,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Device index, -1 for auto detection.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Print Joystick events.")
	flag.IntVar(&defaultConfig.Deadzone, "deadzone", defaultConfig.Deadzone, "Axis deadzone in raw units.")
	flag.IntVar(&defaultConfig.LedButton, "led-button", defaultConfig.LedButton, "Button cycling the indicator, -1 to disable.")
	flag.DurationVar(&defaultConfig.Interval, "throttle-interval", defaultConfig.Interval, "Minimum interval between throttle commands.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController creates a controller using the config.
func (c *Config) NewController(sender Sender) *Controller {
	ctl := NewController(sender)
	ctl.Config = *c
	return ctl
}
