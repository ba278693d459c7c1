// Package joystick turns a gamepad into throttle commands.
package joystick

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/icarus.go/pkg/framework"
	"github.com/robotalks/icarus.go/pkg/joystick/device"
	"github.com/robotalks/icarus.go/pkg/wire"
)

// Sender delivers commands, usually a ground.Link.
type Sender interface {
	Send(msg wire.Message) error
}

type update struct {
	event device.Event
	lost  bool
}

// Controller reads a joystick in its own goroutine and sends Throttle
// commands from the loop.
type Controller struct {
	Config
	Sender Sender
	// Open opens the device, defaults to device.Open/DetectAndOpen.
	Open func(index int) (device.Device, error)

	updates chan update
	axes    map[uint8]int16
	current wire.Throttle
	sent    wire.Throttle
	dirty   bool
	lastAt  time.Time
}

// NewController creates a Controller.
func NewController(sender Sender) *Controller {
	return &Controller{
		Config:  defaultConfig,
		Sender:  sender,
		updates: make(chan update, 16),
		axes:    make(map[uint8]int16),
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(c)
	loop.AddController(fx.PrLvDispatch, c)
}

// Name implements Named.
func (c *Controller) Name() string { return "joystick" }

func (c *Controller) open() (device.Device, error) {
	if c.Open != nil {
		return c.Open(c.DeviceIndex)
	}
	if c.DeviceIndex >= 0 {
		return device.Open(c.DeviceIndex)
	}
	return device.DetectAndOpen(0)
}

// Run implements Runnable. It reopens the device once a second until ctx
// is done.
func (c *Controller) Run(ctx context.Context) error {
	retry := time.NewTicker(time.Second)
	defer retry.Stop()
	for {
		js, err := c.open()
		switch {
		case errors.Is(err, device.ErrUnsupported):
			return err
		case err != nil:
			glog.Warningf("open joystick: %v", err)
		case js == nil:
			glog.V(1).Info("no joystick detected")
		default:
			glog.Infof("joystick %d %q opened, %d axes %d buttons",
				js.Index(), js.Name(), js.AxisCount(), js.ButtonCount())
			c.poll(ctx, js)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-retry.C:
		}
	}
}

func (c *Controller) poll(ctx context.Context, js device.Device) {
	err := fx.RunWithContextCloser(ctx, js, func() error {
		for {
			ev, err := js.ReadEvent()
			if err != nil {
				return err
			}
			if c.Verbose {
				glog.Info(ev)
			}
			c.push(ctx, update{event: ev})
		}
	})
	if ctx.Err() == nil {
		glog.Warningf("joystick read error: %v", err)
	}
	c.push(ctx, update{lost: true})
}

func (c *Controller) push(ctx context.Context, u update) {
	select {
	case c.updates <- u:
	case <-ctx.Done():
		return
	}
	if ctl := fx.LoopCtlFrom(ctx); ctl != nil {
		ctl.TriggerNext()
	}
}

// Scale maps a raw axis value to a throttle value.
func (c *Config) Scale(raw int16, invert bool) int8 {
	v := int(raw)
	if v > -c.Deadzone && v < c.Deadzone {
		return 0
	}
	if invert {
		v = -v
	}
	v = v * 127 / device.AxisMax
	return int8(max(-127, min(127, v)))
}

func (c *Controller) apply(u update) (cycle bool) {
	if u.lost {
		clear(c.axes)
		c.current = wire.Throttle{}
		c.dirty = true
		return false
	}
	ev := u.event
	switch {
	case ev.IsAxis():
		c.axes[ev.Number] = ev.Value
		c.current = wire.Throttle{
			X: c.Scale(c.axes[uint8(c.Axes[0])], c.Invert[0]),
			Y: c.Scale(c.axes[uint8(c.Axes[1])], c.Invert[1]),
			Z: c.Scale(c.axes[uint8(c.Axes[2])], c.Invert[2]),
		}
		c.dirty = c.dirty || c.current != c.sent
	case ev.IsButton():
		return !ev.IsInit() && ev.Pressed() && c.LedButton >= 0 && int(ev.Number) == c.LedButton
	}
	return false
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	for {
		var u update
		select {
		case u = <-c.updates:
		default:
			return c.flush(cc.Time())
		}
		if c.apply(u) {
			if err := c.Sender.Send(wire.CycleLed{}); err != nil {
				return err
			}
		}
		if u.lost {
			if err := c.flush(time.Time{}); err != nil {
				return err
			}
		}
	}
}

// flush sends the current throttle if changed and not rate limited. A zero
// now bypasses the rate limit.
func (c *Controller) flush(now time.Time) error {
	if !c.dirty || (!now.IsZero() && now.Sub(c.lastAt) < c.Interval) {
		return nil
	}
	if err := c.Sender.Send(c.current); err != nil {
		return err
	}
	c.sent, c.dirty, c.lastAt = c.current, false, now
	return nil
}

// Current returns the throttle derived from the joystick.
func (c *Controller) Current() wire.Throttle {
	return c.current
}
