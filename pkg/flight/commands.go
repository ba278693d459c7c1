package flight

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/status"
	"github.com/robotalks/icarus.go/pkg/wire"
)

// ErrUnsupportedCommand indicates a message with no handler.
var ErrUnsupportedCommand = errors.New("unsupported command")

// CommandHandler executes inbound commands. A non-nil reply is sent back to
// the ground station.
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd wire.Message) (reply wire.Message, err error)
}

// HandleCommandFunc is the func form of CommandHandler.
type HandleCommandFunc func(context.Context, wire.Message) (wire.Message, error)

// HandleCommand implements CommandHandler.
func (f HandleCommandFunc) HandleCommand(ctx context.Context, cmd wire.Message) (wire.Message, error) {
	return f(ctx, cmd)
}

// Actuator receives throttle commands. Motor mixing lives behind it.
type Actuator interface {
	SetThrottle(x, y, z int8) error
}

// LogActuator records the last throttle and logs it.
type LogActuator struct {
	lock sync.Mutex
	last wire.Throttle
}

// SetThrottle implements Actuator.
func (a *LogActuator) SetThrottle(x, y, z int8) error {
	a.lock.Lock()
	a.last = wire.Throttle{X: x, Y: y, Z: z}
	a.lock.Unlock()
	glog.V(1).Infof("throttle %d %d %d", x, y, z)
	return nil
}

// Last returns the last throttle command.
func (a *LogActuator) Last() wire.Throttle {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.last
}

// Commands is the default CommandHandler.
type Commands struct {
	Indicator status.Indicator
	Actuator  Actuator
}

// HandleCommand implements CommandHandler.
func (c *Commands) HandleCommand(ctx context.Context, cmd wire.Message) (wire.Message, error) {
	switch m := cmd.(type) {
	case wire.CycleLed:
		if c.Indicator != nil {
			c.Indicator.Cycle()
		}
		return nil, nil
	case wire.Throttle:
		if c.Actuator == nil {
			return nil, fmt.Errorf("throttle: no actuator")
		}
		return nil, c.Actuator.SetThrottle(m.X, m.Y, m.Z)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedCommand, cmd.Tag())
}
