package flight

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/queue"
	"github.com/robotalks/icarus.go/pkg/status"
	"github.com/robotalks/icarus.go/pkg/wire"
)

// BatteryMonitor reads the battery.
type BatteryMonitor interface {
	ReadBattery(ctx context.Context) (wire.Battery, error)
}

// BatteryFunc is the func form of BatteryMonitor.
type BatteryFunc func(context.Context) (wire.Battery, error)

// ReadBattery implements BatteryMonitor.
func (f BatteryFunc) ReadBattery(ctx context.Context) (wire.Battery, error) {
	return f(ctx)
}

// StatusTask drives the indicator from the advisory flags and publishes
// battery readings.
type StatusTask struct {
	Indicator status.Indicator
	Link      *status.Flag
	Fault     *status.Flag

	Battery         BatteryMonitor
	BatteryInterval time.Duration
	Out             *queue.Producer[wire.Message]

	lastBattery time.Time
}

// Name implements framework.Named.
func (t *StatusTask) Name() string { return "status" }

// Tick refreshes the indicator and polls the battery when due.
func (t *StatusTask) Tick(ctx context.Context, now time.Time) error {
	if t.Indicator != nil {
		t.Indicator.Show(status.PatternFor(loadFlag(t.Link), loadFlag(t.Fault)))
	}
	if t.Battery == nil || t.Out == nil || now.Sub(t.lastBattery) < t.BatteryInterval {
		return nil
	}
	t.lastBattery = now
	bat, err := t.Battery.ReadBattery(ctx)
	if err != nil {
		glog.V(1).Infof("battery read failed: %v", err)
		return nil
	}
	if err := t.Out.Enqueue(bat); err != nil {
		glog.V(2).Infof("battery dropped: %v", err)
	}
	return nil
}

func loadFlag(f *status.Flag) bool {
	return f != nil && f.Load()
}
