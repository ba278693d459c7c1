package flight

import (
	"sync/atomic"
	"time"

	"github.com/robotalks/icarus.go/pkg/framework"
	"github.com/robotalks/icarus.go/pkg/status"
)

// Activity records the last receive and transmit times of the link.
type Activity struct {
	rx, tx atomic.Int64
}

// MarkRx records inbound traffic.
func (a *Activity) MarkRx(t time.Time) { a.rx.Store(t.UnixNano()) }

// MarkTx records outbound traffic.
func (a *Activity) MarkTx(t time.Time) { a.tx.Store(t.UnixNano()) }

// LastRx returns the latest inbound traffic time, zero if none.
func (a *Activity) LastRx() time.Time { return unixTime(a.rx.Load()) }

// LastTx returns the latest outbound traffic time, zero if none.
func (a *Activity) LastTx() time.Time { return unixTime(a.tx.Load()) }

func unixTime(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Up reports whether the peer was heard within timeout before now. Writes
// succeed on a serial line with nobody listening, so only inbound traffic
// counts.
func (a *Activity) Up(now time.Time, timeout time.Duration) bool {
	last := a.LastRx()
	return !last.IsZero() && now.Sub(last) <= timeout
}

// LinkMonitor is a Controller maintaining the link flag.
type LinkMonitor struct {
	Activity *Activity
	Timeout  time.Duration
	Link     *status.Flag
}

// Control implements framework.Controller.
func (m *LinkMonitor) Control(ctx framework.ControlContext) error {
	m.Link.Set(m.Activity.Up(ctx.Time(), m.Timeout))
	return nil
}
