package flight

import (
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/framework"
	"github.com/robotalks/icarus.go/pkg/queue"
	"github.com/robotalks/icarus.go/pkg/transport"
	"github.com/robotalks/icarus.go/pkg/wire"
	"github.com/robotalks/icarus.go/pkg/wire/codec"
)

// Outbound is a Controller draining outbound queues onto the transport.
// All transport writes happen on the loop goroutine.
type Outbound struct {
	Writer   *codec.Writer
	Sources  []*queue.Consumer[wire.Message]
	Activity *Activity

	sent atomic.Uint64
}

// Sent returns the number of frames written.
func (o *Outbound) Sent() uint64 { return o.sent.Load() }

// Send encodes and writes msg immediately.
func (o *Outbound) Send(msg wire.Message) error {
	if err := o.Writer.WriteMessage(msg); err != nil {
		return &transport.IoError{Op: "write", Err: err}
	}
	o.sent.Add(1)
	if o.Activity != nil {
		o.Activity.MarkTx(time.Now())
	}
	return nil
}

// Control implements framework.Controller. Each source is drained in
// enqueue order. A write failure stops the loop.
func (o *Outbound) Control(framework.ControlContext) error {
	var err error
	for _, src := range o.Sources {
		src.Drain(func(msg wire.Message) {
			if err != nil {
				return
			}
			err = o.Send(msg)
		})
		if err != nil {
			return framework.Fatal(err)
		}
	}
	return nil
}

// Dispatcher is a Controller draining the command queue into a handler.
type Dispatcher struct {
	Commands *queue.Consumer[wire.Message]
	Handler  CommandHandler
	Replies  *Outbound

	dispatched, failed atomic.Uint64
}

// Stats returns the dispatched and failed command counts.
func (d *Dispatcher) Stats() (dispatched, failed uint64) {
	return d.dispatched.Load(), d.failed.Load()
}

// Control implements framework.Controller. Handler errors are reported to
// the ground station as Log messages.
func (d *Dispatcher) Control(ctx framework.ControlContext) error {
	var err error
	d.Commands.Drain(func(cmd wire.Message) {
		if err != nil {
			return
		}
		d.dispatched.Add(1)
		reply, herr := d.Handler.HandleCommand(ctx.Context(), cmd)
		if herr != nil {
			d.failed.Add(1)
			glog.Warningf("command %s: %v", cmd.Tag(), herr)
			reply = wire.Logf("%s: %v", cmd.Tag(), herr)
		}
		if reply != nil && d.Replies != nil {
			err = d.Replies.Send(reply)
		}
	})
	if err != nil {
		return framework.Fatal(err)
	}
	return nil
}
