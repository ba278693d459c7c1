package flight

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/queue"
	"github.com/robotalks/icarus.go/pkg/transport"
	"github.com/robotalks/icarus.go/pkg/wire"
	"github.com/robotalks/icarus.go/pkg/wire/codec"
)

// IngestionStats counts ingestion outcomes.
type IngestionStats struct {
	Commands  uint64
	Malformed uint64
	Ignored   uint64
	Dropped   uint64
}

// Ingestion reads the transport and queues decoded commands.
type Ingestion struct {
	Transport   transport.Transport
	Decoder     codec.Decoder
	Out         *queue.Producer[wire.Message]
	Activity    *Activity
	ReadTimeout time.Duration

	commands, malformed, ignored, dropped atomic.Uint64
}

// Name implements framework.Named.
func (in *Ingestion) Name() string { return "ingestion" }

// Stats returns counters.
func (in *Ingestion) Stats() IngestionStats {
	return IngestionStats{
		Commands:  in.commands.Load(),
		Malformed: in.malformed.Load(),
		Ignored:   in.ignored.Load(),
		Dropped:   in.dropped.Load(),
	}
}

// Run implements framework.Runnable. Only a transport failure other than
// would-block stops it.
func (in *Ingestion) Run(ctx context.Context) error {
	timeout := in.ReadTimeout
	if timeout <= 0 {
		timeout = transport.DefaultReadTimeout
	}
	if err := in.Transport.SetReadTimeout(timeout); err != nil {
		return &transport.IoError{Op: "configure", Err: err}
	}
	buf := make([]byte, 64)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := in.Transport.Read(buf)
		if n > 0 {
			if in.Activity != nil {
				in.Activity.MarkRx(time.Now())
			}
			in.Feed(buf[:n])
		}
		switch {
		case err == nil || transport.IsWouldBlock(err):
		case errors.Is(err, io.EOF):
			return &transport.IoError{Op: "read", Err: io.ErrUnexpectedEOF}
		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &transport.IoError{Op: "read", Err: err}
		}
	}
}

// Feed decodes p and queues inbound commands.
func (in *Ingestion) Feed(p []byte) {
	in.Decoder.Feed(p, func(msg wire.Message, err error) {
		switch {
		case err != nil:
			in.malformed.Add(1)
			glog.V(1).Infof("frame discarded: %v", err)
		case !wire.IsCommand(msg):
			in.ignored.Add(1)
			glog.V(1).Infof("ignored non-command %s", msg.Tag())
		case in.Out.Enqueue(msg) != nil:
			in.dropped.Add(1)
			glog.Warningf("command %s dropped: queue full", msg.Tag())
		default:
			in.commands.Add(1)
		}
	})
}
