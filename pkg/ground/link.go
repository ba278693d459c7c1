// Package ground implements the ground station side of the link.
package ground

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/transport"
	"github.com/robotalks/icarus.go/pkg/wire"
	"github.com/robotalks/icarus.go/pkg/wire/codec"
)

// ErrNotCommand is returned when sending a telemetry message to the device.
var ErrNotCommand = errors.New("not a command")

// ReadTimeout bounds each transport read of a Link.
var ReadTimeout = 100 * time.Millisecond

// Link is the ground station end of a flight core connection.
type Link struct {
	Transport transport.Transport
	Framing   codec.Framing

	writer    *codec.Writer
	writeLock sync.Mutex

	subsLock sync.RWMutex
	subs     map[int]func(wire.Message)
	nextSub  int

	received, malformed atomic.Uint64
}

// NewLink wraps an opened transport.
func NewLink(t transport.Transport, f codec.Framing) *Link {
	return &Link{
		Transport: t,
		Framing:   f,
		writer:    codec.NewWriter(t, f),
		subs:      make(map[int]func(wire.Message)),
	}
}

// Dial opens the transport at url and creates a Link.
func Dial(ctx context.Context, url, framing string) (*Link, error) {
	f, err := codec.Lookup(framing)
	if err != nil {
		return nil, err
	}
	t, err := transport.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	return NewLink(t, f), nil
}

// Subscribe registers h for every decoded message. h runs on the reader
// goroutine and must not block. The returned func removes it.
func (l *Link) Subscribe(h func(wire.Message)) (unsubscribe func()) {
	l.subsLock.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = h
	l.subsLock.Unlock()
	return func() {
		l.subsLock.Lock()
		delete(l.subs, id)
		l.subsLock.Unlock()
	}
}

// Send encodes and writes a command.
func (l *Link) Send(msg wire.Message) error {
	if !wire.IsCommand(msg) {
		return fmt.Errorf("%w: %s", ErrNotCommand, msg.Tag())
	}
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	if err := l.writer.WriteMessage(msg); err != nil {
		return &transport.IoError{Op: "write", Err: err}
	}
	return nil
}

// Stats returns the numbers of decoded and discarded frames.
func (l *Link) Stats() (received, malformed uint64) {
	return l.received.Load(), l.malformed.Load()
}

// Run reads and dispatches telemetry until ctx is done or the transport
// fails.
func (l *Link) Run(ctx context.Context) error {
	if err := l.Transport.SetReadTimeout(ReadTimeout); err != nil {
		return &transport.IoError{Op: "configure", Err: err}
	}
	dec := l.Framing.NewDecoder(wire.DefaultAccumulatorSize)
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := l.Transport.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n], l.dispatch)
		}
		switch {
		case err == nil || transport.IsWouldBlock(err):
		case errors.Is(err, io.EOF):
			return io.EOF
		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &transport.IoError{Op: "read", Err: err}
		}
	}
}

// Close closes the transport.
func (l *Link) Close() error {
	return l.Transport.Close()
}

func (l *Link) dispatch(msg wire.Message, err error) {
	if err != nil {
		l.malformed.Add(1)
		glog.V(1).Infof("frame discarded: %v", err)
		return
	}
	l.received.Add(1)
	l.subsLock.RLock()
	defer l.subsLock.RUnlock()
	for _, h := range l.subs {
		h(msg)
	}
}
