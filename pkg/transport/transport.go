// Package transport provides the byte stream links between the flight core
// and the ground station.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"
)

// DefaultReadTimeout bounds reads so polling tasks never stall.
const DefaultReadTimeout = 10 * time.Millisecond

// Transport is a raw byte stream with bounded reads.
//
// Read never assumes message boundaries. When no data arrives within the
// read timeout, Read returns an error for which IsWouldBlock is true.
type Transport interface {
	io.ReadWriteCloser
	SetReadTimeout(time.Duration) error
}

// ErrWouldBlock indicates no data is available yet.
var ErrWouldBlock = errors.New("transport would block")

// IoError is a transport failure other than would-block.
type IoError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *IoError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the cause.
func (e *IoError) Unwrap() error { return e.Err }

// IsWouldBlock reports whether err only means no data was available.
func IsWouldBlock(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrWouldBlock) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// Opener creates a Transport from a parsed URL.
type Opener func(ctx context.Context, u *url.URL) (Transport, error)

var openers = map[string]Opener{
	"serial":     openSerial,
	"tcp":        dialTCP,
	"tcp-listen": listenTCP,
	"ws":         dialWebSocket,
	"wss":        dialWebSocket,
}

// Register adds an Opener for a URL scheme.
func Register(scheme string, opener Opener) {
	openers[scheme] = opener
}

// Open creates a Transport from a URL:
//
//	serial:///dev/ttyUSB0?baud=115200
//	tcp://host:port
//	tcp-listen://:port
//	ws://host:port/path
//
// The returned Transport has DefaultReadTimeout set.
func Open(ctx context.Context, rawURL string) (Transport, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transport URL: %w", err)
	}
	opener := openers[u.Scheme]
	if opener == nil {
		return nil, fmt.Errorf("unknown transport URL scheme: %q", u.Scheme)
	}
	t, err := opener(ctx, u)
	if err != nil {
		return nil, err
	}
	if err = t.SetReadTimeout(DefaultReadTimeout); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}
