package transport

import (
	"context"
	"net"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/icarus.go/pkg/framework"
)

// Conn adapts a net.Conn to Transport using read deadlines.
type Conn struct {
	net.Conn

	timeout atomic.Int64
}

// NewConn wraps conn.
func NewConn(conn net.Conn) *Conn {
	return &Conn{Conn: conn}
}

// SetReadTimeout implements Transport. Zero disables the timeout.
func (c *Conn) SetReadTimeout(d time.Duration) error {
	c.timeout.Store(int64(d))
	if d <= 0 {
		return c.Conn.SetReadDeadline(time.Time{})
	}
	return nil
}

// Read implements io.Reader.
func (c *Conn) Read(p []byte) (int, error) {
	if d := time.Duration(c.timeout.Load()); d > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(d)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(p)
}

// Pipe creates a connected pair of in-memory Transports.
func Pipe() (*Conn, *Conn) {
	a, b := net.Pipe()
	return NewConn(a), NewConn(b)
}

func dialTCP(ctx context.Context, u *url.URL) (Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", u.Host)
	if err != nil {
		return nil, err
	}
	return NewConn(conn), nil
}

// listenTCP accepts exactly one peer.
func listenTCP(ctx context.Context, u *url.URL) (Transport, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", u.Host)
	if err != nil {
		return nil, err
	}
	glog.Infof("waiting for peer on %s", ln.Addr())
	var conn net.Conn
	err = framework.RunWithContextCloser(ctx, ln, func() (err error) {
		conn, err = ln.Accept()
		return
	})
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	glog.Infof("peer connected from %s", conn.RemoteAddr())
	return NewConn(conn), nil
}
