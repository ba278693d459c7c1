package transport

import (
	"context"
	"net/url"

	"golang.org/x/net/websocket"
)

func dialWebSocket(ctx context.Context, u *url.URL) (Transport, error) {
	origin := "http://localhost/"
	if val := u.Query().Get("origin"); val != "" {
		origin = val
	}
	conf, err := websocket.NewConfig(u.String(), origin)
	if err != nil {
		return nil, err
	}
	conn, err := conf.DialContext(ctx)
	if err != nil {
		return nil, err
	}
	return NewWebSocket(conn), nil
}

// NewWebSocket wraps a websocket connection carrying binary frames as a
// byte stream.
func NewWebSocket(conn *websocket.Conn) *Conn {
	conn.PayloadType = websocket.BinaryFrame
	return NewConn(conn)
}
