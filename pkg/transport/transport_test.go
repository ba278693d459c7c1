package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestIsWouldBlock(t *testing.T) {
	testCases := []struct {
		err    error
		expect bool
	}{
		{nil, false},
		{ErrWouldBlock, true},
		{fmt.Errorf("read: %w", ErrWouldBlock), true},
		{&net.OpError{Op: "read", Err: errTimeout{}}, true},
		{io.EOF, false},
		{&IoError{Op: "write", Err: errors.New("broken pipe")}, false},
	}
	for _, tc := range testCases {
		require.Equalf(t, tc.expect, IsWouldBlock(tc.err), "%v", tc.err)
	}
}

type errTimeout struct{}

func (errTimeout) Error() string { return "i/o timeout" }
func (errTimeout) Timeout() bool { return true }

func TestPipeReadTimeout(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()
	require.NoError(t, a.SetReadTimeout(5*time.Millisecond))

	buf := make([]byte, 8)
	_, err := a.Read(buf)
	require.True(t, IsWouldBlock(err))

	go b.Write([]byte{1, 2, 3})
	require.NoError(t, a.SetReadTimeout(time.Second))
	n, err := a.Read(buf)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, buf[:n])
}

func TestSerialOptionsFromURL(t *testing.T) {
	u, err := url.Parse("serial:///dev/ttyUSB0?baud=921600&parity=even&stopbits=2")
	require.NoError(t, err)
	opts, err := SerialOptionsFromURL(u)
	require.NoError(t, err)
	require.Equal(t, SerialOptions{BaudRate: 921600, DataBits: 8, Parity: "even", StopBits: 2}, opts)
	mode, err := opts.Mode()
	require.NoError(t, err)
	require.Equal(t, &serial.Mode{BaudRate: 921600, DataBits: 8, Parity: serial.EvenParity, StopBits: serial.TwoStopBits}, mode)

	u, _ = url.Parse("serial:///dev/ttyACM0")
	opts, err = SerialOptionsFromURL(u)
	require.NoError(t, err)
	require.Equal(t, DefaultBaudRate, opts.BaudRate)

	u, _ = url.Parse("serial:///dev/ttyACM0?baud=fast")
	_, err = SerialOptionsFromURL(u)
	require.Error(t, err)

	_, err = SerialOptions{Parity: "mark"}.Mode()
	require.Error(t, err)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), "carrier-pigeon://roof")
	require.Error(t, err)
	_, err = Open(context.Background(), "serial://")
	require.Error(t, err)
}

func TestTCPListenAndDial(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	serverCh := make(chan Transport, 1)
	go func() {
		srv, err := Open(ctx, "tcp-listen://"+addr)
		if err != nil {
			serverCh <- nil
			return
		}
		serverCh <- srv
	}()

	var client Transport
	require.Eventually(t, func() bool {
		client, err = Open(ctx, "tcp://"+addr)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)
	defer client.Close()
	server := <-serverCh
	require.NotNil(t, server)
	defer server.Close()

	_, err = client.Write([]byte("hello"))
	require.NoError(t, err)
	buf := make([]byte, 16)
	var n int
	require.Eventually(t, func() bool {
		n, err = server.Read(buf)
		return err == nil && n > 0
	}, time.Second, time.Millisecond)
	require.Equal(t, "hello", string(buf[:n]))
}

func TestTCPListenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, "tcp-listen://127.0.0.1:0")
	require.Error(t, err)
}

func TestTCPListenCanceledWhileAccepting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	start := time.Now()
	_, err := Open(ctx, "tcp-listen://127.0.0.1:0")
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), 5*time.Second)
}
