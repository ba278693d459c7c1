package device

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		raw    []byte
		expect Event
		axis   bool
		button bool
		init   bool
		str    string
	}{
		{
			raw:    []byte{0x10, 0x00, 0x00, 0x00, 0x01, 0x80, 0x02, 0x01},
			expect: Event{Time: 16, Value: -32767, Type: TypeAxis, Number: 1},
			axis:   true,
			str:    "Axis 1: -32767",
		},
		{
			raw:    []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x81, 0x03},
			expect: Event{Value: 1, Type: TypeButton | TypeInit, Number: 3},
			button: true,
			init:   true,
			str:    "[INIT] Button 3: true",
		},
	}
	for _, tc := range testCases {
		ev, err := Decode(tc.raw)
		require.NoError(t, err)
		require.Equal(t, tc.expect, ev)
		require.Equal(t, tc.axis, ev.IsAxis())
		require.Equal(t, tc.button, ev.IsButton())
		require.Equal(t, tc.init, ev.IsInit())
		require.Equal(t, tc.str, ev.String())
	}
	_, err := Decode([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestReader(t *testing.T) {
	r := &Reader{R: bytes.NewReader([]byte{
		0, 0, 0, 0, 0xff, 0x7f, 0x02, 0x00,
		0, 0, 0, 0, 0x00, 0x00, 0x01,
	})}
	ev, err := r.ReadEvent()
	require.NoError(t, err)
	require.Equal(t, int16(AxisMax), ev.Value)
	_, err = r.ReadEvent()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
