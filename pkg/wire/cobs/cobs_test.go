package cobs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func seq(n int, start byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
		if b[i] == 0 {
			b[i] = 1
		}
	}
	return b
}

func TestEncodeKnownVectors(t *testing.T) {
	testCases := []struct {
		name    string
		in, out []byte
	}{
		{name: "empty", in: []byte{}, out: []byte{0x01}},
		{name: "zero", in: []byte{0x00}, out: []byte{0x01, 0x01}},
		{name: "two zeros", in: []byte{0x00, 0x00}, out: []byte{0x01, 0x01, 0x01}},
		{name: "mixed", in: []byte{0x11, 0x22, 0x00, 0x33}, out: []byte{0x03, 0x11, 0x22, 0x02, 0x33}},
		{name: "no zero", in: []byte{0x11, 0x22, 0x33, 0x44}, out: []byte{0x05, 0x11, 0x22, 0x33, 0x44}},
		{name: "trailing zero", in: []byte{0x11, 0x00}, out: []byte{0x02, 0x11, 0x01}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, Append(nil, tc.in))
			dec := make([]byte, len(tc.out))
			n, err := Decode(dec, tc.out)
			require.NoError(t, err)
			require.Equal(t, tc.in, dec[:n])
		})
	}
}

func TestRoundTripLongRuns(t *testing.T) {
	for _, n := range []int{253, 254, 255, 508, 600} {
		in := seq(n, 1)
		in[n/2] = 0
		enc := Append(nil, in)
		require.LessOrEqualf(t, len(enc), MaxEncodedLen(n), "n=%d", n)
		require.Equalf(t, -1, bytes.IndexByte(enc, 0), "n=%d", n)
		n2, err := Decode(enc, enc)
		require.NoErrorf(t, err, "n=%d", n)
		require.Equalf(t, in, enc[:n2], "n=%d", n)
	}
}

func TestEncodeShortBuffer(t *testing.T) {
	_, err := Encode(make([]byte, 3), []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrShortBuffer)
	_, err = Encode(nil, nil)
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(make([]byte, 8), []byte{0x03, 0x11})
	require.ErrorIs(t, err, ErrTruncated)
	_, err = Decode(make([]byte, 8), []byte{0x03, 0x11, 0x00})
	require.ErrorIs(t, err, ErrZeroByte)
	_, err = Decode(make([]byte, 8), []byte{0x00})
	require.ErrorIs(t, err, ErrZeroByte)
}
