package wire

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func sampleMessages() []Message {
	return []Message{
		Sensors{
			Accel:    Vector3{X: 0.25, Y: -0.5, Z: -9.80665},
			Gyro:     Vector3{X: 0.001, Y: -0.002, Z: 0},
			Altitude: 12.5,
		},
		EstimatedState{Attitude: Attitude{Pitch: 0.1, Roll: -0.2, Yaw: math.Pi}},
		Battery{Voltage: 3700, ADCRaw: 2048, ChargeComplete: true},
		Battery{},
		Log{Data: []byte("calibrated")},
		Log{},
		CycleLed{},
		Throttle{X: 10, Y: -5, Z: 0},
		Throttle{X: math.MaxInt8, Y: math.MinInt8, Z: -1},
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	for _, msg := range sampleMessages() {
		t.Run(msg.Tag().String(), func(t *testing.T) {
			got, err := UnmarshalPayload(MarshalPayload(msg))
			require.NoError(t, err)
			if diff := cmp.Diff(msg, got); diff != "" {
				t.Fatalf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPayloadLayout(t *testing.T) {
	testCases := []struct {
		name   string
		msg    Message
		expect []byte
	}{
		{name: "throttle", msg: Throttle{X: 10, Y: -5, Z: 0}, expect: []byte{0x11, 0x0a, 0xfb, 0x00}},
		{name: "cycle led", msg: CycleLed{}, expect: []byte{0x10}},
		{name: "battery", msg: Battery{Voltage: 0x0102, ADCRaw: 0x0304, ChargeComplete: true}, expect: []byte{0x03, 0x02, 0x01, 0x04, 0x03, 0x01}},
		{name: "log", msg: Log{Data: []byte("hi")}, expect: []byte{0x04, 0x02, 'h', 'i'}},
		{name: "state", msg: EstimatedState{Attitude: Attitude{Pitch: 1}}, expect: []byte{0x02, 0, 0, 0x80, 0x3f, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, MarshalPayload(tc.msg))
		})
	}
	require.Len(t, MarshalPayload(Sensors{}), 29)
}

func TestPayloadErrors(t *testing.T) {
	testCases := []struct {
		name string
		in   []byte
	}{
		{name: "empty", in: nil},
		{name: "unknown tag", in: []byte{0x7f}},
		{name: "short throttle", in: []byte{0x11, 0x01}},
		{name: "trailing bytes", in: []byte{0x10, 0x00}},
		{name: "bad bool", in: []byte{0x03, 0, 0, 0, 0, 2}},
		{name: "short log", in: []byte{0x04, 0x05, 'a'}},
		{name: "long log", in: []byte{0x04, 0xff, 0x01}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalPayload(tc.in)
			require.ErrorIs(t, err, ErrFrameDecode)
		})
	}
}

func TestLogTruncated(t *testing.T) {
	long := bytes.Repeat([]byte{'x'}, MaxLogLen+50)
	got, err := Decode(Marshal(Log{Data: long}))
	require.NoError(t, err)
	require.Len(t, got.(Log).Data, MaxLogLen)
}

func TestFrameRoundTrip(t *testing.T) {
	for _, msg := range sampleMessages() {
		t.Run(msg.Tag().String(), func(t *testing.T) {
			frame := Marshal(msg)
			require.Equal(t, Delimiter, frame[len(frame)-1])
			require.Equal(t, len(frame)-1, bytes.IndexByte(frame, Delimiter))
			got, err := Decode(frame)
			require.NoError(t, err)
			require.Equal(t, msg, got)
		})
	}
}

func TestEncodeBufferTooSmall(t *testing.T) {
	msg := Sensors{Altitude: 1}
	frame := Marshal(msg)
	out := make([]byte, len(frame))
	n, err := Encode(msg, out)
	require.NoError(t, err)
	require.Equal(t, frame, out[:n])
	for size := 0; size < len(frame); size++ {
		_, err := Encode(msg, make([]byte, size))
		require.ErrorIsf(t, err, ErrBufferTooSmall, "size=%d", size)
	}
}

func TestDirection(t *testing.T) {
	require.True(t, IsCommand(Throttle{}))
	require.True(t, IsCommand(CycleLed{}))
	require.False(t, IsCommand(Sensors{}))
	require.False(t, IsCommand(Log{}))
	require.Equal(t, Outbound, DirectionOf(TagBattery))
}

func feedAll(a *Accumulator, chunks ...[]byte) (results []FeedResult) {
	for _, chunk := range chunks {
		a.Drain(chunk, func(r FeedResult) { results = append(results, r) })
	}
	return
}

func successes(results []FeedResult) (msgs []Message) {
	for _, r := range results {
		if r.Status == Success {
			msgs = append(msgs, r.Message)
		}
	}
	return
}

func TestAccumulatorThrottleInTwoChunks(t *testing.T) {
	frame := Marshal(Throttle{X: 10, Y: -5, Z: 0})
	for split := 1; split < len(frame); split++ {
		a := NewAccumulator(0)
		first := a.Feed(frame[:split])
		require.Equal(t, Consumed, first.Status)
		res := a.Feed(frame[split:])
		require.Equalf(t, Success, res.Status, "split=%d", split)
		require.Equal(t, Throttle{X: 10, Y: -5, Z: 0}, res.Message)
		require.Empty(t, res.Remaining)
	}
}

func TestAccumulatorEveryBoundary(t *testing.T) {
	for _, msg := range sampleMessages() {
		frame := Marshal(msg)
		for split := 0; split <= len(frame); split++ {
			a := NewAccumulator(64)
			results := feedAll(a, frame[:split], frame[split:])
			require.Equalf(t, []Message{msg}, successes(results), "%s split=%d", msg.Tag(), split)
		}
		a := NewAccumulator(64)
		var chunks [][]byte
		for i := range frame {
			chunks = append(chunks, frame[i:i+1])
		}
		require.Equal(t, []Message{msg}, successes(feedAll(a, chunks...)))
	}
}

func TestAccumulatorMultipleFrames(t *testing.T) {
	first, second := Throttle{X: 1, Y: 2, Z: 3}, Battery{Voltage: 4100}
	window := append(Marshal(first), Marshal(second)...)
	a := NewAccumulator(0)

	res := a.Feed(window)
	require.Equal(t, Success, res.Status)
	require.Equal(t, first, res.Message)
	require.NotEmpty(t, res.Remaining)

	res = a.Feed(res.Remaining)
	require.Equal(t, Success, res.Status)
	require.Equal(t, second, res.Message)
	require.Empty(t, res.Remaining)
}

func TestAccumulatorResync(t *testing.T) {
	valid := Throttle{X: 10, Y: -5, Z: 0}
	good := Marshal(valid)
	corrupted := func(mutate func([]byte) []byte) []byte {
		return mutate(append([]byte(nil), Marshal(Sensors{Altitude: 3})...))
	}
	testCases := []struct {
		name string
		bad  []byte
	}{
		{name: "byte inserted", bad: corrupted(func(b []byte) []byte {
			return append(b[:3], append([]byte{0x42}, b[3:]...)...)
		})},
		{name: "byte removed", bad: corrupted(func(b []byte) []byte {
			return append(b[:2], b[3:]...)
		})},
		{name: "zero inserted", bad: corrupted(func(b []byte) []byte {
			return append(b[:5], append([]byte{0x00}, b[5:]...)...)
		})},
		{name: "garbage", bad: []byte{0xde, 0xad, 0xbe, 0xef, 0x00}},
		{name: "lone delimiter", bad: []byte{0x00}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAccumulator(0)
			results := feedAll(a, append(tc.bad, good...))
			var sawError bool
			for _, r := range results {
				if r.Status == DecodeError {
					sawError = true
					require.ErrorIs(t, r.Err, ErrFrameDecode)
				}
			}
			require.True(t, sawError)
			msgs := successes(results)
			require.NotEmpty(t, msgs)
			require.Equal(t, valid, msgs[len(msgs)-1])
		})
	}
}

func TestAccumulatorOverFull(t *testing.T) {
	a := NewAccumulator(8)
	res := a.Feed(bytes.Repeat([]byte{0x55}, 6))
	require.Equal(t, Consumed, res.Status)
	require.Equal(t, 6, a.Buffered())

	res = a.Feed([]byte{0x55, 0x55, 0x55, 0x55})
	require.Equal(t, OverFull, res.Status)
	require.Equal(t, []byte{0x55, 0x55}, res.Remaining)
	require.Equal(t, 0, a.Buffered())

	a.Reset()
	good := Marshal(CycleLed{})
	window := append(bytes.Repeat([]byte{0x55}, 10), 0x00)
	window = append(window, good...)
	results := feedAll(a, window)
	require.Equal(t, OverFull, results[0].Status)
	require.Equal(t, []Message{CycleLed{}}, successes(results))
}

func TestAccumulatorEmptyWindow(t *testing.T) {
	a := NewAccumulator(0)
	res := a.Feed(nil)
	require.Equal(t, Consumed, res.Status)
	require.Nil(t, res.Remaining)
}
