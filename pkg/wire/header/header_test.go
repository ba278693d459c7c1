package header

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/icarus.go/pkg/wire"
)

type parserTestStep struct {
	in     []byte
	expect ParseResult
}

type parserTestBuilder struct {
	steps []parserTestStep
}

func parserSteps() *parserTestBuilder {
	return &parserTestBuilder{}
}

func (b *parserTestBuilder) on(state State, in ...byte) *parserTestBuilder {
	b.steps = append(b.steps, parserTestStep{in: in, expect: ParseResult{State: state}})
	return b
}

func (b *parserTestBuilder) frame(msg wire.Message) *parserTestBuilder {
	frame, err := Marshal(msg)
	if err != nil {
		panic(err)
	}
	return b.on(StateSync, frame...).message(msg)
}

func (b *parserTestBuilder) message(msg wire.Message) *parserTestBuilder {
	b.steps[len(b.steps)-1].expect.Message = msg
	return b
}

func TestParser(t *testing.T) {
	testCases := []struct {
		name  string
		size  int
		steps []parserTestStep
	}{
		{
			name: "single frame",
			steps: parserSteps().
				on(StateLength, Sync).
				on(StateTransfer, 0x04, 0x11, 0x0a, 0xfb, 0x00, 0xff).
				on(StateSync, 0xff).message(wire.Throttle{X: 10, Y: -5}).
				steps,
		},
		{
			name: "legacy frame layout",
			steps: parserSteps().
				on(StateSync, Sync, 0x01, 0x10, 0xff, 0xff).message(wire.CycleLed{}).
				steps,
		},
		{
			name: "skip garbage before sync",
			steps: parserSteps().
				on(StateSync, 0x00, 0x01, 0x55, 0xaa).
				frame(wire.Battery{Voltage: 3900}).
				steps,
		},
		{
			name: "back to back frames",
			steps: parserSteps().
				frame(wire.Throttle{X: 1}).
				frame(wire.Log{Data: []byte("ok")}).
				frame(wire.EstimatedState{Attitude: wire.Attitude{Roll: 0.5}}).
				steps,
		},
		{
			name: "wraparound",
			size: 32,
			steps: parserSteps().
				frame(wire.Sensors{Altitude: 1}).
				frame(wire.Sensors{Altitude: 2}).
				frame(wire.Sensors{Accel: wire.Vector3{X: 1, Y: 2, Z: 3}, Altitude: 3}).
				steps,
		},
		{
			name: "empty frame resyncs",
			steps: parserSteps().
				on(StateLength, Sync).
				on(StateSync, 0x00).
				frame(wire.CycleLed{}).
				steps,
		},
		{
			name: "longest log with default ring",
			steps: parserSteps().
				frame(wire.Log{Data: bytes.Repeat([]byte{'a'}, wire.MaxLogLen)}).
				frame(wire.Log{Data: bytes.Repeat([]byte{'b'}, wire.MaxLogLen)}).
				steps,
		},
		{
			name: "too long resyncs",
			size: 8,
			steps: parserSteps().
				on(StateSync, Sync, 0x20).
				frame(wire.Throttle{Z: 3}).
				steps,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewParser(tc.size)
			for n, step := range tc.steps {
				var last ParseResult
				for i, b := range step.in {
					last = p.Parse(b)
					if i+1 < len(step.in) {
						require.Nilf(t, last.Message, "step %d byte %d", n, i)
					}
				}
				require.Equalf(t, step.expect.State, last.State, "step %d", n)
				require.Equalf(t, step.expect.Message, last.Message, "step %d", n)
			}
		})
	}
}

func TestParserErrors(t *testing.T) {
	p := NewParser(0)
	pr := p.Parse(Sync)
	require.NoError(t, pr.Err)
	pr = p.Parse(0)
	require.ErrorIs(t, pr.Err, ErrEmptyFrame)
	require.Equal(t, StateSync, pr.State)

	p = NewParser(4)
	p.Parse(Sync)
	pr = p.Parse(5)
	require.ErrorIs(t, pr.Err, ErrFrameTooLong)

	// short Throttle payload decodes with an error and resyncs.
	p = NewParser(0)
	var last ParseResult
	for _, b := range []byte{Sync, 0x02, 0x11, 0x01, 0xff, 0xff} {
		last = p.Parse(b)
	}
	require.ErrorIs(t, last.Err, wire.ErrFrameDecode)
	require.Equal(t, StateSync, last.State)

	// trailing byte after CycleLed.
	p = NewParser(0)
	for _, b := range []byte{Sync, 0x02, 0x10, 0x00, 0xff, 0xff} {
		last = p.Parse(b)
	}
	require.ErrorIs(t, last.Err, wire.ErrFrameDecode)
}

func TestEncodeLayout(t *testing.T) {
	frame, err := Marshal(wire.Throttle{X: 10, Y: -5})
	require.NoError(t, err)
	require.Equal(t, []byte{Sync, 0x04, 0x11, 0x0a, 0xfb, 0x00, 0xff, 0xff}, frame)

	_, err = Encode(wire.Throttle{}, make([]byte, len(frame)-1))
	require.ErrorIs(t, err, wire.ErrBufferTooSmall)

	var buf bytes.Buffer
	n, err := WriteTo(&buf, wire.CycleLed{})
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte{Sync, 0x01, 0x10, 0xff, 0xff}, buf.Bytes())
}

func TestRingReaderWraps(t *testing.T) {
	r := NewRing(4)
	for _, b := range []byte{1, 2, 3, 4, 5, 6} {
		r.Push(b)
	}
	require.Equal(t, 2, r.Head())
	rr := r.Reader(2, 4)
	out, err := io.ReadAll(rr)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4, 5, 6}, out)
	_, err = rr.ReadByte()
	require.ErrorIs(t, err, io.EOF)
}
