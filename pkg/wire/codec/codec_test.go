package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/icarus.go/pkg/wire"
)

func TestFramingsRoundTrip(t *testing.T) {
	msgs := []wire.Message{
		wire.Sensors{Accel: wire.Vector3{Z: -9.8}, Altitude: 2},
		wire.EstimatedState{Attitude: wire.Attitude{Yaw: 1}},
		wire.Battery{Voltage: 3800, ADCRaw: 1234},
		wire.Log{Data: []byte("armed")},
		wire.CycleLed{},
		wire.Throttle{X: 10, Y: -5},
	}
	for _, f := range []Framing{COBS, Header} {
		t.Run(f.Name, func(t *testing.T) {
			var stream bytes.Buffer
			w := NewWriter(&stream, f)
			for _, msg := range msgs {
				require.NoError(t, w.WriteMessage(msg))
			}
			stream.Write([]byte{0x7e, 0x00, 0x13, 0x00})
			for _, msg := range msgs {
				require.NoError(t, w.WriteMessage(msg))
			}

			var got []wire.Message
			var errs int
			dec := f.NewDecoder(0)
			data := stream.Bytes()
			for len(data) > 0 {
				n := 7
				if n > len(data) {
					n = len(data)
				}
				dec.Feed(data[:n], func(msg wire.Message, err error) {
					if err != nil {
						errs++
						return
					}
					got = append(got, msg)
				})
				data = data[n:]
			}
			require.Equal(t, append(append([]wire.Message{}, msgs...), msgs...), got)
			require.NotZero(t, errs)
		})
	}
}

func TestLookup(t *testing.T) {
	f, err := Lookup("")
	require.NoError(t, err)
	require.Equal(t, "cobs", f.Name)
	f, err = Lookup("header")
	require.NoError(t, err)
	require.Equal(t, "header", f.Name)
	_, err = Lookup("slip")
	require.Error(t, err)
}

func TestCOBSOverFull(t *testing.T) {
	dec := COBS.NewDecoder(4)
	var errs []error
	dec.Feed([]byte{1, 2, 3, 4, 5, 6, 0}, func(_ wire.Message, err error) { errs = append(errs, err) })
	require.NotEmpty(t, errs)
	require.ErrorIs(t, errs[0], ErrOverFull)
}
