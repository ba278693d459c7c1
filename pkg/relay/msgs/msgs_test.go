package msgs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/icarus.go/pkg/wire"
)

func TestWireConversion(t *testing.T) {
	testCases := []struct {
		msg     wire.Message
		command bool
	}{
		{wire.Sensors{Accel: wire.Vector3{X: 0.1, Y: -0.2, Z: -9.8}, Gyro: wire.Vector3{Z: 0.5}, Altitude: 120}, false},
		{wire.EstimatedState{Attitude: wire.Attitude{Pitch: 0.1, Roll: -0.2, Yaw: 3.1}}, false},
		{wire.Battery{Voltage: 3700, ADCRaw: 2048, ChargeComplete: true}, false},
		{wire.Logf("calibrated"), false},
		{wire.CycleLed{}, true},
		{wire.Throttle{X: -128, Y: 0, Z: 127}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.msg.Tag().String(), func(t *testing.T) {
			data, err := EncodeWire(tc.msg)
			require.NoError(t, err)
			typed, err := DecodeTyped(data)
			require.NoError(t, err)
			require.Equal(t, tc.command, typed.IsCommand())
			require.Equal(t, !tc.command, typed.IsEvent())
			require.Equal(t, uint32(tc.msg.Tag()), typed.TypeId&TypeIDMaskTag)
			msg, err := typed.Decode()
			require.NoError(t, err)
			if diff := cmp.Diff(tc.msg, msg.Wire()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestThrottleClamp(t *testing.T) {
	m := &Throttle{X: 300, Y: -300, Z: 5}
	require.Equal(t, wire.Throttle{X: 127, Y: -128, Z: 5}, m.Wire())
}

func TestDecodeErrors(t *testing.T) {
	_, err := (&Typed{TypeId: 0x7f}).Decode()
	var unknown *ErrUnknownType
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, uint32(0x7f), unknown.TypeID)

	_, err = (&Typed{}).Decode()
	require.ErrorIs(t, err, ErrEmptyEnvelope)

	_, err = (&Typed{TypeId: ThrottleTypeID, Message: []byte{0xff}}).Decode()
	require.Error(t, err)
}
