package ground

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robotalks/icarus.go/pkg/wire"
)

// RecordKind selects what a Recorder writes.
type RecordKind int

// Record kinds.
const (
	RecordIMU RecordKind = iota
	RecordAttitude
)

var recordHeaders = map[RecordKind][]string{
	RecordIMU:      {"ts", "ax", "ay", "az", "gx", "gy", "gz"},
	RecordAttitude: {"ts", "pitch", "roll", "yaw"},
}

// Recorder writes telemetry rows as CSV.
type Recorder struct {
	// Session identifies the recording.
	Session uuid.UUID
	Kind    RecordKind
	Now     func() time.Time

	lock   sync.Mutex
	w      *csv.Writer
	rows   int
	err    error
	header bool
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w io.Writer, kind RecordKind) *Recorder {
	return &Recorder{
		Session: uuid.New(),
		Kind:    kind,
		Now:     time.Now,
		w:       csv.NewWriter(w),
	}
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// Record writes msg when it matches Kind and reports whether it did.
func (r *Recorder) Record(msg wire.Message) bool {
	var row []string
	ts := r.Now().UTC().Format(time.RFC3339Nano)
	switch m := msg.(type) {
	case wire.Sensors:
		if r.Kind != RecordIMU {
			return false
		}
		row = []string{ts,
			formatFloat(m.Accel.X), formatFloat(m.Accel.Y), formatFloat(m.Accel.Z),
			formatFloat(m.Gyro.X), formatFloat(m.Gyro.Y), formatFloat(m.Gyro.Z),
		}
	case wire.EstimatedState:
		if r.Kind != RecordAttitude {
			return false
		}
		row = []string{ts,
			formatFloat(m.Attitude.Pitch), formatFloat(m.Attitude.Roll), formatFloat(m.Attitude.Yaw),
		}
	default:
		return false
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.err != nil {
		return false
	}
	if !r.header {
		if r.err = r.w.Write(recordHeaders[r.Kind]); r.err != nil {
			return false
		}
		r.header = true
	}
	if r.err = r.w.Write(row); r.err != nil {
		return false
	}
	r.rows++
	return true
}

// Rows returns the number of rows written, excluding the header.
func (r *Recorder) Rows() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.rows
}

// Flush flushes buffered rows and returns the first write error.
func (r *Recorder) Flush() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.w.Flush()
	if r.err == nil {
		r.err = r.w.Error()
	}
	return r.err
}
