package sh

import (
	"fmt"
	"os"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/google/uuid"

	"github.com/robotalks/icarus.go/pkg/ground"
	"github.com/robotalks/icarus.go/pkg/wire"
)

// ParseThrottle parses three int8 values.
func ParseThrottle(args []string) (wire.Throttle, error) {
	if len(args) != 3 {
		return wire.Throttle{}, fmt.Errorf("expect X Y Z")
	}
	var v [3]int8
	for i, arg := range args {
		n, err := strconv.ParseInt(arg, 10, 8)
		if err != nil {
			return wire.Throttle{}, fmt.Errorf("invalid throttle %q: %w", arg, err)
		}
		v[i] = int8(n)
	}
	return wire.Throttle{X: v[0], Y: v[1], Z: v[2]}, nil
}

func send(c *ishell.Context, msg wire.Message) {
	if err := ShellFrom(c).Send(msg); err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

// Record writes n rows of kind into file. An empty file name is derived
// from the session id.
func (s *Shell) Record(file string, kind ground.RecordKind, n int) (string, int, error) {
	if s.Conn == nil {
		return "", 0, ErrNotConnected
	}
	session := uuid.New()
	if file == "" {
		file = fmt.Sprintf("icarus-%s.csv", session)
	}
	f, err := os.Create(file)
	if err != nil {
		return file, 0, err
	}
	defer f.Close()
	rec := ground.NewRecorder(f, kind)
	rec.Session = session
	err = s.Watch(func(msg wire.Message) bool {
		rec.Record(msg)
		return rec.Rows() < n
	})
	if ferr := rec.Flush(); err == nil {
		err = ferr
	}
	return file, rec.Rows(), err
}

func recordCmd(kind ground.RecordKind) func(c *ishell.Context) {
	return MustBeConnected(func(c *ishell.Context) {
		var file string
		if len(c.Args) > 0 {
			file = c.Args[0]
		}
		n, err := countArg(c, 1, 100)
		if err != nil {
			c.Err(err)
			return
		}
		file, rows, err := ShellFrom(c).Record(file, kind, n)
		if err != nil {
			c.Err(err)
		}
		c.Printf("%d rows written to %s\n", rows, file)
	})
}

var (
	// LedCmd cycles the status indicator.
	LedCmd = ishell.Cmd{
		Name: "led",
		Help: "cycle the indicator color",
		Func: MustBeConnected(func(c *ishell.Context) {
			send(c, wire.CycleLed{})
		}),
	}

	// ThrottleCmd sets the throttle.
	ThrottleCmd = ishell.Cmd{
		Name:    "throttle",
		Aliases: []string{"t"},
		Help:    "X Y Z, each in [-128, 127]",
		Func: MustBeConnected(func(c *ishell.Context) {
			msg, err := ParseThrottle(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			send(c, msg)
		}),
	}

	// RecordCmd records raw IMU samples to CSV.
	RecordCmd = ishell.Cmd{
		Name:    "record",
		Aliases: []string{"r"},
		Help:    "[FILE [N]] record N IMU rows, default 100",
		Func:    recordCmd(ground.RecordIMU),
	}

	// RecordAttitudeCmd records attitude estimates to CSV.
	RecordAttitudeCmd = ishell.Cmd{
		Name: "record-attitude",
		Help: "[FILE [N]] record N attitude rows, default 100",
		Func: recordCmd(ground.RecordAttitude),
	}
)
