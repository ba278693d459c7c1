package transport

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.bug.st/serial"
)

// DefaultBaudRate of serial links.
const DefaultBaudRate = 115200

// SerialOptions configures a serial port.
type SerialOptions struct {
	BaudRate int
	DataBits int
	Parity   string
	StopBits int
}

// Normalize fills defaults.
func (o *SerialOptions) Normalize() {
	if o.BaudRate <= 0 {
		o.BaudRate = DefaultBaudRate
	}
	if o.DataBits <= 0 {
		o.DataBits = 8
	}
	if o.Parity == "" {
		o.Parity = "none"
	}
	if o.StopBits <= 0 {
		o.StopBits = 1
	}
}

// Mode converts to go.bug.st/serial settings.
func (o SerialOptions) Mode() (*serial.Mode, error) {
	o.Normalize()
	mode := &serial.Mode{BaudRate: o.BaudRate, DataBits: o.DataBits}
	switch o.Parity {
	case "none", "n":
		mode.Parity = serial.NoParity
	case "odd", "o":
		mode.Parity = serial.OddParity
	case "even", "e":
		mode.Parity = serial.EvenParity
	default:
		return nil, fmt.Errorf("invalid parity %q", o.Parity)
	}
	switch o.StopBits {
	case 1:
		mode.StopBits = serial.OneStopBit
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("invalid stop bits %d", o.StopBits)
	}
	return mode, nil
}

// SerialOptionsFromURL parses baud, databits, parity and stopbits query
// parameters.
func SerialOptionsFromURL(u *url.URL) (opts SerialOptions, err error) {
	q := u.Query()
	intParam := func(name string, dst *int) {
		if val := q.Get(name); val != "" && err == nil {
			if *dst, err = strconv.Atoi(val); err != nil {
				err = fmt.Errorf("invalid %s %q: %w", name, val, err)
			}
		}
	}
	intParam("baud", &opts.BaudRate)
	intParam("databits", &opts.DataBits)
	intParam("stopbits", &opts.StopBits)
	opts.Parity = q.Get("parity")
	opts.Normalize()
	return
}

// SerialPort adapts serial.Port to Transport.
type SerialPort struct {
	serial.Port
}

// Read implements io.Reader. A read timeout surfaces as ErrWouldBlock.
func (p *SerialPort) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && err == nil && len(b) > 0 {
		return 0, ErrWouldBlock
	}
	return n, err
}

// SetReadTimeout implements Transport.
func (p *SerialPort) SetReadTimeout(d time.Duration) error {
	if d <= 0 {
		d = serial.NoTimeout
	}
	return p.Port.SetReadTimeout(d)
}

// OpenSerial opens a serial device.
func OpenSerial(path string, opts SerialOptions) (*SerialPort, error) {
	mode, err := opts.Mode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &SerialPort{Port: port}, nil
}

func openSerial(_ context.Context, u *url.URL) (Transport, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return nil, fmt.Errorf("serial device path required")
	}
	opts, err := SerialOptionsFromURL(u)
	if err != nil {
		return nil, err
	}
	return OpenSerial(path, opts)
}
