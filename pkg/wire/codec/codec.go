// Package codec selects between the COBS and header framings of a byte
// stream carrying wire messages.
package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/robotalks/icarus.go/pkg/wire"
	"github.com/robotalks/icarus.go/pkg/wire/header"
)

// MaxFrameLen bounds the frame length of every framing.
const MaxFrameLen = 256

// ErrOverFull indicates a COBS frame exceeded the decoder buffer.
var ErrOverFull = errors.New("frame exceeds decoder buffer")

// Decoder turns stream bytes into messages.
type Decoder interface {
	// Feed consumes p entirely. fn receives every decoded message, or a
	// non-nil error for each discarded frame, in stream order.
	Feed(p []byte, fn func(wire.Message, error))
}

// Framing is a frame encoding of the stream.
type Framing struct {
	Name       string
	Encode     func(msg wire.Message, out []byte) (int, error)
	NewDecoder func(bufSize int) Decoder
}

// COBS is the canonical delimiter framing.
var COBS = Framing{
	Name:   "cobs",
	Encode: wire.Encode,
	NewDecoder: func(bufSize int) Decoder {
		return &cobsDecoder{acc: wire.NewAccumulator(bufSize)}
	},
}

// Header is the sync/length alternate framing.
var Header = Framing{
	Name:   "header",
	Encode: header.Encode,
	NewDecoder: func(bufSize int) Decoder {
		return &headerDecoder{parser: header.NewParser(bufSize)}
	},
}

// Lookup finds a Framing by name. An empty name selects COBS.
func Lookup(name string) (Framing, error) {
	switch name {
	case "", COBS.Name:
		return COBS, nil
	case Header.Name:
		return Header, nil
	}
	return Framing{}, fmt.Errorf("unknown framing %q", name)
}

type cobsDecoder struct {
	acc *wire.Accumulator
}

func (d *cobsDecoder) Feed(p []byte, fn func(wire.Message, error)) {
	d.acc.Drain(p, func(r wire.FeedResult) {
		switch r.Status {
		case wire.Success:
			fn(r.Message, nil)
		case wire.DecodeError:
			fn(nil, r.Err)
		case wire.OverFull:
			fn(nil, ErrOverFull)
		}
	})
}

type headerDecoder struct {
	parser *header.Parser
}

func (d *headerDecoder) Feed(p []byte, fn func(wire.Message, error)) {
	for _, b := range p {
		pr := d.parser.Parse(b)
		if pr.Err != nil || pr.Message != nil {
			fn(pr.Message, pr.Err)
		}
	}
}

// Writer encodes messages onto a stream.
type Writer struct {
	W       io.Writer
	Framing Framing

	buf [MaxFrameLen]byte
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer, f Framing) *Writer {
	return &Writer{W: w, Framing: f}
}

// WriteMessage encodes msg and writes the frame in a single Write call.
func (w *Writer) WriteMessage(msg wire.Message) error {
	n, err := w.Framing.Encode(msg, w.buf[:])
	if err != nil {
		return err
	}
	_, err = w.W.Write(w.buf[:n])
	return err
}
