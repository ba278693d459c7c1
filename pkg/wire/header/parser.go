package header

import (
	"fmt"

	"github.com/robotalks/icarus.go/pkg/wire"
)

// DefaultRingSize is the ring capacity of a Parser.
const DefaultRingSize = MaxPayload

// State is the parser state.
type State int

const (
	// StateSync waits for the sync byte.
	StateSync State = iota
	// StateLength waits for the length byte.
	StateLength
	// StateTransfer receives payload and CRC bytes.
	StateTransfer
)

func (s State) String() string {
	switch s {
	case StateSync:
		return "sync"
	case StateLength:
		return "length"
	case StateTransfer:
		return "transfer"
	}
	return "unknown"
}

// ParseResult is the outcome of one parsing step.
type ParseResult struct {
	State   State
	Message wire.Message
	Err     error
}

// Parser decodes header framed messages one byte at a time.
type Parser struct {
	ring      *Ring
	state     State
	start     int
	length    int
	remaining int
}

// NewParser creates a Parser with a ring of size bytes
// (DefaultRingSize if size < 1).
func NewParser(size int) *Parser {
	if size < 1 {
		size = DefaultRingSize
	}
	return &Parser{ring: NewRing(size)}
}

// State gets the current state.
func (p *Parser) State() State {
	return p.state
}

// Reset drops any partial frame.
func (p *Parser) Reset() {
	p.state, p.remaining = StateSync, 0
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	pr.Message, pr.Err = p.parseByte(b)
	pr.State = p.state
	return
}

func (p *Parser) parseByte(b byte) (wire.Message, error) {
	switch p.state {
	case StateSync:
		if b == Sync {
			p.state = StateLength
		}
	case StateLength:
		switch {
		case b == 0:
			return p.resync(ErrEmptyFrame)
		case int(b) > p.ring.Cap():
			return p.resync(fmt.Errorf("%w: %d > %d", ErrFrameTooLong, b, p.ring.Cap()))
		}
		p.length = int(b)
		p.remaining = p.length + CRCLen
		p.start = p.ring.Head()
		p.state = StateTransfer
	case StateTransfer:
		if p.remaining > CRCLen {
			p.ring.Push(b)
		}
		p.remaining--
		if p.remaining == 0 {
			return p.frameReady()
		}
	}
	return nil, nil
}

func (p *Parser) resync(err error) (wire.Message, error) {
	p.Reset()
	return nil, err
}

func (p *Parser) frameReady() (wire.Message, error) {
	p.state = StateSync
	r := p.ring.Reader(p.start, p.length)
	msg, err := wire.ReadPayload(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, &wire.FrameDecodeError{Err: fmt.Errorf("%d trailing bytes after %s", r.Len(), msg.Tag())}
	}
	return msg, nil
}
