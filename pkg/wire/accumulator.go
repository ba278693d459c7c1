package wire

import "bytes"

// DefaultAccumulatorSize is the buffer size of an Accumulator.
const DefaultAccumulatorSize = 256

// FeedStatus is the outcome of Accumulator.Feed.
type FeedStatus int

const (
	// Consumed means all input was buffered and no frame completed.
	Consumed FeedStatus = iota
	// OverFull means the buffer overflowed before a delimiter and was reset.
	OverFull
	// DecodeError means a malformed frame was discarded.
	DecodeError
	// Success means one message was decoded.
	Success
)

func (s FeedStatus) String() string {
	switch s {
	case Consumed:
		return "Consumed"
	case OverFull:
		return "OverFull"
	case DecodeError:
		return "DecodeError"
	case Success:
		return "Success"
	}
	return "FeedStatus(?)"
}

// FeedResult is returned by Accumulator.Feed.
type FeedResult struct {
	Status  FeedStatus
	Message Message
	// Remaining is the unconsumed tail of the input window. It aliases the
	// caller's slice and must be fed again until empty.
	Remaining []byte
	// Err is set with DecodeError.
	Err error
}

// Accumulator decodes frames from a byte stream delivered in arbitrary
// chunks. At most one partial frame is buffered.
type Accumulator struct {
	buf []byte
	idx int
}

// NewAccumulator creates an Accumulator with a buffer of size bytes
// (DefaultAccumulatorSize if size < 1).
func NewAccumulator(size int) *Accumulator {
	if size < 1 {
		size = DefaultAccumulatorSize
	}
	return &Accumulator{buf: make([]byte, size)}
}

// Buffered returns the number of bytes of the partial frame.
func (a *Accumulator) Buffered() int { return a.idx }

// Reset discards the partial frame.
func (a *Accumulator) Reset() { a.idx = 0 }

// Feed consumes input up to and including the first delimiter.
func (a *Accumulator) Feed(window []byte) FeedResult {
	if len(window) == 0 {
		return FeedResult{Status: Consumed}
	}
	if n := bytes.IndexByte(window, Delimiter); n >= 0 {
		take, release := window[:n+1], window[n+1:]
		if a.idx+len(take) > len(a.buf) {
			a.idx = 0
			return FeedResult{Status: OverFull, Remaining: release}
		}
		copy(a.buf[a.idx:], take)
		frame := a.buf[:a.idx+len(take)]
		a.idx = 0
		msg, err := decodeInPlace(frame)
		if err != nil {
			return FeedResult{Status: DecodeError, Remaining: release, Err: err}
		}
		return FeedResult{Status: Success, Message: msg, Remaining: release}
	}
	if a.idx+len(window) > len(a.buf) {
		start := len(a.buf) - a.idx
		a.idx = 0
		return FeedResult{Status: OverFull, Remaining: window[start:]}
	}
	a.idx += copy(a.buf[a.idx:], window)
	return FeedResult{Status: Consumed}
}

// Drain feeds window repeatedly until it is used up and reports every
// result in order.
func (a *Accumulator) Drain(window []byte, fn func(FeedResult)) {
	for len(window) > 0 {
		res := a.Feed(window)
		fn(res)
		window = res.Remaining
	}
}
