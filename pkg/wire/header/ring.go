package header

import "io"

// Ring is a fixed capacity circular byte buffer.
type Ring struct {
	buf  []byte
	head int
}

// NewRing creates a Ring with capacity n.
func NewRing(n int) *Ring {
	if n < 1 {
		n = 1
	}
	return &Ring{buf: make([]byte, n)}
}

// Cap returns the capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Head returns the index the next byte is written to.
func (r *Ring) Head() int { return r.head }

// Push writes b at the head and advances it, overwriting the oldest byte.
func (r *Ring) Push(b byte) {
	r.buf[r.head] = b
	r.head++
	if r.head == len(r.buf) {
		r.head = 0
	}
}

// Reader returns a reader over n bytes starting at index start.
func (r *Ring) Reader(start, n int) *RingReader {
	return &RingReader{ring: r, pos: start % len(r.buf), left: n}
}

// RingReader reads a span of a Ring, wrapping at the end of the buffer.
type RingReader struct {
	ring *Ring
	pos  int
	left int
}

// Len returns the number of unread bytes.
func (r *RingReader) Len() int { return r.left }

// ReadByte implements io.ByteReader.
func (r *RingReader) ReadByte() (byte, error) {
	if r.left <= 0 {
		return 0, io.EOF
	}
	b := r.ring.buf[r.pos]
	r.pos++
	if r.pos == len(r.ring.buf) {
		r.pos = 0
	}
	r.left--
	return b, nil
}

// Read implements io.Reader.
func (r *RingReader) Read(p []byte) (n int, err error) {
	if r.left <= 0 {
		return 0, io.EOF
	}
	for n < len(p) && r.left > 0 {
		p[n], _ = r.ReadByte()
		n++
	}
	return n, nil
}
