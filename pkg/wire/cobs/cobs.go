// Package cobs implements Consistent Overhead Byte Stuffing.
//
// Encoded data never contains 0x00, which leaves that value free to
// delimit frames on a byte stream.
package cobs

import "errors"

var (
	// ErrShortBuffer indicates the destination cannot hold the result.
	ErrShortBuffer = errors.New("cobs: short buffer")
	// ErrZeroByte indicates a 0x00 inside encoded data.
	ErrZeroByte = errors.New("cobs: unexpected zero byte")
	// ErrTruncated indicates a block is shorter than its code byte says.
	ErrTruncated = errors.New("cobs: truncated block")
)

// MaxEncodedLen returns the worst case encoded size of n bytes, excluding
// any frame delimiter.
func MaxEncodedLen(n int) int {
	return n + n/254 + 1
}

// Encode stuffs src into dst and returns the number of bytes written.
func Encode(dst, src []byte) (int, error) {
	if len(dst) == 0 {
		return 0, ErrShortBuffer
	}
	codeIdx, w := 0, 1
	code := byte(1)
	for _, b := range src {
		if b != 0 {
			if w >= len(dst) {
				return 0, ErrShortBuffer
			}
			dst[w] = b
			w++
			code++
			if code != 0xff {
				continue
			}
		}
		dst[codeIdx] = code
		if w >= len(dst) {
			return 0, ErrShortBuffer
		}
		codeIdx, code = w, 1
		w++
	}
	dst[codeIdx] = code
	return w, nil
}

// Append appends the stuffed form of src to dst.
func Append(dst, src []byte) []byte {
	start := len(dst)
	need := MaxEncodedLen(len(src))
	if cap(dst)-start < need {
		grown := make([]byte, start, start+need)
		copy(grown, dst)
		dst = grown
	}
	n, _ := Encode(dst[start:start+need], src)
	return dst[:start+n]
}

// Decode unstuffs src (without delimiter) into dst and returns the number of
// bytes written. dst may be src itself.
func Decode(dst, src []byte) (int, error) {
	r, w := 0, 0
	for r < len(src) {
		code := src[r]
		if code == 0 {
			return 0, ErrZeroByte
		}
		r++
		for i := 1; i < int(code); i++ {
			if r >= len(src) {
				return 0, ErrTruncated
			}
			b := src[r]
			if b == 0 {
				return 0, ErrZeroByte
			}
			if w >= len(dst) {
				return 0, ErrShortBuffer
			}
			dst[w] = b
			w++
			r++
		}
		if code < 0xff && r < len(src) {
			if w >= len(dst) {
				return 0, ErrShortBuffer
			}
			dst[w] = 0
			w++
		}
	}
	return w, nil
}
