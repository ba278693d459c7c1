package imu

import "gonum.org/v1/gonum/stat"

// DefaultFilterDepth is the window size of a Filter.
const DefaultFilterDepth = 3

// Filter is a moving average over the last N values.
type Filter struct {
	buf  []float64
	next int
	full bool
}

// NewFilter creates a Filter with depth n (DefaultFilterDepth if n < 1).
func NewFilter(n int) *Filter {
	if n < 1 {
		n = DefaultFilterDepth
	}
	return &Filter{buf: make([]float64, n)}
}

// Depth returns the window capacity.
func (f *Filter) Depth() int { return len(f.buf) }

// Len returns the number of values in the window.
func (f *Filter) Len() int {
	if f.full {
		return len(f.buf)
	}
	return f.next
}

// Update pushes v, evicting the oldest value when full.
func (f *Filter) Update(v float64) {
	f.buf[f.next] = v
	f.next++
	if f.next == len(f.buf) {
		f.next, f.full = 0, true
	}
}

// Value returns the mean of the window contents, 0 if empty.
func (f *Filter) Value() float64 {
	n := f.Len()
	if n == 0 {
		return 0
	}
	return stat.Mean(f.buf[:n], nil)
}

// Reset empties the window.
func (f *Filter) Reset() {
	f.next, f.full = 0, false
}

// TriAxialFilter smooths each axis with its own Filter.
type TriAxialFilter struct {
	x, y, z *Filter
}

// NewTriAxialFilter creates filters of depth n for all axes.
func NewTriAxialFilter(n int) *TriAxialFilter {
	return &TriAxialFilter{x: NewFilter(n), y: NewFilter(n), z: NewFilter(n)}
}

// Update pushes one reading.
func (f *TriAxialFilter) Update(v Vector3) {
	f.x.Update(v.X)
	f.y.Update(v.Y)
	f.z.Update(v.Z)
}

// X returns the smoothed x axis.
func (f *TriAxialFilter) X() float64 { return f.x.Value() }

// Y returns the smoothed y axis.
func (f *TriAxialFilter) Y() float64 { return f.y.Value() }

// Z returns the smoothed z axis.
func (f *TriAxialFilter) Z() float64 { return f.z.Value() }

// Value returns all smoothed axes.
func (f *TriAxialFilter) Value() Vector3 {
	return Vector3{X: f.X(), Y: f.Y(), Z: f.Z()}
}

// Reset empties all windows.
func (f *TriAxialFilter) Reset() {
	f.x.Reset()
	f.y.Reset()
	f.z.Reset()
}
