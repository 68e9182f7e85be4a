package signal

import "github.com/chewxy/math32"

// Window is a fixed-capacity circular buffer of the most recent samples.
//
// The window starts zero-filled and the mean always divides by the full
// capacity, so the first N-1 outputs are biased toward zero (startup transient).
type Window struct {
	slots  []float32
	next   int
	filled bool
}

// NewWindow creates a window of size n. Sizes below 1 are treated as 1.
func NewWindow(n int) *Window {
	if n < 1 {
		n = 1
	}
	return &Window{slots: make([]float32, n)}
}

// Push overwrites the oldest slot with v and returns the new mean.
func (w *Window) Push(v float32) float32 {
	w.slots[w.next] = v
	w.next++
	if w.next == len(w.slots) {
		w.next = 0
		w.filled = true
	}
	return w.Mean()
}

// Mean returns the arithmetic mean over all slots, populated or not.
func (w *Window) Mean() float32 {
	var sum float32
	for _, v := range w.slots {
		sum += v
	}
	return sum / float32(len(w.slots))
}

// MinMax returns the smallest and largest value held in the window.
// Before the window has filled, unwritten zero slots are included.
func (w *Window) MinMax() (lo, hi float32) {
	lo, hi = math32.Inf(1), math32.Inf(-1)
	for _, v := range w.slots {
		lo = math32.Min(lo, v)
		hi = math32.Max(hi, v)
	}
	return lo, hi
}

// Size returns the window capacity.
func (w *Window) Size() int {
	return len(w.slots)
}

// Full reports whether every slot has been written at least once.
func (w *Window) Full() bool {
	return w.filled
}
