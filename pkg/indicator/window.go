package indicator

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// Window is a fixed-capacity ring buffer over the most recent values.
// It keeps a running sum and sum of squares so that mean and population
// variance are O(1) per push. Both sums are taken over value - pivot, where
// the pivot is a value from the window, so large price levels do not cancel
// out the variance.
//
// NaN is treated as a missing value: a window holding one is not Ready
// until the value has been evicted.
//
// Besides the running sums the window tracks how many non-zero values it
// holds and the length of the trailing run of identical values. This makes
// an all-zero window report a mean of exactly 0 and a constant window report
// its value and a variance of exactly 0, independent of accumulated rounding.
type Window struct {
	buf      []float64
	capacity int
	head     int // next write position
	count    int

	pivot    float64
	hasPivot bool
	sum      float64 // of v - pivot
	sumSq    float64 // of (v - pivot)^2
	missing int
	nonZero int

	last   float64
	runLen int

	sinceResync int
}

// NewWindow creates a window holding at most capacity values
func NewWindow(capacity int) (*Window, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("window capacity must be at least 1, got %d: %w", capacity, models.ErrInvalidPeriod)
	}
	return &Window{
		buf:      make([]float64, capacity),
		capacity: capacity,
	}, nil
}

// Push appends v, evicting the oldest value once the window is full
func (w *Window) Push(v float64) {
	if w.count == w.capacity {
		w.remove(w.buf[w.head])
	} else {
		w.count++
	}
	w.buf[w.head] = v
	w.head = (w.head + 1) % w.capacity
	w.add(v)

	if w.count > 1 && v == w.last {
		w.runLen++
	} else {
		w.runLen = 1
	}
	w.last = v

	w.sinceResync++
	if w.sinceResync >= w.capacity {
		w.resync()
	}
}

func (w *Window) add(v float64) {
	if math.IsNaN(v) {
		w.missing++
		return
	}
	if !w.hasPivot {
		w.pivot, w.hasPivot = v, true
	}
	d := v - w.pivot
	w.sum += d
	w.sumSq += d * d
	if v != 0 {
		w.nonZero++
	}
}

func (w *Window) remove(v float64) {
	if math.IsNaN(v) {
		w.missing--
		return
	}
	d := v - w.pivot
	w.sum -= d
	w.sumSq -= d * d
	if v != 0 {
		w.nonZero--
	}
}

// resync recomputes the running sums from the buffer to drop accumulated drift.
// The pivot moves to the most recent value so it tracks the price level.
func (w *Window) resync() {
	w.sum, w.sumSq = 0, 0
	w.hasPivot = false
	if !math.IsNaN(w.last) && w.count > 0 {
		w.pivot, w.hasPivot = w.last, true
	}
	for i := 0; i < w.count; i++ {
		v := w.buf[i]
		if math.IsNaN(v) {
			continue
		}
		if !w.hasPivot {
			w.pivot, w.hasPivot = v, true
		}
		d := v - w.pivot
		w.sum += d
		w.sumSq += d * d
	}
	w.sinceResync = 0
}

// Len returns the number of values held
func (w *Window) Len() int {
	return w.count
}

// Cap returns the window capacity
func (w *Window) Cap() int {
	return w.capacity
}

// Ready reports whether the window is full and holds no missing values
func (w *Window) Ready() bool {
	return w.count == w.capacity && w.missing == 0
}

// AllZero reports whether the window is ready and every value is exactly zero
func (w *Window) AllZero() bool {
	return w.Ready() && w.nonZero == 0
}

// constant reports whether every value in the window is identical
func (w *Window) constant() bool {
	return w.runLen >= w.count
}

// Mean returns the arithmetic mean, None until the window is Ready
func (w *Window) Mean() optional.Option[float64] {
	if !w.Ready() {
		return optional.None[float64]()
	}
	switch {
	case w.nonZero == 0:
		return optional.Some(0.0)
	case w.constant():
		return optional.Some(w.last)
	}
	return optional.Some(w.pivot + w.sum/float64(w.count))
}

// Variance returns the population variance (denominator n), None until the window is Ready
func (w *Window) Variance() optional.Option[float64] {
	if !w.Ready() {
		return optional.None[float64]()
	}
	if w.constant() {
		return optional.Some(0.0)
	}
	n := float64(w.count)
	v := (w.sumSq - w.sum*w.sum/n) / n
	if v < 0 {
		v = 0
	}
	return optional.Some(v)
}

// StdDev returns the population standard deviation, None until the window is Ready
func (w *Window) StdDev() optional.Option[float64] {
	return optional.Map(w.Variance(), math.Sqrt)
}

// Reset empties the window
func (w *Window) Reset() {
	for i := range w.buf {
		w.buf[i] = 0
	}
	w.head, w.count = 0, 0
	w.sum, w.sumSq = 0, 0
	w.pivot, w.hasPivot = 0, false
	w.missing, w.nonZero = 0, 0
	w.last, w.runLen = 0, 0
	w.sinceResync = 0
}
