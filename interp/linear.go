// Package interp implements a piecewise-linear 1-D lookup table with
// bisection search and endpoint-clamped extrapolation, used by the
// incumbent package for tabulated (ModelLUT) antenna gain tables.
package interp

import (
	"fmt"
	"sort"
)

// interval holds the per-segment linear coefficients: y = a + b*(x - x0).
type interval struct {
	x0, a, b float64
}

// Linear is a piecewise-linear interpolator built from a sorted
// (x, y) sample sequence.
type Linear struct {
	xs        []float64
	intervals []interval
}

// New constructs a Linear interpolator from sorted samples. An
// optional shift is applied to every x and y sample before the
// per-interval slopes are computed. It is fatal (panics, per spec §7:
// "division-by-zero in interpolation ... is a construction-time
// failure") to construct with fewer than 2 samples or with any
// adjacent pair of identical x values.
func New(xs, ys []float64, xShift, yShift float64) *Linear {
	if len(xs) < 2 || len(xs) != len(ys) {
		panic(fmt.Sprintf("interp: need >= 2 matched samples, got %d x and %d y", len(xs), len(ys)))
	}

	shiftedX := make([]float64, len(xs))
	shiftedY := make([]float64, len(ys))
	for i := range xs {
		shiftedX[i] = xs[i] + xShift
		shiftedY[i] = ys[i] + yShift
	}

	order := make([]int, len(shiftedX))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return shiftedX[order[i]] < shiftedX[order[j]] })

	sx := make([]float64, len(order))
	sy := make([]float64, len(order))
	for i, idx := range order {
		sx[i] = shiftedX[idx]
		sy[i] = shiftedY[idx]
	}

	l := &Linear{xs: sx}
	l.intervals = make([]interval, len(sx)-1)
	for i := 0; i < len(sx)-1; i++ {
		dx := sx[i+1] - sx[i]
		if dx == 0 {
			panic("interp: constructed with identical adjacent x samples")
		}
		l.intervals[i] = interval{
			x0: sx[i],
			a:  sy[i],
			b:  (sy[i+1] - sy[i]) / dx,
		}
	}
	return l
}

// intervalFor returns the index of the interval containing x, clamping
// to the first/last interval when x is outside the sample range.
func (l *Linear) intervalFor(x float64) int {
	n := len(l.intervals)
	// binary search for the rightmost interval whose x0 <= x
	i := sort.Search(len(l.xs), func(i int) bool { return l.xs[i] > x })
	idx := i - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// Eval returns the interpolated (or edge-extrapolated) value at x.
func (l *Linear) Eval(x float64) float64 {
	iv := l.intervals[l.intervalFor(x)]
	return iv.a + iv.b*(x-iv.x0)
}

// Derivative returns the slope of the interval containing x.
func (l *Linear) Derivative(x float64) float64 {
	return l.intervals[l.intervalFor(x)].b
}

// MinX returns the smallest sample x value.
func (l *Linear) MinX() float64 { return l.xs[0] }

// MaxX returns the largest sample x value.
func (l *Linear) MaxX() float64 { return l.xs[len(l.xs)-1] }
