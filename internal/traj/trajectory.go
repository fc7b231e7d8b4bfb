// Package traj implements the 2D movement trajectory model and the
// transformations that operate on it: construction from coordinate tables,
// scaling, rotation, Savitzky-Golay smoothing, constant-step rediscretization,
// and synthetic trajectory generation.
//
// A Trajectory is immutable once built: every transformation returns a new
// value with its derived fields (polar representation, per-point
// displacements) recomputed, and never mutates its input.
package traj

import (
	"fmt"
	"math"
	"math/cmplx"
)

// DefaultFPS is the frame rate assumed when no time column is supplied.
const DefaultFPS = 50.0

// Trajectory is an ordered sequence of time-stamped 2D points plus derived
// fields and recording metadata. All slices have length NFrames.
type Trajectory struct {
	// Cartesian coordinates.
	X []float64
	Y []float64

	// Time holds absolute timestamps in seconds, non-decreasing but not
	// strictly validated. DisplacementTime is Time relative to the first
	// point.
	Time             []float64
	DisplacementTime []float64

	// Polar is the point sequence as complex numbers (real = x, imag = y),
	// derived from X and Y. Displacement[i] is the vector from point i-1
	// to point i; Displacement[0] is zero.
	Polar        []complex128
	Displacement []complex128

	// Metadata.
	FPS     float64
	NFrames int
	Units   string // spatial units, empty until explicitly scaled
}

// TableOptions configures trajectory construction from a Table.
type TableOptions struct {
	XColumn ColumnRef
	YColumn ColumnRef

	// TimeColumn supplies absolute timestamps in seconds. When nil, times
	// are synthesised as index/FPS.
	TimeColumn *ColumnRef

	// FPS is the recording frame rate; zero means DefaultFPS.
	FPS float64
}

// DefaultTableOptions addresses the first two columns as x and y with no time
// column at the default frame rate.
func DefaultTableOptions() TableOptions {
	return TableOptions{
		XColumn: IndexedColumn(0),
		YColumn: IndexedColumn(1),
		FPS:     DefaultFPS,
	}
}

// FromTable builds a Trajectory from a coordinate table. Leading and trailing
// rows with a missing x or y are trimmed; a missing coordinate remaining
// between valid rows is an error. The input table is not modified.
func FromTable(tb *Table, opts TableOptions) (*Trajectory, error) {
	if tb == nil || tb.NumRows() == 0 {
		return nil, fmt.Errorf("%w: table has no rows", ErrInvalidInput)
	}
	if opts.FPS == 0 {
		opts.FPS = DefaultFPS
	}
	if !(opts.FPS > 0) || math.IsInf(opts.FPS, 0) {
		return nil, fmt.Errorf("%w: frame rate must be positive and finite, got %v", ErrInvalidInput, opts.FPS)
	}

	xi, err := opts.XColumn.resolve(tb)
	if err != nil {
		return nil, fmt.Errorf("x column: %w", err)
	}
	yi, err := opts.YColumn.resolve(tb)
	if err != nil {
		return nil, fmt.Errorf("y column: %w", err)
	}
	ti := -1
	if opts.TimeColumn != nil {
		ti, err = opts.TimeColumn.resolve(tb)
		if err != nil {
			return nil, fmt.Errorf("time column: %w", err)
		}
	}

	// Trim leading and trailing rows with missing coordinates.
	first, last := 0, tb.NumRows()-1
	for first <= last && rowMissing(tb.Rows[first], xi, yi) {
		first++
	}
	for last >= first && rowMissing(tb.Rows[last], xi, yi) {
		last--
	}
	if first > last {
		return nil, fmt.Errorf("%w: no rows with complete coordinates", ErrInvalidInput)
	}

	n := last - first + 1
	x := make([]float64, n)
	y := make([]float64, n)
	var times []float64
	if ti >= 0 {
		times = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		row := tb.Rows[first+i]
		if rowMissing(row, xi, yi) {
			return nil, fmt.Errorf("%w: trajectory contains missing coordinate values", ErrInvalidInput)
		}
		x[i] = row[xi]
		y[i] = row[yi]
		if ti >= 0 {
			times[i] = row[ti]
		}
	}

	return New(x, y, times, opts.FPS)
}

func rowMissing(row []float64, xi, yi int) bool {
	if xi >= len(row) || yi >= len(row) {
		return true
	}
	return math.IsNaN(row[xi]) || math.IsNaN(row[yi])
}

// New builds a Trajectory directly from coordinate slices. times may be nil,
// in which case timestamps are synthesised as index/fps. The slices are
// copied; callers keep ownership of their arguments.
func New(x, y, times []float64, fps float64) (*Trajectory, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("%w: need matching non-empty x and y series, got %d and %d",
			ErrInvalidInput, len(x), len(y))
	}
	if times != nil && len(times) != len(x) {
		return nil, fmt.Errorf("%w: time series length %d does not match %d coordinates",
			ErrInvalidInput, len(times), len(x))
	}
	if fps == 0 {
		fps = DefaultFPS
	}
	if !(fps > 0) || math.IsInf(fps, 0) {
		return nil, fmt.Errorf("%w: frame rate must be positive and finite, got %v", ErrInvalidInput, fps)
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			return nil, fmt.Errorf("%w: trajectory contains missing coordinate values", ErrInvalidInput)
		}
	}

	n := len(x)
	t := &Trajectory{
		X:       append([]float64(nil), x...),
		Y:       append([]float64(nil), y...),
		FPS:     fps,
		NFrames: n,
	}
	if times != nil {
		t.Time = append([]float64(nil), times...)
	} else {
		t.Time = make([]float64, n)
		for i := range t.Time {
			t.Time[i] = float64(i) / fps
		}
	}
	t.deriveFields()
	return t, nil
}

// deriveFields recomputes DisplacementTime, Polar and Displacement from the
// coordinate and time series. Every constructor and transformation calls this
// before the trajectory becomes visible, so derived fields are never stale.
func (t *Trajectory) deriveFields() {
	n := t.NFrames
	t.DisplacementTime = make([]float64, n)
	t.Polar = make([]complex128, n)
	t.Displacement = make([]complex128, n)
	for i := 0; i < n; i++ {
		t.DisplacementTime[i] = t.Time[i] - t.Time[0]
		t.Polar[i] = complex(t.X[i], t.Y[i])
		if i > 0 {
			t.Displacement[i] = t.Polar[i] - t.Polar[i-1]
		}
	}
}

// clone returns a deep copy sharing no slices with t. Transformations start
// from a clone and re-derive, leaving the receiver untouched.
func (t *Trajectory) clone() *Trajectory {
	c := *t
	c.X = append([]float64(nil), t.X...)
	c.Y = append([]float64(nil), t.Y...)
	c.Time = append([]float64(nil), t.Time...)
	c.DisplacementTime = append([]float64(nil), t.DisplacementTime...)
	c.Polar = append([]complex128(nil), t.Polar...)
	c.Displacement = append([]complex128(nil), t.Displacement...)
	return &c
}

// PathLength returns the total along-path length: the sum of the moduli of
// the per-point displacements.
func (t *Trajectory) PathLength() float64 {
	var total float64
	for _, d := range t.Displacement {
		total += cmplx.Abs(d)
	}
	return total
}

// Duration returns the elapsed time between the first and last points.
func (t *Trajectory) Duration() float64 {
	return t.Time[t.NFrames-1] - t.Time[0]
}
