package traj

import (
	"fmt"
	"math"
	"math/cmplx"
)

// degenerateTol bounds how far below zero the circle-segment discriminant may
// fall (relative to step²) before the segment is treated as unreachable
// rather than a rounding artefact.
const degenerateTol = 1e-9

// Rediscretize resamples the trajectory to a constant along-path step length.
// Consecutive points of the result are exactly step apart (to floating-point
// precision) along the polyline traced by the input; the trailing partial
// segment shorter than step is discarded.
//
// The result's timestamps are synthesised as frame-index/fps from the input's
// frame rate, not interpolated along the original timeline, so per-point
// times no longer reflect true elapsed time. Frame rate and units carry over
// from the input.
func Rediscretize(t *Trajectory, step float64) (*Trajectory, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: rediscretization step must be positive and finite, got %v",
			ErrInvalidInput, step)
	}

	points, err := rediscretizePoints(t.Polar, step)
	if err != nil {
		return nil, err
	}

	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = real(p)
		y[i] = imag(p)
	}
	out, err := New(x, y, nil, t.FPS)
	if err != nil {
		return nil, err
	}
	out.Units = t.Units
	return out, nil
}

// rediscretizePoints walks the polyline emitting points exactly step apart
// along the path (Bovet & Benhamou rediscretization). The walk terminates
// when the remaining path is shorter than step.
func rediscretizePoints(path []complex128, step float64) ([]complex128, error) {
	w := &pathWalker{path: path, step: step, cursor: 1}
	out := make([]complex128, 1, len(path))
	out[0] = path[0]
	for {
		next, ok, err := w.next(out[len(out)-1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, next)
	}
}

// pathWalker holds the forward scan state of a rediscretization pass. The
// cursor indexes the original point sequence and never rewinds: segments
// fully consumed are never re-examined, while a single long segment may
// produce several consecutive output points.
type pathWalker struct {
	path   []complex128
	step   float64
	cursor int
}

// next finds the point at distance step from anchor along the remaining path.
// It returns ok=false when the path is exhausted before reaching that
// distance.
func (w *pathWalker) next(anchor complex128) (complex128, bool, error) {
	for {
		// Scan forward for the first original point at least step away
		// from the anchor. Comparison is >=, so a vertex exactly at
		// distance step qualifies as the crossing.
		k := -1
		for ; w.cursor < len(w.path); w.cursor++ {
			if cmplx.Abs(w.path[w.cursor]-anchor) >= w.step {
				k = w.cursor
				break
			}
		}
		if k < 0 {
			// Remaining path is shorter than step: terminate,
			// discarding the partial segment.
			return 0, false, nil
		}

		// The crossing lies on segment (path[k-1], path[k]). Rotate
		// into a frame where the segment runs along the real axis,
		// reducing the search to a circle-line intersection.
		seg := w.path[k] - w.path[k-1]
		phi := cmplx.Phase(seg)
		local := (anchor - w.path[k-1]) * cmplx.Rect(1, -phi)
		u, v := real(local), imag(local)

		disc := w.step*w.step - v*v
		if disc < 0 {
			if disc < -degenerateTol*w.step*w.step {
				// The circle of radius step around the anchor
				// does not reach this segment's line. Resume
				// the scan past the segment.
				w.cursor = k + 1
				continue
			}
			disc = 0
		}

		// Forward root of the intersection: the along-segment offset
		// of the crossing from path[k-1].
		h := u + math.Sqrt(disc)
		next := w.path[k-1] + cmplx.Rect(h, phi)
		if cmplx.IsNaN(next) || cmplx.IsInf(next) {
			return 0, false, fmt.Errorf("%w: non-finite interpolation on segment %d", ErrDegenerateGeometry, k)
		}

		// The next crossing may still lie on this segment, so the
		// scan resumes at k rather than k+1.
		w.cursor = k
		return next, true, nil
	}
}
