package traj

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/banshee-data/trajectory.report/internal/savgol"
)

// Scale multiplies both coordinate axes by scale and tags the result with the
// given spatial units.
func Scale(t *Trajectory, scale float64, units string) (*Trajectory, error) {
	return ScaleXY(t, scale, scale, units)
}

// ScaleXY multiplies the x and y axes by independent factors, for recordings
// with anisotropic pixel geometry.
func ScaleXY(t *Trajectory, xScale, yScale float64, units string) (*Trajectory, error) {
	if !isFinite(xScale) || !isFinite(yScale) {
		return nil, fmt.Errorf("%w: scale factors must be finite, got x=%v y=%v",
			ErrInvalidInput, xScale, yScale)
	}
	out := t.clone()
	for i := range out.X {
		out.X[i] *= xScale
		out.Y[i] *= yScale
	}
	out.Units = units
	out.deriveFields()
	return out, nil
}

// Rotate rotates the trajectory about the origin so that its start-to-end
// orientation equals angle (radians). A single-point trajectory, or one whose
// endpoints coincide, has its orientation defined as 0.
func Rotate(t *Trajectory, angle float64) (*Trajectory, error) {
	if !isFinite(angle) {
		return nil, fmt.Errorf("%w: rotation angle must be finite, got %v", ErrInvalidInput, angle)
	}
	span := t.Polar[t.NFrames-1] - t.Polar[0]
	orientation := 0.0
	if span != 0 {
		orientation = cmplx.Phase(span)
	}
	rot := cmplx.Rect(1, angle-orientation)

	out := t.clone()
	for i := range out.X {
		p := out.Polar[i] * rot
		out.X[i] = real(p)
		out.Y[i] = imag(p)
	}
	out.deriveFields()
	return out, nil
}

// DefaultSmoothWindow returns the default Savitzky-Golay window length for a
// polynomial order: order + 3, reduced by one when order is odd so the window
// is always odd.
func DefaultSmoothWindow(order int) int {
	return order + 3 - order%2
}

// SmoothSG smooths the x and y series independently with a Savitzky-Golay
// filter of the given polynomial order and window length. A window of 0
// selects DefaultSmoothWindow(order). Filter failures propagate wrapped in
// ErrFilter.
func SmoothSG(t *Trajectory, order, window int) (*Trajectory, error) {
	if window == 0 {
		window = DefaultSmoothWindow(order)
	}
	if order < 1 {
		return nil, fmt.Errorf("%w: polynomial order must be >= 1, got %d", ErrInvalidInput, order)
	}
	if window%2 == 0 || window <= order {
		return nil, fmt.Errorf("%w: window length must be odd and greater than order, got window=%d order=%d",
			ErrInvalidInput, window, order)
	}

	sx, err := savgol.Filter(t.X, order, window)
	if err != nil {
		return nil, fmt.Errorf("%w: x series: %v", ErrFilter, err)
	}
	sy, err := savgol.Filter(t.Y, order, window)
	if err != nil {
		return nil, fmt.Errorf("%w: y series: %v", ErrFilter, err)
	}

	out := t.clone()
	copy(out.X, sx)
	copy(out.Y, sy)
	out.deriveFields()
	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
