// Package savgol implements Savitzky-Golay smoothing of uniformly sampled
// series. Each output value is the centre of a least-squares polynomial fit
// over a sliding window; the fit reduces to a fixed convolution for interior
// points, with explicit polynomial evaluation over the first and last windows
// at the edges.
package savgol

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Filter smooths series with a Savitzky-Golay filter of the given polynomial
// order and odd window length. The returned slice has the same length as the
// input. It fails when the window is non-odd, not longer than the order, or
// longer than the series.
func Filter(series []float64, order, window int) ([]float64, error) {
	if order < 0 {
		return nil, fmt.Errorf("polynomial order must be non-negative, got %d", order)
	}
	if window%2 == 0 {
		return nil, fmt.Errorf("window length must be odd, got %d", window)
	}
	if window <= order {
		return nil, fmt.Errorf("window length %d must exceed polynomial order %d", window, order)
	}
	if window > len(series) {
		return nil, fmt.Errorf("window length %d exceeds series length %d", window, len(series))
	}

	proj, err := projection(order, window)
	if err != nil {
		return nil, err
	}

	n := len(series)
	half := window / 2
	out := make([]float64, n)

	// Interior: convolution with the centre row of the projection.
	for i := half; i < n-half; i++ {
		var sum float64
		for j := 0; j < window; j++ {
			sum += proj.At(half, j) * series[i-half+j]
		}
		out[i] = sum
	}

	// Edges: the polynomial fitted to the first (last) window evaluated at
	// each off-centre position.
	for i := 0; i < half; i++ {
		var head, tail float64
		for j := 0; j < window; j++ {
			head += proj.At(i, j) * series[j]
			tail += proj.At(window-half+i, j) * series[n-window+j]
		}
		out[i] = head
		out[n-half+i] = tail
	}

	return out, nil
}

// projection returns the window×window smoothing matrix A(AᵀA)⁻¹Aᵀ for the
// Vandermonde design matrix A over offsets -half..half. Row r gives the
// weights reproducing the fitted polynomial's value at offset r-half.
func projection(order, window int) (*mat.Dense, error) {
	half := window / 2
	a := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		t := float64(i - half)
		for j := 0; j <= order; j++ {
			a.Set(i, j, math.Pow(t, float64(j)))
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)
	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		return nil, fmt.Errorf("singular design matrix for order %d window %d: %w", order, window, err)
	}

	var pseudo, proj mat.Dense
	pseudo.Mul(&inv, a.T()) // (order+1) × window least-squares solve
	proj.Mul(a, &pseudo)    // window × window: fitted values at every offset
	return &proj, nil
}
