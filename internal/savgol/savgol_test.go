package savgol

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func polynomial(coeffs []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i)
		for j, c := range coeffs {
			out[i] += c * math.Pow(t, float64(j))
		}
	}
	return out
}

func TestFilterPreservesPolynomials(t *testing.T) {
	// A Savitzky-Golay filter of order p reproduces any polynomial of
	// degree <= p exactly, including at the edges.
	tests := []struct {
		name          string
		coeffs        []float64
		order, window int
	}{
		{"constant order 0", []float64{4}, 0, 5},
		{"line order 1", []float64{-2, 0.5}, 1, 7},
		{"quadratic order 2", []float64{1, -3, 0.25}, 2, 9},
		{"cubic order 3", []float64{0, 2, -0.1, 0.01}, 3, 11},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := polynomial(tc.coeffs, 40)
			out, err := Filter(in, tc.order, tc.window)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !floats.EqualApprox(in, out, 1e-7) {
				t.Errorf("filter did not preserve polynomial:\n in  %v\n out %v", in, out)
			}
		})
	}
}

func TestFilterOutputLength(t *testing.T) {
	in := make([]float64, 25)
	for i := range in {
		in[i] = math.Sin(float64(i))
	}
	out, err := Filter(in, 2, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Errorf("output length = %d, want %d", len(out), len(in))
	}
}

func TestFilterSmoothsHighFrequencyNoise(t *testing.T) {
	n := 200
	clean := make([]float64, n)
	noisy := make([]float64, n)
	for i := range clean {
		clean[i] = math.Cos(0.05 * float64(i))
		noisy[i] = clean[i] + 0.3*math.Sin(1013*float64(i))
	}
	out, err := Filter(noisy, 3, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var before, after float64
	for i := range clean {
		before += (noisy[i] - clean[i]) * (noisy[i] - clean[i])
		after += (out[i] - clean[i]) * (out[i] - clean[i])
	}
	if after >= before/2 {
		t.Errorf("expected substantial noise reduction: before %v, after %v", before, after)
	}
}

func TestFilterWindowEqualsSeriesLength(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5}
	out, err := Filter(in, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !floats.EqualApprox(in, out, 1e-9) {
		t.Errorf("line through single window should be exact, got %v", out)
	}
}

func TestFilterValidation(t *testing.T) {
	series := make([]float64, 10)
	tests := []struct {
		name          string
		order, window int
	}{
		{"negative order", -1, 5},
		{"even window", 2, 4},
		{"window below order", 3, 3},
		{"window exceeds series", 2, 11},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Filter(series, tc.order, tc.window); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
