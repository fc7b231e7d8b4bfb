package traj

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/banshee-data/trajectory.report/internal/testutil"
)

func TestScale(t *testing.T) {
	trj, err := New([]float64{0, 1, 2}, []float64{0, 2, 4}, nil, 50)
	testutil.AssertNoError(t, err)

	out, err := Scale(trj, 0.5, "m")
	testutil.AssertNoError(t, err)

	testutil.AssertFloatsNear(t, out.X, []float64{0, 0.5, 1}, 1e-12)
	testutil.AssertFloatsNear(t, out.Y, []float64{0, 1, 2}, 1e-12)
	if out.Units != "m" {
		t.Errorf("units = %q, want %q", out.Units, "m")
	}
	if trj.Units != "" || trj.X[1] != 1 {
		t.Error("input trajectory was mutated")
	}
	assertDerivedFields(t, out)
}

func TestScaleXY(t *testing.T) {
	trj, err := New([]float64{1, 2}, []float64{1, 2}, nil, 50)
	testutil.AssertNoError(t, err)

	out, err := ScaleXY(trj, 2, 3, "cm")
	testutil.AssertNoError(t, err)

	testutil.AssertFloatsNear(t, out.X, []float64{2, 4}, 1e-12)
	testutil.AssertFloatsNear(t, out.Y, []float64{3, 6}, 1e-12)
	assertDerivedFields(t, out)
}

func TestScaleComposition(t *testing.T) {
	trj, err := New([]float64{0, 1.5, -2, 7}, []float64{3, -1, 0.5, 2}, nil, 50)
	testutil.AssertNoError(t, err)

	a, err := Scale(trj, 2, "m")
	testutil.AssertNoError(t, err)
	ab, err := Scale(a, 3, "m")
	testutil.AssertNoError(t, err)
	direct, err := Scale(trj, 6, "m")
	testutil.AssertNoError(t, err)

	testutil.AssertFloatsNear(t, ab.X, direct.X, 1e-9)
	testutil.AssertFloatsNear(t, ab.Y, direct.Y, 1e-9)
}

func TestScaleRejectsNonFiniteFactors(t *testing.T) {
	trj, err := New([]float64{0, 1}, []float64{0, 1}, nil, 50)
	testutil.AssertNoError(t, err)

	for _, factor := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Scale(trj, factor, "m")
		testutil.AssertErrorIs(t, err, ErrInvalidInput)
	}
}

func TestRotateSetsOrientation(t *testing.T) {
	// Start-to-end orientation is pi/4; rotating to pi/2 must leave the
	// span pointing straight up with the same length.
	trj, err := New([]float64{0, 1}, []float64{0, 1}, nil, 50)
	testutil.AssertNoError(t, err)

	out, err := Rotate(trj, math.Pi/2)
	testutil.AssertNoError(t, err)

	span := out.Polar[out.NFrames-1] - out.Polar[0]
	testutil.AssertNear(t, cmplx.Phase(span), math.Pi/2, 1e-12)
	testutil.AssertNear(t, cmplx.Abs(span), math.Sqrt2, 1e-12)
	assertDerivedFields(t, out)
}

func TestRotatePreservesPathLength(t *testing.T) {
	trj, err := New([]float64{0, 1, 3, 2}, []float64{0, 2, 1, -1}, nil, 50)
	testutil.AssertNoError(t, err)

	out, err := Rotate(trj, 1.234)
	testutil.AssertNoError(t, err)
	testutil.AssertNear(t, out.PathLength(), trj.PathLength(), 1e-9)
}

func TestRotateSinglePoint(t *testing.T) {
	// A single point has no orientation; it is defined as 0, so rotating
	// to angle 0 is the identity.
	trj, err := New([]float64{2}, []float64{3}, nil, 50)
	testutil.AssertNoError(t, err)

	out, err := Rotate(trj, 0)
	testutil.AssertNoError(t, err)
	testutil.AssertNear(t, out.X[0], 2, 1e-12)
	testutil.AssertNear(t, out.Y[0], 3, 1e-12)
}

func TestRotateCoincidentEndpoints(t *testing.T) {
	// A closed loop also has orientation 0 by definition; the call must
	// succeed deterministically rather than fail on Arg(0).
	trj, err := New([]float64{0, 1, 0}, []float64{0, 1, 0}, nil, 50)
	testutil.AssertNoError(t, err)

	out, err := Rotate(trj, math.Pi)
	testutil.AssertNoError(t, err)
	assertDerivedFields(t, out)
}

func TestSmoothSGStraightLineFixedPoint(t *testing.T) {
	// A line is a polynomial of degree 1, reproduced exactly by any
	// Savitzky-Golay fit of order >= 1.
	n := 30
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = 2 * float64(i)
		y[i] = 3*float64(i) - 5
	}
	trj, err := New(x, y, nil, 50)
	testutil.AssertNoError(t, err)

	out, err := SmoothSG(trj, 3, 0)
	testutil.AssertNoError(t, err)

	testutil.AssertFloatsNear(t, out.X, x, 1e-8)
	testutil.AssertFloatsNear(t, out.Y, y, 1e-8)
	assertDerivedFields(t, out)
}

func TestSmoothSGDefaultWindowIsOdd(t *testing.T) {
	for order := 1; order <= 8; order++ {
		w := DefaultSmoothWindow(order)
		if w%2 == 0 {
			t.Errorf("order %d: default window %d is even", order, w)
		}
		if w <= order {
			t.Errorf("order %d: default window %d does not exceed order", order, w)
		}
	}
}

func TestSmoothSGValidation(t *testing.T) {
	trj, err := New(make([]float64, 20), make([]float64, 20), nil, 50)
	testutil.AssertNoError(t, err)

	tests := []struct {
		name          string
		order, window int
	}{
		{"zero order", 0, 5},
		{"even window", 2, 6},
		{"window not above order", 5, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SmoothSG(trj, tc.order, tc.window)
			testutil.AssertErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSmoothSGShortSeriesPropagatesFilterFailure(t *testing.T) {
	trj, err := New([]float64{0, 1, 2}, []float64{0, 1, 2}, nil, 50)
	testutil.AssertNoError(t, err)

	_, err = SmoothSG(trj, 3, 7)
	testutil.AssertErrorIs(t, err, ErrFilter)
}

func TestSmoothSGReducesNoise(t *testing.T) {
	// A noisy sine should end up closer to the clean signal after
	// smoothing. Deterministic pseudo-noise keeps the test stable.
	n := 100
	clean := make([]float64, n)
	noisy := make([]float64, n)
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		clean[i] = math.Sin(0.1 * float64(i))
		noisy[i] = clean[i] + 0.2*math.Sin(997*float64(i))
	}
	trj, err := New(x, noisy, nil, 50)
	testutil.AssertNoError(t, err)

	out, err := SmoothSG(trj, 2, 11)
	testutil.AssertNoError(t, err)

	var before, after float64
	for i := range clean {
		before += (noisy[i] - clean[i]) * (noisy[i] - clean[i])
		after += (out.Y[i] - clean[i]) * (out.Y[i] - clean[i])
	}
	if after >= before {
		t.Errorf("smoothing did not reduce noise: before %v, after %v", before, after)
	}
}
