package traj

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// WalkKind selects the heading model for synthetic trajectory generation.
type WalkKind string

const (
	// RandomWalk accumulates angular error step to step, so the heading
	// drifts over the walk.
	RandomWalk WalkKind = "random"
	// DirectedWalk perturbs each step's heading independently around a
	// fixed reference direction, so the heading resets every step.
	DirectedWalk WalkKind = "directed"
)

// GenerateConfig holds parameters for synthetic trajectory generation.
type GenerateConfig struct {
	N          int     // number of points (N-1 steps)
	StepLength float64 // mean step length
	AngularSD  float64 // standard deviation of per-step heading error (radians)
	LinearSD   float64 // standard deviation of per-step length error
	Heading    float64 // reference direction for directed walks (radians)
	FPS        float64 // frame rate of the synthesised timestamps
	Kind       WalkKind

	// Src seeds the noise draws. Nil uses the shared global source, which
	// makes the output non-deterministic.
	Src rand.Source
}

// DefaultGenerateConfig returns a random-walk configuration comparable to a
// meandering animal track: unit steps with moderate heading drift.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		N:          1000,
		StepLength: 2,
		AngularSD:  0.5,
		LinearSD:   0.2,
		FPS:        DefaultFPS,
		Kind:       RandomWalk,
	}
}

// Generate produces a synthetic trajectory by accumulating normally-perturbed
// steps. Angular and linear perturbations are drawn independently.
func Generate(cfg GenerateConfig) (*Trajectory, error) {
	if cfg.N < 1 {
		return nil, fmt.Errorf("%w: need at least one point, got N=%d", ErrInvalidInput, cfg.N)
	}
	if !(cfg.StepLength > 0) || math.IsInf(cfg.StepLength, 0) {
		return nil, fmt.Errorf("%w: step length must be positive and finite, got %v",
			ErrInvalidInput, cfg.StepLength)
	}
	if cfg.AngularSD < 0 || cfg.LinearSD < 0 {
		return nil, fmt.Errorf("%w: noise standard deviations must be non-negative", ErrInvalidInput)
	}
	switch cfg.Kind {
	case RandomWalk, DirectedWalk:
	default:
		return nil, fmt.Errorf("%w: unknown walk kind %q", ErrInvalidInput, cfg.Kind)
	}
	if cfg.FPS == 0 {
		cfg.FPS = DefaultFPS
	}

	angular := distuv.Normal{Mu: 0, Sigma: cfg.AngularSD, Src: cfg.Src}
	linear := distuv.Normal{Mu: cfg.StepLength, Sigma: cfg.LinearSD, Src: cfg.Src}

	x := make([]float64, cfg.N)
	y := make([]float64, cfg.N)
	heading := cfg.Heading
	for i := 1; i < cfg.N; i++ {
		if cfg.Kind == DirectedWalk {
			heading = cfg.Heading + noise(angular)
		} else {
			heading += noise(angular)
		}
		length := noise(linear)
		x[i] = x[i-1] + length*math.Cos(heading)
		y[i] = y[i-1] + length*math.Sin(heading)
	}

	return New(x, y, nil, cfg.FPS)
}

// noise draws from d, short-circuiting the zero-variance case so that a
// silent walk needs no random source at all.
func noise(d distuv.Normal) float64 {
	if d.Sigma == 0 {
		return d.Mu
	}
	return d.Rand()
}
