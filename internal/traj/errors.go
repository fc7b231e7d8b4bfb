package traj

import "errors"

// Error classes surfaced by trajectory operations. Callers discriminate with
// errors.Is; the concrete messages carry the detail.
var (
	// ErrInvalidInput reports malformed caller input: missing coordinate
	// values remaining after trimming, non-finite scale factors, a
	// non-positive rediscretization step, or smoothing window/order
	// constraint violations.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateGeometry reports a numerical edge case in the
	// rediscretization interpolation that cannot produce a finite point.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrFilter wraps failures propagated from the external smoothing
	// filter collaborator.
	ErrFilter = errors.New("smoothing filter failure")
)
