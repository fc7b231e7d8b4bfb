// Package units provides shared constants and validation for spatial units
package units

// Unit constants
const (
	Metres      = "m"
	Centimetres = "cm"
	Millimetres = "mm"
	Kilometres  = "km"
	Pixels      = "px"
)

// ValidUnits contains all valid spatial unit values
var ValidUnits = []string{Metres, Centimetres, Millimetres, Kilometres, Pixels}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, cm, mm, km, px"
}

// MetresPerUnit returns the length of one unit in metres. Pixels have no
// physical length and report 0; callers scale pixel trajectories with an
// explicit calibration factor instead.
func MetresPerUnit(unit string) float64 {
	switch unit {
	case Metres:
		return 1
	case Centimetres:
		return 0.01
	case Millimetres:
		return 0.001
	case Kilometres:
		return 1000
	default:
		return 0
	}
}

// Convert converts a length between two physical units. Values in pixels (or
// any unknown unit) are returned unchanged.
func Convert(value float64, from, to string) float64 {
	f := MetresPerUnit(from)
	t := MetresPerUnit(to)
	if f == 0 || t == 0 {
		return value
	}
	return value * f / t
}
