package controls

import (
	"math"
	"strconv"
	"strings"
)

// Precision is the number of decimal digits kept on numeric reads.
const Precision = 4

// roundEpsilon counters binary representation error so that values sitting a
// hair under a rounding boundary (e.g. 0.12345 stored as 0.1234499...) still
// round half-up as a human would expect.
const roundEpsilon = 1e-7

// Round rounds half-up to Precision decimal digits. Non-finite values pass
// through unchanged.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	pow := math.Pow(10, Precision)
	return math.Floor(v*pow+0.5+roundEpsilon) / pow
}

// Clamp restricts v to [min, max]. Infinite bounds leave that side open.
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ParseTruthy interprets a permissive boolean token. The usual affirmative
// spellings are true; everything else, including the empty string, is false.
func ParseTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// ParseFinite parses a floating-point token and rejects NaN and infinities.
func ParseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &NotFiniteError{Input: s}
	}
	return v, nil
}

// FormatValue renders a parameter's current value the way the command surface
// reports it: "true"/"false" for booleans, the (already rounded) numeric
// value otherwise.
func FormatValue(p Parameter) string {
	if p.Kind == KindBoolean {
		return strconv.FormatBool(p.Checked)
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}
