package gopigo

import "math"

// PercentToByte scales a 0..100 block value to a 0..255 color channel.
// The result is not rounded: 10 becomes 25.5.
func PercentToByte(pct float64) float64 {
	return pct * 2.55
}

// CentimetresToMillimetres converts block distances to device units.
func CentimetresToMillimetres(cm float64) float64 {
	return cm * 10
}

// MillimetresToCentimetres converts a sensor reading to whole centimetres,
// rounding halves up (123 -> 12, 125 -> 13).
func MillimetresToCentimetres(mm float64) float64 {
	return math.Floor(mm/10 + 0.5)
}

// untilStopped maps the block convention "0 means forever" to an omitted
// field.
func untilStopped(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
