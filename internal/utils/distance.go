package utils

import "fmt"

const unknownDistance = "N/A"

// FormatDistance renders a kilometre distance with one decimal place, or
// "N/A" when it is unknown.
func FormatDistance(km *float64) string {
	if km == nil {
		return unknownDistance
	}
	return fmt.Sprintf("%.1f km", *km)
}
