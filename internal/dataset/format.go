package dataset

import (
	"fmt"
	"math"
)

// FormatFlightHours renders a number of seconds as HHHH:MM:SS
func FormatFlightHours(seconds float64) string {
	total := int64(math.Floor(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%04d:%02d:%02d", hours, minutes, secs)
}

// FormatAmplitude renders a vibration amplitude in g with a K or M suffix
func FormatAmplitude(value float64) string {
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("%.2fM g", value/1_000_000)
	case value >= 1000:
		return fmt.Sprintf("%.2fK g", value/1000)
	default:
		return fmt.Sprintf("%.2f g", value)
	}
}
