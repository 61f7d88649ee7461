package attendance

import (
	"math"
	"time"
)

// ComputeHours sums the duration of every "in" punch immediately followed by
// an "out" punch and returns it in hours, rounded half away from zero to two
// decimals. Unmatched "in" punches contribute nothing.
func ComputeHours(punches []Punch) float64 {
	if len(punches) == 0 {
		return 0
	}

	var total time.Duration
	for i := 0; i < len(punches)-1; i++ {
		if punches[i].Type != PunchIn || punches[i+1].Type != PunchOut {
			continue
		}
		total += punches[i+1].Time.Sub(punches[i].Time)
	}

	// One hundredth of an hour is 36 seconds.
	return math.Round(float64(total)/float64(36*time.Second)) / 100
}

// RoundHours rounds a decimal hour value half away from zero to two decimals.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
