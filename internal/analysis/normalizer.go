package analysis

import (
	"gobenford/domain/benford"
)

// Normalize converts per-digit counts into percentages of total. It returns
// a *benford.DivisionError when total is not positive; callers are expected
// to reject empty inputs before reaching this stage.
func Normalize(total int, counts benford.DigitCounts) (benford.FrequencyDistribution, error) {
	var dist benford.FrequencyDistribution
	if total <= 0 {
		return dist, &benford.DivisionError{}
	}
	for i, n := range counts {
		dist[i] = float64(n) / float64(total) * 100.0
	}
	return dist, nil
}
