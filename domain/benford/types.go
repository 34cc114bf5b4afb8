// Package benford holds the value types shared by the first-digit analysis
// pipeline: digit counts, percentage distributions, the Benford reference and
// the chi-square verdict.
package benford

import "math"

// Digits is the number of leading-digit bins (1 through 9).
const Digits = 9

const (
	// CriticalValue is the chi-square threshold at the 5% significance level
	// for DegreesOfFreedom. It is fixed rather than derived from a
	// distribution so verdicts stay reproducible.
	CriticalValue = 15.51
	// DegreesOfFreedom of the goodness-of-fit test (Digits - 1).
	DegreesOfFreedom = 8
	// Significance level matching CriticalValue.
	Significance = 0.05
)

// reference is the expected first-digit distribution in percent.
var reference = FrequencyDistribution{30.0, 18.0, 12.0, 10.0, 8.0, 7.0, 6.0, 5.0, 4.0}

// Reference returns a copy of the Benford first-digit distribution in percent.
func Reference() FrequencyDistribution {
	return reference
}

// DigitCounts maps a leading digit d (1..9) to its count at index d-1.
type DigitCounts [Digits]int

// Add increments the count for digit and reports whether digit was in range.
func (c *DigitCounts) Add(digit int) bool {
	if digit < 1 || digit > Digits {
		return false
	}
	c[digit-1]++
	return true
}

// Count returns the count for digit, zero when digit is outside 1..9.
func (c DigitCounts) Count(digit int) int {
	if digit < 1 || digit > Digits {
		return 0
	}
	return c[digit-1]
}

// Sum returns the total number of counted observations.
func (c DigitCounts) Sum() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// FrequencyDistribution holds the percentage of observations per leading
// digit; index i is digit i+1.
type FrequencyDistribution [Digits]float64

// Values returns the distribution as a slice.
func (d FrequencyDistribution) Values() []float64 {
	out := make([]float64, Digits)
	copy(out, d[:])
	return out
}

// Sum returns the sum of all percentages.
func (d FrequencyDistribution) Sum() float64 {
	total := 0.0
	for _, v := range d {
		total += v
	}
	return total
}

// Distance returns the Euclidean distance between two distributions.
func (d FrequencyDistribution) Distance(other FrequencyDistribution) float64 {
	sq := 0.0
	for i := range d {
		diff := d[i] - other[i]
		sq += diff * diff
	}
	return math.Sqrt(sq)
}

// Conformity grades the mean absolute deviation from the reference.
type Conformity string

const (
	ConformityClose       Conformity = "close"
	ConformityAcceptable  Conformity = "acceptable"
	ConformityMarginal    Conformity = "marginal"
	ConformityNonconform  Conformity = "nonconformity"
	ConformityUnavailable Conformity = "unavailable"
)

// FitnessVerdict is the outcome of the chi-square goodness-of-fit test.
// Rejected is true exactly when Statistic > CriticalValue.
type FitnessVerdict struct {
	Statistic     float64    `json:"chi_square_statistic"`
	CriticalValue float64    `json:"critical_value"`
	Rejected      bool       `json:"rejected"`
	PValue        float64    `json:"p_value"`
	MAD           float64    `json:"mean_absolute_deviation"`
	Conformity    Conformity `json:"conformity"`
}

// AnalysisResult aggregates everything produced for one uploaded file.
type AnalysisResult struct {
	Name         string                `json:"name"`
	Observations int                   `json:"observations"`
	Zeros        int                   `json:"zeros_skipped"`
	Counts       DigitCounts           `json:"counts"`
	Distribution FrequencyDistribution `json:"distribution"`
	Verdict      FitnessVerdict        `json:"verdict"`
	Image        EncodedImage          `json:"image,omitempty"`
}

// EncodedImage is a base64-encoded PNG.
type EncodedImage string

// DataURI returns the image as an inline data URI.
func (img EncodedImage) DataURI() string {
	if img == "" {
		return ""
	}
	return "data:image/png;base64," + string(img)
}
