package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gobenford/domain/benford"
)

// Nigrini's first-digit MAD bands, on proportions.
const (
	madClose      = 0.006
	madAcceptable = 0.012
	madMarginal   = 0.015
)

// Analyze tests observed against the Benford reference with a chi-square
// goodness-of-fit test. The verdict compares the statistic with the fixed
// benford.CriticalValue; PValue and the MAD grade are informational.
func Analyze(observed benford.FrequencyDistribution) benford.FitnessVerdict {
	expected := benford.Reference()
	statistic := ChiSquare(observed, expected)

	verdict := benford.FitnessVerdict{
		Statistic:     statistic,
		CriticalValue: benford.CriticalValue,
		Rejected:      statistic > benford.CriticalValue,
		PValue:        PValue(statistic, benford.DegreesOfFreedom),
	}
	verdict.MAD, verdict.Conformity = Conformity(observed, expected)
	return verdict
}

// ChiSquare returns sum((o-e)^2 / e) over all bins, without any continuity
// correction.
func ChiSquare(observed, expected benford.FrequencyDistribution) float64 {
	chi := 0.0
	for i := range observed {
		diff := observed[i] - expected[i]
		chi += diff * diff / expected[i]
	}
	return chi
}

// PValue returns the upper-tail probability of statistic under a chi-square
// distribution with df degrees of freedom.
func PValue(statistic float64, df int) float64 {
	if math.IsNaN(statistic) || df <= 0 {
		return math.NaN()
	}
	if statistic <= 0 {
		return 1.0
	}
	return distuv.ChiSquared{K: float64(df)}.Survival(statistic)
}

// Conformity returns the mean absolute deviation between observed and
// expected proportions and its grade.
func Conformity(observed, expected benford.FrequencyDistribution) (float64, benford.Conformity) {
	deviations := make(stats.Float64Data, len(observed))
	for i := range observed {
		deviations[i] = math.Abs(observed[i]-expected[i]) / 100.0
	}
	mad, err := stats.Mean(deviations)
	if err != nil || math.IsNaN(mad) {
		return 0, benford.ConformityUnavailable
	}

	switch {
	case mad <= madClose:
		return mad, benford.ConformityClose
	case mad <= madAcceptable:
		return mad, benford.ConformityAcceptable
	case mad <= madMarginal:
		return mad, benford.ConformityMarginal
	default:
		return mad, benford.ConformityNonconform
	}
}
