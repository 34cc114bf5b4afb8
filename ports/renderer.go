package ports

import "gobenford/domain/benford"

// ComparisonRenderer draws two equal-length series as paired bars and
// returns the encoded image.
type ComparisonRenderer interface {
	Render(left, right []float64, spec benford.ChartSpec) (benford.EncodedImage, error)
}
