package benford

import "image/color"

// ChartSpec describes how two equal-length series are drawn side by side.
// The left series is always drawn in a fixed neutral color.
type ChartSpec struct {
	Title      string
	XLabel     string
	YLabel     string
	LeftLabel  string
	RightLabel string
	RightColor color.Color
	// StartLabel is the x tick label of the first position.
	StartLabel int
}

// Series colors used by the analysis.
var (
	ColorReference = color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff} // blue
	ColorRejected  = color.RGBA{R: 0x80, G: 0x00, B: 0x00, A: 0xff} // maroon
	ColorAccepted  = color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff} // green
)

// DefaultChartSpec returns the labels used for expected-vs-observed charts.
func DefaultChartSpec() ChartSpec {
	return ChartSpec{
		Title:      "Expected vs Observed Frequencies of Lead Digits",
		XLabel:     "Lead Digit",
		YLabel:     "Frequencies",
		LeftLabel:  "Benford Law",
		RightLabel: "Observed",
		RightColor: ColorAccepted,
		StartLabel: 1,
	}
}
