// Package plot renders paired bar charts into base64-encoded PNG images.
package plot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"strconv"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gobenford/domain/benford"
)

const (
	barWidth  = 0.4
	barOffset = 0.2
)

// Renderer draws comparison charts of a fixed size. The zero value is not
// usable; call NewRenderer.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer returns a renderer producing images of the given size in
// inches. Non-positive sizes fall back to 8x5.
func NewRenderer(widthIn, heightIn float64) *Renderer {
	if widthIn <= 0 {
		widthIn = 8
	}
	if heightIn <= 0 {
		heightIn = 5
	}
	return &Renderer{width: vg.Length(widthIn) * vg.Inch, height: vg.Length(heightIn) * vg.Inch}
}

// Render draws left and right as two bars per x position, left shifted by
// -0.2 and right by +0.2, each 0.4 wide, with integer ticks starting at
// spec.StartLabel. Rendering happens in memory; nothing touches the
// filesystem, so concurrent calls do not interfere.
func (r *Renderer) Render(left, right []float64, spec benford.ChartSpec) (benford.EncodedImage, error) {
	if err := validateSeries(left, right); err != nil {
		return "", err
	}

	p := gonumplot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	start := float64(spec.StartLabel)
	leftBars, err := bars(left, start-barOffset, benford.ColorReference)
	if err != nil {
		return "", err
	}
	rightColor := spec.RightColor
	if rightColor == nil {
		rightColor = benford.ColorAccepted
	}
	rightBars, err := bars(right, start+barOffset, rightColor)
	if err != nil {
		return "", err
	}
	p.Add(leftBars, rightBars)
	p.Legend.Add(spec.LeftLabel, leftBars)
	p.Legend.Add(spec.RightLabel, rightBars)

	p.X.Tick.Marker = integerTicks(spec.StartLabel, len(right))
	p.X.Min = start - 0.5 - barOffset
	p.X.Max = start + float64(len(right)-1) + 0.5 + barOffset
	p.Y.Min = 0
	p.Y.Max = maxValue(left, right) * 1.1
	if p.Y.Max <= 0 {
		p.Y.Max = 1
	}

	writer, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return "", fmt.Errorf("prepare png canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return benford.EncodedImage(base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

func validateSeries(left, right []float64) error {
	switch {
	case len(left) == 0:
		return &benford.PlotError{Reason: "expected data is empty"}
	case len(right) == 0:
		return &benford.PlotError{Reason: "observed data is empty"}
	case len(left) != len(right):
		return &benford.PlotError{Reason: fmt.Sprintf("length mismatch: %d expected values, %d observed values", len(left), len(right))}
	}
	return nil
}

// bars builds one filled rectangle per value, centered at first+i.
func bars(values []float64, first float64, fill color.Color) (*plotter.Polygon, error) {
	rings := make([]plotter.XYer, len(values))
	for i, v := range values {
		x := first + float64(i)
		rings[i] = plotter.XYs{
			{X: x - barWidth/2, Y: 0},
			{X: x + barWidth/2, Y: 0},
			{X: x + barWidth/2, Y: v},
			{X: x - barWidth/2, Y: v},
		}
	}
	poly, err := plotter.NewPolygon(rings...)
	if err != nil {
		return nil, &benford.PlotError{Reason: err.Error()}
	}
	poly.Color = fill
	poly.LineStyle.Width = 0
	return poly, nil
}

func integerTicks(start, n int) gonumplot.ConstantTicks {
	ticks := make(gonumplot.ConstantTicks, n)
	for i := range ticks {
		label := start + i
		ticks[i] = gonumplot.Tick{Value: float64(label), Label: strconv.Itoa(label)}
	}
	return ticks
}

func maxValue(series ...[]float64) float64 {
	m := 0.0
	for _, s := range series {
		for _, v := range s {
			if v > m {
				m = v
			}
		}
	}
	return m
}
