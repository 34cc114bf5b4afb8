package analysis

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"gobenford/domain/benford"
	"gobenford/internal"
	"gobenford/internal/digits"
	apperrors "gobenford/internal/errors"
	"gobenford/ports"
)

const (
	extractFailurePrefix = "failed to extract digits: "
	noObservationsCause  = "the file contains no observations with a leading digit between 1 and 9"
	plotFailureMessage   = "internal error: the comparison chart could not be rendered"
)

// Orchestrator runs extraction, normalization, the fitness test and chart
// rendering for one file at a time. It holds no per-file state and is safe
// for concurrent use when its renderer is.
type Orchestrator struct {
	renderer ports.ComparisonRenderer
	logger   *internal.Logger
}

// NewOrchestrator creates an orchestrator drawing charts with renderer
func NewOrchestrator(renderer ports.ComparisonRenderer, logger *internal.Logger) *Orchestrator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Orchestrator{renderer: renderer, logger: logger.WithComponent("analysis")}
}

// Run analyses one uploaded file. It never returns an error: every failure
// becomes a benford.Failure with a user-facing message.
func (o *Orchestrator) Run(name string, r io.Reader) benford.Outcome {
	extraction, err := digits.Extract(r)
	if err != nil {
		o.logger.Info("rejecting %q: %v", name, err)
		return benford.Failure{Message: extractFailurePrefix + err.Error(), Err: err}
	}
	return o.Evaluate(name, extraction)
}

// Evaluate runs every stage after extraction.
func (o *Orchestrator) Evaluate(name string, extraction digits.Extraction) benford.Outcome {
	dist, err := Normalize(extraction.Total, extraction.Counts)
	if err != nil {
		var divErr *benford.DivisionError
		if errors.As(err, &divErr) {
			o.logger.Info("rejecting %q: %d data rows, none usable", name, extraction.Rows())
			return benford.Failure{Message: extractFailurePrefix + noObservationsCause, Err: err}
		}
		return benford.Failure{Message: extractFailurePrefix + err.Error(), Err: err}
	}

	verdict := Analyze(dist)
	o.logger.Debug("%q: n=%d chi2=%.4f rejected=%t", name, extraction.Total, verdict.Statistic, verdict.Rejected)

	label := DatasetLabel(name)
	spec := benford.DefaultChartSpec()
	spec.RightLabel = label
	if verdict.Rejected {
		spec.RightColor = benford.ColorRejected
	}

	reference := benford.Reference()
	image, err := o.renderer.Render(reference.Values(), dist.Values(), spec)
	if err != nil {
		o.logger.Error("rendering chart for %q: %v", name, err)
		internalErr := apperrors.InternalError(plotFailureMessage)
		internalErr.Cause = err
		return benford.Failure{Message: plotFailureMessage, Err: internalErr}
	}

	return benford.Success{Result: benford.AnalysisResult{
		Name:         label,
		Observations: extraction.Total,
		Zeros:        extraction.Zeros,
		Counts:       extraction.Counts,
		Distribution: dist,
		Verdict:      verdict,
		Image:        image,
	}}
}

// DatasetLabel is the file name without directory or extension, used as the
// legend label of the observed series.
func DatasetLabel(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	label := strings.TrimSuffix(base, filepath.Ext(base))
	if label == "" || label == "." || label == "/" {
		return "Observed"
	}
	return label
}
