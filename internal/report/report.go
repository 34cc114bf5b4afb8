// Package report formats analysis outcomes for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gobenford/domain/benford"
	"gobenford/domain/core"
)

// Format selects an output encoding
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or markdown)", s)
	}
}

// Document is the JSON shape of one analysis
type Document struct {
	ID       core.AnalysisID         `json:"id,omitempty"`
	Filename string                  `json:"filename"`
	Valid    bool                    `json:"valid"`
	Error    string                  `json:"error,omitempty"`
	Result   *benford.AnalysisResult `json:"result,omitempty"`
}

// NewDocument flattens an outcome. The chart is dropped unless withImage.
func NewDocument(id core.AnalysisID, filename string, outcome benford.Outcome, withImage bool) Document {
	doc := Document{ID: id, Filename: filename, Valid: outcome.Valid()}
	switch o := outcome.(type) {
	case benford.Success:
		result := o.Result
		if !withImage {
			result.Image = ""
		}
		doc.Result = &result
	case benford.Failure:
		doc.Error = o.Message
	}
	return doc
}

// Write renders doc to w in format f
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(doc))
		return err
	default:
		_, err := io.WriteString(w, Text(doc))
		return err
	}
}

// Verdict is the one-sentence interpretation of a verdict
func Verdict(v benford.FitnessVerdict) string {
	if v.Rejected {
		return fmt.Sprintf("The leading digits do not follow Benford's Law (chi-square %.4f > %.2f at the 5%% level).", v.Statistic, v.CriticalValue)
	}
	return fmt.Sprintf("The leading digits are consistent with Benford's Law (chi-square %.4f <= %.2f at the 5%% level).", v.Statistic, v.CriticalValue)
}

// Text renders a plain-text report
func Text(doc Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", doc.Filename)
	if !doc.Valid {
		fmt.Fprintf(&sb, "  error: %s\n", doc.Error)
		return sb.String()
	}
	r := doc.Result
	fmt.Fprintf(&sb, "  observations: %d", r.Observations)
	if r.Zeros > 0 {
		fmt.Fprintf(&sb, " (%d zero rows skipped)", r.Zeros)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  chi-square:   %.4f (critical %.2f, p=%.4f)\n", r.Verdict.Statistic, r.Verdict.CriticalValue, r.Verdict.PValue)
	fmt.Fprintf(&sb, "  MAD:          %.4f (%s)\n", r.Verdict.MAD, r.Verdict.Conformity)
	fmt.Fprintf(&sb, "  verdict:      %s\n", Verdict(r.Verdict))
	sb.WriteString("  digit  expected  observed  count\n")
	ref := benford.Reference()
	for i, pct := range r.Distribution {
		fmt.Fprintf(&sb, "  %5d  %7.2f%%  %7.2f%%  %5d\n", i+1, ref[i], pct, r.Counts[i])
	}
	return sb.String()
}

// Markdown renders a Markdown report
func Markdown(doc Document) string {
	var sb strings.Builder
	if !doc.Valid {
		fmt.Fprintf(&sb, "# Analysis of %s failed\n\n%s\n", escape(doc.Filename), escape(doc.Error))
		return sb.String()
	}
	r := doc.Result
	fmt.Fprintf(&sb, "# Benford analysis of %s\n\n", escape(doc.Filename))
	fmt.Fprintf(&sb, "- Observations: **%d**\n", r.Observations)
	if r.Zeros > 0 {
		fmt.Fprintf(&sb, "- Zero-valued rows skipped: %d\n", r.Zeros)
	}
	fmt.Fprintf(&sb, "- Chi-square statistic: **%.4f** (critical value %.2f, %d degrees of freedom)\n",
		r.Verdict.Statistic, r.Verdict.CriticalValue, benford.DegreesOfFreedom)
	fmt.Fprintf(&sb, "- p-value: %.4f\n", r.Verdict.PValue)
	fmt.Fprintf(&sb, "- Mean absolute deviation: %.4f (%s)\n\n", r.Verdict.MAD, r.Verdict.Conformity)
	fmt.Fprintf(&sb, "**Verdict:** %s\n\n", Verdict(r.Verdict))

	sb.WriteString("| Digit | Expected % | Observed % | Count |\n")
	sb.WriteString("|---:|---:|---:|---:|\n")
	ref := benford.Reference()
	for i, pct := range r.Distribution {
		fmt.Fprintf(&sb, "| %d | %.2f | %.2f | %d |\n", i+1, ref[i], pct, r.Counts[i])
	}
	return sb.String()
}

// HTML converts Markdown into an HTML fragment. Quotes and dashes are
// left as typed so error values read exactly as in the text report.
func HTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.HrefTargetBlank | html.SkipHTML})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;", "|", `\|`, "#", `\#`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
