package analysis

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"sync"
	"testing"

	"gobenford/domain/benford"
	"gobenford/internal"
	apperrors "gobenford/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	mu    sync.Mutex
	calls int
	left  []float64
	right []float64
	spec  benford.ChartSpec
	err   error
}

func (r *recordingRenderer) Render(left, right []float64, spec benford.ChartSpec) (benford.EncodedImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.left, r.right, r.spec = left, right, spec
	if r.err != nil {
		return "", r.err
	}
	return "cGxvdA==", nil
}

func newTestOrchestrator(renderer *recordingRenderer) (*Orchestrator, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewOrchestrator(renderer, internal.NewLoggerTo(&buf, internal.LogLevelDebug)), &buf
}

const eightRows = "row value\na 1\nb 2\nc 3\nd 4\ne 5\nf 6\ng 7\nh 8\n"

func TestRun_Success(t *testing.T) {
	renderer := &recordingRenderer{}
	orch, _ := newTestOrchestrator(renderer)

	outcome := orch.Run("uploads/sales.csv", strings.NewReader(eightRows))
	require.True(t, outcome.Valid())

	success, ok := outcome.(benford.Success)
	require.True(t, ok)
	result := success.Result

	assert.Equal(t, "sales", result.Name)
	assert.Equal(t, 8, result.Observations)
	assert.Equal(t, benford.FrequencyDistribution{12.5, 12.5, 12.5, 12.5, 12.5, 12.5, 12.5, 12.5, 0}, result.Distribution)
	assert.Equal(t, benford.EncodedImage("cGxvdA=="), result.Image)
	assert.Equal(t, result.Verdict.Statistic > benford.CriticalValue, result.Verdict.Rejected)

	require.Equal(t, 1, renderer.calls)
	assert.Equal(t, benford.Reference().Values(), renderer.left)
	assert.Equal(t, result.Distribution.Values(), renderer.right)
	assert.Equal(t, "sales", renderer.spec.RightLabel)
	assert.Equal(t, "Benford Law", renderer.spec.LeftLabel)
	assert.Equal(t, 1, renderer.spec.StartLabel)
}

func TestRun_ColorFollowsVerdict(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  color.Color
	}{
		{
			name:  "benford-like data is green",
			input: benfordLikeInput(),
			want:  benford.ColorAccepted,
		},
		{
			name:  "uniform data is maroon",
			input: "v\n" + strings.Repeat("1\n2\n3\n4\n5\n6\n7\n8\n9\n", 20),
			want:  benford.ColorRejected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := &recordingRenderer{}
			orch, _ := newTestOrchestrator(renderer)
			outcome := orch.Run("data.txt", strings.NewReader(tt.input))
			require.True(t, outcome.Valid())
			assert.Equal(t, tt.want, renderer.spec.RightColor)
		})
	}
}

// benfordLikeInput returns rows whose leading digits match the reference exactly.
func benfordLikeInput() string {
	var sb strings.Builder
	sb.WriteString("value\n")
	for digit, pct := range benford.Reference() {
		for i := 0; i < int(pct); i++ {
			sb.WriteString(strings.Repeat(string(rune('1'+digit)), 2))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func TestRun_ParseFailure(t *testing.T) {
	renderer := &recordingRenderer{}
	orch, logs := newTestOrchestrator(renderer)

	outcome := orch.Run("bad.txt", strings.NewReader("h\n1\n2\n12a\n"))
	require.False(t, outcome.Valid())

	failure, ok := outcome.(benford.Failure)
	require.True(t, ok)
	assert.Equal(t, `failed to extract digits: line 4: not an integer: "12a"`, failure.Message)

	var pe *benford.ParseError
	require.True(t, errors.As(failure.Err, &pe))
	assert.Equal(t, 4, pe.Line)

	assert.Zero(t, renderer.calls, "no plotting after a parse failure")
	assert.Contains(t, logs.String(), "rejecting")
}

func TestRun_HeaderOnly(t *testing.T) {
	renderer := &recordingRenderer{}
	orch, _ := newTestOrchestrator(renderer)

	for _, input := range []string{"", "header\n", "header\n0\n00\n"} {
		outcome := orch.Run("empty.txt", strings.NewReader(input))
		require.False(t, outcome.Valid(), "input %q", input)

		failure := outcome.(benford.Failure)
		assert.Contains(t, failure.Message, "no observations")
		var divErr *benford.DivisionError
		assert.True(t, errors.As(failure.Err, &divErr))
	}
	assert.Zero(t, renderer.calls)
}

func TestRun_ZerosReported(t *testing.T) {
	orch, _ := newTestOrchestrator(&recordingRenderer{})
	outcome := orch.Run("z.txt", strings.NewReader("h\n0\n5\n50\n"))
	require.True(t, outcome.Valid())

	result := outcome.(benford.Success).Result
	assert.Equal(t, 2, result.Observations)
	assert.Equal(t, 1, result.Zeros)
	assert.Equal(t, 100.0, result.Distribution[4])
}

func TestRun_PlotFailureIsContained(t *testing.T) {
	renderer := &recordingRenderer{err: &benford.PlotError{Reason: "boom"}}
	orch, logs := newTestOrchestrator(renderer)

	outcome := orch.Run("data.txt", strings.NewReader(eightRows))
	require.False(t, outcome.Valid())
	failure := outcome.(benford.Failure)
	assert.Equal(t, plotFailureMessage, failure.Message)
	assert.Equal(t, apperrors.CodeInternalError, apperrors.GetCode(failure.Err))
	var plotErr *benford.PlotError
	assert.ErrorAs(t, failure.Err, &plotErr)
	assert.Contains(t, logs.String(), "[ERROR]")
}

func TestDatasetLabel(t *testing.T) {
	tests := map[string]string{
		"sales.csv":            "sales",
		"dir/report.2023.txt":  "report.2023",
		`C:\upload\ledger.txt`: "ledger",
		"noext":                "noext",
		"":                     "Observed",
		".txt":                 "Observed",
	}
	for in, want := range tests {
		assert.Equal(t, want, DatasetLabel(in), in)
	}
}
