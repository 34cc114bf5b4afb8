package digits

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gobenford/domain/benford"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractFile(t *testing.T, name string) (Extraction, error) {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()
	return Extract(f)
}

func requireParseError(t *testing.T, err error) *benford.ParseError {
	t.Helper()
	var pe *benford.ParseError
	require.Error(t, err)
	require.True(t, errors.As(err, &pe), "expected *benford.ParseError, got %T: %v", err, err)
	return pe
}

func TestExtract_NonNumericColumn(t *testing.T) {
	_, err := extractFile(t, "words.txt")
	pe := requireParseError(t, err)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, benford.CauseNotInteger, pe.Cause)
	assert.Equal(t, "one", pe.Value)
}

func TestExtract_SingleBadRow(t *testing.T) {
	_, err := extractFile(t, "one_bad_row.txt")
	pe := requireParseError(t, err)

	// header is line 1, "c 12a" is the fourth physical line
	assert.Equal(t, 4, pe.Line)
	assert.Equal(t, benford.CauseNotInteger, pe.Cause)
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "not an integer")
	assert.Contains(t, err.Error(), "12a")
}

func TestExtract_MissingValue(t *testing.T) {
	_, err := extractFile(t, "missing_value.txt")
	pe := requireParseError(t, err)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, benford.CauseMissingValue, pe.Cause)
	assert.Equal(t, "line 3: missing value", err.Error())
}

func TestExtract_EightRows(t *testing.T) {
	ex, err := extractFile(t, "eight_rows.txt")
	require.NoError(t, err)

	assert.Equal(t, 8, ex.Total)
	assert.Equal(t, benford.DigitCounts{1, 1, 1, 1, 1, 1, 1, 1, 0}, ex.Counts)
	assert.Equal(t, ex.Total, ex.Counts.Sum())
}

func TestExtract_ThirtyRows(t *testing.T) {
	ex, err := extractFile(t, "thirty_rows.txt")
	require.NoError(t, err)

	assert.Equal(t, 30, ex.Total)
	assert.Equal(t, benford.DigitCounts{11, 11, 2, 1, 1, 1, 1, 1, 1}, ex.Counts)
}

func TestExtract_LineTooLong(t *testing.T) {
	long := strings.Repeat("7", maxLineBytes+1)
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"data row", "amount\n1\n" + long + "\n2\n", 3},
		{"header", long + "\n1\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(strings.NewReader(tt.input))
			var parseErr *benford.ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, tt.line, parseErr.Line)
			assert.Equal(t, benford.CauseLineTooLong, parseErr.Cause)
		})
	}
}

func TestExtract_HeaderOnly(t *testing.T) {
	ex, err := extractFile(t, "header_only.txt")
	require.NoError(t, err)
	assert.Zero(t, ex.Total)
	assert.Zero(t, ex.Rows())
}

func TestExtract_EmptyInput(t *testing.T) {
	ex, err := Extract(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, ex.Total)
}

func TestExtract_HeaderIsNeverValidated(t *testing.T) {
	ex, err := Extract(strings.NewReader("\n7\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, ex.Total)
	assert.Equal(t, 1, ex.Counts.Count(7))
}

func TestExtract_ZerosAreSkipped(t *testing.T) {
	ex, err := extractFile(t, "zeros.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, ex.Total)
	assert.Equal(t, 2, ex.Zeros)
	assert.Equal(t, 3, ex.Rows())
	assert.Equal(t, 1, ex.Counts.Count(5))
}

func TestExtract_CRLF(t *testing.T) {
	ex, err := extractFile(t, "crlf.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, ex.Total)
	assert.Equal(t, 1, ex.Counts.Count(1))
	assert.Equal(t, 1, ex.Counts.Count(2))
}

func TestExtract_Idempotent(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "thirty_rows.txt"))
	require.NoError(t, err)

	first, err := Extract(strings.NewReader(string(data)))
	require.NoError(t, err)
	second, err := Extract(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractLines_MatchesExtract(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "thirty_rows.txt"))
	require.NoError(t, err)

	fromReader, err := Extract(strings.NewReader(string(data)))
	require.NoError(t, err)
	fromLines, err := ExtractLines(strings.Split(strings.TrimRight(string(data), "\n"), "\n"))
	require.NoError(t, err)
	assert.Equal(t, fromReader, fromLines)
}

func TestExtractLines_LineNumbers(t *testing.T) {
	_, err := ExtractLines([]string{"header", "1", "2", "x 3.5"})
	pe := requireParseError(t, err)
	assert.Equal(t, 4, pe.Line)
	assert.Equal(t, "3.5", pe.Value)
}

func TestLeadingDigit(t *testing.T) {
	tests := []struct {
		token   string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"007", 7, false},
		{"9000", 9, false},
		{"0", 0, false},
		{"0000", 0, false},
		{"123456789012345678901234567890", 1, false},
		{"12a", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"3.14", 0, true},
		{"1e5", 0, true},
		{"", 0, true},
		{"٣", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := LeadingDigit(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
