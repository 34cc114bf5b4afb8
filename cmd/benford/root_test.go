package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobenford/internal/report"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("BENFORD_CONFIG", "")
	t.Setenv("LOG_LEVEL", "ERROR")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "benford dev\n", out)
}

func TestAnalyze_TextAndPlot(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "ledger.txt", "amount\n1\n2\n3\n4\n5\n6\n7\n8\n")
	plots := filepath.Join(dir, "charts")

	out, errOut, err := runCmd(t, "analyze", "--plot", plots, input)
	require.NoError(t, err)
	assert.Contains(t, out, "ledger.txt")
	assert.Contains(t, out, "observations: 8")
	assert.Contains(t, errOut, "ledger.png")

	f, err := os.Open(filepath.Join(plots, "ledger.png"))
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)
}

func TestAnalyze_PlotNamesDoNotCollide(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	first := writeInput(t, dir, filepath.Join("a", "data.csv"), "h\n1\n2\n3\n")
	second := writeInput(t, dir, filepath.Join("b", "data.txt"), "h\n9\n8\n7\n")
	plots := filepath.Join(dir, "plots")

	_, errOut, err := runCmd(t, "analyze", "--plot", plots, first, second)
	require.NoError(t, err)
	assert.Contains(t, errOut, filepath.Join(plots, "data.png"))
	assert.Contains(t, errOut, filepath.Join(plots, "data-2.png"))

	entries, err := os.ReadDir(plots)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestChartNames(t *testing.T) {
	names := chartNames{}
	assert.Equal(t, "data.png", names.next("data.csv"))
	assert.Equal(t, "data-2.png", names.next("data.txt"))
	assert.Equal(t, "data-2-2.png", names.next("data-2.csv"))
	assert.Equal(t, "data-3.png", names.next("data.xlsx"))
	assert.Equal(t, "Observed.png", names.next(""))
}

func TestAnalyze_JSON(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "ledger.txt", "amount\n1\n1\n2\n")

	out, _, err := runCmd(t, "analyze", "--format", "json", input)
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.True(t, doc.Valid)
	require.NotNil(t, doc.Result)
	assert.Equal(t, 3, doc.Result.Observations)
}

func TestAnalyze_FailureSetsError(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "good.txt", "h\n1\n2\n")
	bad := writeInput(t, dir, "bad.txt", "h\n1\n\n")

	out, _, err := runCmd(t, "analyze", good, bad)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 analyses failed", err.Error())
	assert.Contains(t, out, "good.txt")
	assert.Contains(t, out, "line 3: missing value")
}

func TestAnalyze_BadFormat(t *testing.T) {
	_, _, err := runCmd(t, "analyze", "--format", "xml", "x.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestAnalyze_RequiresFiles(t *testing.T) {
	_, _, err := runCmd(t, "analyze")
	assert.Error(t, err)
}
