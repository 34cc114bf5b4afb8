package source

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is the container format of an uploaded file
type Format string

const (
	FormatText Format = "text"
	FormatXLSX Format = "xlsx"
)

// AcceptedExtensions lists the upload extensions offered to users
var AcceptedExtensions = []string{".csv", ".txt", ".xlsx"}

// DetectFormat picks the format from the file extension
func DetectFormat(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return FormatXLSX
	}
	return FormatText
}

// Accepted reports whether filename carries one of AcceptedExtensions
func Accepted(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AcceptedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Lines returns a line-oriented view of an upload. Text files pass through
// untouched; workbooks are flattened by FlattenWorkbook.
func Lines(filename string, r io.Reader) (io.Reader, error) {
	if DetectFormat(filename) == FormatXLSX {
		return FlattenWorkbook(r)
	}
	return r, nil
}

// FlattenWorkbook renders the first sheet of a workbook as text, one line
// per row with cells separated by tabs. Empty rows stay as empty lines so
// line numbers match spreadsheet row numbers. Raw cell values are used so
// number formats such as thousands separators do not leak into the text.
func FlattenWorkbook(r io.Reader) (io.Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var buf bytes.Buffer
	for _, row := range rows {
		buf.WriteString(strings.Join(trimTrailingEmpty(row), "\t"))
		buf.WriteByte('\n')
	}
	return &buf, nil
}

func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}
