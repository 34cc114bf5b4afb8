// Package digits turns line-oriented numeric input into leading-digit counts.
package digits

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"gobenford/domain/benford"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Extraction is the outcome of scanning one input. Total always equals
// Counts.Sum(); rows whose value is zero have no leading digit and are
// tallied in Zeros instead.
type Extraction struct {
	Total  int
	Counts benford.DigitCounts
	Zeros  int
}

// Rows returns the number of data rows read, header excluded.
func (e Extraction) Rows() int {
	return e.Total + e.Zeros
}

// Extract reads r line by line. The first line is a header and is skipped
// whatever it contains. Every other line must hold at least one
// whitespace-delimited token and its last token must be a non-negative
// base-10 integer; otherwise a *benford.ParseError naming the line is
// returned and no partial result is produced. A line over 1 MB is reported
// the same way, with CauseLineTooLong.
func Extract(r io.Reader) (Extraction, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var ex Extraction
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}
		if err := ex.add(line, scanner.Text()); err != nil {
			return Extraction{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Extraction{}, &benford.ParseError{Line: line + 1, Cause: benford.CauseLineTooLong}
		}
		return Extraction{}, fmt.Errorf("read input after line %d: %w", line, err)
	}
	return ex, nil
}

// ExtractLines is Extract over lines already split.
func ExtractLines(lines []string) (Extraction, error) {
	var ex Extraction
	for i, text := range lines {
		if i == 0 {
			continue
		}
		if err := ex.add(i+1, text); err != nil {
			return Extraction{}, err
		}
	}
	return ex, nil
}

func (e *Extraction) add(line int, text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return &benford.ParseError{Line: line, Cause: benford.CauseMissingValue}
	}

	last := fields[len(fields)-1]
	digit, err := LeadingDigit(last)
	if err != nil {
		return &benford.ParseError{Line: line, Cause: benford.CauseNotInteger, Value: last}
	}
	if digit == 0 {
		e.Zeros++
		return nil
	}
	e.Counts.Add(digit)
	e.Total++
	return nil
}

// LeadingDigit returns the first significant digit of a non-negative
// integer literal such as "007" (7) or "1234" (1). Zero, in any number of
// digits, yields 0. Signs, decimal points and any other characters are
// rejected. The literal is never converted to a machine integer, so values
// of any magnitude are accepted.
func LeadingDigit(token string) (int, error) {
	if token == "" {
		return 0, fmt.Errorf("empty token")
	}
	first := -1
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid character %q at offset %d", c, i)
		}
		if first < 0 && c != '0' {
			first = int(c - '0')
		}
	}
	if first < 0 {
		return 0, nil
	}
	return first, nil
}
