// Package ioformat loads a puzzle grid from the plain-text format the
// rest of the solver consumes: a header line giving the grid
// dimensions, followed by one row of clue characters per grid row.
// Parsing lives outside the solver core; a malformed file produces a
// *ParseError here, never a panic from inside the propagator or
// search driver.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports a malformed puzzle file, with the 1-based input
// line it was found on.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Grid is the immutable puzzle read from a file: R rows, C columns,
// and a clue array indexed r*C+c, with -1 marking a blank cell.
type Grid struct {
	R, C  int
	Clues []int
}

// blankRunes are the characters accepted for an unclued cell.
const blankRunes = ".-xX"

// Parse reads a puzzle in the `R C` header plus R clue rows format
// from r. Whitespace between characters on a clue row is tolerated,
// and blank lines anywhere in the input are skipped.
func Parse(r io.Reader) (*Grid, error) {
	lr := &lineReader{scanner: bufio.NewScanner(r)}

	line, lineNo, ok := lr.nextNonEmpty()
	if !ok {
		return nil, &ParseError{Line: 1, Msg: "empty input, expected an \"R C\" header"}
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected \"R C\" header, got %q", line)}
	}
	rows, err := strconv.Atoi(fields[0])
	if err != nil || rows <= 0 {
		return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid row count %q", fields[0])}
	}
	cols, err := strconv.Atoi(fields[1])
	if err != nil || cols <= 0 {
		return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid column count %q", fields[1])}
	}

	clues := make([]int, rows*cols)
	for row := 0; row < rows; row++ {
		rowLine, rowLineNo, ok := lr.nextNonEmpty()
		if !ok {
			return nil, &ParseError{Line: lr.lineNo + 1, Msg: fmt.Sprintf("expected %d clue rows, found %d", rows, row)}
		}

		cells := strings.Fields(rowLine)
		var flat string
		if len(cells) == cols {
			flat = strings.Join(cells, "")
		} else {
			flat = strings.ReplaceAll(rowLine, " ", "")
		}
		if len(flat) != cols {
			return nil, &ParseError{Line: rowLineNo, Msg: fmt.Sprintf("row has %d cells, expected %d", len(flat), cols)}
		}

		for col, ch := range flat {
			idx := row*cols + col
			switch {
			case ch >= '0' && ch <= '3':
				clues[idx] = int(ch - '0')
			case strings.ContainsRune(blankRunes, ch):
				clues[idx] = -1
			default:
				return nil, &ParseError{Line: rowLineNo, Msg: fmt.Sprintf("unrecognized cell character %q", ch)}
			}
		}
	}

	if err := lr.scanner.Err(); err != nil {
		return nil, fmt.Errorf("ioformat: reading input: %w", err)
	}

	return &Grid{R: rows, C: cols, Clues: clues}, nil
}

// lineReader wraps a bufio.Scanner with a running 1-based line
// counter, so every ParseError can cite the exact input line across
// repeated nextNonEmpty calls.
type lineReader struct {
	scanner *bufio.Scanner
	lineNo  int
}

// nextNonEmpty returns the next line with non-whitespace content, its
// 1-based line number, and whether one was found before EOF.
func (lr *lineReader) nextNonEmpty() (string, int, bool) {
	for lr.scanner.Scan() {
		lr.lineNo++
		line := strings.TrimRight(lr.scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, lr.lineNo, true
	}
	return "", lr.lineNo, false
}
