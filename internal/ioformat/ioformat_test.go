package ioformat

import (
	"strings"
	"testing"
)

func TestParseTrivial2x2(t *testing.T) {
	g, err := Parse(strings.NewReader("2 2\n33\n33\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.R != 2 || g.C != 2 {
		t.Fatalf("expected 2x2, got %dx%d", g.R, g.C)
	}
	want := []int{3, 3, 3, 3}
	for i, c := range want {
		if g.Clues[i] != c {
			t.Errorf("clue %d: expected %d, got %d", i, c, g.Clues[i])
		}
	}
}

func TestParseBlanksAndWhitespace(t *testing.T) {
	g, err := Parse(strings.NewReader("3 3\n3 . 2\n. . .\n2 . 3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{3, -1, 2, -1, -1, -1, 2, -1, 3}
	for i, c := range want {
		if g.Clues[i] != c {
			t.Errorf("clue %d: expected %d, got %d", i, c, g.Clues[i])
		}
	}
}

func TestParseAcceptsAllBlankGlyphs(t *testing.T) {
	g, err := Parse(strings.NewReader("1 4\n.-xX\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range g.Clues {
		if c != -1 {
			t.Errorf("cell %d: expected blank, got %d", i, c)
		}
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected an error on empty input")
	}
}

func TestParseRejectsMalformedHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("not-a-header\n33\n33\n"))
	if err == nil {
		t.Fatal("expected an error on a malformed header")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Line != 1 {
		t.Errorf("expected error on line 1, got %d", pe.Line)
	}
}

func TestParseRejectsShortRow(t *testing.T) {
	_, err := Parse(strings.NewReader("2 2\n33\n3\n"))
	if err == nil {
		t.Fatal("expected an error on a short row")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Line != 3 {
		t.Errorf("expected error on line 3, got %d", pe.Line)
	}
}

func TestParseRejectsMissingRows(t *testing.T) {
	_, err := Parse(strings.NewReader("2 2\n33\n"))
	if err == nil {
		t.Fatal("expected an error when fewer rows are present than declared")
	}
}

func TestParseRejectsUnknownCharacter(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2\n3?\n"))
	if err == nil {
		t.Fatal("expected an error on an unrecognized cell character")
	}
}
