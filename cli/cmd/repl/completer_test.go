package repl

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "Sum(fo", 6, "fo", 4, 6},
		{"after_comma", "Swap(a, fo", 10, "fo", 8, 10},
		{"after_assign", "x := fo", 7, "fo", 5, 7},
		{"after_hash", "a#fo", 4, "fo", 2, 4},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "max_len", 7, "max_len", 0, 7},
		{"digits", "x1 y22", 6, "y22", 3, 6},
		{"cursor_past_end", "abc", 99, "abc", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestCallee(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   string
	}{
		{"no_call", "x := 1", 6, ""},
		{"open_call", "Sum(1, ", 7, "Sum"},
		{"space_before_paren", "Sum (1", 6, "Sum"},
		{"nested_inner", "Sum(Max(1, ", 11, "Max"},
		{"nested_closed", "Sum(Max(1, 2), ", 15, "Sum"},
		{"closed_call", "Sum(1, 2)", 9, ""},
		{"grouping_paren", "x := (1 + ", 10, ""},
		{"cursor_inside", "Sum(1, 2)", 5, "Sum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callee(tt.input, tt.cursor); got != tt.want {
				t.Errorf("callee(%q, %d) = %q, want %q", tt.input, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	candidates := []string{"BEGIN", "BOOLEAN", "INTEGER", "Limit", "Sum"}

	tests := []struct {
		name  string
		word  string
		cands []string
		want  []string
	}{
		{"empty_word", "", candidates, nil},
		{"no_candidates", "Li", nil, nil},
		{"exact_prefix", "Lim", candidates, []string{"Limit"}},
		{"subsequence", "INT", candidates, []string{"INTEGER"}},
		{"no_match", "xyz", candidates, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := complete(tt.word, tt.cands)

			got := make([]string, len(matches))
			for i, m := range matches {
				got[i] = m.Str
			}

			if len(got) != len(tt.want) {
				t.Fatalf("complete(%q) = %v, want %v", tt.word, got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("complete(%q)[%d] = %q, want %q", tt.word, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestComputeMatches_Mode(t *testing.T) {
	s := NewSession()
	if _, err := s.Submit(context.Background(), "CONST Limit = 10;"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	m := newModel(context.Background(), s, NewHistory(""), testLogger())

	m.input.SetValue("Lim")
	m.input.SetCursor(3)

	matches, ws, we := m.computeMatches()
	if len(matches) == 0 || matches[0].Str != "Limit" {
		t.Fatalf("check mode matches = %v, want Limit first", matches)
	}

	if ws != 0 || we != 3 {
		t.Errorf("bounds = (%d, %d), want (0, 3)", ws, we)
	}

	m, _ = m.switchToMode(modeCtrl)
	m.input.SetValue("res")
	m.input.SetCursor(3)

	matches, _, _ = m.computeMatches()
	if len(matches) != 1 || matches[0].Str != "reset" {
		t.Errorf("ctrl mode matches = %v, want [reset]", matches)
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := complete("e", []string{"clear", "decls", "help", "reset", "source"})
	if len(matches) == 0 {
		t.Fatal("no matches")
	}

	if got := renderCandidateBar(matches, -1, false, 0); got != "" {
		t.Errorf("zero width bar = %q, want empty", got)
	}

	if got := renderCandidateBar(nil, -1, false, 80); got != "" {
		t.Errorf("empty matches bar = %q, want empty", got)
	}

	wide := renderCandidateBar(matches, -1, false, 200)
	if strings.Contains(wide, "...") {
		t.Errorf("wide bar ellipsized: %q", wide)
	}

	narrow := renderCandidateBar(matches, -1, false, 12)
	if !strings.Contains(narrow, "...") {
		t.Errorf("narrow bar not ellipsized: %q", narrow)
	}

	if w := lipgloss.Width(narrow); w > 12+lipgloss.Width("  ...") {
		t.Errorf("narrow bar width = %d", w)
	}
}
