package lexer

import (
	"testing"

	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/source"
	"github.com/ardnew/tlc/token"
)

func lex(src string) ([]token.Token, *diag.Engine) {
	buf := source.NewString("test.mod", src)
	diags := diag.NewEngine(buf)

	var toks []token.Token
	for tok := range New(buf, diags).All() {
		toks = append(toks, tok)
	}

	return toks, diags
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}

	return ks
}

func TestLexer_Next_Kinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"empty", "", []token.Kind{token.EOF}},
		{"whitespace", " \t\r\n ", []token.Kind{token.EOF}},
		{
			"module header",
			"MODULE Gcd;",
			[]token.Kind{token.Module, token.Identifier, token.Semi, token.EOF},
		},
		{
			"punctuators",
			"+ - * / := . , ; : = # < <= > >= ( )",
			[]token.Kind{
				token.Plus, token.Minus, token.Star, token.Slash,
				token.ColonEqual, token.Period, token.Comma, token.Semi,
				token.Colon, token.Equal, token.Hash, token.Less,
				token.LessEqual, token.Greater, token.GreaterEqual,
				token.LParen, token.RParen, token.EOF,
			},
		},
		{
			"adjacent punctuators",
			"a:=b<=c>=(d)",
			[]token.Kind{
				token.Identifier, token.ColonEqual, token.Identifier,
				token.LessEqual, token.Identifier, token.GreaterEqual,
				token.LParen, token.Identifier, token.RParen, token.EOF,
			},
		},
		{
			"keywords are case sensitive",
			"WHILE while While",
			[]token.Kind{token.While, token.Identifier, token.Identifier, token.EOF},
		},
		{
			"identifier with digits and underscore",
			"_x1 y_2",
			[]token.Kind{token.Identifier, token.Identifier, token.EOF},
		},
		{
			"numbers",
			"10 1AH 0FFH",
			[]token.Kind{
				token.IntegerLiteral, token.IntegerLiteral, token.IntegerLiteral,
				token.EOF,
			},
		},
		{
			"strings",
			`"abc" 'd'`,
			[]token.Kind{token.StringLiteral, token.StringLiteral, token.EOF},
		},
		{
			"comment skipped",
			"a (* comment *) b",
			[]token.Kind{token.Identifier, token.Identifier, token.EOF},
		},
		{
			"nested comment skipped",
			"a (* outer (* inner *) still outer *) b",
			[]token.Kind{token.Identifier, token.Identifier, token.EOF},
		},
		{
			"lone paren star is not a comment",
			"( *",
			[]token.Kind{token.LParen, token.Star, token.EOF},
		},
		{
			"unknown characters",
			"x ? $",
			[]token.Kind{token.Identifier, token.Unknown, token.Unknown, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, diags := lex(tt.src)

			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}

			if diags.NumErrors() != 0 {
				t.Errorf("unexpected diagnostics: %v", diags.Diagnostics())
			}
		})
	}
}

func TestLexer_Next_TextAndPos(t *testing.T) {
	toks, _ := lex("VAR  x1 := 1AH;")

	want := []struct {
		text string
		pos  source.Pos
	}{
		{"VAR", 0}, {"x1", 5}, {":=", 8}, {"1AH", 11}, {";", 14}, {"", 15},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i].Text != w.text || toks[i].Pos != w.pos {
			t.Errorf("token %d = (%q, %d), want (%q, %d)",
				i, toks[i].Text, toks[i].Pos, w.text, w.pos)
		}
	}
}

func TestLexer_Next_EOFIsIdempotent(t *testing.T) {
	buf := source.NewString("", "x")
	l := New(buf, diag.NewEngine(buf))

	if tok := l.Next(); !tok.Is(token.Identifier) {
		t.Fatalf("first token = %v", tok.Kind)
	}

	for range 3 {
		if tok := l.Next(); !tok.Is(token.EOF) || tok.Pos != 1 {
			t.Fatalf("expected EOF at 1, got %v at %d", tok.Kind, tok.Pos)
		}
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		id   diag.ID
		want []token.Kind
	}{
		{
			"hex digit without suffix",
			"1A",
			diag.ErrHexDigitInDecimal,
			[]token.Kind{token.IntegerLiteral, token.EOF},
		},
		{
			"unterminated comment",
			"a (* (* *)",
			diag.ErrUnterminatedComment,
			[]token.Kind{token.Identifier, token.EOF},
		},
		{
			"unterminated string",
			"\"abc\nx",
			diag.ErrUnterminatedString,
			[]token.Kind{token.Unknown, token.Identifier, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, diags := lex(tt.src)

			if got := diags.Count(tt.id); got != 1 || diags.NumErrors() != 1 {
				t.Errorf("Count(%v) = %d, errors = %d", tt.id, got, diags.NumErrors())
			}

			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func FuzzLexer(f *testing.F) {
	for _, seed := range []string{
		"MODULE M; BEGIN x := 1AH END M.",
		"(* (* *) *)",
		"'unterminated",
		":=<=>=",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		buf := source.NewString("", src)
		l := New(buf, diag.NewEngine(buf))

		last := source.Pos(-1)

		for tok := range l.All() {
			if tok.Pos < last {
				t.Fatalf("position went backwards: %d after %d", tok.Pos, last)
			}

			if !tok.Is(token.EOF) && tok.Text == "" {
				t.Fatalf("empty text for %v at %d", tok.Kind, tok.Pos)
			}

			last = tok.Pos
		}
	})
}
