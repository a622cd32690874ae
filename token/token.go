// Package token defines the lexical tokens of tinylang.
package token

import (
	"slices"
	"strconv"

	"github.com/ardnew/tlc/source"
)

// Kind classifies a token.
type Kind uint8

const (
	Unknown Kind = iota
	EOF
	Identifier
	IntegerLiteral
	StringLiteral

	punctuatorBegin
	Plus         // +
	Minus        // -
	Star         // *
	Slash        // /
	ColonEqual   // :=
	Period       // .
	Comma        // ,
	Semi         // ;
	Colon        // :
	Equal        // =
	Hash         // #
	Less         // <
	LessEqual    // <=
	Greater      // >
	GreaterEqual // >=
	LParen       // (
	RParen       // )
	punctuatorEnd

	keywordBegin
	And       // AND
	Begin     // BEGIN
	Const     // CONST
	Div       // DIV
	Do        // DO
	Else      // ELSE
	End       // END
	From      // FROM
	If        // IF
	Import    // IMPORT
	Mod       // MOD
	Module    // MODULE
	Not       // NOT
	Or        // OR
	Procedure // PROCEDURE
	Return    // RETURN
	Then      // THEN
	Var       // VAR
	While     // WHILE
	keywordEnd

	numKinds
)

var names = [numKinds]string{
	Unknown:        "unknown",
	EOF:            "eof",
	Identifier:     "identifier",
	IntegerLiteral: "integer_literal",
	StringLiteral:  "string_literal",
	Plus:           "plus",
	Minus:          "minus",
	Star:           "star",
	Slash:          "slash",
	ColonEqual:     "colonequal",
	Period:         "period",
	Comma:          "comma",
	Semi:           "semi",
	Colon:          "colon",
	Equal:          "equal",
	Hash:           "hash",
	Less:           "less",
	LessEqual:      "lessequal",
	Greater:        "greater",
	GreaterEqual:   "greaterequal",
	LParen:         "l_paren",
	RParen:         "r_paren",
}

var spellings = [numKinds]string{
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	ColonEqual:   ":=",
	Period:       ".",
	Comma:        ",",
	Semi:         ";",
	Colon:        ":",
	Equal:        "=",
	Hash:         "#",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	LParen:       "(",
	RParen:       ")",
	And:          "AND",
	Begin:        "BEGIN",
	Const:        "CONST",
	Div:          "DIV",
	Do:           "DO",
	Else:         "ELSE",
	End:          "END",
	From:         "FROM",
	If:           "IF",
	Import:       "IMPORT",
	Mod:          "MOD",
	Module:       "MODULE",
	Not:          "NOT",
	Or:           "OR",
	Procedure:    "PROCEDURE",
	Return:       "RETURN",
	Then:         "THEN",
	Var:          "VAR",
	While:        "WHILE",
}

var keywords = func() map[string]Kind {
	m := make(map[string]Kind, keywordEnd-keywordBegin-1)
	for k := keywordBegin + 1; k < keywordEnd; k++ {
		m[spellings[k]] = k
	}

	return m
}()

// String returns the name of k, e.g. "identifier" or "kw_BEGIN".
func (k Kind) String() string {
	switch {
	case k >= numKinds:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	case k.IsKeyword():
		return "kw_" + spellings[k]
	default:
		return names[k]
	}
}

// Spelling returns the source spelling of a punctuator or keyword, and the
// kind name for every other kind.
func (k Kind) Spelling() string {
	if k < numKinds && spellings[k] != "" {
		return spellings[k]
	}

	return k.String()
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k > keywordBegin && k < keywordEnd }

// IsPunctuator reports whether k is an operator or delimiter.
func (k Kind) IsPunctuator() bool { return k > punctuatorBegin && k < punctuatorEnd }

// Lookup returns the keyword kind spelled by ident, or [Identifier].
// Keywords are case-sensitive.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}

	return Identifier
}

// Keywords returns every keyword spelling in declaration order.
func Keywords() []string {
	kw := make([]string, 0, keywordEnd-keywordBegin-1)
	for k := keywordBegin + 1; k < keywordEnd; k++ {
		kw = append(kw, spellings[k])
	}

	return kw
}

// Token is a classified slice of source text.
type Token struct {
	Kind Kind
	Pos  source.Pos
	Text string
}

// Is reports whether t has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsOneOf reports whether t has any of the given kinds.
func (t Token) IsOneOf(ks ...Kind) bool { return slices.Contains(ks, t.Kind) }

// End returns the offset just past the token.
func (t Token) End() source.Pos { return t.Pos + source.Pos(len(t.Text)) }

// String returns the token text, or the kind name for EOF.
func (t Token) String() string {
	if t.Kind == EOF {
		return "<eof>"
	}

	return t.Text
}
