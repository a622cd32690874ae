// Package lexer converts tinylang source into a forward-only token stream.
package lexer

import (
	"iter"
	"log/slog"

	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/log"
	"github.com/ardnew/tlc/source"
	"github.com/ardnew/tlc/token"
)

// Lexer tokenizes a single source buffer.
type Lexer struct {
	buf    *source.Buffer
	diags  *diag.Engine
	logger log.Logger
	pos    int
}

// Option configures a [Lexer].
type Option func(*Lexer)

// WithLogger logs every token at trace level.
func WithLogger(logger log.Logger) Option {
	return func(l *Lexer) { l.logger = logger.Phase("lex") }
}

// New returns a lexer positioned at the start of buf. Malformed comments,
// strings and numbers are reported to diags.
func New(buf *source.Buffer, diags *diag.Engine, opts ...Option) *Lexer {
	l := &Lexer{buf: buf, diags: diags}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Diagnostics returns the engine the lexer reports to.
func (l *Lexer) Diagnostics() *diag.Engine { return l.diags }

// Buffer returns the buffer being tokenized.
func (l *Lexer) Buffer() *source.Buffer { return l.buf }

// Next returns the next token. Once the end of input is reached every call
// returns an EOF token.
func (l *Lexer) Next() token.Token {
	tok := l.next()

	l.logger.Trace("token",
		slog.String("kind", tok.Kind.String()),
		slog.String("text", tok.Text),
		slog.Int("pos", int(tok.Pos)))

	return tok
}

// All returns an iterator over the remaining tokens, ending with the first
// EOF token.
func (l *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := l.Next()
			if !yield(tok) || tok.Is(token.EOF) {
				return
			}
		}
	}
}

func (l *Lexer) next() token.Token {
	data := l.buf.Data

	for {
		for l.pos < len(data) && isWhitespace(data[l.pos]) {
			l.pos++
		}

		if l.pos >= len(data) {
			return token.Token{Kind: token.EOF, Pos: source.Pos(len(data))}
		}

		if data[l.pos] == '(' && l.peek(1) == '*' {
			l.comment()

			continue
		}

		break
	}

	c := data[l.pos]

	switch {
	case isLetter(c):
		return l.identifier()

	case isDigit(c):
		return l.number()

	case c == '"' || c == '\'':
		return l.str(c)
	}

	start := l.pos

	kind := token.Unknown

	switch c {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '.':
		kind = token.Period
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semi
	case '=':
		kind = token.Equal
	case '#':
		kind = token.Hash
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case ':':
		kind = l.pick('=', token.ColonEqual, token.Colon)
	case '<':
		kind = l.pick('=', token.LessEqual, token.Less)
	case '>':
		kind = l.pick('=', token.GreaterEqual, token.Greater)
	}

	if kind == token.ColonEqual || kind == token.LessEqual || kind == token.GreaterEqual {
		l.pos += 2
	} else {
		l.pos++
	}

	return l.token(kind, start)
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n < len(l.buf.Data) {
		return l.buf.Data[l.pos+n]
	}

	return 0
}

// pick returns long if the byte after the current one is c, else short.
func (l *Lexer) pick(c byte, long, short token.Kind) token.Kind {
	if l.peek(1) == c {
		return long
	}

	return short
}

func (l *Lexer) token(kind token.Kind, start int) token.Token {
	return token.Token{
		Kind: kind,
		Pos:  source.Pos(start),
		Text: string(l.buf.Data[start:l.pos]),
	}
}

func (l *Lexer) identifier() token.Token {
	start := l.pos

	for l.pos < len(l.buf.Data) && isIdentChar(l.buf.Data[l.pos]) {
		l.pos++
	}

	tok := l.token(token.Identifier, start)
	tok.Kind = token.Lookup(tok.Text)

	return tok
}

// number scans a run of hexadecimal digits. A trailing H marks the literal
// as hexadecimal; without it, hex letters are an error.
func (l *Lexer) number() token.Token {
	start, data := l.pos, l.buf.Data

	sawHexLetter := false

	for l.pos < len(data) && isHexDigit(data[l.pos]) {
		if !isDigit(data[l.pos]) {
			sawHexLetter = true
		}

		l.pos++
	}

	if l.pos < len(data) && data[l.pos] == 'H' {
		l.pos++
	} else if sawHexLetter {
		l.diags.Report(source.Pos(start), diag.ErrHexDigitInDecimal,
			string(data[start:l.pos]))
	}

	return l.token(token.IntegerLiteral, start)
}

// str scans a string literal delimited by quote on a single line.
func (l *Lexer) str(quote byte) token.Token {
	start, data := l.pos, l.buf.Data

	l.pos++

	for l.pos < len(data) && data[l.pos] != quote && data[l.pos] != '\n' {
		l.pos++
	}

	if l.pos >= len(data) || data[l.pos] != quote {
		l.diags.Report(source.Pos(start), diag.ErrUnterminatedString)

		return l.token(token.Unknown, start)
	}

	l.pos++

	return l.token(token.StringLiteral, start)
}

// comment skips a possibly nested (* ... *) comment.
func (l *Lexer) comment() {
	start, data := l.pos, l.buf.Data
	depth := 0

	for l.pos < len(data) {
		switch {
		case data[l.pos] == '(' && l.peek(1) == '*':
			depth++
			l.pos += 2

		case data[l.pos] == '*' && l.peek(1) == ')':
			depth--
			l.pos += 2

			if depth == 0 {
				return
			}

		default:
			l.pos++
		}
	}

	l.diags.Report(source.Pos(start), diag.ErrUnterminatedComment)
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\v' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || ('A' <= c && c <= 'F') || ('a' <= c && c <= 'f')
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isIdentChar(c byte) bool { return isLetter(c) || isDigit(c) }
