package consteval

import (
	"log/slog"
	"strings"
)

// Sentinel errors returned by [Eval] and [Module].
var (
	ErrNotConstant  = NewError("expression is not constant")
	ErrUnsupported  = NewError("unsupported operator")
	ErrCompile      = NewError("compile constant expression")
	ErrEvaluate     = NewError("evaluate constant expression")
	ErrDivideByZero = NewError("division by zero")
)

// Error is an evaluation error carrying structured logging attributes.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns an Error with message msg.
func NewError(msg string) *Error { return &Error{msg: msg} }

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is matches errors derived from the same sentinel, so that
// errors.Is(ErrNotConstant.With(...), ErrNotConstant) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{msg: e.msg, err: e.err, attrs: append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...)}
}
