package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase holds the state shared by both pretty handlers.
type prettyBase struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

func (b prettyBase) enabled(level slog.Level) bool {
	return level >= b.opts.Level.Level()
}

// header returns the leading attributes of a record: time, level, source and
// message, each passed through the configured ReplaceAttr.
func (b prettyBase) header(r slog.Record) []slog.Attr {
	head := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		head = append(head, slog.Time(slog.TimeKey, r.Time))
	}

	head = append(head, slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			head = append(head,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	head = append(head, slog.String(slog.MessageKey, r.Message))

	if b.opts.ReplaceAttr == nil {
		return head
	}

	out := head[:0]

	for _, a := range head {
		// Keep the level value as slog.Level so it can be colorized.
		if a.Key == slog.LevelKey {
			out = append(out, a)

			continue
		}

		if a = b.opts.ReplaceAttr(nil, a); a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

// body returns the handler's persistent attributes followed by the record's.
func (b prettyBase) body(r slog.Record) []slog.Attr {
	all := make([]slog.Attr, 0, len(b.attrs)+r.NumAttrs())
	all = append(all, b.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		all = append(all, a)

		return true
	})

	return all
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf.WriteByte('\n')

	_, err := b.w.Write(buf.Bytes())

	return err
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	merged := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	merged = append(merged, b.attrs...)
	b.attrs = append(merged, attrs...)

	return b
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct {
	prettyBase
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{prettyBase{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		writeTextAttr(buf, a)
	}

	for _, a := range h.body(r) {
		writeTextAttr(buf, a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

// WithGroup is accepted but groups are flattened in pretty output.
func (h *prettyTextHandler) WithGroup(string) slog.Handler {
	return &prettyTextHandler{h.prettyBase}
}

func writeTextAttr(buf *bytes.Buffer, a slog.Attr) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(a.Key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')

	writeValue(buf, a.Value.Resolve())
}

// writeValue writes v in a color chosen by its kind.
func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, v.String()

	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		color = colorYellow

		if v.Kind() == slog.KindInt64 {
			text = strconv.FormatInt(v.Int64(), 10)
		}

	case slog.KindBool:
		color = colorRed
		if v.Bool() {
			color = colorGreen
		}

	case slog.KindDuration:
		color = colorMagenta

	case slog.KindTime:
		color = colorBlue

	case slog.KindGroup:
		var group bytes.Buffer

		for _, a := range v.Group() {
			writeTextAttr(&group, a)
		}

		buf.WriteByte('{')
		buf.Write(group.Bytes())
		buf.WriteByte('}')

		return

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			color, text = levelColor(level), Level(level).String()
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// prettyJSONHandler implements a pretty-printed JSON handler for log messages.
type prettyJSONHandler struct {
	prettyBase
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	first := true

	for _, attrs := range [][]slog.Attr{h.header(r), h.body(r)} {
		for _, a := range attrs {
			if !first {
				buf.WriteByte(',')
			}

			first = false

			buf.WriteString("\n  ")
			buf.WriteString(colorGray)
			buf.WriteString(strconv.Quote(a.Key))
			buf.WriteString(colorReset)
			buf.WriteString(": ")
			writeValue(buf, a.Value.Resolve())
		}
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

// WithGroup is accepted but groups are flattened in pretty output.
func (h *prettyJSONHandler) WithGroup(string) slog.Handler {
	return &prettyJSONHandler{h.prettyBase}
}
