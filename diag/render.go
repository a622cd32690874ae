package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/tlc/source"
)

// RenderOptions controls [Render].
type RenderOptions struct {
	Color   bool // style output with ANSI colors
	Snippet bool // print the offending source line and a caret
}

type palette struct {
	loc, msg, caret lipgloss.Style
	severity        map[Severity]lipgloss.Style
}

func newPalette(w io.Writer, color bool) palette {
	r := lipgloss.NewRenderer(w)
	plain := r.NewStyle()

	if !color {
		return palette{
			loc:   plain,
			msg:   plain,
			caret: plain,
			severity: map[Severity]lipgloss.Style{
				Error: plain, Warning: plain, Note: plain,
			},
		}
	}

	return palette{
		loc:   plain.Bold(true),
		msg:   plain.Bold(true),
		caret: plain.Foreground(lipgloss.Color("10")).Bold(true),
		severity: map[Severity]lipgloss.Style{
			Error:   plain.Foreground(lipgloss.Color("9")).Bold(true),
			Warning: plain.Foreground(lipgloss.Color("13")).Bold(true),
			Note:    plain.Foreground(lipgloss.Color("12")).Bold(true),
		},
	}
}

// Render writes diags to w, one per line, in the conventional
// "file:line:col: severity: message" form. Snippets are read from buf, which
// may be nil.
func Render(
	w io.Writer,
	buf *source.Buffer,
	diags []Diagnostic,
	opts RenderOptions,
) error {
	p := newPalette(w, opts.Color)

	var sb strings.Builder

	for _, d := range diags {
		sb.WriteString(p.loc.Render(d.Location.String() + ":"))
		sb.WriteByte(' ')
		sb.WriteString(p.severity[d.Severity].Render(d.Severity.String() + ":"))
		sb.WriteByte(' ')
		sb.WriteString(p.msg.Render(d.Message))
		sb.WriteByte('\n')

		if !opts.Snippet || !d.Location.IsValid() {
			continue
		}

		line := buf.Line(d.Location.Line)
		if line == "" {
			continue
		}

		sb.WriteString(line)
		sb.WriteByte('\n')
		sb.WriteString(caretPadding(line, d.Location.Column))
		sb.WriteString(p.caret.Render("^"))
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// caretPadding returns whitespace reaching column col of line, keeping tabs
// so the caret lines up in a terminal.
func caretPadding(line string, col int) string {
	n := min(max(col-1, 0), len(line))

	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}

		return ' '
	}, line[:n])
}

// Summary returns a one-line count such as "2 errors, 1 warning generated.",
// or "" when there is nothing to summarize.
func Summary(errors, warnings int) string {
	var parts []string

	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}

	if errors > 0 {
		parts = append(parts, plural(errors, "error"))
	}

	if len(parts) == 0 {
		return ""
	}

	return strings.Join(parts, " and ") + " generated."
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}

	return fmt.Sprintf("%d %ss", n, noun)
}
