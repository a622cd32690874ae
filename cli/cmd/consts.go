package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tlc/consteval"
	"github.com/ardnew/tlc/diag"
)

// Consts evaluates every constant declared in a source file.
type Consts struct {
	Format string `default:"text" enum:"text,yaml,json" help:"Output format (${enum})." short:"F"`
	Source string `arg:""         default:"-"           help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the consts command. Constants that fail to evaluate are
// omitted from the output and reported by the returned error.
func (c *Consts) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	u, err := parseSource(ctx, c.Source)
	if u == nil {
		return err
	}

	stdout, stderr := writers(ctx)

	if !u.Valid() {
		if err := diag.Render(stderr, u.Buffer, u.Diagnostics.Diagnostics(),
			diag.RenderOptions{Snippet: true}); err != nil {
			return err
		}

		return ErrCompile.Wrap(u.Err())
	}

	values, evalErr := consteval.Module(u.Module)

	if err := c.print(stdout, values); err != nil {
		return err
	}

	if evalErr != nil {
		return ErrEvaluate.Wrap(evalErr)
	}

	return nil
}

func (c *Consts) print(w io.Writer, values map[string]any) error {
	switch c.Format {
	case "yaml":
		data, err := yaml.Marshal(values)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	case "json":
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintf(w, "%s\n", data)

		return err
	}

	var b strings.Builder

	for _, name := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(&b, "%s = %s\n", name, formatConst(values[name]))
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// formatConst spells v as a tinylang literal.
func formatConst(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return "TRUE"
		}

		return "FALSE"
	default:
		return fmt.Sprint(v)
	}
}
