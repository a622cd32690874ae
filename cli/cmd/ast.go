package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tlc/ast"
	"github.com/ardnew/tlc/diag"
)

// AST prints the checked syntax tree of a source file.
type AST struct {
	Format string `default:"tree" enum:"tree,yaml,json" help:"Output format (${enum})." short:"F"`
	Source string `arg:""         default:"-"           help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the ast command. The tree is printed even when the source has
// errors, as long as the module header parsed; diagnostics go to stderr.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	u, err := parseSource(ctx, a.Source)
	if u == nil {
		return err
	}

	stdout, stderr := writers(ctx)

	if !u.Valid() {
		rerr := diag.Render(stderr, u.Buffer, u.Diagnostics.Diagnostics(),
			diag.RenderOptions{Snippet: true})
		if rerr != nil {
			return rerr
		}
	}

	if u.Module != nil {
		if err := a.print(stdout, u.Module); err != nil {
			return err
		}
	}

	if err := u.Err(); err != nil {
		return ErrCompile.Wrap(err).With(slog.String("format", a.Format))
	}

	return nil
}

func (a *AST) print(w io.Writer, m *ast.ModuleDecl) error {
	switch a.Format {
	case "yaml":
		data, err := yaml.Marshal(ast.ToNative(m))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(ast.ToNative(m)); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	default:
		return ast.Fprint(w, m)
	}
}
