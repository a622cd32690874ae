package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/lang"
	"github.com/ardnew/tlc/lexer"
	"github.com/ardnew/tlc/log"
	"github.com/ardnew/tlc/profile"
	"github.com/ardnew/tlc/source"
)

// Tokens prints the token stream of a source file.
type Tokens struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the tokens command. Lexical errors are reported on stderr and
// fail the command after the whole stream is printed.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	buf, err := readBuffer(t.Source)
	if err != nil {
		return err
	}

	stdout, stderr := writers(ctx)
	diags := diag.NewEngine(buf)
	lex := lexer.New(buf, diags, lexer.WithLogger(log.Default()))

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)

	profile.Do(ctx, profile.PhaseLex, func(context.Context) {
		for tok := range lex.All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n",
				buf.Location(tok.Pos), tok.Kind, strconv.Quote(tok.String()))
		}
	})

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(diags.Diagnostics()) > 0 {
		err := diag.Render(stderr, buf, diags.Diagnostics(), diag.RenderOptions{Snippet: true})
		if err != nil {
			return err
		}
	}

	if diags.NumErrors() > 0 {
		return ErrCompile.Wrap(lang.ErrSyntax)
	}

	return nil
}

// readBuffer loads the whole of path, or standard input for "-".
func readBuffer(path string) (*source.Buffer, error) {
	var (
		data []byte
		err  error
		name = path
	)

	if path == stdinSource {
		name = stdinName
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err)
	}

	return source.New(name, data), nil
}
