package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tlc/cli/cmd/repl"
	"github.com/ardnew/tlc/lang"
	"github.com/ardnew/tlc/log"
)

// Repl starts the interactive checker.
type Repl struct {
	Source string `arg:"" help:"Declarations to load before the first prompt." name:"source" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := repl.Config{
		CacheDir: variable(ctx, CacheIdentifier),
		Logger:   log.Default(),
	}

	if r.Source != "" {
		f, err := os.Open(r.Source)
		if err != nil {
			return lang.ErrReadInput.Wrap(err).With(slog.String("path", r.Source))
		}
		defer f.Close()

		cfg.Source = f
	}

	return repl.Run(ctx, cfg)
}
