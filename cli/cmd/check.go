package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/lang"
	"github.com/ardnew/tlc/log"
	"github.com/ardnew/tlc/profile"
)

// Check analyzes source files and reports their diagnostics.
type Check struct {
	Format  string   `default:"text" enum:"text,yaml,json" help:"Report format (${enum})."                 short:"F"`
	Color   bool     `default:"true"                       help:"Colorize text diagnostics."                          negatable:""`
	Snippet bool     `default:"true"                       help:"Show the offending source line."                     negatable:""`
	Watch   bool     `                                     help:"Recheck files whenever they change."       short:"w"`
	Sources []string `arg:""                               help:"Source files or '-' for stdin."            name:"source"`
}

// Run executes the check command. It fails with [ErrCompile] when any
// source has errors.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sources := uniqueSources(c.Sources)
	if len(sources) == 0 {
		return ErrNoSource
	}

	failed, err := c.checkAll(ctx, sources)
	if err != nil {
		return err
	}

	if c.Watch {
		return c.watch(ctx, sources)
	}

	if failed > 0 {
		return ErrCompile.With(slog.Int("files", failed))
	}

	return nil
}

// checkAll checks every source and returns how many had errors.
func (c *Check) checkAll(ctx context.Context, sources []string) (int, error) {
	stdout, stderr := writers(ctx)

	var (
		failed  int
		reports []diag.Report
	)

	for _, src := range sources {
		u, err := parseSource(ctx, src, lang.WithCache(c.Watch))
		if u == nil {
			return failed, err
		}

		if !u.Valid() {
			failed++
		}

		if c.Format == "text" {
			var err error

			profile.Do(ctx, profile.PhaseRender, func(context.Context) {
				err = c.renderText(stderr, u)
			})

			if err != nil {
				return failed, err
			}

			continue
		}

		reports = append(reports, diag.NewReport(u.Diagnostics))
	}

	if c.Format != "text" {
		if err := c.encode(stdout, reports); err != nil {
			return failed, err
		}
	}

	return failed, nil
}

func (c *Check) renderText(w io.Writer, u *lang.Unit) error {
	err := diag.Render(w, u.Buffer, u.Diagnostics.Diagnostics(), diag.RenderOptions{
		Color:   c.Color,
		Snippet: c.Snippet,
	})
	if err != nil {
		return err
	}

	if s := diag.Summary(u.Errors(), u.Diagnostics.NumWarnings()); s != "" {
		_, err = fmt.Fprintln(w, s)
	}

	return err
}

func (c *Check) encode(w io.Writer, reports []diag.Report) error {
	var (
		data []byte
		err  error
	)

	switch c.Format {
	case "yaml":
		data, err = yaml.Marshal(reports)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	default:
		data, err = json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		data = append(data, '\n')
	}

	_, err = w.Write(data)

	return err
}

// watch rechecks a source each time it is written until ctx is done.
// Parent directories are watched so that editors which replace files on
// save are still seen.
func (c *Check) watch(ctx context.Context, sources []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	watched := make(map[string]string)
	dirs := make(map[string]bool)

	for _, src := range sources {
		if src == stdinSource {
			continue
		}

		abs, err := filepath.Abs(src)
		if err != nil {
			return ErrWatch.Wrap(err).With(slog.String("path", src))
		}

		watched[abs] = src

		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return ErrWatch.Wrap(err).With(slog.String("dir", dir))
			}

			dirs[dir] = true
		}
	}

	if len(watched) == 0 {
		return ErrWatch.Wrap(ErrNoSource)
	}

	log.DebugContext(ctx, "watching sources",
		slog.Int("files", len(watched)),
		slog.Int("dirs", len(dirs)))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			src, ok := watched[filepath.Clean(ev.Name)]
			if !ok || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			log.DebugContext(ctx, "source changed",
				slog.String("path", src),
				slog.String("op", ev.Op.String()))

			if _, err := c.checkAll(ctx, []string{src}); err != nil {
				if errors.Is(err, lang.ErrReadInput) {
					// The file may be mid-replace; the next event rechecks it.
					log.DebugContext(ctx, "recheck skipped", slog.Any("error", err))

					continue
				}

				return err
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			return ErrWatch.Wrap(err)
		}
	}
}
