package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tlc/lang"
	"github.com/ardnew/tlc/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// writers returns the output streams configured on the kong application, or
// the process streams when ctx carries none.
func writers(ctx context.Context) (stdout, stderr io.Writer) {
	stdout, stderr = os.Stdout, os.Stderr

	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Kong != nil {
		if ktx.Stdout != nil {
			stdout = ktx.Stdout
		}

		if ktx.Stderr != nil {
			stderr = ktx.Stderr
		}
	}

	return stdout, stderr
}

// variable returns the kong variable named key, or "" when ctx carries no
// kong context or the variable is undefined.
func variable(ctx context.Context, key string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[key]
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// stdinName is the buffer name reported for diagnostics read from stdin.
const stdinName = "<stdin>"

// uniqueSources returns sources with duplicates removed, keeping the first
// spelling of each file. Paths are compared by device/inode after resolving
// symlinks, so relative, absolute and linked spellings collapse. All
// occurrences of "-" collapse into a single stdin entry placed last.
// Unreadable paths are kept so that reading them reports the error.
func uniqueSources(sources []string) []string {
	var (
		out      = make([]string, 0, len(sources))
		seen     = make(map[fileKey]struct{})
		hasStdin bool
	)

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		key, ok := sourceKey(src)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		} else if slices.Contains(out, src) {
			continue
		}

		out = append(out, src)
	}

	if hasStdin {
		out = append(out, stdinSource)
	}

	return out
}

// sourceKey resolves path to its device/inode key.
func sourceKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// parseSource analyzes the file at path, or standard input for "-".
func parseSource(
	ctx context.Context,
	path string,
	opts ...lang.Option,
) (*lang.Unit, error) {
	opts = append([]lang.Option{lang.WithLogger(log.Default())}, opts...)

	if path == stdinSource {
		return lang.ParseReader(ctx, stdinName, os.Stdin, opts...)
	}

	log.TraceContext(ctx, "parse source", slog.String("path", path))

	return lang.ParseFile(ctx, path, opts...)
}
