package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tlc/diag"
	"github.com/ardnew/tlc/lang"
)

const (
	validSource = `MODULE Ok;
CONST Limit = 10;
VAR x : INTEGER;
BEGIN
  x := Limit
END Ok.
`
	invalidSource = `MODULE Bad;
VAR x : INTEGER;
BEGIN
  x := y
END Bad.
`
)

func TestCheck_Text(t *testing.T) {
	ok := writeSource(t, "ok.mod", validSource)
	bad := writeSource(t, "bad.mod", invalidSource)

	stdout, stderr, err := runCLI(t, nil, "check", "--no-color", ok)
	if err != nil || stdout != "" || stderr != "" {
		t.Fatalf("valid source: err %v stdout %q stderr %q", err, stdout, stderr)
	}

	_, stderr, err = runCLI(t, nil, "check", "--no-color", ok, bad)
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("invalid source error = %v, want ErrCompile", err)
	}

	for _, want := range []string{
		bad + ":4:8: error: undeclared name y",
		"  x := y\n",
		"1 error generated.",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr lacks %q:\n%s", want, stderr)
		}
	}

	_, stderr, _ = runCLI(t, nil, "check", "--no-color", "--no-snippet", bad)
	if strings.Contains(stderr, "^") {
		t.Errorf("--no-snippet still printed a caret:\n%s", stderr)
	}
}

func TestCheck_Formats(t *testing.T) {
	ok := writeSource(t, "ok.mod", validSource)
	bad := writeSource(t, "bad.mod", invalidSource)

	tests := []struct {
		format    string
		unmarshal func([]byte, any) error
	}{
		{"json", json.Unmarshal},
		{"yaml", yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			stdout, _, err := runCLI(t, nil, "check", "--format", tt.format, ok, bad, ok)
			if !errors.Is(err, ErrCompile) {
				t.Fatalf("error = %v, want ErrCompile", err)
			}

			var reports []diag.Report
			if err := tt.unmarshal([]byte(stdout), &reports); err != nil {
				t.Fatalf("decode %s: %v\n%s", tt.format, err, stdout)
			}

			if len(reports) != 2 {
				t.Fatalf("got %d reports, want 2 (duplicate removed)", len(reports))
			}

			if reports[0].File != ok || reports[0].Errors != 0 {
				t.Errorf("report 0 = %+v", reports[0])
			}

			r := reports[1]
			if r.File != bad || r.Errors != 1 || len(r.Diagnostics) != 1 {
				t.Fatalf("report 1 = %+v", r)
			}

			if d := r.Diagnostics[0]; d.Line != 4 || d.Column != 8 || d.Severity != "error" {
				t.Errorf("diagnostic = %+v", d)
			}
		})
	}
}

func TestCheck_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.mod")

	_, _, err := runCLI(t, nil, "check", missing)
	if !errors.Is(err, lang.ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", err)
	}
}

// syncBuffer is a bytes.Buffer safe for the watch goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestCheck_Watch(t *testing.T) {
	path := writeSource(t, "watched.mod", validSource)

	var (
		cli       testCLI
		out, eout syncBuffer
	)

	parser, err := kong.New(&cli, kong.Writers(&out, &eout))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse([]string{"check", "--watch", "--no-color", path})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(WithContext(context.Background(), ktx))
	done := make(chan error, 1)

	go func() { done <- cli.Check.Run(ctx) }()

	// Rewrite until the watcher is in place and reports the new error.
	deadline := time.Now().Add(10 * time.Second)
	for !strings.Contains(eout.String(), "undeclared name y") {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("watch never reported the change; stderr:\n%s", eout.String())
		}

		if err := os.WriteFile(path, []byte(invalidSource), 0o600); err != nil {
			t.Fatal(err)
		}

		time.Sleep(100 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
