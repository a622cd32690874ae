package profile

import (
	"context"
	"slices"
	"testing"
)

func TestConfig_Start_NoModeIsNoop(t *testing.T) {
	var c Config = func() (string, string, bool) { return "", "", false }

	ctrl := WithPath(t.TempDir())(c).Start()
	if _, ok := ctrl.(ignore); !ok {
		t.Fatalf("expected no-op controller, got %T", ctrl)
	}

	ctrl.Stop()
}

func TestConfig_Options_Compose(t *testing.T) {
	var c Config = func() (string, string, bool) { return "", "", false }

	c = WithQuiet(true)(WithPath("/tmp/x")(WithMode("cpu")(c)))

	mode, path, quiet := c()
	if mode != "cpu" || path != "/tmp/x" || !quiet {
		t.Errorf("got (%q, %q, %v)", mode, path, quiet)
	}
}

func TestConfig_With(t *testing.T) {
	var c Config

	mode, dir, quiet := c.With()()
	if mode != "" || dir != "" || quiet {
		t.Errorf("zero config = (%q, %q, %v)", mode, dir, quiet)
	}

	c = c.With(WithMode("heap"), WithPath("/tmp/a"), WithMode("cpu"))

	mode, dir, quiet = c.With(WithQuiet(true))()
	if mode != "cpu" || dir != "/tmp/a" || !quiet {
		t.Errorf("got (%q, %q, %v)", mode, dir, quiet)
	}

	if _, ok := c.With(WithMode("")).Start().(ignore); !ok {
		t.Error("empty mode should not start a profiler")
	}
}

func TestPhases_PipelineOrder(t *testing.T) {
	want := []string{PhaseLex, PhaseParse, PhaseRender}
	if got := Phases(); !slices.Equal(got, want) {
		t.Errorf("Phases() = %v, want %v", got, want)
	}
}

func TestDo_LabelsPhase(t *testing.T) {
	var got string

	Do(context.Background(), PhaseLex, func(ctx context.Context) {
		got, _ = Phase(ctx)
	})

	if got != PhaseLex {
		t.Errorf("phase = %q, want %q", got, PhaseLex)
	}

	if _, ok := Phase(context.Background()); ok {
		t.Error("expected no phase label outside Do")
	}
}
