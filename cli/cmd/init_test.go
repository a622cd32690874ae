package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: content\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			args := []string{"init"}
			if tt.force {
				args = append(args, "--force")
			}

			_, _, err := runCLI(t, kong.Vars{ConfigIdentifier: confPath}, args...)

			if tt.wantErr != nil {
				if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var conf map[string]any
			if err := yaml.Unmarshal(content, &conf); err != nil {
				t.Errorf("generated config is not valid YAML: %v\n%s", err, content)
			}
		})
	}
}

// TestInitBuildConfig tests that buildConfig records set flags in order and
// skips empty ones.
func TestInitBuildConfig(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose bool     `help:"Enable verbose output"      name:"verbose"`
		Output  string   `help:"Output file"                name:"output"`
		Empty   string   `help:"Unset string"               name:"empty"`
		Count   int      `help:"Number of items"            name:"count"`
		Ratio   float64  `help:"Ratio"                      name:"ratio"`
		Tags    []string `help:"Tags"                       name:"tag"`
		None    []string `help:"Unset list"                 name:"none"`
		Secret  string   `help:"Hidden flag"       hidden:"" name:"secret"`
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse([]string{
		"--verbose", "--output=test.txt", "--count=5", "--ratio=0.5",
		"--tag=a", "--tag=b", "--secret=s",
	})
	if err != nil {
		t.Fatal(err)
	}

	got := (&Init{}).buildConfig(WithContext(t.Context(), ktx))

	want := yaml.MapSlice{
		{Key: "verbose", Value: true},
		{Key: "output", Value: "test.txt"},
		{Key: "count", Value: 5},
		{Key: "ratio", Value: 0.5},
		{Key: "tag", Value: []string{"a", "b"}},
	}

	if len(got) != len(want) {
		t.Fatalf("buildConfig() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i].Key != want[i].Key {
			t.Errorf("entry %d key = %v, want %v", i, got[i].Key, want[i].Key)
		}
	}

	data, err := yaml.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}

	var back struct {
		Verbose bool     `yaml:"verbose"`
		Output  string   `yaml:"output"`
		Count   int      `yaml:"count"`
		Ratio   float64  `yaml:"ratio"`
		Tag     []string `yaml:"tag"`
	}

	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}

	if !back.Verbose || back.Output != "test.txt" || back.Count != 5 || back.Ratio != 0.5 ||
		len(back.Tag) != 2 {
		t.Errorf("round trip = %+v", back)
	}
}
