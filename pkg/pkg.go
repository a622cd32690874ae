//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// Version is the semantic version of the tlc module embedded at build time.
// It is printed by the CLI when users invoke the version subcommand.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "tlc"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Tinylang compiler front end"
)

// SemVer returns the parsed form of [Version].
// A malformed VERSION file yields version 0.0.0 rather than an error so that
// the CLI can always report something.
var SemVer = sync.OnceValue(
	func() *semver.Version {
		v, err := semver.NewVersion(strings.TrimSpace(Version))
		if err != nil {
			return semver.New(0, 0, 0, "", "")
		}

		return v
	},
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
