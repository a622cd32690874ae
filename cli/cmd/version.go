package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	"github.com/ardnew/tlc/pkg"
)

// Version prints the program version.
type Version struct {
	Short   bool   `help:"Print only the version number." short:"s"`
	Require string `help:"Fail unless the version satisfies this constraint (e.g. '>= 0.3, < 1')." placeholder:"CONSTRAINT"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	stdout, _ := writers(ctx)
	ver := pkg.SemVer()

	if v.Require != "" {
		c, err := semver.NewConstraint(v.Require)
		if err != nil {
			return ErrConstraint.Wrap(err).With(slog.String("constraint", v.Require))
		}

		if ok, errs := c.Validate(ver); !ok {
			attrs := []slog.Attr{
				slog.String("version", ver.String()),
				slog.String("constraint", v.Require),
			}

			if len(errs) > 0 {
				return ErrVersionRange.Wrap(errs[0]).With(attrs...)
			}

			return ErrVersionRange.With(attrs...)
		}
	}

	if v.Short {
		_, err := fmt.Fprintln(stdout, ver.String())

		return err
	}

	_, err := fmt.Fprintf(stdout, "%s %s (%s)\n", pkg.Name, ver.String(), pkg.Description)

	return err
}
