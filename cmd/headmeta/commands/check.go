package commands

import (
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/headmeta/internal/foundation/errors"
	"git.home.luguber.info/inful/headmeta/internal/inspect"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Files   []string `arg:"" help:"HTML files to inspect"`
	Require []string `short:"r" help:"Metadata keys every file must carry" default:"title,canonical,description"`
	Quiet   bool     `short:"q" help:"Only report missing keys"`
}

func (c *CheckCmd) Run(g *Global, _ *CLI) error {
	var incomplete []string
	for _, file := range c.Files {
		// #nosec G304 -- user supplied path
		f, err := os.Open(file)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to open file").
				WithContext("path", file).
				Build()
		}
		summary, err := inspect.Read(f)
		_ = f.Close()
		if err != nil {
			return err
		}

		missing := summary.Missing(c.Require)
		if !c.Quiet {
			_, _ = fmt.Fprintf(g.Stdout, "%s\n", file)
			for _, e := range summary.Entries {
				_, _ = fmt.Fprintf(g.Stdout, "  %s: %s\n", e.Key, e.Value)
			}
		}
		if len(missing) > 0 {
			_, _ = fmt.Fprintf(g.Stdout, "%s: missing %s\n", file, strings.Join(missing, ", "))
			incomplete = append(incomplete, file)
		}
	}

	if len(incomplete) > 0 {
		return errors.ValidationError(fmt.Sprintf("%d of %d files lack required metadata", len(incomplete), len(c.Files))).
			WithContext("files", incomplete).
			Build()
	}
	return nil
}
