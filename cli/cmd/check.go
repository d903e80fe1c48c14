package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-multierror"

	"github.com/ardnew/stylexpr/lang"
	"github.com/ardnew/stylexpr/log"
	"github.com/ardnew/stylexpr/style"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Check converts style documents and parses every resulting program.
type Check struct {
	Input    string `default:"auto"        enum:"auto,json,yaml" help:"Input format (auto selects by file extension)."`
	Where    string `help:"Check only properties matching an expr-lang predicate."                 short:"w"`
	MaxDepth int    `default:"${maxDepth}" help:"Maximum expression nesting depth."`
	Quiet    bool   `help:"Report failures only."                                                   short:"q"`

	Source []string `arg:"" default:"-" help:"Style document file(s) or '-' for stdin." name:"source"`
}

// Run executes the check command.
//
// A line is printed for each property; the command fails if any property
// fails to convert or produces a program that does not parse.
func (c *Check) Run(ctx context.Context) error {
	srcs, err := openSources(c.Source, c.Input)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	doc, err := loadDocuments(ctx, srcs)
	if err != nil {
		return err
	}

	doc, err = style.Select(doc, c.Where)
	if err != nil {
		return err
	}

	programs, convErr := style.Convert(ctx, doc, style.WithLogger(log.Default()))

	// Conversion errors already name their property.
	result := multierror.Append(nil, convErr)
	converted := style.Map(programs)
	defs := definitionsFrom(ctx)
	w := stdout(ctx)

	failed := 0

	for _, name := range doc.Names() {
		prog, ok := converted[name]
		if !ok {
			failed++

			fmt.Fprintf(w, "%s %s: not converted\n", failStyle.Render("FAIL"), name)

			continue
		}

		_, err := lang.Parse(ctx, defs, prog, lang.WithMaxDepth(c.MaxDepth))
		if err != nil {
			failed++

			result = multierror.Append(result,
				ErrInvalidExpression.Wrap(fmt.Errorf("%q: %w", name, err)).
					With(slog.String("name", name)))

			fmt.Fprintf(w, "%s %s: %v\n", failStyle.Render("FAIL"), name, err)

			continue
		}

		if !c.Quiet {
			fmt.Fprintf(w, "%s   %s\n", passStyle.Render("ok"), name)
		}
	}

	fmt.Fprintf(w, "%d properties, %d failed\n", len(doc.Properties), failed)

	if err := result.ErrorOrNil(); err != nil {
		return ErrCheck.Wrap(err)
	}

	return nil
}
