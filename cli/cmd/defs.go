package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/stylexpr/lang"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Defs lists operator definitions.
type Defs struct {
	Format string `default:"table" enum:"table,json,yaml" help:"Output format."                          short:"f"`
	Indent int    `default:"2"                            help:"Indent width, or 0 for compact output." short:"i"`

	Pattern string `arg:"" help:"List only operators whose names fuzzy-match pattern, best match first." optional:""`
}

// Run executes the defs command.
func (d *Defs) Run(ctx context.Context) error {
	defs := definitionsFrom(ctx)
	names := d.names(defs)
	w := stdout(ctx)

	if d.Format != "table" {
		selected := make(lang.Definitions, len(names))
		for _, name := range names {
			selected[name] = defs[name]
		}

		return output{Format: d.Format, Indent: d.Indent}.write(ctx, w, selected)
	}

	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, defs[name].Signature().Name()}
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers("NAME", "SIGNATURE").
		Rows(rows...)

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// names returns the operator names to list: all of them in sorted order,
// or those matching the pattern ranked best first.
func (d *Defs) names(defs lang.Definitions) []string {
	all := defs.Names()
	if d.Pattern == "" {
		return all
	}

	matches := fuzzy.Find(d.Pattern, all)

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Str
	}

	return names
}
