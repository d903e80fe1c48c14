package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/stylexpr/log"
	"github.com/ardnew/stylexpr/style"
)

// Convert converts legacy style functions to expression programs.
type Convert struct {
	output `embed:""`

	Input  string `default:"auto" enum:"auto,json,yaml" help:"Input format (auto selects by file extension)."`
	Single bool   `help:"Each source is a single property {spec, function|value} instead of a document." short:"1"`
	Where  string `help:"Convert only properties matching an expr-lang predicate over name, type, function, kind, property and zoom." short:"w"`

	Source []string `arg:"" default:"-" help:"Style document file(s) or '-' for stdin." name:"source"`
}

// Run executes the convert command.
//
// Documents from all sources are merged, later sources overriding earlier
// ones, and printed as a single object of programs keyed by property name.
// Properties that fail to convert are omitted from the output and reported
// together in the returned error.
func (c *Convert) Run(ctx context.Context) error {
	srcs, err := openSources(c.Source, c.Input)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	if c.Single {
		return c.runSingle(ctx, srcs)
	}

	doc, err := loadDocuments(ctx, srcs)
	if err != nil {
		return err
	}

	doc, err = style.Select(doc, c.Where)
	if err != nil {
		return err
	}

	programs, convErr := style.Convert(ctx, doc,
		style.WithLogger(log.Default()))

	if err := c.write(ctx, stdout(ctx), style.Map(programs)); err != nil {
		return err
	}

	if convErr != nil {
		return ErrConvert.Wrap(convErr)
	}

	return nil
}

func (c *Convert) runSingle(ctx context.Context, srcs []source) error {
	for _, src := range srcs {
		p, err := style.LoadProperty(ctx, src, src.format)
		if err != nil {
			return sourceError(err, src)
		}

		prog, err := style.ConvertProperty(p)
		if err != nil {
			return ErrConvert.Wrap(err).With(slog.String("source", src.name))
		}

		if err := c.write(ctx, stdout(ctx), prog); err != nil {
			return err
		}
	}

	return nil
}

// loadDocuments loads and merges the documents of srcs.
func loadDocuments(ctx context.Context, srcs []source) (*style.Document, error) {
	docs := make([]*style.Document, 0, len(srcs))

	for _, src := range srcs {
		doc, err := style.Load(ctx, src, src.format)
		if err != nil {
			return nil, sourceError(err, src)
		}

		log.TraceContext(ctx, "document loaded",
			slog.String("source", src.name),
			slog.Int("properties", len(doc.Properties)))

		docs = append(docs, doc)
	}

	return style.Merge(docs...), nil
}
