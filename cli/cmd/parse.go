package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/sanity-io/litter"

	"github.com/ardnew/stylexpr/lang"
	"github.com/ardnew/stylexpr/log"
)

// Parse decodes expressions and prints their typed trees.
type Parse struct {
	Format   string `default:"json"        enum:"json,yaml,dump" help:"Output format."                                 short:"f"`
	Indent   int    `default:"2"                                 help:"Indent width, or 0 for compact output."       short:"i"`
	Input    string `default:"auto"        enum:"auto,json,yaml" help:"Input format (auto selects by file extension)."`
	MaxDepth int    `default:"${maxDepth}"                       help:"Maximum expression nesting depth."`

	Source []string `arg:"" default:"-" help:"Expression file(s) or '-' for stdin." name:"source"`
}

// Run executes the parse command.
//
// Each source holds one expression. Malformed expressions print their parse
// error in place of a tree; the command then fails after all sources are
// processed.
func (p *Parse) Run(ctx context.Context) error {
	srcs, err := openSources(p.Source, p.Input)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	defs := definitionsFrom(ctx)
	w := stdout(ctx)

	var result *multierror.Error

	for _, src := range srcs {
		node, err := lang.Decode(ctx, src, src.format)
		if err != nil {
			return sourceError(err, src)
		}

		var out any

		expr, err := lang.Parse(ctx, defs, node,
			lang.WithMaxDepth(p.MaxDepth),
			lang.WithLogger(log.Default()),
		)

		var perr *lang.ParseError

		switch {
		case errors.As(err, &perr):
			result = multierror.Append(result,
				ErrInvalidExpression.Wrap(perr).With(slog.String("source", src.name)))
			out = perr

		case err != nil:
			return err

		default:
			out = expr
		}

		if err := p.write(ctx, w, out); err != nil {
			return err
		}
	}

	return result.ErrorOrNil()
}

func (p *Parse) write(ctx context.Context, w io.Writer, v any) error {
	if p.Format != "dump" {
		return output{Format: p.Format, Indent: p.Indent}.write(ctx, w, v)
	}

	if e, ok := v.(*lang.Expression); ok {
		v = dumpTree(e)
	}

	if _, err := io.WriteString(w, dumper.Sdump(v)+"\n"); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

var dumper = litter.Options{
	StripPackageNames: true,
	HidePrivateFields: true,
	HideZeroValues:    true,
}

// tree is the dump form of an expression, with types given by name.
type tree struct {
	Key         string
	Name        string
	Type        string
	Value       any
	Arguments   []*tree
	MatchInputs [][]*tree
}

func dumpTree(e *lang.Expression) *tree {
	t := &tree{Key: e.Key, Type: e.Type.Name()}

	if e.Literal {
		t.Value = e.Value

		return t
	}

	t.Name = e.Name

	for _, arg := range e.Arguments {
		t.Arguments = append(t.Arguments, dumpTree(arg))
	}

	for _, group := range e.MatchInputs {
		labels := make([]*tree, len(group))
		for i, label := range group {
			labels[i] = dumpTree(label)
		}

		t.MatchInputs = append(t.MatchInputs, labels)
	}

	return t
}
