package style

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"

	"github.com/ardnew/stylexpr/convert"
	"github.com/ardnew/stylexpr/lang"
	"github.com/ardnew/stylexpr/log"
)

// Predefined errors (sentinel values).
var (
	ErrLoad     = lang.NewError("failed to load style document")
	ErrSelect   = lang.NewError("invalid property selection")
	ErrProperty = lang.NewError("invalid property")
	ErrEmpty    = lang.NewError("property has neither function nor value")
)

// Document is a set of style properties keyed by name.
type Document struct {
	Properties map[string]Property `json:"properties" yaml:"properties"`
}

// Property pairs a property spec with either a legacy function or a
// constant value.
type Property struct {
	Spec     convert.PropertySpec `json:"spec"               yaml:"spec"`
	Function *convert.Params      `json:"function,omitempty" yaml:"function,omitempty"`
	Value    any                  `json:"value,omitempty"    yaml:"value,omitempty"`
}

// Names returns the property names in sorted order.
func (d *Document) Names() []string {
	return slices.Sorted(maps.Keys(d.Properties))
}

// Load reads a document from r.
//
// YAML is converted to JSON before decoding, so both formats accept the
// same structure and decode numbers the same way.
func Load(ctx context.Context, r io.Reader, format lang.Format) (*Document, error) {
	var doc Document

	if err := decode(r, format, &doc); err != nil {
		return nil, err
	}

	if doc.Properties == nil {
		doc.Properties = map[string]Property{}
	}

	return &doc, nil
}

// LoadProperty reads a single property from r.
func LoadProperty(
	ctx context.Context,
	r io.Reader,
	format lang.Format,
) (Property, error) {
	var p Property

	err := decode(r, format, &p)

	return p, err
}

// decode converts YAML to JSON and unmarshals it. The convert types
// implement only the context-free json.Unmarshaler.
func decode(r io.Reader, format lang.Format, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return lang.ErrReadInput.Wrap(err)
	}

	if format == lang.FormatYAML {
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return ErrLoad.Wrap(err)
		}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return ErrLoad.Wrap(err)
	}

	return nil
}

// Merge returns a document holding the properties of every document, later
// documents overriding earlier ones.
func Merge(docs ...*Document) *Document {
	out := &Document{Properties: map[string]Property{}}

	for _, d := range docs {
		if d != nil {
			maps.Copy(out.Properties, d.Properties)
		}
	}

	return out
}

// selectEnv returns the variables visible to a selection predicate.
func selectEnv(name string, p Property) map[string]any {
	env := map[string]any{
		"name":     name,
		"type":     p.Spec.Type,
		"function": "",
		"kind":     "constant",
		"property": "",
		"zoom":     false,
	}

	if p.Function != nil {
		dep := convert.Classify(*p.Function)

		env["function"] = p.Function.Type
		env["kind"] = dep.String()
		env["property"] = p.Function.Property
		env["zoom"] = dep == convert.DependsOnZoom ||
			dep == convert.DependsOnZoomAndProperty
	}

	return env
}

// Select returns the properties of d for which the boolean expr-lang
// predicate where holds. The predicate sees the variables
//
//	name      property name
//	type      spec type ("color", "number", ...)
//	function  legacy function kind, or "" if unset
//	kind      "constant" or the function dependency ("identity", "zoom",
//	          "property", "zoom-and-property")
//	property  feature property read by the function
//	zoom      whether the function depends on zoom
//
// An empty predicate selects every property.
func Select(d *Document, where string) (*Document, error) {
	out := &Document{Properties: map[string]Property{}}

	if where == "" {
		maps.Copy(out.Properties, d.Properties)

		return out, nil
	}

	program, err := expr.Compile(where,
		expr.Env(selectEnv("", Property{})), expr.AsBool())
	if err != nil {
		return nil, ErrSelect.Wrap(err).With(slog.String("where", where))
	}

	for name, p := range d.Properties {
		ok, err := vm.Run(program, selectEnv(name, p))
		if err != nil {
			return nil, ErrSelect.Wrap(err).With(
				slog.String("where", where),
				slog.String("name", name),
			)
		}

		if ok.(bool) {
			out.Properties[name] = p
		}
	}

	return out, nil
}

// Option configures [Convert].
type Option func(*converter)

// WithLogger sets the logger receiving per-property progress.
func WithLogger(logger log.Logger) Option {
	return func(c *converter) { c.logger = logger }
}

type converter struct {
	logger log.Logger
}

// Program is a converted property.
type Program struct {
	Name       string `json:"name"       yaml:"name"`
	Expression any    `json:"expression" yaml:"expression"`
}

// Convert converts every property of d, in name order. Functions are
// converted with [convert.Function] and constant values with
// [convert.Value].
//
// Properties that fail to convert are skipped; their errors, each tagged
// with the property name, are returned together as a *multierror.Error
// alongside the programs that did convert.
func Convert(ctx context.Context, d *Document, opts ...Option) ([]Program, error) {
	var c converter

	for _, opt := range opts {
		opt(&c)
	}

	var (
		programs []Program
		result   *multierror.Error
	)

	for _, name := range d.Names() {
		p := d.Properties[name]

		prog, err := ConvertProperty(p)
		if err != nil {
			c.logger.DebugContext(ctx, "property not converted",
				slog.String("name", name), slog.Any("error", err))

			result = multierror.Append(result,
				ErrProperty.Wrap(fmt.Errorf("%q: %w", name, err)).
					With(slog.String("name", name)))

			continue
		}

		c.logger.TraceContext(ctx, "property converted",
			slog.String("name", name))

		programs = append(programs, Program{Name: name, Expression: prog})
	}

	return programs, result.ErrorOrNil()
}

// ConvertProperty converts a single property: its function if set,
// otherwise its constant value.
func ConvertProperty(p Property) (any, error) {
	switch {
	case p.Function != nil:
		return convert.Function(*p.Function, p.Spec)
	case p.Value != nil:
		return convert.Value(p.Value, p.Spec), nil
	default:
		return nil, ErrEmpty
	}
}

// Map returns programs keyed by property name.
func Map(programs []Program) map[string]any {
	m := make(map[string]any, len(programs))
	for _, p := range programs {
		m[p.Name] = p.Expression
	}

	return m
}
