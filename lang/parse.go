package lang

import (
	"context"
	"log/slog"
	"slices"
	"strconv"

	"github.com/ardnew/stylexpr/lang/types"
	"github.com/ardnew/stylexpr/log"
)

// DefaultMaxDepth is the default maximum nesting depth of a parsed
// expression. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 256

// Option configures parsing.
type Option func(*parser)

// WithMaxDepth sets the maximum nesting depth of a parsed expression.
// A depth below 1 disables the limit.
func WithMaxDepth(depth int) Option {
	return func(p *parser) {
		p.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) {
		p.logger = logger
	}
}

type parser struct {
	defs     Definitions
	logger   log.Logger
	maxDepth int
}

// Parse converts a decoded nested-array expression into a typed tree.
//
// The node grammar is
//
//	null | boolean | number | string | [name, args...]
//
// where name is an operator of defs. The result type of each call is the
// operator's declared type; only literal arrays have inferred types.
//
// Parsing stops at the first malformed node. The returned error is then
// always a [*ParseError] naming that node's key.
func Parse(
	ctx context.Context,
	defs Definitions,
	node any,
	opts ...Option,
) (*Expression, error) {
	p := &parser{defs: defs, maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(p)
	}

	p.logger.TraceContext(ctx, "parse start",
		slog.Int("definitions", len(defs)),
		slog.Int("max_depth", p.maxDepth))

	expr, perr := p.parse(node, nil, nil)
	if perr != nil {
		p.logger.DebugContext(ctx, "parse failed", slog.Any("error", perr))

		return nil, perr
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.String("type", expr.Type.Name()))

	return expr, nil
}

func (p *parser) parse(
	node any,
	path []int,
	ancestors []string,
) (*Expression, *ParseError) {
	key := joinKey(path)

	if p.maxDepth > 0 && len(path) > p.maxDepth {
		return nil, &ParseError{
			Key: key,
			Message: "Maximum expression depth of " +
				strconv.Itoa(p.maxDepth) + " exceeded.",
		}
	}

	if node == nil {
		return &Expression{Literal: true, Type: types.Null, Key: key}, nil
	}

	if t, ok := primitiveType(node); ok {
		return &Expression{Literal: true, Value: node, Type: t, Key: key}, nil
	}

	list, ok := asArray(node)
	if !ok {
		return nil, &ParseError{
			Key:     key,
			Message: "Expected an array, but found " + kindOf(node) + " instead.",
		}
	}

	if len(list) > 0 && list[0] == "literal" {
		return parseLiteral(list, key)
	}

	if len(list) == 0 {
		return nil, &ParseError{
			Key:     childKey(key, 0),
			Message: "Expression name must be a string, but found undefined instead.",
		}
	}

	op, ok := list[0].(string)
	if !ok {
		return nil, &ParseError{
			Key: childKey(key, 0),
			Message: "Expression name must be a string, but found " +
				kindOf(list[0]) + " instead.",
		}
	}

	def, ok := p.defs[op]
	if !ok {
		return nil, &ParseError{Key: key, Message: "Unknown function " + op}
	}

	switch op {
	case "zoom":
		if !isCurveInput(path, ancestors) {
			return nil, &ParseError{
				Key: key,
				Message: `The "zoom" expression may only be used as the ` +
					`input to a top-level "curve" expression.`,
			}
		}

	case "match":
		return p.parseMatch(def, list, path, ancestors)
	}

	inner := append(slices.Clip(ancestors), op)
	args := make([]*Expression, 0, len(list)-1)

	for i, raw := range list[1:] {
		arg, err := p.parse(raw, append(slices.Clip(path), i+1), inner)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return &Expression{Name: op, Type: def.Type, Arguments: args, Key: key}, nil
}

// parseLiteral parses ["literal", payload]. An array payload has type
// Array<T,n> where T is the common primitive type of its items, or Value if
// the items are not all of one primitive type. Any other payload is an
// opaque Object.
func parseLiteral(list []any, key string) (*Expression, *ParseError) {
	if len(list) != 2 {
		return nil, &ParseError{
			Key: key,
			Message: "'literal' expression requires exactly one argument, " +
				"but found " + strconv.Itoa(len(list)-1) + " instead.",
		}
	}

	items, ok := asArray(list[1])
	if !ok {
		return &Expression{
			Literal: true, Value: list[1], Type: types.Object, Key: key,
		}, nil
	}

	var item types.Type

	for _, v := range items {
		t, ok := primitiveType(v)
		if !ok || (item != nil && !types.Equal(item, t)) {
			item = types.Value

			break
		}

		item = t
	}

	if item == nil {
		item = types.Value
	}

	return &Expression{
		Literal: true,
		Value:   list[1],
		Type:    types.ArrayN(item, len(items)),
		Key:     key,
	}, nil
}

// parseMatch parses
//
//	["match", input, labels_1, output_1, ..., labels_n, output_n, fallback]
//
// where each labels_i is a literal or an array of literals. An unpaired
// labels group before the fallback is ignored.
func (p *parser) parseMatch(
	def Definition,
	list []any,
	path []int,
	ancestors []string,
) (*Expression, *ParseError) {
	key := joinKey(path)

	if len(list) < 3 {
		return nil, &ParseError{
			Key: key,
			Message: "Expected at least 2 arguments, but found only " +
				strconv.Itoa(max(len(list)-2, 0)) + ".",
		}
	}

	inner := append(slices.Clip(ancestors), "match")
	at := func(i ...int) []int { return append(slices.Clip(path), i...) }

	input, err := p.parse(list[1], at(1), inner)
	if err != nil {
		return nil, err
	}

	var (
		groups  [][]*Expression
		outputs []*Expression
	)

	for i := 2; i < len(list)-2; i += 2 {
		labels, ok := asArray(list[i])
		if !ok {
			labels = []any{list[i]}
		}

		if len(labels) == 0 {
			return nil, &ParseError{
				Key:     joinKey(at(i)),
				Message: "Expected at least one input value.",
			}
		}

		group := make([]*Expression, 0, len(labels))

		for j, raw := range labels {
			label, err := p.parse(raw, at(i, j), inner)
			if err != nil {
				return nil, err
			}

			if !label.Literal {
				return nil, &ParseError{
					Key: joinKey(at(i, j)),
					Message: "Match inputs must be literal primitive values " +
						"or arrays of literal primitive values.",
				}
			}

			group = append(group, label)
		}

		output, err := p.parse(list[i+1], at(i+1), inner)
		if err != nil {
			return nil, err
		}

		groups = append(groups, group)
		outputs = append(outputs, output)
	}

	fallback, err := p.parse(list[len(list)-1], at(len(list)-1), inner)
	if err != nil {
		return nil, err
	}

	args := make([]*Expression, 0, len(outputs)+2)
	args = append(args, input)
	args = append(args, outputs...)
	args = append(args, fallback)

	if groups == nil {
		groups = [][]*Expression{}
	}

	return &Expression{
		Name:        "match",
		Type:        def.Type,
		Arguments:   args,
		MatchInputs: groups,
		Key:         key,
	}, nil
}

// isCurveInput reports whether a node at path, nested in the given chain of
// operators, is the input argument of a top-level curve, either
//
//	["curve", interpolation, <node>, ...]
//
// or that curve as the first argument of a top-level coalesce.
func isCurveInput(path []int, ancestors []string) bool {
	switch len(path) {
	case 1:
		return path[0] == 2 && slices.Equal(ancestors, []string{"curve"})
	case 2:
		return path[0] == 1 && path[1] == 2 &&
			slices.Equal(ancestors, []string{"coalesce", "curve"})
	default:
		return false
	}
}

func childKey(key string, i int) string {
	if key == "" {
		return strconv.Itoa(i)
	}

	return key + "." + strconv.Itoa(i)
}
