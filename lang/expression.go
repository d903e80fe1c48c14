package lang

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ardnew/stylexpr/lang/types"
)

// Expression is a node of a typed expression tree.
//
// A literal node carries Value; a call node carries Name and Arguments.
// Type is the literal's type or the operator's declared result type.
type Expression struct {
	Literal bool
	Value   any
	Name    string
	Type    types.Type

	Arguments []*Expression

	// MatchInputs holds, for a "match" call, one group of literal labels
	// per non-fallback output. Arguments[i+1] is the output of group i.
	MatchInputs [][]*Expression

	// Key is the dot-joined path of argument indices from the root.
	Key string
}

// literalNode and callNode fix the encoded field order.
type literalNode struct {
	Literal bool       `json:"literal" yaml:"literal"`
	Value   any        `json:"value"   yaml:"value"`
	Type    types.Type `json:"type"    yaml:"type"`
	Key     string     `json:"key"     yaml:"key"`
}

type callNode struct {
	Literal     bool            `json:"literal"               yaml:"literal"`
	Name        string          `json:"name"                  yaml:"name"`
	Type        types.Type      `json:"type"                  yaml:"type"`
	Arguments   []*Expression   `json:"arguments"             yaml:"arguments"`
	MatchInputs [][]*Expression `json:"matchInputs,omitempty" yaml:"matchInputs,omitempty"`
	Key         string          `json:"key"                   yaml:"key"`
}

// Node returns the plain structure e encodes to.
func (e *Expression) Node() any {
	if e.Literal {
		return literalNode{Literal: true, Value: e.Value, Type: e.Type, Key: e.Key}
	}

	args := e.Arguments
	if args == nil {
		args = []*Expression{}
	}

	return callNode{
		Name:        e.Name,
		Type:        e.Type,
		Arguments:   args,
		MatchInputs: e.MatchInputs,
		Key:         e.Key,
	}
}

// MarshalJSON implements json.Marshaler.
func (e *Expression) MarshalJSON() ([]byte, error) {
	return json.MarshalNoEscape(e.Node())
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (e *Expression) MarshalYAML() (any, error) {
	return e.Node(), nil
}

// Raw returns the expression in its nested-array input form.
// Parsing the result with the same definitions yields an equivalent tree.
func (e *Expression) Raw() any {
	if e.Literal {
		if e.Type.Kind() == types.KindArray || types.Equal(e.Type, types.Object) {
			return []any{"literal", e.Value}
		}

		return e.Value
	}

	raw := []any{e.Name}

	if e.MatchInputs != nil {
		raw = append(raw, e.Arguments[0].Raw())

		for i, group := range e.MatchInputs {
			labels := make([]any, len(group))
			for j, label := range group {
				labels[j] = label.Raw()
			}

			raw = append(raw, labels, e.Arguments[i+1].Raw())
		}

		return append(raw, e.Arguments[len(e.Arguments)-1].Raw())
	}

	for _, arg := range e.Arguments {
		raw = append(raw, arg.Raw())
	}

	return raw
}

// Walk calls fn for e and each of its descendants in depth-first order,
// visiting match labels before the outputs they select. Walk stops early if
// fn returns false.
func (e *Expression) Walk(fn func(*Expression) bool) bool {
	if !fn(e) {
		return false
	}

	if e.MatchInputs != nil && len(e.Arguments) > 0 {
		if !e.Arguments[0].Walk(fn) {
			return false
		}

		for i, group := range e.MatchInputs {
			for _, label := range group {
				if !label.Walk(fn) {
					return false
				}
			}

			if !e.Arguments[i+1].Walk(fn) {
				return false
			}
		}

		return e.Arguments[len(e.Arguments)-1].Walk(fn)
	}

	for _, arg := range e.Arguments {
		if !arg.Walk(fn) {
			return false
		}
	}

	return true
}

// String returns a compact, single-line rendering of the typed tree.
func (e *Expression) String() string {
	var sb strings.Builder

	e.format(&sb)

	return sb.String()
}

func (e *Expression) format(sb *strings.Builder) {
	if e.Literal {
		b, err := json.MarshalNoEscape(e.Value)
		if err != nil {
			b = []byte("?")
		}

		sb.Write(b)
		sb.WriteString(" :: ")
		sb.WriteString(e.Type.Name())

		return
	}

	sb.WriteString("(")
	sb.WriteString(e.Name)

	for _, arg := range e.Arguments {
		sb.WriteString(" ")
		arg.format(sb)
	}

	sb.WriteString(") :: ")
	sb.WriteString(e.Type.Name())
}

// kindOf names the runtime kind of a decoded value, as reported in parse
// errors.
func kindOf(v any) string {
	if v == nil {
		return "object"
	}

	if _, ok := v.(json.Number); ok {
		return "number"
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr, reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Func:
		return "function"
	default:
		return "object"
	}
}

// primitiveType returns the type of a string, number, or boolean value.
func primitiveType(v any) (types.Type, bool) {
	if v == nil {
		return nil, false
	}

	switch kindOf(v) {
	case "string":
		return types.String, true
	case "number":
		return types.Number, true
	case "boolean":
		return types.Boolean, true
	default:
		return nil, false
	}
}

// asArray returns the elements of an array-like value.
func asArray(v any) ([]any, bool) {
	if a, ok := v.([]any); ok {
		return a, true
	}

	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	a := make([]any, rv.Len())
	for i := range a {
		a[i] = rv.Index(i).Interface()
	}

	return a, true
}

func joinKey(path []int) string {
	var sb strings.Builder

	for i, p := range path {
		if i > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(strconv.Itoa(p))
	}

	return sb.String()
}
