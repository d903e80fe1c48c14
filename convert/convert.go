package convert

import (
	"log/slog"
	"reflect"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Function kinds.
const (
	Categorical = "categorical"
	Interval    = "interval"
	Exponential = "exponential"
)

// Dependency is the input a legacy function reads.
type Dependency int

const (
	DependsOnNothing Dependency = iota // identity function, no stops
	DependsOnZoom
	DependsOnProperty
	DependsOnZoomAndProperty
)

func (d Dependency) String() string {
	switch d {
	case DependsOnNothing:
		return "identity"
	case DependsOnZoom:
		return "zoom"
	case DependsOnProperty:
		return "property"
	case DependsOnZoomAndProperty:
		return "zoom-and-property"
	default:
		return "unknown"
	}
}

// Classify returns the input p depends on. Functions without stops are
// identity functions of their property. A function whose first stop is
// keyed by a [ZoomKey] depends on both zoom and its property; otherwise it
// depends on its property if one is named, and on zoom if not.
func Classify(p Params) Dependency {
	if len(p.Stops) == 0 {
		return DependsOnNothing
	}

	zoomAndProperty := isZoomKey(p.Stops[0].Key)
	property := zoomAndProperty || p.Property != ""
	zoom := zoomAndProperty || !property

	switch {
	case zoomAndProperty:
		return DependsOnZoomAndProperty
	case zoom:
		return DependsOnZoom
	default:
		return DependsOnProperty
	}
}

// Function converts a legacy function into an equivalent expression program
// of the form
//
//	["coalesce", <primary>, <default>]
//
// The default is p.Default if set, otherwise spec.Default, coerced with
// [Value]. The primary expression depends on [Classify]: a type-guarded
// property read for identity functions, or a "curve" or "match" over the
// stops.
//
// Function fails if the stops use a color space other than "rgb", or if
// the function kind is not supported for its dependency.
func Function(p Params, spec PropertySpec) ([]any, error) {
	def := coerce(spec.Default, spec.HasDefault || spec.Default != nil, spec)
	if p.HasDefault {
		def = coerce(p.Default, true, spec)
	}

	var (
		primary any
		err     error
	)

	switch dep := Classify(p); dep {
	case DependsOnNothing:
		primary, err = annotate([]any{"get", p.Property}, spec)

	default:
		stops := make([]Stop, len(p.Stops))
		for i, s := range p.Stops {
			stops[i] = Stop{Key: s.Key, Value: Value(s.Value, spec)}
		}

		if p.ColorSpace != "" && p.ColorSpace != "rgb" {
			return nil, ErrUnimplemented.With(
				slog.String("colorSpace", p.ColorSpace),
			)
		}

		switch dep {
		case DependsOnZoomAndProperty:
			primary, err = zoomAndPropertyFunction(p, spec, stops, def)
		case DependsOnZoom:
			primary, err = zoomFunction(p, spec, stops)
		default:
			primary, err = propertyFunction(p, spec, stops, def)
		}
	}

	if err != nil {
		return nil, err
	}

	return []any{"coalesce", primary, def}, nil
}

// Value coerces a constant style value into an expression of spec's type:
// colors become ["color", v] and arrays ["array", v...]. Other values are
// returned unchanged.
func Value(v any, spec PropertySpec) any {
	return coerce(v, true, spec)
}

func coerce(v any, defined bool, spec PropertySpec) any {
	if !defined {
		return nil
	}

	switch spec.Type {
	case "color":
		return []any{"color", v}

	case "array":
		if items, ok := asArray(v); ok {
			return append([]any{"array"}, items...)
		}

		return []any{"array", v}

	default:
		return v
	}
}

// annotate wraps the getter expression value in a runtime type check for
// spec's type, yielding null on mismatch.
func annotate(value any, spec PropertySpec) (any, error) {
	switch {
	case spec.Type == "color":
		return []any{"color", []any{"string", value}}, nil

	case spec.Type == "array" && spec.Length != nil:
		if spec.Value == nil {
			return nil, ErrInvalidPropertySpec.Detail("(array without element spec)")
		}

		out := []any{"array"}

		for i := range *spec.Length {
			elem, err := annotate(
				[]any{"at", i, []any{"json_array", value}}, *spec.Value,
			)
			if err != nil {
				return nil, err
			}

			out = append(out, elem)
		}

		return out, nil

	case spec.Type == "array":
		// Item types other than Value will not match at runtime.
		return []any{"json_array", value}, nil

	case spec.Type == "":
		return nil, ErrInvalidPropertySpec.Detail("(missing type)")

	default:
		return guard(spec.Type, value), nil
	}
}

// guard returns ["case", ["==", T, ["typeof", v]], [t, v], null].
func guard(typ string, value any) []any {
	return []any{
		"case",
		[]any{"==", title(typ), []any{"typeof", value}},
		[]any{typ, value},
		nil,
	}
}

// title returns s with its first letter in upper case.
func title(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[n:]
}

// functionType returns the function kind, defaulting to exponential for
// interpolated properties and interval otherwise.
func functionType(p Params, spec PropertySpec) string {
	if p.Type != "" {
		return p.Type
	}

	if spec.Function == "interpolated" {
		return Exponential
	}

	return Interval
}

func exponential(base *float64) []any {
	b := 1.0
	if base != nil {
		b = *base
	}

	return []any{Exponential, b}
}

func zoomFunction(p Params, spec PropertySpec, stops []Stop) (any, error) {
	var expr []any

	switch kind := functionType(p, spec); kind {
	case Interval:
		expr = []any{"curve", []any{"step"}, []any{"zoom"}}
	case Exponential:
		expr = []any{"curve", exponential(p.Base), []any{"zoom"}}
	default:
		return nil, ErrUnknownZoomFunction.Detail(strconv.Quote(kind))
	}

	for _, s := range stops {
		expr = append(expr, s.Key, s.Value)
	}

	return expr, nil
}

func propertyFunction(
	p Params,
	spec PropertySpec,
	stops []Stop,
	def any,
) (any, error) {
	var expr []any

	switch kind := functionType(p, spec); kind {
	case Categorical:
		expr = []any{"match"}
	case Interval:
		expr = []any{"curve", []any{"step"}}
	case Exponential:
		expr = []any{"curve", exponential(p.Base)}
	default:
		return nil, ErrUnknownPropertyFunction.Detail(kind)
	}

	typ := runtimeType(stops[0].Key)
	if typ == "" {
		return nil, ErrInvalidStopKey.With(slog.Any("key", stops[0].Key))
	}

	expr = append(expr, guard(typ, []any{"get", p.Property}))

	for _, s := range stops {
		expr = append(expr, s.Key, s.Value)
	}

	if expr[0] == "match" {
		expr = append(expr, def)
	}

	return expr, nil
}

// zoomAndPropertyFunction builds a zoom curve whose outputs are property
// functions, one per distinct zoom level in the order first seen.
func zoomAndPropertyFunction(
	p Params,
	spec PropertySpec,
	stops []Stop,
	def any,
) (any, error) {
	var (
		zooms   []any
		buckets [][]Stop
	)

	for _, s := range stops {
		zk, ok := zoomKey(s.Key)
		if !ok {
			return nil, ErrInvalidStopKey.With(slog.Any("key", s.Key))
		}

		i := indexOf(zooms, zk.Zoom)
		if i < 0 {
			i = len(zooms)
			zooms = append(zooms, zk.Zoom)
			buckets = append(buckets, nil)
		}

		buckets[i] = append(buckets[i], Stop{Key: zk.Value, Value: s.Value})
	}

	interp := []any{"step"}
	if functionType(p, spec) == Exponential {
		interp = exponential(p.Base)
	}

	expr := []any{"curve", interp, []any{"zoom"}}

	// Each bucket keeps the function kind and property but not the base.
	sub := Params{Property: p.Property, Type: p.Type}

	for i, z := range zooms {
		fn, err := propertyFunction(sub, spec, buckets[i], def)
		if err != nil {
			return nil, err
		}

		expr = append(expr, z, fn)
	}

	return expr, nil
}

// runtimeType returns the expression type name of a string, number or
// boolean stop key, or "" for any other key.
func runtimeType(v any) string {
	if v == nil {
		return ""
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Float32, reflect.Float64:
		return "number"
	default:
		return ""
	}
}

func isZoomKey(v any) bool {
	_, ok := zoomKey(v)

	return ok
}

func zoomKey(v any) (ZoomKey, bool) {
	switch k := v.(type) {
	case ZoomKey:
		return k, true
	case *ZoomKey:
		if k != nil {
			return *k, true
		}
	case map[string]any:
		return ZoomKey{Zoom: k["zoom"], Value: k["value"]}, true
	}

	return ZoomKey{}, false
}

func indexOf(list []any, v any) int {
	for i, x := range list {
		if reflect.DeepEqual(x, v) {
			return i
		}
	}

	return -1
}

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
