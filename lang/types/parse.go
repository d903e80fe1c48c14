package types

import (
	"log/slog"
	"strconv"
	"strings"
)

// known maps the names of predefined types to their values, so that parsed
// names resolve to the shared instances.
var known = map[string]Type{
	Null.Name():          Null,
	Number.Name():        Number,
	String.Name():        String,
	Boolean.Name():       Boolean,
	Color.Name():         Color,
	Object.Name():        Object,
	Value.Name():         Value,
	Interpolation.Name(): Interpolation,
}

// Parse returns the type denoted by a canonical type name.
//
// Recognized forms are predefined names ("Number", "Value", ...),
// "typename T", "Array<T>", "Array<T,N>", and "(A, B) => R". Any other bare
// identifier is taken to be a primitive of that name. Anonymous variants and
// variadic signatures cannot be expressed.
func Parse(name string) (Type, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return nil, ErrInvalidName.Detail("(empty)")
	}

	if t, ok := known[s]; ok {
		return t, nil
	}

	if v, ok := strings.CutPrefix(s, "typename "); ok {
		v = strings.TrimSpace(v)
		if !isIdent(v) {
			return nil, invalid(name)
		}

		return NewTypeVariable(v), nil
	}

	if strings.HasPrefix(s, "(") {
		return parseLambda(s)
	}

	if inner, ok := strings.CutPrefix(s, "Array<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return nil, invalid(name)
		}

		return parseArray(inner)
	}

	if !isIdent(s) {
		return nil, invalid(name)
	}

	return NewPrimitive(s), nil
}

// MustParse is like [Parse] but panics on error.
// It is intended for initializing tables of built-in definitions.
func MustParse(name string) Type {
	t, err := Parse(name)
	if err != nil {
		panic(err)
	}

	return t
}

func parseArray(inner string) (Type, error) {
	// The length, if present, follows the last top-level comma.
	cut := lastTopLevel(inner, ',')
	if cut < 0 {
		item, err := Parse(inner)
		if err != nil {
			return nil, err
		}

		return Array(item), nil
	}

	item, err := Parse(inner[:cut])
	if err != nil {
		return nil, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(inner[cut+1:]))
	if err != nil {
		return nil, invalid("Array<" + inner + ">").Wrap(err)
	}

	if n < 0 {
		return nil, invalid("Array<"+inner+">").
			With(slog.Int("length", n))
	}

	return ArrayN(item, n), nil
}

func parseLambda(s string) (Type, error) {
	closing := matchingParen(s)
	if closing < 0 {
		return nil, invalid(s).With(slog.String("reason", "unbalanced"))
	}

	rest, ok := strings.CutPrefix(strings.TrimSpace(s[closing+1:]), "=>")
	if !ok {
		return nil, invalid(s).With(slog.String("reason", "missing result"))
	}

	result, err := Parse(rest)
	if err != nil {
		return nil, err
	}

	var params []Type

	for _, p := range splitTopLevel(s[1:closing], ',') {
		if strings.TrimSpace(p) == "" {
			continue
		}

		t, err := Parse(p)
		if err != nil {
			return nil, err
		}

		params = append(params, t)
	}

	return Lambda(result, params...), nil
}

// invalid returns ErrInvalidName naming the malformed type name.
func invalid(name string) *Error {
	return ErrInvalidName.Detail(strconv.Quote(name)).
		With(slog.String("name", name))
}

// separators returns the byte offsets of sep outside any "<>" or "()"
// nesting. The ">" of an "=>" arrow does not close a level.
func separators(s string, sep rune) []int {
	var (
		at    []int
		depth int
		prev  rune
	)

	for i, r := range s {
		switch {
		case r == '<' || r == '(':
			depth++
		case r == ')' || (r == '>' && prev != '='):
			depth--
		case r == sep && depth == 0:
			at = append(at, i)
		}

		prev = r
	}

	return at
}

func lastTopLevel(s string, sep rune) int {
	at := separators(s, sep)
	if len(at) == 0 {
		return -1
	}

	return at[len(at)-1]
}

func splitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		start int
	)

	for _, i := range separators(s, sep) {
		parts = append(parts, s[start:i])
		start = i + 1
	}

	return append(parts, s[start:])
}

// matchingParen returns the offset of the ")" closing the "(" at s[0].
func matchingParen(s string) int {
	depth := 0

	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		switch {
		case r == '_' || r == '-':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
