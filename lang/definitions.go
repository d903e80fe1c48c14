package lang

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mung"

	"github.com/ardnew/stylexpr/lang/types"
)

// Definition declares an operator.
type Definition struct {
	// Type is the result type of every call to the operator.
	Type types.Type `json:"type" yaml:"type"`

	// Params optionally describes the arguments, for display only.
	// The parser never checks arguments against it.
	Params []types.Type `json:"params,omitempty" yaml:"params,omitempty"`
}

// Signature returns the operator's call signature.
func (d Definition) Signature() *types.LambdaType {
	return types.Lambda(d.Type, d.Params...)
}

// Definitions maps operator names to their declarations.
type Definitions map[string]Definition

// Names returns the operator names in sorted order.
func (d Definitions) Names() []string {
	return slices.Sorted(maps.Keys(d))
}

// Merge returns a new table holding the definitions of d overridden by
// those of each other table in order.
func (d Definitions) Merge(other ...Definitions) Definitions {
	out := maps.Clone(d)
	if out == nil {
		out = Definitions{}
	}

	for _, o := range other {
		maps.Copy(out, o)
	}

	return out
}

// DefaultDefinitions returns a new table of the built-in operators.
func DefaultDefinitions() Definitions {
	var (
		T = types.NewTypeVariable("T")

		num     = types.Number
		str     = types.String
		boolean = types.Boolean
		val     = types.Value

		interp = types.Interpolation
		unary  = []types.Type{num}
		binary = []types.Type{num, num}
		many   = []types.Type{types.NArgs(1, num)}
	)

	defs := Definitions{
		"literal": {val, []types.Type{val}},
		"ln2":     {num, nil},
		"pi":      {num, nil},
		"e":       {num, nil},

		"string":  {str, []types.Type{val}},
		"number":  {num, []types.Type{val}},
		"boolean": {boolean, []types.Type{val}},
		"array":   {types.Array(val), []types.Type{types.NArgs(1, val)}},
		"object":  {types.Object, []types.Type{val}},

		"to_string":  {str, []types.Type{val}},
		"to_number":  {num, []types.Type{val}},
		"to_boolean": {boolean, []types.Type{val}},

		"get":           {val, []types.Type{str}},
		"has":           {boolean, []types.Type{str}},
		"at":            {T, []types.Type{num, types.Array(T)}},
		"typeof":        {str, []types.Type{val}},
		"length":        {num, []types.Type{types.Array(val)}},
		"zoom":          {num, nil},
		"properties":    {types.Object, nil},
		"geometry_type": {str, nil},
		"id":            {val, nil},

		"case":     {T, []types.Type{types.NArgs(1, boolean, T), T}},
		"match":    {T, []types.Type{val, types.NArgs(1, val, T), T}},
		"coalesce": {T, []types.Type{types.NArgs(1, T)}},

		"==": {boolean, []types.Type{T, T}},
		"!=": {boolean, []types.Type{T, T}},
		">":  {boolean, []types.Type{T, T}},
		">=": {boolean, []types.Type{T, T}},
		"<=": {boolean, []types.Type{T, T}},
		"<":  {boolean, []types.Type{T, T}},
		"&&": {boolean, []types.Type{boolean, boolean}},
		"||": {boolean, []types.Type{boolean, boolean}},
		"!":  {boolean, []types.Type{boolean}},

		"curve":        {T, []types.Type{interp, num, types.NArgs(1, num, T)}},
		"step":         {interp, nil},
		"exponential":  {interp, []types.Type{num}},
		"linear":       {interp, nil},
		"cubic-bezier": {interp, []types.Type{num, num, num, num}},

		"+":   {num, many},
		"*":   {num, many},
		"-":   {num, binary},
		"/":   {num, binary},
		"%":   {num, binary},
		"^":   {num, binary},
		"min": {num, many},
		"max": {num, many},

		"concat":   {str, []types.Type{types.NArgs(1, val)}},
		"upcase":   {str, []types.Type{str}},
		"downcase": {str, []types.Type{str}},

		"rgb":     {types.Color, []types.Type{num, num, num}},
		"rgba":    {types.Color, []types.Type{num, num, num, num}},
		"color":   {types.Color, []types.Type{str}},
		"to_rgba": {types.ArrayN(num, 4), []types.Type{types.Color}},

		"json_array": {types.Array(val), []types.Type{val}},
	}

	for _, name := range []string{
		"log10", "ln", "log2", "sin", "cos", "tan", "asin", "acos", "atan",
		"ceil", "floor", "round", "abs",
	} {
		defs[name] = Definition{num, unary}
	}

	return defs
}

// definitionEntry is the encoded form of a [Definition], with types given by
// name.
type definitionEntry struct {
	Type   string   `json:"type"   yaml:"type"`
	Params []string `json:"params" yaml:"params"`
}

// LoadDefinitions reads a table of the form
//
//	<name>:
//	  type: <type name>
//	  params: [<type name>, ...]
//
// from r in the given format. Type names are those accepted by
// [types.Parse].
func LoadDefinitions(
	ctx context.Context,
	r io.Reader,
	format Format,
) (Definitions, error) {
	var raw map[string]definitionEntry

	if err := decodeInto(r, format, &raw); err != nil {
		return nil, err
	}

	defs := make(Definitions, len(raw))

	for name, entry := range raw {
		t, err := types.Parse(entry.Type)
		if err != nil {
			return nil, ErrInvalidDefinition.Wrap(err).
				With(slog.String("name", name))
		}

		params := make([]types.Type, 0, len(entry.Params))

		for _, p := range entry.Params {
			pt, err := types.Parse(p)
			if err != nil {
				return nil, ErrInvalidDefinition.Wrap(err).
					With(slog.String("name", name))
			}

			params = append(params, pt)
		}

		defs[name] = Definition{Type: t, Params: params}
	}

	return defs, nil
}

// SearchPath returns a PATH-style list of the existing directories in dirs
// followed by those of path.
func SearchPath(path string, dirs ...string) string {
	return mung.Make(
		mung.WithSubjectItems(path),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()
}

// FindDefinitions returns the first file named name in the directories of
// the PATH-style list searchPath. An absolute name, or one that exists
// relative to the working directory, is returned as is.
func FindDefinitions(name, searchPath string) (string, error) {
	if isFile(name) {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range filepath.SplitList(searchPath) {
			if dir == "" {
				continue
			}

			if p := filepath.Join(dir, name); isFile(p) {
				return p, nil
			}
		}
	}

	return "", ErrDefinitionNotFound.With(
		slog.String("name", name),
		slog.String("search_path", searchPath),
	)
}

// ReadDefinitions locates name along searchPath and loads it, choosing the
// format from the file extension.
func ReadDefinitions(
	ctx context.Context,
	name, searchPath string,
) (Definitions, error) {
	path, err := FindDefinitions(name, searchPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	return LoadDefinitions(ctx, f, FormatOf(path))
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
