package convert_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/kylelemons/godebug/pretty"

	"github.com/ardnew/stylexpr/convert"
)

func ptr[T any](v T) *T { return &v }

func getter(prop string) []any { return []any{"get", prop} }

func guarded(typ, Typ string, value any) []any {
	return []any{
		"case",
		[]any{"==", Typ, []any{"typeof", value}},
		[]any{typ, value},
		nil,
	}
}

var numberSpec = convert.PropertySpec{Type: "number", Default: 0.0}

func TestFunction(t *testing.T) {
	tests := []struct {
		name   string
		params convert.Params
		spec   convert.PropertySpec
		want   []any
	}{
		{
			name: "zoom exponential",
			params: convert.Params{
				Stops: []convert.Stop{{0.0, 1.0}, {10.0, 2.0}},
			},
			spec: convert.PropertySpec{Type: "number", Function: "interpolated", Default: 0.0},
			want: []any{
				"coalesce",
				[]any{"curve", []any{"exponential", 1.0}, []any{"zoom"}, 0.0, 1.0, 10.0, 2.0},
				0.0,
			},
		},
		{
			name: "zoom interval with color stops",
			params: convert.Params{
				Stops: []convert.Stop{{0.0, "red"}, {5.0, "blue"}},
			},
			spec: convert.PropertySpec{Type: "color", Default: "black"},
			want: []any{
				"coalesce",
				[]any{
					"curve", []any{"step"}, []any{"zoom"},
					0.0, []any{"color", "red"},
					5.0, []any{"color", "blue"},
				},
				[]any{"color", "black"},
			},
		},
		{
			name: "zoom rgb color space",
			params: convert.Params{
				Stops:      []convert.Stop{{0.0, 1.0}},
				Type:       convert.Exponential,
				Base:       ptr(1.5),
				ColorSpace: "rgb",
			},
			spec: numberSpec,
			want: []any{
				"coalesce",
				[]any{"curve", []any{"exponential", 1.5}, []any{"zoom"}, 0.0, 1.0},
				0.0,
			},
		},
		{
			name: "categorical property",
			params: convert.Params{
				Property:   "p",
				Type:       convert.Categorical,
				Stops:      []convert.Stop{{"a", 1.0}, {"b", 2.0}},
				Default:    0.0,
				HasDefault: true,
			},
			spec: numberSpec,
			want: []any{
				"coalesce",
				[]any{
					"match",
					guarded("string", "String", getter("p")),
					"a", 1.0,
					"b", 2.0,
					0.0,
				},
				0.0,
			},
		},
		{
			name: "interval property",
			params: convert.Params{
				Property: "rank",
				Stops:    []convert.Stop{{0.0, 2.0}, {10.0, 4.0}},
			},
			spec: convert.PropertySpec{Type: "number"},
			want: []any{
				"coalesce",
				[]any{
					"curve", []any{"step"},
					guarded("number", "Number", getter("rank")),
					0.0, 2.0, 10.0, 4.0,
				},
				nil,
			},
		},
		{
			name: "exponential property",
			params: convert.Params{
				Property: "height",
				Type:     convert.Exponential,
				Base:     ptr(2.0),
				Stops:    []convert.Stop{{0.0, 0.0}, {100.0, 1.0}},
			},
			spec: numberSpec,
			want: []any{
				"coalesce",
				[]any{
					"curve", []any{"exponential", 2.0},
					guarded("number", "Number", getter("height")),
					0.0, 0.0, 100.0, 1.0,
				},
				0.0,
			},
		},
		{
			name: "boolean categorical keys",
			params: convert.Params{
				Property: "on",
				Type:     convert.Categorical,
				Stops:    []convert.Stop{{true, "yes"}, {false, "no"}},
			},
			spec: convert.PropertySpec{Type: "string", Default: "?"},
			want: []any{
				"coalesce",
				[]any{
					"match",
					guarded("boolean", "Boolean", getter("on")),
					true, "yes", false, "no",
					"?",
				},
				"?",
			},
		},
		{
			name: "zoom and property buckets in first-seen order",
			params: convert.Params{
				Property: "p",
				Stops: []convert.Stop{
					{convert.ZoomKey{Zoom: 5.0, Value: "a"}, 1.0},
					{convert.ZoomKey{Zoom: 1.0, Value: "b"}, 2.0},
					{convert.ZoomKey{Zoom: 5.0, Value: "c"}, 3.0},
				},
			},
			spec: convert.PropertySpec{Type: "number"},
			want: []any{
				"coalesce",
				[]any{
					"curve", []any{"step"}, []any{"zoom"},
					5.0, []any{
						"curve", []any{"step"},
						guarded("string", "String", getter("p")),
						"a", 1.0, "c", 3.0,
					},
					1.0, []any{
						"curve", []any{"step"},
						guarded("string", "String", getter("p")),
						"b", 2.0,
					},
				},
				nil,
			},
		},
		{
			name: "zoom and property exponential keeps base at zoom level only",
			params: convert.Params{
				Property: "p",
				Base:     ptr(2.0),
				Stops: []convert.Stop{
					{convert.ZoomKey{Zoom: 0.0, Value: 1.0}, 1.0},
					{convert.ZoomKey{Zoom: 0.0, Value: 9.0}, 3.0},
				},
			},
			spec: convert.PropertySpec{Type: "number", Function: "interpolated"},
			want: []any{
				"coalesce",
				[]any{
					"curve", []any{"exponential", 2.0}, []any{"zoom"},
					0.0, []any{
						"curve", []any{"exponential", 1.0},
						guarded("number", "Number", getter("p")),
						1.0, 1.0, 9.0, 3.0,
					},
				},
				nil,
			},
		},
		{
			name: "zoom and property categorical",
			params: convert.Params{
				Property: "kind",
				Type:     convert.Categorical,
				Stops: []convert.Stop{
					{convert.ZoomKey{Zoom: 0.0, Value: "x"}, 1.0},
					{convert.ZoomKey{Zoom: 10.0, Value: "x"}, 2.0},
				},
				Default:    -1.0,
				HasDefault: true,
			},
			spec: numberSpec,
			want: []any{
				"coalesce",
				[]any{
					"curve", []any{"step"}, []any{"zoom"},
					0.0, []any{"match", guarded("string", "String", getter("kind")), "x", 1.0, -1.0},
					10.0, []any{"match", guarded("string", "String", getter("kind")), "x", 2.0, -1.0},
				},
				-1.0,
			},
		},
		{
			name:   "identity number",
			params: convert.Params{Property: "w"},
			spec:   numberSpec,
			want: []any{
				"coalesce",
				guarded("number", "Number", getter("w")),
				0.0,
			},
		},
		{
			name:   "identity color",
			params: convert.Params{Property: "c"},
			spec:   convert.PropertySpec{Type: "color", Default: "#000"},
			want: []any{
				"coalesce",
				[]any{"color", []any{"string", getter("c")}},
				[]any{"color", "#000"},
			},
		},
		{
			name:   "identity fixed array",
			params: convert.Params{Property: "o"},
			spec: convert.PropertySpec{
				Type:    "array",
				Length:  ptr(2),
				Value:   &convert.PropertySpec{Type: "number"},
				Default: []any{0.0, 0.0},
			},
			want: []any{
				"coalesce",
				[]any{
					"array",
					guarded("number", "Number", []any{"at", 0, []any{"json_array", getter("o")}}),
					guarded("number", "Number", []any{"at", 1, []any{"json_array", getter("o")}}),
				},
				[]any{"array", 0.0, 0.0},
			},
		},
		{
			name:   "identity variable array",
			params: convert.Params{Property: "dash"},
			spec:   convert.PropertySpec{Type: "array", Value: &convert.PropertySpec{Type: "number"}},
			want: []any{
				"coalesce",
				[]any{"json_array", getter("dash")},
				nil,
			},
		},
		{
			name:   "explicit null default",
			params: convert.Params{Property: "c", HasDefault: true},
			spec:   convert.PropertySpec{Type: "color", Default: "#fff"},
			want: []any{
				"coalesce",
				[]any{"color", []any{"string", getter("c")}},
				[]any{"color", nil},
			},
		},
		{
			name:   "identity type name keeps underscores",
			params: convert.Params{Property: "k"},
			spec:   convert.PropertySpec{Type: "foo_bar"},
			want: []any{
				"coalesce",
				guarded("foo_bar", "Foo_bar", getter("k")),
				nil,
			},
		},
		{
			name:   "empty stops are an identity function",
			params: convert.Params{Property: "w", Stops: []convert.Stop{}},
			spec:   convert.PropertySpec{Type: "string"},
			want: []any{
				"coalesce",
				guarded("string", "String", getter("w")),
				nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert.Function(tt.params, tt.spec)
			if err != nil {
				t.Fatalf("Function: %v", err)
			}

			if diff := pretty.Compare(got, tt.want); diff != "" {
				t.Errorf("program (-got +want):\n%s", diff)
			}
		})
	}
}

func TestFunction_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  convert.Params
		spec    convert.PropertySpec
		want    error
		message string
	}{
		{
			name:    "lab color space",
			params:  convert.Params{Stops: []convert.Stop{{0.0, 1.0}}, ColorSpace: "lab"},
			spec:    numberSpec,
			want:    convert.ErrUnimplemented,
			message: "Unimplemented",
		},
		{
			name:    "hcl color space with property",
			params:  convert.Params{Property: "p", Stops: []convert.Stop{{"a", "red"}}, ColorSpace: "hcl"},
			spec:    convert.PropertySpec{Type: "color"},
			want:    convert.ErrUnimplemented,
			message: "Unimplemented",
		},
		{
			name:    "categorical zoom function",
			params:  convert.Params{Type: convert.Categorical, Stops: []convert.Stop{{0.0, 1.0}}},
			spec:    numberSpec,
			want:    convert.ErrUnknownZoomFunction,
			message: `Unknown zoom function type "categorical"`,
		},
		{
			name:    "unknown property function",
			params:  convert.Params{Property: "p", Type: "identity", Stops: []convert.Stop{{0.0, 1.0}}},
			spec:    numberSpec,
			want:    convert.ErrUnknownPropertyFunction,
			message: "Unknown property function type identity",
		},
		{
			name:   "null stop key",
			params: convert.Params{Property: "p", Stops: []convert.Stop{{nil, 1.0}}},
			spec:   numberSpec,
			want:   convert.ErrInvalidStopKey,
		},
		{
			name:   "array stop key",
			params: convert.Params{Property: "p", Stops: []convert.Stop{{[]any{1.0}, 1.0}}},
			spec:   numberSpec,
			want:   convert.ErrInvalidStopKey,
		},
		{
			name: "mixed zoom keys",
			params: convert.Params{Property: "p", Stops: []convert.Stop{
				{convert.ZoomKey{Zoom: 0.0, Value: "a"}, 1.0},
				{"b", 2.0},
			}},
			spec: numberSpec,
			want: convert.ErrInvalidStopKey,
		},
		{
			name:   "missing spec type",
			params: convert.Params{Property: "p"},
			spec:   convert.PropertySpec{},
			want:   convert.ErrInvalidPropertySpec,
		},
		{
			name:   "fixed array without element spec",
			params: convert.Params{Property: "p"},
			spec:   convert.PropertySpec{Type: "array", Length: ptr(2)},
			want:   convert.ErrInvalidPropertySpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert.Function(tt.params, tt.spec)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v (program %v)", tt.want, err, got)
			}

			if tt.message != "" && err.Error() != tt.message {
				t.Errorf("message = %q, want %q", err.Error(), tt.message)
			}

			if errors.Is(err, convert.ErrInvalidStop) && tt.want != convert.ErrInvalidStop {
				t.Error("error matches an unrelated sentinel")
			}
		})
	}
}

func TestClassify(t *testing.T) {
	zk := convert.ZoomKey{Zoom: 1.0, Value: "a"}

	tests := []struct {
		params convert.Params
		want   convert.Dependency
	}{
		{convert.Params{}, convert.DependsOnNothing},
		{convert.Params{Property: "p"}, convert.DependsOnNothing},
		{convert.Params{Stops: []convert.Stop{{1.0, 1.0}}}, convert.DependsOnZoom},
		{convert.Params{Property: "p", Stops: []convert.Stop{{1.0, 1.0}}}, convert.DependsOnProperty},
		{convert.Params{Stops: []convert.Stop{{zk, 1.0}}}, convert.DependsOnZoomAndProperty},
		{convert.Params{Property: "p", Stops: []convert.Stop{{&zk, 1.0}}}, convert.DependsOnZoomAndProperty},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := convert.Classify(tt.params); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		v    any
		spec convert.PropertySpec
		want any
	}{
		{"color", "red", convert.PropertySpec{Type: "color"}, []any{"color", "red"}},
		{"array", []any{1.0, 2.0}, convert.PropertySpec{Type: "array"}, []any{"array", 1.0, 2.0}},
		{"array scalar", 3.0, convert.PropertySpec{Type: "array"}, []any{"array", 3.0}},
		{"typed array", []string{"a"}, convert.PropertySpec{Type: "array"}, []any{"array", "a"}},
		{"number", 4.0, numberSpec, 4.0},
		{"enum", "left", convert.PropertySpec{Type: "enum"}, "left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := pretty.Compare(convert.Value(tt.v, tt.spec), tt.want); diff != "" {
				t.Errorf("Value (-got +want):\n%s", diff)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	const doc = `{
		"params": {
			"property": "p",
			"type": "categorical",
			"stops": [[{"zoom": 5, "value": "a"}, "red"], [{"zoom": 1, "value": "b"}, "blue"]],
			"default": null
		},
		"spec": {
			"type": "array",
			"length": 2,
			"value": "number",
			"default": [1, 2]
		}
	}`

	var in struct {
		Params convert.Params       `json:"params"`
		Spec   convert.PropertySpec `json:"spec"`
	}

	if err := json.Unmarshal([]byte(doc), &in); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := struct {
		Params convert.Params
		Spec   convert.PropertySpec
	}{
		Params: convert.Params{
			Property: "p",
			Type:     "categorical",
			Stops: []convert.Stop{
				{convert.ZoomKey{Zoom: 5.0, Value: "a"}, "red"},
				{convert.ZoomKey{Zoom: 1.0, Value: "b"}, "blue"},
			},
			HasDefault: true,
		},
		Spec: convert.PropertySpec{
			Type:       "array",
			Length:     ptr(2),
			Value:      &convert.PropertySpec{Type: "number"},
			Default:    []any{1.0, 2.0},
			HasDefault: true,
		},
	}

	if diff := pretty.Compare(in, want); diff != "" {
		t.Errorf("decoded (-got +want):\n%s", diff)
	}

	if convert.Classify(in.Params) != convert.DependsOnZoomAndProperty {
		t.Error("object stop keys should classify as zoom-and-property")
	}

	out, err := json.Marshal(in.Params)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(out), `"default":null`) ||
		!strings.Contains(string(out), `[{"zoom":5,"value":"a"},"red"]`) {
		t.Errorf("unexpected encoding %s", out)
	}
}

func TestFunction_NullSpecDefault(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want any
	}{
		{"explicit null", `{"type": "color", "default": null}`, []any{"color", nil}},
		{"absent", `{"type": "color"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec convert.PropertySpec
			if err := json.Unmarshal([]byte(tt.spec), &spec); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			got, err := convert.Function(convert.Params{Property: "c"}, spec)
			if err != nil {
				t.Fatalf("Function: %v", err)
			}

			if diff := pretty.Compare(got[2], tt.want); diff != "" {
				t.Errorf("default (-got +want):\n%s", diff)
			}
		})
	}
}

func TestDecode_InvalidStop(t *testing.T) {
	var p convert.Params

	err := json.Unmarshal([]byte(`{"stops": [[1, 2, 3]]}`), &p)
	if !errors.Is(err, convert.ErrInvalidStop) {
		t.Errorf("expected ErrInvalidStop, got %v", err)
	}
}
