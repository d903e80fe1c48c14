package style_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/kylelemons/godebug/pretty"

	"github.com/ardnew/stylexpr/convert"
	"github.com/ardnew/stylexpr/lang"
	"github.com/ardnew/stylexpr/style"
)

const documentYAML = `
properties:
  line-width:
    spec: {type: number, function: interpolated, default: 1}
    function:
      stops: [[10, 1], [18, 6]]
  line-color:
    spec: {type: color, default: "#000"}
    value: "#3887be"
  fill-color:
    spec: {type: color, default: "#000"}
    function:
      property: kind
      type: categorical
      stops: [[park, green], [water, blue]]
  text-size:
    spec: {type: number, default: 12}
    function:
      property: rank
      stops: [[{zoom: 10, value: 1}, 10], [{zoom: 10, value: 5}, 14]]
  broken:
    spec: {type: number}
    function:
      colorSpace: lab
      stops: [[0, 1]]
`

func load(t *testing.T) *style.Document {
	t.Helper()

	doc, err := style.Load(t.Context(), strings.NewReader(documentYAML), lang.FormatYAML)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	return doc
}

func TestLoad(t *testing.T) {
	doc := load(t)

	want := []string{"broken", "fill-color", "line-color", "line-width", "text-size"}
	if got := doc.Names(); !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	width := doc.Properties["line-width"]
	if width.Spec.Function != "interpolated" || width.Function == nil || len(width.Function.Stops) != 2 {
		t.Errorf("unexpected line-width: %+v", width)
	}

	if convert.Classify(*doc.Properties["text-size"].Function) != convert.DependsOnZoomAndProperty {
		t.Error("text-size should depend on zoom and property")
	}
}

func TestLoad_JSON(t *testing.T) {
	doc, err := style.Load(t.Context(),
		strings.NewReader(`{"properties": {"opacity": {"spec": {"type": "number"}, "value": 0.5}}}`),
		lang.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	if doc.Properties["opacity"].Value != 0.5 {
		t.Errorf("unexpected document %+v", doc)
	}

	_, err = style.Load(t.Context(), strings.NewReader(`{"properties": [}`), lang.FormatJSON)
	if !errors.Is(err, style.ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}
}

func TestLoad_FunctionJSON(t *testing.T) {
	doc, err := style.Load(t.Context(), strings.NewReader(`{"properties": {"w": {
		"spec": {"type": "number", "default": 2},
		"function": {"base": 2, "stops": [[0, 1], [{"zoom": 5, "value": "a"}, 3]]}
	}}}`), lang.FormatJSON)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w := doc.Properties["w"]
	if w.Spec.Type != "number" || w.Function == nil || *w.Function.Base != 2 {
		t.Fatalf("unexpected property %+v", w)
	}

	want := []convert.Stop{
		{Key: 0.0, Value: 1.0},
		{Key: convert.ZoomKey{Zoom: 5.0, Value: "a"}, Value: 3.0},
	}
	if diff := pretty.Compare(w.Function.Stops, want); diff != "" {
		t.Errorf("stops (-got +want):\n%s", diff)
	}

	p, err := style.LoadProperty(t.Context(),
		strings.NewReader(`{"spec": {"type": "array", "value": "number"}, "value": [1, 2]}`),
		lang.FormatJSON)
	if err != nil {
		t.Fatalf("LoadProperty: %v", err)
	}

	if p.Spec.Value == nil || p.Spec.Value.Type != "number" {
		t.Errorf("unexpected element spec %+v", p.Spec.Value)
	}
}

func TestSelect(t *testing.T) {
	doc := load(t)

	tests := []struct {
		where string
		want  []string
	}{
		{"", doc.Names()},
		{`type == "color"`, []string{"fill-color", "line-color"}},
		{`kind == "constant"`, []string{"line-color"}},
		{`zoom`, []string{"broken", "line-width", "text-size"}},
		{`property == "kind" && function == "categorical"`, []string{"fill-color"}},
		{`name startsWith "line-" and not zoom`, []string{"line-color"}},
	}

	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			sel, err := style.Select(doc, tt.where)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}

			if got := sel.Names(); !slices.Equal(got, tt.want) {
				t.Errorf("selected %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelect_Invalid(t *testing.T) {
	for _, where := range []string{`name +`, `name`, `unknown == 1`} {
		if _, err := style.Select(load(t), where); !errors.Is(err, style.ErrSelect) {
			t.Errorf("%q: expected ErrSelect, got %v", where, err)
		}
	}
}

func TestConvert(t *testing.T) {
	programs, err := style.Convert(t.Context(), load(t))

	var merr *multierror.Error
	if !errors.As(err, &merr) || len(merr.Errors) != 1 {
		t.Fatalf("expected one aggregated error, got %v", err)
	}

	if !errors.Is(err, convert.ErrUnimplemented) || !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected the broken property to fail, got %v", err)
	}

	got := style.Map(programs)

	want := map[string]any{
		"line-width": []any{
			"coalesce",
			[]any{"curve", []any{"exponential", 1.0}, []any{"zoom"}, 10.0, 1.0, 18.0, 6.0},
			1.0,
		},
		"line-color": []any{"color", "#3887be"},
		"fill-color": []any{
			"coalesce",
			[]any{
				"match",
				[]any{
					"case",
					[]any{"==", "String", []any{"typeof", []any{"get", "kind"}}},
					[]any{"string", []any{"get", "kind"}},
					nil,
				},
				"park", []any{"color", "green"},
				"water", []any{"color", "blue"},
				[]any{"color", "#000"},
			},
			[]any{"color", "#000"},
		},
		"text-size": []any{
			"coalesce",
			[]any{
				"curve", []any{"step"}, []any{"zoom"},
				10.0, []any{
					"curve", []any{"step"},
					[]any{
						"case",
						[]any{"==", "Number", []any{"typeof", []any{"get", "rank"}}},
						[]any{"number", []any{"get", "rank"}},
						nil,
					},
					1.0, 10.0, 5.0, 14.0,
				},
			},
			12.0,
		},
	}

	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("programs (-got +want):\n%s", diff)
	}
}

func TestConvert_ProgramsParse(t *testing.T) {
	programs, _ := style.Convert(t.Context(), load(t))

	defs := lang.DefaultDefinitions()

	for _, p := range programs {
		if _, err := lang.Parse(t.Context(), defs, p.Expression); err != nil {
			t.Errorf("%s: %v", p.Name, err)
		}
	}
}

func TestConvert_EmptyProperty(t *testing.T) {
	doc := &style.Document{Properties: map[string]style.Property{
		"nothing": {Spec: convert.PropertySpec{Type: "number"}},
	}}

	_, err := style.Convert(t.Context(), doc)
	if !errors.Is(err, style.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestLoadProperty(t *testing.T) {
	p, err := style.LoadProperty(t.Context(), strings.NewReader(`
spec: {type: color, default: "#fff"}
function:
  property: kind
  type: identity
`), lang.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}

	got, err := style.ConvertProperty(p)
	if err != nil {
		t.Fatal(err)
	}

	want := []any{
		"coalesce",
		[]any{"color", []any{"string", []any{"get", "kind"}}},
		[]any{"color", "#fff"},
	}

	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("program (-got +want):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	a := &style.Document{Properties: map[string]style.Property{
		"x": {Value: 1.0},
		"y": {Value: 2.0},
	}}
	b := &style.Document{Properties: map[string]style.Property{
		"y": {Value: 3.0},
	}}

	got := style.Merge(a, nil, b)

	if got.Properties["x"].Value != 1.0 || got.Properties["y"].Value != 3.0 {
		t.Errorf("unexpected merge %+v", got.Properties)
	}
}
