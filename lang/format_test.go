package lang_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/kylelemons/godebug/pretty"

	"github.com/ardnew/stylexpr/lang"
)

func TestFormat(t *testing.T) {
	for _, s := range []string{"json", "YAML", "yml"} {
		if _, err := lang.ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}

	if _, err := lang.ParseFormat("toml"); !errors.Is(err, lang.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}

	if lang.FormatOf("a/b.YML") != lang.FormatYAML || lang.FormatOf("x.json") != lang.FormatJSON {
		t.Error("FormatOf guessed wrong")
	}
}

func TestDecode_Equivalent(t *testing.T) {
	fromJSON, err := lang.DecodeString(t.Context(),
		`["curve", ["exponential", 1.5], ["zoom"], 0, 1, 22, "x"]`, lang.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	fromYAML, err := lang.DecodeString(t.Context(),
		"[curve, [exponential, 1.5], [zoom], 0, 1, 22, x]", lang.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}

	if diff := pretty.Compare(fromYAML, fromJSON); diff != "" {
		t.Errorf("YAML and JSON decode differently (-yaml +json):\n%s", diff)
	}

	want := []any{"curve", []any{"exponential", 1.5}, []any{"zoom"}, 0.0, 1.0, 22.0, "x"}
	if diff := pretty.Compare(fromJSON, want); diff != "" {
		t.Errorf("decoded (-got +want):\n%s", diff)
	}
}

func TestEncode_Expression(t *testing.T) {
	expr := mustParse(t, []any{"+", 1, nil, []any{"literal", []any{true}}})

	var buf bytes.Buffer
	if err := lang.Encode(t.Context(), &buf, expr, lang.FormatJSON, 0); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	want := map[string]any{
		"literal": false,
		"name":    "+",
		"type":    "Number",
		"key":     "",
		"arguments": []any{
			map[string]any{"literal": true, "value": 1.0, "type": "Number", "key": "1"},
			map[string]any{"literal": true, "value": nil, "type": "Null", "key": "2"},
			map[string]any{"literal": true, "value": []any{true}, "type": "Array<Boolean,1>", "key": "3"},
		},
	}

	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("encoded tree (-got +want):\n%s", diff)
	}

	buf.Reset()

	if err := lang.Encode(t.Context(), &buf, expr, lang.FormatYAML, 2); err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"arguments:", "literal: true", "type: Number"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("YAML output missing %q:\n%s", s, buf.String())
		}
	}
}

func TestEncode_TypeNames(t *testing.T) {
	tests := []struct {
		name string
		node any
		want string
	}{
		{
			name: "literal array",
			node: []any{"literal", []any{1.0, 2.0, 3.0}},
			want: `{"literal":true,"value":[1,2,3],"type":"Array<Number,3>","key":""}`,
		},
		{
			name: "nested",
			node: []any{"length", []any{"literal", []any{"<b>"}}},
			want: `{"literal":false,"name":"length","type":"Number","arguments":[` +
				`{"literal":true,"value":["<b>"],"type":"Array<String,1>","key":"1"}],"key":""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := lang.Encode(t.Context(), &buf, mustParse(t, tt.node), lang.FormatJSON, 0); err != nil {
				t.Fatal(err)
			}

			if got := strings.TrimSpace(buf.String()); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}

	if got, want := mustParse(t, []any{"upcase", "<a & b>"}).String(), `(upcase "<a & b>" :: String) :: String`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestEncode_MatchInputs(t *testing.T) {
	var buf bytes.Buffer

	expr := mustParse(t, []any{"match", "k", "a", 1, 0})
	if err := lang.Encode(t.Context(), &buf, expr, lang.FormatJSON, 0); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), `"matchInputs":[[{"literal":true,"value":"a","type":"String","key":"2.0"}]]`) {
		t.Errorf("unexpected encoding: %s", buf.String())
	}
}
