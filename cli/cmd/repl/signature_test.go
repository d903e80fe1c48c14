package repl

import (
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/ardnew/stylexpr/lang"
)

func TestDetectCall(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  call
	}{
		{"empty", ``, call{}},
		{"head only", `["get"`, call{}},
		{"first argument", `["get", `, call{name: "get", argIndex: 0, inCall: true}},
		{"second argument", `["at", 1, `, call{name: "at", argIndex: 1, inCall: true}},
		{"nested call", `["==", ["typeof", `, call{name: "typeof", argIndex: 0, inCall: true}},
		{"after nested call", `["==", ["typeof", 1], `, call{name: "==", argIndex: 1, inCall: true}},
		{"bracket in string", `["concat", "[a, b", `, call{name: "concat", argIndex: 1, inCall: true}},
		{"escaped quote", `["concat", "say \"hi\", ok", `, call{name: "concat", argIndex: 1, inCall: true}},
		{"array head", `[[1], `, call{}},
		{"number head", `[1, `, call{}},
		{"closed", `["get", "x"]`, call{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectCall(tt.input, len(tt.input))
			if diff := pretty.Compare(got, tt.want); diff != "" {
				t.Errorf("detectCall(%q) (-got +want):\n%s", tt.input, diff)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	defs := lang.DefaultDefinitions()

	params, result, ok := getSignature(defs, "at")
	if !ok {
		t.Fatal("expected signature for at")
	}

	if diff := pretty.Compare(params, []string{"Number", "Array<typename T>"}); diff != "" {
		t.Errorf("params (-got +want):\n%s", diff)
	}

	if result != "typename T" {
		t.Errorf("result = %q", result)
	}

	if _, _, ok := getSignature(defs, "nope"); ok {
		t.Error("expected no signature for undefined operator")
	}
}

func TestRenderSignatureHint(t *testing.T) {
	hint := renderSignatureHint("rgb", []string{"Number", "Number", "Number"}, "Color", 1)

	for _, part := range []string{"rgb", "Number", "=> Color"} {
		if !strings.Contains(hint, part) {
			t.Errorf("hint %q does not contain %q", hint, part)
		}
	}
}
