package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/stylexpr/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// call is the innermost operator call enclosing the cursor.
type call struct {
	name     string // operator name, the first element of the array
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool   // cursor is past the operator name
}

// frame tracks one open array while scanning input.
type frame struct {
	head     string
	hasHead  bool
	elements int // number of completed elements
}

// detectCall scans input up to cursor and reports the innermost open array
// whose first element is a string. Brackets and commas inside strings are
// ignored.
func detectCall(input string, cursor int) call {
	if cursor > len(input) {
		cursor = len(input)
	}

	var (
		stack  []frame
		inStr  bool
		escape bool
		str    strings.Builder
	)

	for _, r := range input[:cursor] {
		if inStr {
			switch {
			case escape:
				escape = false

				str.WriteRune(r)
			case r == '\\':
				escape = true
			case r == '"':
				inStr = false

				if n := len(stack); n > 0 && stack[n-1].elements == 0 &&
					!stack[n-1].hasHead {
					stack[n-1].head = str.String()
					stack[n-1].hasHead = true
				}
			default:
				str.WriteRune(r)
			}

			continue
		}

		switch r {
		case '"':
			inStr = true

			str.Reset()
		case '[':
			stack = append(stack, frame{})
		case ']':
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}

			if n := len(stack); n > 0 && stack[n-1].elements == 0 {
				// A nested array in head position is not an operator name.
				stack[n-1].hasHead = true
			}
		case ',':
			if n := len(stack); n > 0 {
				stack[n-1].elements++
			}
		}
	}

	if len(stack) == 0 {
		return call{}
	}

	top := stack[len(stack)-1]
	if top.head == "" || top.elements == 0 {
		return call{}
	}

	return call{name: top.head, argIndex: top.elements - 1, inCall: true}
}

// getSignature returns the parameter and result type names of operator
// name.
func getSignature(
	defs lang.Definitions,
	name string,
) (params []string, result string, ok bool) {
	def, ok := defs[name]
	if !ok {
		return nil, "", false
	}

	params = make([]string, len(def.Params))
	for i, p := range def.Params {
		params[i] = p.Name()
	}

	return params, def.Type.Name(), true
}

// renderSignatureHint renders the signature of name with the parameter at
// argIdx highlighted. Arguments past a variadic parameter highlight it.
func renderSignatureHint(
	name string,
	params []string,
	result string,
	argIdx int,
) string {
	current := argIdx

	for i, p := range params {
		if strings.HasSuffix(p, "...") && argIdx > i {
			current = i

			break
		}
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(") => " + result))

	return b.String()
}
