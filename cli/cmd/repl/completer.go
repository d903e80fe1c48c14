package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "format", "clear", "quit"}

// isWordBoundary reports whether r delimits words for completion. Operator
// names may contain any other character, including "-", "=" and "!".
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '"', '[', ']', '{', '}', ',', ':':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. The word is empty when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// headPosition reports whether the word starting at wordStart is the first
// element of an array, quoted as in `["get` or bare as in `[get`.
func headPosition(input string, wordStart int) bool {
	prefix := strings.TrimSuffix(input[:wordStart], `"`)
	prefix = strings.TrimRight(prefix, " \t")

	return strings.HasSuffix(prefix, "[")
}

// computeMatches returns the fuzzy matches, ranked best first, for the word
// at the cursor, and the word's boundaries. In eval mode only operator
// names in head position are completed; an empty head matches every name.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	switch {
	case m.mode == modeCtrl:
		if word == "" || wordStart > 0 {
			return nil, wordStart, wordEnd
		}

		candidates = ctrlCommands

	case headPosition(input, wordStart):
		candidates = m.names

		if word == "" {
			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, wordStart, wordEnd
		}

	default:
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		reserve := ellipsisWidth
		if last {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base := suggestionStyle
	highlight := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		base = selectedStyle
		highlight = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
