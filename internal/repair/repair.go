// =============================================================================
// Comma Fixer - Repair Engine
// =============================================================================
//
// This package contains the comma-repair heuristic. Given the full text of a
// file it inserts the trailing commas that are missing between consecutive
// properties of object-literal-like source text.
//
// HOW IT WORKS:
//   The text is split on "\n" and every line is classified from two inputs
//   only: its own trimmed content and the trimmed content of the next line.
//   A line is either passed through unchanged or right-trimmed and given a
//   single trailing comma. Nothing is ever deleted or reordered.
//
// LIMITATIONS:
//   This is a textual heuristic, not a parser. A ':' inside a string value
//   (URLs, times) counts as a property declaration, and multi-line strings or
//   template constructs can produce wrong insertions. This behavior is kept
//   as-is so results stay stable across runs.
//
// =============================================================================

package repair

import (
	"strings"
	"unicode"
)

// =============================================================================
// LINE CLASSIFICATION
// =============================================================================

// LineClass is the outcome of classifying a single line.
type LineClass int

const (
	// Passthrough lines are emitted exactly as they were read.
	Passthrough LineClass = iota

	// PropertySeparator lines are "key: value" declarations followed by
	// another property (or an object literal) in the same scope.
	PropertySeparator

	// ArrayBoundary lines are a bare "}" closing one array element that is
	// immediately followed by the "{" of the next element.
	ArrayBoundary
)

// String returns the name of the class.
func (c LineClass) String() string {
	switch c {
	case PropertySeparator:
		return "property-separator"
	case ArrayBoundary:
		return "array-boundary"
	default:
		return "passthrough"
	}
}

// terminators are the suffixes that mean a property line already ends
// correctly, opens a nested scope, or is a statement rather than a property.
var terminators = []string{",", "{", "[", ";", "=>"}

// Classify decides what to do with a line given its trimmed content and the
// trimmed content of the following line ("" when there is none).
func Classify(trimmed, next string) LineClass {
	if NeedsPropertySeparator(trimmed, next) {
		return PropertySeparator
	}
	if IsArrayBoundary(trimmed, next) {
		return ArrayBoundary
	}
	return Passthrough
}

// NeedsPropertySeparator reports whether trimmed is an unterminated property
// that must be followed by a comma because next continues the same scope.
func NeedsPropertySeparator(trimmed, next string) bool {
	if !isOpenProperty(trimmed) {
		return false
	}
	if !strings.Contains(next, ":") && !strings.HasPrefix(next, "{") {
		return false
	}
	return !strings.HasPrefix(next, "}") && !strings.HasPrefix(next, "]")
}

// IsArrayBoundary reports whether trimmed closes an object that is directly
// followed by another object in the same array.
func IsArrayBoundary(trimmed, next string) bool {
	return trimmed == "}" && strings.HasPrefix(next, "{")
}

func isOpenProperty(trimmed string) bool {
	if !strings.Contains(trimmed, ":") {
		return false
	}
	for _, suffix := range terminators {
		if strings.HasSuffix(trimmed, suffix) {
			return false
		}
	}
	return true
}

// =============================================================================
// REPAIR
// =============================================================================

// Repair returns text with the missing trailing commas inserted. It never
// fails; text without qualifying lines is returned unchanged.
func Repair(text string) string {
	lines := strings.Split(text, "\n")
	repaired, inserted := RepairLines(lines)
	if len(inserted) == 0 {
		return text
	}
	return strings.Join(repaired, "\n")
}

// RepairLines applies the repair to an already split document. It returns a
// new slice of lines and the indexes of the lines that received a comma, in
// ascending order. The input slice is not modified.
func RepairLines(lines []string) ([]string, []int) {
	out := make([]string, len(lines))
	var inserted []int

	for i, line := range lines {
		next := ""
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}

		if Classify(strings.TrimSpace(line), next) == Passthrough {
			out[i] = line
			continue
		}

		out[i] = AppendComma(line)
		inserted = append(inserted, i)
	}

	return out, inserted
}

// AppendComma drops the trailing whitespace of line and appends a comma. A
// trailing "\r" is put back after the comma so CRLF files keep their line
// endings.
func AppendComma(line string) string {
	eol := ""
	if strings.HasSuffix(line, "\r") {
		eol = "\r"
	}
	return strings.TrimRightFunc(line, unicode.IsSpace) + "," + eol
}
