// =============================================================================
// Comma Fixer - Repair Verification
// =============================================================================
//
// This module checks a repaired document against its original before the
// rewriter is allowed to persist it. The repair engine is a heuristic; the
// checks here do not judge whether a comma belongs where it was inserted, only
// that the output is something the engine is permitted to produce:
//
//   - Line count: the document has exactly as many lines as before
//   - Non-destructive: a changed line is the original, right-trimmed, plus ","
//   - Last line: the final line is never modified
//   - Idempotent: repairing the output again changes nothing
//
// ERROR HANDLING:
//   - Errors are collected, not returned on the first failure
//   - Each error carries the rule, the 1-based line number and both versions
//     of the line so a bad rewrite is easy to troubleshoot
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/commafix/internal/repair"
)

// =============================================================================
// VALIDATION RULES
// =============================================================================

// Rule names used in ValidationError.Rule.
const (
	RuleLineCount      = "line_count"
	RuleNonDestructive = "non_destructive"
	RuleLastLine       = "last_line"
	RuleIdempotent     = "idempotent"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single failed check.
type ValidationError struct {
	// Rule is the check that was violated.
	Rule string

	// Line is the 1-based line number the error refers to.
	// Zero means the error applies to the whole document.
	Line int

	// Original is the line as it was read from disk.
	Original string

	// Repaired is the line as the engine produced it.
	Repaired string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("[%s] %s", e.Rule, e.Message)
	}
	return fmt.Sprintf("[%s] line %d: %s (original: %q, repaired: %q)",
		e.Rule,
		e.Line,
		e.Message,
		e.Original,
		e.Repaired,
	)
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// VerifyRepair checks repaired against original and returns every violation.
// An empty result means the rewrite is safe to persist.
//
// PARAMETERS:
//   - original: The file content as read.
//   - repaired: The output of repair.Repair(original).
//
// RETURNS:
//   - A slice of ValidationError pointers, nil when everything holds.
func VerifyRepair(original, repaired string) []*ValidationError {
	var errors []*ValidationError

	inLines := strings.Split(original, "\n")
	outLines := strings.Split(repaired, "\n")

	if len(inLines) != len(outLines) {
		// Nothing line-based can be compared meaningfully past this point.
		return append(errors, &ValidationError{
			Rule:    RuleLineCount,
			Message: fmt.Sprintf("line count changed from %d to %d", len(inLines), len(outLines)),
		})
	}

	errors = append(errors, verifyLines(inLines, outLines)...)

	last := len(inLines) - 1
	if inLines[last] != outLines[last] {
		errors = append(errors, &ValidationError{
			Rule:     RuleLastLine,
			Line:     last + 1,
			Original: inLines[last],
			Repaired: outLines[last],
			Message:  "final line was modified",
		})
	}

	if again := repair.Repair(repaired); again != repaired {
		errors = append(errors, &ValidationError{
			Rule:    RuleIdempotent,
			Message: "a second repair pass would change the output again",
		})
	}

	return errors
}

// verifyLines checks that every changed line is the original with its
// trailing whitespace replaced by a single comma. A trailing "\r" must
// survive.
func verifyLines(inLines, outLines []string) []*ValidationError {
	var errors []*ValidationError

	for i := range inLines {
		if inLines[i] == outLines[i] {
			continue
		}
		if outLines[i] == repair.AppendComma(inLines[i]) {
			continue
		}
		errors = append(errors, &ValidationError{
			Rule:     RuleNonDestructive,
			Line:     i + 1,
			Original: inLines[i],
			Repaired: outLines[i],
			Message:  "line changed by something other than an appended comma",
		})
	}

	return errors
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Verification failed with %d error(s):\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
