package rewriter

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a line diff between before and after. Unchanged lines are
// omitted; every removed or added line is printed with its 1-based number in
// the old or new text respectively.
func Diff(path, before, after string) string {
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s (repaired)\n", path, path)

	oldLine, newLine := 1, 1
	for _, d := range diffs {
		lines := diffLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldLine += len(lines)
			newLine += len(lines)
		case diffmatchpatch.DiffDelete:
			for i, line := range lines {
				fmt.Fprintf(&b, "-%d: %s\n", oldLine+i, line)
			}
			oldLine += len(lines)
		case diffmatchpatch.DiffInsert:
			for i, line := range lines {
				fmt.Fprintf(&b, "+%d: %s\n", newLine+i, line)
			}
			newLine += len(lines)
		}
	}

	return b.String()
}

func diffLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
