// Package diffview produces classic unified patches (---/+++ headers, @@
// hunks) between two revisions of a file, via github.com/pmezard/go-difflib.
// It is presentation-only: the stored binary deltas are unrelated to these
// textual diffs.
package diffview

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Options controls patch generation.
type Options struct {
	// Context is the number of context lines per hunk (default 4 when 0).
	Context int

	// MaxBytes guards against diffing huge inputs. When len(a)+len(b)
	// exceeds it, a placeholder patch is returned and oversize=true.
	// 0 means no limit.
	MaxBytes int
}

// Unified renders the patch transforming a into b. The boolean reports
// whether the diff was omitted because the inputs exceeded Options.MaxBytes.
func Unified(aName, bName string, a, b []byte, opt Options) (string, bool) {
	if opt.MaxBytes > 0 && len(a)+len(b) > opt.MaxBytes {
		return omitted(aName, bName), true
	}

	ctx := opt.Context
	if ctx <= 0 {
		ctx = 4
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(a)),
		B:        splitLinesKeepNL(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return omitted(aName, bName), false
	}
	return s, false
}

// splitLinesKeepNL splits into lines keeping the trailing newline of each,
// which produces stabler unified hunks. A file that does not end in a
// newline keeps its last chunk bare.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}

// omitted is the compact placeholder used when a diff is suppressed.
func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}
