package svt

import (
	"fmt"
	"slices"
	"strings"
)

// MalformedNameError reports a filename that carries no digit run, so no
// frame number can be derived from it. Order surfaces it as a diagnostic
// naming the offending file; callers that want to keep going anyway should
// use OrderLenient instead.
type MalformedNameError struct {
	Name string
}

func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("filename %q contains no digit run; cannot derive a frame number", e.Name)
}

// Order returns the input filenames reordered so that embedded numbers
// compare by value rather than by character code ("2.vtk" before "10.vtk").
// The result is a permutation of the input; names with equal sort keys keep
// their input order. The input slice is not modified.
//
// Order fails with *MalformedNameError if any name contains no digit run at
// all, reporting the first such name in input order.
func Order(names []string) ([]string, error) {
	for _, n := range names {
		if !strings.ContainsFunc(n, isDigit) {
			return nil, &MalformedNameError{Name: n}
		}
	}
	return OrderLenient(names), nil
}

// OrderLenient behaves like Order but accepts names without any digit run:
// such a name is a single text segment and compares bytewise against
// everything else, which keeps the ordering total and deterministic.
func OrderLenient(names []string) []string {
	out := slices.Clone(names)
	slices.SortStableFunc(out, Compare)
	return out
}

// Compare is the natural-order comparator behind Order. Each name is split
// into maximal runs of digit and non-digit characters, and the runs are
// compared pairwise left to right:
//
//   - two text runs compare bytewise;
//   - two digit runs compare by numeric value, ignoring leading zeros;
//     equal values tie-break toward the run with fewer leading zeros
//     ("2" before "002");
//   - a digit run against a text run compares bytewise, like text.
//
// The first differing pair decides. If one name's runs are a strict prefix
// of the other's, the shorter name sorts first. Compare is total over all
// strings and reports -1, 0, or 1 like [strings.Compare].
func Compare(a, b string) int {
	for a != "" && b != "" {
		ra, resta := nextRun(a)
		rb, restb := nextRun(b)
		if c := compareRuns(ra, rb); c != 0 {
			return c
		}
		a, b = resta, restb
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// nextRun splits off the leading maximal digit or non-digit run.
func nextRun(s string) (run, rest string) {
	digits := isDigit(rune(s[0]))
	for i := 1; i < len(s); i++ {
		if isDigit(rune(s[i])) != digits {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// compareRuns compares one aligned pair of runs. Digit runs are compared by
// numeric value via their zero-trimmed text, so arbitrarily long runs never
// overflow an integer type.
func compareRuns(a, b string) int {
	if !isDigit(rune(a[0])) || !isDigit(rune(b[0])) {
		return strings.Compare(a, b)
	}
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		// More significant digits means a larger value.
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	// Equal value: fewer leading zeros first.
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
