package fuzzy

import (
	"math"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the SequenceMatcher similarity of a and b scaled to 0-100.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	return scale(difflib.NewMatcher(runes(a), runes(b)).Ratio())
}

// PartialRatio scores how well the shorter string matches the best aligned
// window of the longer one, scaled to 0-100. Every matching block found by
// the sequence matcher anchors a candidate window the length of the shorter
// string; the best window wins. A string that occurs inside the other scores 100.
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	shorter, longer := runes(a), runes(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0.0
	for _, block := range difflib.NewMatcher(shorter, longer).GetMatchingBlocks() {
		start := block.B - block.A
		if start < 0 {
			start = 0
		}
		end := start + len(shorter)
		if end > len(longer) {
			end = len(longer)
		}

		r := difflib.NewMatcher(shorter, longer[start:end]).Ratio()
		if r > 0.995 {
			return 100
		}
		if r > best {
			best = r
		}
	}
	return scale(best)
}

func scale(r float64) int {
	return int(math.Round(100 * r))
}

// runes splits s into single-character strings, the unit difflib compares.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
