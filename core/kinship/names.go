package kinship

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
)

type entry struct {
	male, female, neutral string
	// sided entries take a Maternal/Paternal qualifier
	sided bool
}

func (e entry) pick(g bible.Gender) string {
	switch g {
	case bible.Male:
		return e.male
	case bible.Female:
		return e.female
	default:
		return e.neutral
	}
}

// shape is the pair of generation distances from A and from B to the
// common ancestor.
type shape struct{ fromA, fromB int }

var table = map[shape]entry{
	{0, 1}: {"Son", "Daughter", "Child", false},
	{0, 2}: {"Grandson", "Granddaughter", "Grandchild", false},
	{0, 3}: {"Great-Grandson", "Great-Granddaughter", "Great-Grandchild", false},
	{1, 0}: {"Father", "Mother", "Parent", false},
	{2, 0}: {"Grandfather", "Grandmother", "Grandparent", true},
	{3, 0}: {"Great-Grandfather", "Great-Grandmother", "Great-Grandparent", true},
	{1, 1}: {"Brother", "Sister", "Sibling", false},
	{2, 1}: {"Uncle", "Aunt", "Uncle/Aunt", true},
	{3, 1}: {"Granduncle", "Grandaunt", "Granduncle/Grandaunt", true},
	{1, 2}: {"Nephew", "Niece", "Nephew/Niece", false},
	{1, 3}: {"Grandnephew", "Grandniece", "Grandnephew/Grandniece", false},
	{2, 2}: {"First Cousin", "First Cousin", "First Cousin", true},
}

var ordinals = []string{
	"First", "Second", "Third", "Fourth", "Fifth",
	"Sixth", "Seventh", "Eighth", "Ninth", "Tenth",
}

// Name returns what B is to A given the distances of each from their common
// ancestor, e.g. Name(2, 1, bible.Female) is "Aunt". The second result
// reports whether a Maternal/Paternal qualifier is meaningful for the shape.
func Name(fromA, fromB int, gender bible.Gender) (string, bool) {
	if fromA == 0 && fromB == 0 {
		return "Self", false
	}
	if e, ok := table[shape{fromA, fromB}]; ok {
		return e.pick(gender), e.sided
	}

	lo, hi := min(fromA, fromB), max(fromA, fromB)
	if lo <= 1 {
		// Direct and avuncular lines deepen the generation-3 entry.
		base := shape{fromA: 3, fromB: lo}
		if fromB > fromA {
			base = shape{fromA: lo, fromB: 3}
		}
		e := table[base]
		return strings.Repeat("Great-", hi-3) + e.pick(gender), e.sided
	}

	name := ordinal(lo-2) + " Cousin"
	if removed := hi - lo; removed > 0 {
		generation := "earlier"
		if fromB > fromA {
			generation = "later"
		}
		name = fmt.Sprintf("%s %s Removed (%s generation)", name, times(removed), generation)
	}
	return name, true
}

func ordinal(i int) string {
	if i < len(ordinals) {
		return ordinals[i]
	}
	n := i + 1
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func times(n int) string {
	switch n {
	case 1:
		return "Once"
	case 2:
		return "Twice"
	case 3:
		return "Thrice"
	default:
		return fmt.Sprintf("%d Times", n)
	}
}
