// Package kinship names the relationship between two characters and
// estimates their coefficient of relationship.
//
// The calculator walks the ancestors of both characters one generation at a
// time. A node reached by both walks is a common ancestor; it is a lowest
// common ancestor for a pair of lineages when those lineages meet only at
// that node. Matched nodes are not expanded further, but the walk continues
// for every other lineage, so a pair of characters related in several ways
// (double cousins, half siblings whose mothers are sisters) reports every
// relation.
package kinship

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
)

// Qualifier distinguishes full from half relations.
type Qualifier int

const (
	// Full relations share both parents of the lineage's lowest children, or
	// run through one character being the ancestor of the other.
	Full Qualifier = iota
	// Half relations share exactly one parent; the other is known on both
	// sides and differs.
	Half
	// FullOrHalf relations share one parent while the other is unknown on
	// at least one side.
	FullOrHalf
)

func (q Qualifier) String() string {
	switch q {
	case Half:
		return "half"
	case FullOrHalf:
		return "full or half"
	default:
		return "full"
	}
}

// Side records through which of A's parents a lineage runs.
type Side int

const (
	// Unsided is used when a maternal/paternal qualifier is meaningless.
	Unsided Side = iota
	Maternal
	Paternal
)

func (s Side) String() string {
	switch s {
	case Maternal:
		return "maternal"
	case Paternal:
		return "paternal"
	default:
		return ""
	}
}

// Relatedness is an estimate of the coefficient of relationship. Lower and
// Upper coincide unless a FullOrHalf relation leaves it undetermined.
type Relatedness struct {
	Lower float64
	Upper float64
}

// Exact reports whether the estimate is a single value.
func (r Relatedness) Exact() bool { return r.Lower == r.Upper }

func (r Relatedness) String() string {
	if r.Exact() {
		return percent(r.Lower)
	}
	return percent(r.Lower) + "-" + percent(r.Upper)
}

func percent(f float64) string {
	return strconv.FormatFloat(100*f, 'f', -1, 64) + "%"
}

// Relation is one way in which B is related to A.
type Relation struct {
	// Name is what B is to A, e.g. "Paternal Half Uncle".
	Name      string
	FromA     int
	FromB     int
	Qualifier Qualifier
	Side      Side
	// Ancestors are the lowest common ancestors of this lineage.
	Ancestors   []*bible.Character
	Relatedness Relatedness
}

// Result holds every relation found and the total relatedness.
type Result struct {
	Relations   []Relation
	Relatedness Relatedness
}

// Related reports whether any relation was found.
func (r Result) Related() bool { return len(r.Relations) > 0 }

// lineage is one path of parent links from an origin up to an ancestor.
type lineage struct {
	path  []int
	slots []bible.ParentSlot // slots[i] leads from path[i] to path[i+1]
}

func (l lineage) extend(parent int, slot bible.ParentSlot) lineage {
	return lineage{
		path:  append(slices.Clip(l.path), parent),
		slots: append(slices.Clip(l.slots), slot),
	}
}

// meetsOnlyAtTop reports whether l and o share no node but their common top.
func (l lineage) meetsOnlyAtTop(o lineage) bool {
	below := l.path[:len(l.path)-1]
	for _, id := range o.path[:len(o.path)-1] {
		if slices.Contains(below, id) {
			return false
		}
	}
	return true
}

// walker expands the ancestors of one origin a generation at a time.
type walker struct {
	translation *bible.Translation
	distance    map[int]int
	lineages    map[int][]lineage
	frontier    []int
	done        map[int]bool
}

func newWalker(origin *bible.Character) *walker {
	id := origin.Number()
	return &walker{
		translation: origin.Translation(),
		distance:    map[int]int{id: 0},
		lineages:    map[int][]lineage{id: {{path: []int{id}}}},
		frontier:    []int{id},
		done:        make(map[int]bool),
	}
}

// expand moves the frontier to generation and returns the nodes first
// reached there. Nodes marked done are not expanded.
func (w *walker) expand(generation int) []int {
	var next []int
	for _, id := range w.frontier {
		if w.done[id] {
			continue
		}
		c, err := w.translation.Character(id)
		if err != nil {
			continue
		}
		for _, slot := range []bible.ParentSlot{bible.MotherSlot, bible.FatherSlot} {
			parent, ok := c.Parent(slot)
			if !ok {
				continue
			}
			pid := parent.Number()
			d, seen := w.distance[pid]
			if seen && d < generation {
				continue
			}
			if !seen {
				w.distance[pid] = generation
				next = append(next, pid)
			}
			for _, l := range w.lineages[id] {
				w.lineages[pid] = append(w.lineages[pid], l.extend(pid, slot))
			}
		}
	}
	w.frontier = next
	return next
}

type match struct {
	ancestor int
	a, b     lineage
}

// Calculate returns every relation B has to A. Identical characters have
// relatedness 1 and no relations; characters with no common ancestor have
// none and relatedness 0.
func Calculate(a, b *bible.Character) Result {
	if a == b || (a.Translation() == b.Translation() && a.Number() == b.Number()) {
		return Result{Relatedness: Relatedness{Lower: 1, Upper: 1}}
	}

	wa, wb := newWalker(a), newWalker(b)
	var matches []match

	check := func(ids []int) {
		for _, id := range ids {
			if wa.done[id] {
				continue
			}
			if _, ok := wa.distance[id]; !ok {
				continue
			}
			if _, ok := wb.distance[id]; !ok {
				continue
			}
			found := false
			for _, la := range wa.lineages[id] {
				for _, lb := range wb.lineages[id] {
					if la.meetsOnlyAtTop(lb) {
						matches = append(matches, match{ancestor: id, a: la, b: lb})
						found = true
					}
				}
			}
			if found {
				wa.done[id], wb.done[id] = true, true
			}
		}
	}

	check([]int{a.Number(), b.Number()})
	for generation := 1; len(wa.frontier) > 0 || len(wb.frontier) > 0; generation++ {
		newA := wa.expand(generation)
		newB := wb.expand(generation)
		check(append(newA, newB...))
	}

	return summarise(a, b, matches)
}

type groupKey struct {
	fromA, fromB   int
	childA, childB int
	first          bible.ParentSlot
}

type group struct {
	key     groupKey
	matches []match
}

// summarise groups matches by the pair of lowest children and the side of
// A's family they run through, then names and scores each group.
func summarise(a, b *bible.Character, matches []match) Result {
	var groups []*group
	index := make(map[groupKey]*group)
	for _, m := range matches {
		k := groupKey{fromA: len(m.a.path) - 1, fromB: len(m.b.path) - 1}
		if k.fromA > 0 {
			k.childA = m.a.path[k.fromA-1]
		}
		if k.fromA > 1 {
			// one step up, the slot is the shared parent itself, not a side
			k.first = m.a.slots[0]
		}
		if k.fromB > 0 {
			k.childB = m.b.path[k.fromB-1]
		}
		g, ok := index[k]
		if !ok {
			g = &group{key: k}
			index[k] = g
			groups = append(groups, g)
		}
		g.matches = append(g.matches, m)
	}

	var res Result
	for _, g := range groups {
		r := relation(a, b, g)
		res.Relations = append(res.Relations, r)
		res.Relatedness.Lower += r.Relatedness.Lower
		res.Relatedness.Upper += r.Relatedness.Upper
	}
	slices.SortStableFunc(res.Relations, func(x, y Relation) int {
		return cmp.Or(
			cmp.Compare(x.FromA+x.FromB, y.FromA+y.FromB),
			cmp.Compare(x.FromA, y.FromA),
			cmp.Compare(x.Name, y.Name),
		)
	})
	return res
}

func relation(a, b *bible.Character, g *group) Relation {
	k := g.key
	r := Relation{FromA: k.fromA, FromB: k.fromB}

	var ancestors []int
	for _, m := range g.matches {
		r.Relatedness.Lower += math.Ldexp(1, -(k.fromA + k.fromB))
		if !slices.Contains(ancestors, m.ancestor) {
			ancestors = append(ancestors, m.ancestor)
		}
	}
	t := a.Translation()
	for _, id := range ancestors {
		if c, err := t.Character(id); err == nil {
			r.Ancestors = append(r.Ancestors, c)
		}
	}

	r.Qualifier = qualify(t, g, len(ancestors))
	r.Relatedness.Upper = r.Relatedness.Lower
	if r.Qualifier == FullOrHalf {
		r.Relatedness.Upper *= 2
	}

	name, sided := Name(k.fromA, k.fromB, b.Gender())
	switch r.Qualifier {
	case Half:
		name = "Half " + name
	case FullOrHalf:
		name = "Full or Half " + name
	}
	if sided && k.fromA > 0 {
		if k.first == bible.MotherSlot {
			r.Side, name = Maternal, "Maternal "+name
		} else {
			r.Side, name = Paternal, "Paternal "+name
		}
	}
	r.Name = name
	return r
}

// qualify classifies a group whose lowest children have shared parents in common.
func qualify(t *bible.Translation, g *group, shared int) Qualifier {
	k := g.key
	if k.fromA == 0 || k.fromB == 0 || shared >= 2 {
		return Full
	}
	childA, errA := t.Character(k.childA)
	childB, errB := t.Character(k.childB)
	if errA != nil || errB != nil {
		return FullOrHalf
	}

	m := g.matches[0]
	other := m.a.slots[k.fromA-1].Other()
	idA, okA := childA.ParentRef(other).ID()
	idB, okB := childB.ParentRef(other).ID()
	switch {
	case okA && okB && idA == idB:
		return Full
	case okA && okB:
		return Half
	default:
		return FullOrHalf
	}
}
