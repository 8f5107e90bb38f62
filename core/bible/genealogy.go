package bible

import "iter"

// Ancestors iterates the character's ancestors breadth first, nearest
// generation first. Each ancestor is yielded once even when reachable by
// several paths.
func (c *Character) Ancestors() iter.Seq[*Character] {
	return c.walk(func(x *Character) []*Character { return x.Parents() })
}

// Descendants iterates the character's descendants breadth first.
func (c *Character) Descendants() iter.Seq[*Character] {
	return c.walk(func(x *Character) []*Character { return x.Children() })
}

func (c *Character) walk(next func(*Character) []*Character) iter.Seq[*Character] {
	return func(yield func(*Character) bool) {
		seen := map[int]bool{c.info.Number: true}
		queue := next(c)
		for len(queue) > 0 {
			x := queue[0]
			queue = queue[1:]
			if seen[x.info.Number] {
				continue
			}
			seen[x.info.Number] = true
			if !yield(x) {
				return
			}
			queue = append(queue, next(x)...)
		}
	}
}

// IsAncestorOf reports whether c is an ancestor of other.
func (c *Character) IsAncestorOf(other *Character) bool {
	for a := range other.Ancestors() {
		if a == c {
			return true
		}
	}
	return false
}

// Lineage returns the line of descent from ancestor to descendant: the
// ancestor, every character that is both a descendant of ancestor and an
// ancestor of descendant (in generation order from the ancestor), and the
// descendant. It reports false when descendant does not descend from ancestor.
func (t *Translation) Lineage(ancestor, descendant *Character) ([]*Character, bool) {
	if !ancestor.IsAncestorOf(descendant) {
		return nil, false
	}
	above := make(map[int]bool)
	for a := range descendant.Ancestors() {
		above[a.info.Number] = true
	}
	line := []*Character{ancestor}
	for d := range ancestor.Descendants() {
		if above[d.info.Number] {
			line = append(line, d)
		}
	}
	return append(line, descendant), true
}

// Progenitors returns the characters that have no parents at all.
func (t *Translation) Progenitors() []*Character {
	return t.Characters().Where(func(c *Character) bool { return c.IsProgenitor() }).All()
}
