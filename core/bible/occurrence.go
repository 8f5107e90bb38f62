package bible

// CharactersIn returns the characters with at least one passage overlapping
// p, in registration order.
func (t *Translation) CharactersIn(p *Passage) []*Character {
	return t.Characters().Where(func(c *Character) bool { return c.OccursIn(p) }).All()
}

// Characters returns the characters occurring in the passage.
func (p *Passage) Characters() []*Character {
	return p.Translation().CharactersIn(p)
}

// Characters returns the characters occurring in the verse.
func (v *Verse) Characters() []*Character {
	return v.Translation().CharactersIn(&Passage{start: v, end: v})
}

// Characters returns the characters occurring anywhere in the chapter.
func (c *Chapter) Characters() []*Character {
	if c.First() == nil {
		return nil
	}
	return c.book.translation.CharactersIn(&Passage{start: c.First(), end: c.Last()})
}

// Characters returns the characters occurring anywhere in the book.
func (b *Book) Characters() []*Character {
	if b.FirstVerse() == nil {
		return nil
	}
	return b.translation.CharactersIn(&Passage{start: b.FirstVerse(), end: b.LastVerse()})
}
