package bible

import (
	"fmt"
	"iter"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
)

// Chapter is a numbered chapter of a Book.
type Chapter struct {
	book   *Book
	number int
	verses numbered[*Verse]
}

// Book returns the owning book.
func (c *Chapter) Book() *Book { return c.book }

// Number returns the chapter number.
func (c *Chapter) Number() int { return c.number }

// Ordinal returns the chapter's ordinal key, with a zero verse component.
func (c *Chapter) Ordinal() int { return Ordinal(c.book.number, c.number, 0) }

func (c *Chapter) String() string { return fmt.Sprintf("%s %d", c.book.name, c.number) }

// NewVerse registers verse number n.
func (c *Chapter) NewVerse(n int) (*Verse, error) {
	if n < 1 || n > MaxVerseNumber {
		return nil, errors.NewSetup("verse", "number %d in %s is outside 1-%d", n, c, MaxVerseNumber)
	}
	v := &Verse{chapter: c, number: n}
	if !c.verses.add(n, v) {
		return nil, errors.NewSetup("verse", "%s already has a verse numbered %d", c, n)
	}
	return v, nil
}

// NewVerses registers verses 1..count.
func (c *Chapter) NewVerses(count int) error {
	for n := 1; n <= count; n++ {
		if _, err := c.NewVerse(n); err != nil {
			return err
		}
	}
	return nil
}

// Verse returns verse n or a ReferenceError carrying the valid bounds.
func (c *Chapter) Verse(n int) (*Verse, error) {
	if v, ok := c.verses.get(n); ok {
		return v, nil
	}
	first, last := c.verses.bounds()
	return nil, errors.NewOutOfRange("", c.String()+" verse", n, first, last)
}

// Verses iterates the verses in registration order.
func (c *Chapter) Verses() iter.Seq[*Verse] {
	return func(yield func(*Verse) bool) {
		for _, v := range c.verses.values() {
			if !yield(v) {
				return
			}
		}
	}
}

// First returns the lowest-numbered verse, or nil if the chapter is empty.
func (c *Chapter) First() *Verse {
	v, _ := c.verses.first()
	return v
}

// Last returns the highest-numbered verse, or nil if the chapter is empty.
func (c *Chapter) Last() *Verse {
	v, _ := c.verses.last()
	return v
}

// Len returns the number of verses.
func (c *Chapter) Len() int { return c.verses.len() }

// IsFirst reports whether this is the book's lowest-numbered chapter.
func (c *Chapter) IsFirst() bool {
	first, _ := c.book.chapters.bounds()
	return c.number == first
}

// IsLast reports whether this is the book's highest-numbered chapter.
func (c *Chapter) IsLast() bool {
	_, last := c.book.chapters.bounds()
	return c.number == last
}

// Next returns the following chapter. At the end of a book it moves to the
// first chapter of the next book only when overspill is set.
func (c *Chapter) Next(overspill bool) (*Chapter, bool) {
	if !c.IsLast() {
		return c.book.chapters.get(c.number + 1)
	}
	if !overspill {
		return nil, false
	}
	next, ok := c.book.Next()
	if !ok || next.First() == nil {
		return nil, false
	}
	return next.First(), true
}

// Previous returns the preceding chapter. At the start of a book it moves to
// the last chapter of the previous book only when overspill is set.
func (c *Chapter) Previous(overspill bool) (*Chapter, bool) {
	if !c.IsFirst() {
		return c.book.chapters.get(c.number - 1)
	}
	if !overspill {
		return nil, false
	}
	prev, ok := c.book.Previous()
	if !ok || prev.Last() == nil {
		return nil, false
	}
	return prev.Last(), true
}
