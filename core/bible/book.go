package bible

import (
	"iter"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
)

// Book is a named, numbered book of a Translation.
type Book struct {
	translation *Translation
	number      int
	name        string
	id          string
	altNames    []string
	altIDs      []string
	categories  []*Category
	author      string
	language    string

	chapters numbered[*Chapter]
}

// Translation returns the owning collection.
func (b *Book) Translation() *Translation { return b.translation }

// Number returns the book number, 1 for Genesis in a protestant canon.
func (b *Book) Number() int { return b.number }

// Name returns the display name.
func (b *Book) Name() string { return b.name }

// ID returns the identifier derived from the name.
func (b *Book) ID() string { return b.id }

// AltNames returns the alternative names the book was registered with.
func (b *Book) AltNames() []string { return append([]string(nil), b.altNames...) }

// AltIDs returns the identifiers derived from AltNames.
func (b *Book) AltIDs() []string { return append([]string(nil), b.altIDs...) }

// Categories returns the categories the book belongs to.
func (b *Book) Categories() []*Category { return append([]*Category(nil), b.categories...) }

// Author returns the traditional author, if known.
func (b *Book) Author() string { return b.author }

// Language returns the original language, if known.
func (b *Book) Language() string { return b.language }

// Ordinal returns the book's ordinal key.
func (b *Book) Ordinal() int { return Ordinal(b.number, 0, 0) }

func (b *Book) String() string { return b.name }

// NewChapter registers chapter number n.
func (b *Book) NewChapter(n int) (*Chapter, error) {
	if n < 1 || n > MaxChapterNumber {
		return nil, errors.NewSetup("chapter", "number %d in %s is outside 1-%d", n, b.name, MaxChapterNumber)
	}
	c := &Chapter{book: b, number: n, verses: newNumbered[*Verse]()}
	if !b.chapters.add(n, c) {
		return nil, errors.NewSetup("chapter", "%s already has a chapter numbered %d", b.name, n)
	}
	return c, nil
}

// NewChapterWithVerses registers chapter n holding verses 1..count.
func (b *Book) NewChapterWithVerses(n, count int) (*Chapter, error) {
	c, err := b.NewChapter(n)
	if err != nil {
		return nil, err
	}
	if err := c.NewVerses(count); err != nil {
		return nil, err
	}
	return c, nil
}

// Chapter returns chapter n or a ReferenceError carrying the valid bounds.
func (b *Book) Chapter(n int) (*Chapter, error) {
	if c, ok := b.chapters.get(n); ok {
		return c, nil
	}
	first, last := b.chapters.bounds()
	return nil, errors.NewOutOfRange("", b.name+" chapter", n, first, last)
}

// Chapters iterates the chapters in registration order.
func (b *Book) Chapters() iter.Seq[*Chapter] {
	return func(yield func(*Chapter) bool) {
		for _, c := range b.chapters.values() {
			if !yield(c) {
				return
			}
		}
	}
}

// First returns the lowest-numbered chapter, or nil if the book is empty.
func (b *Book) First() *Chapter {
	c, _ := b.chapters.first()
	return c
}

// Last returns the highest-numbered chapter, or nil if the book is empty.
func (b *Book) Last() *Chapter {
	c, _ := b.chapters.last()
	return c
}

// Len returns the number of chapters.
func (b *Book) Len() int { return b.chapters.len() }

// IsFirst reports whether this is the lowest-numbered book.
func (b *Book) IsFirst() bool {
	first, _ := b.translation.books.bounds()
	return b.number == first
}

// IsLast reports whether this is the highest-numbered book.
func (b *Book) IsLast() bool {
	_, last := b.translation.books.bounds()
	return b.number == last
}

// Next returns the following book. Books have no parent to overspill into.
func (b *Book) Next() (*Book, bool) {
	if b.IsLast() {
		return nil, false
	}
	return b.translation.books.get(b.number + 1)
}

// Previous returns the preceding book.
func (b *Book) Previous() (*Book, bool) {
	if b.IsFirst() {
		return nil, false
	}
	return b.translation.books.get(b.number - 1)
}

// FirstVerse returns the first verse of the first chapter.
func (b *Book) FirstVerse() *Verse {
	if c := b.First(); c != nil {
		return c.First()
	}
	return nil
}

// LastVerse returns the last verse of the last chapter.
func (b *Book) LastVerse() *Verse {
	if c := b.Last(); c != nil {
		return c.Last()
	}
	return nil
}
