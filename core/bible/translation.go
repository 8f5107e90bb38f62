package bible

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
	"github.com/FocuswithJustin/JuniperCanon/core/fuzzy"
	"github.com/FocuswithJustin/JuniperCanon/internal/slug"
)

// Option configures a Translation.
type Option func(*Translation)

// WithRatioThreshold sets the minimum fuzzy ratio for book, category and
// character name lookups. Values outside 1-100 select fuzzy.DefaultThreshold.
func WithRatioThreshold(n int) Option {
	return func(t *Translation) {
		t.threshold = n
	}
}

// Translation is the root of a scripture collection.
//
// A Translation is populated single-threaded during hydration and is read-only
// afterwards, so it may be shared across goroutines without locking. The only
// state that changes after hydration is the per-verse text memo and the
// derived children snapshots, both of which are atomic.
type Translation struct {
	name      string
	threshold int

	books      numbered[*Book]
	bookIndex  *fuzzy.Index[*Book]
	categories []*Category
	catIndex   *fuzzy.Index[*Category]

	characters     map[int]*Character
	characterOrder []*Character
}

// NewTranslation creates an empty collection.
func NewTranslation(name string, opts ...Option) *Translation {
	t := &Translation{
		name:       name,
		threshold:  fuzzy.DefaultThreshold,
		books:      newNumbered[*Book](),
		characters: make(map[int]*Character),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.bookIndex = fuzzy.NewIndex[*Book](t.threshold)
	t.catIndex = fuzzy.NewIndex[*Category](t.threshold)
	t.threshold = t.bookIndex.Threshold()
	return t
}

// Name returns the translation name, e.g. "KJV".
func (t *Translation) Name() string { return t.name }

// Threshold returns the minimum fuzzy ratio used for name lookups.
func (t *Translation) Threshold() int { return t.threshold }

func (t *Translation) String() string { return t.name }

// BookInfo describes a book to register.
type BookInfo struct {
	Number     int
	Name       string
	AltNames   []string
	Categories []string
	Author     string
	Language   string
}

// NewBook registers a book. The book's identifier is derived from its name and
// must be a letter run with at most one leading digit. The number, identifier
// and alternative identifiers must not already belong to another book.
func (t *Translation) NewBook(info BookInfo) (*Book, error) {
	if info.Number < 1 || info.Number > MaxBookNumber {
		return nil, errors.NewSetup("book", "number %d for %q is outside 1-%d", info.Number, info.Name, MaxBookNumber)
	}

	id := slug.Identifier(info.Name)
	if !slug.IsIdentifier(id) {
		return nil, errors.NewSetup("book", "identifier %q derived from %q does not match %s",
			id, info.Name, slug.IdentifierPattern())
	}

	var altIDs []string
	for _, alt := range info.AltNames {
		if a := slug.Identifier(alt); a != "" && a != id && !slices.Contains(altIDs, a) {
			altIDs = append(altIDs, a)
		}
	}
	slices.Sort(altIDs)

	var conflicts []string
	if existing, ok := t.books.get(info.Number); ok {
		conflicts = append(conflicts, fmt.Sprintf("%d (%s)", info.Number, existing.name))
	}
	for _, key := range append([]string{id}, altIDs...) {
		if existing := t.bookIndex.Search(key); existing.Exact {
			conflicts = append(conflicts, fmt.Sprintf("%s (%s)", key, existing.Value.name))
		}
	}
	if len(conflicts) > 0 {
		return nil, errors.NewSetup("book", "%q conflicts with registered identifiers: %s",
			info.Name, strings.Join(conflicts, ", "))
	}

	b := &Book{
		translation: t,
		number:      info.Number,
		name:        info.Name,
		id:          id,
		altNames:    sorted(info.AltNames),
		altIDs:      altIDs,
		author:      info.Author,
		language:    info.Language,
		chapters:    newNumbered[*Chapter](),
	}

	t.books.add(b.number, b)
	if err := t.bookIndex.RegisterNumber(b.number, b); err != nil {
		return nil, err
	}
	for _, key := range append([]string{id}, altIDs...) {
		if err := t.bookIndex.RegisterName(key, b); err != nil {
			return nil, err
		}
	}

	for _, name := range sorted(info.Categories) {
		c, err := t.category(name)
		if err != nil {
			return nil, err
		}
		c.books = append(c.books, b)
		b.categories = append(b.categories, c)
	}
	return b, nil
}

func sorted(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return out
}

// category returns the category named name, creating it on first use.
func (t *Translation) category(name string) (*Category, error) {
	id := slug.Identifier(name)
	if id == "" {
		return nil, errors.NewSetup("category", "name %q has no identifier characters", name)
	}
	if m := t.catIndex.Search(id); m.Exact {
		return m.Value, nil
	}
	c := &Category{name: name, id: id}
	if err := t.catIndex.RegisterName(id, c); err != nil {
		return nil, err
	}
	t.categories = append(t.categories, c)
	return c, nil
}

// Book returns the book whose identifier or alternative identifier best
// matches name. Lookups are fuzzy: "Gen" finds Genesis.
func (t *Translation) Book(name string) (*Book, error) {
	return t.bookIndex.Lookup(slug.Identifier(name))
}

// BookByNumber returns the book numbered n.
func (t *Translation) BookByNumber(n int) (*Book, error) {
	if b, ok := t.books.get(n); ok {
		return b, nil
	}
	first, last := t.books.bounds()
	return nil, errors.NewOutOfRange("", "book", n, first, last)
}

// Books iterates the books in registration order.
func (t *Translation) Books() iter.Seq[*Book] {
	return func(yield func(*Book) bool) {
		for _, b := range t.books.values() {
			if !yield(b) {
				return
			}
		}
	}
}

// First returns the lowest-numbered book, or nil for an empty collection.
func (t *Translation) First() *Book {
	b, _ := t.books.first()
	return b
}

// Last returns the highest-numbered book, or nil for an empty collection.
func (t *Translation) Last() *Book {
	b, _ := t.books.last()
	return b
}

// Len returns the number of books.
func (t *Translation) Len() int { return t.books.len() }

// SelectBooks returns a selection over every book in registration order.
func (t *Translation) SelectBooks() *Selection[*Book] {
	return Select(t.books.values())
}

// Category returns the category that best matches name.
func (t *Translation) Category(name string) (*Category, error) {
	return t.catIndex.Lookup(slug.Identifier(name))
}

// Categories returns every category in first-use order.
func (t *Translation) Categories() []*Category {
	return append([]*Category(nil), t.categories...)
}

// Verse returns the verse with the given ordinal key.
func (t *Translation) Verse(ordinal int) (*Verse, error) {
	book, chapter, verse := SplitOrdinal(ordinal)
	b, err := t.BookByNumber(book)
	if err != nil {
		return nil, err
	}
	c, err := b.Chapter(chapter)
	if err != nil {
		return nil, err
	}
	return c.Verse(verse)
}

// Validate reports numbering gaps at every level. A hydrated collection must
// number books, chapters and verses densely from 1 and every book and chapter
// must have at least one child.
func (t *Translation) Validate() error {
	if t.books.len() == 0 {
		return errors.NewSetup("translation", "%s has no books", t.name)
	}
	if gaps := t.books.gaps(); len(gaps) > 0 {
		return errors.NewSetup("book", "%s is missing book numbers %v", t.name, gaps)
	}
	for _, b := range t.books.values() {
		if b.chapters.len() == 0 {
			return errors.NewSetup("chapter", "%s has no chapters", b.name)
		}
		if gaps := b.chapters.gaps(); len(gaps) > 0 {
			return errors.NewSetup("chapter", "%s is missing chapter numbers %v", b.name, gaps)
		}
		for _, c := range b.chapters.values() {
			if c.verses.len() == 0 {
				return errors.NewSetup("verse", "%s has no verses", c)
			}
			if gaps := c.verses.gaps(); len(gaps) > 0 {
				return errors.NewSetup("verse", "%s is missing verse numbers %v", c, gaps)
			}
		}
	}
	return nil
}

// Category groups books under a label such as "Gospels" or "Old Testament".
type Category struct {
	name  string
	id    string
	books []*Book
}

// Name returns the category label.
func (c *Category) Name() string { return c.name }

// ID returns the category identifier.
func (c *Category) ID() string { return c.id }

// Books returns the books in the category in registration order.
func (c *Category) Books() []*Book { return append([]*Book(nil), c.books...) }

func (c *Category) String() string { return c.name }
