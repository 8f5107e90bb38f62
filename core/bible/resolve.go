package bible

import (
	"github.com/FocuswithJustin/JuniperCanon/core/errors"
	"github.com/FocuswithJustin/JuniperCanon/internal/slug"
)

var errDangling = errors.NewValidation("reference", "end components require the range operator")

// Resolve turns a human-typed reference into a Passage. Whitespace and case
// are ignored, as is a period closing an abbreviated book name. Omitted components default to the start of the collection on
// the left of the range operator and to the end of the enclosing unit on the
// right:
//
//	"Genesis 1:1-3"  Genesis 1:1 - Genesis 1:3
//	"Genesis 1-3"    Genesis 1:1 - Genesis 3:24
//	"Jn 3:16"        John 3:16
//	"gen-exo"        Genesis 1:1 - Exodus 40:38
//	"-"              the whole collection
//
// Start components default to the first unit. Without a range operator the
// end is the start. Otherwise the end book defaults to the start book when any
// chapter or verse was given and to the last book when none was; the end
// chapter defaults to the start chapter's number when a start verse was given
// and to the end book's last chapter otherwise; the end verse defaults to the
// end chapter's last verse.
func (t *Translation) Resolve(reference string) (*Passage, error) {
	normalized := slug.Reference(reference)
	if normalized == "" {
		return nil, errors.NewSyntax(reference, Grammar("translation"), nil)
	}
	g, err := translationParser.ParseString("", normalized)
	if err == nil && g.dangling() {
		err = errDangling
	}
	if err != nil {
		return nil, errors.NewSyntax(reference, Grammar("translation"), err)
	}
	return t.resolve(reference, g.span())
}

// Passage resolves a reference within the book, e.g. "1:1-3" or "2-4".
func (b *Book) Passage(reference string) (*Passage, error) {
	normalized := slug.Reference(reference)
	if normalized == "" {
		return nil, errors.NewSyntax(reference, Grammar("book"), nil)
	}
	g, err := bookParser.ParseString("", normalized)
	if err == nil && g.dangling() {
		err = errDangling
	}
	if err != nil {
		return nil, errors.NewSyntax(reference, Grammar("book"), err)
	}
	return b.translation.resolve(reference, g.span(b))
}

// Passage resolves a verse reference within the chapter, e.g. "1-3" or "5".
func (c *Chapter) Passage(reference string) (*Passage, error) {
	normalized := slug.Reference(reference)
	if normalized == "" {
		return nil, errors.NewSyntax(reference, Grammar("chapter"), nil)
	}
	g, err := chapterParser.ParseString("", normalized)
	if err == nil && g.dangling() {
		err = errDangling
	}
	if err != nil {
		return nil, errors.NewSyntax(reference, Grammar("chapter"), err)
	}
	return c.book.translation.resolve(reference, g.span(c))
}

// ResolveOrdinal resolves a numeric reference such as "1001001-1001003", the
// form Passage.OrdinalString produces.
func (t *Translation) ResolveOrdinal(reference string) (*Passage, error) {
	normalized := slug.Reference(reference)
	pattern := Grammar("ordinal")
	if normalized == "" {
		return nil, errors.NewSyntax(reference, pattern, nil)
	}
	g, err := ordinalParser.ParseString("", normalized)
	if err == nil && g.dangling() {
		err = errDangling
	}
	if err != nil {
		return nil, errors.NewSyntax(reference, pattern, err)
	}

	s := span{ranged: g.Range}
	for _, side := range []struct {
		digits  *string
		book    **Book
		chapter *optional
		verse   *optional
	}{
		{g.Start, &s.startBook, &s.startChapter, &s.startVerse},
		{g.End, &s.endBook, &s.endChapter, &s.endVerse},
	} {
		if side.digits == nil {
			continue
		}
		book, chapter, verse, ok := splitOrdinalDigits(*side.digits)
		if !ok {
			return nil, errors.NewSyntax(reference, pattern, errors.NewValidation("ordinal", *side.digits+" must have 7 or 8 digits"))
		}
		b, err := t.BookByNumber(book)
		if err != nil {
			return nil, withReference(reference, err)
		}
		*side.book, *side.chapter, *side.verse = b, some(chapter), some(verse)
	}
	return t.resolve(reference, s)
}

// resolve fills the defaults of s and looks every component up.
func (t *Translation) resolve(reference string, s span) (*Passage, error) {
	startBook, endBook := s.startBook, s.endBook
	var err error
	if s.bookKey != "" {
		if startBook, err = t.Book(s.bookKey); err != nil {
			return nil, withReference(reference, err)
		}
	}
	if s.bookEndKey != "" {
		if endBook, err = t.Book(s.bookEndKey); err != nil {
			return nil, withReference(reference, err)
		}
	}
	if startBook == nil {
		if startBook = t.First(); startBook == nil {
			return nil, errors.NewReference(reference, "%s has no books", t.name)
		}
	}

	startChapter, err := chapterOrDefault(reference, startBook, s.startChapter, startBook.First())
	if err != nil {
		return nil, err
	}
	startVerse, err := verseOrDefault(reference, startChapter, s.startVerse, startChapter.First())
	if err != nil {
		return nil, err
	}
	if !s.ranged {
		return passage(reference, startVerse, startVerse)
	}

	if endBook == nil {
		if s.startChapter.ok || s.startVerse.ok {
			endBook = startBook
		} else {
			endBook = t.Last()
		}
	}

	var endChapter *Chapter
	switch {
	case s.endChapter.ok:
		if endChapter, err = endBook.Chapter(s.endChapter.n); err != nil {
			return nil, withReference(reference, err)
		}
	case s.startVerse.ok:
		if endChapter, err = endBook.Chapter(startChapter.number); err != nil {
			return nil, withReference(reference, err)
		}
	default:
		endChapter = endBook.Last()
	}
	if endChapter == nil {
		return nil, errors.NewReference(reference, "%s has no chapters", endBook)
	}

	endVerse, err := verseOrDefault(reference, endChapter, s.endVerse, endChapter.Last())
	if err != nil {
		return nil, err
	}
	return passage(reference, startVerse, endVerse)
}

func chapterOrDefault(reference string, b *Book, n optional, fallback *Chapter) (*Chapter, error) {
	if n.ok {
		c, err := b.Chapter(n.n)
		return c, withReference(reference, err)
	}
	if fallback == nil {
		return nil, errors.NewReference(reference, "%s has no chapters", b)
	}
	return fallback, nil
}

func verseOrDefault(reference string, c *Chapter, n optional, fallback *Verse) (*Verse, error) {
	if n.ok {
		v, err := c.Verse(n.n)
		return v, withReference(reference, err)
	}
	if fallback == nil {
		return nil, errors.NewReference(reference, "%s has no verses", c)
	}
	return fallback, nil
}

func passage(reference string, start, end *Verse) (*Passage, error) {
	p, err := NewPassage(start, end)
	return p, withReference(reference, err)
}

// withReference attaches the literal input to errors raised below the
// resolver, which do not know it.
func withReference(reference string, err error) error {
	if err == nil {
		return nil
	}
	var refErr *errors.ReferenceError
	if errors.As(err, &refErr) {
		if refErr.Reference == "" {
			refErr.Reference = reference
		}
		return refErr
	}
	var nf *errors.NotFoundError
	if errors.As(err, &nf) {
		return &errors.ReferenceError{Reference: reference, Message: nf.Error(), Err: nf}
	}
	return err
}
