package bible

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// referenceLexer tokenises a normalised reference. Book must precede Int so
// that "1john" lexes as a single book token.
var referenceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `[0-9]?[a-zA-Z]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:\-]`},
})

// ordinalLexer tokenises numeric references such as "1001001-1001003".
var ordinalLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `-`},
})

// translationGrammar is the full reference grammar, e.g. "gen1:1-exo2:3".
// Every component is optional; the second half follows the range operator.
//
//nolint:govet // participle grammar tags are not standard struct tags
type translationGrammar struct {
	Book       *string `@Book?`
	Chapter    *int    `@Int?`
	Colon      bool    `@":"?`
	Verse      *int    `@Int?`
	Range      bool    `@"-"?`
	BookEnd    *string `@Book?`
	ChapterEnd *int    `@Int?`
	ColonEnd   bool    `@":"?`
	VerseEnd   *int    `@Int?`
}

// bookGrammar is the reference grammar with the book fixed, e.g. "1:1-2:3".
//
//nolint:govet // participle grammar tags are not standard struct tags
type bookGrammar struct {
	Chapter    *int `@Int?`
	Colon      bool `@":"?`
	Verse      *int `@Int?`
	Range      bool `@"-"?`
	ChapterEnd *int `@Int?`
	ColonEnd   bool `@":"?`
	VerseEnd   *int `@Int?`
}

// chapterGrammar is the reference grammar with book and chapter fixed, e.g. "1-3".
//
//nolint:govet // participle grammar tags are not standard struct tags
type chapterGrammar struct {
	Verse    *int `@Int?`
	Range    bool `@"-"?`
	VerseEnd *int `@Int?`
}

// ordinalGrammar is the numeric reference grammar. Each side is an ordinal key
// of 7 or 8 digits: book(1-2) chapter(3) verse(3).
//
//nolint:govet // participle grammar tags are not standard struct tags
type ordinalGrammar struct {
	Start *string `@Int?`
	Range bool    `@"-"?`
	End   *string `@Int?`
}

var (
	translationParser = participle.MustBuild[translationGrammar](participle.Lexer(referenceLexer))
	bookParser        = participle.MustBuild[bookGrammar](participle.Lexer(referenceLexer))
	chapterParser     = participle.MustBuild[chapterGrammar](participle.Lexer(referenceLexer))
	ordinalParser     = participle.MustBuild[ordinalGrammar](participle.Lexer(ordinalLexer))
)

// Grammar returns the EBNF of the grammar each resolver level accepts. It is
// the pattern reported with syntax errors.
func Grammar(level string) string {
	switch level {
	case "book":
		return bookParser.String()
	case "chapter":
		return chapterParser.String()
	case "ordinal":
		return ordinalParser.String()
	default:
		return translationParser.String()
	}
}

// optional is a reference component that may have been omitted.
type optional struct {
	n  int
	ok bool
}

func some(n int) optional { return optional{n: n, ok: true} }

func fromPtr(p *int) optional {
	if p == nil {
		return optional{}
	}
	return some(*p)
}

// span is the parsed, not yet resolved, form of every grammar. Absent
// components are filled with defaults by Translation.resolve.
type span struct {
	bookKey      string
	bookEndKey   string
	startBook    *Book
	endBook      *Book
	startChapter optional
	startVerse   optional
	endChapter   optional
	endVerse     optional
	ranged       bool
}

// rightHandVerse reports whether a lone number after the range operator names
// a verse rather than a chapter. That holds when the left side gave a verse
// and the right side names neither a book nor a colon, as in "1:1-3".
func rightHandVerse(leftColon, bookEnd, colonEnd bool, chapterEnd, verseEnd *int) bool {
	return leftColon && !bookEnd && !colonEnd && chapterEnd != nil && verseEnd == nil
}

func (g *translationGrammar) span() span {
	s := span{
		startChapter: fromPtr(g.Chapter),
		startVerse:   fromPtr(g.Verse),
		endChapter:   fromPtr(g.ChapterEnd),
		endVerse:     fromPtr(g.VerseEnd),
		ranged:       g.Range,
	}
	if g.Book != nil {
		s.bookKey = *g.Book
	}
	if g.BookEnd != nil {
		s.bookEndKey = *g.BookEnd
	}
	if rightHandVerse(g.Colon, g.BookEnd != nil, g.ColonEnd, g.ChapterEnd, g.VerseEnd) {
		s.endVerse, s.endChapter = s.endChapter, optional{}
	}
	return s
}

func (g *bookGrammar) span(b *Book) span {
	s := span{
		startBook:    b,
		endBook:      b,
		startChapter: fromPtr(g.Chapter),
		startVerse:   fromPtr(g.Verse),
		endChapter:   fromPtr(g.ChapterEnd),
		endVerse:     fromPtr(g.VerseEnd),
		ranged:       g.Range,
	}
	if rightHandVerse(g.Colon, false, g.ColonEnd, g.ChapterEnd, g.VerseEnd) {
		s.endVerse, s.endChapter = s.endChapter, optional{}
	}
	return s
}

func (g *chapterGrammar) span(c *Chapter) span {
	return span{
		startBook:    c.book,
		endBook:      c.book,
		startChapter: some(c.number),
		endChapter:   some(c.number),
		startVerse:   fromPtr(g.Verse),
		endVerse:     fromPtr(g.VerseEnd),
		ranged:       g.Range,
	}
}

// dangling reports end components given without the range operator, as in
// "gen1:1:1". The grammar makes every component optional, so this is
// checked after parsing.
func (g *translationGrammar) dangling() bool {
	return !g.Range && (g.BookEnd != nil || g.ChapterEnd != nil || g.ColonEnd || g.VerseEnd != nil)
}

func (g *bookGrammar) dangling() bool {
	return !g.Range && (g.ChapterEnd != nil || g.ColonEnd || g.VerseEnd != nil)
}

func (g *chapterGrammar) dangling() bool {
	return !g.Range && g.VerseEnd != nil
}

func (g *ordinalGrammar) dangling() bool {
	return !g.Range && g.End != nil
}

// splitOrdinalDigits splits a 7 or 8 digit ordinal key into its components.
func splitOrdinalDigits(digits string) (book, chapter, verse int, ok bool) {
	if len(digits) < 7 || len(digits) > 8 {
		return 0, 0, 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, 0, false
	}
	book, chapter, verse = SplitOrdinal(n)
	return book, chapter, verse, true
}
