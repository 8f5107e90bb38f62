package bible

import (
	"fmt"
	"sync/atomic"
)

// Verse is the leaf of the hierarchy.
type Verse struct {
	chapter *Chapter
	number  int

	// text memoises the verse text once a content source has supplied it.
	text atomic.Pointer[string]
}

// Chapter returns the owning chapter.
func (v *Verse) Chapter() *Chapter { return v.chapter }

// Book returns the owning book.
func (v *Verse) Book() *Book { return v.chapter.book }

// Translation returns the owning collection.
func (v *Verse) Translation() *Translation { return v.chapter.book.translation }

// Number returns the verse number.
func (v *Verse) Number() int { return v.number }

// Ordinal returns the verse's ordinal key.
func (v *Verse) Ordinal() int { return Ordinal(v.chapter.book.number, v.chapter.number, v.number) }

func (v *Verse) String() string {
	return fmt.Sprintf("%s %d:%d", v.chapter.book.name, v.chapter.number, v.number)
}

// IsFirst reports whether this is the chapter's lowest-numbered verse.
func (v *Verse) IsFirst() bool {
	first, _ := v.chapter.verses.bounds()
	return v.number == first
}

// IsLast reports whether this is the chapter's highest-numbered verse.
func (v *Verse) IsLast() bool {
	_, last := v.chapter.verses.bounds()
	return v.number == last
}

// Next returns the following verse. At the end of a chapter it moves to the
// first verse of the next chapter, crossing books, only when overspill is set.
func (v *Verse) Next(overspill bool) (*Verse, bool) {
	if !v.IsLast() {
		return v.chapter.verses.get(v.number + 1)
	}
	if !overspill {
		return nil, false
	}
	next, ok := v.chapter.Next(true)
	if !ok || next.First() == nil {
		return nil, false
	}
	return next.First(), true
}

// Previous returns the preceding verse, overspilling like Next.
func (v *Verse) Previous(overspill bool) (*Verse, bool) {
	if !v.IsFirst() {
		return v.chapter.verses.get(v.number - 1)
	}
	if !overspill {
		return nil, false
	}
	prev, ok := v.chapter.Previous(true)
	if !ok || prev.Last() == nil {
		return nil, false
	}
	return prev.Last(), true
}

// CachedText returns the memoised text, if any.
func (v *Verse) CachedText() (string, bool) {
	if p := v.text.Load(); p != nil {
		return *p, true
	}
	return "", false
}

// CacheText memoises s as the verse text. The first stored value wins.
func (v *Verse) CacheText(s string) string {
	if v.text.CompareAndSwap(nil, &s) {
		return s
	}
	return *v.text.Load()
}
