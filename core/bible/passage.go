package bible

import (
	"fmt"
	"iter"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
)

// Passage is a closed range of verses in ordinal order. The end never
// precedes the start; a single verse is a passage whose ends coincide.
type Passage struct {
	start *Verse
	end   *Verse
}

// NewPassage builds the passage start..end. Both verses must belong to the
// same collection and end must not precede start.
func NewPassage(start, end *Verse) (*Passage, error) {
	if start == nil || end == nil {
		return nil, errors.NewReference("", "passage needs both a start and an end verse")
	}
	if start.Translation() != end.Translation() {
		return nil, errors.NewReference("", "%s and %s belong to different collections", start, end)
	}
	if end.Ordinal() < start.Ordinal() {
		return nil, errors.NewReference("", "%s precedes %s", end, start)
	}
	return &Passage{start: start, end: end}, nil
}

// Start returns the first verse.
func (p *Passage) Start() *Verse { return p.start }

// End returns the last verse.
func (p *Passage) End() *Verse { return p.end }

// Translation returns the collection the passage belongs to.
func (p *Passage) Translation() *Translation { return p.start.Translation() }

// Contains reports whether v lies within the passage.
func (p *Passage) Contains(v *Verse) bool {
	return v.Translation() == p.Translation() && p.overlaps(v.Ordinal(), v.Ordinal())
}

// Overlaps reports whether the passages share at least one verse.
func (p *Passage) Overlaps(o *Passage) bool {
	return o.Translation() == p.Translation() && p.overlaps(o.start.Ordinal(), o.end.Ordinal())
}

func (p *Passage) overlaps(lo, hi int) bool {
	return p.start.Ordinal() <= hi && lo <= p.end.Ordinal()
}

// Verses iterates every verse from start to end inclusive, crossing chapter
// and book boundaries.
func (p *Passage) Verses() iter.Seq[*Verse] {
	return func(yield func(*Verse) bool) {
		for v := p.start; v != nil; {
			if !yield(v) || v == p.end {
				return
			}
			next, ok := v.Next(true)
			if !ok {
				return
			}
			v = next
		}
	}
}

// Chapters iterates every chapter the passage touches.
func (p *Passage) Chapters() iter.Seq[*Chapter] {
	return func(yield func(*Chapter) bool) {
		last := p.end.chapter
		for c := p.start.chapter; c != nil; {
			if !yield(c) || c == last {
				return
			}
			next, ok := c.Next(true)
			if !ok {
				return
			}
			c = next
		}
	}
}

// Books iterates every book the passage touches.
func (p *Passage) Books() iter.Seq[*Book] {
	return func(yield func(*Book) bool) {
		last := p.end.Book()
		for b := p.start.Book(); b != nil; {
			if !yield(b) || b == last {
				return
			}
			next, ok := b.Next()
			if !ok {
				return
			}
			b = next
		}
	}
}

// Len returns the number of verses in the passage.
func (p *Passage) Len() int {
	n := 0
	for range p.Verses() {
		n++
	}
	return n
}

// String renders the passage as "Genesis 1:1 - Genesis 1:3", or just the
// verse when start and end coincide.
func (p *Passage) String() string {
	if p.start == p.end {
		return p.start.String()
	}
	return fmt.Sprintf("%s - %s", p.start, p.end)
}

// OrdinalString renders the passage in the numeric grammar accepted by
// Translation.ResolveOrdinal, e.g. "1001001-1001003".
func (p *Passage) OrdinalString() string {
	if p.start == p.end {
		return fmt.Sprintf("%d", p.start.Ordinal())
	}
	return fmt.Sprintf("%d-%d", p.start.Ordinal(), p.end.Ordinal())
}
