package bible

// Ordinal key layout: book ‖ chapter(3 digits) ‖ verse(3 digits).
const (
	bookFactor    = 1_000_000
	chapterFactor = 1_000

	// MaxBookNumber is the largest book number an ordinal key can hold.
	MaxBookNumber = 99
	// MaxChapterNumber is the largest chapter number an ordinal key can hold.
	MaxChapterNumber = 999
	// MaxVerseNumber is the largest verse number an ordinal key can hold.
	MaxVerseNumber = 999
)

// Ordinal returns the ordinal key for a book, chapter and verse number.
// Zero chapter or verse numbers address the start of the enclosing unit.
func Ordinal(book, chapter, verse int) int {
	return book*bookFactor + chapter*chapterFactor + verse
}

// SplitOrdinal is the inverse of Ordinal.
func SplitOrdinal(ordinal int) (book, chapter, verse int) {
	return ordinal / bookFactor, ordinal % bookFactor / chapterFactor, ordinal % chapterFactor
}

// numbered holds the children of one level keyed by number, remembering
// registration order. Bounds are derived on demand rather than cached.
type numbered[T any] struct {
	byNumber map[int]T
	numbers  []int
}

func newNumbered[T any]() numbered[T] {
	return numbered[T]{byNumber: make(map[int]T)}
}

// add stores v under n unless n is taken.
func (s *numbered[T]) add(n int, v T) bool {
	if _, ok := s.byNumber[n]; ok {
		return false
	}
	s.byNumber[n] = v
	s.numbers = append(s.numbers, n)
	return true
}

func (s *numbered[T]) get(n int) (T, bool) {
	v, ok := s.byNumber[n]
	return v, ok
}

func (s *numbered[T]) len() int {
	return len(s.numbers)
}

// bounds returns the lowest and highest registered numbers, or 0, 0 when empty.
func (s *numbered[T]) bounds() (first, last int) {
	for i, n := range s.numbers {
		if i == 0 || n < first {
			first = n
		}
		if i == 0 || n > last {
			last = n
		}
	}
	return first, last
}

func (s *numbered[T]) first() (T, bool) {
	first, _ := s.bounds()
	return s.get(first)
}

func (s *numbered[T]) last() (T, bool) {
	_, last := s.bounds()
	return s.get(last)
}

// values returns the children in registration order.
func (s *numbered[T]) values() []T {
	out := make([]T, 0, len(s.numbers))
	for _, n := range s.numbers {
		out = append(out, s.byNumber[n])
	}
	return out
}

// gaps returns the numbers missing from 1..last, plus any number below 1.
func (s *numbered[T]) gaps() []int {
	_, last := s.bounds()
	var missing []int
	for n := 1; n <= last; n++ {
		if _, ok := s.byNumber[n]; !ok {
			missing = append(missing, n)
		}
	}
	for _, n := range s.numbers {
		if n < 1 {
			missing = append(missing, n)
		}
	}
	return missing
}
