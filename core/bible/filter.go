package bible

import "cmp"

// Predicate selects values of T.
type Predicate[T any] func(T) bool

// And matches when both predicates match.
func (p Predicate[T]) And(q Predicate[T]) Predicate[T] {
	return func(v T) bool { return p(v) && q(v) }
}

// Or matches when either predicate matches.
func (p Predicate[T]) Or(q Predicate[T]) Predicate[T] {
	return func(v T) bool { return p(v) || q(v) }
}

// Not inverts the predicate.
func (p Predicate[T]) Not() Predicate[T] {
	return func(v T) bool { return !p(v) }
}

// Field projects one attribute of T for comparison.
type Field[T any, V comparable] func(T) V

// Eq matches values whose field equals want.
func (f Field[T, V]) Eq(want V) Predicate[T] {
	return func(v T) bool { return f(v) == want }
}

// In matches values whose field is one of wants.
func (f Field[T, V]) In(wants ...V) Predicate[T] {
	return func(v T) bool {
		got := f(v)
		for _, w := range wants {
			if got == w {
				return true
			}
		}
		return false
	}
}

// OrderedField is a Field over an ordered attribute.
type OrderedField[T any, V cmp.Ordered] func(T) V

// Eq matches values whose field equals want.
func (f OrderedField[T, V]) Eq(want V) Predicate[T] {
	return func(v T) bool { return f(v) == want }
}

// Lt matches values whose field is below bound.
func (f OrderedField[T, V]) Lt(bound V) Predicate[T] {
	return func(v T) bool { return f(v) < bound }
}

// Gt matches values whose field is above bound.
func (f OrderedField[T, V]) Gt(bound V) Predicate[T] {
	return func(v T) bool { return f(v) > bound }
}

// Between matches values whose field lies in [lo, hi].
func (f OrderedField[T, V]) Between(lo, hi V) Predicate[T] {
	return func(v T) bool { x := f(v); return lo <= x && x <= hi }
}

// Book fields usable with Where.
var (
	BookNumber   = OrderedField[*Book, int]((*Book).Number)
	BookID       = Field[*Book, string]((*Book).ID)
	BookAuthor   = Field[*Book, string]((*Book).Author)
	BookLanguage = Field[*Book, string]((*Book).Language)
)

// InCategory matches books filed under the category with the given name or
// identifier.
func InCategory(name string) Predicate[*Book] {
	return func(b *Book) bool {
		for _, c := range b.categories {
			if c.name == name || c.id == name {
				return true
			}
		}
		return false
	}
}

// Character fields usable with Where.
var (
	CharacterNumber      = OrderedField[*Character, int]((*Character).Number)
	CharacterName        = Field[*Character, string]((*Character).Name)
	CharacterGender      = Field[*Character, Gender]((*Character).Gender)
	CharacterNationality = Field[*Character, string]((*Character).Nationality)
	CharacterOccupation  = Field[*Character, string]((*Character).PrimaryOccupation)
	CharacterAge         = OrderedField[*Character, int]((*Character).Age)
	CharacterVerses      = OrderedField[*Character, int]((*Character).VerseCount)
)

// Selection is an ordered, filterable set of values.
type Selection[T any] struct {
	items []T
}

// Select wraps items in a Selection. The slice is not copied.
func Select[T any](items []T) *Selection[T] {
	return &Selection[T]{items: items}
}

// Where returns the items matching every predicate, preserving order.
func (s *Selection[T]) Where(preds ...Predicate[T]) *Selection[T] {
	var out []T
next:
	for _, item := range s.items {
		for _, p := range preds {
			if !p(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return &Selection[T]{items: out}
}

// All returns the selected items.
func (s *Selection[T]) All() []T {
	return append([]T(nil), s.items...)
}

// First returns the first selected item.
func (s *Selection[T]) First() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[0], true
}

// One returns the only selected item. It reports false when the selection
// is empty or holds more than one item.
func (s *Selection[T]) One() (T, bool) {
	if len(s.items) != 1 {
		var zero T
		return zero, false
	}
	return s.items[0], true
}

// Len returns the number of selected items.
func (s *Selection[T]) Len() int { return len(s.items) }
