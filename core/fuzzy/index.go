// Package fuzzy provides an identifier index: a dictionary from numeric or
// string keys to values where string lookups fall back to the most similar
// registered key.
//
// Numeric keys never fall back. String keys are scored with PartialRatio in
// registration order and the first key with the highest score wins, so
// results are deterministic. A best score below the index threshold is
// reported as a NotFoundError carrying the candidate and its score.
//
// An Index is built once and is safe for concurrent reads afterwards; it does
// no locking of its own.
package fuzzy

import (
	"strconv"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
)

// DefaultThreshold is the minimum ratio a fuzzy candidate needs to match.
const DefaultThreshold = 60

// Match describes the outcome of a string search.
type Match[V any] struct {
	// Key is the registered key that was selected (empty if the index has no string keys).
	Key string
	// Value is the value registered under Key.
	Value V
	// Ratio is the similarity between the query and Key (0-100).
	Ratio int
	// Exact is true when the query was itself a registered key.
	Exact bool
	// Found is true when Ratio reached the threshold.
	Found bool
}

// Index maps numbers and names to values.
type Index[V comparable] struct {
	threshold int
	numbers   map[int]V
	names     map[string]V
	order     []string
}

// NewIndex creates an empty index. A threshold outside 1-100 selects
// DefaultThreshold.
func NewIndex[V comparable](threshold int) *Index[V] {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	return &Index[V]{
		threshold: threshold,
		numbers:   make(map[int]V),
		names:     make(map[string]V),
	}
}

// Threshold returns the minimum ratio for a fuzzy match.
func (ix *Index[V]) Threshold() int {
	return ix.threshold
}

// RegisterNumber maps n to v. Registering the same pair twice is a no-op;
// mapping n to a different value is a SetupError.
func (ix *Index[V]) RegisterNumber(n int, v V) error {
	if existing, ok := ix.numbers[n]; ok {
		if existing == v {
			return nil
		}
		return errors.NewSetup("index", "key %d is already registered to a different value", n)
	}
	ix.numbers[n] = v
	return nil
}

// RegisterName maps name to v with the same duplicate rules as RegisterNumber.
func (ix *Index[V]) RegisterName(name string, v V) error {
	if existing, ok := ix.names[name]; ok {
		if existing == v {
			return nil
		}
		return errors.NewSetup("index", "key %q is already registered to a different value", name)
	}
	ix.names[name] = v
	ix.order = append(ix.order, name)
	return nil
}

// HasNumber reports whether n is registered.
func (ix *Index[V]) HasNumber(n int) bool {
	_, ok := ix.numbers[n]
	return ok
}

// HasName reports whether name is registered exactly.
func (ix *Index[V]) HasName(name string) bool {
	_, ok := ix.names[name]
	return ok
}

// Number returns the value registered under n. There is no approximate
// fallback for numbers.
func (ix *Index[V]) Number(n int) (V, error) {
	if v, ok := ix.numbers[n]; ok {
		return v, nil
	}
	var zero V
	return zero, &errors.NotFoundError{Key: strconv.Itoa(n), Threshold: ix.threshold}
}

// Lookup returns the value registered under name, or under the most similar
// registered name if its ratio reaches the threshold.
func (ix *Index[V]) Lookup(name string) (V, error) {
	m := ix.Search(name)
	if !m.Found {
		var zero V
		return zero, &errors.NotFoundError{
			Key:       name,
			Closest:   m.Key,
			Ratio:     m.Ratio,
			Threshold: ix.threshold,
		}
	}
	return m.Value, nil
}

// Search scores name against every registered name and returns the best
// candidate whether or not it reaches the threshold.
func (ix *Index[V]) Search(name string) Match[V] {
	if v, ok := ix.names[name]; ok {
		return Match[V]{Key: name, Value: v, Ratio: 100, Exact: true, Found: true}
	}

	var best Match[V]
	for _, key := range ix.order {
		// strictly greater keeps the earliest registered key on ties
		if r := PartialRatio(name, key); r > best.Ratio {
			best = Match[V]{Key: key, Value: ix.names[key], Ratio: r}
		}
	}
	best.Found = best.Key != "" && best.Ratio >= ix.threshold
	return best
}

// Names returns the registered names in registration order.
func (ix *Index[V]) Names() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}
