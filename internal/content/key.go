// Package content is the boundary to verse text. The engine models only
// the shape of a collection; text comes from a Source keyed by translation
// and ordinal and is memoised on each Verse once fetched.
package content

import (
	"fmt"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
)

// Key addresses one verse of one translation.
type Key struct {
	Translation string
	Ordinal     int
}

// KeyOf returns the key of v.
func KeyOf(v *bible.Verse) Key {
	return Key{Translation: v.Translation().Name(), Ordinal: v.Ordinal()}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Translation, k.Ordinal)
}
