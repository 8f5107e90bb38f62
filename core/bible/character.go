package bible

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
	"github.com/FocuswithJustin/JuniperCanon/core/fuzzy"
)

// Gender of a character.
type Gender int

const (
	GenderUnknown Gender = iota
	Male
	Female
)

// ParseGender accepts "male"/"m" and "female"/"f" in any case.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male
	case "female", "f":
		return Female
	default:
		return GenderUnknown
	}
}

func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "unknown"
	}
}

// ParentSlot names one of a character's two parent links.
type ParentSlot int

const (
	MotherSlot ParentSlot = iota
	FatherSlot
)

func (s ParentSlot) String() string {
	if s == MotherSlot {
		return "mother"
	}
	return "father"
}

// Other returns the opposite slot.
func (s ParentSlot) Other() ParentSlot {
	if s == MotherSlot {
		return FatherSlot
	}
	return MotherSlot
}

// ParentKind tags a ParentRef.
type ParentKind int

const (
	// ParentUnknown means the parent exists but is not recorded.
	ParentUnknown ParentKind = iota
	// ParentKnown means the parent is the character with ParentRef.ID.
	ParentKnown
	// ParentNotApplicable marks a progenitor with no parent at all.
	ParentNotApplicable
)

// ParentRef is a parent link. The zero value is an unknown parent.
type ParentRef struct {
	kind ParentKind
	id   int
}

// KnownParent links to the character numbered id.
func KnownParent(id int) ParentRef { return ParentRef{kind: ParentKnown, id: id} }

// UnknownParent records a parent that exists but is not identified.
func UnknownParent() ParentRef { return ParentRef{} }

// NoParent records that no parent exists.
func NoParent() ParentRef { return ParentRef{kind: ParentNotApplicable} }

// Kind returns the tag.
func (p ParentRef) Kind() ParentKind { return p.kind }

// ID returns the parent's number when the parent is known.
func (p ParentRef) ID() (int, bool) { return p.id, p.kind == ParentKnown }

func (p ParentRef) String() string {
	switch p.kind {
	case ParentKnown:
		return fmt.Sprintf("#%d", p.id)
	case ParentNotApplicable:
		return "n/a"
	default:
		return "unknown"
	}
}

// CharacterInfo describes a character to register.
type CharacterInfo struct {
	Number   int
	Name     string
	Gender   Gender
	Mother   ParentRef
	Father   ParentRef
	Spouses  []int
	Passages []*Passage
	Aliases  []string

	Age               int // years, 0 when unknown
	Born              string
	Died              string
	CauseOfDeath      string
	Nationality       string
	PlaceOfDeath      string
	PrimaryOccupation string
}

// Character is a person cross-referenced to passages of a Translation.
type Character struct {
	translation *Translation
	info        CharacterInfo

	// children is a copy-on-write snapshot of the numbers of characters that
	// name this one as a parent.
	children atomic.Pointer[[]int]
}

// NewCharacter registers a character. Children are linked in both
// directions: the new character is added to the children of any registered
// parent, and any registered character naming it as a parent becomes its child.
func (t *Translation) NewCharacter(info CharacterInfo) (*Character, error) {
	if _, ok := t.characters[info.Number]; ok {
		return nil, errors.NewSetup("character", "number %d (%s) is already registered", info.Number, info.Name)
	}
	for _, p := range info.Passages {
		if p.Translation() != t {
			return nil, errors.NewSetup("character", "%s occurs in %s, which belongs to another collection", info.Name, p)
		}
	}

	info.Spouses = append([]int(nil), info.Spouses...)
	info.Passages = append([]*Passage(nil), info.Passages...)
	info.Aliases = append([]string(nil), info.Aliases...)
	c := &Character{translation: t, info: info}
	c.children.Store(&[]int{})

	t.characters[c.info.Number] = c
	t.characterOrder = append(t.characterOrder, c)

	for _, slot := range []ParentSlot{MotherSlot, FatherSlot} {
		if id, ok := c.ParentRef(slot).ID(); ok {
			if parent, ok := t.characters[id]; ok {
				parent.addChild(c.info.Number)
			}
		}
	}
	for _, other := range t.characterOrder {
		if other == c {
			continue
		}
		for _, slot := range []ParentSlot{MotherSlot, FatherSlot} {
			if id, ok := other.ParentRef(slot).ID(); ok && id == c.info.Number {
				c.addChild(other.info.Number)
			}
		}
	}
	return c, nil
}

// addChild publishes a new children snapshot containing id. Adding an id
// that is already present is a no-op.
func (c *Character) addChild(id int) {
	for {
		old := c.children.Load()
		for _, existing := range *old {
			if existing == id {
				return
			}
		}
		next := make([]int, len(*old), len(*old)+1)
		copy(next, *old)
		next = append(next, id)
		if c.children.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Character returns the character numbered n.
func (t *Translation) Character(n int) (*Character, error) {
	if c, ok := t.characters[n]; ok {
		return c, nil
	}
	return nil, &errors.NotFoundError{Key: fmt.Sprintf("character %d", n), Threshold: t.threshold}
}

// CharacterByName returns the character whose name or alias best matches
// name. Equal scores go to the character occurring in more verses, then to
// the earlier registered.
func (t *Translation) CharacterByName(name string) (*Character, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	var (
		best       *Character
		bestKey    string
		bestRatio  int
		bestVerses int
	)
	for _, c := range t.characterOrder {
		key, r := "", -1
		for _, candidate := range append([]string{c.info.Name}, c.info.Aliases...) {
			if cr := fuzzy.PartialRatio(query, strings.ToLower(candidate)); cr > r {
				key, r = candidate, cr
			}
		}
		if best == nil || r > bestRatio || (r == bestRatio && c.VerseCount() > bestVerses) {
			best, bestKey, bestRatio, bestVerses = c, key, r, c.VerseCount()
		}
	}
	if best == nil || bestRatio < t.threshold {
		return nil, &errors.NotFoundError{Key: name, Closest: bestKey, Ratio: bestRatio, Threshold: t.threshold}
	}
	return best, nil
}

// Characters returns a selection over every character in registration order.
func (t *Translation) Characters() *Selection[*Character] {
	return Select(append([]*Character(nil), t.characterOrder...))
}

// Translation returns the owning collection.
func (c *Character) Translation() *Translation { return c.translation }

// Number returns the character's id.
func (c *Character) Number() int { return c.info.Number }

// Name returns the display name.
func (c *Character) Name() string { return c.info.Name }

// Gender returns the recorded gender.
func (c *Character) Gender() Gender { return c.info.Gender }

// Male reports whether the character is male.
func (c *Character) Male() bool { return c.info.Gender == Male }

// Female reports whether the character is female.
func (c *Character) Female() bool { return c.info.Gender == Female }

// Aliases returns the other names the character is known by.
func (c *Character) Aliases() []string { return append([]string(nil), c.info.Aliases...) }

// Age returns the age at death in years, 0 when unknown.
func (c *Character) Age() int { return c.info.Age }

// Born returns where or when the character was born, if recorded.
func (c *Character) Born() string { return c.info.Born }

// Died returns where or when the character died, if recorded.
func (c *Character) Died() string { return c.info.Died }

// CauseOfDeath returns the recorded cause of death.
func (c *Character) CauseOfDeath() string { return c.info.CauseOfDeath }

// Nationality returns the recorded nationality.
func (c *Character) Nationality() string { return c.info.Nationality }

// PlaceOfDeath returns the recorded place of death.
func (c *Character) PlaceOfDeath() string { return c.info.PlaceOfDeath }

// PrimaryOccupation returns the recorded occupation.
func (c *Character) PrimaryOccupation() string { return c.info.PrimaryOccupation }

// Passages returns the passages the character occurs in.
func (c *Character) Passages() []*Passage { return append([]*Passage(nil), c.info.Passages...) }

// VerseCount returns the number of verses across all of the character's passages.
func (c *Character) VerseCount() int {
	n := 0
	for _, p := range c.info.Passages {
		n += p.Len()
	}
	return n
}

// OccursIn reports whether any of the character's passages overlaps p.
func (c *Character) OccursIn(p *Passage) bool {
	for _, own := range c.info.Passages {
		if own.Overlaps(p) {
			return true
		}
	}
	return false
}

// IsProgenitor reports whether the character has no parents at all.
func (c *Character) IsProgenitor() bool {
	return c.info.Mother.kind == ParentNotApplicable && c.info.Father.kind == ParentNotApplicable
}

// ParentRef returns the raw parent link in slot.
func (c *Character) ParentRef(slot ParentSlot) ParentRef {
	if slot == MotherSlot {
		return c.info.Mother
	}
	return c.info.Father
}

// Parent resolves the parent in slot. It reports false when the parent is
// unknown, not applicable, or not registered.
func (c *Character) Parent(slot ParentSlot) (*Character, bool) {
	id, ok := c.ParentRef(slot).ID()
	if !ok {
		return nil, false
	}
	p, ok := c.translation.characters[id]
	return p, ok
}

// Mother resolves the mother.
func (c *Character) Mother() (*Character, bool) { return c.Parent(MotherSlot) }

// Father resolves the father.
func (c *Character) Father() (*Character, bool) { return c.Parent(FatherSlot) }

// Parents returns the resolvable parents, mother first.
func (c *Character) Parents() []*Character {
	var out []*Character
	for _, slot := range []ParentSlot{MotherSlot, FatherSlot} {
		if p, ok := c.Parent(slot); ok {
			out = append(out, p)
		}
	}
	return out
}

// Children returns the derived children in the order they were linked.
func (c *Character) Children() []*Character {
	return c.translation.lookup(*c.children.Load())
}

// Sons returns the male children.
func (c *Character) Sons() []*Character { return filterGender(c.Children(), Male) }

// Daughters returns the female children.
func (c *Character) Daughters() []*Character { return filterGender(c.Children(), Female) }

// Spouses returns the registered spouses.
func (c *Character) Spouses() []*Character { return c.translation.lookup(c.info.Spouses) }

// Husbands returns the male spouses.
func (c *Character) Husbands() []*Character { return filterGender(c.Spouses(), Male) }

// Wives returns the female spouses.
func (c *Character) Wives() []*Character { return filterGender(c.Spouses(), Female) }

// Siblings returns every other child of either resolvable parent, full and
// half siblings alike.
func (c *Character) Siblings() []*Character {
	seen := map[int]bool{c.info.Number: true}
	var out []*Character
	for _, p := range c.Parents() {
		for _, child := range p.Children() {
			if !seen[child.info.Number] {
				seen[child.info.Number] = true
				out = append(out, child)
			}
		}
	}
	return out
}

// Brothers returns the male siblings.
func (c *Character) Brothers() []*Character { return filterGender(c.Siblings(), Male) }

// Sisters returns the female siblings.
func (c *Character) Sisters() []*Character { return filterGender(c.Siblings(), Female) }

func (c *Character) String() string { return c.info.Name }

func (t *Translation) lookup(ids []int) []*Character {
	out := make([]*Character, 0, len(ids))
	for _, id := range ids {
		if c, ok := t.characters[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func filterGender(cs []*Character, g Gender) []*Character {
	var out []*Character
	for _, c := range cs {
		if c.info.Gender == g {
			out = append(out, c)
		}
	}
	return out
}
