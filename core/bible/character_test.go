package bible

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
)

func names(cs []*Character) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name())
	}
	return out
}

func mustPassage(t *testing.T, tr *Translation, ref string) *Passage {
	t.Helper()
	p, err := tr.Resolve(ref)
	require.NoError(t, err)
	return p
}

// newFamily registers the first generations of Genesis. Children are
// registered before Seth's son to exercise linking in both directions.
func newFamily(t *testing.T) *Translation {
	t.Helper()
	tr := newTestTranslation(t)
	people := []CharacterInfo{
		{Number: 6, Name: "Enosh", Gender: Male, Father: KnownParent(5), Passages: []*Passage{mustPassage(t, tr, "Gen 3:20")}},
		{Number: 1, Name: "Adam", Gender: Male, Mother: NoParent(), Father: NoParent(), Spouses: []int{2},
			Passages: []*Passage{mustPassage(t, tr, "Gen 1:26-3:24")}},
		{Number: 2, Name: "Eve", Gender: Female, Mother: NoParent(), Father: NoParent(), Spouses: []int{1},
			Aliases: []string{"Hawwah"}, Passages: []*Passage{mustPassage(t, tr, "Gen 3:20")}},
		{Number: 3, Name: "Cain", Gender: Male, Mother: KnownParent(2), Father: KnownParent(1),
			Passages: []*Passage{mustPassage(t, tr, "Gen 3:1-5")}},
		{Number: 4, Name: "Abel", Gender: Male, Mother: KnownParent(2), Father: KnownParent(1),
			Passages: []*Passage{mustPassage(t, tr, "Gen 3:2")}},
		{Number: 5, Name: "Seth", Gender: Male, Mother: KnownParent(2), Father: KnownParent(1)},
		{Number: 7, Name: "Awan", Gender: Female, Mother: KnownParent(2), Father: KnownParent(1)},
		{Number: 8, Name: "Abel", Gender: Male, Passages: []*Passage{mustPassage(t, tr, "Exodus 1-")}},
	}
	for _, info := range people {
		_, err := tr.NewCharacter(info)
		require.NoError(t, err, info.Name)
	}
	return tr
}

func character(t *testing.T, tr *Translation, n int) *Character {
	t.Helper()
	c, err := tr.Character(n)
	require.NoError(t, err)
	return c
}

func TestCharacterFamily(t *testing.T) {
	tr := newFamily(t)
	adam, eve, cain, seth, enosh := character(t, tr, 1), character(t, tr, 2), character(t, tr, 3),
		character(t, tr, 5), character(t, tr, 6)

	assert.True(t, adam.IsProgenitor())
	assert.False(t, cain.IsProgenitor())

	mother, ok := cain.Mother()
	require.True(t, ok)
	assert.Same(t, eve, mother)

	father, ok := enosh.Father()
	require.True(t, ok)
	assert.Same(t, seth, father, "child registered before its parent is still linked")

	_, ok = enosh.Mother()
	assert.False(t, ok)
	assert.Equal(t, ParentUnknown, enosh.ParentRef(MotherSlot).Kind())
	_, ok = adam.Mother()
	assert.False(t, ok)
	assert.Equal(t, ParentNotApplicable, adam.ParentRef(MotherSlot).Kind())

	assert.Equal(t, []string{"Cain", "Abel", "Seth", "Awan"}, names(adam.Children()))
	assert.Equal(t, []string{"Cain", "Abel", "Seth"}, names(eve.Sons()))
	assert.Equal(t, []string{"Awan"}, names(eve.Daughters()))
	assert.Equal(t, []string{"Enosh"}, names(seth.Children()))

	assert.Equal(t, []string{"Abel", "Seth", "Awan"}, names(cain.Siblings()))
	assert.Equal(t, []string{"Abel", "Seth"}, names(cain.Brothers()))
	assert.Equal(t, []string{"Awan"}, names(cain.Sisters()))

	assert.Equal(t, []string{"Eve"}, names(adam.Wives()))
	assert.Equal(t, []string{"Adam"}, names(eve.Husbands()))
	assert.Empty(t, adam.Husbands())

	assert.Equal(t, []string{"Eve", "Adam"}, names(cain.Parents()))
}

func TestAncestorsAndDescendants(t *testing.T) {
	tr := newFamily(t)
	adam, enosh := character(t, tr, 1), character(t, tr, 6)

	var ancestors []*Character
	for a := range enosh.Ancestors() {
		ancestors = append(ancestors, a)
	}
	assert.Equal(t, []string{"Seth", "Eve", "Adam"}, names(ancestors))

	var descendants []*Character
	for d := range adam.Descendants() {
		descendants = append(descendants, d)
	}
	assert.Equal(t, []string{"Cain", "Abel", "Seth", "Awan", "Enosh"}, names(descendants))

	assert.True(t, adam.IsAncestorOf(enosh))
	assert.False(t, enosh.IsAncestorOf(adam))
}

func TestLineage(t *testing.T) {
	tr := newFamily(t)
	adam, cain, enosh := character(t, tr, 1), character(t, tr, 3), character(t, tr, 6)

	line, ok := tr.Lineage(adam, enosh)
	require.True(t, ok)
	assert.Equal(t, []string{"Adam", "Seth", "Enosh"}, names(line))

	_, ok = tr.Lineage(cain, enosh)
	assert.False(t, ok)
}

func TestProgenitors(t *testing.T) {
	tr := newFamily(t)
	assert.Equal(t, []string{"Adam", "Eve"}, names(tr.Progenitors()))
}

func TestCharacterRegistrationErrors(t *testing.T) {
	tr := newFamily(t)

	_, err := tr.NewCharacter(CharacterInfo{Number: 1, Name: "Adam again"})
	assert.ErrorIs(t, err, errors.ErrSetup)

	other := newTestTranslation(t)
	_, err = tr.NewCharacter(CharacterInfo{Number: 99, Name: "Stranger",
		Passages: []*Passage{mustPassage(t, other, "Gen 1:1")}})
	assert.ErrorIs(t, err, errors.ErrSetup)

	_, err = tr.Character(404)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestCharacterByName(t *testing.T) {
	tr := newFamily(t)

	c, err := tr.CharacterByName("Adam")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Number())

	c, err = tr.CharacterByName("hawwah")
	require.NoError(t, err)
	assert.Equal(t, "Eve", c.Name(), "aliases are searched")

	// Two characters are named Abel; the one in more verses wins.
	c, err = tr.CharacterByName("Abel")
	require.NoError(t, err)
	assert.Equal(t, 8, c.Number())

	_, err = tr.CharacterByName("Zipporah")
	var nf *errors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.NotEmpty(t, nf.Closest)
}

func TestCharacterOccurrences(t *testing.T) {
	tr := newFamily(t)

	v, err := tr.Verse(1003020)
	require.NoError(t, err)
	assert.Equal(t, []string{"Enosh", "Adam", "Eve"}, names(v.Characters()))

	gen3, err := tr.First().Chapter(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Enosh", "Adam", "Eve", "Cain", "Abel"}, names(gen3.Characters()))

	exodus, err := tr.Book("Exodus")
	require.NoError(t, err)
	assert.Equal(t, []string{"Abel"}, names(exodus.Characters()))

	p := mustPassage(t, tr, "Gen 1:1-25")
	assert.Empty(t, p.Characters())

	adam := character(t, tr, 1)
	assert.Equal(t, 80-25, adam.VerseCount())
}

func TestCharacterFilters(t *testing.T) {
	tr := newFamily(t)

	women := tr.Characters().Where(CharacterGender.Eq(Female)).All()
	assert.Equal(t, []string{"Eve", "Awan"}, names(women))

	abels := tr.Characters().Where(CharacterName.Eq("Abel"))
	assert.Equal(t, 2, abels.Len())

	busy := tr.Characters().Where(CharacterVerses.Gt(5), CharacterGender.Eq(Male)).All()
	assert.Equal(t, []string{"Adam", "Abel"}, names(busy))

	_, ok := tr.Characters().Where(CharacterName.In("Cain", "Seth")).One()
	assert.False(t, ok)
}

func TestChildrenSnapshotsAreRaceFree(t *testing.T) {
	tr := newTestTranslation(t)
	parent, err := tr.NewCharacter(CharacterInfo{Number: 1, Name: "Jacob", Gender: Male})
	require.NoError(t, err)

	stop := make(chan struct{})
	var reader sync.WaitGroup
	reader.Add(1)
	go func() {
		defer reader.Done()
		for {
			select {
			case <-stop:
				return
			default:
				seen := make(map[int]bool)
				for _, id := range *parent.children.Load() {
					assert.False(t, seen[id], "duplicate child %d", id)
					seen[id] = true
				}
			}
		}
	}()

	var writers sync.WaitGroup
	for n := 2; n <= 13; n++ {
		writers.Add(2)
		for range 2 {
			go func() {
				defer writers.Done()
				parent.addChild(n)
			}()
		}
	}
	writers.Wait()
	close(stop)
	reader.Wait()

	assert.Len(t, *parent.children.Load(), 12)
}

func TestGenderAndParentRef(t *testing.T) {
	assert.Equal(t, Male, ParseGender("M"))
	assert.Equal(t, Female, ParseGender(" female "))
	assert.Equal(t, GenderUnknown, ParseGender(""))
	assert.Equal(t, "female", Female.String())

	id, ok := KnownParent(7).ID()
	assert.True(t, ok)
	assert.Equal(t, 7, id)
	_, ok = UnknownParent().ID()
	assert.False(t, ok)
	assert.Equal(t, "n/a", NoParent().String())
	assert.Equal(t, FatherSlot, MotherSlot.Other())
}
