package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
	"github.com/FocuswithJustin/JuniperCanon/core/errors"
	"github.com/FocuswithJustin/JuniperCanon/core/kinship"
	"github.com/FocuswithJustin/JuniperCanon/internal/content"
	"github.com/FocuswithJustin/JuniperCanon/internal/logging"
	"github.com/FocuswithJustin/JuniperCanon/internal/validation"
)

// ResolveCmd resolves a reference.
type ResolveCmd struct {
	Reference string `arg:"" help:"Reference such as \"Genesis 1:1-3\" or \"1 John\""`
}

func (c *ResolveCmd) Run(e *env) error {
	t, err := e.Translation()
	if err != nil {
		return err
	}
	p, err := t.Resolve(c.Reference)
	if err != nil {
		return err
	}
	printPassage(e, c.Reference, p)
	return nil
}

// OrdinalCmd resolves a numeric reference.
type OrdinalCmd struct {
	Reference string `arg:"" help:"Ordinal reference such as 1001001-1001003"`
}

func (c *OrdinalCmd) Run(e *env) error {
	t, err := e.Translation()
	if err != nil {
		return err
	}
	p, err := t.ResolveOrdinal(c.Reference)
	if err != nil {
		return err
	}
	printPassage(e, c.Reference, p)
	return nil
}

func printPassage(e *env, reference string, p *bible.Passage) {
	n := p.Len()
	logging.ReferenceResolved(e.ctx, reference, p.String(), n)
	fmt.Fprintln(e.out, p.String())
	fmt.Fprintln(e.out, p.OrdinalString())
	fmt.Fprintf(e.out, "%d %s\n", n, plural(n, "verse"))
}

// VersesCmd lists the verses of a passage.
type VersesCmd struct {
	Reference string `arg:"" help:"Reference to list"`
	Text      bool   `help:"Include verse text from the text database"`
}

func (c *VersesCmd) Run(e *env) error {
	t, err := e.Translation()
	if err != nil {
		return err
	}
	p, err := t.Resolve(c.Reference)
	if err != nil {
		return err
	}
	if !c.Text {
		for v := range p.Verses() {
			fmt.Fprintf(e.out, "%d\t%s\n", v.Ordinal(), v)
		}
		return nil
	}

	src, err := e.Source()
	if err != nil {
		return err
	}
	for v := range p.Verses() {
		text, err := content.VerseText(e.ctx, src, v)
		if err != nil {
			logging.ContentError(e.ctx, "verse_text", err, "verse", v.String())
			return err
		}
		fmt.Fprintf(e.out, "%s\t%s\n", v, text)
	}
	return nil
}

// BooksCmd lists the books of the collection.
type BooksCmd struct {
	Category string `short:"C" help:"Only list books in this category"`
}

func (c *BooksCmd) Run(e *env) error {
	t, err := e.Translation()
	if err != nil {
		return err
	}
	books := t.SelectBooks()
	if c.Category != "" {
		cat, err := t.Category(c.Category)
		if err != nil {
			return err
		}
		books = bible.Select(cat.Books())
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	for _, b := range books.All() {
		var cats []string
		for _, cat := range b.Categories() {
			cats = append(cats, cat.Name())
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", b.Number(), b.Name(), b.Len(), strings.Join(cats, ", "))
	}
	return w.Flush()
}

// CharacterCmd shows one character.
type CharacterCmd struct {
	Who string `arg:"" help:"Character name or number"`
}

func (c *CharacterCmd) Run(e *env) error {
	t, err := e.Translation()
	if err != nil {
		return err
	}
	ch, err := lookupCharacter(t, c.Who)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s:\t%s\n", label, value)
		}
	}
	field("Name", fmt.Sprintf("%s (#%d)", ch.Name(), ch.Number()))
	field("Gender", ch.Gender().String())
	field("Aliases", strings.Join(ch.Aliases(), ", "))
	field("Mother", parent(ch, bible.MotherSlot))
	field("Father", parent(ch, bible.FatherSlot))
	field("Spouses", names(ch.Spouses()))
	field("Children", names(ch.Children()))
	field("Siblings", names(ch.Siblings()))
	if ch.Age() > 0 {
		field("Age", strconv.Itoa(ch.Age()))
	}
	field("Born", ch.Born())
	field("Died", ch.Died())
	field("Cause of death", ch.CauseOfDeath())
	field("Place of death", ch.PlaceOfDeath())
	field("Nationality", ch.Nationality())
	field("Occupation", ch.PrimaryOccupation())
	var passages []string
	for _, p := range ch.Passages() {
		passages = append(passages, p.String())
	}
	field("Passages", strings.Join(passages, "; "))
	return w.Flush()
}

func parent(ch *bible.Character, slot bible.ParentSlot) string {
	if p, ok := ch.Parent(slot); ok {
		return p.Name()
	}
	return ch.ParentRef(slot).String()
}

// KinshipCmd describes what the second character is to the first.
type KinshipCmd struct {
	From string `arg:"" help:"Character the relationship is described from"`
	To   string `arg:"" help:"Character whose relationship is described"`
}

func (c *KinshipCmd) Run(e *env) error {
	t, err := e.Translation()
	if err != nil {
		return err
	}
	a, err := lookupCharacter(t, c.From)
	if err != nil {
		return err
	}
	b, err := lookupCharacter(t, c.To)
	if err != nil {
		return err
	}

	res := kinship.Calculate(a, b)
	if !res.Related() {
		fmt.Fprintf(e.out, "%s and %s are not related\n", a.Name(), b.Name())
		return nil
	}
	fmt.Fprintf(e.out, "%s is %s's:\n", b.Name(), a.Name())
	for _, r := range res.Relations {
		if r.FromA == 0 || r.FromB == 0 {
			fmt.Fprintf(e.out, "  %s (%s)\n", r.Name, r.Relatedness)
			continue
		}
		fmt.Fprintf(e.out, "  %s (%s) through %s\n", r.Name, r.Relatedness, names(r.Ancestors))
	}
	fmt.Fprintf(e.out, "Relatedness: %s\n", res.Relatedness)
	return nil
}

// LineageCmd shows the line of descent.
type LineageCmd struct {
	Ancestor   string `arg:"" help:"Ancestor"`
	Descendant string `arg:"" help:"Descendant"`
}

func (c *LineageCmd) Run(e *env) error {
	t, err := e.Translation()
	if err != nil {
		return err
	}
	a, err := lookupCharacter(t, c.Ancestor)
	if err != nil {
		return err
	}
	d, err := lookupCharacter(t, c.Descendant)
	if err != nil {
		return err
	}
	line, ok := t.Lineage(a, d)
	if !ok {
		return errors.NewValidation("descendant", fmt.Sprintf("%s does not descend from %s", d.Name(), a.Name()))
	}
	for _, ch := range line {
		fmt.Fprintln(e.out, ch.Name())
	}
	return nil
}

// TextImportCmd imports verse text.
type TextImportCmd struct {
	Path string `arg:"" help:"Tab-separated file of ordinal and text" type:"existingfile"`
}

func (c *TextImportCmd) Run(e *env) error {
	t, err := e.Translation()
	if err != nil {
		return err
	}
	if _, err := validation.CheckFile("path", c.Path, validation.FileTypeText); err != nil {
		return err
	}
	s, err := e.Store()
	if err != nil {
		return err
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return errors.NewIO("open", c.Path, err)
	}
	defer f.Close()

	n, err := s.Import(e.ctx, t, e.collection.Fingerprint, f)
	if err != nil {
		if perr, ok := err.(*errors.ParseError); ok {
			perr.Path = c.Path
		}
		logging.ContentError(e.ctx, "import", err, "path", c.Path)
		return err
	}
	logging.InfoContext(e.ctx, "text_imported", "path", c.Path, "verses", n, "store", s.Path())
	fmt.Fprintf(e.out, "Imported %d %s into %s\n", n, plural(n, "verse"), s.Path())
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	fmt.Fprintf(e.out, "juniper-canon version %s\n", version)
	return nil
}

// lookupCharacter accepts a character number or a name.
func lookupCharacter(t *bible.Translation, who string) (*bible.Character, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(who)); err == nil {
		return t.Character(n)
	}
	return t.CharacterByName(who)
}

func names(cs []*bible.Character) string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return strings.Join(out, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
