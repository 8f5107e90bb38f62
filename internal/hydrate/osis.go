package hydrate

import (
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/JuniperCanon/core/errors"
)

var (
	bookPath  = xpath.MustCompile(`//div[@type='book']`)
	titlePath = xpath.MustCompile(`title[not(@type) or @type='main']`)
	versePath = xpath.MustCompile(`.//verse[@osisID or @sID]`)
)

// ReadOSIS derives book records from an OSIS document. Books are numbered
// in document order and chapter verse counts come from the highest verse
// number seen in each chapter, whether verses are containers (osisID) or
// milestones (sID). A book's title, when present, becomes its name and its
// osisID an alternative name.
func ReadOSIS(r io.Reader) ([]BookRecord, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, parseError("OSIS", "", err)
	}

	var books []BookRecord
	for _, node := range xmlquery.QuerySelectorAll(doc, bookPath) {
		osisID := strings.TrimSpace(node.SelectAttr("osisID"))
		if osisID == "" {
			return nil, errors.NewParse("OSIS", "", "book division without osisID")
		}

		rec := BookRecord{Number: len(books) + 1, Name: osisID, OSIS: osisID}
		if title := xmlquery.QuerySelector(node, titlePath); title != nil {
			if text := strings.Join(strings.Fields(title.InnerText()), " "); text != "" {
				rec.Name = text
				rec.AltNames = []string{osisID}
			}
		}

		for _, verse := range xmlquery.QuerySelectorAll(node, versePath) {
			ids := verse.SelectAttr("osisID")
			if ids == "" {
				ids = verse.SelectAttr("sID")
			}
			for _, id := range strings.Fields(ids) {
				chapter, number, err := splitOSISRef(osisID, id)
				if err != nil {
					return nil, err
				}
				for len(rec.Chapters) < chapter {
					rec.Chapters = append(rec.Chapters, 0)
				}
				rec.Chapters[chapter-1] = max(rec.Chapters[chapter-1], number)
			}
		}
		books = append(books, rec)
	}
	if len(books) == 0 {
		return nil, errors.NewParse("OSIS", "", "no book divisions found")
	}
	return books, nil
}

// splitOSISRef parses "Gen.1.3" belonging to book.
func splitOSISRef(book, id string) (chapter, verse int, err error) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 || parts[0] != book {
		return 0, 0, errors.NewParse("OSIS", "", "verse "+strconv.Quote(id)+" is not of the form "+book+".C.V")
	}
	chapter, errC := strconv.Atoi(parts[1])
	verse, errV := strconv.Atoi(parts[2])
	if errC != nil || errV != nil || chapter < 1 || verse < 1 {
		return 0, 0, errors.NewParse("OSIS", "", "verse "+strconv.Quote(id)+" has invalid numbers")
	}
	return chapter, verse, nil
}

// Merge folds OSIS-derived books into ds. A book is matched by OSIS
// identifier, then by number; the OSIS chapter counts replace the
// dataset's. Unmatched books are appended.
func Merge(ds *Dataset, osis []BookRecord) {
	for _, o := range osis {
		i := ds.find(o)
		if i < 0 {
			ds.Books = append(ds.Books, o)
			continue
		}
		b := &ds.Books[i]
		b.Chapters = append([]int(nil), o.Chapters...)
		if b.OSIS == "" {
			b.OSIS = o.OSIS
		}
	}
}

func (ds *Dataset) find(o BookRecord) int {
	for i, b := range ds.Books {
		if o.OSIS != "" && b.OSIS == o.OSIS {
			return i
		}
	}
	for i, b := range ds.Books {
		if b.Number == o.Number {
			return i
		}
	}
	return -1
}
