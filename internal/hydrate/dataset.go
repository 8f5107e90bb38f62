// Package hydrate builds a bible.Translation from structured records.
//
// Records come from a JSON dataset (optionally xz-compressed), from an OSIS
// document's verse markers, or from the built-in KJV versification. Every
// dataset is fingerprinted with BLAKE3 so content stores can tell which
// collection their text was imported against.
package hydrate

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
	"github.com/FocuswithJustin/JuniperCanon/core/errors"
)

// Dataset is the serialised form of a collection.
type Dataset struct {
	Translation string            `json:"translation"`
	Books       []BookRecord      `json:"books"`
	Characters  []CharacterRecord `json:"characters,omitempty"`
}

// BookRecord describes one book and the verse count of each chapter.
type BookRecord struct {
	Number     int      `json:"number"`
	Name       string   `json:"name"`
	OSIS       string   `json:"osis,omitempty"`
	AltNames   []string `json:"alt_names,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Author     string   `json:"author,omitempty"`
	Language   string   `json:"language,omitempty"`
	Chapters   []int    `json:"chapters"`
}

// CharacterRecord describes one character. Passages are references
// resolved against the collection being built.
type CharacterRecord struct {
	Number            int         `json:"number"`
	Name              string      `json:"name"`
	Gender            string      `json:"gender,omitempty"`
	Mother            ParentField `json:"mother"`
	Father            ParentField `json:"father"`
	Spouses           []int       `json:"spouses,omitempty"`
	Passages          []string    `json:"passages,omitempty"`
	Aliases           []string    `json:"aliases,omitempty"`
	Age               int         `json:"age,omitempty"`
	Born              string      `json:"born,omitempty"`
	Died              string      `json:"died,omitempty"`
	CauseOfDeath      string      `json:"cause_of_death,omitempty"`
	Nationality       string      `json:"nationality,omitempty"`
	PlaceOfDeath      string      `json:"place_of_death,omitempty"`
	PrimaryOccupation string      `json:"primary_occupation,omitempty"`
}

// notApplicable marks a parent that does not exist, as for Adam and Eve.
const notApplicable = "n/a"

// ParentField is the JSON form of a parent reference: a character number,
// "n/a" when there is no parent, and null, an absent field or "unknown"
// when the parent is not recorded.
type ParentField struct {
	bible.ParentRef
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ParentField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		p.ParentRef = bible.UnknownParent()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		p.ParentRef = bible.KnownParent(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parent must be a number, %q or \"unknown\": %s", notApplicable, data)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case notApplicable, "none":
		p.ParentRef = bible.NoParent()
	case "", "unknown":
		p.ParentRef = bible.UnknownParent()
	default:
		return fmt.Errorf("parent must be a number, %q or \"unknown\": %q", notApplicable, s)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p ParentField) MarshalJSON() ([]byte, error) {
	switch p.Kind() {
	case bible.ParentKnown:
		id, _ := p.ID()
		return json.Marshal(id)
	case bible.ParentNotApplicable:
		return json.Marshal(notApplicable)
	default:
		return []byte("null"), nil
	}
}

// xzMagic opens every xz stream.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// Fingerprint returns the hex BLAKE3 digest of data.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReadDataset decodes a JSON dataset, transparently decompressing xz input.
// It returns the dataset and the fingerprint of the decompressed JSON.
func ReadDataset(r io.Reader) (*Dataset, string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", errors.NewIO("read", "dataset", err)
	}
	if bytes.HasPrefix(raw, xzMagic) {
		xr, err := xz.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, "", parseError("xz", "", err)
		}
		if raw, err = io.ReadAll(xr); err != nil {
			return nil, "", parseError("xz", "", err)
		}
	}

	var ds Dataset
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, "", parseError("JSON", "", err)
	}
	return &ds, Fingerprint(raw), nil
}

// LoadDataset reads the dataset at path.
func LoadDataset(path string) (*Dataset, string, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	ds, fp, err := ReadDataset(f)
	if perr, ok := err.(*errors.ParseError); ok {
		perr.Path = path
	}
	return ds, fp, err
}

// WriteDataset encodes ds as indented JSON, xz-compressed when compress is set.
func WriteDataset(w io.Writer, ds *Dataset, compress bool) error {
	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode dataset")
	}
	if !compress {
		_, err = w.Write(raw)
		return err
	}
	xw, err := xz.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "create xz writer")
	}
	if _, err := xw.Write(raw); err != nil {
		return err
	}
	return xw.Close()
}

// Fingerprint returns the BLAKE3 digest of the dataset's JSON encoding.
func (ds *Dataset) Fingerprint() string {
	raw, err := json.Marshal(ds)
	if err != nil {
		return ""
	}
	return Fingerprint(raw)
}

func parseError(format, path string, err error) *errors.ParseError {
	perr := errors.NewParse(format, path, err.Error())
	perr.Err = err
	return perr
}
