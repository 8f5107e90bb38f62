package hydrate

import (
	"context"
	"os"
	"time"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
	"github.com/FocuswithJustin/JuniperCanon/core/errors"
	"github.com/FocuswithJustin/JuniperCanon/internal/logging"
)

// Options selects the hydration inputs. With neither Dataset nor OSIS set
// the built-in KJV versification is used.
type Options struct {
	Dataset   string
	OSIS      string
	Threshold int
}

// Result is a hydrated collection and the fingerprint of its inputs.
type Result struct {
	Translation *bible.Translation
	Fingerprint string
	Source      string
}

// Load reads the configured inputs and builds the collection.
func Load(ctx context.Context, opts Options) (*Result, error) {
	var (
		ds     *Dataset
		fp     string
		source string
		err    error
	)
	switch {
	case opts.Dataset != "":
		if ds, fp, err = LoadDataset(opts.Dataset); err != nil {
			return nil, err
		}
		source = opts.Dataset
	case opts.OSIS != "":
		ds, source = &Dataset{}, opts.OSIS
	default:
		ds, source = KJV(), "builtin:kjv"
	}

	if opts.OSIS != "" {
		books, err := loadOSIS(opts.OSIS)
		if err != nil {
			return nil, err
		}
		Merge(ds, books)
		if ds.Translation == "" {
			ds.Translation = "OSIS"
		}
		fp = ""
	}
	if fp == "" {
		fp = ds.Fingerprint()
	}

	var bopts []bible.Option
	if opts.Threshold > 0 {
		bopts = append(bopts, bible.WithRatioThreshold(opts.Threshold))
	}
	t, err := Build(ctx, ds, bopts...)
	if err != nil {
		return nil, err
	}
	return &Result{Translation: t, Fingerprint: fp, Source: source}, nil
}

func loadOSIS(path string) ([]BookRecord, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	books, err := ReadOSIS(f)
	if perr, ok := err.(*errors.ParseError); ok {
		perr.Path = path
	}
	return books, err
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	return f, nil
}

// Build registers every book, chapter, verse and character of ds and
// validates the result. Character passages are resolved against the
// books being built, so books always go first.
func Build(ctx context.Context, ds *Dataset, opts ...bible.Option) (*bible.Translation, error) {
	start := time.Now()
	t := bible.NewTranslation(ds.Translation, opts...)

	chapters, verses := 0, 0
	for _, rec := range ds.Books {
		b, err := t.NewBook(bible.BookInfo{
			Number:     rec.Number,
			Name:       rec.Name,
			AltNames:   rec.AltNames,
			Categories: rec.Categories,
			Author:     rec.Author,
			Language:   rec.Language,
		})
		if err != nil {
			return nil, err
		}
		for i, n := range rec.Chapters {
			if _, err := b.NewChapterWithVerses(i+1, n); err != nil {
				return nil, err
			}
			chapters++
			verses += n
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	for _, rec := range ds.Characters {
		info := bible.CharacterInfo{
			Number:            rec.Number,
			Name:              rec.Name,
			Gender:            bible.ParseGender(rec.Gender),
			Mother:            rec.Mother.ParentRef,
			Father:            rec.Father.ParentRef,
			Spouses:           rec.Spouses,
			Aliases:           rec.Aliases,
			Age:               rec.Age,
			Born:              rec.Born,
			Died:              rec.Died,
			CauseOfDeath:      rec.CauseOfDeath,
			Nationality:       rec.Nationality,
			PlaceOfDeath:      rec.PlaceOfDeath,
			PrimaryOccupation: rec.PrimaryOccupation,
		}
		for _, ref := range rec.Passages {
			p, err := t.Resolve(ref)
			if err != nil {
				return nil, errors.NewSetup("character", "%s (#%d) passage %q: %v", rec.Name, rec.Number, ref, err)
			}
			info.Passages = append(info.Passages, p)
		}
		if _, err := t.NewCharacter(info); err != nil {
			return nil, err
		}
	}

	logging.HydrationComplete(ctx, ds.Translation, t.Len(), chapters, verses, len(ds.Characters), time.Since(start))
	return t, nil
}
