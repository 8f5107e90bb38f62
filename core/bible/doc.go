// Package bible models a scripture collection as a strict four-level tree and
// resolves human-typed references against it.
//
// # Hierarchy
//
//   - Translation: the collection root; owns Books and Characters
//   - Book: owns Chapters numbered densely from 1
//   - Chapter: owns Verses numbered densely from 1
//   - Verse: a leaf addressed by its ordinal key
//
// Every level exposes an ordinal key, book ‖ chapter(3) ‖ verse(3) as one
// integer, which totally orders the collection across book and chapter
// boundaries. Navigation with Next/Previous moves between siblings and, with
// overspill, into the neighbouring parent.
//
// # References
//
// Translation.Resolve accepts references such as "Genesis 1:1-3", "Jn 3:16",
// "1-3" or "-" (the whole collection). Book.Passage and Chapter.Passage accept
// the same grammar with the outer levels fixed, and Translation.ResolveOrdinal
// accepts fixed-width numeric references such as "1001001-1001003".
//
// # Characters
//
// Characters are people cross-referenced to passages. Parent and spouse links
// are numeric ids resolved through the owning Translation, never pointers, so
// the graph has no ownership cycles. Children are derived when a character is
// registered and are published as immutable snapshots.
//
// # Example
//
//	kjv := bible.NewTranslation("KJV")
//	gen, err := kjv.NewBook(bible.BookInfo{Number: 1, Name: "Genesis"})
//	if err != nil {
//	    return err
//	}
//	ch, err := gen.NewChapter(1)
//	if err != nil {
//	    return err
//	}
//	if err := ch.NewVerses(31); err != nil {
//	    return err
//	}
//
//	passage, err := kjv.Resolve("Genesis 1:1-3")
//	if err != nil {
//	    return err
//	}
//	for v := range passage.Verses() {
//	    fmt.Println(v)
//	}
package bible
