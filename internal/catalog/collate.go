package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newJapaneseCollator returns a fresh collator; collate.Collator is not safe for concurrent use.
func newJapaneseCollator() *collate.Collator {
	return collate.New(language.Japanese)
}

// SortExhibitions orders records by period start descending, records without a
// start date last, ties broken by title in Japanese collation order.
func SortExhibitions(list []Exhibition) {
	col := newJapaneseCollator()
	sort.SliceStable(list, func(i, j int) bool {
		a, aok := ParseISODate(list[i].Period.Start)
		b, bok := ParseISODate(list[j].Period.Start)
		switch {
		case aok && bok && !a.Equal(b):
			return a.After(b)
		case aok != bok:
			return aok
		default:
			return col.CompareString(list[i].Title, list[j].Title) < 0
		}
	})
}

func sortArtworksByID(list []Artwork) {
	col := newJapaneseCollator()
	sort.SliceStable(list, func(i, j int) bool {
		return col.CompareString(list[i].ArtworkID, list[j].ArtworkID) < 0
	})
}

// SortWarnings orders warnings by id, then type.
func SortWarnings(warnings []Warning) {
	col := newJapaneseCollator()
	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].ID == warnings[j].ID {
			return warnings[i].Type < warnings[j].Type
		}
		return col.CompareString(warnings[i].ID, warnings[j].ID) < 0
	})
}
