package catalog

// ArtworkRef identifies an artwork inside an exhibition.
type ArtworkRef struct {
	ExhibitionID string `json:"exhibitionId"`
	ArtworkID    string `json:"artworkId"`
}

type artworkBucket struct {
	items []Artwork
	ids   map[string]struct{}
	used  bool
}

type artworkIndex struct {
	buckets    map[string]*artworkBucket
	order      []string
	duplicates []ArtworkRef
	warnings   []Warning
}

// indexArtworksByExhibition groups artworks per exhibition, dropping records
// without an exhibition and duplicate ids within one exhibition.
func indexArtworksByExhibition(artworks []Artwork) *artworkIndex {
	idx := &artworkIndex{buckets: make(map[string]*artworkBucket)}
	for _, a := range artworks {
		if a.ExhibitionID == "" {
			idx.warnings = append(idx.warnings, Warning{
				Type:      WarningMissingRequired,
				ArtworkID: a.ArtworkID,
				Message:   "Artwork missing exhibitionId",
				Scope:     ScopeExhibitions,
			})
			continue
		}
		b, ok := idx.buckets[a.ExhibitionID]
		if !ok {
			b = &artworkBucket{ids: make(map[string]struct{})}
			idx.buckets[a.ExhibitionID] = b
			idx.order = append(idx.order, a.ExhibitionID)
		}
		if _, dup := b.ids[a.ArtworkID]; dup {
			idx.duplicates = append(idx.duplicates, ArtworkRef{ExhibitionID: a.ExhibitionID, ArtworkID: a.ArtworkID})
			idx.warnings = append(idx.warnings, Warning{
				Type:         WarningDuplicateArtworkID,
				ExhibitionID: a.ExhibitionID,
				ArtworkID:    a.ArtworkID,
				Message:      "Duplicate artworkId detected within exhibition",
				Scope:        ScopeExhibitions,
			})
			continue
		}
		b.ids[a.ArtworkID] = struct{}{}
		b.items = append(b.items, a)
	}
	for _, b := range idx.buckets {
		sortArtworksByID(b.items)
	}
	return idx
}

// orphans reports every artwork whose exhibition never appeared in the sheet.
func (idx *artworkIndex) orphans() []Warning {
	var out []Warning
	for _, exhibitionID := range idx.order {
		b := idx.buckets[exhibitionID]
		if b.used {
			continue
		}
		for _, a := range b.items {
			out = append(out, Warning{
				Type:         WarningOrphanedArtwork,
				ExhibitionID: exhibitionID,
				ArtworkID:    a.ArtworkID,
				Message:      "Artwork references a non-existent exhibition",
				Scope:        ScopeExhibitions,
			})
		}
	}
	return out
}
