package catalog

// ArtworkEntry locates an artwork and the exhibition that lists it.
type ArtworkEntry struct {
	ExhibitionID string  `json:"exhibitionId"`
	Artwork      Artwork `json:"artwork"`
}

// BuildArtworkLookup indexes every attached artwork by id.
func BuildArtworkLookup(list []Exhibition) map[string]ArtworkEntry {
	lookup := make(map[string]ArtworkEntry)
	for _, ex := range list {
		for _, a := range ex.ArtworkList {
			lookup[a.ArtworkID] = ArtworkEntry{ExhibitionID: ex.ID, Artwork: a}
		}
	}
	return lookup
}
