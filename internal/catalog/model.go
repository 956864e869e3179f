package catalog

import "time"

// WarningType classifies a data problem found while normalizing sheets.
type WarningType string

const (
	WarningDuplicateID          WarningType = "DUPLICATE_ID"
	WarningInvalidURL           WarningType = "INVALID_URL"
	WarningInvalidDate          WarningType = "INVALID_DATE"
	WarningMissingRequired      WarningType = "MISSING_REQUIRED"
	WarningMissingImage         WarningType = "MISSING_IMAGE"
	WarningOrphanedArtwork      WarningType = "ORPHANED_ARTWORK"
	WarningDuplicateArtworkID   WarningType = "DUPLICATE_ARTWORK_ID"
	WarningArtworkTitleMismatch WarningType = "ARTWORK_TITLE_MISMATCH"
)

// Warning sources, used as the log scope.
const (
	ScopeExhibitions = "exhibitions-sync"
	ScopeArtworks    = "artworks-sync"
)

// Warning describes a skipped row or a repaired value.
type Warning struct {
	Type         WarningType `json:"type"`
	ID           string      `json:"id,omitempty"`
	ExhibitionID string      `json:"exhibitionId,omitempty"`
	ArtworkID    string      `json:"artworkId,omitempty"`
	Row          int         `json:"row,omitempty"`
	Message      string      `json:"message"`
	Scope        string      `json:"-"`
}

// Artwork is a normalized row of the artwork sheet.
type Artwork struct {
	ArtworkID       string `json:"artworkId"`
	ExhibitionID    string `json:"exhibitionId"`
	Title           string `json:"title"`
	ExhibitionTitle string `json:"exhibitionTitle"`
	DisplayID       string `json:"displayId,omitempty"`
	ArtistName      string `json:"artistName,omitempty"`
	Description     string `json:"description,omitempty"`
	Notes           string `json:"notes,omitempty"`
	IntroMediaURL   string `json:"introMediaUrl,omitempty"`
	ReferenceURL    string `json:"referenceUrl,omitempty"`
	AudioURL        string `json:"audioUrl,omitempty"`
	ArticleURL      string `json:"articleUrl,omitempty"`
	Image           string `json:"image,omitempty"`
	InputDate       string `json:"inputDate,omitempty"`
	LastSyncedAt    string `json:"lastSyncedAt"`
	DetailURL       string `json:"detailUrl,omitempty"`
}

// Period is the exhibition run. Start and End are ISO dates (yyyy-mm-dd).
type Period struct {
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Display string `json:"display,omitempty"`
}

// RelatedURL is an external link shown in the resources section.
type RelatedURL struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// FocalPoint positions the hero crop, both axes in [0,1].
type FocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HeroImage is the key visual of an exhibition.
type HeroImage struct {
	Src        string     `json:"src"`
	Alt        string     `json:"alt"`
	FocalPoint FocalPoint `json:"focalPoint"`
}

// Internal holds staff-only links that never reach public pages.
type Internal struct {
	InventoryURL string `json:"inventoryUrl,omitempty"`
	DetailDocURL string `json:"detailDocUrl,omitempty"`
	NoteURL      string `json:"noteUrl,omitempty"`
}

// Exhibition is a normalized row of the exhibition sheet.
type Exhibition struct {
	ID                 string       `json:"id"`
	Slug               string       `json:"slug"`
	Title              string       `json:"title"`
	Period             Period       `json:"period"`
	Venue              string       `json:"venue"`
	Summary            string       `json:"summary"`
	Background         string       `json:"background,omitempty"`
	Highlights         string       `json:"highlights,omitempty"`
	HighlightsBlocks   []string     `json:"highlightsBlocks"`
	OfficialURL        string       `json:"officialUrl"`
	RelatedURLs        []RelatedURL `json:"relatedUrls"`
	HeroImage          HeroImage    `json:"heroImage"`
	ArtworkList        []Artwork    `json:"artworkList"`
	FeaturedArtworkIDs []string     `json:"featuredArtworkIds"`
	Tags               []string     `json:"tags"`
	DetailURL          string       `json:"detailUrl"`
	Internal           *Internal    `json:"-"`
}

// Meta describes a sync run.
type Meta struct {
	FetchedAt            time.Time           `json:"fetchedAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
	SourceSpreadsheet    string              `json:"sourceSpreadsheet,omitempty"`
	ArtworkSpreadsheetID string              `json:"artworkSpreadsheetId,omitempty"`
	ArtworkSortKey       string              `json:"artworkSortKey,omitempty"`
	Warnings             []Warning           `json:"warnings"`
	Internal             map[string]Internal `json:"internal,omitempty"`
}

// Dataset is the public exhibition list plus sync metadata.
type Dataset struct {
	List []Exhibition `json:"list"`
	Meta Meta         `json:"meta"`
}

// ArtworkCount returns the number of artworks attached to published exhibitions.
func (d *Dataset) ArtworkCount() int {
	n := 0
	for i := range d.List {
		n += len(d.List[i].ArtworkList)
	}
	return n
}

// FindBySlug returns the exhibition with the given slug.
func (d *Dataset) FindBySlug(slug string) (*Exhibition, bool) {
	for i := range d.List {
		if d.List[i].Slug == slug {
			return &d.List[i], true
		}
	}
	return nil, false
}
