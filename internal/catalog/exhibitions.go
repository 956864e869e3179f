package catalog

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Exhibition sheet headers not shared with the artwork sheet.
const (
	HeaderTitle          = "展示会名"
	HeaderStartDate      = "開始日"
	HeaderEndDate        = "終了日"
	HeaderVenue          = "場所"
	HeaderSummary        = "概要"
	HeaderBackground     = "開催経緯"
	HeaderHighlights     = "見どころ"
	HeaderOfficialURL    = "展示会概要URL"
	HeaderInventoryURL   = "作品一覧ファイルリンク"
	HeaderDetailDocURL   = "展示会の詳細説明（Google Drive URL）"
	HeaderRelatedURLs    = "展示会関連のURLリスト"
	HeaderArtworkSortKey = "作品表示順キー"
)

// Link labels for related URLs.
const (
	LabelAudio   = "音声解説"
	LabelSocial  = "関連SNS"
	LabelMedia   = "メディア掲載"
	LabelRelated = "関連リンク"
)

const (
	// FeaturedArtworkLimit caps the featured artwork ids per exhibition.
	FeaturedArtworkLimit = 6
	// MinFeaturedArtworks is the count below which a warning is raised.
	MinFeaturedArtworks = 3
	// DefaultArtworkSortKey is used when the sheet names no sort key.
	DefaultArtworkSortKey = "artworkId"
)

var lineBreaks = regexp.MustCompile(`\n+`)

// ExhibitionOptions configures NormalizeExhibitions.
type ExhibitionOptions struct {
	Artworks         []Artwork
	FallbackImageURL string
}

// ExhibitionResult is the output of NormalizeExhibitions.
type ExhibitionResult struct {
	Records             []Exhibition
	Warnings            []Warning
	DuplicateArtworkIDs []ArtworkRef
	ArtworkSortKey      string
}

// NormalizeExhibitions converts exhibition sheet values into records and
// attaches the given artworks to their exhibitions.
func NormalizeExhibitions(values [][]string, opts ExhibitionOptions) ExhibitionResult {
	res := ExhibitionResult{ArtworkSortKey: DefaultArtworkSortKey}
	if len(values) <= 1 {
		return res
	}

	artworks := indexArtworksByExhibition(opts.Artworks)
	res.Warnings = append(res.Warnings, artworks.warnings...)
	res.DuplicateArtworkIDs = artworks.duplicates

	idx := buildHeaderIndex(values[0])
	rows := values[1:]
	seen := make(map[string]struct{})

	for i, row := range rows {
		rowNumber := i + 2
		id := idx.cell(row, HeaderExhibitionID)
		warn := func(t WarningType, msg string) {
			res.Warnings = append(res.Warnings, Warning{Type: t, ID: id, Row: rowNumber, Message: msg, Scope: ScopeExhibitions})
		}

		if id == "" {
			id = "row-" + strconv.Itoa(rowNumber)
			warn(WarningMissingRequired, "展示会IDが未入力のため行をスキップしました")
			continue
		}
		if _, dup := seen[id]; dup {
			warn(WarningDuplicateID, "Duplicate exhibition ID encountered; later row skipped.")
			continue
		}

		title := idx.cell(row, HeaderTitle)
		venue := idx.cell(row, HeaderVenue)
		summary := idx.cell(row, HeaderSummary)
		officialURL := idx.cell(row, HeaderOfficialURL)
		if title == "" || venue == "" || summary == "" || officialURL == "" {
			warn(WarningMissingRequired, "必須フィールド(展示会名/場所/概要/公式URL)が不足しています")
			continue
		}
		if !IsHTTPSURL(officialURL) {
			warn(WarningInvalidURL, "officialUrl is not a valid https URL.")
			continue
		}

		startISO := NormalizeDate(idx.cell(row, HeaderStartDate))
		endISO := NormalizeDate(idx.cell(row, HeaderEndDate))
		if startISO != "" && endISO != "" && startISO > endISO {
			warn(WarningInvalidDate, "終了日が開始日より前です。")
			continue
		}

		heroSrc := idx.cell(row, HeaderImage)
		if !IsHTTPSURL(heroSrc) {
			warn(WarningMissingImage, "heroImage missing or invalid https URL; fallback applied.")
			heroSrc = opts.FallbackImageURL
		}

		related := buildRelatedURLs(idx.cell(row, HeaderRelatedURLs), idx.cell(row, HeaderAudioURL), func(raw string) {
			warn(WarningInvalidURL, "Invalid related URL: "+raw)
		})

		internal := &Internal{
			InventoryURL: idx.cell(row, HeaderInventoryURL),
			DetailDocURL: idx.cell(row, HeaderDetailDocURL),
			NoteURL:      idx.cell(row, HeaderArticleURL),
		}

		artworkList := []Artwork{}
		if bucket, ok := artworks.buckets[id]; ok {
			bucket.used = true
			artworkList = make([]Artwork, len(bucket.items))
			for j, a := range bucket.items {
				a.DetailURL = "/exhibitions/" + id + "/" + a.ArtworkID + "/"
				artworkList[j] = a
				if a.ExhibitionTitle != "" && a.ExhibitionTitle != title {
					res.Warnings = append(res.Warnings, Warning{
						Type:         WarningArtworkTitleMismatch,
						ExhibitionID: id,
						ArtworkID:    a.ArtworkID,
						Message:      "Artwork exhibitionTitle does not match exhibition title",
						Scope:        ScopeExhibitions,
					})
				}
			}
		}

		featured := deriveFeaturedArtworkIDs(artworkList)
		if len(artworkList) > 0 && countIDs(artworkList) < MinFeaturedArtworks {
			res.Warnings = append(res.Warnings, Warning{
				Type:         WarningMissingRequired,
				ExhibitionID: id,
				Message:      "featuredArtworkIds minimum not met (found " + strconv.Itoa(countIDs(artworkList)) + ")",
				Scope:        ScopeExhibitions,
			})
		}

		slug := DeriveSlug(id, title)
		highlights := idx.cell(row, HeaderHighlights)

		res.Records = append(res.Records, Exhibition{
			ID:                 id,
			Slug:               slug,
			Title:              title,
			Period:             buildPeriod(startISO, endISO),
			Venue:              venue,
			Summary:            summary,
			Background:         idx.cell(row, HeaderBackground),
			Highlights:         highlights,
			HighlightsBlocks:   splitHighlights(highlights),
			OfficialURL:        officialURL,
			RelatedURLs:        related,
			HeroImage:          HeroImage{Src: heroSrc, Alt: title + " キービジュアル", FocalPoint: FocalPoint{X: 0.5, Y: 0.5}},
			ArtworkList:        artworkList,
			FeaturedArtworkIDs: featured,
			Tags:               []string{},
			DetailURL:          "/exhibitions/" + slug + "/",
			Internal:           internal,
		})
		seen[id] = struct{}{}
	}

	res.Warnings = append(res.Warnings, artworks.orphans()...)

	for _, row := range rows {
		if key := idx.cell(row, HeaderArtworkSortKey); key != "" {
			res.ArtworkSortKey = key
			break
		}
	}
	return res
}

// LinkLabel picks the display label for a related URL.
func LinkLabel(raw string) string {
	host := ""
	if u, err := url.Parse(raw); err == nil {
		host = strings.ToLower(u.Hostname())
	}
	switch {
	case strings.Contains(raw, "stand.fm"):
		return LabelAudio
	case hostIs(host, "instagram.com"), hostIs(host, "twitter.com"), hostIs(host, "x.com"):
		return LabelSocial
	case strings.Contains(raw, "media"), hostIs(host, "note.com"):
		return LabelMedia
	default:
		return LabelRelated
	}
}

func hostIs(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// buildRelatedURLs parses the comma separated list, appends the audio URL and
// drops duplicates, keeping the first label seen for a URL.
func buildRelatedURLs(list, audioURL string, onInvalid func(string)) []RelatedURL {
	items := []RelatedURL{}
	seen := make(map[string]struct{})
	push := func(raw, label string) {
		if !IsHTTPSURL(raw) {
			onInvalid(raw)
			return
		}
		if _, dup := seen[raw]; dup {
			return
		}
		seen[raw] = struct{}{}
		items = append(items, RelatedURL{URL: raw, Label: label})
	}
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		push(entry, LinkLabel(entry))
	}
	if audioURL != "" {
		push(audioURL, LabelAudio)
	}
	return items
}

func splitHighlights(raw string) []string {
	blocks := []string{}
	if raw == "" {
		return blocks
	}
	for _, seg := range lineBreaks.Split(strings.ReplaceAll(raw, "\r", "\n"), -1) {
		if seg = strings.TrimSpace(seg); seg != "" {
			blocks = append(blocks, seg)
		}
	}
	return blocks
}

func countIDs(list []Artwork) int {
	n := 0
	for _, a := range list {
		if a.ArtworkID != "" {
			n++
		}
	}
	return n
}

func deriveFeaturedArtworkIDs(list []Artwork) []string {
	ids := []string{}
	for _, a := range list {
		if a.ArtworkID == "" {
			continue
		}
		ids = append(ids, a.ArtworkID)
		if len(ids) == FeaturedArtworkLimit {
			break
		}
	}
	return ids
}
