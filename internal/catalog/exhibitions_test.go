package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fallback = "https://cdn.example.com/placeholders/exhibition.jpg"

func normalize(t *testing.T, artworks []Artwork, rows ...[]string) ExhibitionResult {
	t.Helper()
	return NormalizeExhibitions(sheet(exhibitionHeader, rows...), ExhibitionOptions{Artworks: artworks, FallbackImageURL: fallback})
}

func TestNormalizeExhibitionsValidRow(t *testing.T) {
	res := normalize(t, nil, exhibitionRow("spring-2024", map[string]string{
		HeaderBackground:   "経緯",
		HeaderHighlights:   "一つ目\r\n\n二つ目\n",
		HeaderInventoryURL: " https://drive.example.org/inventory ",
	}))

	require.Empty(t, res.Warnings)
	require.Len(t, res.Records, 1)
	ex := res.Records[0]
	require.Equal(t, "spring-2024", ex.Slug)
	require.Equal(t, "/exhibitions/spring-2024/", ex.DetailURL)
	require.Equal(t, Period{Start: "2024-04-01", End: "2024-06-30", Display: "2024年4月1日〜2024年6月30日"}, ex.Period)
	require.Equal(t, []string{"一つ目", "二つ目"}, ex.HighlightsBlocks)
	require.Equal(t, "展示 spring-2024 キービジュアル", ex.HeroImage.Alt)
	require.Equal(t, FocalPoint{X: 0.5, Y: 0.5}, ex.HeroImage.FocalPoint)
	require.Equal(t, "https://drive.example.org/inventory", ex.Internal.InventoryURL)
	require.Empty(t, ex.Internal.NoteURL)
	require.Empty(t, ex.ArtworkList)
	require.Empty(t, ex.FeaturedArtworkIDs)
	require.Equal(t, DefaultArtworkSortKey, res.ArtworkSortKey)
}

func TestNormalizeExhibitionsSkipsInvalidRows(t *testing.T) {
	res := normalize(t, nil,
		exhibitionRow("", nil),
		exhibitionRow("a", nil),
		exhibitionRow("a", map[string]string{HeaderTitle: "later duplicate"}),
		exhibitionRow("b", map[string]string{HeaderVenue: ""}),
		exhibitionRow("c", map[string]string{HeaderOfficialURL: "http://museum.example.org"}),
		exhibitionRow("d", map[string]string{HeaderStartDate: "2024/07/01", HeaderEndDate: "2024/06/01"}),
	)

	require.Len(t, res.Records, 1)
	require.Equal(t, "a", res.Records[0].ID)
	require.Equal(t, "展示 a", res.Records[0].Title)
	require.Equal(t, []WarningType{
		WarningMissingRequired, WarningDuplicateID, WarningMissingRequired, WarningInvalidURL, WarningInvalidDate,
	}, warningTypes(res.Warnings))
	require.Equal(t, "row-2", res.Warnings[0].ID)
	require.Equal(t, 4, res.Warnings[1].Row)
}

func TestNormalizeExhibitionsFallbackImage(t *testing.T) {
	res := normalize(t, nil, exhibitionRow("a", map[string]string{HeaderImage: ""}))
	require.Equal(t, []WarningType{WarningMissingImage}, warningTypes(res.Warnings))
	require.Equal(t, fallback, res.Records[0].HeroImage.Src)
}

func TestNormalizeExhibitionsInvalidDateIsDropped(t *testing.T) {
	res := normalize(t, nil, exhibitionRow("a", map[string]string{HeaderStartDate: "2024/02/30"}))
	require.Empty(t, res.Warnings)
	require.Equal(t, Period{End: "2024-06-30", Display: "2024年6月30日"}, res.Records[0].Period)
}

func TestRelatedURLs(t *testing.T) {
	res := normalize(t, nil, exhibitionRow("a", map[string]string{
		HeaderRelatedURLs: "https://stand.fm/episodes/abc, https://www.instagram.com/museum ,http://bad.example.org, https://note.com/post, https://example.org/page, https://example.org/page",
		HeaderAudioURL:    "https://stand.fm/episodes/def",
	}))

	require.Equal(t, []RelatedURL{
		{URL: "https://stand.fm/episodes/abc", Label: LabelAudio},
		{URL: "https://www.instagram.com/museum", Label: LabelSocial},
		{URL: "https://note.com/post", Label: LabelMedia},
		{URL: "https://example.org/page", Label: LabelRelated},
		{URL: "https://stand.fm/episodes/def", Label: LabelAudio},
	}, res.Records[0].RelatedURLs)
	require.Equal(t, []WarningType{WarningInvalidURL}, warningTypes(res.Warnings))
}

func TestLinkLabel(t *testing.T) {
	require.Equal(t, LabelSocial, LinkLabel("https://x.com/museum"))
	require.Equal(t, LabelSocial, LinkLabel("https://twitter.com/museum"))
	require.Equal(t, LabelRelated, LinkLabel("https://box.com/file"))
	require.Equal(t, LabelMedia, LinkLabel("https://news.example.org/media/123"))
}

func TestNormalizeExhibitionsAttachesArtworks(t *testing.T) {
	artworks := []Artwork{
		{ArtworkID: "A-3", ExhibitionID: "a", Title: "three", ExhibitionTitle: "展示 a"},
		{ArtworkID: "A-1", ExhibitionID: "a", Title: "one"},
		{ArtworkID: "A-2", ExhibitionID: "a", Title: "two", ExhibitionTitle: "別の展示"},
		{ArtworkID: "A-1", ExhibitionID: "a", Title: "dup"},
		{ArtworkID: "Z-1", ExhibitionID: "ghost", Title: "orphan"},
		{ArtworkID: "N-1", Title: "no exhibition"},
	}
	res := normalize(t, artworks, exhibitionRow("a", nil))

	ex := res.Records[0]
	require.Len(t, ex.ArtworkList, 3)
	require.Equal(t, []string{"A-1", "A-2", "A-3"}, ex.FeaturedArtworkIDs)
	require.Equal(t, "/exhibitions/a/A-2/", ex.ArtworkList[1].DetailURL)
	require.Equal(t, "one", ex.ArtworkList[0].Title)

	require.ElementsMatch(t, []WarningType{
		WarningDuplicateArtworkID, WarningMissingRequired, WarningArtworkTitleMismatch, WarningOrphanedArtwork,
	}, warningTypes(res.Warnings))
	require.Equal(t, []ArtworkRef{{ExhibitionID: "a", ArtworkID: "A-1"}}, res.DuplicateArtworkIDs)
}

func TestFeaturedArtworkLimits(t *testing.T) {
	var many []Artwork
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		many = append(many, Artwork{ArtworkID: id, ExhibitionID: "a", Title: id})
	}
	res := normalize(t, many, exhibitionRow("a", nil))
	require.Len(t, res.Records[0].FeaturedArtworkIDs, FeaturedArtworkLimit)
	require.Empty(t, res.Warnings)

	few := normalize(t, many[:2], exhibitionRow("a", nil))
	require.Equal(t, []WarningType{WarningMissingRequired}, warningTypes(few.Warnings))
	require.Equal(t, "a", few.Warnings[0].ExhibitionID)
}

func TestArtworkSortKeyFromSheet(t *testing.T) {
	res := normalize(t, nil,
		exhibitionRow("a", nil),
		exhibitionRow("b", map[string]string{HeaderArtworkSortKey: "displayId"}),
	)
	require.Equal(t, "displayId", res.ArtworkSortKey)
}

func TestNormalizeExhibitionsEmpty(t *testing.T) {
	res := NormalizeExhibitions([][]string{exhibitionHeader}, ExhibitionOptions{})
	require.Empty(t, res.Records)
	require.Equal(t, DefaultArtworkSortKey, res.ArtworkSortKey)
}
