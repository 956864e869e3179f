package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSortExhibitions(t *testing.T) {
	list := []Exhibition{
		{ID: "none", Title: "い"},
		{ID: "old", Title: "b", Period: Period{Start: "2023-01-01"}},
		{ID: "new-b", Title: "か", Period: Period{Start: "2024-05-01"}},
		{ID: "new-a", Title: "あ", Period: Period{Start: "2024-05-01"}},
		{ID: "none2", Title: "あ"},
	}
	SortExhibitions(list)
	var ids []string
	for _, ex := range list {
		ids = append(ids, ex.ID)
	}
	require.Equal(t, []string{"new-a", "new-b", "old", "none2", "none"}, ids)
}

func TestBuildMeta(t *testing.T) {
	fetched := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	in := []Warning{
		{ID: "b", Type: WarningInvalidURL},
		{ID: "a", Type: WarningMissingImage},
		{ID: "a", Type: WarningDuplicateID},
	}
	meta := BuildMeta(MetaOptions{FetchedAt: fetched, SourceSpreadsheet: "sheet", Warnings: in})
	require.Equal(t, fetched, meta.UpdatedAt)
	require.Equal(t, []WarningType{WarningDuplicateID, WarningMissingImage, WarningInvalidURL}, warningTypes(meta.Warnings))
	require.Equal(t, WarningInvalidURL, in[0].Type, "input must not be reordered")
}

func TestBuildStripsInternal(t *testing.T) {
	ds, err := Build(BuildOptions{
		ExhibitionValues: sheet(exhibitionHeader,
			exhibitionRow("old", map[string]string{HeaderStartDate: "2023/01/01", HeaderEndDate: "2023/02/01", HeaderArticleURL: "https://note.com/internal"}),
			exhibitionRow("new", nil)),
		ArtworkValues:     sheet(ExpectedArtworkHeader, artworkRow("new", "A-1", "作品", nil)),
		FetchedAt:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		SourceSpreadsheet: "sheet-1",
		FallbackImageURL:  fallback,
	})
	require.NoError(t, err)
	require.Equal(t, "new", ds.List[0].ID)
	require.Nil(t, ds.List[1].Internal)
	require.Equal(t, "https://note.com/internal", ds.Meta.Internal["old"].NoteURL)
	require.Equal(t, 1, ds.ArtworkCount())
	require.Equal(t, "2024-05-01T00:00:00Z", ds.List[0].ArtworkList[0].LastSyncedAt)

	raw, err := json.Marshal(ds.List[1])
	require.NoError(t, err)
	require.NotContains(t, string(raw), "note.com/internal")

	found, ok := ds.FindBySlug("old")
	require.True(t, ok)
	require.Equal(t, "old", found.ID)
}

func TestBuildStrictHeader(t *testing.T) {
	_, err := Build(BuildOptions{
		ExhibitionValues:    sheet(exhibitionHeader, exhibitionRow("a", nil)),
		ArtworkValues:       [][]string{{"wrong"}},
		StrictArtworkHeader: true,
	})
	require.Error(t, err)
}

type stubReader struct {
	exhibitions [][]string
	artworks    [][]string
	err         error
	calls       int
}

func (s *stubReader) ReadExhibitions(context.Context) ([][]string, error) {
	s.calls++
	return s.exhibitions, s.err
}

func (s *stubReader) ReadArtworks(context.Context) ([][]string, error) {
	return s.artworks, nil
}

func TestLoaderLogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	reader := &stubReader{
		exhibitions: sheet(exhibitionHeader, exhibitionRow("a", map[string]string{HeaderImage: ""})),
		artworks:    sheet(ExpectedArtworkHeader),
	}
	ds, err := NewLoader(reader, LoaderOptions{Logger: logger, FallbackImageURL: fallback}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.List, 1)
	require.Contains(t, buf.String(), `"scope":"exhibitions-sync"`)
	require.Contains(t, buf.String(), `"warning_type":"MISSING_IMAGE"`)

	buf.Reset()
	_, err = NewLoader(reader, LoaderOptions{Logger: logger, SuppressWarnings: true}).Load(context.Background())
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "MISSING_IMAGE")
}

func TestLoaderPropagatesFetchError(t *testing.T) {
	reader := &stubReader{err: errors.New("quota exceeded")}
	_, err := NewLoader(reader, LoaderOptions{}).Load(context.Background())
	require.EqualError(t, err, "quota exceeded")
}

func TestBuildArtworkLookup(t *testing.T) {
	reader := &stubReader{
		exhibitions: sheet(exhibitionHeader, exhibitionRow("a", nil)),
		artworks:    sheet(ExpectedArtworkHeader, artworkRow("a", "A-1", "作品", nil)),
	}
	ds, err := NewLoader(reader, LoaderOptions{SuppressWarnings: true}).Load(context.Background())
	require.NoError(t, err)

	got := BuildArtworkLookup(ds.List)
	require.Len(t, got, 1)
	require.Equal(t, "a", got["A-1"].ExhibitionID)
	require.Equal(t, "/exhibitions/a/A-1/", got["A-1"].Artwork.DetailURL)
}
