package catalog

import (
	"fmt"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// Artwork sheet headers.
const (
	HeaderInputDate       = "入力日"
	HeaderExhibitionID    = "展示会ID"
	HeaderArtworkID       = "作品ID"
	HeaderExhibitionTitle = "展覧会名"
	HeaderDisplayID       = "展示ID"
	HeaderArtistName      = "アーティスト名"
	HeaderArtworkTitle    = "作品名"
	HeaderDescription     = "作品詳細"
	HeaderNotes           = "その他"
	HeaderIntroMediaURL   = "作品紹介（Google Drive URL）"
	HeaderReferenceURL    = "参照URL"
	HeaderAudioURL        = "音声化（stand fm url）"
	HeaderArticleURL      = "記事化（Note url）"
	HeaderImage           = "image"
)

// ExpectedArtworkHeader is the exact column layout of the artwork sheet.
var ExpectedArtworkHeader = []string{
	HeaderInputDate,
	HeaderExhibitionID,
	HeaderArtworkID,
	HeaderExhibitionTitle,
	HeaderDisplayID,
	HeaderArtistName,
	HeaderArtworkTitle,
	HeaderDescription,
	HeaderNotes,
	HeaderIntroMediaURL,
	HeaderReferenceURL,
	HeaderAudioURL,
	HeaderArticleURL,
	HeaderImage,
}

// ArtworkResult is the output of NormalizeArtworks.
type ArtworkResult struct {
	Records  []Artwork
	Warnings []Warning
}

// EnsureArtworkHeader rejects a header row that differs from ExpectedArtworkHeader.
func EnsureArtworkHeader(header []string) error {
	if len(header) != len(ExpectedArtworkHeader) {
		return errors.ValidationError(fmt.Sprintf("unexpected header length for artwork sheet: expected %d columns but received %d",
			len(ExpectedArtworkHeader), len(header))).
			WithContext("columns", len(header)).
			Build()
	}
	for i, expected := range ExpectedArtworkHeader {
		if header[i] != expected {
			return errors.ValidationError(fmt.Sprintf("unexpected column at index %d: expected %q but received %q", i, expected, header[i])).
				WithContext("index", i).
				Build()
		}
	}
	return nil
}

// NormalizeArtworks converts artwork sheet values into records. syncedAt is
// stamped on every record as LastSyncedAt.
func NormalizeArtworks(values [][]string, syncedAt string) ArtworkResult {
	var res ArtworkResult
	if len(values) <= 1 {
		return res
	}

	idx := buildHeaderIndex(values[0])
	for i, row := range values[1:] {
		rowNumber := i + 2
		exhibitionID := idx.cell(row, HeaderExhibitionID)
		artworkID := idx.cell(row, HeaderArtworkID)
		title := idx.cell(row, HeaderArtworkTitle)

		if exhibitionID == "" || artworkID == "" || title == "" {
			res.Warnings = append(res.Warnings, Warning{
				Type:         WarningMissingRequired,
				ExhibitionID: exhibitionID,
				ArtworkID:    artworkID,
				Row:          rowNumber,
				Message:      "Required artwork fields are missing",
				Scope:        ScopeArtworks,
			})
			continue
		}

		warn := func(t WarningType, msg string) {
			res.Warnings = append(res.Warnings, Warning{
				Type:         t,
				ExhibitionID: exhibitionID,
				ArtworkID:    artworkID,
				Row:          rowNumber,
				Message:      msg,
				Scope:        ScopeArtworks,
			})
		}
		sanitize := func(header, label string) string {
			v := idx.cell(row, header)
			if v == "" {
				return ""
			}
			if !IsHTTPSURL(v) {
				warn(WarningInvalidURL, label+" is not a valid https url")
				return ""
			}
			return v
		}

		rec := Artwork{
			ArtworkID:       artworkID,
			ExhibitionID:    exhibitionID,
			Title:           title,
			ExhibitionTitle: idx.cell(row, HeaderExhibitionTitle),
			DisplayID:       idx.cell(row, HeaderDisplayID),
			ArtistName:      idx.cell(row, HeaderArtistName),
			Description:     idx.cell(row, HeaderDescription),
			Notes:           idx.cell(row, HeaderNotes),
			IntroMediaURL:   sanitize(HeaderIntroMediaURL, "作品紹介URL"),
			ReferenceURL:    sanitize(HeaderReferenceURL, "参照URL"),
			AudioURL:        sanitize(HeaderAudioURL, "音声化URL"),
			ArticleURL:      sanitize(HeaderArticleURL, "記事化URL"),
			Image:           sanitize(HeaderImage, "image URL"),
			LastSyncedAt:    syncedAt,
		}

		if raw := idx.cell(row, HeaderInputDate); raw != "" {
			rec.InputDate = NormalizeDate(raw)
			if rec.InputDate == "" {
				warn(WarningInvalidDate, "入力日をISO形式に変換できませんでした: "+raw)
			}
		}

		res.Records = append(res.Records, rec)
	}
	return res
}
