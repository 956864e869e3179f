package catalog

import (
	"time"
)

// BuildOptions carries the raw sheets and run metadata for Build.
type BuildOptions struct {
	ExhibitionValues     [][]string
	ArtworkValues        [][]string
	FetchedAt            time.Time
	UpdatedAt            time.Time
	SourceSpreadsheet    string
	ArtworkSpreadsheetID string
	FallbackImageURL     string
	StrictArtworkHeader  bool
}

// Build normalizes both sheets and assembles the public dataset.
// It fails only when StrictArtworkHeader is set and the artwork header differs.
func Build(opts BuildOptions) (*Dataset, error) {
	if opts.FetchedAt.IsZero() {
		opts.FetchedAt = time.Now().UTC()
	}
	if opts.StrictArtworkHeader && len(opts.ArtworkValues) > 0 {
		if err := EnsureArtworkHeader(opts.ArtworkValues[0]); err != nil {
			return nil, err
		}
	}

	artworks := NormalizeArtworks(opts.ArtworkValues, opts.FetchedAt.Format(time.RFC3339))
	exhibitions := NormalizeExhibitions(opts.ExhibitionValues, ExhibitionOptions{
		Artworks:         artworks.Records,
		FallbackImageURL: opts.FallbackImageURL,
	})

	list := exhibitions.Records
	SortExhibitions(list)

	internal := make(map[string]Internal, len(list))
	for i := range list {
		if list[i].Internal != nil {
			internal[list[i].ID] = *list[i].Internal
		}
		list[i].Internal = nil
	}

	warnings := make([]Warning, 0, len(artworks.Warnings)+len(exhibitions.Warnings))
	warnings = append(warnings, artworks.Warnings...)
	warnings = append(warnings, exhibitions.Warnings...)

	meta := BuildMeta(MetaOptions{
		FetchedAt:            opts.FetchedAt,
		UpdatedAt:            opts.UpdatedAt,
		SourceSpreadsheet:    opts.SourceSpreadsheet,
		ArtworkSpreadsheetID: opts.ArtworkSpreadsheetID,
		ArtworkSortKey:       exhibitions.ArtworkSortKey,
		Warnings:             warnings,
	})
	if len(internal) > 0 {
		meta.Internal = internal
	}

	return &Dataset{List: list, Meta: meta}, nil
}

// MetaOptions are the inputs of BuildMeta.
type MetaOptions struct {
	FetchedAt            time.Time
	UpdatedAt            time.Time
	SourceSpreadsheet    string
	ArtworkSpreadsheetID string
	ArtworkSortKey       string
	Warnings             []Warning
}

// BuildMeta assembles sync metadata. UpdatedAt defaults to FetchedAt and the
// warnings are copied and sorted by id, then type.
func BuildMeta(opts MetaOptions) Meta {
	warnings := make([]Warning, len(opts.Warnings))
	copy(warnings, opts.Warnings)
	SortWarnings(warnings)

	updated := opts.UpdatedAt
	if updated.IsZero() {
		updated = opts.FetchedAt
	}
	return Meta{
		FetchedAt:            opts.FetchedAt,
		UpdatedAt:            updated,
		SourceSpreadsheet:    opts.SourceSpreadsheet,
		ArtworkSpreadsheetID: opts.ArtworkSpreadsheetID,
		ArtworkSortKey:       opts.ArtworkSortKey,
		Warnings:             warnings,
	}
}
