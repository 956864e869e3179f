package sheets

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/exhibitpal/internal/auth"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/metrics"
	"git.home.luguber.info/inful/exhibitpal/internal/retry"
)

// Reader yields the values of a single sheet, header row first.
type Reader interface {
	Read(ctx context.Context) ([][]string, error)
}

// Source pairs the exhibition and artwork readers.
type Source struct {
	Exhibitions Reader
	Artworks    Reader
}

func (s *Source) ReadExhibitions(ctx context.Context) ([][]string, error) {
	return s.Exhibitions.Read(ctx)
}

func (s *Source) ReadArtworks(ctx context.Context) ([][]string, error) {
	return s.Artworks.Read(ctx)
}

// NewSource builds readers from config: fixtures when configured, otherwise the Sheets API.
func NewSource(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (*Source, error) {
	if err := cfg.RequireSheets(); err != nil {
		return nil, err
	}
	src := &Source{}
	if cfg.Sheets.ExhibitionsFixture != "" {
		src.Exhibitions = FixtureReader{Path: cfg.Sheets.ExhibitionsFixture}
	}
	if cfg.Sheets.ArtworksFixture != "" {
		src.Artworks = FixtureReader{Path: cfg.Sheets.ArtworksFixture}
	}
	if src.Exhibitions != nil && src.Artworks != nil {
		return src, nil
	}

	apiOpts, err := auth.GoogleClientOptions(ctx, cfg.Google)
	if err != nil {
		return nil, err
	}
	client, err := NewClient(ctx, ClientOptions{
		Policy:   retry.FromConfig(cfg.Retry),
		Logger:   logger,
		Recorder: recorder,
	}, apiOpts...)
	if err != nil {
		return nil, err
	}
	if src.Exhibitions == nil {
		src.Exhibitions = RangeReader{
			Client:        client,
			Name:          "exhibitions",
			SpreadsheetID: cfg.Sheets.ExhibitionsSpreadsheetID,
			Range:         cfg.Sheets.ExhibitionsRange,
		}
	}
	if src.Artworks == nil {
		src.Artworks = RangeReader{
			Client:        client,
			Name:          "artworks",
			SpreadsheetID: cfg.Sheets.ArtworksSpreadsheetID,
			Range:         cfg.Sheets.ArtworksRange,
			QuotaUser:     "exhibitpal-artworks",
		}
	}
	return src, nil
}
