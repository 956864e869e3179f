package hero

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/exhibitpal/internal/auth"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/metrics"
)

// NewResolverFromConfig selects the mock or Drive fetcher and applies image settings.
func NewResolverFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder, sink LogSink) (*Resolver, error) {
	if err := cfg.RequireDrive(); err != nil {
		return nil, err
	}
	var fetcher Fetcher = MockFetcher{}
	if !cfg.Images.Mock {
		apiOpts, err := auth.GoogleClientOptions(ctx, cfg.Google)
		if err != nil {
			return nil, err
		}
		df, err := NewDriveFetcher(ctx, apiOpts...)
		if err != nil {
			return nil, err
		}
		fetcher = df
	}
	return NewResolver(cfg.Images.CacheDir, fetcher,
		WithPlaceholderURL(cfg.Images.PlaceholderURL),
		WithWidths(cfg.Images.Widths),
		WithSizeWarnBytes(cfg.Images.SizeWarnBytes),
		WithLogger(logger),
		WithRecorder(recorder),
		WithSink(sink),
	), nil
}
