package catalog

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/metrics"
)

// SheetReader provides raw values for both sheets, header row first.
type SheetReader interface {
	ReadExhibitions(ctx context.Context) ([][]string, error)
	ReadArtworks(ctx context.Context) ([][]string, error)
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	SourceSpreadsheet    string
	ArtworkSpreadsheetID string
	FallbackImageURL     string
	StrictArtworkHeader  bool
	SuppressWarnings     bool
	Logger               *slog.Logger
	Recorder             metrics.Recorder
	Now                  func() time.Time
}

// Loader fetches both sheets concurrently and builds the dataset.
type Loader struct {
	reader SheetReader
	opts   LoaderOptions
}

// NewLoader creates a Loader reading from reader.
func NewLoader(reader SheetReader, opts LoaderOptions) *Loader {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Loader{reader: reader, opts: opts}
}

// Load fetches, normalizes and logs warnings for one sync run.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	var exhibitionValues, artworkValues [][]string

	fetchStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := l.reader.ReadExhibitions(gctx)
		exhibitionValues = v
		return err
	})
	g.Go(func() error {
		v, err := l.reader.ReadArtworks(gctx)
		artworkValues = v
		return err
	})
	if err := g.Wait(); err != nil {
		l.opts.Recorder.IncStageResult("fetch", metrics.ResultFatal)
		return nil, err
	}
	l.opts.Recorder.ObserveStageDuration("fetch", time.Since(fetchStart))
	l.opts.Recorder.IncStageResult("fetch", metrics.ResultSuccess)

	normalizeStart := time.Now()
	ds, err := Build(BuildOptions{
		ExhibitionValues:     exhibitionValues,
		ArtworkValues:        artworkValues,
		FetchedAt:            l.opts.Now(),
		SourceSpreadsheet:    l.opts.SourceSpreadsheet,
		ArtworkSpreadsheetID: l.opts.ArtworkSpreadsheetID,
		FallbackImageURL:     l.opts.FallbackImageURL,
		StrictArtworkHeader:  l.opts.StrictArtworkHeader,
	})
	if err != nil {
		l.opts.Recorder.IncStageResult("normalize", metrics.ResultFatal)
		return nil, err
	}
	l.opts.Recorder.ObserveStageDuration("normalize", time.Since(normalizeStart))

	result := metrics.ResultSuccess
	if len(ds.Meta.Warnings) > 0 {
		result = metrics.ResultWarning
	}
	l.opts.Recorder.IncStageResult("normalize", result)
	for _, w := range ds.Meta.Warnings {
		l.opts.Recorder.IncSyncWarning(string(w.Type))
	}
	l.opts.Recorder.SetRecordCounts(len(ds.List), ds.ArtworkCount())

	if !l.opts.SuppressWarnings {
		LogWarnings(ctx, l.opts.Logger, ds.Meta.Warnings)
	}
	l.opts.Logger.Info("Sheets normalized",
		logfields.Stage("normalize"),
		slog.Int("exhibitions", len(ds.List)),
		slog.Int("artworks", ds.ArtworkCount()),
		slog.Int("warnings", len(ds.Meta.Warnings)))
	return ds, nil
}
