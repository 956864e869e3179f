package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/hero"
	"git.home.luguber.info/inful/exhibitpal/internal/history"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/metrics"
	"git.home.luguber.info/inful/exhibitpal/internal/notify"
	"git.home.luguber.info/inful/exhibitpal/internal/observability"
	"git.home.luguber.info/inful/exhibitpal/internal/sheets"
	"git.home.luguber.info/inful/exhibitpal/internal/site"
)

// SourceFactory builds the sheet reader for a run.
type SourceFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (catalog.SheetReader, error)

// HeroResolverFactory builds the hero image resolver for a run.
type HeroResolverFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder, sink hero.LogSink) (*hero.Resolver, error)

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	sourceFactory SourceFactory
	heroFactory   HeroResolverFactory
	history       history.Store
	notifier      notify.Notifier
	recorder      metrics.Recorder
	logger        *slog.Logger
	now           func() time.Time
}

// NewBuildService creates a DefaultBuildService reading from the Sheets API or fixtures.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		sourceFactory: func(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (catalog.SheetReader, error) {
			return sheets.NewSource(ctx, cfg, logger, recorder)
		},
		heroFactory: hero.NewResolverFromConfig,
		notifier:    notify.Noop{},
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
		now:         time.Now,
	}
}

// WithSourceFactory allows injecting a custom sheet source (for testing).
func (s *DefaultBuildService) WithSourceFactory(factory SourceFactory) *DefaultBuildService {
	s.sourceFactory = factory
	return s
}

// WithHeroResolverFactory allows injecting a custom hero resolver (for testing).
func (s *DefaultBuildService) WithHeroResolverFactory(factory HeroResolverFactory) *DefaultBuildService {
	s.heroFactory = factory
	return s
}

// WithHistory records every run in store.
func (s *DefaultBuildService) WithHistory(store history.Store) *DefaultBuildService {
	s.history = store
	return s
}

// WithNotifier publishes warnings, hero log entries and run summaries.
func (s *DefaultBuildService) WithNotifier(n notify.Notifier) *DefaultBuildService {
	if n != nil {
		s.notifier = n
	}
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(rec metrics.Recorder) *DefaultBuildService {
	if rec != nil {
		s.recorder = rec
	}
	return s
}

// WithLogger sets the logger.
func (s *DefaultBuildService) WithLogger(logger *slog.Logger) *DefaultBuildService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithClock overrides the time source.
func (s *DefaultBuildService) WithClock(now func() time.Time) *DefaultBuildService {
	s.now = now
	return s
}

// Sync fetches and normalizes both sheets.
func (s *DefaultBuildService) Sync(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	if req.Kind == "" {
		req.Kind = KindSync
	}
	ctx, result := s.begin(ctx, req)
	if req.Config == nil {
		return s.finish(ctx, req, result, errors.ConfigError("config required").Build())
	}

	ds, err := s.load(ctx, req.Config)
	result.Dataset = ds
	return s.finish(ctx, req, result, err)
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	if req.Kind == "" {
		req.Kind = KindBuild
	}
	ctx, result := s.begin(ctx, req)
	if req.Config == nil {
		return s.finish(ctx, req, result, errors.ConfigError("config required").Build())
	}
	cfg := req.Config
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = cfg.Output.Directory
	}
	result.OutputPath = outputDir

	// Stage 1: fetch + normalize
	ds, err := s.load(ctx, cfg)
	result.Dataset = ds
	if err != nil {
		return s.finish(ctx, req, result, err)
	}

	if cfg.Output.Clean {
		if err := os.RemoveAll(outputDir); err != nil {
			return s.finish(ctx, req, result, errors.WrapError(err, errors.CategoryFileSystem, "failed to clean output directory").
				WithContext("path", outputDir).
				Build())
		}
	}

	// Stage 2: hero images
	stageStart := time.Now()
	hctx := observability.WithStage(ctx, "hero")
	placeholders, err := s.resolveHeroes(hctx, cfg, ds, outputDir, req.Options.Concurrency)
	result.Placeholders = placeholders
	if err != nil {
		s.recorder.IncStageResult("hero", metrics.ResultFatal)
		return s.finish(ctx, req, result, err)
	}
	s.recorder.ObserveStageDuration("hero", time.Since(stageStart))
	if placeholders > 0 {
		s.recorder.IncStageResult("hero", metrics.ResultWarning)
	} else {
		s.recorder.IncStageResult("hero", metrics.ResultSuccess)
	}

	// Stage 3: render
	stageStart = time.Now()
	rctx := observability.WithStage(ctx, "render")
	renderer, err := site.NewRenderer(cfg.Site, outputDir,
		site.WithLogger(s.logger),
		site.WithClock(s.now),
		site.WithDataFile(cfg.Output.DataFile),
		site.WithPlaceholderURL(cfg.Images.PlaceholderURL),
	)
	if err != nil {
		s.recorder.IncStageResult("render", metrics.ResultFatal)
		return s.finish(ctx, req, result, err)
	}
	inputs, err := Inputs(cfg, ds)
	if err != nil {
		return s.finish(ctx, req, result, err)
	}
	rendered, err := renderer.Render(rctx, ds, site.RenderOptions{RunID: result.RunID, Inputs: inputs})
	if err != nil {
		s.recorder.IncStageResult("render", metrics.ResultFatal)
		return s.finish(ctx, req, result, err)
	}
	result.Render = rendered
	s.recorder.ObserveStageDuration("render", time.Since(stageStart))
	s.recorder.IncStageResult("render", metrics.ResultSuccess)

	// Stage 4: audit
	stageStart = time.Now()
	actx := observability.WithStage(ctx, "audit")
	issues, err := site.Audit(outputDir, rendered.Pages, site.AuditOptions{IgnorePaths: ignorePaths(cfg)})
	if err != nil {
		s.recorder.IncStageResult("audit", metrics.ResultFatal)
		return s.finish(ctx, req, result, err)
	}
	result.AuditIssues = issues
	site.LogIssues(actx, s.logger, issues)
	s.recorder.ObserveStageDuration("audit", time.Since(stageStart))
	if len(issues) > 0 {
		s.recorder.IncStageResult("audit", metrics.ResultWarning)
		if req.Options.Strict {
			return s.finish(ctx, req, result, errors.ValidationError("accessibility audit failed").
				WithContext("issues", len(issues)).
				Build())
		}
	} else {
		s.recorder.IncStageResult("audit", metrics.ResultSuccess)
	}

	return s.finish(ctx, req, result, nil)
}

func (s *DefaultBuildService) begin(ctx context.Context, req BuildRequest) (context.Context, *BuildResult) {
	result := &BuildResult{
		RunID:     history.NewRunID(),
		StartTime: s.now(),
	}
	ctx = observability.WithRunID(ctx, result.RunID)
	s.logger.InfoContext(ctx, "Starting run", slog.String("kind", req.Kind))
	return ctx, result
}

func (s *DefaultBuildService) load(ctx context.Context, cfg *config.Config) (*catalog.Dataset, error) {
	ctx = observability.WithStage(ctx, "fetch")
	reader, err := s.sourceFactory(ctx, cfg, s.logger, s.recorder)
	if err != nil {
		return nil, err
	}
	loader := catalog.NewLoader(reader, catalog.LoaderOptions{
		SourceSpreadsheet:    cfg.Sheets.ExhibitionsSpreadsheetID,
		ArtworkSpreadsheetID: cfg.Sheets.ArtworksSpreadsheetID,
		FallbackImageURL:     cfg.Images.FallbackURL,
		StrictArtworkHeader:  cfg.Sheets.StrictArtworkHeader,
		SuppressWarnings:     cfg.Logging.SuppressWarnings,
		Logger:               s.logger,
		Recorder:             s.recorder,
		Now:                  func() time.Time { return s.now().UTC() },
	})
	return loader.Load(ctx)
}

// finish stamps timings, derives the status and records the run.
func (s *DefaultBuildService) finish(ctx context.Context, req BuildRequest, result *BuildResult, err error) (*BuildResult, error) {
	result.EndTime = s.now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	switch {
	case err != nil && (stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)):
		result.Status = BuildStatusCancelled
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
	case err != nil:
		result.Status = BuildStatusFailed
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	case result.WarningCount() > 0 || len(result.AuditIssues) > 0 || result.Placeholders > 0:
		result.Status = BuildStatusWarning
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeWarning)
	default:
		result.Status = BuildStatusSuccess
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	}
	s.recorder.ObserveBuildDuration(result.Duration)

	// Use a fresh context so a cancelled run is still recorded.
	rctx := context.WithoutCancel(ctx)
	run := s.historyRun(req, result, err)
	var warnings []catalog.Warning
	if result.Dataset != nil {
		warnings = result.Dataset.Meta.Warnings
	}
	if s.history != nil {
		if herr := s.history.Record(rctx, run, warnings); herr != nil {
			s.logger.WarnContext(rctx, "Failed to record run history", logfields.Error(herr))
		}
	}
	if len(warnings) > 0 {
		if nerr := s.notifier.PublishWarnings(rctx, result.RunID, warnings); nerr != nil {
			s.logger.WarnContext(rctx, "Failed to publish sync warnings", logfields.Error(nerr))
		}
	}
	if nerr := s.notifier.PublishRun(rctx, run); nerr != nil {
		s.logger.WarnContext(rctx, "Failed to publish run summary", logfields.Error(nerr))
	}

	attrs := []any{
		slog.String("kind", req.Kind),
		logfields.Status(string(result.Status)),
		logfields.DurationMS(float64(result.Duration.Microseconds()) / 1000),
		slog.Int("warnings", result.WarningCount()),
		slog.Int("audit_issues", len(result.AuditIssues)),
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Run failed", append(attrs, logfields.Error(err))...)
		return result, err
	}
	s.logger.InfoContext(ctx, "Run completed", attrs...)
	return result, nil
}

func (s *DefaultBuildService) historyRun(req BuildRequest, result *BuildResult, err error) history.Run {
	run := history.Run{
		ID:          result.RunID,
		Kind:        req.Kind,
		StartedAt:   result.StartTime,
		FinishedAt:  result.EndTime,
		AuditIssues: len(result.AuditIssues),
	}
	switch result.Status {
	case BuildStatusSuccess:
		run.Status = history.StatusSuccess
	case BuildStatusWarning:
		run.Status = history.StatusWarning
	default:
		run.Status = history.StatusFailed
	}
	if err != nil {
		run.Error = err.Error()
	}
	if ds := result.Dataset; ds != nil {
		run.Exhibitions = len(ds.List)
		run.Artworks = ds.ArtworkCount()
		run.WarningCount = len(ds.Meta.Warnings)
	}
	if result.Render != nil {
		run.Pages = len(result.Render.Pages)
	}
	return run
}

// ignorePaths lists site-local URL prefixes the audit must not resolve: the
// CTA target is served by another application.
func ignorePaths(cfg *config.Config) []string {
	u := cfg.Site.CTA.URL
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return []string{u}
	}
	return nil
}
