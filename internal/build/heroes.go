package build

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/hero"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/observability"
)

// DefaultConcurrency bounds parallel hero downloads.
const DefaultConcurrency = 4

// unavailableFetcher stands in when no Drive client could be built, so the
// resolver still serves cached renditions before falling back to placeholders.
type unavailableFetcher struct {
	err error
}

func (f unavailableFetcher) Fetch(context.Context, string) ([]byte, string, error) {
	return nil, "", f.err
}

// resolveHeroes replaces Drive hero links with local renditions and copies
// them into outputDir. It returns the number of placeholder images used.
func (s *DefaultBuildService) resolveHeroes(ctx context.Context, cfg *config.Config, ds *catalog.Dataset, outputDir string, concurrency int) (int, error) {
	var targets []int
	for i := range ds.List {
		if hero.IsDriveURL(ds.List[i].HeroImage.Src) {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return 0, nil
	}

	resolver, err := s.heroFactory(ctx, cfg, s.logger, s.recorder, s.notifier)
	if err != nil {
		s.logger.WarnContext(ctx, "Hero image downloads unavailable; using cache or placeholders",
			logfields.Scope(hero.LogScope),
			logfields.Error(err))
		resolver = hero.NewResolver(cfg.Images.CacheDir, unavailableFetcher{err: err},
			hero.WithPlaceholderURL(cfg.Images.PlaceholderURL),
			hero.WithLogger(s.logger),
			hero.WithRecorder(s.recorder),
			hero.WithSink(s.notifier),
		)
	}

	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	var placeholders atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, idx := range targets {
		ex := &ds.List[idx]
		g.Go(func() error {
			ectx := observability.WithExhibitionID(gctx, ex.ID)
			var alt *hero.AltText
			if ex.HeroImage.Alt != "" {
				alt = &hero.AltText{JA: ex.HeroImage.Alt}
			}
			asset := resolver.Resolve(ectx, hero.Request{
				ExhibitionID: ex.ID,
				DriveURL:     ex.HeroImage.Src,
				Title:        ex.Title,
				AltText:      alt,
			})
			if asset.IsPlaceholder() {
				placeholders.Add(1)
			}
			ex.HeroImage.Src = asset.Src
			if ex.HeroImage.Alt == "" {
				ex.HeroImage.Alt = asset.AltText.JA
			}
			if err := hero.CopyOutputs(asset, outputDir); err != nil {
				return err
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return int(placeholders.Load()), err
	}
	s.logger.InfoContext(ctx, "Hero images resolved",
		logfields.Scope(hero.LogScope),
		logfields.Count(len(targets)),
		logfields.Status(heroStatus(int(placeholders.Load()))))
	return int(placeholders.Load()), nil
}

func heroStatus(placeholders int) string {
	if placeholders > 0 {
		return hero.StatusFallback
	}
	return hero.StatusSuccess
}
