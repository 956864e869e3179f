package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/exhibitpal/internal/build"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/daemon"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/publish"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Listen  string `help:"HTTP listen address (overrides daemon.listen)"`
	Serve   bool   `help:"Also serve the generated site at /"`
	Publish bool   `help:"Publish after every successful build when publish.repo_dir is set" default:"true" negatable:""`
}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	rt, err := newRuntime(g.Ctx, cfg, g.Logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := daemon.Options{
		ConfigPath: root.Config,
		Config:     cfg,
		Service:    rt.service,
		Logger:     g.Logger,
		Addr:       d.Listen,
		Registry:   rt.registry,
		Schedule:   true,
		ServeSite:  d.Serve,
		Kind:       build.KindBuild,
	}
	if d.Publish {
		opts.AfterBuild = publishAfterBuild(g.Logger)
	}

	dm, err := daemon.New(opts)
	if err != nil {
		return err
	}
	return dm.Run(g.Ctx)
}

// publishAfterBuild commits each successful build when publishing is configured.
func publishAfterBuild(logger *slog.Logger) func(context.Context, *config.Config, *build.BuildResult) {
	return func(ctx context.Context, cfg *config.Config, res *build.BuildResult) {
		if cfg.Publish.RepoDir == "" || res == nil || !res.Status.IsSuccess() {
			return
		}
		p, err := publish.NewPublisher(cfg.Publish, logger)
		if err != nil {
			logger.ErrorContext(ctx, "Publisher unavailable", logfields.Error(err))
			return
		}
		out, err := p.Publish(ctx, res.OutputPath, fmt.Sprintf("Build %s", res.RunID))
		if err != nil {
			logger.ErrorContext(ctx, "Publish failed", logfields.RunID(res.RunID), logfields.Error(err))
			return
		}
		logger.InfoContext(ctx, "Site published",
			logfields.RunID(res.RunID),
			slog.String("commit", out.Commit),
			slog.Bool("changed", out.Changed),
			slog.Bool("pushed", out.Pushed))
	}
}
