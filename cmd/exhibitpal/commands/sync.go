package commands

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/exhibitpal/internal/build"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/site"
)

// SyncCmd implements the 'sync' command: fetch and normalize without rendering.
type SyncCmd struct {
	Output string `short:"o" help:"Write the dataset JSON to this file instead of stdout"`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	rt, err := newRuntime(g.Ctx, cfg, g.Logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.service.Sync(g.Ctx, build.BuildRequest{Config: cfg, Kind: build.KindSync})
	if err != nil {
		return err
	}
	data, err := site.PublicDataJSON(res.Dataset)
	if err != nil {
		return err
	}

	if s.Output == "" {
		_, err = g.out().Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Output), 0o750); err != nil {
		return errors.FileSystemError("failed to create output directory").
			WithCause(err).
			WithContext("path", s.Output).
			Build()
	}
	if err := os.WriteFile(s.Output, data, 0o600); err != nil {
		return errors.FileSystemError("failed to write dataset").
			WithCause(err).
			WithContext("path", s.Output).
			Build()
	}
	g.Logger.Info("Dataset written",
		logfields.Path(s.Output),
		logfields.Count(len(res.Dataset.List)),
		logfields.SizeBytes(int64(len(data))))
	return nil
}
