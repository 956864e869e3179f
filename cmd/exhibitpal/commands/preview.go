package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/exhibitpal/internal/build"
	"git.home.luguber.info/inful/exhibitpal/internal/daemon"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
)

// PreviewCmd implements the 'preview' command: build into a temporary
// directory, serve it, and rebuild when the config or fixtures change.
type PreviewCmd struct {
	Port int    `help:"Port to serve the preview on" default:"8080"`
	Host string `help:"Interface to bind" default:"localhost"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	rt, err := newRuntime(g.Ctx, cfg, g.Logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	tmp, err := os.MkdirTemp("", "exhibitpal-preview-*")
	if err != nil {
		return errors.FileSystemError("failed to create preview directory").WithCause(err).Build()
	}
	defer func() {
		if rmErr := os.RemoveAll(tmp); rmErr != nil {
			g.Logger.Warn("Failed to remove preview directory", logfields.Path(tmp), logfields.Error(rmErr))
		}
	}()

	d, err := daemon.New(daemon.Options{
		ConfigPath: root.Config,
		Config:     cfg,
		Service:    rt.service,
		Logger:     g.Logger,
		Addr:       fmt.Sprintf("%s:%d", p.Host, p.Port),
		Registry:   rt.registry,
		ServeSite:  true,
		OutputDir:  tmp,
		Kind:       build.KindPreview,
	})
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-d.Ready():
			_, _ = fmt.Fprintf(g.out(), "Preview at http://%s/ (Ctrl+C to stop)\n", d.Addr())
		case <-g.Ctx.Done():
		}
	}()
	return d.Run(g.Ctx)
}
