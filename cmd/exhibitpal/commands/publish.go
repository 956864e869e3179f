package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/publish"
)

// PublishCmd implements the 'publish' command.
type PublishCmd struct {
	Dir     string `short:"d" help:"Site directory to publish (defaults to output.directory)"`
	Message string `short:"m" help:"Commit message"`
}

func (p *PublishCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	dir := p.Dir
	if dir == "" {
		dir = cfg.Output.Directory
	}
	msg := p.Message
	if msg == "" {
		msg = "Update exhibition site " + time.Now().UTC().Format(time.RFC3339)
	}

	pub, err := publish.NewPublisher(cfg.Publish, g.Logger)
	if err != nil {
		return err
	}
	res, err := pub.Publish(g.Ctx, dir, msg)
	if err != nil {
		return err
	}

	w := g.out()
	if !res.Changed {
		_, _ = fmt.Fprintln(w, "No changes to publish")
		return nil
	}
	_, _ = fmt.Fprintf(w, "Committed %s", res.Commit)
	if res.Pushed {
		_, _ = fmt.Fprintf(w, " and pushed to %s", cfg.Publish.RemoteURL)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}
