package commands

import (
	"fmt"
	"io"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/build"
	"git.home.luguber.info/inful/exhibitpal/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides output.directory)"`
	Strict      bool   `help:"Fail when the accessibility audit reports issues"`
	Concurrency int    `help:"Concurrent hero image downloads" default:"4"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	rt, err := newRuntime(g.Ctx, cfg, g.Logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.service.Run(g.Ctx, build.BuildRequest{
		Config:    cfg,
		OutputDir: b.Output,
		Kind:      build.KindBuild,
		Options:   build.BuildOptions{Strict: b.Strict, Concurrency: b.Concurrency},
	})
	if err != nil {
		return err
	}
	printBuildSummary(g.out(), res)
	return nil
}

func printBuildSummary(w io.Writer, res *build.BuildResult) {
	_, _ = fmt.Fprintf(w, "Run %s: %s in %s\n", res.RunID, res.Status, res.Duration.Round(time.Millisecond))
	if res.Dataset != nil {
		_, _ = fmt.Fprintf(w, "  exhibitions: %d  artworks: %d  warnings: %d\n",
			len(res.Dataset.List), res.Dataset.ArtworkCount(), res.WarningCount())
	}
	if res.Render != nil {
		_, _ = fmt.Fprintf(w, "  pages: %d  written: %d  unchanged: %d  removed: %d\n",
			len(res.Render.Pages), res.Render.Written, res.Render.Unchanged, res.Render.Removed)
	}
	if res.Placeholders > 0 {
		_, _ = fmt.Fprintf(w, "  placeholder hero images: %d\n", res.Placeholders)
	}
	printIssues(w, res.AuditIssues)
	_, _ = fmt.Fprintf(w, "Output: %s\n", res.OutputPath)
}

func printIssues(w io.Writer, issues []site.Issue) {
	if len(issues) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "  audit issues: %d\n", len(issues))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(w, "    %s\n", issue.String())
	}
}
