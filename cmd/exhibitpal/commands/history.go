package commands

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `help:"Number of runs to list" default:"20"`
	RunID string `name:"run" help:"Show the warnings recorded for one run"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.ConfigError("run history is disabled (set history.enabled)").Build()
	}
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	if h.RunID != "" {
		warnings, err := store.Warnings(g.Ctx, h.RunID)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(tw, "TYPE\tEXHIBITION\tARTWORK\tROW\tMESSAGE")
		for _, w := range warnings {
			row := ""
			if w.Row > 0 {
				row = fmt.Sprint(w.Row)
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", w.Type, w.ExhibitionID, w.ArtworkID, row, w.Message)
		}
		return nil
	}

	runs, err := store.Recent(g.Ctx, h.Limit)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(tw, "RUN\tKIND\tSTARTED\tDURATION\tSTATUS\tEXHIBITIONS\tARTWORKS\tWARNINGS\tTYPES")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.Kind, r.StartedAt.Local().Format(time.DateTime), r.Duration().Round(time.Millisecond),
			r.Status, r.Exhibitions, r.Artworks, r.WarningCount, formatWarningTypes(r.WarningTypes))
	}
	return nil
}

func formatWarningTypes(types map[string]int) string {
	if len(types) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(types))
	for k := range types {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, types[k]))
	}
	return strings.Join(parts, ",")
}
