package catalog

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
)

// LogWarnings emits one WARN entry per warning, scoped by the sheet it came from.
func LogWarnings(ctx context.Context, logger *slog.Logger, warnings []Warning) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, w := range warnings {
		scope := w.Scope
		if scope == "" {
			scope = ScopeExhibitions
		}
		attrs := []slog.Attr{
			logfields.Scope(scope),
			logfields.WarningType(string(w.Type)),
		}
		if w.ID != "" {
			attrs = append(attrs, slog.String("id", w.ID))
		}
		if w.ExhibitionID != "" {
			attrs = append(attrs, logfields.ExhibitionID(w.ExhibitionID))
		}
		if w.ArtworkID != "" {
			attrs = append(attrs, logfields.ArtworkID(w.ArtworkID))
		}
		if w.Row > 0 {
			attrs = append(attrs, logfields.Row(w.Row))
		}
		logger.LogAttrs(ctx, slog.LevelWarn, w.Message, attrs...)
	}
}
