package present

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
)

var standfmEpisode = regexp.MustCompile(`^https://stand\.fm/episodes/([a-f0-9]+)$`)

// StandfmEmbed returns the iframe markup for a stand.fm episode URL.
// Empty input yields ""; anything else that is not an episode URL is logged and yields "".
func StandfmEmbed(ctx context.Context, logger *slog.Logger, rawURL string) template.HTML {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}
	m := standfmEpisode.FindStringSubmatch(trimmed)
	if m == nil {
		logger.WarnContext(ctx, "Invalid Stand.fm URL format", logfields.URL(trimmed))
		return ""
	}
	// #nosec G203 -- episode id is restricted to hex digits
	return template.HTML(fmt.Sprintf(`<iframe src="https://stand.fm/embed/episodes/%s" class="standfm-embed-iframe" width="100%%" frameborder="0" allowtransparency="true" allow="encrypted-media" data-testid="standfm-iframe" title="stand.fm"></iframe>`, m[1]))
}
