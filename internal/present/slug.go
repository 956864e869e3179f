package present

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
)

var pageSlugPattern = regexp.MustCompile(`(?i)^[a-z0-9-]+$`)

// EnsureSlug returns the page slug of ex: its slug (or id) when URL safe, else "exhibition-{id}".
func EnsureSlug(ex catalog.Exhibition) string {
	raw := ex.Slug
	if raw == "" {
		raw = ex.ID
	}
	if raw != "" && pageSlugPattern.MatchString(raw) {
		return strings.ToLower(raw)
	}
	id := ex.ID
	if id == "" {
		id = "unknown"
	}
	return "exhibition-" + id
}
