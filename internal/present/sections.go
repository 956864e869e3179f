package present

import (
	"strings"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
)

// Section slugs in display order.
const (
	SectionOverview   = "overview"
	SectionHighlights = "highlights"
	SectionAccess     = "access"
	SectionResources  = "resources"
)

var sectionTitles = map[string]string{
	SectionOverview:   "展示概要",
	SectionHighlights: "見どころ",
	SectionAccess:     "アクセス",
	SectionResources:  "関連リンク",
}

// SectionItem is a highlight heading or a resource link.
type SectionItem struct {
	Type    string `json:"type"`
	Heading string `json:"heading,omitempty"`
	Label   string `json:"label,omitempty"`
	URL     string `json:"url,omitempty"`
}

// PageSection is one block of the detail page.
type PageSection struct {
	Slug  string        `json:"slug"`
	Title string        `json:"title"`
	Body  string        `json:"body"`
	Items []SectionItem `json:"items"`
}

// BuildSections returns overview, highlights, access and resources, skipping empty ones.
// The overview requires a background; the summary is prepended when present.
func BuildSections(ex catalog.Exhibition) []PageSection {
	var out []PageSection

	if background := strings.TrimSpace(ex.Background); background != "" {
		body := background
		if summary := strings.TrimSpace(ex.Summary); summary != "" {
			body = summary + "\n\n" + background
		}
		out = append(out, section(SectionOverview, body, nil))
	}

	var highlights []SectionItem
	for _, h := range ex.HighlightsBlocks {
		if h = strings.TrimSpace(h); h != "" {
			highlights = append(highlights, SectionItem{Type: "highlight", Heading: h})
		}
	}
	if len(highlights) > 0 {
		out = append(out, section(SectionHighlights, "", highlights))
	}

	if venue := strings.TrimSpace(ex.Venue); venue != "" {
		out = append(out, section(SectionAccess, venue, nil))
	}

	var resources []SectionItem
	for _, r := range ex.RelatedURLs {
		if label := strings.TrimSpace(r.Label); label != "" {
			resources = append(resources, SectionItem{Type: "resource", Label: label, URL: r.URL})
		}
	}
	if len(resources) > 0 {
		out = append(out, section(SectionResources, "", resources))
	}
	return out
}

func section(slug, body string, items []SectionItem) PageSection {
	if items == nil {
		items = []SectionItem{}
	}
	return PageSection{Slug: slug, Title: sectionTitles[slug], Body: body, Items: items}
}
