package present

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
)

// RelatedLimit is the number of related exhibitions linked from a page.
const RelatedLimit = 3

// Fallback call-to-action values.
const (
	FallbackCTALabelJA = "チケットを予約"
	FallbackCTALabelEN = "Book tickets"
	FallbackCTAURL     = "/tickets/"
)

// Breadcrumb is one step of the page trail.
type Breadcrumb struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// CTALabel is a bilingual button label.
type CTALabel struct {
	JA string `json:"ja"`
	EN string `json:"en"`
}

// CTA is the call-to-action shown on detail pages.
type CTA struct {
	Label CTALabel `json:"label"`
	URL   string   `json:"url"`
}

// Navigation is the per-page navigation model.
type Navigation struct {
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	Related     []string     `json:"related"`
	CTA         CTA          `json:"cta"`
}

// ResolveCTA fills missing CTA parts; en falls back to ja before the default.
func ResolveCTA(c config.CTAConfig) CTA {
	ja := strings.TrimSpace(c.LabelJA)
	en := strings.TrimSpace(c.LabelEN)
	if en == "" {
		en = ja
	}
	if ja == "" {
		ja = FallbackCTALabelJA
	}
	if en == "" {
		en = FallbackCTALabelEN
	}
	u := strings.TrimSpace(c.URL)
	if u == "" {
		u = FallbackCTAURL
	}
	return CTA{Label: CTALabel{JA: ja, EN: en}, URL: u}
}

// breadcrumbs links the current page through its DetailURL, which is the path
// the page is written to.
func breadcrumbs(ex catalog.Exhibition, slug string) []Breadcrumb {
	current := ex.DetailURL
	if current == "" {
		current = "/exhibitions/" + slug + "/"
	}
	return []Breadcrumb{
		{Label: "Home", URL: "/"},
		{Label: "Exhibitions", URL: "/exhibitions/"},
		{Label: ex.Title, URL: current},
	}
}

// related walks forward from index with wrap-around, collecting unique slugs.
func related(list []catalog.Exhibition, index int) []string {
	if len(list) <= 1 {
		return []string{}
	}
	out := make([]string, 0, RelatedLimit)
	for offset := 1; len(out) < RelatedLimit && offset < len(list); offset++ {
		slug := EnsureSlug(list[(index+offset)%len(list)])
		if !slices.Contains(out, slug) {
			out = append(out, slug)
		}
	}
	return out
}

// BuildNavigation returns navigation keyed by page slug.
func BuildNavigation(list []catalog.Exhibition, cta config.CTAConfig) map[string]Navigation {
	resolved := ResolveCTA(cta)
	out := make(map[string]Navigation, len(list))
	for i, ex := range list {
		slug := EnsureSlug(ex)
		out[slug] = Navigation{
			Breadcrumbs: breadcrumbs(ex, slug),
			Related:     related(list, i),
			CTA:         resolved,
		}
	}
	return out
}
