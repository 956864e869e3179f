package site

import (
	"bytes"
	"context"
	"html/template"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/present"
)

// Artwork link labels.
const (
	LabelReference  = "参考資料"
	LabelArticle    = "記事"
	LabelIntroMedia = "紹介メディア"
	LabelAudio      = "音声解説"
)

// Page is one generated file, Path relative to the output root with forward slashes.
type Page struct {
	Path    string
	Content []byte
}

type pageMeta struct {
	Site        config.SiteConfig
	Title       string
	Description string
	OGImage     string
	Canonical   string
}

type indexPage struct {
	pageMeta
	Cards []present.Card
}

type relatedLink struct {
	Title string
	URL   string
}

type exhibitionPage struct {
	pageMeta
	Exhibition  catalog.Exhibition
	Hero        present.HeroMedia
	FocalX      float64
	FocalY      float64
	Status      present.Status
	StatusLabel string
	Sections    []present.PageSection
	Slider      *present.Slider
	Navigation  present.Navigation
	Related     []relatedLink
}

// IsLastCrumb marks the current page in the breadcrumb trail.
func (p exhibitionPage) IsLastCrumb(i int) bool {
	return i == len(p.Navigation.Breadcrumbs)-1
}

type artworkPage struct {
	pageMeta
	Exhibition catalog.Exhibition
	Artwork    catalog.Artwork
	Caption    string
	Embed      template.HTML
	Links      []catalog.RelatedURL
}

// outputPath maps a URL path such as /exhibitions/x/ onto exhibitions/x/index.html.
func outputPath(urlPath string) string {
	p := strings.TrimPrefix(urlPath, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	return p
}

func (r *Renderer) meta(title, description, ogImage, urlPath string) pageMeta {
	if description == "" {
		description = r.site.Description
	}
	if ogImage == "" {
		ogImage = r.site.DefaultOGImage
	}
	canonical := ""
	if r.site.BaseURL != "" {
		canonical = strings.TrimSuffix(r.site.BaseURL, "/") + urlPath
	}
	return pageMeta{Site: r.site, Title: title, Description: description, OGImage: ogImage, Canonical: canonical}
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render page").
			WithContext("template", name).
			Build()
	}
	return buf.Bytes(), nil
}

// RenderPages produces every HTML page for ds without touching the filesystem.
func (r *Renderer) RenderPages(ctx context.Context, ds *catalog.Dataset) ([]Page, error) {
	now := r.now()
	list := ds.List
	pages := make([]Page, 0, 2+len(list)+ds.ArtworkCount())

	var root bytes.Buffer
	if err := r.tmpl.root.ExecuteTemplate(&root, "root", r.meta(r.site.Title, "", "", "/")); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render root page").Build()
	}
	pages = append(pages, Page{Path: "index.html", Content: root.Bytes()})

	index, err := r.execute(tmplIndex, indexPage{
		pageMeta: r.meta("Exhibitions", "", "", "/exhibitions/"),
		Cards:    present.BuildCards(list, now),
	})
	if err != nil {
		return nil, err
	}
	pages = append(pages, Page{Path: "exhibitions/index.html", Content: index})

	sliders := present.BuildSliders(list)
	navigation := present.BuildNavigation(list, r.site.CTA)
	titles := make(map[string]relatedLink, len(list))
	for _, ex := range list {
		titles[present.EnsureSlug(ex)] = relatedLink{Title: ex.Title, URL: ex.DetailURL}
	}

	for _, ex := range list {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slug := present.EnsureSlug(ex)
		status := present.DeriveStatus(now, ex.Period)
		nav := navigation[slug]
		var related []relatedLink
		for _, s := range nav.Related {
			related = append(related, titles[s])
		}
		var slider *present.Slider
		if s, ok := sliders[slug]; ok {
			slider = &s
		}

		content, err := r.execute(tmplExhibition, exhibitionPage{
			pageMeta:    r.meta(ex.Title, ex.Summary, ex.HeroImage.Src, ex.DetailURL),
			Exhibition:  ex,
			Hero:        present.ResolveHeroMedia(ex.HeroImage.Src, ex.HeroImage.Alt, ex.Title),
			FocalX:      ex.HeroImage.FocalPoint.X * 100,
			FocalY:      ex.HeroImage.FocalPoint.Y * 100,
			Status:      status,
			StatusLabel: status.Label(),
			Sections:    present.BuildSections(ex),
			Slider:      slider,
			Navigation:  nav,
			Related:     related,
		})
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Path: outputPath(ex.DetailURL), Content: content})

		for _, a := range ex.ArtworkList {
			page, err := r.renderArtwork(ctx, ex, a)
			if err != nil {
				return nil, err
			}
			pages = append(pages, page)
		}
	}
	return pages, nil
}

func (r *Renderer) renderArtwork(ctx context.Context, ex catalog.Exhibition, a catalog.Artwork) (Page, error) {
	detailURL := a.DetailURL
	if detailURL == "" {
		detailURL = path.Join("/exhibitions", ex.ID, a.ArtworkID) + "/"
	}
	a.DetailURL = detailURL

	embed := present.StandfmEmbed(ctx, r.logger, a.AudioURL)
	var links []catalog.RelatedURL
	add := func(u, label string) {
		if catalog.IsHTTPSURL(u) {
			links = append(links, catalog.RelatedURL{URL: u, Label: label})
		}
	}
	add(a.IntroMediaURL, LabelIntroMedia)
	add(a.ReferenceURL, LabelReference)
	add(a.ArticleURL, LabelArticle)
	if embed == "" {
		add(a.AudioURL, LabelAudio)
	}

	description := a.Description
	if description == "" {
		description = ex.Summary
	}
	content, err := r.execute(tmplArtwork, artworkPage{
		pageMeta:   r.meta(a.Title, firstLine(description), a.Image, detailURL),
		Exhibition: ex,
		Artwork:    a,
		Caption:    present.Caption(a),
		Embed:      embed,
		Links:      links,
	})
	if err != nil {
		return Page{}, err
	}
	return Page{Path: outputPath(detailURL), Content: content}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// renderClock returns now, or time.Now when unset.
func renderClock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
