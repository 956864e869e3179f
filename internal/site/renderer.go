package site

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/manifest"
)

// Renderer turns a dataset into the static site under OutputDir.
type Renderer struct {
	site           config.SiteConfig
	outputDir      string
	dataFile       string
	placeholderURL string
	logger         *slog.Logger
	now            func() time.Time
	md             goldmark.Markdown
	tmpl           *pageTemplates
}

// Option customizes a Renderer.
type Option func(*Renderer)

func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = renderClock(now) }
}

// WithDataFile sets the name of the public JSON dump; empty disables it.
func WithDataFile(name string) Option {
	return func(r *Renderer) { r.dataFile = name }
}

// WithPlaceholderURL makes the renderer generate the hero placeholder when it is site-local.
func WithPlaceholderURL(u string) Option {
	return func(r *Renderer) { r.placeholderURL = u }
}

// NewRenderer parses the embedded templates.
func NewRenderer(site config.SiteConfig, outputDir string, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		site:      site,
		outputDir: outputDir,
		dataFile:  config.DefaultDataFile,
		logger:    slog.Default(),
		now:       time.Now,
		md:        newMarkdown(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.site.Lang == "" {
		r.site.Lang = "ja"
	}
	funcs := template.FuncMap{
		"markdown": func(s string) (template.HTML, error) { return renderMarkdown(r.md, s) },
		"inc":      func(i int) int { return i + 1 },
	}
	tmpl, err := parseTemplates(funcs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to parse site templates").Build()
	}
	r.tmpl = tmpl
	return r, nil
}

// OutputDir is the root the renderer writes to.
func (r *Renderer) OutputDir() string { return r.outputDir }

// RenderOptions identify the run recorded in the manifest.
type RenderOptions struct {
	RunID  string
	Inputs manifest.Inputs
}

// Result summarizes a render.
type Result struct {
	Pages     []string
	Written   int
	Unchanged int
	Removed   int
	Manifest  *manifest.BuildManifest
}

// Render writes pages, static assets and the data file, skipping files whose
// fingerprint matches the previous manifest and removing files no longer produced.
func (r *Renderer) Render(ctx context.Context, ds *catalog.Dataset, opts RenderOptions) (*Result, error) {
	start := r.now()
	pages, err := r.RenderPages(ctx, ds)
	if err != nil {
		return nil, err
	}
	assets, err := r.assetPages()
	if err != nil {
		return nil, err
	}
	if r.dataFile != "" {
		data, err := PublicDataJSON(ds)
		if err != nil {
			return nil, err
		}
		assets = append(assets, Page{Path: r.dataFile, Content: data})

		lookup, err := ArtworkLookupJSON(ds)
		if err != nil {
			return nil, err
		}
		assets = append(assets, Page{Path: path.Join(path.Dir(r.dataFile), ArtworkDataFile), Content: lookup})
	}

	prev, err := manifest.Load(r.outputDir)
	if err != nil {
		r.logger.WarnContext(ctx, "Ignoring unreadable build manifest", logfields.Error(err))
		prev = nil
	}
	next := manifest.New(opts.RunID, start)
	next.Inputs = opts.Inputs
	next.WarningCount = len(ds.Meta.Warnings)

	res := &Result{Manifest: next}
	for _, p := range append(pages, assets...) {
		written, err := r.writePage(p, prev, next)
		if err != nil {
			return nil, err
		}
		if written {
			res.Written++
		} else {
			res.Unchanged++
		}
		if strings.HasSuffix(p.Path, ".html") {
			res.Pages = append(res.Pages, p.Path)
		}
	}

	for _, stale := range prev.Stale(next) {
		target := filepath.Join(r.outputDir, filepath.FromSlash(stale))
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to remove stale page").
				WithContext("path", target).
				Build()
		}
		res.Removed++
	}

	next.Status = "success"
	next.Duration = r.now().Sub(start).Milliseconds()
	if err := next.Save(r.outputDir); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to save build manifest").Build()
	}

	r.logger.InfoContext(ctx, "Site rendered",
		logfields.Path(r.outputDir),
		logfields.Count(len(res.Pages)),
		slog.Int("written", res.Written),
		slog.Int("unchanged", res.Unchanged),
		slog.Int("removed", res.Removed))
	return res, nil
}

func (r *Renderer) writePage(p Page, prev, next *manifest.BuildManifest) (bool, error) {
	fp := manifest.Fingerprint(p.Path, p.Content)
	next.Record(p.Path, fp)
	target := filepath.Join(r.outputDir, filepath.FromSlash(p.Path))
	if prev.Unchanged(p.Path, fp) {
		if _, err := os.Stat(target); err == nil {
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to create page directory").
			WithContext("path", target).
			Build()
	}
	// #nosec G306 -- generated site files are public
	if err := os.WriteFile(target, p.Content, 0o644); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			WithContext("path", target).
			Build()
	}
	return true, nil
}

func (r *Renderer) assetPages() ([]Page, error) {
	files, err := staticAssets()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to read embedded assets").Build()
	}
	out := make([]Page, 0, len(files)+1)
	for p, data := range files {
		out = append(out, Page{Path: p, Content: data})
	}
	if local := localPath(r.placeholderURL); local != "" && strings.HasSuffix(local, ".jpg") {
		img, err := placeholderJPEG()
		if err != nil {
			return nil, err
		}
		out = append(out, Page{Path: local, Content: img})
	}
	return out, nil
}

// localPath returns the site-relative path of a root-relative URL, or "".
func localPath(u string) string {
	if !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") {
		return ""
	}
	return strings.TrimPrefix(u, "/")
}

// placeholderJPEG draws the 1600x900 gradient used when no hero image is available.
func placeholderJPEG() ([]byte, error) {
	const w, h = 1600, 900
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	from := color.RGBA{R: 0x3a, G: 0x3f, B: 0x58, A: 0xff}
	to := color.RGBA{R: 0xa4, G: 0x37, B: 0x2a, A: 0xff}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x+y) / float64(w+h)
			img.SetRGBA(x, y, color.RGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 0xff,
			})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 70}); err != nil {
		return nil, errors.WrapError(err, errors.CategoryImage, "failed to encode placeholder").Build()
	}
	return buf.Bytes(), nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// ArtworkDataFile is written next to the data file and maps artwork ids to
// their exhibition.
const ArtworkDataFile = "artworks.json"

// ArtworkLookupJSON serializes the artwork index of ds.
func ArtworkLookupJSON(ds *catalog.Dataset) ([]byte, error) {
	data, err := json.MarshalIndent(catalog.BuildArtworkLookup(ds.List), "", "  ")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to encode artwork lookup").Build()
	}
	return append(data, '\n'), nil
}

// PublicDataJSON serializes the dataset without staff-only links.
func PublicDataJSON(ds *catalog.Dataset) ([]byte, error) {
	public := *ds
	public.Meta.Internal = nil
	data, err := json.MarshalIndent(public, "", "  ")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to encode exhibitions data").Build()
	}
	return append(data, '\n'), nil
}
