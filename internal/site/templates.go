package site

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed assets/templates/*.html
var templateFS embed.FS

//go:embed assets/static
var staticFS embed.FS

const (
	tmplIndex      = "index"
	tmplExhibition = "exhibition"
	tmplArtwork    = "artwork"
)

// pageTemplates holds one layout clone per page kind plus the root redirect.
type pageTemplates struct {
	pages map[string]*template.Template
	root  *template.Template
}

func parseTemplates(funcs template.FuncMap) (*pageTemplates, error) {
	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "assets/templates/layout.html")
	if err != nil {
		return nil, err
	}
	out := &pageTemplates{pages: make(map[string]*template.Template, 3)}
	for _, name := range []string{tmplIndex, tmplExhibition, tmplArtwork} {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(templateFS, "assets/templates/"+name+".html"); err != nil {
			return nil, err
		}
		out.pages[name] = clone
	}
	root, err := template.New("root").ParseFS(templateFS, "assets/templates/root.html")
	if err != nil {
		return nil, err
	}
	out.root = root
	return out, nil
}

// staticAssets returns the embedded static files keyed by their output path.
func staticAssets() (map[string][]byte, error) {
	sub, err := fs.Sub(staticFS, "assets/static")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte)
	err = fs.WalkDir(sub, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(sub, path)
		if err != nil {
			return err
		}
		out[path] = data
		return nil
	})
	return out, err
}
