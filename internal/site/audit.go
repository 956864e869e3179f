package site

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
)

// Audit rules.
const (
	RuleHTMLLang      = "html-lang"
	RuleImageAlt      = "img-alt"
	RuleSlideRole     = "slider-slide-role"
	RuleControlLabel  = "slider-control-label"
	RuleInternalLink  = "internal-link"
	auditLogScope     = "site-audit"
	sliderAttr        = "data-exhibition-slider"
	slideClass        = "slider-item"
	roleDescAttribute = "aria-roledescription"
)

// Issue is one audit finding on a generated page.
type Issue struct {
	Page    string `json:"page"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: [%s] %s", i.Page, i.Rule, i.Message)
}

// AuditOptions tune the link check.
type AuditOptions struct {
	// IgnorePaths are internal URL prefixes served outside the generated site.
	IgnorePaths []string
}

// Audit parses every page under outputDir and reports accessibility and link problems.
func Audit(outputDir string, pages []string, opts AuditOptions) ([]Issue, error) {
	var issues []Issue
	for _, page := range pages {
		target := filepath.Join(outputDir, filepath.FromSlash(page))
		f, err := os.Open(filepath.Clean(target))
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").
				WithContext("html_path", target).
				Build()
		}
		doc, err := html.Parse(f)
		_ = f.Close()
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").
				WithContext("html_path", target).
				Build()
		}
		a := &pageAuditor{page: page, outputDir: outputDir, opts: opts}
		a.walk(doc, false)
		issues = append(issues, a.issues...)
	}
	return issues, nil
}

// LogIssues writes each finding as a warning.
func LogIssues(ctx context.Context, logger *slog.Logger, issues []Issue) {
	for _, is := range issues {
		logger.WarnContext(ctx, is.Message,
			logfields.Scope(auditLogScope),
			logfields.Path(is.Page),
			slog.String("rule", is.Rule))
	}
}

type pageAuditor struct {
	page      string
	outputDir string
	opts      AuditOptions
	issues    []Issue
}

func (a *pageAuditor) add(rule, format string, args ...any) {
	a.issues = append(a.issues, Issue{Page: a.page, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (a *pageAuditor) walk(n *html.Node, inSlider bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "html":
			if strings.TrimSpace(getAttr(n, "lang")) == "" {
				a.add(RuleHTMLLang, "html element has no lang attribute")
			}
		case "img":
			if !hasAttr(n, "alt") {
				a.add(RuleImageAlt, "image %q has no alt attribute", getAttr(n, "src"))
			}
		case "a":
			a.checkLink(getAttr(n, "href"))
		case "button":
			if inSlider && strings.TrimSpace(getAttr(n, "aria-label")) == "" {
				a.add(RuleControlLabel, "slider control has no aria-label")
			}
		}
		if hasAttr(n, sliderAttr) {
			inSlider = true
		}
		if inSlider && hasClass(n, slideClass) && getAttr(n, roleDescAttribute) != "slide" {
			a.add(RuleSlideRole, "slide %q lacks aria-roledescription=\"slide\"", getAttr(n, "data-artwork-id"))
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		a.walk(c, inSlider)
	}
}

func (a *pageAuditor) checkLink(href string) {
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return
	}
	u, err := url.Parse(href)
	if err != nil {
		a.add(RuleInternalLink, "unparseable link %q", href)
		return
	}
	p := u.Path
	if slices.ContainsFunc(a.opts.IgnorePaths, func(prefix string) bool { return prefix != "" && strings.HasPrefix(p, prefix) }) {
		return
	}
	rel := outputPath(p)
	candidates := []string{rel}
	if !strings.HasSuffix(p, "/") && filepath.Ext(p) == "" {
		candidates = append(candidates, rel+"/index.html")
	}
	for _, c := range candidates {
		if _, err := os.Stat(filepath.Join(a.outputDir, filepath.FromSlash(c))); err == nil {
			return
		}
	}
	a.add(RuleInternalLink, "link %q does not resolve to a generated page", href)
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(strings.Fields(getAttr(n, "class")), class)
}
