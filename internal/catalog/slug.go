package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// IsSlug reports whether s is already a lowercase URL slug.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify lowercases s, strips diacritics and joins ASCII alphanumeric runs with '-'.
// Scripts without an ASCII form are dropped, which may leave an empty result.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingDash = true
		}
	}
	return b.String()
}

// DeriveSlug uses id when it is already a slug, else the slugified title,
// else "exhibition-{id}".
func DeriveSlug(id, title string) string {
	if id != "" && IsSlug(id) {
		return id
	}
	if title != "" {
		if s := Slugify(title); s != "" {
			return s
		}
	}
	if id == "" {
		id = "unknown"
	}
	return "exhibition-" + id
}
