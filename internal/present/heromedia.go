package present

import (
	"strings"
	"unicode"
)

// HeroGradientClass styles the placeholder hero.
const HeroGradientClass = "hero-gradient"

// HeroMedia is either an image or an initials placeholder.
type HeroMedia struct {
	Variant         string `json:"variant"`
	Src             string `json:"src,omitempty"`
	Alt             string `json:"alt,omitempty"`
	Label           string `json:"label,omitempty"`
	BackgroundClass string `json:"backgroundClass,omitempty"`
}

// IsImage reports whether the hero shows a picture.
func (h HeroMedia) IsImage() bool { return h.Variant == "image" }

// ResolveHeroMedia picks the image variant when src is set.
func ResolveHeroMedia(src, alt, title string) HeroMedia {
	if src != "" {
		if alt == "" {
			alt = title
		}
		return HeroMedia{Variant: "image", Src: src, Alt: alt}
	}
	return HeroMedia{Variant: "placeholder", Label: Initials(title), BackgroundClass: HeroGradientClass}
}

// Initials derives a two character placeholder label from a title.
func Initials(title string) string {
	var ascii []rune
	for _, r := range title {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			ascii = append(ascii, r)
		}
	}
	if len(ascii) > 0 {
		return strings.ToUpper(string(ascii[:min(2, len(ascii))]))
	}

	segments := strings.FieldsFunc(title, func(r rune) bool {
		return r == '・' || r == '･' || unicode.IsSpace(r)
	})
	var initials []rune
	for _, s := range segments {
		initials = append(initials, []rune(s)[0])
	}
	if len(initials) >= 2 {
		return string(initials[:2])
	}

	runes := []rune(title)
	return string(runes[:min(2, len(runes))])
}
