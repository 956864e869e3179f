package present

import "git.home.luguber.info/inful/exhibitpal/internal/catalog"

// SliderItemLimit caps the number of slides per exhibition.
const SliderItemLimit = 6

// SliderControls holds the accessible labels of the slider buttons.
type SliderControls struct {
	PreviousLabel string `json:"previousLabel"`
	NextLabel     string `json:"nextLabel"`
	PauseLabel    string `json:"pauseLabel"`
	PlayLabel     string `json:"playLabel"`
}

// DefaultSliderControls are the Japanese control labels.
var DefaultSliderControls = SliderControls{
	PreviousLabel: "前へ",
	NextLabel:     "次へ",
	PauseLabel:    "停止",
	PlayLabel:     "再生",
}

// ImageSource is one <source> candidate.
type ImageSource struct {
	Srcset string `json:"srcset"`
	Type   string `json:"type"`
}

// SlideImage is the picture payload of a slide.
type SlideImage struct {
	Src     string        `json:"src"`
	Alt     string        `json:"alt"`
	Sources []ImageSource `json:"sources"`
}

// SliderItem is one slide.
type SliderItem struct {
	ArtworkID string     `json:"artworkId"`
	Image     SlideImage `json:"image"`
	Caption   string     `json:"caption"`
	AudioURL  string     `json:"audioUrl,omitempty"`
}

// Slider is the carousel configuration of one exhibition page.
type Slider struct {
	Autoplay             bool           `json:"autoplay"`
	Loop                 bool           `json:"loop"`
	PrefersReducedMotion bool           `json:"prefersReducedMotion"`
	Items                []SliderItem   `json:"items"`
	Controls             SliderControls `json:"controls"`
}

// Caption renders "title — artist", or just the title without an artist.
func Caption(a catalog.Artwork) string {
	if a.ArtistName != "" {
		return a.Title + " — " + a.ArtistName
	}
	return a.Title
}

func fallbackSources(src string) []ImageSource {
	return []ImageSource{
		{Srcset: src + " 1x", Type: "image/jpeg"},
		{Srcset: src + " 2x", Type: "image/jpeg"},
	}
}

func selectSlides(ex catalog.Exhibition) []SliderItem {
	if len(ex.ArtworkList) == 0 {
		return nil
	}
	candidates := ex.ArtworkList
	if len(ex.FeaturedArtworkIDs) > 0 {
		byID := make(map[string]catalog.Artwork, len(ex.ArtworkList))
		for _, a := range ex.ArtworkList {
			byID[a.ArtworkID] = a
		}
		candidates = candidates[:0:0]
		for _, id := range ex.FeaturedArtworkIDs {
			if a, ok := byID[id]; ok {
				candidates = append(candidates, a)
			}
		}
	}
	if len(candidates) > SliderItemLimit {
		candidates = candidates[:SliderItemLimit]
	}

	var items []SliderItem
	for _, a := range candidates {
		if a.Image == "" {
			continue
		}
		caption := Caption(a)
		items = append(items, SliderItem{
			ArtworkID: a.ArtworkID,
			Image:     SlideImage{Src: a.Image, Alt: caption, Sources: fallbackSources(a.Image)},
			Caption:   caption,
			AudioURL:  a.AudioURL,
		})
	}
	return items
}

// BuildSliders returns sliders keyed by page slug; exhibitions without slides are omitted.
func BuildSliders(list []catalog.Exhibition) map[string]Slider {
	out := make(map[string]Slider)
	for _, ex := range list {
		items := selectSlides(ex)
		if len(items) == 0 {
			continue
		}
		out[EnsureSlug(ex)] = Slider{
			Autoplay:             true,
			Loop:                 true,
			PrefersReducedMotion: true,
			Items:                items,
			Controls:             DefaultSliderControls,
		}
	}
	return out
}
