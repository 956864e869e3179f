package hero

import (
	"strings"
	"time"
)

// Asset statuses.
const (
	StatusSuccess  = "success"
	StatusFallback = "fallback"
)

// Output is one optimized rendition.
type Output struct {
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Path     string `json:"path"`
	File     string `json:"file,omitempty"`
	Filesize int64  `json:"filesize"`
}

// AltText is the bilingual alternative text of a hero image.
type AltText struct {
	JA string `json:"ja"`
	EN string `json:"en"`
}

// EnsureAltText fills empty languages: ja from the title, en from ja then the title.
func EnsureAltText(alt *AltText, title string) AltText {
	if alt == nil {
		return AltText{JA: title, EN: title}
	}
	ja := strings.TrimSpace(alt.JA)
	en := strings.TrimSpace(alt.EN)
	if en == "" {
		en = ja
	}
	if ja == "" {
		ja = title
	}
	if en == "" {
		en = title
	}
	return AltText{JA: ja, EN: en}
}

// CacheInfo reports where the original lives and whether it came from a previous run.
type CacheInfo struct {
	LocalPath string `json:"localPath"`
	FromCache bool   `json:"fromCache"`
}

// Asset is a resolved hero image; it is persisted as metadata.json.
type Asset struct {
	DriveFileID      string    `json:"driveFileId"`
	SourceURL        string    `json:"sourceUrl"`
	LocalPath        string    `json:"localPath"`
	OptimizedOutputs []Output  `json:"optimizedOutputs"`
	FetchedAt        time.Time `json:"fetchedAt"`
	Checksum         string    `json:"checksum"`
	Status           string    `json:"status"`
	Warning          string    `json:"warning,omitempty"`
	AltText          AltText   `json:"altText"`
	Cache            CacheInfo `json:"cache"`
	Src              string    `json:"src"`
}

// IsPlaceholder reports whether the asset carries no cached image at all.
func (a Asset) IsPlaceholder() bool {
	return a.Status == StatusFallback && !a.Cache.FromCache
}

// primarySource picks the first webp output, else the first output, else the source URL.
func primarySource(outputs []Output, sourceURL string) string {
	for _, o := range outputs {
		if o.Format == "webp" {
			return o.Path
		}
	}
	if len(outputs) > 0 {
		return outputs[0].Path
	}
	return sourceURL
}
