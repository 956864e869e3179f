package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

type headerIndex map[string]int

func buildHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, exists := idx[name]; !exists {
			idx[name] = i
		}
	}
	return idx
}

// cell returns the trimmed value under header, or "" when the column or cell is absent.
func (h headerIndex) cell(row []string, header string) string {
	i, ok := h[header]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// IsHTTPSURL reports whether value parses as an absolute https URL.
func IsHTTPSURL(value string) bool {
	if value == "" {
		return false
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host != ""
}

// NormalizeDate converts y/m/d, y-m-d or y.m.d into a zero-padded ISO date.
// It returns "" for empty or impossible dates.
func NormalizeDate(value string) string {
	if value == "" {
		return ""
	}
	normalized := strings.NewReplacer(".", "/", "-", "/").Replace(value)
	parts := strings.Split(normalized, "/")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ""
	}
	iso := padLeft(parts[0], 4) + "-" + padLeft(parts[1], 2) + "-" + padLeft(parts[2], 2)
	if _, err := time.Parse(isoDate, iso); err != nil {
		return ""
	}
	return iso
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// ParseISODate parses a value produced by NormalizeDate.
func ParseISODate(iso string) (time.Time, bool) {
	t, err := time.Parse(isoDate, iso)
	return t, err == nil
}

func formatJapaneseDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

func buildPeriod(startISO, endISO string) Period {
	p := Period{Start: startISO, End: endISO}
	start, hasStart := ParseISODate(startISO)
	end, hasEnd := ParseISODate(endISO)
	switch {
	case hasStart && hasEnd:
		p.Display = formatJapaneseDate(start) + "〜" + formatJapaneseDate(end)
	case hasStart:
		p.Display = formatJapaneseDate(start)
	case hasEnd:
		p.Display = formatJapaneseDate(end)
	}
	return p
}
