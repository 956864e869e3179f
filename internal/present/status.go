package present

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/catalog"
)

// Status places an exhibition relative to today.
type Status string

const (
	StatusPast     Status = "past"
	StatusCurrent  Status = "current"
	StatusUpcoming Status = "upcoming"
)

// Label returns the Japanese label shown on cards.
func (s Status) Label() string {
	switch s {
	case StatusCurrent:
		return "開催中"
	case StatusUpcoming:
		return "開催予定"
	default:
		return "終了"
	}
}

// DeriveStatus compares the UTC day of now with the inclusive period. An
// exhibition is current only when both dates parse; a missing or unparseable
// date never yields current, so undated rows read as upcoming.
func DeriveStatus(now time.Time, p catalog.Period) Status {
	u := now.UTC()
	today := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)

	end, hasEnd := catalog.ParseISODate(p.End)
	if hasEnd && end.Before(today) {
		return StatusPast
	}
	start, hasStart := catalog.ParseISODate(p.Start)
	if hasStart && hasEnd && !start.After(today) {
		return StatusCurrent
	}
	return StatusUpcoming
}

// DurationLabel formats the period as "yyyy/mm/dd – yyyy/mm/dd". A missing
// side is left out, and an undated period yields "".
func DurationLabel(p catalog.Period) string {
	start := strings.ReplaceAll(p.Start, "-", "/")
	end := strings.ReplaceAll(p.End, "-", "/")
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " –"
	case start == "":
		return "– " + end
	}
	return start + " – " + end
}

// Card is the listing view of one exhibition.
type Card struct {
	Exhibition    catalog.Exhibition
	Slug          string
	Status        Status
	StatusLabel   string
	DurationLabel string
}

// BuildCards derives listing cards in list order.
func BuildCards(list []catalog.Exhibition, now time.Time) []Card {
	cards := make([]Card, 0, len(list))
	for _, ex := range list {
		st := DeriveStatus(now, ex.Period)
		cards = append(cards, Card{
			Exhibition:    ex,
			Slug:          EnsureSlug(ex),
			Status:        st,
			StatusLabel:   st.Label(),
			DurationLabel: DurationLabel(ex.Period),
		})
	}
	return cards
}
