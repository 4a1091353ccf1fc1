package model

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// League is one season's full match list for one competition, as decoded
// from a league JSON file. Timezone and Teams are optional in the input;
// Timezone is defaulted during parsing.
type League struct {
	Name     string            `json:"league"`
	ID       string            `json:"leagueId"`
	Season   int               `json:"season"`
	Timezone string            `json:"timezone,omitempty"`
	Teams    map[string]string `json:"teams,omitempty"`
	Matches  []Match           `json:"matches"`
}

// Match is a single scheduled game between two named teams.
type Match struct {
	Round int    `json:"round"`
	Date  string `json:"date"` // YYYY-MM-DD
	Time  string `json:"time"` // HH:MM, local wall-clock
	Home  string `json:"home"`
	Away  string `json:"away"`
	Venue string `json:"venue,omitempty"`
	Note  string `json:"note,omitempty"`
}

// TeamID resolves a team display name to its identifier. Names absent from
// the league's mapping use the display name itself as the identifier.
func (l *League) TeamID(name string) string {
	if id, ok := l.Teams[name]; ok {
		return id
	}
	return name
}

// Start parses the match's date and time into a naive wall-clock timestamp.
// The timezone is carried separately as a TZID parameter in the output, so
// no location is attached here.
func (m Match) Start() (time.Time, error) {
	t, err := time.Parse(dateLayout+" "+timeLayout, m.Date+" "+m.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse match start %q %q: %w", m.Date, m.Time, err)
	}
	return t, nil
}
