// Package ics builds per-team iCalendar documents from grouped league
// matches using github.com/arran4/golang-ical.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"cslcal/internal/model"
)

const (
	// uidDomain is the fixed domain tag appended to every event UID.
	uidDomain = "csl-calendar"
	prodID    = "-//CSL Calendar//CN"

	// leagueLabel is the fixed competition label in event descriptions.
	leagueLabel = "中超联赛"

	// stampLayout is the iCalendar local date-time form used with TZID.
	stampLayout = "20060102T150405"
)

// Builder assembles team calendar documents. The event duration is fixed
// per builder; every match produces an event exactly that long.
type Builder struct {
	duration time.Duration
}

// NewBuilder returns a Builder emitting events of the given length.
// Non-positive durations fall back to the standard two hours.
func NewBuilder(duration time.Duration) *Builder {
	if duration <= 0 {
		duration = 2 * time.Hour
	}
	return &Builder{duration: duration}
}

// EventUID composes the stable identifier for one (team, match) pair.
// Rounds are zero-padded to at least two digits; wider rounds keep their
// natural width.
func EventUID(leagueID string, season int, teamID string, round int) string {
	return fmt.Sprintf("%s-%d-%s-r%02d@%s", leagueID, season, teamID, round, uidDomain)
}

// TeamCalendar builds the complete calendar document for one team:
// header, fixed-offset timezone definition, then one event per match in
// the order given (callers pass matches already sorted). The serialized
// form uses CRLF line endings throughout.
func (b *Builder) TeamCalendar(lg *model.League, team string, matches []model.Match) (string, error) {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(fmt.Sprintf("%s %d赛程", team, lg.Season))
	cal.SetXWRTimezone(lg.Timezone)

	// The timezone component must precede the events in the output, and
	// AddEvent appends to the same component list.
	cal.Components = append(cal.Components, timezoneComponent(lg.Timezone))

	teamID := lg.TeamID(team)
	for _, m := range matches {
		if err := b.addEvent(cal, lg, teamID, m); err != nil {
			return "", fmt.Errorf("team %s: %w", team, err)
		}
	}

	// Serialize defaults to the platform newline; force CRLF per RFC 5545.
	return cal.Serialize(ical.WithNewLineWindows), nil
}

func (b *Builder) addEvent(cal *ical.Calendar, lg *model.League, teamID string, m model.Match) error {
	start, err := m.Start()
	if err != nil {
		return fmt.Errorf("round %d: %w", m.Round, err)
	}
	end := start.Add(b.duration)

	tzid := &ical.KeyValues{Key: "TZID", Value: []string{lg.Timezone}}

	ev := cal.AddEvent(EventUID(lg.ID, lg.Season, teamID, m.Round))
	ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(stampLayout), tzid)
	ev.SetProperty(ical.ComponentPropertyDtEnd, end.Format(stampLayout), tzid)
	ev.SetSummary(fmt.Sprintf("%s vs %s", m.Home, m.Away))
	// LOCATION is emitted even when there is no venue.
	ev.SetLocation(m.Venue)
	ev.SetDescription(description(lg.Season, m))
	ev.SetStatus(ical.ObjectStatusConfirmed)

	return nil
}

// description renders "{season}中超联赛 第{round}轮", appending the match
// note in full-width parentheses when present. The round is not padded
// here, only in the UID.
func description(season int, m model.Match) string {
	d := fmt.Sprintf("%d%s 第%d轮", season, leagueLabel, m.Round)
	if m.Note != "" {
		d += fmt.Sprintf("（%s）", m.Note)
	}
	return d
}
