// Package schedule decodes league JSON documents and groups their matches
// per participating team.
package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"cslcal/internal/model"
)

// DefaultTimezone applies when neither the league file nor the caller
// supplies a timezone name.
const DefaultTimezone = "Asia/Shanghai"

// Parse decodes one league JSON document and validates every field the
// generator depends on. Validation covers the whole document up front: a
// league that fails anywhere produces no output at all.
//
// defaultTimezone is used when the document omits "timezone"; pass "" for
// the built-in default.
func Parse(data []byte, defaultTimezone string) (*model.League, error) {
	var lg model.League
	if err := json.Unmarshal(data, &lg); err != nil {
		return nil, fmt.Errorf("decode league: %w", err)
	}

	if lg.Name == "" {
		return nil, errors.New("league: missing required field \"league\"")
	}
	if lg.ID == "" {
		return nil, errors.New("league: missing required field \"leagueId\"")
	}
	if lg.Season == 0 {
		return nil, errors.New("league: missing required field \"season\"")
	}
	// A nil slice means the "matches" key was absent; an empty array is a
	// valid league with no output.
	if lg.Matches == nil {
		return nil, errors.New("league: missing required field \"matches\"")
	}

	if lg.Timezone == "" {
		if defaultTimezone == "" {
			defaultTimezone = DefaultTimezone
		}
		lg.Timezone = defaultTimezone
	}

	for i := range lg.Matches {
		if err := validateMatch(lg.Matches[i]); err != nil {
			return nil, fmt.Errorf("match %d: %w", i, err)
		}
	}

	return &lg, nil
}

func validateMatch(m model.Match) error {
	if m.Round <= 0 {
		return fmt.Errorf("round must be a positive integer, got %d", m.Round)
	}
	if m.Home == "" {
		return errors.New("missing required field \"home\"")
	}
	if m.Away == "" {
		return errors.New("missing required field \"away\"")
	}
	if m.Date == "" {
		return errors.New("missing required field \"date\"")
	}
	if m.Time == "" {
		return errors.New("missing required field \"time\"")
	}
	if _, err := m.Start(); err != nil {
		return err
	}
	return nil
}

// TeamFixtures attributes every match to its home and its away team, names
// taken verbatim, and returns each team's matches sorted by (date, time)
// ascending. The sort is stable, so same-kickoff matches keep their input
// order. Date and time strings compare lexicographically, which for the
// fixed YYYY-MM-DD / HH:MM formats is chronological order.
func TeamFixtures(lg *model.League) map[string][]model.Match {
	byTeam := make(map[string][]model.Match)
	for _, m := range lg.Matches {
		byTeam[m.Home] = append(byTeam[m.Home], m)
		byTeam[m.Away] = append(byTeam[m.Away], m)
	}

	for team, matches := range byTeam {
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].Date != matches[j].Date {
				return matches[i].Date < matches[j].Date
			}
			return matches[i].Time < matches[j].Time
		})
		byTeam[team] = matches
	}

	return byTeam
}

// TeamNames returns the grouped team names in sorted order, so callers emit
// calendars deterministically.
func TeamNames(byTeam map[string][]model.Match) []string {
	names := make([]string, 0, len(byTeam))
	for name := range byTeam {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
