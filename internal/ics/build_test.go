package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cslcal/internal/model"
)

func testLeague(matches ...model.Match) *model.League {
	return &model.League{
		Name:     "中超联赛",
		ID:       "csl",
		Season:   2024,
		Timezone: "Asia/Shanghai",
		Teams:    map[string]string{},
		Matches:  matches,
	}
}

func TestTeamCalendarSingleMatch(t *testing.T) {
	m := model.Match{Round: 1, Date: "2024-03-01", Time: "15:00", Home: "A", Away: "B", Venue: "Stadium X"}
	lg := testLeague(m)

	out, err := NewBuilder(2*time.Hour).TeamCalendar(lg, "A", []model.Match{m})
	require.NoError(t, err)

	for _, line := range []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//CSL Calendar//CN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:A 2024赛程",
		"X-WR-TIMEZONE:Asia/Shanghai",
		"BEGIN:VEVENT",
		"UID:csl-2024-A-r01@csl-calendar",
		"DTSTART;TZID=Asia/Shanghai:20240301T150000",
		"DTEND;TZID=Asia/Shanghai:20240301T170000",
		"SUMMARY:A vs B",
		"LOCATION:Stadium X",
		"DESCRIPTION:2024中超联赛 第1轮",
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		assert.Contains(t, out, line+"\r\n", "missing line %q", line)
	}

	// The away team's document carries its own UID for the same match.
	out, err = NewBuilder(2*time.Hour).TeamCalendar(lg, "B", []model.Match{m})
	require.NoError(t, err)
	assert.Contains(t, out, "UID:csl-2024-B-r01@csl-calendar\r\n")
}

func TestTeamCalendarCRLFOnly(t *testing.T) {
	m := model.Match{Round: 1, Date: "2024-03-01", Time: "15:00", Home: "A", Away: "B"}
	out, err := NewBuilder(0).TeamCalendar(testLeague(m), "A", []model.Match{m})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	// No bare LF anywhere once CRLF pairs are stripped.
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestTeamCalendarEmptyLocationEmitted(t *testing.T) {
	m := model.Match{Round: 4, Date: "2024-04-21", Time: "20:00", Home: "A", Away: "B"}
	out, err := NewBuilder(0).TeamCalendar(testLeague(m), "A", []model.Match{m})
	require.NoError(t, err)

	assert.Contains(t, out, "\r\nLOCATION:\r\n")
}

func TestTeamCalendarTeamIDMapping(t *testing.T) {
	m := model.Match{Round: 1, Date: "2024-03-01", Time: "15:00", Home: "北京国安", Away: "上海申花"}
	lg := testLeague(m)
	lg.Teams = map[string]string{"北京国安": "beijing-guoan"}

	out, err := NewBuilder(0).TeamCalendar(lg, "北京国安", []model.Match{m})
	require.NoError(t, err)
	assert.Contains(t, out, "UID:csl-2024-beijing-guoan-r01@csl-calendar\r\n")

	// Unmapped team: display name is the identifier.
	out, err = NewBuilder(0).TeamCalendar(lg, "上海申花", []model.Match{m})
	require.NoError(t, err)
	assert.Contains(t, out, "UID:csl-2024-上海申花-r01@csl-calendar\r\n")
}

func TestTeamCalendarDurationAndUniqueUIDs(t *testing.T) {
	matches := []model.Match{
		{Round: 1, Date: "2024-03-01", Time: "15:00", Home: "A", Away: "B"},
		{Round: 3, Date: "2024-03-10", Time: "15:00", Home: "D", Away: "A"},
		{Round: 2, Date: "2024-03-10", Time: "19:35", Home: "A", Away: "C"},
	}
	lg := testLeague(matches...)

	out, err := NewBuilder(2*time.Hour).TeamCalendar(lg, "A", matches)
	require.NoError(t, err)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	seen := map[string]bool{}
	prev := ""
	for _, ev := range events {
		uid := ev.GetProperty(ical.ComponentPropertyUniqueId)
		require.NotNil(t, uid)
		assert.False(t, seen[uid.Value], "duplicate UID %s", uid.Value)
		seen[uid.Value] = true

		startVal := ev.GetProperty(ical.ComponentPropertyDtStart).Value
		endVal := ev.GetProperty(ical.ComponentPropertyDtEnd).Value

		start, err := time.Parse("20060102T150405", startVal)
		require.NoError(t, err)
		end, err := time.Parse("20060102T150405", endVal)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, end.Sub(start))

		// Events are emitted in the order given, which is sorted.
		assert.LessOrEqual(t, prev, startVal)
		prev = startVal
	}
}

func TestEventUID(t *testing.T) {
	assert.Equal(t, "csl-2024-A-r01@csl-calendar", EventUID("csl", 2024, "A", 1))
	assert.Equal(t, "csl-2024-A-r12@csl-calendar", EventUID("csl", 2024, "A", 12))
	// Rounds past two digits keep their natural width.
	assert.Equal(t, "csl-2024-A-r100@csl-calendar", EventUID("csl", 2024, "A", 100))
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "2024中超联赛 第5轮",
		description(2024, model.Match{Round: 5}))
	assert.Equal(t, "2024中超联赛 第5轮（补赛）",
		description(2024, model.Match{Round: 5, Note: "补赛"}))
	// Whitespace-free empty note adds no parenthetical.
	assert.Equal(t, "2024中超联赛 第12轮",
		description(2024, model.Match{Round: 12, Note: ""}))
}

func TestTimezoneComponent(t *testing.T) {
	m := model.Match{Round: 1, Date: "2024-03-01", Time: "15:00", Home: "A", Away: "B"}
	out, err := NewBuilder(0).TeamCalendar(testLeague(m), "A", []model.Match{m})
	require.NoError(t, err)

	for _, line := range []string{
		"BEGIN:VTIMEZONE",
		"TZID:Asia/Shanghai",
		"BEGIN:STANDARD",
		"DTSTART:19700101T000000",
		"TZOFFSETFROM:+0800",
		"TZOFFSETTO:+0800",
		"TZNAME:CST",
		"END:STANDARD",
		"END:VTIMEZONE",
	} {
		assert.Contains(t, out, line+"\r\n", "missing line %q", line)
	}

	// One definition per document, placed before the first event.
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VTIMEZONE"))
	assert.Less(t, strings.Index(out, "BEGIN:VTIMEZONE"), strings.Index(out, "BEGIN:VEVENT"))
}

func TestTimezoneComponentUnknownZone(t *testing.T) {
	m := model.Match{Round: 1, Date: "2024-03-01", Time: "15:00", Home: "A", Away: "B"}
	lg := testLeague(m)
	lg.Timezone = "Europe/Paris"

	out, err := NewBuilder(0).TeamCalendar(lg, "A", []model.Match{m})
	require.NoError(t, err)

	// The configured name is carried through; the offset pair stays the
	// default, which keeps the block syntactically valid.
	assert.Contains(t, out, "X-WR-TIMEZONE:Europe/Paris\r\n")
	assert.Contains(t, out, "TZID:Europe/Paris\r\n")
	assert.Contains(t, out, "TZOFFSETTO:+0800\r\n")
	assert.Contains(t, out, "DTSTART;TZID=Europe/Paris:20240301T150000\r\n")

	_, err = ical.ParseCalendar(strings.NewReader(out))
	assert.NoError(t, err)
}

func TestTeamCalendarBadMatch(t *testing.T) {
	m := model.Match{Round: 1, Date: "not-a-date", Time: "15:00", Home: "A", Away: "B"}
	_, err := NewBuilder(0).TeamCalendar(testLeague(m), "A", []model.Match{m})
	assert.Error(t, err)
}
