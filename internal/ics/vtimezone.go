package ics

import (
	ical "github.com/arran4/golang-ical"
)

// zoneOffset is a fixed UTC offset with its display abbreviation. No
// daylight-saving rule: the generator assumes fixed-offset zones.
type zoneOffset struct {
	offset string
	name   string
}

// zoneOffsets maps the timezone names the generator can describe to their
// offset pair. Unknown names reuse the default pair so the emitted block
// stays syntactically valid; correct offsets for arbitrary zones are out
// of scope.
var zoneOffsets = map[string]zoneOffset{
	"Asia/Shanghai": {offset: "+0800", name: "CST"},
}

var defaultZoneOffset = zoneOffset{offset: "+0800", name: "CST"}

// timezoneComponent builds the minimal VTIMEZONE definition embedded once
// per document: a single STANDARD sub-block anchored at the epoch.
func timezoneComponent(tzid string) *ical.VTimezone {
	zo, ok := zoneOffsets[tzid]
	if !ok {
		zo = defaultZoneOffset
	}

	std := &ical.Standard{}
	std.SetProperty(ical.ComponentPropertyDtStart, "19700101T000000")
	std.SetProperty(ical.ComponentProperty("TZOFFSETFROM"), zo.offset)
	std.SetProperty(ical.ComponentProperty("TZOFFSETTO"), zo.offset)
	std.SetProperty(ical.ComponentProperty("TZNAME"), zo.name)

	tz := &ical.VTimezone{}
	tz.SetProperty(ical.ComponentProperty("TZID"), tzid)
	tz.Components = append(tz.Components, std)

	return tz
}
