package ics

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	applog "github.com/martinaparikova/calendar-asistant/internal/log"
)

// TemporalValue is a raw DTSTART/DTEND value before timezone resolution.
//
// Three shapes exist in feed data:
//   - date-only (VALUE=DATE): DateOnly is true, Time holds midnight of the
//     date; the carrier zone is meaningless.
//   - floating (no TZID, no Z suffix): Floating is true, Time holds the
//     wall clock in UTC purely as a carrier; the consumer decides the zone.
//   - zoned: neither flag set, Time is an absolute instant.
type TemporalValue struct {
	Time     time.Time
	DateOnly bool
	Floating bool
}

// RawOccurrence is one concrete VEVENT instance after recurrence
// expansion, still carrying unresolved temporal values.
type RawOccurrence struct {
	Summary  string
	Location string
	Start    TemporalValue
	// End is nil when the component carries no DTEND.
	End *TemporalValue
}

// definition is a VEVENT as parsed from the feed, before expansion.
type definition struct {
	uid     string
	seq     int
	summary string
	loc     string

	start TemporalValue
	end   *TemporalValue

	rawRRule string
	exDates  []time.Time

	// recurrenceID is set for override components that replace a single
	// instance of a recurring series.
	recurrenceID *time.Time
}

// parseCalendar parses an ICS payload into VEVENT definitions. Components
// of other kinds (VTODO, VFREEBUSY, VTIMEZONE, ...) never surface here:
// the library's Events accessor yields VEVENTs only.
func parseCalendar(feed Feed, body []byte) ([]definition, error) {
	if len(body) == 0 {
		return nil, &FetchError{Feed: feed, Err: errors.New("empty ICS body")}
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Feed: feed, Err: err}
	}

	defs := make([]definition, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		def, perr := parseVEvent(ve)
		if perr != nil {
			// Skip the broken component, keep the rest of the feed.
			applog.Warn("ics vevent skipped", perr, "feed", feed.Name, "url", redactURL(feed.URL))
			continue
		}
		defs = append(defs, def)
	}

	applog.Debug("ics parse completed", "feed", feed.Name, "event_count", len(defs))
	return defs, nil
}

func parseVEvent(ve *ical.VEvent) (definition, error) {
	var def definition

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		def.uid = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySequence); p != nil {
		if n, serr := strconv.Atoi(strings.TrimSpace(p.Value)); serr == nil {
			def.seq = n
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		def.summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		def.loc = p.Value
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return def, errors.New("missing DTSTART")
	}
	start, err := parseTemporal(startProp.Value, startProp.ICalParameters)
	if err != nil {
		return def, err
	}
	def.start = start
	if def.uid == "" {
		// Feeds occasionally omit UID; fall back to a summary+start key so
		// the component still participates in override grouping.
		def.uid = def.summary + "/" + startProp.Value
	}

	if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
		end, eerr := parseTemporal(endProp.Value, endProp.ICalParameters)
		if eerr != nil {
			return def, eerr
		}
		def.end = &end
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		def.rawRRule = p.Value
	}

	// EXDATE may appear multiple times and hold comma-separated values.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if tv, perr := parseTemporal(part, p.ICalParameters); perr == nil {
				def.exDates = append(def.exDates, tv.Time)
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRecurrenceId); p != nil {
		if tv, perr := parseTemporal(p.Value, p.ICalParameters); perr == nil {
			t := tv.Time
			def.recurrenceID = &t
		}
	}

	return def, nil
}

// parseTemporal decodes an ICS date/date-time value, inspecting VALUE and
// TZID parameters to preserve the date-only / floating / zoned distinction.
func parseTemporal(value string, params map[string][]string) (TemporalValue, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TemporalValue{}, errors.New("empty temporal value")
	}

	if isDateValue(value, params) {
		t, err := time.ParseInLocation("20060102", value, time.UTC)
		if err != nil {
			return TemporalValue{}, err
		}
		return TemporalValue{Time: t, DateOnly: true}, nil
	}

	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return TemporalValue{}, err
		}
		return TemporalValue{Time: t}, nil
	}

	if tzid := firstParam(params, "TZID"); tzid != "" {
		if loc, lerr := time.LoadLocation(tzid); lerr == nil {
			t, err := time.ParseInLocation("20060102T150405", value, loc)
			if err != nil {
				return TemporalValue{}, err
			}
			return TemporalValue{Time: t}, nil
		}
		// Unknown TZID: degrade to floating rather than dropping the event.
	}

	t, err := time.ParseInLocation("20060102T150405", value, time.UTC)
	if err != nil {
		return TemporalValue{}, err
	}
	return TemporalValue{Time: t, Floating: true}, nil
}

func isDateValue(value string, params map[string][]string) bool {
	if strings.EqualFold(firstParam(params, "VALUE"), "DATE") {
		return true
	}
	return !strings.Contains(value, "T")
}

func firstParam(params map[string][]string, key string) string {
	if params == nil {
		return ""
	}
	if vs, ok := params[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}
