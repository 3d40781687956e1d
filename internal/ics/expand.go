package ics

import (
	"context"
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	applog "github.com/martinaparikova/calendar-asistant/internal/log"
)

// The expansion horizon is a wide absolute range that safely contains
// recurring instances for any realistic query window.
var (
	HorizonStart = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	HorizonEnd   = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

// maxOccurrencesPerEvent caps runaway rules (e.g. FREQ=SECONDLY without
// UNTIL) while comfortably covering a daily series across the full horizon.
const maxOccurrencesPerEvent = 100000

// Occurrences fetches one feed and returns its concrete occurrences within
// the expansion horizon. Any failure is a *FetchError for this feed only.
func (c *Client) Occurrences(ctx context.Context, feed Feed) ([]RawOccurrence, error) {
	body, err := c.fetch(ctx, feed)
	if err != nil {
		return nil, err
	}

	defs, err := parseCalendar(feed, body)
	if err != nil {
		return nil, err
	}

	return expand(feed, defs, HorizonStart, HorizonEnd), nil
}

// expand materializes every definition into concrete occurrences within
// [rangeStart, rangeEnd]. Recurring series are expanded via their RRULE
// with EXDATE exceptions removed and RECURRENCE-ID overrides applied.
func expand(feed Feed, defs []definition, rangeStart, rangeEnd time.Time) []RawOccurrence {
	baseByUID := make(map[string][]definition)
	overridesByUID := make(map[string][]definition)
	order := make([]string, 0, len(defs))

	for _, def := range defs {
		if def.recurrenceID != nil {
			overridesByUID[def.uid] = append(overridesByUID[def.uid], def)
			continue
		}
		if _, seen := baseByUID[def.uid]; !seen {
			order = append(order, def.uid)
		}
		baseByUID[def.uid] = append(baseByUID[def.uid], def)
	}

	out := make([]RawOccurrence, 0, len(defs))
	for _, uid := range order {
		overrides := overridesByUID[uid]
		for _, def := range baseByUID[uid] {
			occs, truncated := expandDefinition(def, overrides, rangeStart, rangeEnd)
			out = append(out, occs...)
			if truncated {
				applog.Warn("ics expansion truncated", errors.New("max occurrences reached"),
					"feed", feed.Name, "uid", uid, "cap", maxOccurrencesPerEvent)
			}
		}
	}
	return out
}

func expandDefinition(def definition, overrides []definition, rangeStart, rangeEnd time.Time) ([]RawOccurrence, bool) {
	if def.rawRRule == "" {
		return expandSingle(def, overrides, rangeStart, rangeEnd), false
	}
	return expandRecurring(def, overrides, rangeStart, rangeEnd)
}

func expandSingle(def definition, overrides []definition, rangeStart, rangeEnd time.Time) []RawOccurrence {
	end := def.start.Time
	if def.end != nil {
		end = def.end.Time
	}
	if end.Before(rangeStart) || def.start.Time.After(rangeEnd) {
		return nil
	}

	if o, ok := findOverride(overrides, def.start.Time); ok {
		def = o
	}
	return []RawOccurrence{makeOccurrence(def, def.start, def.end)}
}

func expandRecurring(def definition, overrides []definition, rangeStart, rangeEnd time.Time) ([]RawOccurrence, bool) {
	r, err := rrule.StrToRRule(def.rawRRule)
	if err != nil {
		applog.Warn("ics rrule parse failed", err, "uid", def.uid, "rrule", def.rawRRule)
		return nil, false
	}
	r.DTStart(def.start.Time)

	var set rrule.Set
	set.RRule(r)
	loc := def.start.Time.Location()
	for _, ex := range def.exDates {
		set.ExDate(ex.In(loc))
	}

	times := set.Between(rangeStart.In(loc), rangeEnd.In(loc), true)
	truncated := false
	if len(times) > maxOccurrencesPerEvent {
		times = times[:maxOccurrencesPerEvent]
		truncated = true
	}

	out := make([]RawOccurrence, 0, len(times))
	for _, occStart := range times {
		if def.start.DateOnly {
			occStart = time.Date(occStart.Year(), occStart.Month(), occStart.Day(), 0, 0, 0, 0, occStart.Location())
		}

		start := TemporalValue{Time: occStart, DateOnly: def.start.DateOnly, Floating: def.start.Floating}
		var end *TemporalValue
		if def.end != nil {
			// Preserve the series' original duration.
			end = &TemporalValue{
				Time:     occStart.Add(def.end.Time.Sub(def.start.Time)),
				DateOnly: def.end.DateOnly,
				Floating: def.end.Floating,
			}
		}

		occDef := def
		if o, ok := findOverride(overrides, occStart); ok {
			occDef = o
			start = o.start
			end = o.end
		}

		out = append(out, makeOccurrence(occDef, start, end))
	}
	return out, truncated
}

// findOverride locates an override whose RECURRENCE-ID matches the given
// instance start with exact instant equality. When several components
// override the same instance, the highest SEQUENCE wins.
func findOverride(overrides []definition, instanceStart time.Time) (definition, bool) {
	var best definition
	found := false
	for _, o := range overrides {
		if o.recurrenceID == nil {
			continue
		}
		if !o.recurrenceID.In(instanceStart.Location()).Equal(instanceStart) {
			continue
		}
		if !found || o.seq > best.seq {
			best = o
			found = true
		}
	}
	return best, found
}

func makeOccurrence(def definition, start TemporalValue, end *TemporalValue) RawOccurrence {
	occ := RawOccurrence{
		Summary:  def.summary,
		Location: def.loc,
		Start:    start,
	}
	if end != nil {
		e := *end
		occ.End = &e
	}
	return occ
}
