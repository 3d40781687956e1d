package summary

import (
	"slices"
	"strings"

	"github.com/martinaparikova/calendar-asistant/internal/model"
)

// dedupeKey is the structural identity of an event. Feeds describing "the
// same meeting" under different calendars stay distinct on purpose.
type dedupeKey struct {
	title      string
	start, end int64
	calendar   string
}

// DedupeAndSort removes events whose (title, start, end, calendar name)
// tuple has already been seen, keeping the first occurrence, then sorts
// by start time with title as tie-breaker. The sort is stable so the
// overall ordering is deterministic.
func DedupeAndSort(events []model.Event) []model.Event {
	seen := make(map[dedupeKey]struct{}, len(events))
	out := make([]model.Event, 0, len(events))

	for _, ev := range events {
		k := dedupeKey{
			title:    ev.Title,
			start:    ev.Start.UnixNano(),
			end:      ev.End.UnixNano(),
			calendar: ev.CalendarName,
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, ev)
	}

	slices.SortStableFunc(out, func(a, b model.Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
	return out
}
