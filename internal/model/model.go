package model

import "time"

// Event is one concrete calendar occurrence normalized into the target
// timezone. Events are immutable once built and live only for the duration
// of a single run.
type Event struct {
	// Title is never empty; an absent summary is replaced by a placeholder.
	Title string

	// Start / End are zoned instants in the target timezone. End may equal
	// Start, or even precede it for malformed feed data; intervals are
	// passed through as-is.
	Start time.Time
	End   time.Time

	// AllDay is true iff the raw start was a date without a time-of-day.
	AllDay bool

	// Location may be empty.
	Location string

	// CalendarName is the configured label of the source feed, assigned at
	// creation.
	CalendarName string
}

// EventView is the presentation form of an Event inside a day group.
type EventView struct {
	Title        string
	StartStr     string // "15:04", empty for all-day events
	EndStr       string // "15:04", empty for all-day events
	AllDay       bool
	Location     string
	CalendarName string
}

// DayGroup holds the events of one day under its display label, in the
// order they appear in the sorted event sequence.
type DayGroup struct {
	Label  string
	Events []EventView
}

// Report is what the rendering and delivery layers consume.
type Report struct {
	Title  string
	Intro  string
	Days   []DayGroup
	TZName string

	// Events is the flat sorted, deduplicated sequence the groups were
	// built from.
	Events []Event
}
