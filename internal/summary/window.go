package summary

import (
	"errors"
	"fmt"
	"time"

	"github.com/martinaparikova/calendar-asistant/internal/model"
)

// Report modes.
const (
	ModeDaily  = "daily"
	ModeWeekly = "weekly"
)

// ErrInvalidMode is returned for any mode outside {daily, weekly}.
var ErrInvalidMode = errors.New(`mode must be "daily" or "weekly"`)

const dayTitleLayout = "Monday 02.01.2006"

// Window computes the report window and its human title for the given
// mode, relative to now in loc.
//
// Daily covers tomorrow from midnight to 23:59:59. Weekly covers the next
// Monday (or today, when now falls on a Monday) at midnight through the
// following Sunday at 23:59:59.
func Window(mode string, now time.Time, loc *time.Location) (start, end time.Time, title string, err error) {
	now = now.In(loc)

	switch mode {
	case ModeDaily:
		target := now.AddDate(0, 0, 1)
		start = time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, loc)
		end = time.Date(target.Year(), target.Month(), target.Day(), 23, 59, 59, 0, loc)
		title = "Zítřejší plán – " + start.Format(dayTitleLayout)
	case ModeWeekly:
		// Monday=0 .. Sunday=6, so today's Monday keeps offset 0.
		weekday := (int(now.Weekday()) + 6) % 7
		daysToMonday := (7 - weekday) % 7
		monday := now.AddDate(0, 0, daysToMonday)
		start = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, loc)
		sunday := start.AddDate(0, 0, 6)
		end = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, loc)
		title = fmt.Sprintf("Týdenní plán – %s–%s", start.Format("02.01."), end.Format("02.01.2006"))
	default:
		err = fmt.Errorf("%w, got %q", ErrInvalidMode, mode)
	}
	return start, end, title, err
}

// Overlaps reports whether the event's interval overlaps the half-open
// window [start, end). Boundary-touching and zero-duration events at the
// window edges are excluded.
func Overlaps(ev model.Event, start, end time.Time) bool {
	return ev.End.After(start) && ev.Start.Before(end)
}

// Filter keeps the events overlapping [start, end), preserving order.
func Filter(events []model.Event, start, end time.Time) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if Overlaps(ev, start, end) {
			out = append(out, ev)
		}
	}
	return out
}
