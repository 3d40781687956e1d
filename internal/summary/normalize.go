package summary

import (
	"time"
	"unicode/utf8"

	"github.com/martinaparikova/calendar-asistant/internal/ics"
	"github.com/martinaparikova/calendar-asistant/internal/model"
)

// placeholderTitle replaces an absent or empty summary.
const placeholderTitle = "(Bez názvu)"

// NormalizeTime resolves a raw temporal value into a zoned instant in loc:
//
//   - date-only values become midnight of that date in loc;
//   - zoned values are re-expressed in loc, preserving the absolute instant;
//   - floating values keep their wall clock and get loc attached directly.
func NormalizeTime(v ics.TemporalValue, loc *time.Location) time.Time {
	switch {
	case v.DateOnly:
		y, m, d := v.Time.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case v.Floating:
		y, m, d := v.Time.Date()
		return time.Date(y, m, d, v.Time.Hour(), v.Time.Minute(), v.Time.Second(), v.Time.Nanosecond(), loc)
	default:
		return v.Time.In(loc)
	}
}

// NormalizeEvent converts one raw occurrence into a canonical Event tagged
// with its source calendar name.
//
// A missing end defaults to start+24h for all-day occurrences (feeds
// conventionally make all-day end dates exclusive) and start+1h for timed
// ones. An explicit end that lands before the start is kept as-is.
func NormalizeEvent(occ ics.RawOccurrence, loc *time.Location, calendarName string) model.Event {
	start := NormalizeTime(occ.Start, loc)

	var end time.Time
	if occ.Start.DateOnly {
		if occ.End != nil && occ.End.DateOnly {
			end = NormalizeTime(*occ.End, loc)
		} else {
			end = start.Add(24 * time.Hour)
		}
	} else {
		if occ.End != nil {
			end = NormalizeTime(*occ.End, loc)
		} else {
			end = start.Add(time.Hour)
		}
	}

	title := decodeLenient(occ.Summary)
	if title == "" {
		title = placeholderTitle
	}

	return model.Event{
		Title:        title,
		Start:        start,
		End:          end,
		AllDay:       occ.Start.DateOnly,
		Location:     decodeLenient(occ.Location),
		CalendarName: calendarName,
	}
}

// decodeLenient passes valid UTF-8 through untouched and reinterprets
// anything else as Latin-1 so mis-encoded feed text degrades instead of
// rendering replacement runes.
func decodeLenient(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	rs := make([]rune, 0, len(s))
	for _, b := range []byte(s) {
		rs = append(rs, rune(b))
	}
	return string(rs)
}
