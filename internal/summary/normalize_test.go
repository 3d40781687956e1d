package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinaparikova/calendar-asistant/internal/ics"
)

func prague(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	return loc
}

func TestNormalizeTime(t *testing.T) {
	loc := prague(t)

	tests := []struct {
		name string
		in   ics.TemporalValue
		want time.Time
	}{
		{
			name: "date_only_becomes_midnight_in_target_zone",
			in:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), DateOnly: true},
			want: time.Date(2025, 6, 11, 0, 0, 0, 0, loc),
		},
		{
			name: "floating_keeps_wall_clock",
			in:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 9, 30, 0, 0, time.UTC), Floating: true},
			want: time.Date(2025, 6, 11, 9, 30, 0, 0, loc),
		},
		{
			name: "zoned_preserves_instant",
			in:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 7, 0, 0, 0, time.UTC)},
			// UTC+2 in summer.
			want: time.Date(2025, 6, 11, 9, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTime(tt.in, loc)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.Equal(t, loc, got.Location())
			if tt.in.Floating || tt.in.DateOnly {
				assert.Equal(t, tt.in.Time.Hour(), got.Hour())
				assert.Equal(t, tt.in.Time.Minute(), got.Minute())
			}
		})
	}
}

func TestNormalizeEvent_Defaults(t *testing.T) {
	loc := prague(t)

	t.Run("all_day_without_end_lasts_one_day", func(t *testing.T) {
		ev := NormalizeEvent(ics.RawOccurrence{
			Summary: "Holiday",
			Start:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), DateOnly: true},
		}, loc, "Family")

		assert.True(t, ev.AllDay)
		assert.Equal(t, 24*time.Hour, ev.End.Sub(ev.Start))
		assert.Equal(t, "Family", ev.CalendarName)
	})

	t.Run("timed_without_end_lasts_one_hour", func(t *testing.T) {
		ev := NormalizeEvent(ics.RawOccurrence{
			Summary: "Call",
			Start:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 14, 0, 0, 0, time.UTC), Floating: true},
		}, loc, "Work")

		assert.False(t, ev.AllDay)
		assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
	})

	t.Run("all_day_with_date_end_uses_exclusive_end_date", func(t *testing.T) {
		end := ics.TemporalValue{Time: time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), DateOnly: true}
		ev := NormalizeEvent(ics.RawOccurrence{
			Summary: "Trip",
			Start:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), DateOnly: true},
			End:     &end,
		}, loc, "Family")

		assert.Equal(t, 48*time.Hour, ev.End.Sub(ev.Start))
	})

	t.Run("all_day_with_timed_end_falls_back_to_one_day", func(t *testing.T) {
		end := ics.TemporalValue{Time: time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC), Floating: true}
		ev := NormalizeEvent(ics.RawOccurrence{
			Summary: "Odd feed",
			Start:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), DateOnly: true},
			End:     &end,
		}, loc, "Work")

		assert.Equal(t, 24*time.Hour, ev.End.Sub(ev.Start))
	})

	t.Run("inverted_interval_is_preserved", func(t *testing.T) {
		end := ics.TemporalValue{Time: time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC), Floating: true}
		ev := NormalizeEvent(ics.RawOccurrence{
			Summary: "Broken",
			Start:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC), Floating: true},
			End:     &end,
		}, loc, "Work")

		assert.True(t, ev.End.Before(ev.Start), "inverted interval must pass through unchanged")
	})
}

func TestNormalizeEvent_Text(t *testing.T) {
	loc := prague(t)

	t.Run("empty_summary_gets_placeholder", func(t *testing.T) {
		ev := NormalizeEvent(ics.RawOccurrence{
			Start: ics.TemporalValue{Time: time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC), Floating: true},
		}, loc, "Work")
		assert.Equal(t, "(Bez názvu)", ev.Title)
	})

	t.Run("invalid_utf8_degrades_to_latin1", func(t *testing.T) {
		// 0xE9 is "é" in Latin-1 but invalid as a standalone UTF-8 byte.
		ev := NormalizeEvent(ics.RawOccurrence{
			Summary: "Caf\xe9",
			Start:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC), Floating: true},
		}, loc, "Work")
		assert.Equal(t, "Café", ev.Title)
	})

	t.Run("missing_location_is_empty", func(t *testing.T) {
		ev := NormalizeEvent(ics.RawOccurrence{
			Summary: "Call",
			Start:   ics.TemporalValue{Time: time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC), Floating: true},
		}, loc, "Work")
		assert.Empty(t, ev.Location)
	})
}
