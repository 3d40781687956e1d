package summary

import (
	"github.com/martinaparikova/calendar-asistant/internal/model"
)

const (
	dayLabelLayout = "Monday 02.01.2006"
	clockLayout    = "15:04"
)

// GroupByDay partitions a sorted event sequence into per-day buckets
// labeled by each event's start date. Days appear in first-occurrence
// order, which for time-sorted input is chronological.
func GroupByDay(events []model.Event) []model.DayGroup {
	groups := make([]model.DayGroup, 0)
	index := make(map[string]int)

	for _, ev := range events {
		label := ev.Start.Format(dayLabelLayout)

		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, model.DayGroup{Label: label})
		}

		view := model.EventView{
			Title:        ev.Title,
			AllDay:       ev.AllDay,
			Location:     ev.Location,
			CalendarName: ev.CalendarName,
		}
		if !ev.AllDay {
			view.StartStr = ev.Start.Format(clockLayout)
			view.EndStr = ev.End.Format(clockLayout)
		}
		groups[i].Events = append(groups[i].Events, view)
	}
	return groups
}
