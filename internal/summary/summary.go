package summary

import (
	"context"
	"sync"
	"time"

	"github.com/martinaparikova/calendar-asistant/internal/config"
	"github.com/martinaparikova/calendar-asistant/internal/ics"
	applog "github.com/martinaparikova/calendar-asistant/internal/log"
	"github.com/martinaparikova/calendar-asistant/internal/model"
)

// FeedSource yields the raw occurrences of one feed. *ics.Client is the
// production implementation.
type FeedSource interface {
	Occurrences(ctx context.Context, feed ics.Feed) ([]ics.RawOccurrence, error)
}

// Pipeline runs the full aggregation for one report.
type Pipeline struct {
	source FeedSource
	cfg    *config.Config

	// Now is the clock used to anchor the report window; tests override it.
	Now func() time.Time
}

func New(source FeedSource, cfg *config.Config) *Pipeline {
	return &Pipeline{
		source: source,
		cfg:    cfg,
		Now:    time.Now,
	}
}

// Run produces the report for the given mode: it computes the window,
// fetches and normalizes every configured feed concurrently, filters each
// feed to the window, then dedupes, sorts and groups the merged result.
//
// A failing feed is logged by name and contributes zero events; it never
// aborts the other feeds. An unknown mode fails before any feed work.
func (p *Pipeline) Run(ctx context.Context, mode string) (model.Report, error) {
	loc := p.cfg.Location()

	start, end, title, err := Window(mode, p.Now(), loc)
	if err != nil {
		return model.Report{}, err
	}

	// Fan-out: one goroutine per feed, each writing only its own slot.
	results := make([][]model.Event, len(p.cfg.Calendars))
	var wg sync.WaitGroup

	for i, cal := range p.cfg.Calendars {
		if cal.URL == "" {
			applog.Warn("skipping calendar: missing ics_url", nil, "calendar", cal.Name)
			continue
		}

		wg.Add(1)
		go func(i int, feed ics.Feed) {
			defer wg.Done()

			occs, ferr := p.source.Occurrences(ctx, feed)
			if ferr != nil {
				applog.Warn("calendar failed", ferr, "calendar", feed.Name)
				return
			}

			events := make([]model.Event, 0, len(occs))
			for _, occ := range occs {
				events = append(events, NormalizeEvent(occ, loc, feed.Name))
			}
			results[i] = Filter(events, start, end)
		}(i, ics.Feed{Name: cal.Name, URL: cal.URL})
	}
	wg.Wait()

	merged := make([]model.Event, 0)
	for _, events := range results {
		merged = append(merged, events...)
	}

	events := DedupeAndSort(merged)

	applog.Info("summary built",
		"mode", mode,
		"window_start", start.Format(time.RFC3339),
		"window_end", end.Format(time.RFC3339),
		"events", len(events),
	)

	return model.Report{
		Title:  title,
		Intro:  p.cfg.Intro(mode),
		Days:   GroupByDay(events),
		TZName: p.cfg.Timezone,
		Events: events,
	}, nil
}
