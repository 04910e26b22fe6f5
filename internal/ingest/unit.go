package ingest

import (
	"context"

	"raven_news/internal/models"

	"github.com/sirupsen/logrus"
)

// Pipeline stages a unit can fail in.
const (
	StageFetch   = "fetch"
	StageParse   = "parse"
	StagePersist = "persist"
)

// ItemStore is the slice of the database the scheduler needs: the idempotent
// first-write-wins insert. Implemented by *db.Database.
type ItemStore interface {
	InsertItem(ctx context.Context, item models.Item) (bool, error)
}

// FetchFunc downloads one raw feed document. Implemented by *fetcher.Fetcher.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// UnitReport is the outcome of one feed's fetch-parse-persist unit within a
// tick. Err carries the first failure together with the stage it happened in;
// counts cover whatever the unit completed before that.
type UnitReport struct {
	Feed       string
	Source     string
	Parsed     int
	Skipped    int
	Inserted   int
	Duplicates int
	Stage      string
	Err        error
}

// runUnit executes the pipeline for a single feed. Every failure is contained
// here: the caller only ever receives a report.
func (s *Scheduler) runUnit(ctx context.Context, bf boundFeed) UnitReport {
	rep := UnitReport{Feed: bf.feed.Name, Source: bf.parser.Source()}
	log := s.log.WithFields(logrus.Fields{
		"feed":   bf.feed.Name,
		"source": rep.Source,
		"url":    bf.feed.URL,
	})

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	raw, err := s.fetch(fetchCtx, bf.feed.URL)
	if err != nil {
		rep.Stage, rep.Err = StageFetch, err
		log.WithError(err).Error("Feed fetch failed")
		return rep
	}

	items, skipped, parseErr := bf.parser.Parse(raw)
	rep.Parsed, rep.Skipped = len(items), skipped
	if parseErr != nil {
		// Entries decoded before the breakage are still worth persisting.
		rep.Stage, rep.Err = StageParse, parseErr
		log.WithError(parseErr).Error("Feed parse failed, persisting salvaged entries")
	}
	if skipped > 0 {
		log.WithField("skipped", skipped).Warn("Entries skipped for missing mandatory fields")
	}

	for _, item := range items {
		inserted, err := s.store.InsertItem(ctx, item)
		if err != nil {
			if rep.Err == nil {
				rep.Stage, rep.Err = StagePersist, err
			}
			log.WithError(err).WithField("item_id", item.ID).Error("Persist failed")
			break
		}
		if inserted {
			rep.Inserted++
		} else {
			rep.Duplicates++
		}
	}

	log.WithFields(logrus.Fields{
		"parsed":     rep.Parsed,
		"skipped":    rep.Skipped,
		"inserted":   rep.Inserted,
		"duplicates": rep.Duplicates,
	}).Debug("Unit finished")
	return rep
}
