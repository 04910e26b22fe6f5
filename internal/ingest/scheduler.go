package ingest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"raven_news/internal/config"
	"raven_news/internal/logger"
	"raven_news/internal/rss"

	"github.com/sirupsen/logrus"
)

// boundFeed pairs a configured feed with its resolved parser variant.
type boundFeed struct {
	feed   config.Feed
	parser rss.Parser
}

// Scheduler drives fetch-parse-persist cycles across the configured feeds.
// One tick fans out a unit per feed, waits for all of them, and goes idle
// again; failures never cross unit boundaries. A tick that fires while the
// previous one is still in flight is skipped, not queued.
type Scheduler struct {
	store        ItemStore
	fetch        FetchFunc
	feeds        []boundFeed
	interval     time.Duration
	fetchTimeout time.Duration
	log          *logger.Entry

	running atomic.Bool

	mu       sync.Mutex
	started  bool
	stop     chan struct{}
	loopDone chan struct{}
	ticks    sync.WaitGroup
}

// NewScheduler binds each feed to its parser variant and returns a scheduler
// ready for RunOnce or Start. Feeds with an unregistered source token are
// rejected here rather than surfacing as per-tick failures.
func NewScheduler(store ItemStore, fetch FetchFunc, feeds []config.Feed, interval, fetchTimeout time.Duration) (*Scheduler, error) {
	bound := make([]boundFeed, 0, len(feeds))
	for _, f := range feeds {
		parser, ok := rss.ParserFor(f.Source)
		if !ok {
			return nil, fmt.Errorf("feed %q: no parser for source %q", f.Name, f.Source)
		}
		bound = append(bound, boundFeed{feed: f, parser: parser})
	}

	return &Scheduler{
		store:        store,
		fetch:        fetch,
		feeds:        bound,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		log: logger.Log.WithFields(logrus.Fields{
			"service":  "scheduler",
			"interval": interval.String(),
		}),
	}, nil
}

// RunOnce executes a single tick immediately. skipped is true, and no work is
// done, when another tick is still in flight.
func (s *Scheduler) RunOnce(ctx context.Context) (TickReport, bool) {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("Tick fired while previous tick still in flight, skipping")
		ticksSkipped.Inc()
		return TickReport{}, true
	}
	defer s.running.Store(false)
	return s.tick(ctx), false
}

// Start launches the continuous loop: a tick per interval until Stop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("scheduler already started")
	}
	s.stop = make(chan struct{})
	s.loopDone = make(chan struct{})
	s.started = true
	go s.loop(s.stop, s.loopDone)
	return nil
}

// Stop prevents new ticks and waits for the in-flight tick to drain. Units
// are never aborted midway; a tick either runs to completion or never starts.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stop)
	loopDone := s.loopDone
	s.mu.Unlock()

	<-loopDone
	s.ticks.Wait()
	s.log.Info("Ingestion scheduler stopped")
}

// loop owns the channels it was started with, so a later restart cannot
// touch a loop that is still draining.
func (s *Scheduler) loop(stop <-chan struct{}, loopDone chan<- struct{}) {
	defer close(loopDone)
	s.log.Info("Ingestion scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// The first tick fires immediately, not one interval in.
	s.spawnTick()

	for {
		select {
		case <-ticker.C:
			s.spawnTick()
		case <-stop:
			return
		}
	}
}

func (s *Scheduler) spawnTick() {
	s.ticks.Add(1)
	go func() {
		defer s.ticks.Done()
		s.RunOnce(context.Background())
	}()
}

// tick fans one unit per feed out, joins them all, and aggregates the
// per-source outcomes.
func (s *Scheduler) tick(ctx context.Context) TickReport {
	start := time.Now()
	ticksTotal.Inc()
	s.log.WithField("feeds", len(s.feeds)).Info("Starting ingestion tick")

	units := make([]UnitReport, len(s.feeds))
	var wg sync.WaitGroup
	for i, bf := range s.feeds {
		wg.Add(1)
		go func(i int, bf boundFeed) {
			defer wg.Done()
			units[i] = s.runUnit(ctx, bf)
		}(i, bf)
	}
	wg.Wait()

	report := TickReport{Units: units, Elapsed: time.Since(start)}
	observeTick(report)

	s.log.WithFields(logrus.Fields{
		"inserted":   report.Inserted(),
		"duplicates": report.Duplicates(),
		"skipped":    report.Skipped(),
		"failed":     report.Failed(),
		"elapsed":    report.Elapsed.String(),
	}).Info("Ingestion tick complete")
	return report
}

// TickReport aggregates the unit outcomes of one tick.
type TickReport struct {
	Units   []UnitReport
	Elapsed time.Duration
}

// Inserted is the number of fresh rows persisted across all units.
func (r TickReport) Inserted() int {
	n := 0
	for _, u := range r.Units {
		n += u.Inserted
	}
	return n
}

// Duplicates is the number of already-present items observed across all units.
func (r TickReport) Duplicates() int {
	n := 0
	for _, u := range r.Units {
		n += u.Duplicates
	}
	return n
}

// Skipped is the number of feed entries dropped for missing mandatory fields.
func (r TickReport) Skipped() int {
	n := 0
	for _, u := range r.Units {
		n += u.Skipped
	}
	return n
}

// Failed is the number of units that recorded an error.
func (r TickReport) Failed() int {
	n := 0
	for _, u := range r.Units {
		if u.Err != nil {
			n++
		}
	}
	return n
}
