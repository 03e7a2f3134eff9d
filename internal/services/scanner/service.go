package scanner

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/webtally/internal/aggregate"
	"github.com/j-veylop/webtally/internal/config"
	"github.com/j-veylop/webtally/internal/logger"
	"github.com/j-veylop/webtally/internal/logline"
	"github.com/j-veylop/webtally/internal/models"
)

// EventType defines the type of scanner event.
type EventType int

const (
	EventScanStarted EventType = iota
	EventFileTallied
	EventScanCompleted
	EventScanFailed
)

// Event represents a scanner progress event.
type Event struct {
	Type   EventType
	Err    error
	Result *Result
	Stat   models.FileStat
	Files  int
}

// Result bundles everything one scan run produced.
type Result struct {
	Tally     aggregate.Tally
	TopURLs   []aggregate.URLCount
	Customers []aggregate.CustomerUsage
	Files     []models.FileStat
	Started   time.Time
	Elapsed   time.Duration
}

// Stats summarizes the result for dashboards and notifications.
func (r *Result) Stats() models.ScanStats {
	if r == nil {
		return models.ScanStats{}
	}
	return models.ScanStats{
		Files:    len(r.Files),
		Records:  r.Tally.Total,
		Offsite:  r.Tally.Offsite,
		Skipped:  r.Tally.Skipped,
		Bytes:    r.Tally.TotalBytes(),
		Elapsed:  r.Elapsed,
		LastScan: r.Started,
	}
}

// Service aggregates log files with a bounded worker pool and reports
// progress on an event channel.
type Service struct {
	cfg       *config.Config
	agg       aggregate.Aggregator
	eventChan chan Event
}

// New creates a scanner from the configuration: column layout, success
// prefix, on-site marker, and error policy all come from cfg.
func New(cfg *config.Config) *Service {
	layout := logline.Layout{
		Request:  cfg.RequestIndex,
		Status:   cfg.StatusIndex,
		Bytes:    cfg.BytesIndex,
		Referrer: cfg.ReferrerIndex,
	}

	policy := aggregate.PolicyFailFast
	if cfg.OnMalformed == "skip" {
		policy = aggregate.PolicySkip
	}

	return &Service{
		cfg:       cfg,
		agg:       aggregate.NewAggregator(logline.NewExtractor(layout, cfg.SuccessPrefix), cfg.OnsiteMarker, policy),
		eventChan: make(chan Event, 100),
	}
}

// Events returns the event channel for subscribing to scan progress.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Scan discovers log files under the given paths and folds them into
// one result. Files aggregate concurrently on up to cfg.Workers
// goroutines; the merge order does not affect the outcome. Under the
// fail-fast policy the first file error cancels the remaining workers
// and the run fails naming that file.
func (s *Service) Scan(ctx context.Context, paths ...string) (*Result, error) {
	if len(paths) == 0 {
		paths = []string{s.cfg.LogDir}
	}

	files, err := Discover(paths...)
	if err != nil {
		s.sendEvent(Event{Type: EventScanFailed, Err: err})
		return nil, err
	}

	s.sendEvent(Event{Type: EventScanStarted, Files: len(files)})
	logger.Info("scan started", "files", len(files), "workers", s.cfg.Workers)

	start := time.Now()

	var (
		mu     sync.Mutex
		global = aggregate.Zero()
		stats  = make([]models.FileStat, 0, len(files))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			fileStart := time.Now()
			tally, err := s.agg.ReadFile(path)
			if err != nil {
				return err
			}

			stat := models.FileStat{
				Path:    path,
				Records: tally.Total,
				Skipped: tally.Skipped,
				Bytes:   tally.TotalBytes(),
				Elapsed: time.Since(fileStart),
			}

			mu.Lock()
			global = aggregate.Merge(global, tally)
			stats = append(stats, stat)
			mu.Unlock()

			s.sendEvent(Event{Type: EventFileTallied, Stat: stat})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.sendEvent(Event{Type: EventScanFailed, Err: err})
		return nil, err
	}

	// Workers append in completion order; restore path order.
	sort.Slice(stats, func(i, j int) bool { return stats[i].Path < stats[j].Path })

	res := &Result{
		Tally:     global,
		TopURLs:   aggregate.TopURLs(global.URLHits, s.cfg.TopLimit),
		Customers: aggregate.RankCustomers(global.CustomerBytes),
		Files:     stats,
		Started:   start,
		Elapsed:   time.Since(start),
	}

	s.sendEvent(Event{Type: EventScanCompleted, Result: res})
	logger.Info("scan completed",
		"files", len(res.Files),
		"records", res.Tally.Total,
		"skipped", res.Tally.Skipped,
		"elapsed", res.Elapsed)

	return res, nil
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}
