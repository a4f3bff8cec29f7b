// Package sweeper runs the recurring link-liveness sweep. Once per
// interval it loads every stored link and probes each one concurrently.
// The sweep is pure telemetry: outcomes are logged and nothing is
// persisted or mutated.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/linkwatch/internal/logger"
	"github.com/patric-chuzhbe/linkwatch/internal/models"
)

const errorChannelCapacity = 16

type linksLoader interface {
	GetAllLinks(ctx context.Context) (models.UserLinks, error)
}

type reachabilityProber interface {
	Probe(ctx context.Context, rawURL string) (float64, error)
}

// Sweeper is the process-wide background liveness checker. It is started
// once at initialization and stopped by canceling the context passed to
// Run.
type Sweeper struct {
	db           linksLoader
	prober       reachabilityProber
	interval     time.Duration
	errorChannel chan error
}

// New creates a Sweeper that probes all stored links every interval.
func New(db linksLoader, prober reachabilityProber, interval time.Duration) *Sweeper {
	return &Sweeper{
		db:           db,
		prober:       prober,
		interval:     interval,
		errorChannel: make(chan error, errorChannelCapacity),
	}
}

// Run starts the sweep loop in its own goroutine. The loop exits when ctx
// is canceled. A tick waits for its probes before the next select, so a
// slow tick drops timer firings instead of overlapping the next sweep.
func (s *Sweeper) Run(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepOnce(ctx)
			}
		}
	}()
}

// ListenErrors forwards tick-level errors (failed link-list loads) to the
// given callback on a separate goroutine.
func (s *Sweeper) ListenErrors(callback func(error)) {
	go func() {
		for err := range s.errorChannel {
			callback(err)
		}
	}()
}

// SweepOnce performs a single sweep over all stored links. A failure to
// load the link list aborts the tick; a single link's probe failure is
// isolated and never suppresses the probing of the others.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	links, err := s.db.GetAllLinks(ctx)
	if err != nil {
		s.errorChannel <- err
		return
	}

	logger.Log.Debugln(
		"sweep tick",
		"links", len(links),
		"urls", funk.Map(links, func(link models.Link) string { return link.URL }),
	)

	var wg sync.WaitGroup
	for _, link := range links {
		wg.Add(1)
		go func(link models.Link) {
			defer wg.Done()

			latency, err := s.prober.Probe(ctx, link.URL)
			if err != nil {
				logger.Log.Errorf("link down: %s: %v", link.URL, err)
				return
			}
			logger.Log.Infof("link alive: %s (%.1f ms)", link.URL, latency)
		}(link)
	}
	wg.Wait()
}
