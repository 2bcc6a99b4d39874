package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/forecast-client/internal/domain"
	"github.com/couchcryptid/forecast-client/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Sink stores a batch of snapshots.
type Sink interface {
	Name() string
	StoreBatch(ctx context.Context, snaps []domain.Snapshot) error
}

// Poller fetches the forecast for every configured location on a fixed
// interval and hands the results to its sinks.
type Poller struct {
	source    domain.ForecastSource
	sinks     []Sink
	locations []domain.Location
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	mu     sync.RWMutex
	latest map[string]domain.Snapshot
}

// New creates a Poller. The clock drives both the tick interval and the
// FetchedAt stamp of each snapshot.
func New(source domain.ForecastSource, sinks []Sink, locations []domain.Location, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Poller {
	return &Poller{
		source:    source,
		sinks:     sinks,
		locations: locations,
		interval:  interval,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		latest:    make(map[string]domain.Snapshot, len(locations)),
	}
}

// CheckReadiness returns nil once at least one forecast has been fetched.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("poller has not fetched any forecasts yet")
	}
	return nil
}

// Run polls immediately and then once per interval until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "locations", len(p.locations), "interval", p.interval)
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.Poll(ctx)
		}
	}
}

// Poll runs one cycle: fetch every location, then store the successes in
// every sink. It returns the number of forecasts fetched.
func (p *Poller) Poll(ctx context.Context) int {
	start := p.clock.Now()

	snaps := make([]domain.Snapshot, 0, len(p.locations))
	for _, loc := range p.locations {
		if ctx.Err() != nil {
			return len(snaps)
		}
		f, err := p.source.Forecast(ctx, loc.Lat, loc.Lon)
		if err != nil {
			if ctx.Err() != nil {
				return len(snaps)
			}
			p.logger.Warn("fetch forecast failed", "location", loc.Key(), "error", err)
			continue
		}
		snaps = append(snaps, domain.Snapshot{Location: loc, Forecast: f, FetchedAt: p.clock.Now().UTC()})
	}

	if len(snaps) == 0 {
		return 0
	}

	p.mu.Lock()
	for _, s := range snaps {
		p.latest[s.Location.Key()] = s
	}
	p.mu.Unlock()
	p.ready.Store(true)

	for _, sink := range p.sinks {
		if err := sink.StoreBatch(ctx, snaps); err != nil {
			p.logger.Error("store snapshots failed", "sink", sink.Name(), "error", err, "batch_size", len(snaps))
			p.metrics.SinkErrors.WithLabelValues(sink.Name()).Inc()
			continue
		}
		p.metrics.SnapshotsStored.WithLabelValues(sink.Name()).Add(float64(len(snaps)))
	}

	p.metrics.PollDuration.Observe(p.clock.Since(start).Seconds())
	p.logger.Debug("poll complete", "fetched", len(snaps), "locations", len(p.locations))
	return len(snaps)
}

// Latest returns the most recent snapshot fetched for a location.
func (p *Poller) Latest(loc domain.Location) (domain.Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.latest[loc.Key()]
	return s, ok
}

// Snapshots returns the latest snapshot of every location fetched so far,
// ordered by location key.
func (p *Poller) Snapshots() []domain.Snapshot {
	p.mu.RLock()
	out := make([]domain.Snapshot, 0, len(p.latest))
	for _, s := range p.latest {
		out = append(out, s)
	}
	p.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Location.Key() < out[j].Location.Key() })
	return out
}
