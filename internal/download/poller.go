package download

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
)

const (
	// DefaultPollInterval is how often active jobs are queried
	DefaultPollInterval = time.Second

	// failureWarnThreshold is the number of consecutive failed polls of one
	// job after which failures are logged as warnings
	failureWarnThreshold = 3
)

// PollerConfig contains configuration for the progress poller
type PollerConfig struct {
	Interval time.Duration // default 1s
	Timeout  time.Duration // per poll, defaults to Interval

	// MaxConcurrent caps polls in flight per tick; zero means one per active job.
	MaxConcurrent int
}

// Poller periodically queries progress for every active job and feeds the
// answers into the store. It owns the only timer in the engine.
type Poller struct {
	source   ProgressSource
	store    *Store
	interval time.Duration
	timeout  time.Duration
	limit    int
	log      *logger.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
	failures map[string]int
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	running  bool
}

// NewPoller creates a new progress poller
func NewPoller(source ProgressSource, store *Store, cfg PollerConfig, log *logger.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Poller{
		source:   source,
		store:    store,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		limit:    cfg.MaxConcurrent,
		log:      log,
		inflight: make(map[string]struct{}),
		failures: make(map[string]int),
	}
}

// Start begins the polling loop. Calling Start on a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true

	p.wg.Add(1)
	go p.run(ctx)
	p.log.Info().Dur("interval", p.interval).Msg("poller started")
}

// Stop cancels the loop and every poll in flight, and waits for them to
// return. No update is applied after Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
	p.log.Info().Msg("poller stopped")
}

// Running reports whether the loop is active
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g := p.dispatch(ctx)
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				_ = g.Wait()
			}()
		}
	}
}

// Tick runs one polling round and waits for all of its polls to finish.
func (p *Poller) Tick(ctx context.Context) {
	_ = p.dispatch(ctx).Wait()
}

// dispatch starts one poll per active job that has no poll in flight.
// The active set is read fresh from the store on every call.
func (p *Poller) dispatch(ctx context.Context) *errgroup.Group {
	g := &errgroup.Group{}
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}

	for _, id := range p.store.ActiveIDs() {
		if !p.claim(id) {
			p.log.Debug().Str("job_id", id).Msg("previous poll still in flight, skipping")
			continue
		}
		g.Go(func() error {
			defer p.release(id)
			p.poll(ctx, id)
			return nil
		})
	}
	return g
}

func (p *Poller) poll(ctx context.Context, id string) {
	pollCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	update, err := p.source.Progress(pollCtx, id)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.recordFailure(id, err)
		return
	}

	p.clearFailures(id)
	update.ID = id
	if change, ok := p.store.Reconcile(update); ok {
		p.log.Debug().
			Str("job_id", id).
			Str("change", change.Kind.String()).
			Str("status", change.Job.Status.String()).
			Int("progress", change.Job.Progress).
			Msg("job updated")
	}
}

func (p *Poller) claim(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inflight[id]; busy {
		return false
	}
	p.inflight[id] = struct{}{}
	return true
}

func (p *Poller) release(id string) {
	p.mu.Lock()
	delete(p.inflight, id)
	p.mu.Unlock()
}

func (p *Poller) recordFailure(id string, err error) {
	p.mu.Lock()
	p.failures[id]++
	n := p.failures[id]
	p.mu.Unlock()

	event := p.log.Debug()
	if n >= failureWarnThreshold {
		event = p.log.Warn()
	}
	event.Str("job_id", id).
		Int("consecutive", n).
		Bool("connection", errors.Is(err, errors.ErrConnection)).
		Str("reason", errors.Reason(err)).
		Msg("poll failed, will retry next tick")
}

func (p *Poller) clearFailures(id string) {
	p.mu.Lock()
	delete(p.failures, id)
	p.mu.Unlock()
}

// Failures returns the number of consecutive failed polls for a job
func (p *Poller) Failures(id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures[id]
}
