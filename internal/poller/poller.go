package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetdock/rentalwatch/internal/rentals"
	"github.com/rs/zerolog"
)

// Config holds poller configuration.
type Config struct {
	PollInterval time.Duration
	// StaleAfter is how old a snapshot must be before Refresh polls again.
	StaleAfter time.Duration
}

// Snapshot is one polled list of active rentals. It is never modified after
// it is published; each poll replaces it wholesale.
type Snapshot struct {
	Rentals   []rentals.ActiveRental
	FetchedAt time.Time
	Version   uint64
}

// Identities returns the identities of the rentals in the snapshot.
func (s *Snapshot) Identities() map[string]rentals.Identity {
	ids := make(map[string]rentals.Identity, len(s.Rentals))
	for _, r := range s.Rentals {
		ids[r.ID] = r.Identity()
	}
	return ids
}

// Update is sent to consumers after every poll attempt.
type Update struct {
	Snapshot *Snapshot
	Health   Health
}

// Poller fetches active rentals on a fixed interval.
type Poller struct {
	src       rentals.Source
	cfg       Config
	log       zerolog.Logger
	now       func() time.Time
	current   atomic.Pointer[Snapshot]
	updateCh  chan Update
	triggerCh chan struct{}
	mu        sync.Mutex
	version   uint64
	health    Health
}

// New creates a poller. Call Start() to begin polling.
func New(src rentals.Source, cfg Config, log zerolog.Logger) *Poller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.StaleAfter <= 0 || cfg.StaleAfter > cfg.PollInterval {
		cfg.StaleAfter = cfg.PollInterval
	}
	return &Poller{
		src:       src,
		cfg:       cfg,
		log:       log.With().Str("component", "poller").Logger(),
		now:       time.Now,
		updateCh:  make(chan Update, 4),
		triggerCh: make(chan struct{}, 1),
	}
}

// Updates returns the channel that receives poll results.
func (p *Poller) Updates() <-chan Update {
	return p.updateCh
}

// Snapshot returns the latest snapshot, or nil before the first success.
func (p *Poller) Snapshot() *Snapshot {
	return p.current.Load()
}

// Health returns the outcome of recent polls.
func (p *Poller) Health() Health {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.health
}

// Start begins the polling loop in the background. It stops when ctx is
// cancelled.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

// Refresh requests an immediate poll unless the current snapshot is younger
// than StaleAfter. It returns whether a poll was requested.
func (p *Poller) Refresh() bool {
	if s := p.current.Load(); s != nil && p.now().Sub(s.FetchedAt) < p.cfg.StaleAfter {
		return false
	}
	p.ForceRefresh()
	return true
}

// ForceRefresh requests an immediate poll cycle.
func (p *Poller) ForceRefresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// Already triggered, skip
	}
}

// Publish installs a rental list fetched elsewhere as the current snapshot.
func (p *Poller) Publish(list []rentals.ActiveRental) {
	p.install(list, p.now())
	p.emitUpdate()
}

func (p *Poller) run(ctx context.Context) {
	// Initial poll
	p.pollCycle(ctx)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollCycle(ctx)
		case <-p.triggerCh:
			p.pollCycle(ctx)
			// Reset ticker after manual trigger
			ticker.Reset(p.cfg.PollInterval)
		}
	}
}

func (p *Poller) pollCycle(ctx context.Context) {
	list, err := p.src.ListActive(ctx)
	now := p.now()
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		p.mu.Lock()
		p.health.RecordFailure(err, now)
		fails := p.health.ConsecFails
		p.mu.Unlock()
		p.log.Warn().Err(err).Int("consecutive_failures", fails).Msg("poll failed, keeping previous snapshot")
		p.emitUpdate()
		return
	}

	s := p.install(list, now)
	p.log.Debug().Int("rentals", len(s.Rentals)).Uint64("version", s.Version).Msg("poll succeeded")
	p.emitUpdate()
}

// install publishes a new snapshot and records the success. Version and store
// happen under mu so Snapshot never goes backwards.
func (p *Poller) install(list []rentals.ActiveRental, now time.Time) *Snapshot {
	active := rentals.FilterActive(list)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.version++
	s := &Snapshot{
		Rentals:   active,
		FetchedAt: now,
		Version:   p.version,
	}
	p.current.Store(s)
	p.health.RecordSuccess(now)
	return s
}

func (p *Poller) emitUpdate() {
	p.mu.Lock()
	update := Update{Snapshot: p.current.Load(), Health: p.health}
	p.mu.Unlock()

	// Non-blocking send; if the channel is full, drop the oldest
	select {
	case p.updateCh <- update:
	default:
		// Drain one and resend
		select {
		case <-p.updateCh:
		default:
		}
		select {
		case p.updateCh <- update:
		default:
		}
	}
}
