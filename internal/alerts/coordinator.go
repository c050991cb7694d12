// Package alerts decides when a rental alert fires and fans it out to sound,
// toast and desktop push notifications, at most once per rental and kind.
package alerts

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetdock/rentalwatch/internal/countdown"
	"github.com/jetdock/rentalwatch/internal/notify"
	"github.com/jetdock/rentalwatch/internal/poller"
	"github.com/jetdock/rentalwatch/internal/rentals"
	"github.com/jetdock/rentalwatch/internal/sound"
	"github.com/rs/zerolog"
)

// Player plays alert sounds.
type Player interface {
	Initialize() bool
	Play(kind sound.Kind)
}

// Pusher delivers desktop notifications.
type Pusher interface {
	RequestPermission(ctx context.Context) bool
	Show(p notify.Push)
}

// SnapshotSource provides polled rental snapshots.
type SnapshotSource interface {
	Updates() <-chan poller.Update
	Snapshot() *poller.Snapshot
}

// Config holds coordinator settings.
type Config struct {
	WarningThreshold time.Duration
	// ToastDuration is how long warning toasts stay up. Expired toasts stay
	// until dismissed.
	ToastDuration time.Duration
	TickInterval  time.Duration
}

// Event describes one fired alert.
type Event struct {
	Kind    Kind
	Rental  rentals.ActiveRental
	Reading countdown.Reading
	At      time.Time
}

// Coordinator evaluates every active rental once per tick and fires alerts.
type Coordinator struct {
	cfg    Config
	src    SnapshotSource
	store  *Store
	player Player
	pusher Pusher
	toasts notify.Sink
	log    zerolog.Logger

	now      func() time.Time
	dispatch func(func())

	snapshot atomic.Pointer[poller.Snapshot]

	armOnce sync.Once
	armed   atomic.Bool
}

// NewCoordinator wires a coordinator. player, pusher and toasts may be nil.
func NewCoordinator(src SnapshotSource, store *Store, player Player, pusher Pusher, toasts notify.Sink, cfg Config, log zerolog.Logger) *Coordinator {
	if cfg.WarningThreshold <= 0 {
		cfg.WarningThreshold = countdown.DefaultWarningThreshold
	}
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = 10 * time.Second
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if store == nil {
		store = NewStore()
	}
	return &Coordinator{
		cfg:      cfg,
		src:      src,
		store:    store,
		player:   player,
		pusher:   pusher,
		toasts:   toasts,
		log:      log.With().Str("component", "coordinator").Logger(),
		now:      time.Now,
		dispatch: func(f func()) { go f() },
	}
}

// Store returns the deduplication store.
func (c *Coordinator) Store() *Store {
	return c.store
}

// Run evaluates rentals every tick until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	if c.pusher != nil {
		c.dispatch(func() {
			if !c.pusher.RequestPermission(ctx) {
				c.log.Info().Msg("desktop notifications unavailable, using toasts only")
			}
		})
	}

	if s := c.src.Snapshot(); s != nil {
		c.Apply(s)
	}

	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-c.src.Updates():
			if update.Snapshot != nil {
				c.Apply(update.Snapshot)
			}
		case <-ticker.C:
			c.EvaluateAt(c.now())
		}
	}
}

// Apply installs a new snapshot and forgets alerts for rentals that left the
// active set or were rebooked.
func (c *Coordinator) Apply(s *poller.Snapshot) {
	if prev := c.snapshot.Load(); prev != nil && prev.Version >= s.Version {
		return
	}
	c.snapshot.Store(s)
	if dropped := c.store.Reconcile(s.Identities()); len(dropped) > 0 {
		c.log.Debug().Strs("rental_ids", dropped).Msg("cleared alert state for inactive rentals")
	}
}

// Snapshot returns the snapshot the coordinator evaluates against.
func (c *Coordinator) Snapshot() *poller.Snapshot {
	return c.snapshot.Load()
}

// ArmSound initializes the sound engine the first time it is called. It is
// meant to be called from the first user interaction of the session.
func (c *Coordinator) ArmSound() bool {
	c.armOnce.Do(func() {
		if c.player == nil {
			return
		}
		ok := c.player.Initialize()
		c.armed.Store(ok)
		c.log.Debug().Bool("ok", ok).Msg("sound armed")
	})
	return c.armed.Load()
}

// Counts tallies urgent rentals in the latest snapshot.
func (c *Coordinator) Counts(now time.Time) countdown.Counts {
	s := c.snapshot.Load()
	if s == nil {
		return countdown.Counts{}
	}
	return countdown.Tally(s.Rentals, c.cfg.WarningThreshold, now)
}

// EvaluateAt checks every rental against now and fires any alert that has
// not fired yet. It returns the alerts fired.
func (c *Coordinator) EvaluateAt(now time.Time) []Event {
	s := c.snapshot.Load()
	if s == nil {
		return nil
	}

	var events []Event
	for _, r := range s.Rentals {
		reading, ok := countdown.Evaluate(r, c.cfg.WarningThreshold, now)
		if !ok {
			continue
		}
		id := r.Identity()

		if reading.Urgency == countdown.Warning && !c.store.HasFired(r.ID, KindWarning) {
			if c.store.MarkFired(id, KindWarning, now) {
				ev := Event{Kind: KindWarning, Rental: r, Reading: reading, At: now}
				c.fire(ev)
				events = append(events, ev)
			}
		}
		if reading.Urgency == countdown.Expired && !c.store.HasFired(r.ID, KindExpired) {
			if c.store.MarkFired(id, KindExpired, now) {
				ev := Event{Kind: KindExpired, Rental: r, Reading: reading, At: now}
				c.fire(ev)
				events = append(events, ev)
			}
		}
	}
	return events
}

func (c *Coordinator) fire(ev Event) {
	c.log.Info().
		Str("rental_id", ev.Rental.ID).
		Str("kind", string(ev.Kind)).
		Str("remaining", ev.Reading.Label).
		Msg("rental alert fired")

	var (
		toast notify.Toast
		push  notify.Push
		snd   sound.Kind
	)
	label := ev.Rental.Label()
	switch ev.Kind {
	case KindWarning:
		snd = sound.KindWarning
		toast = notify.NewToast(notify.SeverityWarning, "Rental ending soon",
			fmt.Sprintf("%s has %s left", label, ev.Reading.Label), c.cfg.ToastDuration, ev.At)
		push = notify.Push{
			Title: "Rental ending soon",
			Body:  fmt.Sprintf("%s has %s left", label, ev.Reading.Label),
		}
	case KindExpired:
		snd = sound.KindExpired
		toast = notify.NewToast(notify.SeverityError, "Rental time is up",
			fmt.Sprintf("%s is overdue", label), 0, ev.At)
		push = notify.Push{
			Title:              "Rental time is up",
			Body:               fmt.Sprintf("%s is overdue and should be brought back", label),
			RequireInteraction: true,
		}
	}
	toast.RentalID = ev.Rental.ID
	push.Tag = "rental-" + ev.Rental.ID + "-" + string(ev.Kind)

	if c.player != nil {
		c.player.Play(snd)
	}
	if c.toasts != nil {
		c.toasts.Toast(toast)
	}
	if c.pusher != nil {
		c.dispatch(func() { c.pusher.Show(push) })
	}
}
