package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jetdock/rentalwatch/internal/countdown"
	"github.com/jetdock/rentalwatch/internal/rentals"
)

const badgeTickInterval = time.Second

var lastBadgeID atomic.Int64

func nextBadgeID() int {
	return int(lastBadgeID.Add(1))
}

// badgeTickMsg drives one badge. tag identifies the binding that scheduled
// it; ticks from an earlier binding are dropped.
type badgeTickMsg struct {
	id  int
	tag int
	at  time.Time
}

// AlertFunc is called when a badge crosses into the warning or expired tier.
type AlertFunc func(r rentals.ActiveRental, reading countdown.Reading) tea.Cmd

// Badge is a live countdown bound to one rental. It fires OnWarning and
// OnExpired at most once per binding.
type Badge struct {
	OnWarning AlertFunc
	OnExpired AlertFunc

	id        int
	tag       int
	threshold time.Duration
	rental    rentals.ActiveRental
	tracker   countdown.Tracker
	reading   countdown.Reading
	timed     bool
	blink     bool
	now       func() time.Time
}

// NewBadge creates an unbound badge.
func NewBadge(threshold time.Duration) Badge {
	return Badge{
		id:        nextBadgeID(),
		threshold: threshold,
		now:       time.Now,
	}
}

// ID returns the badge id carried by its tick messages.
func (b Badge) ID() int {
	return b.id
}

// Rental returns the bound rental.
func (b Badge) Rental() rentals.ActiveRental {
	return b.rental
}

// Reading returns the last countdown reading. It returns false for unbound
// and open-ended rentals.
func (b Badge) Reading() (countdown.Reading, bool) {
	return b.reading, b.timed
}

// State returns the alert state of the current binding.
func (b Badge) State() countdown.State {
	return b.tracker.State()
}

// Bind attaches the badge to r. A new identity resets the alert state,
// evaluates immediately and restarts ticking. The same identity only
// refreshes the display fields.
func (b Badge) Bind(r rentals.ActiveRental) (Badge, tea.Cmd) {
	b.rental = r
	if !b.tracker.Bind(r.Identity()) {
		return b, nil
	}
	b.tag++
	b.blink = false
	cmd := b.evaluate(b.now())
	return b, tea.Batch(cmd, b.tick())
}

// Unbind detaches the badge. A tick already scheduled is ignored.
func (b Badge) Unbind() Badge {
	b.tracker.Unbind()
	b.tag++
	b.timed = false
	b.reading = countdown.Reading{}
	return b
}

// Init starts ticking a bound, timed badge.
func (b Badge) Init() tea.Cmd {
	return b.tick()
}

// Update handles the badge's own tick messages.
func (b Badge) Update(msg tea.Msg) (Badge, tea.Cmd) {
	tick, ok := msg.(badgeTickMsg)
	if !ok || tick.id != b.id || tick.tag != b.tag || !b.tracker.Bound() {
		return b, nil
	}
	cmd := b.evaluate(tick.at)
	if b.timed && b.reading.Urgency == countdown.Expired {
		b.blink = !b.blink
	} else {
		b.blink = false
	}
	return b, tea.Batch(cmd, b.tick())
}

func (b *Badge) evaluate(now time.Time) tea.Cmd {
	reading, ok := countdown.Evaluate(b.rental, b.threshold, now)
	b.timed = ok
	if !ok {
		b.reading = countdown.Reading{}
		return nil
	}
	b.reading = reading

	fired := b.tracker.Observe(reading.Urgency)
	var cmds []tea.Cmd
	if fired.Warning && b.OnWarning != nil {
		cmds = append(cmds, b.OnWarning(b.rental, reading))
	}
	if fired.Expired && b.OnExpired != nil {
		cmds = append(cmds, b.OnExpired(b.rental, reading))
	}
	return tea.Batch(cmds...)
}

func (b Badge) tick() tea.Cmd {
	if !b.tracker.Bound() || !b.timed {
		return nil
	}
	id, tag := b.id, b.tag
	return tea.Tick(badgeTickInterval, func(t time.Time) tea.Msg {
		return badgeTickMsg{id: id, tag: tag, at: t}
	})
}

// View renders the badge.
func (b Badge) View() string {
	if !b.tracker.Bound() {
		return ""
	}
	if !b.timed {
		return staticBadgeStyle.Render("◌ in use")
	}
	icon := "◷"
	if b.reading.Urgency != countdown.Normal {
		icon = "⚠"
	}
	return badgeStyle(b.reading, b.blink).Render(icon + " " + b.reading.Label)
}
