package countdown

import "github.com/jetdock/rentalwatch/internal/rentals"

// State is the alert state of one rental binding.
type State int

const (
	Armed State = iota
	WarningFired
	ExpiredFired
)

func (s State) String() string {
	switch s {
	case WarningFired:
		return "warning-fired"
	case ExpiredFired:
		return "expired-fired"
	default:
		return "armed"
	}
}

// Firing reports which alerts an observation triggered.
type Firing struct {
	Warning bool
	Expired bool
}

// Any reports whether anything fired.
func (f Firing) Any() bool {
	return f.Warning || f.Expired
}

// Tracker fires warning and expired at most once each per bound rental.
// The zero value is unbound and armed.
type Tracker struct {
	identity rentals.Identity
	bound    bool
	state    State
}

// Bind attaches the tracker to a rental. Binding a different identity resets
// the tracker to Armed; rebinding the same identity keeps its state. It
// returns true when the state was reset.
func (t *Tracker) Bind(id rentals.Identity) bool {
	if t.bound && t.identity.Equal(id) {
		return false
	}
	t.identity = id
	t.bound = true
	t.state = Armed
	return true
}

// Unbind detaches the tracker and resets it.
func (t *Tracker) Unbind() {
	*t = Tracker{}
}

// Bound reports whether the tracker is attached to a rental.
func (t *Tracker) Bound() bool {
	return t.bound
}

// Identity returns the bound rental identity.
func (t *Tracker) Identity() rentals.Identity {
	return t.identity
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Observe feeds the current urgency. Warning is handled before expired.
func (t *Tracker) Observe(u Urgency) Firing {
	var f Firing
	if u == Warning && t.state == Armed {
		t.state = WarningFired
		f.Warning = true
	}
	if u == Expired && t.state != ExpiredFired {
		t.state = ExpiredFired
		f.Expired = true
	}
	return f
}
