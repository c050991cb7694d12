package countdown

import (
	"testing"
	"time"

	"github.com/jetdock/rentalwatch/internal/rentals"
)

func TestTracker_FiresAtMostOnce(t *testing.T) {
	checkIn := base
	r := rental(checkIn, minutes(30))
	var tr Tracker
	tr.Bind(r.Identity())

	var warnings, expired int
	// From 6 minutes remaining to 1 minute overdue.
	start := checkIn.Add(24 * time.Minute)
	for s := 0; s <= 7*60; s++ {
		reading, _ := Evaluate(r, DefaultWarningThreshold, start.Add(time.Duration(s)*time.Second))
		f := tr.Observe(reading.Urgency)
		if f.Warning {
			warnings++
		}
		if f.Expired {
			expired++
		}
	}

	if warnings != 1 || expired != 1 {
		t.Errorf("fired warning %d times and expired %d times, want 1 each", warnings, expired)
	}
	if tr.State() != ExpiredFired {
		t.Errorf("State() = %v, want %v", tr.State(), ExpiredFired)
	}
}

func TestTracker_WarningNotAfterExpired(t *testing.T) {
	var tr Tracker
	tr.Bind(rentals.Identity{ID: "r1"})

	if f := tr.Observe(Expired); !f.Expired || f.Warning {
		t.Errorf("Observe(expired) = %+v, want expired only", f)
	}
	if f := tr.Observe(Warning); f.Any() {
		t.Errorf("Observe(warning) after expired = %+v, want nothing", f)
	}
}

func TestTracker_BindResets(t *testing.T) {
	var tr Tracker
	id := rentals.Identity{ID: "r1", CheckIn: base, DurationMinutes: 30}
	if !tr.Bind(id) {
		t.Error("first Bind() = false, want true")
	}
	tr.Observe(Warning)

	if tr.Bind(id) {
		t.Error("Bind() with same identity = true, want false")
	}
	if tr.State() != WarningFired {
		t.Errorf("State() = %v, want %v", tr.State(), WarningFired)
	}

	extended := id
	extended.DurationMinutes = 60
	if !tr.Bind(extended) {
		t.Error("Bind() with changed duration = false, want true")
	}
	if tr.State() != Armed {
		t.Errorf("State() after rebind = %v, want armed", tr.State())
	}
	if f := tr.Observe(Warning); !f.Warning {
		t.Error("warning should fire again after rebind")
	}
}

func TestTracker_Unbind(t *testing.T) {
	var tr Tracker
	tr.Bind(rentals.Identity{ID: "r1"})
	tr.Observe(Expired)
	tr.Unbind()

	if tr.Bound() {
		t.Error("Bound() = true after Unbind")
	}
	if tr.State() != Armed {
		t.Errorf("State() = %v, want armed", tr.State())
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		Armed:        "armed",
		WarningFired: "warning-fired",
		ExpiredFired: "expired-fired",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
