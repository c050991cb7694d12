package countdown

import (
	"testing"
	"time"

	"github.com/jetdock/rentalwatch/internal/rentals"
)

var base = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

func rental(checkIn time.Time, duration *int) rentals.ActiveRental {
	return rentals.ActiveRental{ID: "r1", CheckInTime: &checkIn, ExpectedDurationMinutes: duration, Status: rentals.StatusActive}
}

func minutes(n int) *int { return &n }

func TestFormat(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "+0:00"},
		{1, "0:01"},
		{59, "0:59"},
		{60, "1:00"},
		{299, "4:59"},
		{300, "5min"},
		{301, "5min"},
		{3599, "59min"},
		{3600, "1h"},
		{7265, "2h 1min"},
		{-1, "+0:01"},
		{-90, "+1:30"},
		{-299, "+4:59"},
		{-300, "+5min"},
		{-400, "+6min"},
		{-3600, "+1h"},
		{-5400, "+1h 30min"},
	}

	for _, tt := range tests {
		if got := Format(tt.secs); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestRemainingSeconds(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"at check-in", base, 1800},
		{"one second in", base.Add(time.Second), 1799},
		{"sub-second rounds up", base.Add(29*time.Minute + 59*time.Second + 100*time.Millisecond), 1},
		{"exactly at end", base.Add(30 * time.Minute), 0},
		{"sub-second overdue is zero", base.Add(30*time.Minute + 500*time.Millisecond), 0},
		{"one minute over", base.Add(31 * time.Minute), -60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemainingSeconds(base, 30, tt.now); got != tt.want {
				t.Errorf("RemainingSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRemainingSeconds_Monotonic(t *testing.T) {
	prev := RemainingSeconds(base, 45, base)
	for ms := int64(137); ms < int64(50*time.Minute/time.Millisecond); ms += 137 {
		got := RemainingSeconds(base, 45, base.Add(time.Duration(ms)*time.Millisecond))
		if got > prev {
			t.Fatalf("RemainingSeconds increased from %d to %d at +%dms", prev, got, ms)
		}
		prev = got
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		secs      int64
		threshold time.Duration
		want      Urgency
	}{
		{3600, 5 * time.Minute, Normal},
		{301, 5 * time.Minute, Normal},
		{300, 5 * time.Minute, Warning},
		{1, 5 * time.Minute, Warning},
		{0, 5 * time.Minute, Expired},
		{-30, 5 * time.Minute, Expired},
		{600, 10 * time.Minute, Warning},
		{300, 0, Warning},
		{301, -time.Minute, Normal},
	}

	for _, tt := range tests {
		if got := Classify(tt.secs, tt.threshold); got != tt.want {
			t.Errorf("Classify(%d, %s) = %s, want %s", tt.secs, tt.threshold, got, tt.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	reading, ok := Evaluate(rental(base, minutes(30)), DefaultWarningThreshold, base.Add(26*time.Minute))
	if !ok {
		t.Fatal("Evaluate() ok = false, want true")
	}
	if reading.Remaining != 240 || reading.Urgency != Warning || reading.Label != "4:00" {
		t.Errorf("Evaluate() = %+v, want 240s warning 4:00", reading)
	}
}

func TestEvaluate_Skipped(t *testing.T) {
	tests := []struct {
		name string
		r    rentals.ActiveRental
	}{
		{"open-ended", rental(base, nil)},
		{"zero duration", rental(base, minutes(0))},
		{"negative duration", rental(base, minutes(-15))},
		{"no check-in", rentals.ActiveRental{ID: "r1", ExpectedDurationMinutes: minutes(30)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Evaluate(tt.r, DefaultWarningThreshold, base.Add(time.Hour)); ok {
				t.Error("Evaluate() ok = true, want false")
			}
		})
	}
}

func TestReading_Critical(t *testing.T) {
	tests := []struct {
		remaining int64
		want      bool
	}{
		{61, false},
		{60, true},
		{1, true},
		{0, false},
	}
	for _, tt := range tests {
		r := Reading{Remaining: tt.remaining}
		if got := r.Critical(); got != tt.want {
			t.Errorf("Reading{%d}.Critical() = %v, want %v", tt.remaining, got, tt.want)
		}
	}
}

func TestTally(t *testing.T) {
	now := base.Add(time.Hour)
	// One normal, two warning, two expired, one open-ended, one malformed.
	list := []rentals.ActiveRental{
		rental(base, minutes(120)),
		rental(base, minutes(63)),
		rental(base, minutes(61)),
		rental(base, minutes(60)),
		rental(base, minutes(15)),
		rental(base, nil),
		{ID: "bad", ExpectedDurationMinutes: minutes(5)},
	}

	got := Tally(list, DefaultWarningThreshold, now)
	want := Counts{Warning: 2, Expired: 2}
	if got != want {
		t.Errorf("Tally() = %+v, want %+v", got, want)
	}
}
