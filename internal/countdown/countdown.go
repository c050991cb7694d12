// Package countdown holds the time arithmetic behind rental countdowns:
// remaining seconds, urgency tiers and the compact remaining/overdue labels.
package countdown

import (
	"fmt"
	"time"

	"github.com/jetdock/rentalwatch/internal/rentals"
)

// DefaultWarningThreshold is the remaining time at which a rental turns urgent.
const DefaultWarningThreshold = 5 * time.Minute

// Urgency classifies a rental by its remaining time.
type Urgency string

const (
	Normal  Urgency = "normal"
	Warning Urgency = "warning"
	Expired Urgency = "expired"
)

// RemainingSeconds returns the seconds left until checkIn+duration, rounded up
// from milliseconds so a rental is not marked expired early. Zero or negative
// means overdue.
func RemainingSeconds(checkIn time.Time, durationMinutes int, now time.Time) int64 {
	end := checkIn.UnixMilli() + int64(durationMinutes)*60_000
	diff := end - now.UnixMilli()
	if diff > 0 {
		return (diff + 999) / 1000
	}
	// Integer division truncates toward zero, which is the ceiling here.
	return diff / 1000
}

// Classify maps remaining seconds to an urgency tier. A non-positive
// threshold falls back to DefaultWarningThreshold.
func Classify(remainingSeconds int64, threshold time.Duration) Urgency {
	if threshold <= 0 {
		threshold = DefaultWarningThreshold
	}
	switch {
	case remainingSeconds <= 0:
		return Expired
	case remainingSeconds <= int64(threshold/time.Second):
		return Warning
	default:
		return Normal
	}
}

// Format renders remaining (positive) or overdue (zero or negative) seconds.
// Overdue values carry a "+" prefix, so Format(0) is "+0:00".
func Format(totalSeconds int64) string {
	if totalSeconds <= 0 {
		return "+" + formatSpan(-totalSeconds)
	}
	return formatSpan(totalSeconds)
}

func formatSpan(secs int64) string {
	mins := secs / 60
	switch {
	case mins < 5:
		return fmt.Sprintf("%d:%02d", mins, secs%60)
	case mins < 60:
		return fmt.Sprintf("%dmin", mins)
	}
	hours, rem := mins/60, mins%60
	if rem == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dmin", hours, rem)
}

// Reading is one evaluation of a rental's countdown.
type Reading struct {
	Remaining int64
	Urgency   Urgency
	Label     string
}

// Critical reports whether less than a minute remains. It only affects styling.
func (r Reading) Critical() bool {
	return r.Remaining > 0 && r.Remaining <= 60
}

// Evaluate computes the countdown for a rental. It returns false for
// open-ended rentals and for rentals without a check-in time.
func Evaluate(r rentals.ActiveRental, threshold time.Duration, now time.Time) (Reading, bool) {
	d, ok := r.Duration()
	if !ok || r.CheckInTime == nil || r.CheckInTime.IsZero() {
		return Reading{}, false
	}
	remaining := RemainingSeconds(*r.CheckInTime, d, now)
	return Reading{
		Remaining: remaining,
		Urgency:   Classify(remaining, threshold),
		Label:     Format(remaining),
	}, true
}

// Counts tallies rentals in the warning and expired tiers.
type Counts struct {
	Warning int
	Expired int
}

// Tally counts urgent rentals in list. Open-ended and malformed rentals are
// never counted.
func Tally(list []rentals.ActiveRental, threshold time.Duration, now time.Time) Counts {
	var c Counts
	for _, r := range list {
		reading, ok := Evaluate(r, threshold, now)
		if !ok {
			continue
		}
		switch reading.Urgency {
		case Warning:
			c.Warning++
		case Expired:
			c.Expired++
		}
	}
	return c
}
