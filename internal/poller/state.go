package poller

import (
	"time"
)

// UnreachableThreshold is the number of consecutive failures before the
// backend is reported as unreachable.
const UnreachableThreshold = 3

// Health tracks the outcome of recent polls.
type Health struct {
	LastAttempt time.Time
	LastSuccess time.Time
	ConsecFails int
	LastErr     string
}

// RecordSuccess records a successful poll.
func (h *Health) RecordSuccess(now time.Time) {
	h.LastAttempt = now
	h.LastSuccess = now
	h.ConsecFails = 0
	h.LastErr = ""
}

// RecordFailure records a failed poll. The previous snapshot stays in place
// and the next interval retries.
func (h *Health) RecordFailure(err error, now time.Time) {
	h.LastAttempt = now
	h.ConsecFails++
	if err != nil {
		h.LastErr = err.Error()
	}
}

// Failing reports whether the most recent poll failed.
func (h Health) Failing() bool {
	return h.ConsecFails > 0
}

// Unreachable reports whether enough polls failed in a row to consider the
// backend down.
func (h Health) Unreachable() bool {
	return h.ConsecFails >= UnreachableThreshold
}

// Age returns how old the last successful data is.
func (h Health) Age(now time.Time) time.Duration {
	if h.LastSuccess.IsZero() {
		return 0
	}
	return now.Sub(h.LastSuccess)
}
