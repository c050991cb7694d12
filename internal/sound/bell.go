package sound

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Bell rings the terminal bell, with a debounce so a burst of alerts does not
// turn into a burst of bells. A suspended bell never rings.
type Bell struct {
	mu        sync.Mutex
	w         io.Writer
	debounce  time.Duration
	lastRing  time.Time
	suspended bool
	now       func() time.Time
}

// NewBell creates a Bell writing BEL characters to w.
func NewBell(w io.Writer, debounce time.Duration) *Bell {
	return &Bell{w: w, debounce: debounce, now: time.Now}
}

// Ring writes count bells. Returns true if the bell actually rang.
func (b *Bell) Ring(count int, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if count <= 0 || b.suspended {
		return false
	}
	if !b.lastRing.IsZero() && now.Sub(b.lastRing) < b.debounce {
		return false
	}
	fmt.Fprint(b.w, strings.Repeat("\a", count))
	b.lastRing = now
	return true
}

// Suspend stops the bell from ringing until Resume.
func (b *Bell) Suspend() error {
	b.mu.Lock()
	b.suspended = true
	b.mu.Unlock()
	return nil
}

// Resume re-enables ringing.
func (b *Bell) Resume() error {
	b.mu.Lock()
	b.suspended = false
	b.mu.Unlock()
	return nil
}

// IsSuspended reports whether the bell is suspended.
func (b *Bell) IsSuspended() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suspended
}

// Play rings once per tone, at most three times.
func (b *Bell) Play(p Pattern) error {
	b.Ring(min(len(p.Tones), 3), b.now())
	return nil
}
