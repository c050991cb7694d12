package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Severity is the presentation level of a toast.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Toast is a transient banner shown to the user.
type Toast struct {
	ID          string
	RentalID    string
	Severity    Severity
	Title       string
	Description string
	// Duration is how long the toast stays visible. Zero keeps it until it
	// is dismissed.
	Duration  time.Duration
	CreatedAt time.Time
}

// NewToast creates a toast with a fresh id.
func NewToast(sev Severity, title, description string, d time.Duration, now time.Time) Toast {
	return Toast{
		ID:          uuid.NewString(),
		Severity:    sev,
		Title:       title,
		Description: description,
		Duration:    d,
		CreatedAt:   now,
	}
}

// Persistent reports whether the toast needs a manual dismissal.
func (t Toast) Persistent() bool {
	return t.Duration <= 0
}

// Expired reports whether an auto-dismissing toast has run its course.
func (t Toast) Expired(now time.Time) bool {
	return !t.Persistent() && now.Sub(t.CreatedAt) >= t.Duration
}

// Sink receives toasts.
type Sink interface {
	Toast(t Toast)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Toast)

func (f SinkFunc) Toast(t Toast) { f(t) }

// LogSink writes toasts to a logger, for headless runs.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Toast(t Toast) {
	ev := s.Log.Info()
	switch t.Severity {
	case SeverityWarning:
		ev = s.Log.Warn()
	case SeverityError:
		ev = s.Log.Error()
	}
	ev.Str("toast_id", t.ID).
		Str("rental_id", t.RentalID).
		Bool("persistent", t.Persistent()).
		Str("description", t.Description).
		Msg(t.Title)
}

// Bar manages a FIFO queue of toasts.
type Bar struct {
	items    []Toast
	maxStore int
}

// NewBar creates a toast bar with the given buffer size.
func NewBar(maxStore int) *Bar {
	return &Bar{
		items:    make([]Toast, 0, maxStore),
		maxStore: maxStore,
	}
}

// Push adds a toast. At capacity the oldest auto-dismissing toast is
// evicted; persistent toasts go only when nothing else is left to drop.
func (b *Bar) Push(t Toast) {
	b.items = append(b.items, t)
	for len(b.items) > b.maxStore {
		drop := 0
		for i, it := range b.items {
			if !it.Persistent() {
				drop = i
				break
			}
		}
		b.items = append(b.items[:drop], b.items[drop+1:]...)
	}
}

// Visible returns the most recent toasts (max 2).
func (b *Bar) Visible() []Toast {
	if len(b.items) <= 2 {
		return b.items
	}
	return b.items[len(b.items)-2:]
}

// Prune removes auto-dismissing toasts whose duration has elapsed and
// returns how many were removed.
func (b *Bar) Prune(now time.Time) int {
	kept := b.items[:0]
	for _, t := range b.items {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	removed := len(b.items) - len(kept)
	b.items = kept
	return removed
}

// Dismiss removes the toast with the given id.
func (b *Bar) Dismiss(id string) bool {
	for i, t := range b.items {
		if t.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissLatest removes the newest toast.
func (b *Bar) DismissLatest() bool {
	if len(b.items) == 0 {
		return false
	}
	b.items = b.items[:len(b.items)-1]
	return true
}

// Len returns the total number of buffered toasts.
func (b *Bar) Len() int {
	return len(b.items)
}

// Render formats the visible toasts for display within the given width.
func (b *Bar) Render(width int, now time.Time) string {
	visible := b.Visible()
	if len(visible) == 0 {
		return ""
	}

	result := ""
	for i, t := range visible {
		if i > 0 {
			result += " │ "
		}
		result += formatToast(t, now)
	}

	runes := []rune(result)
	if len(runes) > width {
		if width > 1 {
			result = string(runes[:width-1]) + "…"
		} else {
			result = string(runes[:width])
		}
	}

	return result
}

func formatToast(t Toast, now time.Time) string {
	age := now.Sub(t.CreatedAt).Truncate(time.Second)
	var ageStr string
	if age < time.Minute {
		ageStr = fmt.Sprintf("%ds ago", int(age.Seconds()))
	} else if age < time.Hour {
		ageStr = fmt.Sprintf("%dm ago", int(age.Minutes()))
	} else {
		ageStr = fmt.Sprintf("%dh ago", int(age.Hours()))
	}

	icon := "●"
	switch t.Severity {
	case SeverityWarning:
		icon = "⚠"
	case SeverityError:
		icon = "✖"
	case SeveritySuccess:
		icon = "✔"
	}

	text := fmt.Sprintf("%s %s", icon, t.Title)
	if t.Description != "" {
		text += ": " + t.Description
	}
	if t.Persistent() {
		text += " [x]"
	}
	return fmt.Sprintf("%s (%s)", text, ageStr)
}
