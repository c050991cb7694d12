package notify

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var now0 = time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

func toast(title string, d time.Duration, at time.Time) Toast {
	return NewToast(SeverityInfo, title, "", d, at)
}

func TestNewToast_UniqueIDs(t *testing.T) {
	a := toast("a", 0, now0)
	b := toast("b", 0, now0)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("toast ids = %q, %q; want distinct non-empty ids", a.ID, b.ID)
	}
}

func TestBar_PushAndVisible(t *testing.T) {
	b := NewBar(20)
	b.Push(toast("a", 0, now0))
	b.Push(toast("b", 0, now0))
	b.Push(toast("c", 0, now0))

	visible := b.Visible()
	if len(visible) != 2 {
		t.Fatalf("Visible() = %d items, want 2", len(visible))
	}
	if visible[0].Title != "b" || visible[1].Title != "c" {
		t.Errorf("visible = [%s %s], want [b c]", visible[0].Title, visible[1].Title)
	}
}

func TestBar_VisibleEmpty(t *testing.T) {
	b := NewBar(20)
	if len(b.Visible()) != 0 {
		t.Error("empty bar should have no visible items")
	}
	if b.Render(80, now0) != "" {
		t.Error("empty bar should render nothing")
	}
}

func TestBar_MaxBuffer(t *testing.T) {
	b := NewBar(3)
	for i := 0; i < 10; i++ {
		b.Push(toast(string(rune('a'+i)), 0, now0))
	}
	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3", b.Len())
	}
	if v := b.Visible(); v[len(v)-1].Title != "j" {
		t.Errorf("newest toast = %q, want j", v[len(v)-1].Title)
	}
}

func TestBar_MaxBufferKeepsPersistent(t *testing.T) {
	b := NewBar(20)
	b.Push(toast("overdue", 0, now0))
	for i := 0; i < 20; i++ {
		b.Push(toast(fmt.Sprintf("warning %d", i), 10*time.Second, now0))
	}

	if b.Len() != 20 {
		t.Errorf("Len() = %d, want 20", b.Len())
	}
	if got := b.items[0].Title; got != "overdue" {
		t.Errorf("oldest toast = %q, want the persistent overdue toast", got)
	}
	if got := b.items[1].Title; got != "warning 1" {
		t.Errorf("second toast = %q, want warning 1 (warning 0 evicted)", got)
	}
}

func TestBar_Prune(t *testing.T) {
	b := NewBar(20)
	b.Push(toast("short", 10*time.Second, now0))
	b.Push(toast("sticky", 0, now0))
	b.Push(toast("long", time.Minute, now0))

	if n := b.Prune(now0.Add(9 * time.Second)); n != 0 {
		t.Errorf("Prune() before expiry removed %d, want 0", n)
	}
	if n := b.Prune(now0.Add(10 * time.Second)); n != 1 {
		t.Errorf("Prune() at 10s removed %d, want 1", n)
	}
	if n := b.Prune(now0.Add(time.Hour)); n != 1 {
		t.Errorf("Prune() at 1h removed %d, want 1", n)
	}
	if b.Len() != 1 || b.Visible()[0].Title != "sticky" {
		t.Errorf("remaining = %+v, want only the persistent toast", b.Visible())
	}
}

func TestBar_Dismiss(t *testing.T) {
	b := NewBar(20)
	first := toast("first", 0, now0)
	b.Push(first)
	b.Push(toast("second", 0, now0))

	if !b.Dismiss(first.ID) {
		t.Error("Dismiss(existing) = false")
	}
	if b.Dismiss(first.ID) {
		t.Error("Dismiss(removed) = true")
	}
	if !b.DismissLatest() {
		t.Error("DismissLatest() = false")
	}
	if b.DismissLatest() {
		t.Error("DismissLatest() on empty bar = true")
	}
}

func TestBar_Render(t *testing.T) {
	b := NewBar(20)
	b.Push(NewToast(SeverityWarning, "Rental ending soon", "Jet Ski 4 has 4:59 left", 10*time.Second, now0))
	b.Push(NewToast(SeverityError, "Rental time is up", "Jet Ski 2 is overdue", 0, now0.Add(-2*time.Minute)))

	result := b.Render(200, now0.Add(5*time.Second))
	for _, want := range []string{"⚠ Rental ending soon: Jet Ski 4 has 4:59 left", "(5s ago)", "✖ Rental time is up", "[x]", "(2m ago)", " │ "} {
		if !strings.Contains(result, want) {
			t.Errorf("Render() = %q, missing %q", result, want)
		}
	}
}

func TestBar_RenderTruncation(t *testing.T) {
	b := NewBar(20)
	b.Push(toast(strings.Repeat("x", 200), 0, now0))

	result := b.Render(40, now0)
	if n := len([]rune(result)); n != 40 {
		t.Errorf("Render() rune length = %d, want 40", n)
	}
	if !strings.HasSuffix(result, "…") {
		t.Errorf("truncated render should end with ellipsis: %q", result)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Log: zerolog.New(&buf)}

	tt := NewToast(SeverityError, "Rental time is up", "Jet Ski 2 is overdue", 0, now0)
	tt.RentalID = "r2"
	sink.Toast(tt)

	out := buf.String()
	for _, want := range []string{`"level":"error"`, `"rental_id":"r2"`, `"message":"Rental time is up"`, `"persistent":true`} {
		if !strings.Contains(out, want) {
			t.Errorf("log = %s, missing %s", out, want)
		}
	}
}

func TestSinkFunc(t *testing.T) {
	var got []string
	var s Sink = SinkFunc(func(t Toast) { got = append(got, t.Title) })
	s.Toast(toast("hello", 0, now0))
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("SinkFunc received %v, want [hello]", got)
	}
}
