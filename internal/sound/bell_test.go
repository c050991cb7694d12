package sound

import (
	"bytes"
	"testing"
	"time"
)

func TestBell_RingsWithDebounce(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, 30*time.Second)
	now := time.Now()

	if !b.Ring(1, now) {
		t.Error("first Ring() = false, want true")
	}
	if b.Ring(1, now.Add(10*time.Second)) {
		t.Error("Ring() within debounce = true, want false")
	}
	if !b.Ring(2, now.Add(31*time.Second)) {
		t.Error("Ring() after debounce = false, want true")
	}
	if got := buf.String(); got != "\a\a\a" {
		t.Errorf("written = %q, want three BEL characters", got)
	}
}

func TestBell_Suspend(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, 0)
	now := time.Now()

	b.Suspend()
	if !b.IsSuspended() {
		t.Error("IsSuspended() after Suspend = false")
	}
	if b.Ring(1, now) {
		t.Error("Ring() while suspended = true, want false")
	}
	b.Resume()
	if !b.Ring(1, now) {
		t.Error("Ring() after Resume = false, want true")
	}
	if got := buf.String(); got != "\a" {
		t.Errorf("written = %q, want one BEL character", got)
	}
}

func TestBell_ZeroCountDoesNotRing(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, 0)
	if b.Ring(0, time.Now()) {
		t.Error("Ring(0) = true, want false")
	}
	if buf.Len() != 0 {
		t.Errorf("written = %q, want nothing", buf.String())
	}
}

func TestBell_PlayCapsRings(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf, 0)
	p, _ := PatternFor(KindExpired)

	if err := b.Play(p); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := buf.String(); got != "\a\a\a" {
		t.Errorf("written = %q, want three BEL characters", got)
	}
}
