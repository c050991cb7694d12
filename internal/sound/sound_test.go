package sound

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeOutput struct {
	mu        sync.Mutex
	resumeErr error
	playErr   error
	panicOn   bool
	resumed   int
	suspended int
	played    []Pattern
}

func (f *fakeOutput) Suspend() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suspended++
	return nil
}

func (f *fakeOutput) Resume() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumed++
	return f.resumeErr
}

func (f *fakeOutput) Play(p Pattern) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn {
		panic("device gone")
	}
	f.played = append(f.played, p)
	return f.playErr
}

func countingOpener(out Output, err error) (Opener, *int) {
	calls := 0
	return func() (Output, error) {
		calls++
		return out, err
	}, &calls
}

func TestEngine_InitializeIdempotent(t *testing.T) {
	out := &fakeOutput{}
	open, calls := countingOpener(out, nil)
	e := NewEngine(open, zerolog.Nop())

	if e.ready() {
		t.Error("ready() before Initialize = true")
	}
	for i := 0; i < 3; i++ {
		if !e.Initialize() {
			t.Fatalf("Initialize() #%d = false, want true", i+1)
		}
	}
	if *calls != 1 {
		t.Errorf("opener calls = %d, want 1", *calls)
	}
	if out.resumed != 3 {
		t.Errorf("Resume calls = %d, want 3", out.resumed)
	}
	if !e.ready() {
		t.Error("ready() after Initialize = false")
	}
}

func TestEngine_InitializeConcurrent(t *testing.T) {
	out := &fakeOutput{}
	var mu sync.Mutex
	calls := 0
	e := NewEngine(func() (Output, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return out, nil
	}, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Initialize()
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("opener calls = %d, want 1", calls)
	}
}

func TestEngine_OpenFailureIsSticky(t *testing.T) {
	open, calls := countingOpener(nil, errors.New("no device"))
	e := NewEngine(open, zerolog.Nop())

	if e.Initialize() {
		t.Error("Initialize() = true with failing opener")
	}
	e.Play(KindWarning)
	e.Initialize()

	if *calls != 1 {
		t.Errorf("opener calls = %d, want 1", *calls)
	}
}

func TestEngine_ResumeFailure(t *testing.T) {
	out := &fakeOutput{resumeErr: errors.New("suspended")}
	open, _ := countingOpener(out, nil)
	e := NewEngine(open, zerolog.Nop())

	if e.Initialize() {
		t.Error("Initialize() = true when resume fails")
	}
}

func TestEngine_NilOpener(t *testing.T) {
	e := NewEngine(nil, zerolog.Nop())
	if e.Initialize() {
		t.Error("Initialize() = true without an opener")
	}
	e.Play(KindExpired)
}

func TestEngine_PlayPattern(t *testing.T) {
	out := &fakeOutput{}
	open, _ := countingOpener(out, nil)
	e := NewEngine(open, zerolog.Nop())

	e.Play(KindExpired)
	e.Play(Kind("fanfare"))

	if len(out.played) != 1 {
		t.Fatalf("played = %d patterns, want 1", len(out.played))
	}
	if got := len(out.played[0].Tones); got != 7 {
		t.Errorf("expired pattern tones = %d, want 7", got)
	}
}

func TestEngine_Muted(t *testing.T) {
	out := &fakeOutput{}
	open, _ := countingOpener(out, nil)
	e := NewEngine(open, zerolog.Nop())

	e.SetMuted(true)
	e.Play(KindWarning)
	if len(out.played) != 0 {
		t.Error("muted engine played a sound")
	}
	e.SetMuted(false)
	e.Play(KindWarning)
	if len(out.played) != 1 {
		t.Errorf("played = %d, want 1 after unmute", len(out.played))
	}
}

func TestEngine_MuteSuspendsOutput(t *testing.T) {
	out := &fakeOutput{}
	open, _ := countingOpener(out, nil)
	e := NewEngine(open, zerolog.Nop())

	e.SetMuted(true)
	if out.suspended != 0 {
		t.Errorf("suspended = %d before the output was opened, want 0", out.suspended)
	}
	e.SetMuted(false)
	e.Initialize()

	e.SetMuted(true)
	if out.suspended != 1 {
		t.Errorf("suspended = %d after mute, want 1", out.suspended)
	}
	before := out.resumed
	e.SetMuted(false)
	if out.resumed != before+1 {
		t.Errorf("resumed = %d after unmute, want %d", out.resumed, before+1)
	}
}

func TestEngine_PlaySwallowsFailures(t *testing.T) {
	var logs bytes.Buffer
	out := &fakeOutput{panicOn: true}
	open, _ := countingOpener(out, nil)
	e := NewEngine(open, zerolog.New(&logs))

	e.Play(KindWarning)

	out.panicOn = false
	out.playErr = errors.New("underrun")
	e.Play(KindWarning)

	if !bytes.Contains(logs.Bytes(), []byte("panicked")) {
		t.Error("panic was not logged")
	}
	if !bytes.Contains(logs.Bytes(), []byte("underrun")) {
		t.Error("play error was not logged")
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"warning", "expired", "success"} {
		if _, err := ParseKind(name); err != nil {
			t.Errorf("ParseKind(%q) error: %v", name, err)
		}
	}
	if _, err := ParseKind("horn"); err == nil {
		t.Error("ParseKind(horn) should fail")
	}
}

func TestOpenerFor(t *testing.T) {
	if open, err := OpenerFor(OutputNone, zerolog.Nop()); err != nil || open != nil {
		t.Errorf("OpenerFor(none) = %v, %v; want nil opener", open != nil, err)
	}
	if _, err := OpenerFor("speaker", zerolog.Nop()); err == nil {
		t.Error("OpenerFor(speaker) should fail")
	}
	for _, name := range []string{OutputAuto, OutputOto, OutputBeeep, OutputBell} {
		if open, err := OpenerFor(name, zerolog.Nop()); err != nil || open == nil {
			t.Errorf("OpenerFor(%q) = %v, %v; want an opener", name, open != nil, err)
		}
	}
}

func TestBeeepOutput_PlaysEachTone(t *testing.T) {
	done := make(chan struct{})
	var mu sync.Mutex
	var freqs []float64
	p, _ := PatternFor(KindWarning)

	out := &beeepOutput{log: zerolog.Nop(), beep: func(freq float64, ms int) error {
		mu.Lock()
		defer mu.Unlock()
		freqs = append(freqs, freq)
		if len(freqs) == len(p.Tones) {
			close(done)
		}
		return nil
	}}

	if err := out.Play(p); err != nil {
		t.Fatalf("Play: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for beeps")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, f := range freqs {
		if f != 880 {
			t.Errorf("beep frequency = %v, want 880", f)
		}
	}
}
