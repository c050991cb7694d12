// Package sound synthesizes the short alert tones played when a rental is
// about to expire or is overdue. Sound is best effort: every failure is logged
// and swallowed.
package sound

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Kind selects an alert sound.
type Kind string

const (
	KindWarning Kind = "warning"
	KindExpired Kind = "expired"
	KindSuccess Kind = "success"
)

// ParseKind validates a sound name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := patterns[k]; !ok {
		return "", fmt.Errorf("unknown sound %q (want warning, expired or success)", s)
	}
	return k, nil
}

// Output plays patterns on some audio device. Play must not block for the
// length of the sound. A suspended output stays open but silent.
type Output interface {
	Suspend() error
	Resume() error
	Play(p Pattern) error
}

// Opener creates the process-wide Output.
type Opener func() (Output, error)

// ErrNoOutput is returned by the opener of a disabled engine.
var ErrNoOutput = errors.New("sound output disabled")

// Engine owns the single audio output of a session. It is created once at the
// application root and shared by everything that plays sounds.
type Engine struct {
	open Opener
	log  zerolog.Logger

	mu      sync.Mutex
	out     Output
	openErr error
	muted   bool
}

// NewEngine creates an engine. The output is not opened until Initialize or
// the first Play.
func NewEngine(open Opener, log zerolog.Logger) *Engine {
	return &Engine{
		open: open,
		log:  log.With().Str("component", "sound").Logger(),
	}
}

// ensureLocked opens the output once. A failed open is remembered; audio
// backends generally allow a single context per process.
func (e *Engine) ensureLocked() (Output, error) {
	if e.out != nil {
		return e.out, nil
	}
	if e.openErr != nil {
		return nil, e.openErr
	}
	if e.open == nil {
		e.openErr = ErrNoOutput
		return nil, e.openErr
	}
	out, err := e.open()
	if err != nil {
		e.openErr = err
		return nil, err
	}
	e.out = out
	return out, nil
}

// Initialize opens and resumes the audio output. It is meant to run from a
// user interaction and is safe to call any number of times.
func (e *Engine) Initialize() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := e.ensureLocked()
	if err != nil {
		e.logFailure(err, "audio output unavailable")
		return false
	}
	if e.muted {
		return true
	}
	if err := out.Resume(); err != nil {
		e.log.Warn().Err(err).Msg("failed to resume audio output")
		return false
	}
	return true
}

// ready reports whether the output has been opened.
func (e *Engine) ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.out != nil
}

// SetMuted silences Play and suspends an opened output without closing it.
func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	if e.out == nil {
		return
	}
	var err error
	if muted {
		err = e.out.Suspend()
	} else {
		err = e.out.Resume()
	}
	if err != nil {
		e.log.Warn().Err(err).Bool("muted", muted).Msg("failed to switch audio output")
	}
}

// Muted reports whether the engine is muted.
func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Play schedules the sound for kind. It never returns an error or panics.
func (e *Engine) Play(kind Kind) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn().Interface("panic", r).Str("sound", string(kind)).Msg("sound playback panicked")
		}
	}()

	p, ok := PatternFor(kind)
	if !ok {
		e.log.Warn().Str("sound", string(kind)).Msg("unknown sound")
		return
	}

	e.mu.Lock()
	if e.muted {
		e.mu.Unlock()
		return
	}
	out, err := e.ensureLocked()
	e.mu.Unlock()
	if err != nil {
		e.logFailure(err, "sound skipped")
		return
	}

	if err := out.Play(p); err != nil {
		e.log.Warn().Err(err).Str("sound", string(kind)).Msg("failed to play sound")
		return
	}
	e.log.Debug().Str("sound", string(kind)).Dur("length", p.Duration()).Msg("sound played")
}

func (e *Engine) logFailure(err error, msg string) {
	if errors.Is(err, ErrNoOutput) {
		e.log.Debug().Msg(msg + ": output disabled")
		return
	}
	e.log.Warn().Err(err).Msg(msg)
}
