package testutil

import (
	"context"
	"sync"

	"github.com/jetdock/rentalwatch/internal/notify"
	"github.com/jetdock/rentalwatch/internal/sound"
)

// SoundRecorder records played sounds.
type SoundRecorder struct {
	mu        sync.Mutex
	InitOK    bool
	InitCalls int
	Played    []sound.Kind
}

func (s *SoundRecorder) Initialize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InitCalls++
	return s.InitOK
}

func (s *SoundRecorder) Play(kind sound.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Played = append(s.Played, kind)
}

// Sounds returns a copy of the played sounds.
func (s *SoundRecorder) Sounds() []sound.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sound.Kind(nil), s.Played...)
}

// PushRecorder records desktop notifications.
type PushRecorder struct {
	mu    sync.Mutex
	Grant bool
	Asked int
	Shown []notify.Push
}

func (p *PushRecorder) RequestPermission(_ context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Asked++
	return p.Grant
}

func (p *PushRecorder) Show(n notify.Push) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Shown = append(p.Shown, n)
}

// AskCount returns the number of permission requests.
func (p *PushRecorder) AskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Asked
}

// Pushes returns a copy of the shown notifications.
func (p *PushRecorder) Pushes() []notify.Push {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Push(nil), p.Shown...)
}

// ToastRecorder records toasts.
type ToastRecorder struct {
	mu     sync.Mutex
	Toasts []notify.Toast
}

func (r *ToastRecorder) Toast(t notify.Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Toasts = append(r.Toasts, t)
}

// All returns a copy of the recorded toasts.
func (r *ToastRecorder) All() []notify.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Toast(nil), r.Toasts...)
}
