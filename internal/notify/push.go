package notify

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

// Permission is the desktop notification grant state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Platform is the desktop notification capability of the host.
type Platform interface {
	Supported() bool
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	// Notify shows a notification the OS may expire on its own.
	Notify(title, body string) error
	// Alert shows a notification that stays until the user dismisses it.
	Alert(title, body string) error
}

// Push is a desktop notification.
type Push struct {
	// Tag identifies the logical alert; pushes sharing a tag coalesce.
	Tag                string
	Title              string
	Body               string
	RequireInteraction bool
}

// Pusher delivers desktop notifications when the platform allows it.
// Denied or unsupported platforms turn every call into a no-op.
type Pusher struct {
	platform Platform
	coalesce time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	shown map[string]time.Time
}

// NewPusher creates a pusher. Pushes with a tag seen within the coalesce
// window are dropped.
func NewPusher(platform Platform, coalesce time.Duration, log zerolog.Logger) *Pusher {
	return &Pusher{
		platform: platform,
		coalesce: coalesce,
		log:      log.With().Str("component", "push").Logger(),
		now:      time.Now,
		shown:    make(map[string]time.Time),
	}
}

// RequestPermission asks for permission to notify. It returns false when the
// platform has no notification support or the user declined.
func (p *Pusher) RequestPermission(ctx context.Context) bool {
	if p.platform == nil || !p.platform.Supported() {
		return false
	}
	if p.platform.Permission() == PermissionGranted {
		return true
	}
	perm, err := p.platform.RequestPermission(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("notification permission request failed")
		return false
	}
	p.log.Debug().Str("permission", string(perm)).Msg("notification permission resolved")
	return perm == PermissionGranted
}

// Granted reports whether pushes will be delivered.
func (p *Pusher) Granted() bool {
	return p.platform != nil && p.platform.Supported() && p.platform.Permission() == PermissionGranted
}

// Show delivers n if permission is granted. Failures are logged.
func (p *Pusher) Show(n Push) {
	if !p.Granted() {
		return
	}

	if n.Tag != "" {
		now := p.now()
		p.mu.Lock()
		last, seen := p.shown[n.Tag]
		if seen && now.Sub(last) < p.coalesce {
			p.mu.Unlock()
			p.log.Debug().Str("tag", n.Tag).Msg("push coalesced")
			return
		}
		for tag, at := range p.shown {
			if now.Sub(at) >= p.coalesce {
				delete(p.shown, tag)
			}
		}
		p.shown[n.Tag] = now
		p.mu.Unlock()
	}

	var err error
	if n.RequireInteraction {
		err = p.platform.Alert(n.Title, n.Body)
	} else {
		err = p.platform.Notify(n.Title, n.Body)
	}
	if err != nil {
		p.log.Warn().Err(err).Str("tag", n.Tag).Msg("failed to show desktop notification")
	}
}

// DesktopPlatform delivers notifications through github.com/gen2brain/beeep.
// There is no OS prompt to answer, so the grant comes from configuration.
type DesktopPlatform struct {
	allow bool
	goos  string

	mu   sync.Mutex
	perm Permission
}

// NewDesktopPlatform creates a platform that grants permission when allow is
// true and denies it otherwise.
func NewDesktopPlatform(allow bool) *DesktopPlatform {
	return &DesktopPlatform{allow: allow, goos: runtime.GOOS, perm: PermissionDefault}
}

func (d *DesktopPlatform) Supported() bool {
	switch d.goos {
	case "linux", "darwin", "windows", "freebsd":
		return true
	}
	return false
}

func (d *DesktopPlatform) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.perm
}

func (d *DesktopPlatform) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionDefault, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.perm == PermissionDefault {
		d.perm = PermissionDenied
		if d.allow {
			d.perm = PermissionGranted
		}
	}
	return d.perm, nil
}

func (d *DesktopPlatform) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}

func (d *DesktopPlatform) Alert(title, body string) error {
	return beeep.Alert(title, body, "")
}
