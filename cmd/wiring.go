package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jetdock/rentalwatch/internal/alerts"
	"github.com/jetdock/rentalwatch/internal/config"
	"github.com/jetdock/rentalwatch/internal/notify"
	"github.com/jetdock/rentalwatch/internal/poller"
	"github.com/jetdock/rentalwatch/internal/rentals"
	"github.com/jetdock/rentalwatch/internal/sound"
)

var errNoSource = errors.New("no rental source configured: set source.url or source.file (or RENTALWATCH_API_URL)")

// newSource picks the rental source from config. A fixture file wins over
// the API.
func newSource(c config.Config) (rentals.Source, error) {
	switch {
	case c.Source.File != "":
		return &rentals.FileSource{Path: c.Source.File}, nil
	case c.Source.URL != "":
		return &rentals.HTTPSource{
			BaseURL: c.Source.URL,
			Tenant:  c.Source.Tenant,
			Token:   c.Token(),
			Timeout: c.Source.RequestTimeout.Duration,
		}, nil
	default:
		return nil, errNoSource
	}
}

func newEngine(c config.Config, output string, log zerolog.Logger) (*sound.Engine, error) {
	if !c.Sound.Enabled {
		output = sound.OutputNone
	}
	open, err := sound.OpenerFor(output, log)
	if err != nil {
		return nil, err
	}
	return sound.NewEngine(open, log), nil
}

// session is everything one watching session shares.
type session struct {
	poller *poller.Poller
	engine *sound.Engine
	coord  *alerts.Coordinator
}

func newSession(c config.Config, toasts notify.Sink, log zerolog.Logger) (*session, error) {
	src, err := newSource(c)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(c, c.Sound.Output, log)
	if err != nil {
		return nil, fmt.Errorf("sound: %w", err)
	}

	p := poller.New(src, poller.Config{
		PollInterval: c.Polling.Interval.Duration,
		StaleAfter:   c.Polling.StaleAfter.Duration,
	}, log)

	pusher := notify.NewPusher(notify.NewDesktopPlatform(c.Push.Enabled), c.Push.CoalesceWindow.Duration, log)

	coord := alerts.NewCoordinator(p, alerts.NewStore(), engine, pusher, toasts, alerts.Config{
		WarningThreshold: c.Alerts.WarningThreshold.Duration,
		ToastDuration:    c.Alerts.ToastDuration.Duration,
	}, log)

	return &session{poller: p, engine: engine, coord: coord}, nil
}
