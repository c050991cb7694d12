package sound

import (
	"time"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

// beeepOutput approximates patterns with the platform beeper, one tone at a
// time. Sweeps play at their starting frequency.
type beeepOutput struct {
	log  zerolog.Logger
	beep func(freq float64, ms int) error
}

// OpenBeeep returns an output backed by github.com/gen2brain/beeep.
func OpenBeeep(log zerolog.Logger) (Output, error) {
	return &beeepOutput{log: log, beep: beeep.Beep}, nil
}

func (b *beeepOutput) Suspend() error { return nil }
func (b *beeepOutput) Resume() error  { return nil }

func (b *beeepOutput) Play(p Pattern) error {
	go func() {
		var elapsed time.Duration
		for _, t := range p.Tones {
			if wait := t.Start - elapsed; wait > 0 {
				time.Sleep(wait)
				elapsed += wait
			}
			if err := b.beep(t.FromHz, int(t.Duration.Milliseconds())); err != nil {
				b.log.Warn().Err(err).Msg("beep failed")
				return
			}
			elapsed += t.Duration
		}
	}()
	return nil
}
