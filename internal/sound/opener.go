package sound

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output names accepted by OpenerFor.
const (
	OutputAuto  = "auto"
	OutputOto   = "oto"
	OutputBeeep = "beeep"
	OutputBell  = "bell"
	OutputNone  = "none"
)

// OpenerFor returns the opener for a configured output name. "auto" tries PCM
// playback first and falls back to the platform beeper.
func OpenerFor(name string, log zerolog.Logger) (Opener, error) {
	switch name {
	case OutputAuto, "":
		return func() (Output, error) {
			out, err := OpenOto(DefaultSampleRate)
			if err == nil {
				return out, nil
			}
			log.Debug().Err(err).Msg("pcm output unavailable, using beeper")
			return OpenBeeep(log)
		}, nil
	case OutputOto:
		return func() (Output, error) { return OpenOto(DefaultSampleRate) }, nil
	case OutputBeeep:
		return func() (Output, error) { return OpenBeeep(log) }, nil
	case OutputBell:
		return func() (Output, error) { return NewBell(os.Stderr, 2*time.Second), nil }, nil
	case OutputNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown sound output %q", name)
	}
}
