package sound

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

type otoOutput struct {
	ctx        *oto.Context
	sampleRate int
}

// OpenOto opens the process audio device for PCM playback. oto allows one
// context per process, so this must only be called through an Engine.
func OpenOto(sampleRate int) (Output, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio context: %w", err)
	}
	<-ready
	return &otoOutput{ctx: ctx, sampleRate: sampleRate}, nil
}

func (o *otoOutput) Suspend() error {
	return o.ctx.Suspend()
}

func (o *otoOutput) Resume() error {
	return o.ctx.Resume()
}

func (o *otoOutput) Play(p Pattern) error {
	if err := o.ctx.Err(); err != nil {
		return fmt.Errorf("audio context: %w", err)
	}
	player := o.ctx.NewPlayer(bytes.NewReader(Synthesize(p, o.sampleRate)))
	player.Play()

	length := p.Duration()
	go func() {
		time.Sleep(length)
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
	return nil
}
