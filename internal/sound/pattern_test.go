package sound

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestPatternDurations(t *testing.T) {
	tests := []struct {
		kind Kind
		want time.Duration
	}{
		{KindWarning, 600 * time.Millisecond},
		{KindExpired, 1050 * time.Millisecond},
		{KindSuccess, 300 * time.Millisecond},
	}

	for _, tt := range tests {
		p, ok := PatternFor(tt.kind)
		if !ok {
			t.Fatalf("PatternFor(%s) missing", tt.kind)
		}
		if got := p.Duration(); got != tt.want {
			t.Errorf("%s duration = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestExpiredSirenAlternates(t *testing.T) {
	p, _ := PatternFor(KindExpired)
	for i, tone := range p.Tones {
		want := 800.0
		if i%2 == 1 {
			want = 1200
		}
		if tone.FromHz != want || tone.Wave != Square {
			t.Errorf("tone %d = %v Hz wave %d, want %v Hz square", i, tone.FromHz, tone.Wave, want)
		}
	}
}

func TestSynthesize(t *testing.T) {
	p, _ := PatternFor(KindWarning)
	const rate = 8000
	pcm := Synthesize(p, rate)

	wantSamples := int(p.Duration().Seconds() * rate)
	if len(pcm) != wantSamples*2 {
		t.Fatalf("len(pcm) = %d, want %d", len(pcm), wantSamples*2)
	}

	sample := func(at time.Duration) int16 {
		i := int(at.Seconds() * rate)
		return int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}

	// The gap between the two beeps is silent.
	for at := 260 * time.Millisecond; at < 340*time.Millisecond; at += 10 * time.Millisecond {
		if s := sample(at); s != 0 {
			t.Errorf("sample at %s = %d, want silence", at, s)
		}
	}

	var peak int16
	for i := 0; i < int(0.05*rate); i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		if s < 0 {
			s = -s
		}
		peak = max(peak, s)
	}
	if peak == 0 {
		t.Error("first beep is silent")
	}
}

func TestSynthesize_DefaultRate(t *testing.T) {
	p, _ := PatternFor(KindSuccess)
	if got, want := len(Synthesize(p, 0)), int(0.3*DefaultSampleRate)*2; got != want {
		t.Errorf("len(pcm) = %d, want %d", got, want)
	}
}
