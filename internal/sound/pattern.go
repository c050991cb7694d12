package sound

import (
	"encoding/binary"
	"math"
	"time"
)

// DefaultSampleRate is used for synthesized PCM.
const DefaultSampleRate = 44100

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
)

// Tone is one oscillator scheduled relative to the start of a pattern. The
// frequency glides linearly from FromHz to ToHz and the gain decays
// exponentially from Gain towards silence.
type Tone struct {
	Wave     Wave
	FromHz   float64
	ToHz     float64
	Start    time.Duration
	Duration time.Duration
	Gain     float64
}

func (t Tone) end() time.Duration {
	return t.Start + t.Duration
}

// Pattern is a set of tones making up one alert sound.
type Pattern struct {
	Tones []Tone
}

// Duration returns the time until the last tone stops.
func (p Pattern) Duration() time.Duration {
	var d time.Duration
	for _, t := range p.Tones {
		d = max(d, t.end())
	}
	return d
}

var patterns = map[Kind]Pattern{
	// Two short beeps.
	KindWarning: {Tones: []Tone{
		{Wave: Sine, FromHz: 880, ToHz: 880, Start: 0, Duration: 250 * time.Millisecond, Gain: 0.3},
		{Wave: Sine, FromHz: 880, ToHz: 880, Start: 350 * time.Millisecond, Duration: 250 * time.Millisecond, Gain: 0.3},
	}},
	// Siren alternating every 150ms.
	KindExpired: {Tones: siren(800, 1200, 150*time.Millisecond, 7, 0.5)},
	// Rising tone.
	KindSuccess: {Tones: []Tone{
		{Wave: Sine, FromHz: 440, ToHz: 880, Start: 0, Duration: 300 * time.Millisecond, Gain: 0.3},
	}},
}

func siren(low, high float64, step time.Duration, steps int, gain float64) []Tone {
	tones := make([]Tone, steps)
	for i := range tones {
		hz := low
		if i%2 == 1 {
			hz = high
		}
		tones[i] = Tone{Wave: Square, FromHz: hz, ToHz: hz, Start: time.Duration(i) * step, Duration: step, Gain: gain}
	}
	return tones
}

// PatternFor returns the pattern played for kind.
func PatternFor(kind Kind) (Pattern, bool) {
	p, ok := patterns[kind]
	return p, ok
}

// floor of the exponential gain ramp; an exponential ramp cannot reach zero.
const rampFloor = 0.01

// Synthesize renders p as mono signed 16-bit little-endian PCM.
func Synthesize(p Pattern, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	total := int(p.Duration().Seconds() * float64(sampleRate))
	mix := make([]float64, total)

	for _, t := range p.Tones {
		first := int(t.Start.Seconds() * float64(sampleRate))
		n := int(t.Duration.Seconds() * float64(sampleRate))
		if n <= 0 || t.Gain <= 0 {
			continue
		}
		phase := 0.0
		for i := 0; i < n && first+i < total; i++ {
			frac := float64(i) / float64(n)
			hz := t.FromHz + (t.ToHz-t.FromHz)*frac
			phase += 2 * math.Pi * hz / float64(sampleRate)
			v := math.Sin(phase)
			if t.Wave == Square {
				v = math.Copysign(1, v)
			}
			env := t.Gain * math.Pow(rampFloor/t.Gain, frac)
			mix[first+i] += v * env
		}
	}

	buf := make([]byte, total*2)
	for i, v := range mix {
		v = math.Max(-1, math.Min(1, v))
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(v*math.MaxInt16)))
	}
	return buf
}
