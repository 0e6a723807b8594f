package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"

	"github.com/romakin/gemfall/internal/engine"
)

// tone maps a sound tag to its generator and duration. Intensity comes
// in from the engine: it scales gain in the caller and, for the match
// bell, widens the pitch step so deeper cascades ring higher.
func tone(s engine.Sound, intensity, gain float64) (beep.Streamer, time.Duration) {
	switch s {
	case engine.SoundSwap:
		return newBlipGenerator(440, gain, 60*time.Millisecond), 60 * time.Millisecond
	case engine.SoundUI:
		return newBlipGenerator(880, gain, 30*time.Millisecond), 30 * time.Millisecond
	case engine.SoundMatch:
		step := 1.25 + 0.5*clamp01(intensity)
		return newBellGenerator(523.25, step, gain), 180 * time.Millisecond
	case engine.SoundBad:
		return newBuzzGenerator(110, gain), 150 * time.Millisecond
	case engine.SoundRocket:
		return newWhooshGenerator(gain), 250 * time.Millisecond
	case engine.SoundBomb:
		return newThudGenerator(70, gain), 350 * time.Millisecond
	default:
		return nil, 0
	}
}

// envelope shapes a tone with linear attack and release ramps so clips
// never click at their edges.
func envelope(pos, total, attack, release int) float64 {
	if total <= 0 {
		return 0
	}
	e := 1.0
	if attack > 0 && pos < attack {
		e = float64(pos) / float64(attack)
	}
	if release > 0 && pos > total-release {
		tail := float64(total-pos) / float64(release)
		if tail < e {
			e = tail
		}
	}
	if e < 0 {
		return 0
	}
	return e
}

// blipGenerator is a plain sine blip, used for swaps and UI ticks.
type blipGenerator struct {
	freq  float64
	gain  float64
	total int
	pos   int
}

func newBlipGenerator(freq, gain float64, d time.Duration) *blipGenerator {
	return &blipGenerator{freq: freq, gain: gain, total: sampleRate.N(d)}
}

func (g *blipGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := g.total
	for i := range samples {
		t := float64(g.pos) / float64(sampleRate)
		sample := 0.3 * g.gain * math.Sin(2*math.Pi*g.freq*t)
		sample *= envelope(g.pos, total, total/10, total/3)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *blipGenerator) Err() error { return nil }

// bellGenerator rings two sine tones in a row: the base note, then the
// base multiplied by step.
type bellGenerator struct {
	freq float64
	step float64
	gain float64
	pos  int
}

func newBellGenerator(freq, step, gain float64) *bellGenerator {
	return &bellGenerator{freq: freq, step: step, gain: gain}
}

func (g *bellGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := sampleRate.N(180 * time.Millisecond)
	half := total / 2
	for i := range samples {
		t := float64(g.pos) / float64(sampleRate)
		freq := g.freq
		if g.pos >= half {
			freq *= g.step
		}
		// A touch of second harmonic for the bell timbre.
		sample := 0.25 * g.gain * (math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(4*math.Pi*freq*t))
		sample *= envelope(g.pos, total, total/20, total/4)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *bellGenerator) Err() error { return nil }

// buzzGenerator is a low sawtooth with harmonics, the rejection sound.
type buzzGenerator struct {
	freq float64
	gain float64
	pos  int
}

func newBuzzGenerator(freq, gain float64) *buzzGenerator {
	return &buzzGenerator{freq: freq, gain: gain}
}

func (g *buzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := sampleRate.N(150 * time.Millisecond)
	for i := range samples {
		t := float64(g.pos) / float64(sampleRate)
		// Saw approximated by its first three harmonics.
		sample := 0.0
		sample += 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)
		sample *= g.gain * envelope(g.pos, total, total/15, total/5)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *buzzGenerator) Err() error { return nil }

// whooshGenerator is shaped white noise that swells and dies, the
// rocket launch.
type whooshGenerator struct {
	gain float64
	pos  int
	rng  *rand.Rand
}

func newWhooshGenerator(gain float64) *whooshGenerator {
	return &whooshGenerator{gain: gain, rng: rand.New(rand.NewSource(1))}
}

func (g *whooshGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := sampleRate.N(250 * time.Millisecond)
	for i := range samples {
		// Swell peaks a third of the way in.
		cycle := float64(g.pos) / float64(total)
		swell := math.Sin(math.Min(cycle, 1) * math.Pi)
		sample := 0.25 * g.gain * swell * (g.rng.Float64()*2 - 1)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *whooshGenerator) Err() error { return nil }

// thudGenerator is a low square hit with a noise tail, the bomb.
type thudGenerator struct {
	freq float64
	gain float64
	pos  int
	rng  *rand.Rand
}

func newThudGenerator(freq, gain float64) *thudGenerator {
	return &thudGenerator{freq: freq, gain: gain, rng: rand.New(rand.NewSource(2))}
}

func (g *thudGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := sampleRate.N(350 * time.Millisecond)
	for i := range samples {
		t := float64(g.pos) / float64(sampleRate)
		square := math.Sin(2 * math.Pi * g.freq * t)
		if square >= 0 {
			square = 1
		} else {
			square = -1
		}
		// The square thud decays fast, the noise tail lingers.
		thud := 0.3 * square * envelope(g.pos, total/2, total/40, total/3)
		tail := 0.1 * (g.rng.Float64()*2 - 1) * envelope(g.pos, total, total/10, total/2)
		sample := g.gain * (thud + tail)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *thudGenerator) Err() error { return nil }
