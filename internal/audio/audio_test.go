package audio

import (
	"testing"
	"time"

	"github.com/romakin/gemfall/internal/engine"
)

var allSounds = []struct {
	name string
	tag  engine.Sound
}{
	{"match", engine.SoundMatch},
	{"bad", engine.SoundBad},
	{"rocket", engine.SoundRocket},
	{"bomb", engine.SoundBomb},
	{"swap", engine.SoundSwap},
	{"ui", engine.SoundUI},
}

func TestToneTableCoversAllSounds(t *testing.T) {
	for _, tc := range allSounds {
		gen, d := tone(tc.tag, 1, 1)
		if gen == nil {
			t.Errorf("tone(%s) returned nil generator", tc.name)
		}
		if d <= 0 {
			t.Errorf("tone(%s) duration = %v, want > 0", tc.name, d)
		}
	}

	if gen, d := tone(engine.Sound(99), 1, 1); gen != nil || d != 0 {
		t.Errorf("unknown tag: got (%v, %v), want (nil, 0)", gen, d)
	}
}

func TestGeneratorsProduceBoundedSamples(t *testing.T) {
	for _, tc := range allSounds {
		gen, _ := tone(tc.tag, 1, 1)

		buf := make([][2]float64, 2048)
		n, ok := gen.Stream(buf)
		if n != len(buf) || !ok {
			t.Errorf("%s: Stream = (%d, %v), want (%d, true)", tc.name, n, ok, len(buf))
		}
		if err := gen.Err(); err != nil {
			t.Errorf("%s: Err() = %v", tc.name, err)
		}

		nonZero := false
		for i, s := range buf {
			for ch := 0; ch < 2; ch++ {
				if s[ch] < -1 || s[ch] > 1 {
					t.Fatalf("%s: sample %d channel %d = %v, out of [-1, 1]", tc.name, i, ch, s[ch])
				}
				if s[ch] != 0 {
					nonZero = true
				}
			}
		}
		if !nonZero {
			t.Errorf("%s: all %d samples are zero", tc.name, len(buf))
		}
	}
}

func TestGeneratorsSilentAtZeroGain(t *testing.T) {
	for _, tc := range allSounds {
		gen, _ := tone(tc.tag, 1, 0)

		buf := make([][2]float64, 512)
		gen.Stream(buf)
		for i, s := range buf {
			if s[0] != 0 || s[1] != 0 {
				t.Fatalf("%s: sample %d = %v at zero gain, want silence", tc.name, i, s)
			}
		}
	}
}

func TestMatchBellRisesWithIntensity(t *testing.T) {
	low, _ := tone(engine.SoundMatch, 0, 1)
	high, _ := tone(engine.SoundMatch, 1, 1)

	// The pitch step only differs after the halfway switch, so stream
	// the whole 180ms clip.
	n := sampleRate.N(180 * time.Millisecond)
	bufLow := make([][2]float64, n)
	bufHigh := make([][2]float64, n)
	low.Stream(bufLow)
	high.Stream(bufHigh)

	for i := n / 2; i < n; i++ {
		if bufLow[i][0] != bufHigh[i][0] {
			return
		}
	}
	t.Error("intensity 0 and 1 produced identical bell tails")
}

func TestEnvelopeShape(t *testing.T) {
	total := 1000
	attack := 100
	release := 200

	if got := envelope(0, total, attack, release); got != 0 {
		t.Errorf("envelope at start = %v, want 0", got)
	}
	if got := envelope(total/2, total, attack, release); got != 1 {
		t.Errorf("envelope at middle = %v, want 1", got)
	}
	if got := envelope(total, total, attack, release); got != 0 {
		t.Errorf("envelope at end = %v, want 0", got)
	}
	if got := envelope(total+500, total, attack, release); got != 0 {
		t.Errorf("envelope past end = %v, want 0", got)
	}
	if got := envelope(50, 0, 10, 10); got != 0 {
		t.Errorf("envelope with zero total = %v, want 0", got)
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.4, 0.4},
		{1, 1},
		{3.7, 1},
	}
	for _, tc := range cases {
		if got := clamp01(tc.in); got != tc.want {
			t.Errorf("clamp01(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// All player operations must be safe on an uninitialized player; audio
// is never a reason to crash a game.
func TestPlayerSafeWithoutInitialize(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("uninitialized player panicked: %v", r)
		}
	}()

	p := NewPlayer()
	for _, tc := range allSounds {
		p.PlaySound(tc.tag, 0.8)
	}
	p.SetMasterVolume(0.5)
	p.SetEnabled(false)
	p.SetEnabled(true)
	p.Cleanup()

	if !p.Enabled() {
		t.Error("Enabled() = false after SetEnabled(true)")
	}
}

func TestPlayerInitialize(t *testing.T) {
	p := NewPlayer()
	if err := p.Initialize(); err != nil {
		t.Logf("speaker init failed (expected in headless environments): %v", err)
		return
	}
	defer p.Cleanup()

	// Second init is a no-op.
	if err := p.Initialize(); err != nil {
		t.Errorf("repeated Initialize returned %v", err)
	}

	p.SetMasterVolume(0.2)
	for _, tc := range allSounds {
		p.PlaySound(tc.tag, 1)
	}

	p.SetEnabled(false)
	p.PlaySound(engine.SoundMatch, 1)
}
