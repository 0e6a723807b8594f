// Package audio synthesizes the game's semantic sound events with beep.
// Nothing is sampled from disk; every tag maps to a small generator and
// the engine's intensity scales its volume.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/romakin/gemfall/internal/engine"
)

const sampleRate = beep.SampleRate(48000)

// Player turns engine sound tags into synthesized tones on a permanent
// mixer. It implements engine.AudioSink. All methods are safe without
// initialization and after a failed one: the player just stays silent,
// audio is never a reason to stop a game.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      float64
	enabled     bool
	initialized bool
}

// NewPlayer creates a silent player. Call Initialize to open the
// speaker.
func NewPlayer() *Player {
	return &Player{
		mixer:   &beep.Mixer{},
		master:  0.8,
		enabled: true,
	}
}

// Initialize opens the speaker and starts the mixer. Safe to call
// twice. Initialization failure (headless CI, no audio device) leaves
// the player disabled and is returned for logging only.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences and detaches everything. The speaker itself has no
// close; clearing the mixer is what beep offers.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// SetEnabled toggles sound without touching the speaker, wired to the
// settings screen.
func (p *Player) SetEnabled(on bool) {
	p.mu.Lock()
	p.enabled = on
	p.mu.Unlock()
}

// Enabled reports whether sounds are played.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// SetMasterVolume sets the overall gain in [0, 1].
func (p *Player) SetMasterVolume(v float64) {
	p.mu.Lock()
	p.master = clamp01(v)
	p.mu.Unlock()
}

// PlaySound implements engine.AudioSink: it synthesizes the tag's tone
// scaled by intensity and master volume and mixes it in. Fire and
// forget; a muted or uninitialized player drops the event.
func (p *Player) PlaySound(s engine.Sound, intensity float64) {
	p.mu.Lock()
	if !p.initialized || !p.enabled {
		p.mu.Unlock()
		return
	}
	gain := p.master * clamp01(intensity)
	p.mu.Unlock()

	gen, d := tone(s, intensity, gain)
	if gen == nil {
		return
	}
	streamer := beep.Take(sampleRate.N(d), gen)

	speaker.Lock()
	p.mixer.Add(streamer)
	speaker.Unlock()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
