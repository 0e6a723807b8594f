// Package game implements the interactive GemFall shell: a registry.Game
// that owns an engine session, interprets platform input frames as
// gestures, plays effect batches as sprite animation and surfaces score
// deltas as events. Two variants share the shell and differ only in how
// a gesture seeds the first resolution pass: swap-and-match and
// draw-a-chain.
package game

import (
	"math/rand"
	"runtime"
	"time"

	"github.com/romakin/gemfall/internal/config"
	"github.com/romakin/gemfall/internal/core"
	"github.com/romakin/gemfall/internal/engine"
	"github.com/romakin/gemfall/internal/registry"
	"github.com/romakin/gemfall/internal/skins"
)

// Variant selects the gesture strategy; board rules are shared.
type Variant string

const (
	VariantSwap    Variant = "swap"
	VariantConnect Variant = "connect"
)

// Package-level settings applied by the CLI before game creation.
var (
	configPath       string
	difficultyPreset string
	audioSink        engine.AudioSink = engine.NopAudio{}
)

// SetConfigPath sets the rules file used by the next Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset picks the palette preset applied on top of the
// loaded rules.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// SetAudioSink routes the session's sound events. A nil sink restores
// silence.
func SetAudioSink(a engine.AudioSink) {
	if a == nil {
		a = engine.NopAudio{}
	}
	audioSink = a
}

// Game is the interactive shell around one engine session. Not
// goroutine-safe: the platform drives Reset, Step, Render and State
// from its single update loop. The only other goroutine is the
// session-call dispatcher, which talks back through channels.
type Game struct {
	variant Variant
	cfg     core.RuntimeConfig
	rules   engine.Rules
	skin    skins.Skin

	session *engine.Session
	pres    *queuedPresenter
	scores  *scoreCollector
	rng     *rand.Rand
	tick    uint64

	// Batch currently playing.
	current  *presented
	layer    *spriteLayer
	snapshot *engine.Grid

	// Gesture call in flight on its own goroutine.
	inFlight bool
	results  chan error
	pass     int

	paused   bool
	tooSmall bool

	// Keyboard cursor and grab state.
	cursor   engine.Coord
	grabbed  bool
	selected engine.Coord

	// Connect path, shared by keyboard drawing and pointer drags.
	path    []engine.Coord
	drawing bool

	// Pointer drag state for the swap variant.
	dragging bool
	dragFrom engine.Coord

	// Layout, recomputed on Reset.
	screenW, screenH int
	boardPX, boardPY int
	boardW, boardH   int
}

func init() {
	registry.Register("swap", func() registry.Game { return New() })
	registry.Register("connect", func() registry.Game { return NewConnect() })
}

// New returns the classic swap-and-match variant.
func New() *Game {
	return &Game{variant: VariantSwap}
}

// NewConnect returns the draw-a-chain variant.
func NewConnect() *Game {
	return &Game{variant: VariantConnect}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return string(g.variant)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantConnect {
		return "GemFall Connect"
	}
	return "GemFall"
}

// Reset loads the rules and deals a fresh session.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.drainGesture()

	g.cfg = cfg
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tick = 0
	g.paused = false

	conf, err := config.Load(configPath)
	if err != nil {
		// A broken explicit config falls back to defaults; the CLI
		// already reported the problem.
		conf = config.DefaultConfig()
	}
	config.ApplyPreset(&conf, config.PresetFromString(difficultyPreset))

	g.rules = engine.Rules{
		Size:        conf.Board.Size,
		Colors:      conf.Board.Colors,
		RocketRun:   conf.Board.RocketRun,
		BombRun:     conf.Board.BombRun,
		BombRadius:  conf.Board.BombRadius,
		SwapTicks:   conf.Animation.SwapTicks,
		FadeTicks:   conf.Animation.FadeTicks,
		PopTicks:    conf.Animation.PopTicks,
		FallBase:    conf.Animation.FallBase,
		FallPerCell: conf.Animation.FallPerCell,
	}

	g.skin = skins.Default()
	if cfg.Skin != "" {
		if sk, ok := skins.ByID(cfg.Skin); ok {
			g.skin = sk
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	g.pres = &queuedPresenter{}
	g.scores = &scoreCollector{}
	g.results = make(chan error, 1)
	g.inFlight = false
	g.pass = 0
	g.current = nil
	if g.layer == nil {
		g.layer = newSpriteLayer()
	} else {
		g.layer.clear()
	}

	g.session = engine.NewSession(g.rules, g.rng.Int63(), g.pres, audioSink, g.scores)
	g.snapshot = g.session.Board()

	g.cursor = engine.C(g.rules.Size/2, g.rules.Size/2)
	g.resetGestureState()
	g.layout()
}

// Step advances one tick: finishes gesture calls, surfaces score
// events, interprets input and plays the current effect batch.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	g.finishGesture()
	events := g.drainEvents()

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.tooSmall || g.paused {
		// Animations freeze too; the session waits on its ack.
		return core.StepResult{State: g.State(), Events: events}
	}

	g.handleActions(in)
	g.handlePointer(in.Pointer)
	g.advanceBatch()

	return core.StepResult{State: g.State(), Events: events}
}

// State reports score and busyness. The game is endless: GameOver stays
// false and quitting is how a round ends.
func (g *Game) State() core.GameState {
	busy := g.inFlight || g.current != nil
	if g.session != nil && g.session.Busy() {
		busy = true
	}
	score := 0
	if g.session != nil {
		score = g.session.Score()
	}
	return core.GameState{
		Score:    score,
		GameOver: false,
		Paused:   g.paused || g.tooSmall,
		Busy:     busy,
	}
}

// ResetScore zeroes the running score. The skin shop calls this when a
// purchase consumes the accumulated points.
func (g *Game) ResetScore() {
	if g.session != nil {
		g.session.ResetScore()
	}
}

// busyShell reports whether a gesture or animation still runs on the
// shell side. New gestures are dropped until it clears.
func (g *Game) busyShell() bool {
	return g.inFlight || g.current != nil
}

// dispatch runs one blocking session call on its own goroutine. The
// session would reject overlap anyway; keeping a single call in flight
// maps each result back to its gesture.
func (g *Game) dispatch(call func() error) {
	if g.busyShell() {
		return
	}
	g.inFlight = true
	g.pass = 0
	go func() {
		g.results <- call()
	}()
}

// finishGesture collects a completed session call, if any.
func (g *Game) finishGesture() {
	if !g.inFlight {
		return
	}
	select {
	case err := <-g.results:
		g.inFlight = false
		g.feedback(err)
	default:
	}
}

// feedback plays a rejection sound for gestures the session turned
// away before resolving anything. Reverted swaps already buzzed inside
// the engine, and busy drops stay silent.
func (g *Game) feedback(err error) {
	switch err {
	case nil, engine.ErrBusy:
	case engine.ErrNoMatch:
		if g.variant == VariantConnect {
			audioSink.PlaySound(engine.SoundBad, 0.4)
		}
	default:
		audioSink.PlaySound(engine.SoundBad, 0.4)
	}
}

// drainEvents converts buffered score deltas into pass-numbered clear
// events. Deltas always land before their gesture's result does, so
// numbering restarts cleanly on the next dispatch.
func (g *Game) drainEvents() []core.Event {
	deltas := g.scores.drain()
	if len(deltas) == 0 {
		return nil
	}
	events := make([]core.Event, 0, len(deltas))
	for _, d := range deltas {
		g.pass++
		events = append(events, core.ClearEvent{Pieces: d, Pass: g.pass})
	}
	return events
}

// advanceBatch plays queued batches one at a time, acking each when
// every effect has reached its end tick.
func (g *Game) advanceBatch() {
	if g.current == nil {
		p, ok := g.pres.next()
		if !ok {
			return
		}
		g.current = &p
		g.snapshot = p.batch.Board
		g.layer.load(p.batch.Effects)
	}
	if g.layer.advance() {
		close(g.current.ack)
		g.current = nil
		g.layer.clear()
	}
}

// restart deals a fresh board mid-run. Ignored while a gesture or its
// animation is still playing.
func (g *Game) restart() {
	if g.busyShell() {
		return
	}
	if err := g.session.Restart(g.rng.Int63()); err != nil {
		return
	}
	g.snapshot = g.session.Board()
	g.layer.clear()
	g.resetGestureState()
}

func (g *Game) resetGestureState() {
	g.grabbed = false
	g.drawing = false
	g.dragging = false
	g.path = g.path[:0]
}

// drainGesture acks queued batches until an in-flight call returns, so
// a Reset never strands the old session's goroutine.
func (g *Game) drainGesture() {
	if g.current != nil {
		close(g.current.ack)
		g.current = nil
	}
	if !g.inFlight {
		if g.pres != nil {
			g.pres.flush()
		}
		return
	}
	for {
		select {
		case <-g.results:
			g.inFlight = false
			g.pres.flush()
			return
		default:
		}
		if p, ok := g.pres.next(); ok {
			close(p.ack)
			continue
		}
		runtime.Gosched()
	}
}

// pieceAt reads the render snapshot, which is what the player sees.
func (g *Game) pieceAt(c engine.Coord) engine.Piece {
	if g.snapshot == nil {
		return engine.Piece{}
	}
	return g.snapshot.At(c)
}
