package engine

// EffectKind tells the animation layer how a piece transitions.
type EffectKind uint8

const (
	EffectMove EffectKind = iota
	EffectFade
	EffectPop
)

// String returns the lowercase effect name.
func (k EffectKind) String() string {
	switch k {
	case EffectMove:
		return "move"
	case EffectFade:
		return "fade"
	case EffectPop:
		return "pop"
	default:
		return "unknown"
	}
}

// Transform is a visual state for one piece: a position in board cells
// plus opacity and scale. The animation layer owns interpolation; the
// engine only supplies endpoints and a duration hint.
type Transform struct {
	X, Y    float64
	Opacity float64
	Scale   float64
}

// Resting returns the transform of a piece sitting still at cell c.
func Resting(c Coord) Transform {
	return Transform{X: float64(c.X), Y: float64(c.Y), Opacity: 1, Scale: 1}
}

// Effect schedules one piece's transition.
type Effect struct {
	Piece PieceID
	Kind  EffectKind
	From  Transform
	To    Transform
	Ticks int // duration hint in animation ticks
}

// BatchKind labels why a batch was emitted.
type BatchKind uint8

const (
	BatchSwap BatchKind = iota
	BatchRevert
	BatchClear
	BatchSpawn
	BatchFall
)

// String returns the lowercase batch name.
func (k BatchKind) String() string {
	switch k {
	case BatchSwap:
		return "swap"
	case BatchRevert:
		return "revert"
	case BatchClear:
		return "clear"
	case BatchSpawn:
		return "spawn"
	case BatchFall:
		return "fall"
	default:
		return "unknown"
	}
}

// Batch is one ordered group of effects together with the board snapshot
// they play over. For clears the snapshot still holds the fading pieces;
// for falls it already shows the settled board. Renderers draw from the
// snapshot and the effect transforms only and never read the live grid.
type Batch struct {
	Kind    BatchKind
	Board   *Grid
	Effects []Effect
}

// Presenter receives effect batches from a session. Present returns a
// channel that is closed once every effect in the batch has run its
// course; the session blocks on that channel at its suspension points.
// There is no timeout and no cancellation: a stalled presenter stalls
// the session.
type Presenter interface {
	Present(b Batch) <-chan struct{}
}

// ImmediatePresenter acknowledges every batch on the spot, which makes
// a session fully synchronous. Used by tests and non-interactive play.
type ImmediatePresenter struct{}

// Present implements Presenter.
func (ImmediatePresenter) Present(Batch) <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Sound is a semantic audio event tag. What it sounds like is entirely
// up to the audio subsystem.
type Sound uint8

const (
	SoundMatch Sound = iota
	SoundBad
	SoundRocket
	SoundBomb
	SoundSwap
	SoundUI
)

// String returns the lowercase tag name.
func (s Sound) String() string {
	switch s {
	case SoundMatch:
		return "match"
	case SoundBad:
		return "bad"
	case SoundRocket:
		return "rocket"
	case SoundBomb:
		return "bomb"
	case SoundSwap:
		return "swap"
	case SoundUI:
		return "ui"
	default:
		return "unknown"
	}
}

// AudioSink receives fire-and-forget audio events with an intensity in
// [0, 1]. No acknowledgment is expected and implementations must not
// block.
type AudioSink interface {
	PlaySound(s Sound, intensity float64)
}

// ScoreSink receives one non-negative score delta per resolution pass,
// one point per destroyed piece.
type ScoreSink interface {
	AddScore(delta int)
}

// NopAudio discards audio events.
type NopAudio struct{}

// PlaySound implements AudioSink.
func (NopAudio) PlaySound(Sound, float64) {}

// NopScore discards score deltas.
type NopScore struct{}

// AddScore implements ScoreSink.
func (NopScore) AddScore(int) {}
