package engine

import (
	"errors"
	"math/rand"
	"sync"
)

// Gameplay errors. Every one of them leaves the board consistent and
// unchanged; callers treat them as user feedback, not as failures.
var (
	// ErrOutOfBounds rejects coordinates outside the board.
	ErrOutOfBounds = errors.New("engine: cell out of bounds")
	// ErrInvalidAdjacency rejects swap or drag targets that are not
	// orthogonal neighbors of the origin.
	ErrInvalidAdjacency = errors.New("engine: cells are not orthogonal neighbors")
	// ErrNoMatch reports a swap or selection that produced no run; the
	// board has been restored exactly.
	ErrNoMatch = errors.New("engine: move produces no match")
	// ErrBusy rejects input while a resolution is in flight. Requests
	// are dropped, never queued.
	ErrBusy = errors.New("engine: resolution in flight")
	// ErrBadSelection rejects gestures over empty cells, malformed
	// connect paths and activation of non-special pieces.
	ErrBadSelection = errors.New("engine: selection is not playable")
)

// Phase is the cascade resolver's observable state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDetecting
	PhaseClearing
	PhaseCollapsing
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDetecting:
		return "detecting"
	case PhaseClearing:
		return "clearing"
	case PhaseCollapsing:
		return "collapsing"
	default:
		return "unknown"
	}
}

// Session owns one board and everything that resolves on it: grid,
// score, rng, the piece-id counter and the busy flag. There is no
// package-level state; every component works on the session it is
// handed.
//
// AttemptSwap, ActivateSpecial and ClearConnected block until the board
// rests again, so interactive callers run them on their own goroutine.
// Only one such call is admitted at a time; the busy flag turns the
// rest away with ErrBusy for the whole gesture, from the moment input
// is accepted until the resolver returns to idle.
//
// mu guards all fields and is never held across a Present call, so
// Board, Score and Phase stay responsive while a resolution waits for
// its acknowledgments.
type Session struct {
	mu     sync.Mutex
	rules  Rules
	grid   *Grid
	rng    *rand.Rand
	score  int
	busy   bool
	phase  Phase
	lastID PieceID

	presenter Presenter
	audio     AudioSink
	scores    ScoreSink
}

// NewSession deals a fresh match-free board under the given rules and
// seed. A nil presenter is replaced by ImmediatePresenter and nil sinks
// by no-ops, so a bare NewSession(rules, seed, nil, nil, nil) is a fully
// headless game.
func NewSession(rules Rules, seed int64, p Presenter, a AudioSink, sc ScoreSink) *Session {
	if rules.Size == 0 {
		rules = DefaultRules()
	}
	if p == nil {
		p = ImmediatePresenter{}
	}
	if a == nil {
		a = NopAudio{}
	}
	if sc == nil {
		sc = NopScore{}
	}
	s := &Session{
		rules:     rules,
		grid:      NewGrid(rules.Size),
		rng:       rand.New(rand.NewSource(seed)),
		presenter: p,
		audio:     a,
		scores:    sc,
	}
	s.deal()
	return s
}

// Rules returns the session's rule set.
func (s *Session) Rules() Rules {
	return s.rules
}

// Board returns a snapshot of the current grid.
func (s *Session) Board() *Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

// Score returns the current score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Busy reports whether a resolution is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Phase returns the resolver's current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// ResetScore zeroes the score. The meter subsystem calls this when a
// purchase consumes the player's points; the session tolerates it at
// any point between resolutions.
func (s *Session) ResetScore() {
	s.mu.Lock()
	s.score = 0
	s.mu.Unlock()
}

// Restart discards the board and deals a fresh match-free one from the
// given seed, zeroing the score. Rejected while a resolution is in
// flight.
func (s *Session) Restart(seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.rng = rand.New(rand.NewSource(seed))
	s.grid = NewGrid(s.rules.Size)
	s.score = 0
	s.deal()
	return nil
}

// newPiece mints a piece with the next id. mu must be held, or the
// session must not be shared yet.
func (s *Session) newPiece(color Color, kind Kind) Piece {
	s.lastID++
	return Piece{ID: s.lastID, Color: color, Kind: kind}
}

// beginGesture claims the busy flag. It returns ErrBusy when another
// gesture holds it. mu must be held.
func (s *Session) beginGesture() error {
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

// endGesture releases the busy flag, taking mu itself.
func (s *Session) endGesture() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
