// Package engine implements the match-resolution core of the game:
// board state, run detection, special-piece planning, chain expansion
// and the cascade loop that keeps clearing and refilling until the
// board rests. It renders nothing and starts no goroutines of its own;
// all outward communication goes through the Presenter, AudioSink and
// ScoreSink interfaces, so the package is fully testable headlessly.
package engine

// Rules holds the tunable parameters of a session.
type Rules struct {
	Size   int // board edge length, the board is Size x Size
	Colors int // palette size for newly dealt pieces

	RocketRun  int // run length that creates a rocket
	BombRun    int // run length that upgrades the creation to a bomb
	BombRadius int // bomb blast radius in cells

	SwapTicks   int // duration hint for swap and revert moves
	FadeTicks   int // duration hint for clear fades
	PopTicks    int // duration hint for special pop-ins
	FallBase    int // base duration hint for falling pieces
	FallPerCell int // added duration per cell of fall distance
}

// DefaultRules returns the standard 8x8 six-color rule set.
func DefaultRules() Rules {
	return Rules{
		Size:        8,
		Colors:      6,
		RocketRun:   4,
		BombRun:     5,
		BombRadius:  2,
		SwapTicks:   8,
		FadeTicks:   10,
		PopTicks:    6,
		FallBase:    4,
		FallPerCell: 3,
	}
}
