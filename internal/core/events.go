package core

// Event is a notification surfaced by a game to the platform through
// StepResult. Concrete event types implement the marker method.
type Event interface {
	gameEvent()
}

// ClearEvent reports one resolution pass: how many pieces it destroyed
// and where the pass sits in the cascade (1 = triggered directly by the
// player's gesture, 2+ = chain reactions from refilled pieces).
type ClearEvent struct {
	Pieces int
	Pass   int
}

func (ClearEvent) gameEvent() {}
