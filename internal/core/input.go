package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // W, Up arrow - move cursor up
	ActionDown            // S, Down arrow - move cursor down
	ActionLeft            // A, Left arrow - move cursor left
	ActionRight           // D, Right arrow - move cursor right
	ActionGrab            // Space - grab or drop the piece under the cursor
	ActionConfirm         // Enter - confirm selection / submit a path
	ActionActivate        // X - detonate the special piece under the cursor
	ActionBack            // B, Escape - cancel selection / go back
	ActionRestart         // R key - restart the current round
	ActionQuit            // Q, Ctrl+C - exit game/session
	ActionPause           // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionGrab:
		return "Grab"
	case ActionConfirm:
		return "Confirm"
	case ActionActivate:
		return "Activate"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// PointerPhase describes where a pointer sample sits inside a drag gesture.
type PointerPhase int

const (
	PointerDown PointerPhase = iota // button pressed
	PointerMove                     // moved while pressed
	PointerUp                       // button released
)

// String returns a human-readable name for the phase.
func (p PointerPhase) String() string {
	switch p {
	case PointerDown:
		return "Down"
	case PointerMove:
		return "Move"
	case PointerUp:
		return "Up"
	default:
		return "Unknown"
	}
}

// PointerEvent is one normalized pointer sample in board coordinates.
// The platform translates terminal mouse positions into grid cells before
// delivering events, so games never deal with screen geometry.
//
// When OnGrid is false the pointer left the board mid-gesture; X and Y
// carry no meaning, but Up events are still delivered so a game can
// finalize or cancel an in-flight gesture.
type PointerEvent struct {
	Phase  PointerPhase
	X, Y   int
	OnGrid bool
}

// InputFrame represents the input state for a single simulation tick.
// It contains all actions and pointer events collected during the frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// Pointer holds the pointer events received this frame, in arrival order.
	Pointer []PointerEvent
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// AddPointer appends a pointer event to this frame.
func (f *InputFrame) AddPointer(e PointerEvent) {
	f.Pointer = append(f.Pointer, e)
}

// Clear resets all actions and pointer events for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Pointer = f.Pointer[:0]
}

// Clone creates a deep copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	if len(f.Pointer) > 0 {
		clone.Pointer = make([]PointerEvent, len(f.Pointer))
		copy(clone.Pointer, f.Pointer)
	}
	return clone
}
