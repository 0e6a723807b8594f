package engine

// PieceID is a process-unique piece identifier. IDs come from a
// monotonic per-session counter and are never reused; the zero ID marks
// an empty cell. Outer layers track pieces by ID only and never own
// their lifecycle.
type PieceID int64

// Color is an index into the session's palette.
type Color uint8

// Kind classifies a piece. The set is closed: blast, drawing and
// activation logic switch over it exhaustively.
type Kind uint8

const (
	KindNormal Kind = iota
	KindRocket
	KindBomb
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindRocket:
		return "rocket"
	case KindBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// Piece is one colored board piece. The zero value is the empty-cell
// marker.
type Piece struct {
	ID    PieceID
	Color Color
	Kind  Kind
}

// Empty reports whether p is the empty-cell marker.
func (p Piece) Empty() bool {
	return p.ID == 0
}

// Special reports whether p carries a blast area.
func (p Piece) Special() bool {
	return !p.Empty() && p.Kind != KindNormal
}
