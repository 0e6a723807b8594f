package engine

// Coord identifies a single board cell. X is the column, Y is the row,
// with (0,0) at the top-left corner; gravity pulls toward growing Y.
type Coord struct {
	X, Y int
}

// C is a shorthand constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Adjacent reports whether o is an orthogonal neighbor of c
// (Manhattan distance exactly 1).
func (c Coord) Adjacent(o Coord) bool {
	return abs(c.X-o.X)+abs(c.Y-o.Y) == 1
}

// orthoSteps lists the four orthogonal step offsets, used by rocket
// blasts and connect-path checks.
var orthoSteps = [4]Coord{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
