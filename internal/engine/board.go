package engine

// deal fills every cell of the grid with a fresh normal piece. Colors
// are drawn uniformly and re-drawn whenever a piece would complete a run
// with neighbors already placed, so a new board always starts match-free
// and the opening deal never scores. The session's lock must be held, or
// the session must not be shared yet.
func (s *Session) deal() {
	n := s.grid.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := C(x, y)
			color := Color(s.rng.Intn(s.rules.Colors))
			for wouldRun(s.grid, c, color) {
				color = Color(s.rng.Intn(s.rules.Colors))
			}
			s.grid.Set(c, s.newPiece(color, KindNormal))
		}
	}
}

// wouldRun reports whether placing color at c completes a horizontal or
// vertical run with the two pieces to the left of or above c. Cells are
// dealt top-to-bottom, left-to-right, so those are the only neighbors
// that exist yet.
func wouldRun(g *Grid, c Coord, color Color) bool {
	l1, l2 := g.At(C(c.X-1, c.Y)), g.At(C(c.X-2, c.Y))
	if !l1.Empty() && !l2.Empty() && l1.Color == color && l2.Color == color {
		return true
	}
	u1, u2 := g.At(C(c.X, c.Y-1)), g.At(C(c.X, c.Y-2))
	return !u1.Empty() && !u2.Empty() && u1.Color == color && u2.Color == color
}

// randColor draws a refill color. Unlike the opening deal, refills do
// not avoid matches; cascades coming off a refill are part of the game.
func (s *Session) randColor() Color {
	return Color(s.rng.Intn(s.rules.Colors))
}
