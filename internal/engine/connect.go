package engine

// ClearConnected clears a player-drawn path of same-colored cells, the
// connect variant's counterpart to a swap. The path must visit at least
// MinRunLength distinct occupied cells, each orthogonally adjacent to
// the one before it, all of one color. Rocket-length paths leave a
// rocket on the release cell (the path's last cell) and bomb-length
// paths a bomb; the remaining cells seed the clear set, which then
// chain-expands and cascades exactly like a swap-triggered pass.
func (s *Session) ClearConnected(path []Coord) error {
	s.mu.Lock()
	if err := s.validatePath(path); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.beginGesture(); err != nil {
		s.mu.Unlock()
		return err
	}

	release := path[len(path)-1]
	color := s.grid.At(path[0]).Color
	plan := make(map[Coord]Creation)
	switch {
	case len(path) >= s.rules.BombRun:
		plan[release] = Creation{Kind: KindBomb, Color: color}
	case len(path) >= s.rules.RocketRun:
		plan[release] = Creation{Kind: KindRocket, Color: color}
	}
	protected := make(CellSet, len(plan))
	for c := range plan {
		protected[c] = true
	}
	clearSet := make(CellSet, len(path))
	for _, c := range path {
		if !protected[c] {
			clearSet[c] = true
		}
	}
	ExpandChain(s.grid, clearSet, protected, s.rules)
	s.mu.Unlock()

	s.runPass(clearSet, plan, 1)
	s.resolveFrom(nil, 2)
	s.endGesture()
	return nil
}

// validatePath checks a connect selection without mutating anything.
// mu must be held.
func (s *Session) validatePath(path []Coord) error {
	if len(path) < MinRunLength {
		return ErrNoMatch
	}
	seen := make(CellSet, len(path))
	var color Color
	for i, c := range path {
		if !s.grid.InBounds(c) {
			return ErrOutOfBounds
		}
		p := s.grid.At(c)
		if p.Empty() || seen[c] {
			return ErrBadSelection
		}
		seen[c] = true
		if i == 0 {
			color = p.Color
			continue
		}
		if p.Color != color {
			return ErrBadSelection
		}
		if !c.Adjacent(path[i-1]) {
			return ErrInvalidAdjacency
		}
	}
	return nil
}
