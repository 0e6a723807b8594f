package engine

// AttemptSwap validates and plays the adjacency swap of a and b. The
// exchange is provisional: it is animated first, then judged. On a
// match the board is handed to the cascade loop and AttemptSwap blocks
// until the board rests again; otherwise the pieces are animated back
// and ErrNoMatch returned with the board restored cell for cell.
func (s *Session) AttemptSwap(a, b Coord) error {
	s.mu.Lock()
	if err := s.validateSwap(a, b); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.beginGesture(); err != nil {
		s.mu.Unlock()
		return err
	}

	s.grid.Swap(a, b)
	batch := s.swapBatch(BatchSwap, a, b)
	s.mu.Unlock()

	s.audio.PlaySound(SoundSwap, 0.6)
	<-s.presenter.Present(batch)

	s.mu.Lock()
	matched := len(DetectRuns(s.grid)) > 0
	if !matched {
		s.grid.Swap(a, b)
		batch = s.swapBatch(BatchRevert, a, b)
	}
	s.mu.Unlock()

	if !matched {
		s.audio.PlaySound(SoundBad, 0.7)
		<-s.presenter.Present(batch)
		s.endGesture()
		return ErrNoMatch
	}

	s.resolve([]Coord{a, b})
	s.endGesture()
	return nil
}

// validateSwap checks the swap preconditions without mutating anything.
// mu must be held.
func (s *Session) validateSwap(a, b Coord) error {
	if !s.grid.InBounds(a) || !s.grid.InBounds(b) {
		return ErrOutOfBounds
	}
	if !a.Adjacent(b) {
		return ErrInvalidAdjacency
	}
	if s.grid.At(a).Empty() || s.grid.At(b).Empty() {
		return ErrBadSelection
	}
	return nil
}

// swapBatch builds the two crossing move effects for a just-exchanged
// pair of cells. mu must be held.
func (s *Session) swapBatch(kind BatchKind, a, b Coord) Batch {
	pa, pb := s.grid.At(a), s.grid.At(b)
	return Batch{
		Kind:  kind,
		Board: s.grid.Clone(),
		Effects: []Effect{
			{Piece: pa.ID, Kind: EffectMove, From: Resting(b), To: Resting(a), Ticks: s.rules.SwapTicks},
			{Piece: pb.ID, Kind: EffectMove, From: Resting(a), To: Resting(b), Ticks: s.rules.SwapTicks},
		},
	}
}

// ActivateSpecial detonates the special piece at origin. center is
// where the blast lands: origin itself for a tap, or an orthogonal
// neighbor when the player dragged a rocket one cell before release.
// Bombs cannot be relocated. The activated piece's own cell always
// joins the blast, and the clear cascades like a zero-run pass: it
// scores, it can chain, and refills resolve afterwards.
func (s *Session) ActivateSpecial(origin, center Coord) error {
	s.mu.Lock()
	if !s.grid.InBounds(origin) || !s.grid.InBounds(center) {
		s.mu.Unlock()
		return ErrOutOfBounds
	}
	p := s.grid.At(origin)
	if !p.Special() {
		s.mu.Unlock()
		return ErrBadSelection
	}
	if center != origin && (p.Kind != KindRocket || !origin.Adjacent(center)) {
		s.mu.Unlock()
		return ErrInvalidAdjacency
	}
	if err := s.beginGesture(); err != nil {
		s.mu.Unlock()
		return err
	}

	clearSet := CellSet{origin: true}
	for _, c := range BlastArea(s.grid, center, p.Kind, s.rules) {
		clearSet[c] = true
	}
	// The piece already fired at center; the chain sweep must not fire
	// it a second time from its own cell.
	expandChain(s.grid, clearSet, nil, CellSet{origin: true}, s.rules)
	s.mu.Unlock()

	s.runPass(clearSet, nil, 1)
	s.resolveFrom(nil, 2)
	s.endGesture()
	return nil
}
