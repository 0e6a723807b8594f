package engine

import "sort"

// resolve runs detection passes until the board rests: detect runs,
// plan specials, expand the chain, clear, collapse and refill, then
// detect again. preferred seeds special placement on the first pass
// only. The caller must already hold the busy flag and must not hold
// mu; resolve leaves the phase at PhaseIdle.
func (s *Session) resolve(preferred []Coord) {
	s.resolveFrom(preferred, 1)
}

// resolveFrom is resolve with an explicit starting pass number, used by
// the activation and connect paths whose first pass already ran.
func (s *Session) resolveFrom(preferred []Coord, pass int) {
	for ; ; pass++ {
		s.mu.Lock()
		s.phase = PhaseDetecting
		runs := DetectRuns(s.grid)
		if len(runs) == 0 {
			s.phase = PhaseIdle
			s.mu.Unlock()
			return
		}
		if pass > 1 {
			preferred = nil
		}
		plan := PlanSpecials(s.grid, runs, preferred, s.rules)
		protected := make(CellSet, len(plan))
		for c := range plan {
			protected[c] = true
		}
		clearSet := make(CellSet)
		for _, run := range runs {
			for _, c := range run.Cells {
				if !protected[c] {
					clearSet[c] = true
				}
			}
		}
		ExpandChain(s.grid, clearSet, protected, s.rules)
		s.mu.Unlock()

		s.runPass(clearSet, plan, pass)
	}
}

// runPass plays out one pass whose clear set is already chain-expanded:
// fade the cleared pieces and await the ack, commit the clear and emit
// the score delta, pop in the planned specials, then collapse, refill
// and await the fall ack. Entered with the busy flag held and mu free.
func (s *Session) runPass(clearSet CellSet, plan map[Coord]Creation, pass int) {
	s.mu.Lock()
	s.phase = PhaseClearing
	cells := clearSet.Coords()

	destroyed, rockets, bombs := 0, 0, 0
	effects := make([]Effect, 0, len(cells))
	for _, c := range cells {
		p := s.grid.At(c)
		if p.Empty() {
			continue
		}
		destroyed++
		switch p.Kind {
		case KindRocket:
			rockets++
		case KindBomb:
			bombs++
		case KindNormal:
		}
		from := Resting(c)
		to := from
		to.Opacity = 0
		to.Scale = 0.4
		effects = append(effects, Effect{Piece: p.ID, Kind: EffectFade, From: from, To: to, Ticks: s.rules.FadeTicks})
	}
	snap := s.grid.Clone()
	s.mu.Unlock()

	s.audio.PlaySound(SoundMatch, matchIntensity(pass))
	if rockets > 0 {
		s.audio.PlaySound(SoundRocket, burstIntensity(rockets))
	}
	if bombs > 0 {
		s.audio.PlaySound(SoundBomb, burstIntensity(bombs))
	}

	// The fade plays over the pre-clear snapshot; the live grid drops
	// the pieces only after the ack.
	<-s.presenter.Present(Batch{Kind: BatchClear, Board: snap, Effects: effects})

	s.mu.Lock()
	for _, c := range cells {
		s.grid.ClearCell(c)
	}
	s.score += destroyed
	s.mu.Unlock()
	if destroyed > 0 {
		s.scores.AddScore(destroyed)
	}

	if len(plan) > 0 {
		s.spawnSpecials(plan)
	}

	s.mu.Lock()
	s.phase = PhaseCollapsing
	fall := s.collapseAndRefill()
	snap = s.grid.Clone()
	s.mu.Unlock()

	<-s.presenter.Present(Batch{Kind: BatchFall, Board: snap, Effects: fall})
}

// spawnSpecials replaces each planned cell's surviving piece with a new
// special of the recorded kind and color. The pop-in batch does not gate
// the fall, so its ack is not awaited.
func (s *Session) spawnSpecials(plan map[Coord]Creation) {
	targets := make([]Coord, 0, len(plan))
	for c := range plan {
		targets = append(targets, c)
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].Y != targets[j].Y {
			return targets[i].Y < targets[j].Y
		}
		return targets[i].X < targets[j].X
	})

	s.mu.Lock()
	effects := make([]Effect, 0, len(targets))
	for _, c := range targets {
		cr := plan[c]
		p := s.newPiece(cr.Color, cr.Kind)
		s.grid.Set(c, p)
		from := Resting(c)
		from.Scale = 0
		effects = append(effects, Effect{Piece: p.ID, Kind: EffectPop, From: from, To: Resting(c), Ticks: s.rules.PopTicks})
	}
	snap := s.grid.Clone()
	s.mu.Unlock()

	s.presenter.Present(Batch{Kind: BatchSpawn, Board: snap, Effects: effects})
}

// collapseAndRefill compacts every column downward preserving the
// pieces' relative order, then deals new normal pieces into the vacated
// cells above, entering from over the top edge. Move durations are
// proportional to the fall distance. mu must be held.
func (s *Session) collapseAndRefill() []Effect {
	n := s.grid.Size()
	var effects []Effect
	for x := 0; x < n; x++ {
		write := n - 1
		for y := n - 1; y >= 0; y-- {
			p := s.grid.At(C(x, y))
			if p.Empty() {
				continue
			}
			if y != write {
				s.grid.Set(C(x, write), p)
				s.grid.ClearCell(C(x, y))
				effects = append(effects, Effect{
					Piece: p.ID,
					Kind:  EffectMove,
					From:  Resting(C(x, y)),
					To:    Resting(C(x, write)),
					Ticks: s.fallTicks(write - y),
				})
			}
			write--
		}
		gap := write + 1
		for y := write; y >= 0; y-- {
			p := s.newPiece(s.randColor(), KindNormal)
			s.grid.Set(C(x, y), p)
			effects = append(effects, Effect{
				Piece: p.ID,
				Kind:  EffectMove,
				From:  Resting(C(x, y-gap)),
				To:    Resting(C(x, y)),
				Ticks: s.fallTicks(gap),
			})
		}
	}
	return effects
}

// fallTicks converts a fall distance in cells to a duration hint.
func (s *Session) fallTicks(cells int) int {
	return s.rules.FallBase + s.rules.FallPerCell*cells
}

// matchIntensity grows with cascade depth so deeper chains sound
// bigger.
func matchIntensity(pass int) float64 {
	v := 0.5 + 0.15*float64(pass-1)
	if v > 1 {
		return 1
	}
	return v
}

// burstIntensity grows with the number of specials detonating at once.
func burstIntensity(count int) float64 {
	v := 0.7 + 0.15*float64(count-1)
	if v > 1 {
		return 1
	}
	return v
}
