package engine

// Creation records a special piece to materialize once a pass's clear
// commits. Its target cell is protected for the pass: it is excluded
// from the clear set and survives to be replaced in place.
type Creation struct {
	Kind  Kind
	Color Color
}

// PlanSpecials decides which cells become special pieces for one pass's
// runs. preferred carries the two cells of the triggering swap, origin
// first; it is honored only on a resolution's first pass and callers
// pass nil afterwards. At most one creation lands on any cell, and a
// bomb-qualifying run always wins that cell over a rocket-qualifying
// one.
func PlanSpecials(g *Grid, runs []Run, preferred []Coord, rules Rules) map[Coord]Creation {
	plan := make(map[Coord]Creation)
	for _, run := range runs {
		var kind Kind
		switch {
		case len(run.Cells) >= rules.BombRun:
			kind = KindBomb
		case len(run.Cells) >= rules.RocketRun:
			kind = KindRocket
		default:
			continue
		}
		target := creationTarget(g, run, preferred)
		if prev, ok := plan[target]; ok && prev.Kind == KindBomb {
			continue // never downgrade a bomb
		}
		plan[target] = Creation{Kind: kind, Color: run.Color}
	}
	return plan
}

// creationTarget picks the cell of run that receives the new special:
// a swapped cell inside the run holding a normal piece, then any
// swapped cell inside the run, then the run's middle, falling back to
// the nearest normal-piece cell when the middle is already special.
func creationTarget(g *Grid, run Run, preferred []Coord) Coord {
	for _, c := range preferred {
		if run.Contains(c) && g.At(c).Kind == KindNormal {
			return c
		}
	}
	for _, c := range preferred {
		if run.Contains(c) {
			return c
		}
	}
	mid := len(run.Cells) / 2
	if g.At(run.Cells[mid]).Kind == KindNormal {
		return run.Cells[mid]
	}
	// Scan outward from the middle, earlier cell first on ties.
	for d := 1; d < len(run.Cells); d++ {
		for _, i := range [2]int{mid - d, mid + d} {
			if i >= 0 && i < len(run.Cells) && g.At(run.Cells[i]).Kind == KindNormal {
				return run.Cells[i]
			}
		}
	}
	return run.Cells[mid]
}
