package engine

import "sort"

// CellSet is a set of board coordinates.
type CellSet map[Coord]bool

// Contains reports set membership.
func (s CellSet) Contains(c Coord) bool {
	return s[c]
}

// Coords returns the members in row-major order, so batches built from
// a set come out deterministic.
func (s CellSet) Coords() []Coord {
	out := make([]Coord, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// BlastArea returns the cells destroyed when kind detonates at center,
// clipped to the board. Rockets clear a plus shape (the cell and its
// four orthogonal neighbors), bombs a disc of radius BombRadius. Normal
// pieces have no blast.
func BlastArea(g *Grid, center Coord, kind Kind, rules Rules) []Coord {
	switch kind {
	case KindNormal:
		return nil
	case KindRocket:
		area := make([]Coord, 0, 5)
		if g.InBounds(center) {
			area = append(area, center)
		}
		for _, d := range orthoSteps {
			c := C(center.X+d.X, center.Y+d.Y)
			if g.InBounds(c) {
				area = append(area, c)
			}
		}
		return area
	case KindBomb:
		r := rules.BombRadius
		area := make([]Coord, 0, (2*r+1)*(2*r+1))
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				// Disc membership by rounded Euclidean distance:
				// round(sqrt(dx*dx+dy*dy)) <= r, kept in integers.
				if dx*dx+dy*dy > r*r+r {
					continue
				}
				c := C(center.X+dx, center.Y+dy)
				if g.InBounds(c) {
					area = append(area, c)
				}
			}
		}
		return area
	}
	return nil
}

// ExpandChain grows clearSet to a fixed point: every special piece whose
// cell is in the set detonates, its blast area joins the set, and any
// further specials caught that way detonate too, regardless of the order
// they are discovered in. Protected cells (special-creation targets)
// never join the set and never detonate. Re-running ExpandChain on its
// own output adds nothing.
func ExpandChain(g *Grid, clearSet, protected CellSet, rules Rules) {
	expandChain(g, clearSet, protected, make(CellSet), rules)
}

// expandChain is ExpandChain with an explicit detonated set, so a piece
// that already fired (a rocket relocated by a drag) is not fired a
// second time from its own cell.
func expandChain(g *Grid, clearSet, protected, detonated CellSet, rules Rules) {
	for {
		grew := false
		for _, c := range clearSet.Coords() {
			if detonated[c] {
				continue
			}
			p := g.At(c)
			if !p.Special() {
				continue
			}
			detonated[c] = true
			for _, b := range BlastArea(g, c, p.Kind, rules) {
				if protected[b] || clearSet[b] {
					continue
				}
				clearSet[b] = true
				grew = true
			}
		}
		if !grew {
			return
		}
	}
}
