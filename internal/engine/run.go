package engine

// MinRunLength is the shortest straight line that counts as a match.
const MinRunLength = 3

// Orientation distinguishes row runs from column runs.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Run is a maximal straight line of three or more same-colored pieces.
// Runs are recomputed from the grid on every detection pass and never
// stored between passes.
type Run struct {
	Cells       []Coord // in scan order, len >= MinRunLength
	Color       Color
	Orientation Orientation
}

// Contains reports whether c is one of the run's cells.
func (r Run) Contains(c Coord) bool {
	for _, rc := range r.Cells {
		if rc == c {
			return true
		}
	}
	return false
}

// DetectRuns scans every row and then every column of g and returns all
// maximal same-color runs. Empty cells never match anything, including
// each other. A cell may appear in one horizontal and one vertical run
// at the same time (an L or T intersection); consumers deduplicate by
// cell, never by run.
func DetectRuns(g *Grid) []Run {
	var runs []Run
	n := g.Size()
	for y := 0; y < n; y++ {
		runs = appendLineRuns(runs, g, C(0, y), C(1, 0), Horizontal)
	}
	for x := 0; x < n; x++ {
		runs = appendLineRuns(runs, g, C(x, 0), C(0, 1), Vertical)
	}
	return runs
}

// appendLineRuns walks one row or column from start in unit steps and
// appends every maximal run it finds along the way.
func appendLineRuns(runs []Run, g *Grid, start, step Coord, o Orientation) []Run {
	var (
		cells []Coord
		color Color
	)
	flush := func() {
		if len(cells) >= MinRunLength {
			runs = append(runs, Run{Cells: cells, Color: color, Orientation: o})
		}
		cells = nil
	}
	for c := start; g.InBounds(c); c = C(c.X+step.X, c.Y+step.Y) {
		p := g.At(c)
		switch {
		case p.Empty():
			flush()
		case len(cells) == 0 || p.Color != color:
			flush()
			color = p.Color
			cells = []Coord{c}
		default:
			cells = append(cells, c)
		}
	}
	flush()
	return runs
}
