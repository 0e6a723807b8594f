package engine

// Grid is an N x N board of pieces stored in row-major order
// (index = y*size + x). The zero Piece marks an empty cell. The grid is
// the sole owner of the pieces on it; everything outside the engine
// refers to them by ID.
type Grid struct {
	size  int
	cells []Piece
}

// NewGrid returns an empty size x size grid.
func NewGrid(size int) *Grid {
	return &Grid{size: size, cells: make([]Piece, size*size)}
}

// Size returns the board edge length.
func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.size + c.X
}

// InBounds reports whether c addresses a cell on the board.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size
}

// At returns the piece at c, or the empty piece when c is off the board.
func (g *Grid) At(c Coord) Piece {
	if !g.InBounds(c) {
		return Piece{}
	}
	return g.cells[g.index(c)]
}

// Set places p at c. Writes outside the board are ignored.
func (g *Grid) Set(c Coord, p Piece) {
	if g.InBounds(c) {
		g.cells[g.index(c)] = p
	}
}

// ClearCell empties the cell at c.
func (g *Grid) ClearCell(c Coord) {
	g.Set(c, Piece{})
}

// Swap exchanges the contents of a and b.
func (g *Grid) Swap(a, b Coord) {
	if g.InBounds(a) && g.InBounds(b) {
		i, j := g.index(a), g.index(b)
		g.cells[i], g.cells[j] = g.cells[j], g.cells[i]
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Piece, len(g.cells))
	copy(cells, g.cells)
	return &Grid{size: g.size, cells: cells}
}

// FilledCount returns the number of occupied cells.
func (g *Grid) FilledCount() int {
	n := 0
	for _, p := range g.cells {
		if !p.Empty() {
			n++
		}
	}
	return n
}

// Full reports whether every cell holds a piece.
func (g *Grid) Full() bool {
	return g.FilledCount() == g.size*g.size
}
