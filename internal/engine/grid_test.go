package engine

import "testing"

func TestNewGridEmpty(t *testing.T) {
	g := NewGrid(8)

	if g.Size() != 8 {
		t.Errorf("Size() = %d, expected 8", g.Size())
	}
	if g.FilledCount() != 0 {
		t.Errorf("FilledCount() = %d, expected 0", g.FilledCount())
	}
	if g.Full() {
		t.Error("New grid should not be full")
	}
	if !g.At(C(3, 3)).Empty() {
		t.Error("All cells should start empty")
	}
}

func TestGridSetAt(t *testing.T) {
	g := NewGrid(4)
	p := Piece{ID: 7, Color: 2, Kind: KindRocket}

	g.Set(C(1, 2), p)
	if got := g.At(C(1, 2)); got != p {
		t.Errorf("At(1, 2) = %+v, expected %+v", got, p)
	}

	// Writes outside the board are ignored
	g.Set(C(-1, 0), p)
	g.Set(C(0, 4), p)
	if g.FilledCount() != 1 {
		t.Errorf("FilledCount() = %d, expected 1 after out-of-bounds writes", g.FilledCount())
	}

	// Reads outside the board return the empty piece
	if !g.At(C(4, 0)).Empty() {
		t.Error("Out-of-bounds At should return the empty piece")
	}
	if !g.At(C(0, -1)).Empty() {
		t.Error("Out-of-bounds At should return the empty piece")
	}
}

func TestGridInBounds(t *testing.T) {
	g := NewGrid(3)

	tests := []struct {
		c    Coord
		want bool
	}{
		{C(0, 0), true},
		{C(2, 2), true},
		{C(3, 0), false},
		{C(0, 3), false},
		{C(-1, 1), false},
		{C(1, -1), false},
	}

	for _, tt := range tests {
		if got := g.InBounds(tt.c); got != tt.want {
			t.Errorf("InBounds(%v) = %v, expected %v", tt.c, got, tt.want)
		}
	}
}

func TestGridSwap(t *testing.T) {
	g := NewGrid(4)
	pa := Piece{ID: 1, Color: 0}
	pb := Piece{ID: 2, Color: 3}
	g.Set(C(0, 0), pa)
	g.Set(C(1, 0), pb)

	g.Swap(C(0, 0), C(1, 0))

	if g.At(C(0, 0)) != pb || g.At(C(1, 0)) != pa {
		t.Error("Swap should exchange the two cells")
	}

	// Swap with an out-of-bounds cell is a no-op
	g.Swap(C(0, 0), C(-1, 0))
	if g.At(C(0, 0)) != pb {
		t.Error("Swap with out-of-bounds cell should change nothing")
	}
}

func TestGridClearCell(t *testing.T) {
	g := NewGrid(4)
	g.Set(C(2, 2), Piece{ID: 5, Color: 1})

	g.ClearCell(C(2, 2))

	if !g.At(C(2, 2)).Empty() {
		t.Error("ClearCell should empty the cell")
	}
}

func TestGridClone(t *testing.T) {
	g := NewGrid(4)
	g.Set(C(1, 1), Piece{ID: 9, Color: 4})

	clone := g.Clone()
	clone.Set(C(1, 1), Piece{ID: 10, Color: 0})
	clone.Set(C(0, 0), Piece{ID: 11, Color: 1})

	if g.At(C(1, 1)).ID != 9 {
		t.Error("Mutating a clone should not affect the original")
	}
	if !g.At(C(0, 0)).Empty() {
		t.Error("Mutating a clone should not affect the original")
	}
}

func TestGridFull(t *testing.T) {
	g := NewGrid(2)
	var id PieceID
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			id++
			g.Set(C(x, y), Piece{ID: id})
		}
	}

	if !g.Full() {
		t.Error("Grid with every cell occupied should be full")
	}

	g.ClearCell(C(0, 1))
	if g.Full() {
		t.Error("Grid with an empty cell should not be full")
	}
	if g.FilledCount() != 3 {
		t.Errorf("FilledCount() = %d, expected 3", g.FilledCount())
	}
}

func TestPieceEmptySpecial(t *testing.T) {
	if !(Piece{}).Empty() {
		t.Error("Zero piece should be empty")
	}
	if (Piece{}).Special() {
		t.Error("Zero piece should not be special")
	}
	if (Piece{ID: 1, Kind: KindNormal}).Special() {
		t.Error("Normal piece should not be special")
	}
	if !(Piece{ID: 1, Kind: KindRocket}).Special() {
		t.Error("Rocket should be special")
	}
	if !(Piece{ID: 1, Kind: KindBomb}).Special() {
		t.Error("Bomb should be special")
	}
}

func TestCoordAdjacent(t *testing.T) {
	tests := []struct {
		a, b Coord
		want bool
	}{
		{C(1, 1), C(2, 1), true},
		{C(1, 1), C(0, 1), true},
		{C(1, 1), C(1, 0), true},
		{C(1, 1), C(1, 2), true},
		{C(1, 1), C(2, 2), false}, // diagonal
		{C(1, 1), C(1, 1), false}, // same cell
		{C(1, 1), C(3, 1), false}, // two apart
	}

	for _, tt := range tests {
		if got := tt.a.Adjacent(tt.b); got != tt.want {
			t.Errorf("%v.Adjacent(%v) = %v, expected %v", tt.a, tt.b, got, tt.want)
		}
	}
}
