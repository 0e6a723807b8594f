package engine

import (
	"sync"
	"testing"
)

// gridFromRows builds a square grid from a row-per-string description.
// Letters a..z map to colors 0..25, '.' leaves the cell empty. Piece IDs
// are assigned in reading order starting at 1.
func gridFromRows(t *testing.T, rows []string) *Grid {
	t.Helper()
	g := NewGrid(len(rows))
	var id PieceID
	for y, row := range rows {
		if len(row) != len(rows) {
			t.Fatalf("row %d has %d cells, expected %d", y, len(row), len(rows))
		}
		for x, ch := range row {
			if ch == '.' {
				continue
			}
			if ch < 'a' || ch > 'z' {
				t.Fatalf("bad cell %q at (%d, %d)", ch, x, y)
			}
			id++
			g.Set(C(x, y), Piece{ID: id, Color: Color(ch - 'a'), Kind: KindNormal})
		}
	}
	return g
}

// placeSpecial upgrades the piece at c to the given kind and color,
// keeping its ID.
func placeSpecial(g *Grid, c Coord, kind Kind, color Color) {
	p := g.At(c)
	p.Kind = kind
	p.Color = color
	g.Set(c, p)
}

// forceBoard swaps a crafted grid into a session, bumping the ID counter
// past every piece on it.
func forceBoard(s *Session, g *Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = g
	n := g.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if id := g.At(C(x, y)).ID; id > s.lastID {
				s.lastID = id
			}
		}
	}
}

// mustNoRuns fails the test when the grid holds any run. Used to assert
// both crafted preconditions and the resting invariant after a gesture.
func mustNoRuns(t *testing.T, g *Grid, context string) {
	t.Helper()
	if runs := DetectRuns(g); len(runs) != 0 {
		t.Fatalf("%s: expected no runs, found %d", context, len(runs))
	}
}

// sameBoards reports whether two grids hold identical pieces cell for
// cell, IDs included.
func sameBoards(a, b *Grid) bool {
	if a.Size() != b.Size() {
		return false
	}
	n := a.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if a.At(C(x, y)) != b.At(C(x, y)) {
				return false
			}
		}
	}
	return true
}

// recordingPresenter acknowledges every batch immediately and keeps them
// all for inspection.
type recordingPresenter struct {
	mu      sync.Mutex
	batches []Batch
}

func (p *recordingPresenter) Present(b Batch) <-chan struct{} {
	p.mu.Lock()
	p.batches = append(p.batches, b)
	p.mu.Unlock()
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (p *recordingPresenter) kinds() []BatchKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]BatchKind, len(p.batches))
	for i, b := range p.batches {
		out[i] = b.Kind
	}
	return out
}

func (p *recordingPresenter) firstOfKind(k BatchKind) (Batch, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.batches {
		if b.Kind == k {
			return b, true
		}
	}
	return Batch{}, false
}

func (p *recordingPresenter) countKind(k BatchKind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.batches {
		if b.Kind == k {
			n++
		}
	}
	return n
}

// destroyedTotal sums the fade effects across all clear batches, which
// equals the number of destroyed pieces when the board is full.
func (p *recordingPresenter) destroyedTotal() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.batches {
		if b.Kind == BatchClear {
			n += len(b.Effects)
		}
	}
	return n
}

// gatedPresenter blocks every Present until release is closed. Each
// batch is reported on received so tests can synchronize with the
// session goroutine.
type gatedPresenter struct {
	received chan Batch
	release  chan struct{}
}

func newGatedPresenter() *gatedPresenter {
	return &gatedPresenter{
		received: make(chan Batch, 64),
		release:  make(chan struct{}),
	}
}

func (p *gatedPresenter) Present(b Batch) <-chan struct{} {
	p.received <- b
	return p.release
}

// recordingAudio keeps every sound event in arrival order.
type recordingAudio struct {
	mu     sync.Mutex
	events []struct {
		sound     Sound
		intensity float64
	}
}

func (a *recordingAudio) PlaySound(s Sound, intensity float64) {
	a.mu.Lock()
	a.events = append(a.events, struct {
		sound     Sound
		intensity float64
	}{s, intensity})
	a.mu.Unlock()
}

func (a *recordingAudio) has(s Sound) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.events {
		if e.sound == s {
			return true
		}
	}
	return false
}

func (a *recordingAudio) intensityOf(s Sound) (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.events {
		if e.sound == s {
			return e.intensity, true
		}
	}
	return 0, false
}

// recordingScore keeps every score delta.
type recordingScore struct {
	mu     sync.Mutex
	deltas []int
}

func (r *recordingScore) AddScore(delta int) {
	r.mu.Lock()
	r.deltas = append(r.deltas, delta)
	r.mu.Unlock()
}

func (r *recordingScore) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.deltas {
		n += d
	}
	return n
}
