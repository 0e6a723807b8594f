package engine

import "testing"

func TestDealMatchFree(t *testing.T) {
	rules := DefaultRules()

	for seed := int64(1); seed <= 25; seed++ {
		s := NewSession(rules, seed, nil, nil, nil)
		board := s.Board()

		if !board.Full() {
			t.Fatalf("Seed %d: fresh board should be full", seed)
		}
		mustNoRuns(t, board, "fresh deal")

		for y := 0; y < rules.Size; y++ {
			for x := 0; x < rules.Size; x++ {
				p := board.At(C(x, y))
				if p.Kind != KindNormal {
					t.Fatalf("Seed %d: fresh deal placed a %v at (%d, %d)", seed, p.Kind, x, y)
				}
				if int(p.Color) >= rules.Colors {
					t.Fatalf("Seed %d: color %d outside the %d-color palette", seed, p.Color, rules.Colors)
				}
			}
		}
	}
}

func TestDealDeterministic(t *testing.T) {
	a := NewSession(DefaultRules(), 42, nil, nil, nil)
	b := NewSession(DefaultRules(), 42, nil, nil, nil)

	if !sameBoards(a.Board(), b.Board()) {
		t.Error("Same seed should deal identical boards")
	}

	c := NewSession(DefaultRules(), 43, nil, nil, nil)
	if sameBoards(a.Board(), c.Board()) {
		t.Error("Different seeds should deal different boards")
	}
}

func TestRestartDealsFresh(t *testing.T) {
	s := NewSession(DefaultRules(), 7, nil, nil, nil)
	before := s.Board()

	if err := s.Restart(99); err != nil {
		t.Fatalf("Restart returned %v", err)
	}

	after := s.Board()
	if !after.Full() {
		t.Error("Restarted board should be full")
	}
	mustNoRuns(t, after, "restarted board")
	if sameBoards(before, after) {
		t.Error("Restart with a new seed should deal a different board")
	}
	if s.Score() != 0 {
		t.Errorf("Restart should zero the score, got %d", s.Score())
	}
}

func TestRestartSameSeedSameColors(t *testing.T) {
	s := NewSession(DefaultRules(), 7, nil, nil, nil)
	if err := s.Restart(7); err != nil {
		t.Fatalf("Restart returned %v", err)
	}
	restarted := s.Board()

	fresh := NewSession(DefaultRules(), 7, nil, nil, nil).Board()

	// Piece IDs keep counting across restarts, but the dealt colors
	// replay exactly.
	n := fresh.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if restarted.At(C(x, y)).Color != fresh.At(C(x, y)).Color {
				t.Fatalf("Color mismatch at (%d, %d) after seeded restart", x, y)
			}
		}
	}
}

func TestWouldRun(t *testing.T) {
	g := gridFromRows(t, []string{
		"aab..",
		"b....",
		"b....",
		".....",
		".....",
	})

	tests := []struct {
		name  string
		c     Coord
		color Color
		want  bool
	}{
		{"completes a horizontal run", C(2, 0), 0, false}, // (2,0) occupied by b, placement checks neighbors only
		{"third in a row to the left", C(3, 0), 1, false},
		{"two a's to the left", C(2, 0), 0, false},
		{"two b's above", C(0, 3), 1, true},
		{"different color above", C(0, 3), 0, false},
	}

	// Rebuild without the blocking piece so horizontal checks are
	// meaningful.
	g = gridFromRows(t, []string{
		"aa...",
		"b....",
		"b....",
		".....",
		".....",
	})

	tests[0] = struct {
		name  string
		c     Coord
		color Color
		want  bool
	}{"completes a horizontal run", C(2, 0), 0, true}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wouldRun(g, tt.c, tt.color); got != tt.want {
				t.Errorf("wouldRun(%v, %d) = %v, expected %v", tt.c, tt.color, got, tt.want)
			}
		})
	}
}
