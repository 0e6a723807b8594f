package game

import (
	"strings"
	"testing"
	"time"

	"github.com/romakin/gemfall/internal/core"
	"github.com/romakin/gemfall/internal/engine"
	"github.com/romakin/gemfall/internal/registry"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func pointerFrame(events ...core.PointerEvent) core.InputFrame {
	f := core.NewInputFrame()
	for _, e := range events {
		f.AddPointer(e)
	}
	return f
}

func pd(x, y int) core.PointerEvent {
	return core.PointerEvent{Phase: core.PointerDown, X: x, Y: y, OnGrid: true}
}

func pm(x, y int) core.PointerEvent {
	return core.PointerEvent{Phase: core.PointerMove, X: x, Y: y, OnGrid: true}
}

func pu(x, y int) core.PointerEvent {
	return core.PointerEvent{Phase: core.PointerUp, X: x, Y: y, OnGrid: true}
}

// stepUntilIdle steps with empty frames until the gesture and its
// animation settle, collecting events and whether any batch played.
func stepUntilIdle(t *testing.T, g *Game) ([]core.Event, bool) {
	t.Helper()
	var events []core.Event
	sawBatch := false
	for i := 0; i < 20000; i++ {
		res := g.Step(core.NewInputFrame())
		events = append(events, res.Events...)
		if g.current != nil {
			sawBatch = true
		}
		if !res.State.Busy {
			return events, sawBatch
		}
		time.Sleep(200 * time.Microsecond)
	}
	t.Fatal("gesture never settled")
	return nil, false
}

var orthogonals = []engine.Coord{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

// findLegalSwap scans a board for an adjacent pair whose swap makes a
// run.
func findLegalSwap(b *engine.Grid) (engine.Coord, engine.Coord, bool) {
	return findSwap(b, true)
}

// findNoMatchSwap scans for an adjacent pair whose swap matches nothing.
func findNoMatchSwap(b *engine.Grid) (engine.Coord, engine.Coord, bool) {
	return findSwap(b, false)
}

func findSwap(b *engine.Grid, wantRun bool) (engine.Coord, engine.Coord, bool) {
	for y := 0; y < b.Size(); y++ {
		for x := 0; x < b.Size(); x++ {
			a := engine.C(x, y)
			for _, d := range []engine.Coord{{X: 1}, {Y: 1}} {
				c := engine.C(x+d.X, y+d.Y)
				if !b.InBounds(c) || b.At(a).Empty() || b.At(c).Empty() {
					continue
				}
				probe := b.Clone()
				probe.Swap(a, c)
				if (len(engine.DetectRuns(probe)) > 0) == wantRun {
					return a, c, true
				}
			}
		}
	}
	return engine.Coord{}, engine.Coord{}, false
}

// findChain returns three orthogonally chained same-color cells. Dealt
// boards are match-free, so chains bend, which is exactly what the
// connect variant is for.
func findChain(b *engine.Grid) ([]engine.Coord, bool) {
	for y := 0; y < b.Size(); y++ {
		for x := 0; x < b.Size(); x++ {
			a := engine.C(x, y)
			pa := b.At(a)
			if pa.Empty() {
				continue
			}
			for _, d1 := range orthogonals {
				m := engine.C(a.X+d1.X, a.Y+d1.Y)
				if b.At(m).Empty() || b.At(m).Color != pa.Color {
					continue
				}
				for _, d2 := range orthogonals {
					e := engine.C(m.X+d2.X, m.Y+d2.Y)
					if e == a || b.At(e).Empty() || b.At(e).Color != pa.Color {
						continue
					}
					return []engine.Coord{a, m, e}, true
				}
			}
		}
	}
	return nil, false
}

func boardsEqual(a, b *engine.Grid) bool {
	if a.Size() != b.Size() {
		return false
	}
	for y := 0; y < a.Size(); y++ {
		for x := 0; x < a.Size(); x++ {
			if a.At(engine.C(x, y)).ID != b.At(engine.C(x, y)).ID {
				return false
			}
		}
	}
	return true
}

// newSwapGame deals boards from increasing seeds until one offers both
// a matching and a non-matching swap.
func newSwapGame(t *testing.T) (*Game, engine.Coord, engine.Coord) {
	t.Helper()
	g := New()
	for seed := int64(1); seed <= 64; seed++ {
		g.Reset(testConfig(seed))
		if a, b, ok := findLegalSwap(g.session.Board()); ok {
			return g, a, b
		}
	}
	t.Fatal("no seed in 1..64 dealt a board with a legal swap")
	return nil, engine.Coord{}, engine.Coord{}
}

func newConnectGame(t *testing.T) (*Game, []engine.Coord) {
	t.Helper()
	g := NewConnect()
	for seed := int64(1); seed <= 64; seed++ {
		g.Reset(testConfig(seed))
		if path, ok := findChain(g.session.Board()); ok {
			return g, path
		}
	}
	t.Fatal("no seed in 1..64 dealt a board with a connectable chain")
	return nil, nil
}

func TestRegistryVariants(t *testing.T) {
	for _, tc := range []struct {
		id    string
		title string
	}{
		{"swap", "GemFall"},
		{"connect", "GemFall Connect"},
	} {
		if !registry.Exists(tc.id) {
			t.Fatalf("variant %q not registered", tc.id)
		}
		g, err := registry.Create(tc.id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", tc.id, err)
		}
		if g.ID() != tc.id {
			t.Errorf("ID = %q, want %q", g.ID(), tc.id)
		}
		if g.Title() != tc.title {
			t.Errorf("Title = %q, want %q", g.Title(), tc.title)
		}
	}
}

func TestResetDealsRestingBoard(t *testing.T) {
	g := New()
	g.Reset(testConfig(7))

	st := g.State()
	if st.Busy || st.GameOver || st.Paused || st.Score != 0 {
		t.Errorf("fresh state = %+v, want idle with zero score", st)
	}

	b := g.session.Board()
	if !b.Full() {
		t.Error("dealt board is not full")
	}
	if runs := engine.DetectRuns(b); len(runs) != 0 {
		t.Errorf("dealt board has %d runs, want 0", len(runs))
	}
	if g.cursor != engine.C(4, 4) {
		t.Errorf("cursor = %v, want board center", g.cursor)
	}
}

func TestKeyboardSwapGesture(t *testing.T) {
	g, a, b := newSwapGame(t)
	g.cursor = a

	g.Step(frame(core.ActionGrab))
	if !g.grabbed {
		t.Fatal("grab did not select the cursor cell")
	}

	g.Step(frame(dirAction(a, b)))
	events, _ := stepUntilIdle(t, g)

	if len(events) == 0 {
		t.Fatal("successful swap surfaced no clear events")
	}
	first, ok := events[0].(core.ClearEvent)
	if !ok {
		t.Fatalf("events[0] = %T, want ClearEvent", events[0])
	}
	if first.Pass != 1 || first.Pieces < engine.MinRunLength {
		t.Errorf("first event = %+v, want pass 1 clearing at least %d", first, engine.MinRunLength)
	}

	total := 0
	for _, ev := range events {
		total += ev.(core.ClearEvent).Pieces
	}
	if got := g.session.Score(); got != total {
		t.Errorf("score = %d, events total = %d", got, total)
	}

	after := g.session.Board()
	if !after.Full() {
		t.Error("board did not refill")
	}
	if runs := engine.DetectRuns(after); len(runs) != 0 {
		t.Errorf("board rests with %d runs", len(runs))
	}
}

func dirAction(from, to engine.Coord) core.Action {
	switch {
	case to.X == from.X+1:
		return core.ActionRight
	case to.X == from.X-1:
		return core.ActionLeft
	case to.Y == from.Y+1:
		return core.ActionDown
	default:
		return core.ActionUp
	}
}

func TestPointerSwapGesture(t *testing.T) {
	g, a, b := newSwapGame(t)

	g.Step(pointerFrame(pd(a.X, a.Y), pm(b.X, b.Y)))
	events, sawBatch := stepUntilIdle(t, g)

	if !sawBatch {
		t.Error("no batch played for a successful swap")
	}
	if len(events) == 0 || g.session.Score() == 0 {
		t.Fatalf("drag swap scored %d with %d events, want clears", g.session.Score(), len(events))
	}
	if !boardsEqual(g.snapshot, g.session.Board()) {
		t.Error("render snapshot diverged from the resting board")
	}
}

func TestPointerSwapNoMatchReverts(t *testing.T) {
	g, _, _ := newSwapGame(t)
	a, b, ok := findNoMatchSwap(g.session.Board())
	if !ok {
		t.Skip("board offers no matchless swap")
	}
	before := g.session.Board()

	g.Step(pointerFrame(pd(a.X, a.Y), pm(b.X, b.Y)))
	events, sawBatch := stepUntilIdle(t, g)

	if !sawBatch {
		t.Error("revert should play swap and revert batches")
	}
	if len(events) != 0 {
		t.Errorf("matchless swap surfaced %d events, want 0", len(events))
	}
	if g.session.Score() != 0 {
		t.Errorf("score = %d after revert, want 0", g.session.Score())
	}
	if !boardsEqual(before, g.session.Board()) {
		t.Error("board changed after a reverted swap")
	}
}

func TestBusyInputDropped(t *testing.T) {
	g, a, b := newSwapGame(t)

	g.Step(pointerFrame(pd(a.X, a.Y), pm(b.X, b.Y)))
	if !g.Step(core.NewInputFrame()).State.Busy {
		t.Fatal("state not busy right after dispatch")
	}

	g.Step(frame(core.ActionGrab))
	if g.grabbed {
		t.Error("grab accepted while a gesture resolves")
	}

	g.Step(pointerFrame(pd(a.X, a.Y)))
	if g.dragging {
		t.Error("pointer drag accepted while a gesture resolves")
	}

	stepUntilIdle(t, g)
}

func TestPointerConnectGesture(t *testing.T) {
	g, path := newConnectGame(t)

	g.Step(pointerFrame(pd(path[0].X, path[0].Y), pm(path[1].X, path[1].Y), pm(path[2].X, path[2].Y)))
	if len(g.path) != 3 {
		t.Fatalf("drawn path has %d cells, want 3", len(g.path))
	}
	g.Step(pointerFrame(pu(path[2].X, path[2].Y)))

	events, _ := stepUntilIdle(t, g)
	if len(events) == 0 {
		t.Fatal("connect gesture surfaced no events")
	}
	first := events[0].(core.ClearEvent)
	if first.Pass != 1 || first.Pieces != len(path) {
		t.Errorf("first event = %+v, want pass 1 clearing %d", first, len(path))
	}
	if g.session.Score() < len(path) {
		t.Errorf("score = %d, want at least %d", g.session.Score(), len(path))
	}
}

func TestConnectShortPathDropped(t *testing.T) {
	g, path := newConnectGame(t)
	before := g.session.Board()

	g.Step(pointerFrame(pd(path[0].X, path[0].Y), pm(path[1].X, path[1].Y), pu(path[1].X, path[1].Y)))

	if st := g.Step(core.NewInputFrame()).State; st.Busy {
		t.Error("two-cell scribble reached the session")
	}
	if g.session.Score() != 0 {
		t.Errorf("score = %d, want 0", g.session.Score())
	}
	if !boardsEqual(before, g.session.Board()) {
		t.Error("board changed without a gesture")
	}
}

func TestKeyboardConnectGesture(t *testing.T) {
	g, path := newConnectGame(t)
	g.cursor = path[0]

	g.Step(frame(core.ActionGrab))
	if !g.drawing {
		t.Fatal("grab did not start drawing")
	}
	g.Step(frame(dirAction(path[0], path[1])))
	g.Step(frame(dirAction(path[1], path[2])))
	if len(g.path) != 3 {
		t.Fatalf("drawn path has %d cells, want 3", len(g.path))
	}
	g.Step(frame(core.ActionConfirm))

	events, _ := stepUntilIdle(t, g)
	if len(events) == 0 {
		t.Error("keyboard connect surfaced no events")
	}
	if g.drawing || len(g.path) != 0 {
		t.Error("path state not cleared after submit")
	}
}

func TestTryExtendRules(t *testing.T) {
	g, path := newConnectGame(t)
	b := g.session.Board()

	g.drawing = true
	g.path = append(g.path[:0], path[0], path[1])

	if !g.tryExtend(path[0]) {
		t.Error("stepping back onto the previous cell should backtrack")
	}
	if len(g.path) != 1 {
		t.Fatalf("path after backtrack has %d cells, want 1", len(g.path))
	}

	far := engine.C((path[0].X+4)%b.Size(), (path[0].Y+4)%b.Size())
	if g.tryExtend(far) {
		t.Error("non-adjacent cell extended the path")
	}

	if g.tryExtend(path[0]) {
		t.Error("extending onto the path head must fail")
	}

	// Any adjacent pair of different colors rejects the extension.
	if a, c, ok := findDifferentColorNeighbors(b); ok {
		g.path = append(g.path[:0], a)
		if g.tryExtend(c) {
			t.Error("extension crossed a color boundary")
		}
	}

	g.path = g.path[:0]
	if g.tryExtend(path[0]) {
		t.Error("empty path cannot be extended")
	}
}

func findDifferentColorNeighbors(b *engine.Grid) (engine.Coord, engine.Coord, bool) {
	for y := 0; y < b.Size(); y++ {
		for x := 0; x < b.Size(); x++ {
			a := engine.C(x, y)
			c := engine.C(x+1, y)
			if b.InBounds(c) && !b.At(a).Empty() && !b.At(c).Empty() && b.At(a).Color != b.At(c).Color {
				return a, c, true
			}
		}
	}
	return engine.Coord{}, engine.Coord{}, false
}

func TestTapOnSpecialRoutesToActivation(t *testing.T) {
	g, _, _ := newSwapGame(t)
	c := engine.C(2, 2)

	// Mark the render snapshot as a bomb; the session still holds a
	// normal piece there, so the activation is rejected untouched.
	p := g.snapshot.At(c)
	g.snapshot.Set(c, engine.Piece{ID: p.ID, Color: p.Color, Kind: engine.KindBomb})
	before := g.session.Board()

	g.Step(pointerFrame(pd(c.X, c.Y), pu(c.X, c.Y)))
	if g.grabbed {
		t.Error("tap on a special grabbed it instead of activating")
	}

	events, sawBatch := stepUntilIdle(t, g)
	if sawBatch || len(events) != 0 {
		t.Error("rejected activation should play nothing")
	}
	if !boardsEqual(before, g.session.Board()) {
		t.Error("board changed after rejected activation")
	}
}

func TestRocketDragRoutesToActivation(t *testing.T) {
	g, _, _ := newSwapGame(t)
	a, b, ok := findNoMatchSwap(g.session.Board())
	if !ok {
		t.Skip("board offers no matchless swap")
	}

	p := g.snapshot.At(a)
	g.snapshot.Set(a, engine.Piece{ID: p.ID, Color: p.Color, Kind: engine.KindRocket})
	before := g.session.Board()

	g.Step(pointerFrame(pd(a.X, a.Y), pm(b.X, b.Y)))
	_, sawBatch := stepUntilIdle(t, g)

	// Had the drag routed to a swap, the swap and revert batches would
	// have played.
	if sawBatch {
		t.Error("rocket drag routed to a swap")
	}
	if g.session.Score() != 0 || !boardsEqual(before, g.session.Board()) {
		t.Error("rejected rocket launch altered the session")
	}
}

func TestPauseFreezesAnimation(t *testing.T) {
	g, a, b := newSwapGame(t)

	g.Step(pointerFrame(pd(a.X, a.Y), pm(b.X, b.Y)))
	for i := 0; i < 1000 && g.current == nil; i++ {
		g.Step(core.NewInputFrame())
		time.Sleep(200 * time.Microsecond)
	}
	if g.current == nil {
		t.Fatal("no batch arrived")
	}

	g.Step(frame(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("pause toggle ignored")
	}
	elapsed := g.layer.all[0].elapsed
	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}
	if got := g.layer.all[0].elapsed; got != elapsed {
		t.Errorf("animation advanced to %d while paused, want frozen at %d", got, elapsed)
	}
	if !g.session.Busy() {
		t.Error("session resolved while its presenter was paused")
	}

	g.Step(frame(core.ActionPause))
	stepUntilIdle(t, g)
}

func TestRestartRedeals(t *testing.T) {
	g, a, b := newSwapGame(t)

	g.Step(pointerFrame(pd(a.X, a.Y), pm(b.X, b.Y)))
	stepUntilIdle(t, g)
	if g.session.Score() == 0 {
		t.Fatal("setup swap did not score")
	}

	g.Step(frame(core.ActionRestart))
	if got := g.session.Score(); got != 0 {
		t.Errorf("score after restart = %d, want 0", got)
	}
	fresh := g.session.Board()
	if !fresh.Full() {
		t.Error("restart dealt a partial board")
	}
	if runs := engine.DetectRuns(fresh); len(runs) != 0 {
		t.Errorf("restart dealt %d runs, want 0", len(runs))
	}
	if !boardsEqual(fresh, g.snapshot) {
		t.Error("snapshot not refreshed on restart")
	}
}

func TestStepDeterminism(t *testing.T) {
	g1 := New()
	g2 := New()
	g1.Reset(testConfig(99))
	g2.Reset(testConfig(99))

	if !boardsEqual(g1.session.Board(), g2.session.Board()) {
		t.Fatal("same seed dealt different boards")
	}

	a, b, ok := findLegalSwap(g1.session.Board())
	if !ok {
		t.Skip("seed 99 dealt no legal swap")
	}

	for _, g := range []*Game{g1, g2} {
		g.Step(pointerFrame(pd(a.X, a.Y), pm(b.X, b.Y)))
		stepUntilIdle(t, g)
	}

	if g1.session.Score() != g2.session.Score() {
		t.Errorf("scores diverged: %d vs %d", g1.session.Score(), g2.session.Score())
	}
	if !boardsEqual(g1.session.Board(), g2.session.Board()) {
		t.Error("boards diverged for identical seed and gesture")
	}
}

func TestGridAtMapping(t *testing.T) {
	g := New()
	g.Reset(testConfig(5))

	ox := g.boardPX + 1
	oy := g.boardPY + 1

	cases := []struct {
		name   string
		sx, sy int
		gx, gy int
		ok     bool
	}{
		{"top left cell", ox, oy, 0, 0, true},
		{"cell (3,2)", ox + 3*cellW + 1, oy + 2*cellH, 3, 2, true},
		{"last cell", ox + 7*cellW + 2, oy + 7*cellH, 7, 7, true},
		{"left border", g.boardPX, oy, 0, 0, false},
		{"right border", ox + 8*cellW, oy, 0, 0, false},
		{"above board", ox, g.boardPY, 0, 0, false},
		{"origin", 0, 0, 0, 0, false},
	}
	for _, tc := range cases {
		gx, gy, ok := g.GridAt(tc.sx, tc.sy)
		if ok != tc.ok || (ok && (gx != tc.gx || gy != tc.gy)) {
			t.Errorf("%s: GridAt(%d,%d) = (%d,%d,%v), want (%d,%d,%v)",
				tc.name, tc.sx, tc.sy, gx, gy, ok, tc.gx, tc.gy, tc.ok)
		}
	}
}

func TestRenderBoard(t *testing.T) {
	g := New()
	g.Reset(testConfig(5))
	dst := core.NewScreen(80, 24)
	g.Render(dst)

	if got := dst.Get(g.boardPX, g.boardPY); got != '┌' {
		t.Errorf("board frame corner = %q, want ┌", got)
	}
	if got := dst.Get(g.boardPX+g.boardW-1, g.boardPY+g.boardH-1); got != '┘' {
		t.Errorf("board frame corner = %q, want ┘", got)
	}

	p := g.snapshot.At(engine.C(0, 0))
	px, py := g.cellOrigin(0, 0)
	if got, want := dst.Get(px+1, py), g.skin.Gem(uint8(p.Color)); got != want {
		t.Errorf("cell (0,0) glyph = %q, want %q", got, want)
	}

	cx, cy := g.cellOrigin(float64(g.cursor.X), float64(g.cursor.Y))
	if dst.Get(cx, cy) != '[' || dst.Get(cx+2, cy) != ']' {
		t.Error("cursor brackets missing")
	}

	if !strings.Contains(dst.Row(1), "Score: 0") {
		t.Errorf("HUD row = %q, want score line", dst.Row(1))
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 6, TickRate: 60, Seed: 5})

	if !g.State().Paused {
		t.Error("undersized screen should report paused")
	}

	dst := core.NewScreen(20, 6)
	g.Render(dst)
	if !strings.Contains(dst.String(), "Window too small") {
		t.Error("missing resize hint")
	}
}
