package game

import (
	"github.com/romakin/gemfall/internal/core"
	"github.com/romakin/gemfall/internal/engine"
)

// handleActions interprets the frame's semantic key actions.
func (g *Game) handleActions(in core.InputFrame) {
	if in.Has(core.ActionRestart) {
		g.restart()
	}
	if in.Has(core.ActionBack) {
		g.resetGestureState()
	}

	dir, hasDir := directionOf(in)

	switch g.variant {
	case VariantSwap:
		g.swapActions(in, dir, hasDir)
	case VariantConnect:
		g.connectActions(in, dir, hasDir)
	}
}

func directionOf(in core.InputFrame) (engine.Coord, bool) {
	switch {
	case in.Has(core.ActionUp):
		return engine.C(0, -1), true
	case in.Has(core.ActionDown):
		return engine.C(0, 1), true
	case in.Has(core.ActionLeft):
		return engine.C(-1, 0), true
	case in.Has(core.ActionRight):
		return engine.C(1, 0), true
	}
	return engine.Coord{}, false
}

// swapActions: grab picks the piece under the cursor, a direction key
// then swaps it with that neighbor. Activate detonates a special in
// place.
func (g *Game) swapActions(in core.InputFrame, dir engine.Coord, hasDir bool) {
	if in.Has(core.ActionActivate) {
		g.grabbed = false
		g.tryActivate(g.cursor, g.cursor)
		return
	}
	if in.Has(core.ActionGrab) {
		switch {
		case g.grabbed:
			g.grabbed = false
		case !g.busyShell() && !g.pieceAt(g.cursor).Empty():
			g.grabbed = true
			g.selected = g.cursor
		}
	}
	if !hasDir {
		return
	}
	if g.grabbed {
		target := engine.C(g.selected.X+dir.X, g.selected.Y+dir.Y)
		g.grabbed = false
		g.trySwap(g.selected, target)
		return
	}
	g.moveCursor(dir)
}

// connectActions: grab starts drawing a chain at the cursor, movement
// extends it cell by cell (stepping back pops), grab or confirm
// submits it.
func (g *Game) connectActions(in core.InputFrame, dir engine.Coord, hasDir bool) {
	if in.Has(core.ActionGrab) {
		switch {
		case g.drawing:
			g.submitPath()
		case !g.busyShell() && !g.pieceAt(g.cursor).Empty():
			g.drawing = true
			g.path = append(g.path[:0], g.cursor)
		}
	}
	if in.Has(core.ActionConfirm) && g.drawing {
		g.submitPath()
	}
	if !hasDir {
		return
	}
	if !g.drawing {
		g.moveCursor(dir)
		return
	}
	next := engine.C(g.cursor.X+dir.X, g.cursor.Y+dir.Y)
	if g.tryExtend(next) {
		g.cursor = next
	}
}

func (g *Game) moveCursor(dir engine.Coord) {
	nx := g.cursor.X + dir.X
	ny := g.cursor.Y + dir.Y
	if nx < 0 || nx >= g.rules.Size || ny < 0 || ny >= g.rules.Size {
		return
	}
	g.cursor = engine.C(nx, ny)
}

// handlePointer replays the frame's pointer samples in order. The
// platform has already translated them to board cells; samples off the
// board arrive with OnGrid false.
func (g *Game) handlePointer(events []core.PointerEvent) {
	for _, e := range events {
		switch g.variant {
		case VariantSwap:
			g.swapPointer(e)
		case VariantConnect:
			g.connectPointer(e)
		}
	}
}

// swapPointer: dragging one cell swaps (or launches a rocket toward
// the drag), a tap on a special detonates it in place, tapping two
// adjacent normal pieces swaps them.
func (g *Game) swapPointer(e core.PointerEvent) {
	switch e.Phase {
	case core.PointerDown:
		if !e.OnGrid || g.busyShell() {
			return
		}
		c := engine.C(e.X, e.Y)
		if g.pieceAt(c).Empty() {
			return
		}
		g.dragging = true
		g.dragFrom = c
		g.cursor = c

	case core.PointerMove:
		if !g.dragging || !e.OnGrid {
			return
		}
		c := engine.C(e.X, e.Y)
		if c == g.dragFrom || !g.dragFrom.Adjacent(c) {
			return
		}
		from := g.dragFrom
		g.dragging = false
		if g.pieceAt(from).Kind == engine.KindRocket {
			g.tryActivate(from, c)
			return
		}
		g.trySwap(from, c)

	case core.PointerUp:
		if !g.dragging {
			return
		}
		g.dragging = false
		if !e.OnGrid {
			return
		}
		c := engine.C(e.X, e.Y)
		if c != g.dragFrom {
			return
		}
		p := g.pieceAt(c)
		switch {
		case p.Special():
			g.grabbed = false
			g.tryActivate(c, c)
		case g.grabbed && g.selected == c:
			g.grabbed = false
		case g.grabbed && g.selected.Adjacent(c):
			g.grabbed = false
			g.trySwap(g.selected, c)
		default:
			g.grabbed = true
			g.selected = c
		}
	}
}

// connectPointer: press starts a chain, moving extends it, release
// submits it.
func (g *Game) connectPointer(e core.PointerEvent) {
	switch e.Phase {
	case core.PointerDown:
		if !e.OnGrid || g.busyShell() {
			return
		}
		c := engine.C(e.X, e.Y)
		if g.pieceAt(c).Empty() {
			return
		}
		g.drawing = true
		g.path = append(g.path[:0], c)
		g.cursor = c

	case core.PointerMove:
		if !g.drawing || !e.OnGrid {
			return
		}
		c := engine.C(e.X, e.Y)
		if g.tryExtend(c) {
			g.cursor = c
		}

	case core.PointerUp:
		if !g.drawing {
			return
		}
		if !e.OnGrid {
			g.drawing = false
			g.path = g.path[:0]
			return
		}
		g.submitPath()
	}
}

// tryExtend grows or backtracks the connect path toward c. Only chain
// continuations are accepted: an orthogonal step onto an unvisited
// piece of the chain's color, or the step back onto the previous cell.
func (g *Game) tryExtend(c engine.Coord) bool {
	n := len(g.path)
	if n == 0 {
		return false
	}
	last := g.path[n-1]
	if c == last {
		return false
	}
	if n >= 2 && c == g.path[n-2] {
		g.path = g.path[:n-1]
		return true
	}
	if !last.Adjacent(c) {
		return false
	}
	p := g.pieceAt(c)
	if p.Empty() || p.Color != g.pieceAt(g.path[0]).Color {
		return false
	}
	for _, v := range g.path {
		if v == c {
			return false
		}
	}
	g.path = append(g.path, c)
	return true
}

// submitPath hands the drawn chain to the session. Short scribbles are
// dropped with a buzz instead of a round trip.
func (g *Game) submitPath() {
	path := make([]engine.Coord, len(g.path))
	copy(path, g.path)
	g.drawing = false
	g.path = g.path[:0]

	if len(path) < engine.MinRunLength {
		if len(path) > 1 {
			audioSink.PlaySound(engine.SoundBad, 0.3)
		}
		return
	}
	g.dispatch(func() error { return g.session.ClearConnected(path) })
}

func (g *Game) trySwap(a, b engine.Coord) {
	g.dispatch(func() error { return g.session.AttemptSwap(a, b) })
}

func (g *Game) tryActivate(origin, center engine.Coord) {
	g.dispatch(func() error { return g.session.ActivateSpecial(origin, center) })
}
