package game

import (
	"fmt"
	"math"

	"github.com/romakin/gemfall/internal/core"
	"github.com/romakin/gemfall/internal/engine"
	"github.com/romakin/gemfall/internal/skins"
)

const (
	cellW     = 3 // glyph plus one space of padding each side
	cellH     = 1
	hudHeight = 3
)

// layout recomputes board placement for the current screen size.
func (g *Game) layout() {
	size := g.rules.Size
	g.boardW = size*cellW + 2
	g.boardH = size*cellH + 2
	g.tooSmall = g.screenW < g.boardW || g.screenH < g.boardH+hudHeight
	g.boardPX = (g.screenW - g.boardW) / 2
	g.boardPY = hudHeight + (g.screenH-hudHeight-g.boardH)/2
	if g.boardPY < hudHeight {
		g.boardPY = hudHeight
	}
}

// GridAt maps a screen position to a board cell for mouse input.
func (g *Game) GridAt(screenX, screenY int) (int, int, bool) {
	ox := g.boardPX + 1
	oy := g.boardPY + 1
	if g.rules.Size == 0 || screenX < ox || screenY < oy {
		return 0, 0, false
	}
	gx := (screenX - ox) / cellW
	gy := (screenY - oy) / cellH
	if gx >= g.rules.Size || gy >= g.rules.Size {
		return 0, 0, false
	}
	return gx, gy, true
}

// cellOrigin returns the screen position of a cell's left edge.
func (g *Game) cellOrigin(x, y float64) (int, int) {
	px := g.boardPX + 1 + int(math.Round(x*cellW))
	py := g.boardPY + 1 + int(math.Round(y*cellH))
	return px, py
}

// Render draws the HUD, the board frame and every piece at its live
// transform.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)
	g.renderBoard(dst)

	if g.paused {
		g.renderOverlay(dst, "PAUSED", "Press P to resume")
	}
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	msg := "Window too small"
	dst.DrawText((g.screenW-len(msg))/2, g.screenH/2, msg)
	hint := "Please resize terminal"
	dst.DrawText((g.screenW-len(hint))/2, g.screenH/2+1, hint)
}

func (g *Game) renderHUD(dst *core.Screen) {
	title := g.Title()
	dst.DrawText(g.boardPX+(g.boardW-len(title))/2, 0, title)

	dst.DrawText(g.boardPX, 1, fmt.Sprintf("Score: %d", g.session.Score()))

	status := ""
	switch {
	case g.drawing:
		status = fmt.Sprintf("chain %d", len(g.path))
	case g.grabbed:
		status = "grabbed"
	case g.busyShell():
		status = "resolving"
	}
	if status != "" {
		x := g.boardPX + g.boardW - len(status)
		if x < g.boardPX {
			x = g.boardPX
		}
		dst.DrawTextColored(x, 1, status, core.ColorGray)
	}

	dst.DrawTextCentered(2, g.Controls())
}

// Controls returns the control hints for the active variant.
func (g *Game) Controls() string {
	if g.variant == VariantConnect {
		return "Arrows: Move | Space: Draw | Enter: Clear | R: Restart | Q: Quit"
	}
	return "Arrows: Move | Space: Grab | X: Detonate | R: Restart | Q: Quit"
}

func (g *Game) renderBoard(dst *core.Screen) {
	dst.DrawBox(core.Rect{X: g.boardPX, Y: g.boardPY, W: g.boardW, H: g.boardH})

	if g.snapshot == nil {
		return
	}

	for y := 0; y < g.snapshot.Size(); y++ {
		for x := 0; x < g.snapshot.Size(); x++ {
			c := engine.C(x, y)
			p := g.snapshot.At(c)
			if p.Empty() {
				continue
			}
			tr, ok := g.layer.at(p.ID)
			if !ok {
				tr = engine.Resting(c)
			}
			if tr.Opacity < 0.15 {
				continue
			}
			px, py := g.cellOrigin(tr.X, tr.Y)
			if py <= g.boardPY {
				continue // still above the frame, falling in
			}
			dst.SetColored(px+1, py, g.glyphFor(p), g.colorFor(p, tr))
		}
	}

	g.renderMarkers(dst)
}

func (g *Game) glyphFor(p engine.Piece) rune {
	switch p.Kind {
	case engine.KindRocket:
		return g.skin.Rocket
	case engine.KindBomb:
		return g.skin.Bomb
	default:
		return g.skin.Gem(uint8(p.Color))
	}
}

// colorFor picks the piece's palette color, dimming fades and
// flashing pop overshoots.
func (g *Game) colorFor(p engine.Piece, tr engine.Transform) core.Color {
	if tr.Scale > 1.02 {
		return core.ColorBrightWhite
	}
	if tr.Opacity < 0.55 {
		return core.ColorGray
	}
	return skins.ColorFor(uint8(p.Color))
}

// renderMarkers draws the connect chain, the grabbed cell and the
// cursor, in that order so the cursor stays on top.
func (g *Game) renderMarkers(dst *core.Screen) {
	for _, c := range g.path {
		px, py := g.cellOrigin(float64(c.X), float64(c.Y))
		dst.SetColored(px, py, '(', core.ColorBrightYellow)
		dst.SetColored(px+2, py, ')', core.ColorBrightYellow)
	}

	if g.grabbed {
		px, py := g.cellOrigin(float64(g.selected.X), float64(g.selected.Y))
		dst.SetColored(px, py, '(', core.ColorBrightCyan)
		dst.SetColored(px+2, py, ')', core.ColorBrightCyan)
	}

	px, py := g.cellOrigin(float64(g.cursor.X), float64(g.cursor.Y))
	dst.SetColored(px, py, '[', core.ColorBrightWhite)
	dst.SetColored(px+2, py, ']', core.ColorBrightWhite)
}

// renderOverlay draws a centered boxed message over the board.
func (g *Game) renderOverlay(dst *core.Screen, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := g.boardPX + g.boardW/2 - boxW/2
	boxY := g.boardPY + g.boardH/2 - boxH/2

	dst.DrawRect(core.Rect{X: boxX, Y: boxY, W: boxW, H: boxH}, ' ')
	dst.DrawBox(core.Rect{X: boxX, Y: boxY, W: boxW, H: boxH})

	for i, line := range lines {
		dst.DrawText(boxX+(boxW-len(line))/2, boxY+1+i, line)
	}
}
