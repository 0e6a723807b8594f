package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/romakin/gemfall/internal/core"
	"github.com/romakin/gemfall/internal/meter"
	"github.com/romakin/gemfall/internal/registry"
	"github.com/romakin/gemfall/internal/storage"
)

// Model is the Bubble Tea model for running a GemFall mode.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	meter      *meter.Meter
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState

	// Per-run bookkeeping for the games table.
	pieces    int
	maxChain  int
	startedAt time.Time
	recorded  bool

	runnerX float64 // meter critter position along the bottom track

	standalone bool // true when launched via `gemfall play`, quits instead of returning to a menu
	backToMenu bool
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given mode.
// store and gems may be nil; play degrades to memory-only.
func NewModel(game registry.Game, store *storage.Store, gems *meter.Meter, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if gems != nil {
		// A purchase consumes the running score together with the pot.
		if s, ok := game.(meter.ScoreResetter); ok {
			gems.SetSession(s)
		}
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		meter:      gems,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		startedAt:  time.Now(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	// Initialize the game
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// BackToMenu reports whether the player left the game back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the player quit the program entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		// Hard quit from anywhere, still banking the run.
		m.recordRun()
		m.quitting = true
		return m, tea.Quit
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		return m.leave()
	}

	// While paused, Back leaves a session game to the menu.
	if !m.standalone && m.gameState.Paused && m.keyMapper.MapKeyToMenuAction(msg) == MenuActionBack {
		return m.leave()
	}

	return m, nil
}

// leave ends the run: standalone play quits the program, a session
// returns to the menu.
func (m Model) leave() (tea.Model, tea.Cmd) {
	m.recordRun()
	m.inputFrame.Clear()
	if m.standalone {
		m.quitting = true
		return m, tea.Quit
	}
	m.backToMenu = true
	return m, nil
}

// handleMouse converts mouse input to pointer events for the game.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	var phase core.PointerPhase
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		phase = core.PointerDown
	case tea.MouseActionMotion:
		phase = core.PointerMove
	case tea.MouseActionRelease:
		phase = core.PointerUp
	default:
		return m, nil
	}

	gx, gy, ok := m.game.GridAt(msg.X, msg.Y)
	m.inputFrame.AddPointer(core.PointerEvent{Phase: phase, X: gx, Y: gy, OnGrid: ok})
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// The board layout depends on the screen size, so a resize redeals.
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.resetRun()

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// A restart may apply on this very tick, with the old run's last
	// clears arriving in the same result. Remember what we knew before
	// stepping so the bank total comes out right.
	restart := m.inputFrame.Has(core.ActionRestart)
	prev := m.gameState

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	tickScore := 0
	for _, ev := range result.Events {
		ce, ok := ev.(core.ClearEvent)
		if !ok {
			continue
		}
		m.pieces += ce.Pieces
		if ce.Pass > m.maxChain {
			m.maxChain = ce.Pass
		}
		tickScore += ce.Pieces
		if m.meter != nil {
			m.meter.AddScore(ce.Pieces)
		}
	}

	// Restart went through once the board is idle at score zero.
	if restart && !m.gameState.Busy && m.gameState.Score == 0 {
		if total := prev.Score + tickScore; total > 0 {
			m.bankRun(total)
		}
		m.resetRun()
	}

	if m.meter != nil && !m.gameState.Paused {
		m.runnerX += m.meter.Pace() / float64(m.config.TickRate)
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// recordRun banks the current run exactly once. Used when the player
// leaves mid-run; restarts bank through handleTick instead.
func (m *Model) recordRun() {
	if m.recorded {
		return
	}
	m.recorded = true
	if m.gameState.Score > 0 {
		m.bankRun(m.gameState.Score)
	}
}

// bankRun writes a finished run to the scores and games tables.
func (m *Model) bankRun(score int) {
	if m.store == nil {
		return
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveScore(m.game.ID(), score)
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveGame(storage.GameRecord{
		Mode:          m.game.ID(),
		Score:         score,
		PiecesCleared: m.pieces,
		MaxChain:      m.maxChain,
		Duration:      int(time.Since(m.startedAt).Seconds()),
	})
}

// resetRun zeroes the per-run bookkeeping for a fresh board.
func (m *Model) resetRun() {
	m.pieces = 0
	m.maxChain = 0
	m.startedAt = time.Now()
	m.recorded = false
	if m.meter != nil {
		m.meter.Send(meter.ResetMsg{})
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".gemfall", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// drawRunner draws the gem meter along the bottom row: the pot total,
// a dotted track and the critter running it. The meter maps the pot to
// its pace, so scoring speeds the critter up.
func (m *Model) drawRunner(s *core.Screen) {
	y := s.Height() - 1
	if y < 0 {
		return
	}

	label := fmt.Sprintf(" Gems %d ", m.meter.Total())
	s.DrawTextColored(0, y, label, core.ColorBrightYellow)

	start := len(label) + 1
	end := s.Width() - 2
	if end <= start {
		return
	}
	for x := start; x <= end; x++ {
		s.SetColored(x, y, '·', core.ColorGray)
	}

	span := end - start + 1
	rx := start + int(m.runnerX)%span
	s.SetColored(rx, y, '@', core.ColorBrightGreen)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	if m.meter != nil {
		m.drawRunner(m.screen)
	}

	// Convert screen to string
	return RenderScreen(m.screen)
}

// Run starts a standalone Bubble Tea program for one mode.
func Run(game registry.Game, store *storage.Store, gems *meter.Meter, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, gems, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse drags drive swap and connect gestures
	)

	_, err := p.Run()
	return err
}
