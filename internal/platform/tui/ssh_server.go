package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/romakin/gemfall/internal/audio"
	"github.com/romakin/gemfall/internal/config"
	"github.com/romakin/gemfall/internal/core"
	"github.com/romakin/gemfall/internal/meter"
	"github.com/romakin/gemfall/internal/registry"
	"github.com/romakin/gemfall/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.gemfall/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.gemfall/gemfall.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server serving GemFall sessions.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	meterCfg config.MeterConfig
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gemfall-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	// Meter pacing comes from the shared config file; defaults apply
	// when there is none.
	meterCfg := config.DefaultConfig().Meter
	if fileCfg, cfgErr := config.Load(""); cfgErr == nil {
		meterCfg = fileCfg.Meter
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		meterCfg: meterCfg,
		logger:   logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".gemfall", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	prefs := LoadPrefs(s.store)
	cfg.Skin = prefs.ActiveSkin

	// Each session gets its own meter; all of them share the store.
	var saver meter.SkinSaver
	if s.store != nil {
		saver = s.store
	}
	gems := meter.New(s.meterCfg, saver, prefs.OwnedSkins, prefs.ActiveSkin)
	gems.Start()
	go func() {
		<-sshSession.Context().Done()
		gems.Stop()
	}()

	// No audio player over SSH: the speaker would play on the server host.
	model := NewSessionModel(s.store, gems, nil, prefs.Theme, cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen identifies which screen a session is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScoreboard
	screenShop
	screenSettings
)

// SessionModel manages the full session flow: menu, game, scoreboard,
// shop, and settings. This is the top-level model for SSH sessions and
// for running gemfall without arguments.
type SessionModel struct {
	store  *storage.Store
	gems   *meter.Meter
	player *audio.Player // nil over SSH
	config core.RuntimeConfig
	theme  Theme

	screen     sessionScreen
	menu       MenuModel
	game       Model
	scoreboard ScoreboardModel
	shop       ShopModel
	settings   SettingsModel
	quitting   bool
}

// NewSessionModel creates a new session model starting at the menu.
func NewSessionModel(store *storage.Store, gems *meter.Meter, player *audio.Player, theme Theme, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		store:  store,
		gems:   gems,
		player: player,
		config: cfg,
		theme:  theme,
		menu:   NewMenuModel(player, theme, cfg.ScreenW, cfg.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size for screens created later
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	case screenShop:
		return m.updateShop(msg)
	case screenSettings:
		return m.updateSettings(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates while the menu is showing.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	switch selected.Entry {
	case MenuEntryPlay:
		game, err := registry.Create(selected.GameID)
		if err != nil {
			// Menu only lists registered modes
			return m, nil
		}
		cfg := m.config
		cfg.Seed = time.Now().UnixNano()
		if m.gems != nil {
			cfg.Skin = m.gems.ActiveSkin().ID
		}
		m.game = NewModel(game, m.store, m.gems, cfg)
		m.screen = screenGame
		return m, m.game.Init()

	case MenuEntryScoreboard:
		m.scoreboard = NewScoreboardModel(m.store, m.theme, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()

	case MenuEntryShop:
		if m.gems == nil {
			return m.returnToMenu()
		}
		m.shop = NewShopModel(m.gems, m.player, m.theme, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenShop
		return m, m.shop.Init()

	case MenuEntrySettings:
		m.settings = NewSettingsModel(m.store, m.player, m.theme, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenSettings
		return m, m.settings.Init()
	}

	return m, cmd
}

// updateGame handles updates while a game is running.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		return m.returnToMenu()
	}

	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.returnToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateShop(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.shop.Update(msg)
	if shop, ok := newModel.(ShopModel); ok {
		m.shop = shop
	}

	if m.shop.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.shop.IsGoingBack() {
		return m.returnToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.settings.Update(msg)
	if settings, ok := newModel.(SettingsModel); ok {
		m.settings = settings
	}

	// Theme changes apply immediately
	m.theme = m.settings.Theme()

	if m.settings.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.settings.IsGoingBack() {
		return m.returnToMenu()
	}
	return m, cmd
}

// returnToMenu rebuilds the menu with the current size and theme.
func (m SessionModel) returnToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.player, m.theme, m.config.ScreenW, m.config.ScreenH)
	m.screen = screenMenu
	return m, nil
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.scoreboard.View()
	case screenShop:
		return m.shop.View()
	case screenSettings:
		return m.settings.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the full menu and game flow in the local terminal.
func RunSession(store *storage.Store, gems *meter.Meter, player *audio.Player, theme Theme, cfg core.RuntimeConfig) error {
	model := NewSessionModel(store, gems, player, theme, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
