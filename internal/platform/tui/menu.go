package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/romakin/gemfall/internal/audio"
	"github.com/romakin/gemfall/internal/engine"
	"github.com/romakin/gemfall/internal/registry"
	"github.com/romakin/gemfall/internal/skins"
	"github.com/romakin/gemfall/internal/storage"
)

// MenuEntry identifies what a menu row opens.
type MenuEntry int

const (
	MenuEntryPlay MenuEntry = iota
	MenuEntryScoreboard
	MenuEntryShop
	MenuEntrySettings
	MenuEntryQuit
)

// MenuItem is one selectable menu row.
type MenuItem struct {
	Entry  MenuEntry
	GameID string // set for MenuEntryPlay
	Label  string
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	theme     Theme
	player    *audio.Player // optional, nil over SSH
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem
}

// NewMenuModel creates a menu listing the registered modes plus the
// scoreboard, shop, and settings screens.
func NewMenuModel(player *audio.Player, theme Theme, width, height int) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+4)

	// The classic mode leads, connect follows, anything else after.
	for _, id := range []string{"swap", "connect"} {
		for _, g := range games {
			if g.ID == id {
				items = append(items, MenuItem{Entry: MenuEntryPlay, GameID: g.ID, Label: "Play " + g.Title})
			}
		}
	}
	for _, g := range games {
		if g.ID == "swap" || g.ID == "connect" {
			continue
		}
		items = append(items, MenuItem{Entry: MenuEntryPlay, GameID: g.ID, Label: "Play " + g.Title})
	}

	items = append(items,
		MenuItem{Entry: MenuEntryScoreboard, Label: "Scoreboard"},
		MenuItem{Entry: MenuEntryShop, Label: "Skin Shop"},
		MenuItem{Entry: MenuEntrySettings, Label: "Settings"},
		MenuItem{Entry: MenuEntryQuit, Label: "Quit"},
	)

	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		theme:     theme,
		player:    player,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.blip()
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.blip()
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			if selected.Entry == MenuEntryQuit {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	return m, nil
}

func (m MenuModel) blip() {
	if m.player != nil {
		m.player.PlaySound(engine.SoundUI, 0.3)
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	accent := lipgloss.NewStyle().Foreground(m.theme.Accent)
	dim := lipgloss.NewStyle().Foreground(m.theme.Dim)

	var b strings.Builder

	title := "G E M F A L L"
	b.WriteString("\n")
	b.WriteString(accent.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	subtitle := "Match gems, feed the critter"
	b.WriteString(dim.Render(centerText(subtitle, m.width)))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := centerText("  "+item.Label, m.width)
		if i == m.cursor {
			line = accent.Render(centerText("> "+item.Label, m.width))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Q: Quit"
	b.WriteString(dim.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// SettingsModel is a small toggle menu for sound and theme.
type SettingsModel struct {
	store     *storage.Store // optional
	player    *audio.Player  // optional, nil hides the sound row
	theme     Theme
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	goingBack bool
	quitting  bool
}

// NewSettingsModel creates the settings screen.
func NewSettingsModel(store *storage.Store, player *audio.Player, theme Theme, width, height int) SettingsModel {
	return SettingsModel{
		store:     store,
		player:    player,
		theme:     theme,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// rows returns the settings rows in display order.
func (m SettingsModel) rows() []string {
	rows := make([]string, 0, 2)
	if m.player != nil {
		state := "Off"
		if m.player.Enabled() {
			state = "On"
		}
		rows = append(rows, "Sound: "+state)
	}
	rows = append(rows, "Theme: "+m.theme.ID)
	return rows
}

// Init initializes the settings model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the settings screen.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m SettingsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionBack:
		m.goingBack = true
		return m, nil

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		return m.toggle()
	}

	return m, nil
}

// toggle flips the setting under the cursor and persists it.
func (m SettingsModel) toggle() (tea.Model, tea.Cmd) {
	row := m.cursor
	if m.player != nil && row == 0 {
		on := !m.player.Enabled()
		m.player.SetEnabled(on)
		if m.store != nil {
			value := "off"
			if on {
				value = "on"
			}
			_ = m.store.SetSetting("sound", value) //nolint:errcheck // best effort, the toggle already applied
		}
		return m, nil
	}

	m.theme = NextTheme(m.theme.ID)
	if m.store != nil {
		_ = m.store.SetSetting("theme", m.theme.ID) //nolint:errcheck // best effort, the toggle already applied
	}
	return m, nil
}

// View renders the settings screen.
func (m SettingsModel) View() string {
	if m.quitting {
		return ""
	}

	accent := lipgloss.NewStyle().Foreground(m.theme.Accent)
	dim := lipgloss.NewStyle().Foreground(m.theme.Dim)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(accent.Render(centerText("S E T T I N G S", m.width)))
	b.WriteString("\n\n")

	for i, row := range m.rows() {
		line := centerText("  "+row, m.width)
		if i == m.cursor {
			line = accent.Render(centerText("> "+row, m.width))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Toggle  |  Esc: Back"
	b.WriteString(dim.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Theme returns the currently selected theme.
func (m SettingsModel) Theme() Theme {
	return m.theme
}

// IsGoingBack returns true if user requested to return to the menu.
func (m SettingsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user requested to quit.
func (m SettingsModel) IsQuitting() bool {
	return m.quitting
}

// Prefs holds the persisted user preferences loaded at startup.
type Prefs struct {
	Theme      Theme
	Sound      bool
	ActiveSkin string
	OwnedSkins []string
}

// LoadPrefs reads preferences from the store. A nil store or missing
// rows yield defaults: first theme, sound on, default skin, nothing owned.
func LoadPrefs(store *storage.Store) Prefs {
	prefs := Prefs{
		Theme:      DefaultTheme(),
		Sound:      true,
		ActiveSkin: skins.Default().ID,
	}
	if store == nil {
		return prefs
	}

	if id, err := store.GetSetting("theme"); err == nil && id != "" {
		if t, ok := ThemeByID(id); ok {
			prefs.Theme = t
		}
	}
	if v, err := store.GetSetting("sound"); err == nil && v == "off" {
		prefs.Sound = false
	}
	if id, err := store.GetSetting("skin.active"); err == nil && id != "" {
		prefs.ActiveSkin = id
	}
	if owned, err := store.OwnedSkins(); err == nil {
		prefs.OwnedSkins = owned
	}
	return prefs
}
