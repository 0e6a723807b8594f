package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/romakin/gemfall/internal/audio"
	"github.com/romakin/gemfall/internal/engine"
	"github.com/romakin/gemfall/internal/meter"
	"github.com/romakin/gemfall/internal/skins"
)

// meterEventMsg wraps a meter event for the Bubble Tea loop.
type meterEventMsg struct {
	event meter.Event
}

// waitForMeterEvent blocks until the meter answers a purchase. The
// timeout covers a meter that was stopped underneath us.
func waitForMeterEvent(m *meter.Meter) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-m.Events():
			return meterEventMsg{event: e}
		case <-time.After(2 * time.Second):
			return nil
		}
	}
}

// ShopModel is the skin shop screen. Selecting an owned skin equips
// it, selecting an unowned one asks the meter to buy it with the pot.
type ShopModel struct {
	meter     *meter.Meter
	player    *audio.Player // optional, nil over SSH
	theme     Theme
	skins     []skins.Skin
	cursor    int
	active    string // local mirror of the equipped skin id
	status    string
	width     int
	height    int
	keyMapper *KeyMapper
	goingBack bool
	quitting  bool
}

// NewShopModel creates the shop screen. The meter must not be nil.
func NewShopModel(gems *meter.Meter, player *audio.Player, theme Theme, width, height int) ShopModel {
	return ShopModel{
		meter:     gems,
		player:    player,
		theme:     theme,
		skins:     skins.All(),
		active:    gems.ActiveSkin().ID,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the shop model.
func (m ShopModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the shop.
func (m ShopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case meterEventMsg:
		return m.handleMeterEvent(msg.event)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m ShopModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
			m.blip()
		}

	case MenuActionDown:
		if m.cursor < len(m.skins)-1 {
			m.cursor++
			m.blip()
		}

	case MenuActionSelect:
		return m.buyOrEquip()
	}

	return m, nil
}

// buyOrEquip acts on the skin under the cursor. Owned skins equip
// immediately; unowned ones go through the meter, which answers on its
// event channel.
func (m ShopModel) buyOrEquip() (tea.Model, tea.Cmd) {
	if len(m.skins) == 0 {
		return m, nil
	}
	chosen := m.skins[m.cursor]

	if m.meter.Owned(chosen.ID) {
		m.meter.Send(meter.SelectMsg{SkinID: chosen.ID})
		m.active = chosen.ID
		m.status = "Equipped " + chosen.Name
		m.blip()
		return m, nil
	}

	m.meter.Send(meter.PurchaseMsg{SkinID: chosen.ID})
	m.status = "Buying " + chosen.Name + "..."
	return m, waitForMeterEvent(m.meter)
}

func (m ShopModel) handleMeterEvent(e meter.Event) (tea.Model, tea.Cmd) {
	switch e := e.(type) {
	case meter.PurchaseDoneEvent:
		m.active = e.Skin.ID
		m.status = "Purchased " + e.Skin.Name + "! The pot is spent."
		if m.player != nil {
			m.player.PlaySound(engine.SoundMatch, 0.6)
		}
	case meter.PurchaseFailedEvent:
		m.status = fmt.Sprintf("Cannot buy: %s (balance %d)", e.Reason, e.Balance)
		if m.player != nil {
			m.player.PlaySound(engine.SoundBad, 0.4)
		}
	}
	return m, nil
}

func (m ShopModel) blip() {
	if m.player != nil {
		m.player.PlaySound(engine.SoundUI, 0.3)
	}
}

// gemPreview shows the first few gem glyphs of a skin.
func gemPreview(s skins.Skin) string {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		if i > 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(s.Gems[i])
	}
	return b.String()
}

// View renders the shop.
func (m ShopModel) View() string {
	if m.quitting {
		return ""
	}

	accent := lipgloss.NewStyle().Foreground(m.theme.Accent)
	highlight := lipgloss.NewStyle().Foreground(m.theme.Highlight)
	dim := lipgloss.NewStyle().Foreground(m.theme.Dim)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(accent.Render(centerText("S K I N   S H O P", m.width)))
	b.WriteString("\n\n")

	b.WriteString(highlight.Render(centerText(fmt.Sprintf("Balance: %d gems", m.meter.Total()), m.width)))
	b.WriteString("\n\n")

	for i, s := range m.skins {
		badge := fmt.Sprintf("%d gems", s.Price)
		switch {
		case s.ID == m.active:
			badge = "ACTIVE"
		case m.meter.Owned(s.ID):
			badge = "OWNED"
		}

		row := fmt.Sprintf("%s  %-10s %s", gemPreview(s), s.Name, badge)
		line := centerText("  "+row, m.width)
		if i == m.cursor {
			line = accent.Render(centerText("> "+row, m.width))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(highlight.Render(centerText(m.status, m.width)))
		b.WriteString("\n\n")
	}

	controls := "Up/Down: Navigate  |  Enter: Buy or Equip  |  Esc: Back"
	b.WriteString(dim.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// IsGoingBack returns true if user requested to return to the menu.
func (m ShopModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user requested to quit.
func (m ShopModel) IsQuitting() bool {
	return m.quitting
}
