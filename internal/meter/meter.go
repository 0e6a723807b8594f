// Package meter keeps the running-animal score meter and sells skins
// from it. It mirrors the engine's score deltas into a point pot and
// maps the pot to the runner's pace; a purchase consumes the whole pot
// and zeroes the engine score with it.
package meter

import (
	"math"
	"sync"

	"github.com/romakin/gemfall/internal/config"
	"github.com/romakin/gemfall/internal/skins"
)

// ScoreResetter zeroes a game's score after a purchase consumed it.
// Satisfied by *engine.Session.
type ScoreResetter interface {
	ResetScore()
}

// SkinSaver persists purchases. This mirrors the storage.Store subset
// the meter needs so it never depends on the storage package directly.
type SkinSaver interface {
	SaveSkin(id string) error
	SetSetting(key, value string) error
}

// Meter is a channel-driven actor: game and shop Send it messages, it
// publishes purchase results on Events. Pace and Total are safe to read
// from any goroutine, the HUD polls them every tick.
type Meter struct {
	cfg   config.MeterConfig
	store SkinSaver // optional, can be nil

	mu      sync.RWMutex
	total   int
	owned   map[string]bool
	active  string
	session ScoreResetter // optional, can be nil

	msgChan chan Msg
	events  chan Event
	done    chan struct{}
}

// New creates a meter. owned lists the skin ids already purchased; the
// default skin is always owned. store may be nil for storage-less play.
func New(cfg config.MeterConfig, store SkinSaver, owned []string, active string) *Meter {
	m := &Meter{
		cfg:     cfg,
		store:   store,
		owned:   make(map[string]bool, len(owned)+1),
		msgChan: make(chan Msg, 64),
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
	}
	m.owned[skins.Default().ID] = true
	for _, id := range owned {
		m.owned[id] = true
	}
	if _, ok := skins.ByID(active); ok && m.owned[active] {
		m.active = active
	} else {
		m.active = skins.Default().ID
	}
	return m
}

// SetSession attaches the game whose score a purchase consumes.
func (m *Meter) SetSession(s ScoreResetter) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// Start begins the meter's background processing.
func (m *Meter) Start() {
	go m.processMessages()
}

// Stop shuts down the meter.
func (m *Meter) Stop() {
	close(m.done)
}

// Send sends a message to the meter for async processing.
func (m *Meter) Send(msg Msg) {
	select {
	case m.msgChan <- msg:
	case <-m.done:
	}
}

// AddScore implements the engine's score sink by forwarding the delta
// to the actor, so a session can be wired straight to the meter.
func (m *Meter) AddScore(delta int) {
	m.Send(ScoreDeltaMsg{Delta: delta})
}

// Events returns the channel purchase results are published on.
func (m *Meter) Events() <-chan Event {
	return m.events
}

// Total returns the mirrored point pot.
func (m *Meter) Total() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// Pace maps the pot to the runner's pace in cells per second:
// min + (max-min) * (1 - e^(-total/scale)). Monotone and bounded, so
// the runner always moves and never outruns the track.
func (m *Meter) Pace() float64 {
	m.mu.RLock()
	total := m.total
	m.mu.RUnlock()
	span := m.cfg.MaxPace - m.cfg.MinPace
	return m.cfg.MinPace + span*(1-math.Exp(-float64(total)/m.cfg.Scale))
}

// Owned reports whether a skin has been purchased.
func (m *Meter) Owned(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.owned[id]
}

// ActiveSkin returns the currently selected skin.
func (m *Meter) ActiveSkin() skins.Skin {
	m.mu.RLock()
	id := m.active
	m.mu.RUnlock()
	if s, ok := skins.ByID(id); ok {
		return s
	}
	return skins.Default()
}

// processMessages handles incoming messages.
func (m *Meter) processMessages() {
	for {
		select {
		case msg := <-m.msgChan:
			m.handleMessage(msg)
		case <-m.done:
			return
		}
	}
}

func (m *Meter) handleMessage(msg Msg) {
	switch v := msg.(type) {
	case ScoreDeltaMsg:
		if v.Delta > 0 {
			m.mu.Lock()
			m.total += v.Delta
			m.mu.Unlock()
		}
	case PurchaseMsg:
		m.handlePurchase(v)
	case SelectMsg:
		m.handleSelect(v)
	case ResetMsg:
		m.mu.Lock()
		m.total = 0
		m.mu.Unlock()
	}
}

func (m *Meter) handleSelect(msg SelectMsg) {
	if _, ok := skins.ByID(msg.SkinID); !ok {
		return
	}
	m.mu.Lock()
	owned := m.owned[msg.SkinID]
	if owned {
		m.active = msg.SkinID
	}
	m.mu.Unlock()
	if owned && m.store != nil {
		_ = m.store.SetSetting("skin.active", msg.SkinID) //nolint:errcheck // best effort, selection also lives in memory
	}
}

func (m *Meter) handlePurchase(msg PurchaseMsg) {
	skin, ok := skins.ByID(msg.SkinID)
	if !ok {
		m.publish(PurchaseFailedEvent{SkinID: msg.SkinID, Reason: "unknown skin", Balance: m.Total()})
		return
	}

	m.mu.Lock()
	if m.owned[skin.ID] {
		balance := m.total
		m.mu.Unlock()
		m.publish(PurchaseFailedEvent{SkinID: skin.ID, Reason: "already owned", Balance: balance})
		return
	}
	if m.total < skin.Price {
		balance := m.total
		m.mu.Unlock()
		m.publish(PurchaseFailedEvent{SkinID: skin.ID, Reason: "not enough points", Balance: balance})
		return
	}
	m.mu.Unlock()

	// Persist before spending the pot: a failed save must not eat the
	// player's points.
	if m.store != nil {
		if err := m.store.SaveSkin(skin.ID); err != nil {
			m.publish(PurchaseFailedEvent{SkinID: skin.ID, Reason: "could not save purchase", Balance: m.Total()})
			return
		}
		_ = m.store.SetSetting("skin.active", skin.ID) //nolint:errcheck // best effort, ownership is already saved
	}

	m.mu.Lock()
	m.owned[skin.ID] = true
	m.active = skin.ID
	m.total = 0
	session := m.session
	m.mu.Unlock()

	if session != nil {
		session.ResetScore()
	}
	m.publish(PurchaseDoneEvent{Skin: skin, Balance: 0})
}

// publish delivers an event without ever blocking the actor; a slow
// listener just misses it.
func (m *Meter) publish(e Event) {
	select {
	case m.events <- e:
	default:
	}
}
