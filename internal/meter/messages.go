package meter

import "github.com/romakin/gemfall/internal/skins"

// Msg represents a message from the game or the shop to the meter.
type Msg interface {
	meterMessage()
}

// ScoreDeltaMsg credits the points of one resolution pass.
type ScoreDeltaMsg struct {
	Delta int
}

func (ScoreDeltaMsg) meterMessage() {}

// PurchaseMsg requests buying a skin with the accumulated points.
type PurchaseMsg struct {
	SkinID string
}

func (PurchaseMsg) meterMessage() {}

// SelectMsg activates an already-owned skin.
type SelectMsg struct {
	SkinID string
}

func (SelectMsg) meterMessage() {}

// ResetMsg zeroes the mirrored total, used when a game restarts.
type ResetMsg struct{}

func (ResetMsg) meterMessage() {}

// Event represents an event published by the meter to its listener.
type Event interface {
	meterEvent()
}

// PurchaseDoneEvent is published when a purchase went through.
type PurchaseDoneEvent struct {
	Skin    skins.Skin
	Balance int // always 0: a purchase consumes the pot
}

func (PurchaseDoneEvent) meterEvent() {}

// PurchaseFailedEvent is published when a purchase was rejected.
type PurchaseFailedEvent struct {
	SkinID  string
	Reason  string
	Balance int
}

func (PurchaseFailedEvent) meterEvent() {}
