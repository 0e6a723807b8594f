// Package skins holds the piece glyph catalogs. A skin only changes
// how pieces look; colors, rules and scoring are untouched. Ownership
// and the active choice are persisted by the storage package, priced
// and sold by the meter.
package skins

import "github.com/romakin/gemfall/internal/core"

// MaxColors is the largest palette a skin must cover.
const MaxColors = 8

// Skin maps palette indices and special kinds to glyphs.
type Skin struct {
	ID    string
	Name  string
	Price int // meter points; 0 means owned from the start

	Gems   [MaxColors]rune
	Rocket rune
	Bomb   rune
}

// Gem returns the glyph for a palette index, clamping indices beyond
// the catalog to the last glyph rather than panicking on odd configs.
func (s Skin) Gem(color uint8) rune {
	if int(color) >= MaxColors {
		color = MaxColors - 1
	}
	return s.Gems[color]
}

// palette maps palette indices to terminal colors. Shared by every
// skin so recoloring stays a theme concern, not a skin concern.
var palette = [MaxColors]core.Color{
	core.ColorRed,
	core.ColorYellow,
	core.ColorGreen,
	core.ColorCyan,
	core.ColorBlue,
	core.ColorMagenta,
	core.ColorOrange,
	core.ColorBrightWhite,
}

// ColorFor returns the terminal color for a palette index.
func ColorFor(color uint8) core.Color {
	if int(color) >= MaxColors {
		color = MaxColors - 1
	}
	return palette[color]
}

// catalog is the ordered shop listing, cheapest first. The first entry
// is the default skin and is always owned.
var catalog = []Skin{
	{
		ID:     "classic",
		Name:   "Classic Gems",
		Price:  0,
		Gems:   [MaxColors]rune{'●', '◆', '▲', '■', '♥', '★', '◉', '✦'},
		Rocket: '✚',
		Bomb:   '◎',
	},
	{
		ID:     "retro",
		Name:   "Retro Terminal",
		Price:  150,
		Gems:   [MaxColors]rune{'O', 'X', '#', '%', '&', '@', '+', '*'},
		Rocket: '!',
		Bomb:   'Q',
	},
	{
		ID:     "runes",
		Name:   "Elder Runes",
		Price:  300,
		Gems:   [MaxColors]rune{'ᚠ', 'ᚢ', 'ᚦ', 'ᚨ', 'ᚱ', 'ᚲ', 'ᚷ', 'ᚹ'},
		Rocket: 'ᛉ',
		Bomb:   'ᛟ',
	},
	{
		ID:     "dice",
		Name:   "Tumbling Dice",
		Price:  500,
		Gems:   [MaxColors]rune{'⚀', '⚁', '⚂', '⚃', '⚄', '⚅', '⊡', '⊞'},
		Rocket: '⤊',
		Bomb:   '⊛',
	},
	{
		ID:     "shade",
		Name:   "Shades",
		Price:  800,
		Gems:   [MaxColors]rune{'█', '▓', '▒', '░', '▞', '▚', '▛', '▟'},
		Rocket: '▲',
		Bomb:   '◙',
	},
}

// All returns the catalog in shop order.
func All() []Skin {
	out := make([]Skin, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks a skin up by its id.
func ByID(id string) (Skin, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Skin{}, false
}

// Default returns the skin everyone starts with.
func Default() Skin {
	return catalog[0]
}
