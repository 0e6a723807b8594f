// Package config provides YAML-based rules loading and difficulty
// presets for the gemfall variants.
package config

import "fmt"

// Config is the full rules file: board geometry, special-piece
// thresholds, animation duration hints and the score meter curve.
type Config struct {
	Board     BoardConfig     `yaml:"board"`
	Animation AnimationConfig `yaml:"animation"`
	Meter     MeterConfig     `yaml:"meter"`
}

// BoardConfig defines the board and the special-piece thresholds.
type BoardConfig struct {
	Size       int `yaml:"size"`        // board is Size x Size
	Colors     int `yaml:"colors"`      // palette size pieces are drawn from
	RocketRun  int `yaml:"rocket_run"`  // run length that earns a rocket
	BombRun    int `yaml:"bomb_run"`    // run length that earns a bomb
	BombRadius int `yaml:"bomb_radius"` // bomb blast disc radius in cells
}

// AnimationConfig defines per-effect duration hints in animation ticks.
type AnimationConfig struct {
	SwapTicks   int `yaml:"swap_ticks"`
	FadeTicks   int `yaml:"fade_ticks"`
	PopTicks    int `yaml:"pop_ticks"`
	FallBase    int `yaml:"fall_base"`
	FallPerCell int `yaml:"fall_per_cell"`
}

// MeterConfig shapes the running-animal pace curve:
// pace = min + (max-min) * (1 - e^(-score/scale)).
type MeterConfig struct {
	MinPace float64 `yaml:"min_pace"`
	MaxPace float64 `yaml:"max_pace"`
	Scale   float64 `yaml:"scale"`
}

// Validate checks every field against its playable range. The board
// needs at least three colors or the match-free dealer could run out of
// legal choices for a cell.
func (c Config) Validate() error {
	if c.Board.Size < 4 || c.Board.Size > 16 {
		return fmt.Errorf("config: board size %d outside 4..16", c.Board.Size)
	}
	if c.Board.Colors < 3 || c.Board.Colors > 8 {
		return fmt.Errorf("config: %d colors outside 3..8", c.Board.Colors)
	}
	if c.Board.RocketRun < 4 {
		return fmt.Errorf("config: rocket_run %d must be at least 4", c.Board.RocketRun)
	}
	if c.Board.BombRun < c.Board.RocketRun {
		return fmt.Errorf("config: bomb_run %d below rocket_run %d", c.Board.BombRun, c.Board.RocketRun)
	}
	if c.Board.BombRadius < 1 || c.Board.BombRadius > 4 {
		return fmt.Errorf("config: bomb_radius %d outside 1..4", c.Board.BombRadius)
	}
	if c.Animation.SwapTicks < 1 || c.Animation.FadeTicks < 1 || c.Animation.PopTicks < 1 {
		return fmt.Errorf("config: animation tick durations must be at least 1")
	}
	if c.Animation.FallBase < 1 || c.Animation.FallPerCell < 0 {
		return fmt.Errorf("config: fall_base must be at least 1 and fall_per_cell non-negative")
	}
	if c.Meter.MinPace < 0 {
		return fmt.Errorf("config: min_pace %v must be non-negative", c.Meter.MinPace)
	}
	if c.Meter.MaxPace <= c.Meter.MinPace {
		return fmt.Errorf("config: max_pace %v must exceed min_pace %v", c.Meter.MaxPace, c.Meter.MinPace)
	}
	if c.Meter.Scale <= 0 {
		return fmt.Errorf("config: meter scale %v must be positive", c.Meter.Scale)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// PresetFromString maps a CLI flag value to a preset. Unknown values
// fall back to fixed, which leaves the loaded file untouched.
func PresetFromString(s string) DifficultyPreset {
	switch s {
	case "easy":
		return DifficultyEasy
	case "normal":
		return DifficultyNormal
	case "hard":
		return DifficultyHard
	default:
		return DifficultyFixed
	}
}

// ColorsForPreset returns the palette size for a difficulty preset.
// Fewer colors means denser matches and easier play.
func ColorsForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 5
	case DifficultyNormal:
		return 6
	case DifficultyHard:
		return 7
	default:
		return 0
	}
}

// ApplyPreset adjusts the palette for a named difficulty. The fixed
// preset keeps whatever the rules file says.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	if n := ColorsForPreset(preset); n > 0 {
		cfg.Board.Colors = n
	}
}
