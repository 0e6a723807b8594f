package config

import (
	_ "embed"
)

//go:embed defaults/rules.yaml
var defaultRulesYAML []byte

// DefaultConfig returns the built-in rules, mirroring defaults/rules.yaml.
func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			Size:       8,
			Colors:     6,
			RocketRun:  4,
			BombRun:    5,
			BombRadius: 2,
		},
		Animation: AnimationConfig{
			SwapTicks:   8,
			FadeTicks:   10,
			PopTicks:    6,
			FallBase:    4,
			FallPerCell: 3,
		},
		Meter: MeterConfig{
			MinPace: 0.5,
			MaxPace: 8.0,
			Scale:   200,
		},
	}
}

// DefaultYAML returns the embedded default rules file, the annotated
// starting point for a ~/.gemfall/configs/rules.yaml override.
func DefaultYAML() []byte {
	return defaultRulesYAML
}
