package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/romakin/gemfall/internal/audio"
	"github.com/romakin/gemfall/internal/config"
	"github.com/romakin/gemfall/internal/core"
	"github.com/romakin/gemfall/internal/game"
	"github.com/romakin/gemfall/internal/meter"
	"github.com/romakin/gemfall/internal/platform/tui"
	"github.com/romakin/gemfall/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start GemFall with the full menu",
	Long: `Start GemFall in interactive menu mode.

The menu covers both modes plus the scoreboard, the skin shop and the
settings. After a game ends you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  gemfall menu
  gemfall menu --fps 30
  gemfall menu --db ./gemfall.db`,
	Run: runMenu,
}

func init() {
	// Uses global flags from main.go (--fps, --seed, --db)
}

func runMenu(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	prefs := tui.LoadPrefs(store)
	cfg.Skin = prefs.ActiveSkin

	// Sound synthesis for local play
	player := audio.NewPlayer()
	if initErr := player.Initialize(); initErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: audio unavailable: %v\n", initErr)
		player = nil
	} else {
		player.SetEnabled(prefs.Sound)
		game.SetAudioSink(player)
	}

	// One meter for the whole session
	meterCfg := config.DefaultConfig().Meter
	if fileCfg, cfgErr := config.Load(""); cfgErr == nil {
		meterCfg = fileCfg.Meter
	}
	var saver meter.SkinSaver
	if store != nil {
		saver = store
	}
	gems := meter.New(meterCfg, saver, prefs.OwnedSkins, prefs.ActiveSkin)
	gems.Start()

	runErr := tui.RunSession(store, gems, player, prefs.Theme, cfg)

	// Cleanup
	gems.Stop()
	if player != nil {
		player.Cleanup()
	}
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
