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
	"github.com/romakin/gemfall/internal/registry"
	"github.com/romakin/gemfall/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSkin       string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode directly",
	Long: `Start playing the given mode. Without an argument the classic
swap mode starts.

Controls:
  WASD/Arrows - Move cursor
  Space       - Grab a gem, then a direction swaps it
  Enter       - Submit a drawn chain (connect mode)
  X           - Detonate the special under the cursor
  Mouse       - Drag to swap or draw chains
  P           - Pause
  R           - Restart
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Fewer gem colors, matches come easy
  normal - The standard palette
  hard   - More colors, fewer free matches

Examples:
  gemfall play
  gemfall play connect
  gemfall play swap --difficulty hard
  gemfall play swap --skin retro --mute
  gemfall play connect --config ./my-rules.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagSkin, "skin", "", "Skin to render with (overrides the saved choice)")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

func runPlay(cmd *cobra.Command, args []string) {
	mode := "swap"
	if len(args) > 0 {
		mode = args[0]
	}

	// Check if mode exists
	if !registry.Exists(mode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'gemfall modes' to see available modes.")
		os.Exit(1)
	}

	// Get terminal size early
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
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

	// Rules file and difficulty apply on the next Reset
	game.SetConfigPath(flagConfig)
	game.SetDifficultyPreset(flagDifficulty)

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	prefs := tui.LoadPrefs(store)
	cfg.Skin = prefs.ActiveSkin
	if flagSkin != "" {
		cfg.Skin = flagSkin
	}

	// Sound synthesis; without a working output device play stays silent
	var player *audio.Player
	if !flagMute {
		player = audio.NewPlayer()
		if initErr := player.Initialize(); initErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: audio unavailable: %v\n", initErr)
			player = nil
		} else {
			player.SetEnabled(prefs.Sound)
			game.SetAudioSink(player)
		}
	}

	// The gem meter mirrors the run's score
	meterCfg := config.DefaultConfig().Meter
	if fileCfg, cfgErr := config.Load(flagConfig); cfgErr == nil {
		meterCfg = fileCfg.Meter
	}
	var saver meter.SkinSaver
	if store != nil {
		saver = store
	}
	gems := meter.New(meterCfg, saver, prefs.OwnedSkins, prefs.ActiveSkin)
	gems.Start()

	// Create game instance
	g, err := registry.Create(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Run the game
	runErr := tui.Run(g, store, gems, cfg)

	// Cleanup before potential exit
	gems.Stop()
	if player != nil {
		player.Cleanup()
	}
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
