// gemfall is a match-three puzzle for the terminal.
//
// Usage:
//
//	gemfall                   - Start the menu (same as gemfall menu)
//	gemfall play [mode]       - Play a mode directly (swap or connect)
//	gemfall menu              - Menu with games, scoreboard, shop and settings
//	gemfall modes             - List available modes
//	gemfall scores <mode>     - Show high scores for a mode
//	gemfall serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible boards
//	--db <path>     - Set database path (default: ~/.gemfall/gemfall.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import the game package to register the swap and connect modes
	_ "github.com/romakin/gemfall/internal/game"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gemfall",
	Short: "GemFall - Match gems in your terminal",
	Long: `GemFall is a terminal match-three puzzle. Swap adjacent gems or draw
chains through them, watch the cascades feed the gem meter, and spend
the pot on new skins.

Available commands:
  play     - Play a mode directly (swap or connect)
  menu     - Menu with games, scoreboard, shop and settings
  modes    - List available modes
  scores   - View high scores
  serve    - Start SSH server for remote play

Examples:
  gemfall
  gemfall play connect
  gemfall play swap --difficulty hard
  gemfall serve --ssh :2222
  gemfall scores swap`,
	Args: cobra.NoArgs,
	Run:  runMenu, // bare gemfall drops into the menu
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gemfall/gemfall.db", "Path to scores database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
