// flock is a terminal pick-a-tile reward game.
//
// Usage:
//
//	flock play               - Play a round of Lucky Flock
//	flock list               - List available games
//	flock deck               - Show the deck and a sample deal
//	flock simulate           - Play rounds headlessly and print the results
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible deals
//	--config <path>      - Use a custom flock.yaml
//	--log-file <path>    - Append logs to a file
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/tui-flock/internal/games/flock"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagConfig   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flock",
	Short: "Lucky Flock - pick sheep, win rounds",
	Long: `Lucky Flock is a terminal reward game. Fifteen sheep hide one
reward each; pick them one at a time to grow your round count and
multiplier until the END sheep turns up.

Available commands:
  play      - Play a round
  list      - Show all available games
  deck      - Show the configured deck and a sample deal
  simulate  - Play rounds without a terminal

Examples:
  flock play
  flock play --seed 42
  flock deck --seed 7
  flock simulate --rounds 10 --concurrent
  flock play --config ./my-flock.yaml --log-file flock.log`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom flock config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(simulateCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
