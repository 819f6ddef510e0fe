package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flock/internal/config"
	"github.com/vovakirdan/tui-flock/internal/core"
	"github.com/vovakirdan/tui-flock/internal/games/flock"
	"github.com/vovakirdan/tui-flock/internal/platform/tui"
	"github.com/vovakirdan/tui-flock/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a round",
	Long: `Start a round of Lucky Flock (or another registered game).

Controls:
  Arrows/WASD  - Move between sheep
  Space/Enter  - Pick the highlighted sheep
  Mouse        - Click a sheep to pick it
  R            - Deal a new flock
  P/Esc        - Pause
  Ctrl+S       - Save a screenshot
  ?            - Show all keys
  Q/Ctrl+C     - Quit

Examples:
  flock play
  flock play --seed 42
  flock play --config ./my-flock.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := flock.ID
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'flock list' to see available games.")
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(false)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	flockCfg, err := config.LoadFlock(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	flock.Configure(flockCfg, logger)

	cfg := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Seed = resolveSeed()

	game, err := registry.Create(gameID)
	if err != nil {
		fail("%v", err)
	}

	logger.Info("starting game", "game", gameID, "seed", cfg.Seed, "fps", cfg.TickRate)
	if err := tui.Run(game, cfg, logger); err != nil {
		closeLog()
		fail("%v", err)
	}
}
