package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flock/internal/autoplay"
	"github.com/vovakirdan/tui-flock/internal/config"
	"github.com/vovakirdan/tui-flock/internal/platform/tui"
	"github.com/vovakirdan/tui-flock/internal/round"
)

var (
	flagRounds     int
	flagOrder      string
	flagConcurrent bool
	flagWorkers    int
	flagDelay      time.Duration
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play rounds without a terminal",
	Long: `Deals and plays rounds headlessly, then prints what every tile
revealed and the final counters. Round i uses seed+i.

With --concurrent every pick is fired at once, which exercises the
late-reveal path when --delay gives the reveal animation a duration.

Examples:
  flock simulate
  flock simulate --seed 42 --order ascending
  flock simulate --rounds 100
  flock simulate --concurrent --delay 50ms --workers 4`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagRounds, "rounds", 1, "Number of rounds to play")
	simulateCmd.Flags().StringVar(&flagOrder, "order", string(autoplay.OrderRandom), "Pick order: random, ascending")
	simulateCmd.Flags().BoolVar(&flagConcurrent, "concurrent", false, "Fire all picks at once")
	simulateCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Cap on concurrent picks (0 = no cap)")
	simulateCmd.Flags().DurationVar(&flagDelay, "delay", 0, "Simulated reveal animation length")
}

func runSimulate(cmd *cobra.Command, args []string) {
	if flagRounds < 1 {
		fail("--rounds must be at least 1")
	}
	order, err := autoplay.ParseOrder(flagOrder)
	if err != nil {
		fail("%v", err)
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	cfg, err := config.LoadFlock(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	deck, err := cfg.ParseDeck()
	if err != nil {
		fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seed := resolveSeed()
	reports := make([]autoplay.Report, 0, flagRounds)
	for i := range flagRounds {
		rep, err := autoplay.Run(ctx, autoplay.Options{
			Deck:       deck,
			Seed:       seed + int64(i),
			Order:      order,
			Concurrent: flagConcurrent,
			Workers:    flagWorkers,
			Delay:      flagDelay,
			Logger:     logger,
		})
		if err != nil {
			stop()
			closeLog()
			fail("round %d: %v", i+1, err)
		}
		reports = append(reports, rep)
	}

	if len(reports) == 1 {
		printReveals(reports[0], cfg.Grid.Cols)
		return
	}
	printSummary(reports, seed)
}

func printReveals(rep autoplay.Report, cols int) {
	rows := make([][]string, len(rep.Reveals))
	for i, r := range rep.Reveals {
		how := "picked"
		if !r.Picked {
			how = "swept"
		}
		rows[i] = []string{
			fmt.Sprint(r.Slot),
			fmt.Sprintf("%d,%d", r.Slot/cols, r.Slot%cols),
			r.Reward.String(),
			how,
		}
	}

	fmt.Println(titleStyle.Render("Round " + rep.RoundID))
	fmt.Println(table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Slot", "Row,Col", "Reward", "Revealed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cellStyle.Bold(true)
			case col == 2:
				return cellStyle.Inherit(tui.StyleFor(round.RewardColor(rep.Reveals[row].Reward)))
			case !rep.Reveals[row].Picked:
				return cellStyle.Faint(true)
			}
			return cellStyle
		}).
		String())
	fmt.Printf("Rounds: %d  Multiplier: x%d  (%s)\n", rep.RoundCount, rep.Multiplier, rep.Elapsed.Round(time.Microsecond))
}

func printSummary(reports []autoplay.Report, seed int64) {
	rows := make([][]string, len(reports))
	totalRounds, totalMult, picks := 0, 0, 0
	for i, rep := range reports {
		picked := 0
		for _, r := range rep.Reveals {
			if r.Picked {
				picked++
			}
		}
		totalRounds += rep.RoundCount
		totalMult += rep.Multiplier
		picks += picked
		rows[i] = []string{
			fmt.Sprint(seed + int64(i)),
			fmt.Sprint(picked),
			fmt.Sprint(rep.RoundCount),
			fmt.Sprintf("x%d", rep.Multiplier),
		}
	}

	fmt.Println(table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Seed", "Picks", "Rounds", "Multiplier").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		}).
		String())

	n := float64(len(reports))
	fmt.Printf("Average over %d rounds: %.2f picks, %.2f rounds, x%.2f\n",
		len(reports), float64(picks)/n, float64(totalRounds)/n, float64(totalMult)/n)
}
