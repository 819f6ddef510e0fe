package main

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flock/internal/config"
	"github.com/vovakirdan/tui-flock/internal/platform/tui"
	"github.com/vovakirdan/tui-flock/internal/reward"
	"github.com/vovakirdan/tui-flock/internal/round"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Show the deck and a sample deal",
	Long: `Prints the configured deck as reward counts and the grid a seed
deals it into. The same --seed passed to 'flock play' deals the same
first round.

Examples:
  flock deck
  flock deck --seed 42
  flock deck --config ./my-flock.yaml`,
	Args: cobra.NoArgs,
	Run:  runDeck,
}

func runDeck(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadFlock(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	deck, err := cfg.ParseDeck()
	if err != nil {
		fail("%v", err)
	}
	seed := resolveSeed()

	fmt.Println(titleStyle.Render(fmt.Sprintf("Deck (%d entries)", len(deck))))
	fmt.Println(countsTable(deck))
	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("Deal for seed %d", seed)))
	fmt.Println(dealTable(deck.Shuffled(rand.New(rand.NewSource(seed))), cfg.Grid.Cols))
}

// countsTable lists each distinct reward once, in order of first appearance.
func countsTable(deck reward.Deck) string {
	counts := deck.Counts()
	var entries []reward.Reward
	seen := make(map[reward.Reward]bool, len(counts))
	for _, r := range deck {
		if !seen[r] {
			seen[r] = true
			entries = append(entries, r)
		}
	}

	rows := make([][]string, len(entries))
	for i, r := range entries {
		rows[i] = []string{r.String(), r.Kind.String(), fmt.Sprint(counts[r])}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Reward", "Kind", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			if col == 0 {
				return cellStyle.Inherit(tui.StyleFor(round.RewardColor(entries[row])))
			}
			return cellStyle
		}).
		String()
}

// dealTable lays a dealt deck out in rows of cols tiles.
func dealTable(dealt reward.Deck, cols int) string {
	var rows [][]string
	for start := 0; start < len(dealt); start += cols {
		end := min(start+cols, len(dealt))
		rows = append(rows, dealt[start:end].Strings())
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			i := row*cols + col
			if row < 0 || i >= len(dealt) {
				return cellStyle
			}
			return cellStyle.Inherit(tui.StyleFor(round.RewardColor(dealt[i])))
		}).
		String()
}
