package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-flock/internal/reward"
)

//go:embed defaults/flock.yaml
var defaultFlockYAML []byte

// DefaultFlockConfig returns the default flock configuration.
func DefaultFlockConfig() FlockConfig {
	return FlockConfig{
		Deck: append([]string(nil), reward.DefaultEntries...),
		Grid: GridConfig{
			Rows: GridRows,
			Cols: GridCols,
		},
		Animation: AnimationConfig{
			RunFrameMs:      150,
			JumpMs:          600,
			DownMs:          800,
			RevealTimeoutMs: 1000,
			FeedbackMs:      500,
			PulseMs:         500,
		},
	}
}
