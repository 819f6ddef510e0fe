// Package config provides YAML-based configuration loading for the flock
// game: the reward deck, the pen layout and animation timings.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-flock/internal/reward"
)

// Fixed pen layout.
const (
	GridRows = 3
	GridCols = 5
)

var (
	ErrGridSize   = errors.New("grid must be 3x5")
	ErrDeckSize   = errors.New("deck size must match the grid")
	ErrBadTimings = errors.New("animation timings must be positive")
)

// FlockConfig contains all configuration for the flock game.
type FlockConfig struct {
	Deck      []string        `yaml:"deck"`
	Grid      GridConfig      `yaml:"grid"`
	Animation AnimationConfig `yaml:"animation"`
}

// GridConfig defines the pen layout.
type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Size returns the number of slots in the grid.
func (g GridConfig) Size() int {
	return g.Rows * g.Cols
}

// AnimationConfig defines clip and effect timings in milliseconds.
type AnimationConfig struct {
	RunFrameMs      int `yaml:"run_frame_ms"`      // idle loop frame length
	JumpMs          int `yaml:"jump_ms"`           // reveal motion length
	DownMs          int `yaml:"down_ms"`           // settle clip after a forced reveal
	RevealTimeoutMs int `yaml:"reveal_timeout_ms"` // fallback when the jump never reports completion
	FeedbackMs      int `yaml:"feedback_ms"`       // star burst on a revealed sheep
	PulseMs         int `yaml:"pulse_ms"`          // counter highlight
}

// RunFrame returns the idle loop frame length.
func (a AnimationConfig) RunFrame() time.Duration { return ms(a.RunFrameMs) }

// Jump returns the reveal motion length.
func (a AnimationConfig) Jump() time.Duration { return ms(a.JumpMs) }

// Down returns the settle clip length.
func (a AnimationConfig) Down() time.Duration { return ms(a.DownMs) }

// RevealTimeout returns the fallback deadline for the reveal motion.
func (a AnimationConfig) RevealTimeout() time.Duration { return ms(a.RevealTimeoutMs) }

// Feedback returns the star burst length.
func (a AnimationConfig) Feedback() time.Duration { return ms(a.FeedbackMs) }

// Pulse returns the counter highlight length.
func (a AnimationConfig) Pulse() time.Duration { return ms(a.PulseMs) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Validate checks the layout, the deck and the timings.
func (c FlockConfig) Validate() error {
	if c.Grid.Rows != GridRows || c.Grid.Cols != GridCols {
		return fmt.Errorf("config: %w: got %dx%d", ErrGridSize, c.Grid.Rows, c.Grid.Cols)
	}
	if len(c.Deck) != c.Grid.Size() {
		return fmt.Errorf("config: %w: %d entries for %d slots", ErrDeckSize, len(c.Deck), c.Grid.Size())
	}
	if _, err := c.ParseDeck(); err != nil {
		return err
	}

	a := c.Animation
	for _, v := range []int{a.RunFrameMs, a.JumpMs, a.DownMs, a.RevealTimeoutMs, a.FeedbackMs, a.PulseMs} {
		if v <= 0 {
			return fmt.Errorf("config: %w", ErrBadTimings)
		}
	}
	return nil
}

// ParseDeck parses and validates the deck entries.
func (c FlockConfig) ParseDeck() (reward.Deck, error) {
	d, err := reward.ParseDeck(c.Deck)
	if err != nil {
		return nil, fmt.Errorf("config: deck: %w", err)
	}
	return d, nil
}
