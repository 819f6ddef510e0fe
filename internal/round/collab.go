package round

import (
	"time"

	"github.com/vovakirdan/tui-flock/internal/core"
	"github.com/vovakirdan/tui-flock/internal/reward"
)

// Clip names an animation the presentation layer knows how to play.
type Clip string

const (
	ClipRun  Clip = "run"  // idle loop
	ClipJump Clip = "jump" // reveal motion; its last frame is held afterwards
	ClipDown Clip = "down" // settle after a forced reveal
)

// Animator plays clips for a single tile.
type Animator interface {
	// Play starts clip and returns a channel that is closed when it finishes.
	// A nil channel means the clip is unavailable. Looping clips never close
	// their channel.
	Play(clip Clip) <-chan struct{}

	// Hold freezes the final frame of clip.
	Hold(clip Clip)
}

// Display renders reward feedback for a single tile.
type Display interface {
	ShowReward(text string, color core.Color)
	ClearReward()
	Feedback()
	SetLocked(locked bool)
}

// HUD receives round-level counter updates. Calls are made with the
// controller lock held; implementations must not call back into the
// controller.
type HUD interface {
	SetCounters(roundCount, multiplier int)
	PulseCounter(kind reward.Kind)
	RoundConcluded(s State)
}

// Clock provides the fallback deadlines for reveal animations.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

// Presenter returns the collaborators for the tile at slot. Either may be
// nil; the tile then skips that part of its presentation.
type Presenter func(slot int) (Animator, Display)

type wallClock struct{}

func (wallClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

type nopHUD struct{}

func (nopHUD) SetCounters(int, int)     {}
func (nopHUD) PulseCounter(reward.Kind) {}
func (nopHUD) RoundConcluded(State)     {}
