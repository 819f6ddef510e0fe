package round

import (
	"context"
	"sync"
	"time"

	"github.com/vovakirdan/tui-flock/internal/core"
	"github.com/vovakirdan/tui-flock/internal/reward"
)

// DefaultRevealTimeout bounds the wait for a reveal animation whose
// completion signal never arrives.
const DefaultRevealTimeout = time.Second

// Tile is one cell of the grid. It owns its reveal state and drives its
// animator and display; it reports activation to the controller through the
// callback it was built with.
type Tile struct {
	slot          int
	anim          Animator
	view          Display
	clock         Clock
	revealTimeout time.Duration
	onActivate    func(ctx context.Context, slot int)

	mu       sync.Mutex
	clicked  bool
	locked   bool
	revealed reward.Reward
}

func newTile(slot int, anim Animator, view Display, clock Clock, timeout time.Duration, onActivate func(context.Context, int)) *Tile {
	if clock == nil {
		clock = wallClock{}
	}
	if timeout <= 0 {
		timeout = DefaultRevealTimeout
	}
	return &Tile{
		slot:          slot,
		anim:          anim,
		view:          view,
		clock:         clock,
		revealTimeout: timeout,
		onActivate:    onActivate,
	}
}

// Slot returns the tile's grid index.
func (t *Tile) Slot() int {
	return t.slot
}

// Clicked reports whether the tile has been claimed this round.
func (t *Tile) Clicked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clicked
}

// Locked reports whether the tile was force-revealed and no longer
// accepts interaction.
func (t *Tile) Locked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.locked
}

// Revealed returns the reward shown on the tile, or the zero Reward.
func (t *Tile) Revealed() reward.Reward {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.revealed
}

// Press reports click intent for this tile.
func (t *Tile) Press(ctx context.Context) {
	if t.Locked() || t.onActivate == nil {
		return
	}
	t.onActivate(ctx, t.slot)
}

// claim marks the tile clicked. It returns false if it already was.
func (t *Tile) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.clicked {
		return false
	}
	t.clicked = true
	return true
}

// Reset returns the tile to hidden and clickable and restarts the idle clip.
func (t *Tile) Reset() {
	t.mu.Lock()
	t.clicked = false
	t.locked = false
	t.revealed = reward.Reward{}
	t.mu.Unlock()

	if t.view != nil {
		t.view.ClearReward()
		t.view.SetLocked(false)
	}
	if t.anim != nil {
		t.anim.Play(ClipRun)
	}
}

// PlayRevealAnimation plays the jump clip and then holds its top frame.
// It blocks until the clip signals completion, the fallback deadline
// passes, or ctx is done, whichever comes first. Without an animator, or
// when the clip is unavailable, it returns immediately.
func (t *Tile) PlayRevealAnimation(ctx context.Context) {
	if t.anim == nil {
		return
	}

	if done := t.anim.Play(ClipJump); done != nil {
		select {
		case <-done:
		case <-t.clock.After(t.revealTimeout):
		case <-ctx.Done():
		}
	}

	t.anim.Hold(ClipJump)
}

// ShowReveal records entry as the tile's reward and displays it. Feedback
// plays only when requested and the entry is not End.
func (t *Tile) ShowReveal(entry reward.Reward, withFeedback bool) {
	t.mu.Lock()
	t.revealed = entry
	t.mu.Unlock()

	if t.view == nil {
		return
	}
	t.view.ShowReward(entry.String(), RewardColor(entry))
	if withFeedback && entry.Kind != reward.KindEnd {
		t.view.Feedback()
	}
}

// ForceReveal claims and locks the tile, shows entry without feedback and
// starts the settle clip without waiting for it.
func (t *Tile) ForceReveal(entry reward.Reward) {
	t.mu.Lock()
	t.clicked = true
	t.locked = true
	t.mu.Unlock()

	if t.view != nil {
		t.view.SetLocked(true)
	}
	t.ShowReveal(entry, false)
	if t.anim != nil {
		t.anim.Play(ClipDown)
	}
}

// RewardColor returns the display color for entry.
func RewardColor(entry reward.Reward) core.Color {
	switch entry.Kind {
	case reward.KindEnd:
		return core.ColorAlert
	case reward.KindMultiplier:
		return core.ColorAccentA
	case reward.KindRoundBonus:
		return core.ColorAccentB
	default:
		return core.ColorNeutral
	}
}
