package round

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-flock/internal/core"
	"github.com/vovakirdan/tui-flock/internal/reward"
)

// manualAnimator hands out jump channels that the test closes by hand.
type manualAnimator struct {
	mu      sync.Mutex
	plays   []Clip
	holds   []Clip
	jump    chan struct{}
	started chan Clip
	missing map[Clip]bool
}

func newManualAnimator() *manualAnimator {
	return &manualAnimator{
		started: make(chan Clip, 256),
		missing: make(map[Clip]bool),
	}
}

func (a *manualAnimator) Play(clip Clip) <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.plays = append(a.plays, clip)
	a.started <- clip
	if a.missing[clip] {
		return nil
	}
	ch := make(chan struct{})
	if clip == ClipJump {
		a.jump = ch
	}
	return ch
}

func (a *manualAnimator) Hold(clip Clip) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.holds = append(a.holds, clip)
}

// finishJump completes the most recent jump clip.
func (a *manualAnimator) finishJump() {
	a.mu.Lock()
	defer a.mu.Unlock()
	close(a.jump)
	a.jump = nil
}

// waitFor blocks until clip has been started.
func (a *manualAnimator) waitFor(clip Clip) {
	for c := range a.started {
		if c == clip {
			return
		}
	}
}

func (a *manualAnimator) played() []Clip {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Clip(nil), a.plays...)
}

func (a *manualAnimator) held() []Clip {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Clip(nil), a.holds...)
}

type recordDisplay struct {
	mu        sync.Mutex
	text      string
	color     core.Color
	feedbacks int
	locked    bool
	clears    int
}

func (d *recordDisplay) ShowReward(text string, color core.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	d.color = color
}

func (d *recordDisplay) ClearReward() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = ""
	d.clears++
}

func (d *recordDisplay) Feedback() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.feedbacks++
}

func (d *recordDisplay) SetLocked(locked bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.locked = locked
}

type recordHUD struct {
	mu        sync.Mutex
	counters  [][2]int
	pulses    []reward.Kind
	concluded []State
}

func (h *recordHUD) SetCounters(roundCount, multiplier int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counters = append(h.counters, [2]int{roundCount, multiplier})
}

func (h *recordHUD) PulseCounter(kind reward.Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pulses = append(h.pulses, kind)
}

func (h *recordHUD) RoundConcluded(s State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.concluded = append(h.concluded, s)
}

// manualClock returns deadline channels the test fires by hand.
type manualClock struct {
	mu        sync.Mutex
	deadlines []chan time.Time
	asked     chan time.Duration
}

func newManualClock() *manualClock {
	return &manualClock{asked: make(chan time.Duration, 16)}
}

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.deadlines = append(c.deadlines, ch)
	c.asked <- d
	return ch
}

func (c *manualClock) fireAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.deadlines {
		ch <- time.Time{}
	}
	c.deadlines = nil
}

// scenarioDeck is the default deck dealt in definition order with its first
// x1, +2 and END moved to the front; the other twelve entries keep their
// default order.
func scenarioDeck() reward.Deck {
	front := reward.Deck{reward.Multiplier(1), reward.RoundBonus(2), reward.End()}
	taken := make([]bool, len(front))

	d := append(reward.Deck(nil), front...)
	for _, r := range reward.DefaultDeck() {
		moved := false
		for i, f := range front {
			if !taken[i] && r == f {
				taken[i] = true
				moved = true
				break
			}
		}
		if !moved {
			d = append(d, r)
		}
	}
	return d
}
