package flock

import (
	"sync"

	"github.com/vovakirdan/tui-flock/internal/core"
	"github.com/vovakirdan/tui-flock/internal/reward"
	"github.com/vovakirdan/tui-flock/internal/round"
)

// sheepView holds what one sheep's label shows. It implements round.Display.
type sheepView struct {
	mu            sync.Mutex
	text          string
	color         core.Color
	locked        bool
	star          int // remaining ticks of the star burst
	feedbackTicks int
}

func newSheepView(feedbackTicks int) *sheepView {
	return &sheepView{feedbackTicks: feedbackTicks}
}

func (v *sheepView) ShowReward(text string, color core.Color) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.text = text
	v.color = color
}

func (v *sheepView) ClearReward() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.text = ""
	v.color = core.ColorDefault
	v.star = 0
}

func (v *sheepView) Feedback() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.star = v.feedbackTicks
}

func (v *sheepView) SetLocked(locked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.locked = locked
}

func (v *sheepView) advance() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.star > 0 {
		v.star--
	}
}

// sheepLabel is a copy of a view's state for rendering.
type sheepLabel struct {
	Text   string
	Color  core.Color
	Locked bool
	Star   bool
}

func (v *sheepView) label() sheepLabel {
	v.mu.Lock()
	defer v.mu.Unlock()
	return sheepLabel{Text: v.text, Color: v.color, Locked: v.locked, Star: v.star > 0}
}

// hud tracks the two counters and their pulse effects. It implements
// round.HUD.
type hud struct {
	mu         sync.Mutex
	roundCount int
	multiplier int
	roundPulse int
	multPulse  int
	pulseTicks int
	concluded  bool
	rounds     int // rounds concluded since the game started
}

func newHUD(pulseTicks int) *hud {
	return &hud{roundCount: 1, multiplier: 1, pulseTicks: pulseTicks}
}

func (h *hud) SetCounters(roundCount, multiplier int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.roundCount = roundCount
	h.multiplier = multiplier
}

// newRound clears the effects left over from the previous round.
func (h *hud) newRound() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.concluded = false
	h.roundPulse = 0
	h.multPulse = 0
}

func (h *hud) PulseCounter(kind reward.Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch kind {
	case reward.KindRoundBonus:
		h.roundPulse = h.pulseTicks
	case reward.KindMultiplier:
		h.multPulse = h.pulseTicks
	}
}

func (h *hud) RoundConcluded(round.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.concluded = true
	h.rounds++
}

func (h *hud) advance() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.roundPulse > 0 {
		h.roundPulse--
	}
	if h.multPulse > 0 {
		h.multPulse--
	}
}

// hudView is a copy of the HUD state for rendering.
type hudView struct {
	RoundCount int
	Multiplier int
	RoundPulse bool
	MultPulse  bool
	Concluded  bool
	Rounds     int
}

func (h *hud) view() hudView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return hudView{
		RoundCount: h.roundCount,
		Multiplier: h.multiplier,
		RoundPulse: h.roundPulse > 0,
		MultPulse:  h.multPulse > 0,
		Concluded:  h.concluded,
		Rounds:     h.rounds,
	}
}
