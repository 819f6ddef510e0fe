package flock

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-flock/internal/round"
)

// pose is one drawable frame of a sheep.
type pose struct {
	lift int    // rows above the ground line
	legs string // leg row under the body
}

// clipSpec describes a clip in ticks.
type clipSpec struct {
	poses []pose
	ticks int // total length; for looping clips, the length of one frame
	loop  bool
}

const (
	sheepBody = "~@@@@o"

	legsRunA = "/|  |\\"
	legsRunB = "|\\  /|"
	legsOpen = "/    \\"
	legsTuck = "'    '"
	legsDown = "_    _"
)

// ticksFor converts d to simulation ticks, rounding up and never below one.
func ticksFor(d time.Duration, tickRate int) int {
	if tickRate <= 0 {
		tickRate = 60
	}
	n := int((d*time.Duration(tickRate) + time.Second - 1) / time.Second)
	return max(n, 1)
}

// clipTable builds the clip set for the given timings.
func clipTable(runFrame, jump, down time.Duration, tickRate int) map[round.Clip]clipSpec {
	return map[round.Clip]clipSpec{
		round.ClipRun: {
			poses: []pose{{0, legsRunA}, {0, legsRunB}},
			ticks: ticksFor(runFrame, tickRate),
			loop:  true,
		},
		round.ClipJump: {
			poses: []pose{{0, legsOpen}, {1, legsOpen}, {1, legsTuck}},
			ticks: ticksFor(jump, tickRate),
		},
		round.ClipDown: {
			poses: []pose{{1, legsOpen}, {0, legsOpen}, {0, legsDown}},
			ticks: ticksFor(down, tickRate),
		},
	}
}

// clipPlayer plays clips for one sheep, advanced once per tick.
// It implements round.Animator.
type clipPlayer struct {
	mu      sync.Mutex
	clips   map[round.Clip]clipSpec
	clip    round.Clip
	elapsed int
	held    bool
	done    chan struct{}
}

func newClipPlayer(clips map[round.Clip]clipSpec) *clipPlayer {
	return &clipPlayer{clips: clips}
}

// Play starts clip from its first frame. A clip still running is cut short
// and its waiter released.
func (p *clipPlayer) Play(clip round.Clip) <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	cs, ok := p.clips[clip]
	if !ok {
		return nil
	}
	p.finish()

	p.clip = clip
	p.elapsed = 0
	p.held = false
	if cs.loop {
		// Looping clips never complete.
		return make(chan struct{})
	}
	p.done = make(chan struct{})
	return p.done
}

// Hold freezes the last frame of clip. It has no effect once another clip
// has replaced it.
func (p *clipPlayer) Hold(clip round.Clip) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.clip != clip {
		return
	}
	p.finish()
	p.held = true
}

// advance moves the current clip one tick forward.
func (p *clipPlayer) advance() {
	p.mu.Lock()
	defer p.mu.Unlock()

	cs, ok := p.clips[p.clip]
	if !ok || p.held {
		return
	}
	p.elapsed++
	if !cs.loop && p.elapsed >= cs.ticks {
		p.held = true
		p.finish()
	}
}

// pose returns the frame to draw.
func (p *clipPlayer) pose() pose {
	p.mu.Lock()
	defer p.mu.Unlock()

	cs, ok := p.clips[p.clip]
	if !ok || len(cs.poses) == 0 {
		return pose{legs: legsOpen}
	}
	if p.held {
		return cs.poses[len(cs.poses)-1]
	}
	if cs.loop {
		return cs.poses[(p.elapsed/cs.ticks)%len(cs.poses)]
	}
	i := p.elapsed * len(cs.poses) / cs.ticks
	return cs.poses[min(i, len(cs.poses)-1)]
}

// current returns the clip name and whether its last frame is held.
func (p *clipPlayer) current() (round.Clip, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clip, p.held
}

// release cuts any running clip short.
func (p *clipPlayer) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finish()
}

func (p *clipPlayer) finish() {
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
}

// tickClock hands out deadlines measured in simulation ticks, so a paused
// game freezes them along with the clips. It implements round.Clock.
type tickClock struct {
	mu        sync.Mutex
	tickRate  int
	now       uint64
	deadlines []deadline
}

type deadline struct {
	at uint64
	ch chan time.Time
}

func newTickClock(tickRate int) *tickClock {
	return &tickClock{tickRate: tickRate}
}

func (c *tickClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	c.deadlines = append(c.deadlines, deadline{
		at: c.now + uint64(ticksFor(d, c.tickRate)),
		ch: ch,
	})
	return ch
}

// advance moves the clock one tick and fires expired deadlines.
func (c *tickClock) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now++
	kept := c.deadlines[:0]
	for _, d := range c.deadlines {
		if d.at <= c.now {
			d.ch <- time.Now()
			continue
		}
		kept = append(kept, d)
	}
	c.deadlines = kept
}

// pending returns the number of unfired deadlines.
func (c *tickClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.deadlines)
}

// flush fires every pending deadline.
func (c *tickClock) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.deadlines {
		d.ch <- time.Now()
	}
	c.deadlines = nil
}
