// Package round implements the pick-a-tile round: the shuffled deck, click
// admission, reward aggregation and the end-of-round sweep.
package round

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-flock/internal/reward"
)

// Phase is the round lifecycle stage.
type Phase int

const (
	PhaseIdle       Phase = iota // no round dealt yet
	PhaseActive                  // accepting activations
	PhaseConcluding              // End drawn, reveals still settling
	PhaseConcluded               // every tile revealed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseConcluding:
		return "concluding"
	case PhaseConcluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// State is a snapshot of the round counters.
type State struct {
	RoundID     string
	Generation  uint64
	DrawPointer int
	DeckSize    int
	RoundCount  int
	Multiplier  int
	Ended       bool
	Phase       Phase
}

// Controller owns the deck, the tile roster and the round counters.
// All methods are safe for concurrent use.
type Controller struct {
	deck          reward.Deck
	shuffler      reward.Shuffler
	hud           HUD
	logger        *log.Logger
	clock         Clock
	presenter     Presenter
	revealTimeout time.Duration
	newID         func() string

	mu         sync.Mutex
	tiles      []*Tile
	order      reward.Deck
	pointer    int
	roundCount int
	multiplier int
	ended      bool
	phase      Phase
	generation uint64
	inflight   int // activations past admission that have not drawn yet
	roundID    string
	done       chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithShuffler sets the random source for deck permutations. Without one
// the deck is dealt in definition order.
func WithShuffler(s reward.Shuffler) Option {
	return func(c *Controller) { c.shuffler = s }
}

// WithHUD sets the counter display.
func WithHUD(h HUD) Option {
	return func(c *Controller) {
		if h != nil {
			c.hud = h
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the clock used for reveal deadlines.
func WithClock(clk Clock) Option {
	return func(c *Controller) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithPresenter supplies each tile's animator and display.
func WithPresenter(p Presenter) Option {
	return func(c *Controller) { c.presenter = p }
}

// WithRevealTimeout sets the fallback deadline for reveal animations.
func WithRevealTimeout(d time.Duration) Option {
	return func(c *Controller) { c.revealTimeout = d }
}

// WithIDGenerator overrides how round IDs are made.
func WithIDGenerator(f func() string) Option {
	return func(c *Controller) {
		if f != nil {
			c.newID = f
		}
	}
}

// New builds a controller with one tile per deck entry. No round is dealt
// until NewRound is called.
func New(deck reward.Deck, opts ...Option) (*Controller, error) {
	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("round: %w", err)
	}

	c := &Controller{
		deck:          append(reward.Deck(nil), deck...),
		hud:           nopHUD{},
		logger:        log.New(io.Discard),
		clock:         wallClock{},
		revealTimeout: DefaultRevealTimeout,
		newID:         uuid.NewString,
		roundCount:    1,
		multiplier:    1,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.tiles = make([]*Tile, len(deck))
	for i := range c.tiles {
		var anim Animator
		var view Display
		if c.presenter != nil {
			anim, view = c.presenter(i)
		}
		c.tiles[i] = newTile(i, anim, view, c.clock, c.revealTimeout, c.OnTileActivated)
	}

	return c, nil
}

// Len returns the number of tiles.
func (c *Controller) Len() int {
	return len(c.tiles)
}

// Tile returns the tile at slot, or nil if slot is out of range.
func (c *Controller) Tile(slot int) *Tile {
	if slot < 0 || slot >= len(c.tiles) {
		return nil
	}
	return c.tiles[slot]
}

// Tiles returns the roster in slot order.
func (c *Controller) Tiles() []*Tile {
	return append([]*Tile(nil), c.tiles...)
}

// State returns a snapshot of the round counters.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	return State{
		RoundID:     c.roundID,
		Generation:  c.generation,
		DrawPointer: c.pointer,
		DeckSize:    len(c.order),
		RoundCount:  c.roundCount,
		Multiplier:  c.multiplier,
		Ended:       c.ended,
		Phase:       c.phase,
	}
}

// Done returns a channel closed when the current round concludes or is
// replaced by a new one.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// NewRound deals a fresh permutation of the deck, resets the counters and
// every tile, and refreshes the HUD.
func (c *Controller) NewRound() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = c.deck.Shuffled(c.shuffler)
	c.pointer = 0
	c.roundCount = 1
	c.multiplier = 1
	c.ended = false
	c.phase = PhaseActive
	c.generation++
	c.inflight = 0
	c.roundID = c.newID()

	c.closeDone()
	c.done = make(chan struct{})

	for _, t := range c.tiles {
		t.Reset()
	}
	c.hud.SetCounters(c.roundCount, c.multiplier)

	c.logger.Info("round started", "round", c.roundID, "tiles", len(c.tiles))
}

// ResetRound is the player-invoked equivalent of NewRound.
func (c *Controller) ResetRound() {
	c.logger.Debug("round reset requested")
	c.NewRound()
}

// OnTileActivated handles a player click on slot. Clicks on an ended round,
// an out-of-range slot or an already clicked tile are ignored. Accepted
// clicks claim the tile, wait for its reveal animation and then draw the
// next deck entry.
func (c *Controller) OnTileActivated(ctx context.Context, slot int) {
	c.mu.Lock()
	if c.phase != PhaseActive || slot < 0 || slot >= len(c.tiles) {
		c.logger.Debug("activation ignored", "slot", slot, "phase", c.phase)
		c.mu.Unlock()
		return
	}
	t := c.tiles[slot]
	if !t.claim() {
		c.logger.Debug("activation ignored", "slot", slot, "reason", "already clicked")
		c.mu.Unlock()
		return
	}
	gen := c.generation
	c.inflight++
	c.mu.Unlock()

	t.PlayRevealAnimation(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("stale activation dropped", "slot", slot)
		return
	}
	c.inflight--

	if c.ended {
		// End was drawn by another tile while this one was animating.
		entry := c.drawOrZero()
		t.ForceReveal(entry)
		c.logger.Debug("late reveal", "round", c.roundID, "slot", slot, "reward", entry)
		c.concludeIfSettled()
		return
	}

	entry := c.drawOrZero()
	t.ShowReveal(entry, true)
	c.logger.Debug("tile revealed", "round", c.roundID, "slot", slot, "reward", entry, "pointer", c.pointer)

	switch entry.Kind {
	case reward.KindRoundBonus:
		c.roundCount += entry.N
		c.hud.SetCounters(c.roundCount, c.multiplier)
		c.hud.PulseCounter(reward.KindRoundBonus)
	case reward.KindMultiplier:
		c.multiplier += entry.N
		c.hud.SetCounters(c.roundCount, c.multiplier)
		c.hud.PulseCounter(reward.KindMultiplier)
	case reward.KindEnd:
		c.ended = true
		c.phase = PhaseConcluding
		c.sweep()
		c.concludeIfSettled()
	}
}

// sweep force-reveals every unclicked tile in ascending slot order.
func (c *Controller) sweep() {
	swept := 0
	for _, t := range c.tiles {
		if t.Clicked() {
			continue
		}
		t.ForceReveal(c.drawOrZero())
		swept++
	}
	c.logger.Info("round swept", "round", c.roundID, "revealed", swept, "pending", c.inflight)
}

// drawOrZero takes the entry at the draw pointer. An exhausted deck yields
// a zero-effect round bonus so that every tile still ends up revealed.
func (c *Controller) drawOrZero() reward.Reward {
	if c.pointer >= len(c.order) {
		c.logger.Warn("deck exhausted", "round", c.roundID, "pointer", c.pointer)
		return reward.RoundBonus(0)
	}
	entry := c.order[c.pointer]
	c.pointer++
	return entry
}

func (c *Controller) concludeIfSettled() {
	if c.phase != PhaseConcluding || c.inflight > 0 {
		return
	}
	c.phase = PhaseConcluded
	c.closeDone()

	s := c.stateLocked()
	c.hud.RoundConcluded(s)
	c.logger.Info("round concluded", "round", s.RoundID, "rounds", s.RoundCount, "multiplier", s.Multiplier)
}

func (c *Controller) closeDone() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}
