// Package flock is the pick-a-sheep reward game. Fifteen sheep stand in a
// 3x5 pen, each hiding one entry of a shuffled deck; picking a sheep makes
// it jump and reveals its reward until the END entry closes the round.
package flock

import (
	"context"
	"io"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flock/internal/config"
	"github.com/vovakirdan/tui-flock/internal/core"
	"github.com/vovakirdan/tui-flock/internal/registry"
	"github.com/vovakirdan/tui-flock/internal/reward"
	"github.com/vovakirdan/tui-flock/internal/round"
)

// ID is the registry identifier of the game.
const ID = "flock"

// Package-level settings picked up by games created through the registry.
var (
	settingsMu     sync.Mutex
	settingsCfg    = config.DefaultFlockConfig()
	settingsLogger = log.New(io.Discard)
)

// Configure sets the configuration and logger for games created afterwards.
// A nil logger discards output.
func Configure(cfg config.FlockConfig, logger *log.Logger) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settingsCfg = cfg
	if logger == nil {
		logger = log.New(io.Discard)
	}
	settingsLogger = logger
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}

// Game implements registry.Game on top of a round.Controller.
type Game struct {
	cfg    config.FlockConfig
	deck   reward.Deck
	logger *log.Logger

	ctrl    *round.Controller
	players []*clipPlayer
	views   []*sheepView
	hud     *hud
	clock   *tickClock

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup // activations waiting on their reveal

	tick     uint64
	tickRate int
	seed     int64
	cursor   int
	paused   bool
	tooSmall bool

	screenW int
	screenH int
	grid    core.Rect
	hits    []core.Rect
	button  core.Rect
}

// New creates a game from the package settings.
func New() *Game {
	settingsMu.Lock()
	cfg, logger := settingsCfg, settingsLogger
	settingsMu.Unlock()
	return NewWithConfig(cfg, logger)
}

// NewWithConfig creates a game with an explicit configuration. An invalid
// deck falls back to the default one.
func NewWithConfig(cfg config.FlockConfig, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	deck, err := cfg.ParseDeck()
	if err != nil {
		logger.Warn("using default deck", "err", err)
		deck = reward.DefaultDeck()
	}
	return &Game{
		cfg:    cfg,
		deck:   deck,
		logger: logger.With("game", ID),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Lucky Flock"
}

// Reset builds a fresh pen and deals the first round.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.shutdown()

	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.seed = rc.Seed
	g.tick = 0
	g.cursor = 0
	g.paused = false
	g.ctx, g.cancel = context.WithCancel(context.Background())

	a := g.cfg.Animation
	clips := clipTable(a.RunFrame(), a.Jump(), a.Down(), g.tickRate)
	feedbackTicks := ticksFor(a.Feedback(), g.tickRate)

	g.players = make([]*clipPlayer, len(g.deck))
	g.views = make([]*sheepView, len(g.deck))
	for i := range g.deck {
		g.players[i] = newClipPlayer(clips)
		g.views[i] = newSheepView(feedbackTicks)
	}
	g.hud = newHUD(ticksFor(a.Pulse(), g.tickRate))
	g.clock = newTickClock(g.tickRate)

	ctrl, err := round.New(g.deck,
		round.WithShuffler(rand.New(rand.NewSource(g.seed))),
		round.WithHUD(g.hud),
		round.WithClock(g.clock),
		round.WithLogger(g.logger),
		round.WithRevealTimeout(a.RevealTimeout()),
		round.WithPresenter(func(slot int) (round.Animator, round.Display) {
			return g.players[slot], g.views[slot]
		}),
	)
	if err != nil {
		// The deck was validated in NewWithConfig.
		panic(err)
	}
	g.ctrl = ctrl
	g.ctrl.NewRound()

	g.Resize(rc.ScreenW, rc.ScreenH)
}

// Resize recomputes the layout without touching the round.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.layout()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall || g.ctrl == nil {
		return core.StepResult{State: g.State()}
	}

	g.advance()

	if in.Has(core.ActionRestart) {
		g.newRound()
		return core.StepResult{State: g.State()}
	}

	g.moveCursor(in)
	if in.Has(core.ActionPick) {
		g.activate(g.cursor)
	}
	for _, p := range in.Clicks {
		g.click(p)
	}

	return core.StepResult{State: g.State()}
}

// advance moves every clip, effect and deadline one tick forward.
func (g *Game) advance() {
	for _, p := range g.players {
		p.advance()
	}
	for _, v := range g.views {
		v.advance()
	}
	g.hud.advance()
	g.clock.advance()
}

func (g *Game) newRound() {
	g.hud.newRound()
	g.ctrl.ResetRound()
}

func (g *Game) moveCursor(in core.InputFrame) {
	row, col := g.cursor/config.GridCols, g.cursor%config.GridCols
	switch {
	case in.Has(core.ActionUp):
		row--
	case in.Has(core.ActionDown):
		row++
	case in.Has(core.ActionLeft):
		col--
	case in.Has(core.ActionRight):
		col++
	}
	row = core.Clamp(row, 0, config.GridRows-1)
	col = core.Clamp(col, 0, config.GridCols-1)
	g.cursor = row*config.GridCols + col
}

// click handles a pointer click at screen coordinates.
func (g *Game) click(p core.Point) {
	if g.button.Contains(p.X, p.Y) {
		g.newRound()
		return
	}
	for slot, r := range g.hits {
		if r.Contains(p.X, p.Y) {
			g.cursor = slot
			g.activate(slot)
			return
		}
	}
}

// activate presses the sheep at slot on its own goroutine; the press blocks
// until the reveal animation completes.
func (g *Game) activate(slot int) {
	t := g.ctrl.Tile(slot)
	if t == nil || t.Clicked() {
		return
	}
	ctx := g.ctx
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		t.Press(ctx)
	}()
}

// shutdown releases every waiting activation and waits for it to finish.
func (g *Game) shutdown() {
	if g.cancel != nil {
		g.cancel()
	}
	for _, p := range g.players {
		p.release()
	}
	if g.clock != nil {
		g.clock.flush()
	}
	g.wg.Wait()
}

// Close stops background work. The game must be Reset before further use.
func (g *Game) Close() error {
	g.shutdown()
	return nil
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	concluded := false
	if g.ctrl != nil {
		concluded = g.ctrl.State().Phase == round.PhaseConcluded
	}
	return core.GameState{
		GameOver: concluded,
		Paused:   g.paused || g.tooSmall,
	}
}
