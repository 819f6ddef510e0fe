// Package autoplay plays complete rounds without a terminal, for the
// simulate command and for exercising the round controller under load.
package autoplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-flock/internal/reward"
	"github.com/vovakirdan/tui-flock/internal/round"
)

// Order is the sequence in which tiles are picked.
type Order string

const (
	OrderRandom    Order = "random"
	OrderAscending Order = "ascending"
)

// ErrUnknownOrder is returned by ParseOrder.
var ErrUnknownOrder = errors.New("autoplay: unknown order")

// ParseOrder parses an order name, case-insensitively.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderRandom, OrderAscending:
		return o, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownOrder, s)
}

// Options configures a headless round.
type Options struct {
	Deck  reward.Deck // nil means the default deck
	Seed  int64
	Order Order

	// Concurrent fires every pick at once instead of one after another.
	Concurrent bool
	// Workers caps concurrent picks; zero means no cap.
	Workers int
	// Delay stands in for the reveal animation. Zero reveals immediately.
	Delay time.Duration

	Logger *log.Logger
}

// Reveal is the outcome for one tile.
type Reveal struct {
	Slot   int
	Reward reward.Reward
	Picked bool // revealed by its own pick rather than the sweep
}

// Report summarises a finished round.
type Report struct {
	RoundID     string
	Picks       []int    // attempted pick order
	Reveals     []Reveal // in slot order
	DrawPointer int
	RoundCount  int
	Multiplier  int
	Elapsed     time.Duration
}

// Run deals one round and picks tiles until it concludes.
func Run(ctx context.Context, opts Options) (Report, error) {
	deck := opts.Deck
	if deck == nil {
		deck = reward.DefaultDeck()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	order := opts.Order
	if order == "" {
		order = OrderRandom
	}

	c, err := round.New(deck,
		round.WithShuffler(rand.New(rand.NewSource(opts.Seed))),
		round.WithLogger(logger),
		round.WithPresenter(func(int) (round.Animator, round.Display) {
			if opts.Delay <= 0 {
				return nil, nil
			}
			return &timedAnimator{delay: opts.Delay}, nil
		}),
	)
	if err != nil {
		return Report{}, fmt.Errorf("autoplay: %w", err)
	}

	start := time.Now()
	c.NewRound()
	picks := pickOrder(order, c.Len(), opts.Seed)

	if opts.Concurrent {
		err = pickConcurrently(ctx, c, picks, opts.Workers)
	} else {
		err = pickInOrder(ctx, c, picks)
	}
	if err != nil {
		return Report{}, err
	}

	select {
	case <-c.Done():
	case <-ctx.Done():
		return Report{}, fmt.Errorf("autoplay: waiting for round: %w", ctx.Err())
	}

	s := c.State()
	rep := Report{
		RoundID:     s.RoundID,
		Picks:       picks,
		Reveals:     make([]Reveal, 0, c.Len()),
		DrawPointer: s.DrawPointer,
		RoundCount:  s.RoundCount,
		Multiplier:  s.Multiplier,
		Elapsed:     time.Since(start),
	}
	for _, t := range c.Tiles() {
		rep.Reveals = append(rep.Reveals, Reveal{
			Slot:   t.Slot(),
			Reward: t.Revealed(),
			Picked: !t.Locked(),
		})
	}
	logger.Info("autoplay finished", "round", rep.RoundID, "order", order,
		"concurrent", opts.Concurrent, "rounds", rep.RoundCount, "multiplier", rep.Multiplier)
	return rep, nil
}

func pickOrder(order Order, n int, seed int64) []int {
	if order == OrderAscending {
		picks := make([]int, n)
		for i := range picks {
			picks[i] = i
		}
		return picks
	}
	return rand.New(rand.NewSource(seed)).Perm(n)
}

// pickInOrder stops early once the round has ended; further picks would be
// ignored anyway.
func pickInOrder(ctx context.Context, c *round.Controller, picks []int) error {
	for _, slot := range picks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("autoplay: %w", err)
		}
		if c.State().Ended {
			return nil
		}
		c.OnTileActivated(ctx, slot)
	}
	return nil
}

func pickConcurrently(ctx context.Context, c *round.Controller, picks []int, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, slot := range picks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.OnTileActivated(gctx, slot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("autoplay: %w", err)
	}
	return nil
}

// timedAnimator completes the reveal clip after a fixed delay.
type timedAnimator struct {
	delay time.Duration
}

func (a *timedAnimator) Play(clip round.Clip) <-chan struct{} {
	done := make(chan struct{})
	if clip == round.ClipJump {
		time.AfterFunc(a.delay, func() { close(done) })
	}
	return done
}

func (a *timedAnimator) Hold(round.Clip) {}
