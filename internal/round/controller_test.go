package round

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-flock/internal/reward"
)

func newStarted(t *testing.T, deck reward.Deck, opts ...Option) *Controller {
	t.Helper()
	c, err := New(deck, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	c.NewRound()
	return c
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestNewRejectsInvalidDeck(t *testing.T) {
	_, err := New(reward.Deck{reward.RoundBonus(1)})
	if !errors.Is(err, reward.ErrNoEnd) {
		t.Fatalf("New() error = %v, want ErrNoEnd", err)
	}
}

func TestNewBuildsOneTilePerEntry(t *testing.T) {
	c, err := New(reward.DefaultDeck())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if c.Len() != 15 {
		t.Errorf("Len() = %d, want 15", c.Len())
	}
	for i, tile := range c.Tiles() {
		if tile.Slot() != i {
			t.Errorf("tile %d has slot %d", i, tile.Slot())
		}
	}
	if c.Tile(-1) != nil || c.Tile(15) != nil {
		t.Error("Tile() should return nil out of range")
	}
}

func TestActivationBeforeFirstRoundIgnored(t *testing.T) {
	c, err := New(reward.DefaultDeck())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	c.OnTileActivated(context.Background(), 0)

	if c.Tile(0).Clicked() {
		t.Error("tile should not be claimed before a round is dealt")
	}
	if s := c.State(); s.Phase != PhaseIdle || s.DrawPointer != 0 {
		t.Errorf("State() = %+v, want idle with pointer 0", s)
	}
}

func TestScenarioDeckIsDefaultPermutation(t *testing.T) {
	deck := scenarioDeck()
	want := reward.DefaultDeck().Counts()
	got := deck.Counts()
	if len(got) != len(want) {
		t.Fatalf("distinct entries = %d, want %d", len(got), len(want))
	}
	for r, n := range want {
		if got[r] != n {
			t.Errorf("count of %s = %d, want %d", r, got[r], n)
		}
	}

	rest := deck[3:].Counts()
	wantRest := map[reward.Reward]int{
		reward.RoundBonus(2): 7,
		reward.RoundBonus(1): 1,
		reward.Multiplier(1): 4,
	}
	if len(rest) != len(wantRest) {
		t.Errorf("remaining entries = %v, want %v", rest, wantRest)
	}
	for r, n := range wantRest {
		if rest[r] != n {
			t.Errorf("remaining count of %s = %d, want %d", r, rest[r], n)
		}
	}
}

func TestFixedDeckScenario(t *testing.T) {
	deck := scenarioDeck()
	hud := &recordHUD{}
	c := newStarted(t, deck, WithHUD(hud))
	ctx := context.Background()

	c.OnTileActivated(ctx, 4)
	if s := c.State(); s.Multiplier != 2 || s.RoundCount != 1 {
		t.Fatalf("after x1: round=%d multiplier=%d, want 1 and 2", s.RoundCount, s.Multiplier)
	}

	c.OnTileActivated(ctx, 9)
	if s := c.State(); s.RoundCount != 3 || s.Multiplier != 2 {
		t.Fatalf("after +2: round=%d multiplier=%d, want 3 and 2", s.RoundCount, s.Multiplier)
	}

	c.OnTileActivated(ctx, 0)
	s := c.State()
	if !s.Ended || s.Phase != PhaseConcluded {
		t.Fatalf("after END: ended=%v phase=%s, want ended and concluded", s.Ended, s.Phase)
	}
	if s.DrawPointer != 15 {
		t.Errorf("DrawPointer = %d, want 15", s.DrawPointer)
	}
	if s.RoundCount != 3 || s.Multiplier != 2 {
		t.Errorf("sweep changed counters: round=%d multiplier=%d", s.RoundCount, s.Multiplier)
	}

	clicked := map[int]reward.Reward{4: deck[0], 9: deck[1], 0: deck[2]}
	next := 3
	for slot := range 15 {
		tile := c.Tile(slot)
		if want, ok := clicked[slot]; ok {
			if tile.Revealed() != want {
				t.Errorf("slot %d revealed %s, want %s", slot, tile.Revealed(), want)
			}
			if tile.Locked() {
				t.Errorf("slot %d was picked by the player and should not be locked", slot)
			}
			continue
		}
		if !tile.Clicked() || !tile.Locked() {
			t.Errorf("slot %d should be swept: clicked=%v locked=%v", slot, tile.Clicked(), tile.Locked())
		}
		if tile.Revealed() != deck[next] {
			t.Errorf("slot %d revealed %s, want deck[%d]=%s", slot, tile.Revealed(), next, deck[next])
		}
		next++
	}

	if !isClosed(c.Done()) {
		t.Error("Done() should be closed once the round concludes")
	}

	hud.mu.Lock()
	defer hud.mu.Unlock()
	wantCounters := [][2]int{{1, 1}, {1, 2}, {3, 2}}
	if fmt.Sprint(hud.counters) != fmt.Sprint(wantCounters) {
		t.Errorf("HUD counters = %v, want %v", hud.counters, wantCounters)
	}
	wantPulses := []reward.Kind{reward.KindMultiplier, reward.KindRoundBonus}
	if fmt.Sprint(hud.pulses) != fmt.Sprint(wantPulses) {
		t.Errorf("HUD pulses = %v, want %v", hud.pulses, wantPulses)
	}
	if len(hud.concluded) != 1 {
		t.Fatalf("RoundConcluded called %d times, want 1", len(hud.concluded))
	}
	if got := hud.concluded[0]; got.RoundCount != 3 || got.Multiplier != 2 || got.Phase != PhaseConcluded {
		t.Errorf("RoundConcluded state = %+v", got)
	}
}

func TestIgnoredActivationsDoNotMutate(t *testing.T) {
	c := newStarted(t, scenarioDeck())
	ctx := context.Background()

	c.OnTileActivated(ctx, 2)
	before := c.State()

	for _, slot := range []int{-1, 15, 99, 2} {
		c.OnTileActivated(ctx, slot)
		if after := c.State(); after != before {
			t.Errorf("activation of slot %d changed state: %+v -> %+v", slot, before, after)
		}
	}

	c.OnTileActivated(ctx, 3)  // +2
	c.OnTileActivated(ctx, 11) // END
	ended := c.State()
	if !ended.Ended {
		t.Fatal("round should have ended")
	}

	for _, slot := range []int{0, 3, 7, 14} {
		c.OnTileActivated(ctx, slot)
		if after := c.State(); after != ended {
			t.Errorf("late activation of slot %d changed state: %+v -> %+v", slot, ended, after)
		}
	}
}

func TestResetRoundRestoresInitialState(t *testing.T) {
	ids := 0
	c := newStarted(t, scenarioDeck(), WithIDGenerator(func() string {
		ids++
		return fmt.Sprintf("round-%d", ids)
	}))
	ctx := context.Background()

	for _, slot := range []int{0, 1, 2} {
		c.OnTileActivated(ctx, slot)
	}
	prev := c.State()
	if prev.Phase != PhaseConcluded {
		t.Fatalf("round should be concluded, got %s", prev.Phase)
	}
	prevDone := c.Done()

	c.ResetRound()

	s := c.State()
	if s.RoundCount != 1 || s.Multiplier != 1 || s.Ended || s.DrawPointer != 0 {
		t.Errorf("after ResetRound: %+v", s)
	}
	if s.Phase != PhaseActive {
		t.Errorf("Phase = %s, want active", s.Phase)
	}
	if s.Generation != prev.Generation+1 {
		t.Errorf("Generation = %d, want %d", s.Generation, prev.Generation+1)
	}
	if s.RoundID != "round-2" {
		t.Errorf("RoundID = %q, want round-2", s.RoundID)
	}
	if isClosed(c.Done()) {
		t.Error("new round should have an open Done channel")
	}
	if !isClosed(prevDone) {
		t.Error("previous Done channel should stay closed")
	}
	for _, tile := range c.Tiles() {
		if tile.Clicked() || tile.Locked() || !tile.Revealed().IsZero() {
			t.Errorf("slot %d not reset: clicked=%v locked=%v revealed=%q",
				tile.Slot(), tile.Clicked(), tile.Locked(), tile.Revealed())
		}
	}
}

func TestResetRoundMidRound(t *testing.T) {
	c := newStarted(t, scenarioDeck())
	ctx := context.Background()
	c.OnTileActivated(ctx, 7)
	c.OnTileActivated(ctx, 8)

	c.ResetRound()

	if s := c.State(); s.RoundCount != 1 || s.Multiplier != 1 || s.DrawPointer != 0 || s.Ended {
		t.Errorf("after mid-round reset: %+v", s)
	}
	if c.Tile(7).Clicked() || c.Tile(8).Clicked() {
		t.Error("tiles should be clickable again")
	}
}

func TestCompleteRoundsFromRandomShuffles(t *testing.T) {
	deck := reward.DefaultDeck()
	want := deck.Counts()
	ctx := context.Background()

	for seed := int64(1); seed <= 100; seed++ {
		c := newStarted(t, deck, WithShuffler(rand.New(rand.NewSource(seed))))
		picks := rand.New(rand.NewSource(seed * 31)).Perm(c.Len())

		for _, slot := range picks {
			before := c.State()
			c.OnTileActivated(ctx, slot)
			after := c.State()

			if before.Ended {
				if after != before {
					t.Fatalf("seed %d: activation after end changed state", seed)
				}
				continue
			}

			entry := c.Tile(slot).Revealed()
			dRound := after.RoundCount - before.RoundCount
			dMult := after.Multiplier - before.Multiplier
			switch entry.Kind {
			case reward.KindRoundBonus:
				if dRound != entry.N || dMult != 0 {
					t.Fatalf("seed %d: %s changed counters by (%d, %d)", seed, entry, dRound, dMult)
				}
			case reward.KindMultiplier:
				if dMult != entry.N || dRound != 0 {
					t.Fatalf("seed %d: %s changed counters by (%d, %d)", seed, entry, dRound, dMult)
				}
			case reward.KindEnd:
				if dRound != 0 || dMult != 0 || !after.Ended {
					t.Fatalf("seed %d: END changed counters or did not end the round", seed)
				}
			default:
				t.Fatalf("seed %d: slot %d revealed nothing", seed, slot)
			}
			if after.DrawPointer < before.DrawPointer {
				t.Fatalf("seed %d: draw pointer went backwards", seed)
			}
		}

		s := c.State()
		if s.Phase != PhaseConcluded || s.DrawPointer != 15 {
			t.Fatalf("seed %d: final state %+v", seed, s)
		}
		got := make(map[reward.Reward]int)
		for _, tile := range c.Tiles() {
			if tile.Revealed().IsZero() || !tile.Clicked() {
				t.Fatalf("seed %d: slot %d not revealed", seed, tile.Slot())
			}
			got[tile.Revealed()]++
		}
		for r, n := range want {
			if got[r] != n {
				t.Fatalf("seed %d: revealed %d x %s, want %d", seed, got[r], r, n)
			}
		}
	}
}

func TestActivationWaitsForRevealAnimation(t *testing.T) {
	deck := scenarioDeck()
	anims := make([]*manualAnimator, len(deck))
	for i := range anims {
		anims[i] = newManualAnimator()
	}
	c := newStarted(t, deck, WithPresenter(func(slot int) (Animator, Display) {
		return anims[slot], nil
	}))
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		c.OnTileActivated(ctx, 5)
		close(done)
	}()
	anims[5].waitFor(ClipJump)

	if !c.Tile(5).Clicked() {
		t.Error("tile should be claimed before its animation completes")
	}
	if s := c.State(); s.DrawPointer != 0 {
		t.Errorf("DrawPointer = %d before animation completed, want 0", s.DrawPointer)
	}

	// A second click on the in-flight tile returns without blocking.
	c.OnTileActivated(ctx, 5)

	anims[5].finishJump()
	<-done

	if s := c.State(); s.DrawPointer != 1 || s.Multiplier != 2 {
		t.Errorf("after reveal: %+v", s)
	}
	if got := c.Tile(5).Revealed(); got != deck[0] {
		t.Errorf("Revealed() = %s, want %s", got, deck[0])
	}
	if held := anims[5].held(); len(held) != 1 || held[0] != ClipJump {
		t.Errorf("held clips = %v, want [jump]", held)
	}
}

func TestRevealFallsBackToDeadline(t *testing.T) {
	anim := newManualAnimator()
	clk := newManualClock()
	c := newStarted(t, scenarioDeck(),
		WithClock(clk),
		WithRevealTimeout(750*time.Millisecond),
		WithPresenter(func(slot int) (Animator, Display) {
			if slot == 0 {
				return anim, nil
			}
			return nil, nil
		}),
	)

	done := make(chan struct{})
	go func() {
		c.OnTileActivated(context.Background(), 0)
		close(done)
	}()

	if d := <-clk.asked; d != 750*time.Millisecond {
		t.Errorf("deadline = %v, want 750ms", d)
	}
	clk.fireAll()
	<-done

	if s := c.State(); s.DrawPointer != 1 {
		t.Errorf("DrawPointer = %d, want 1", s.DrawPointer)
	}
}

func TestRevealReturnsOnContextCancel(t *testing.T) {
	anim := newManualAnimator()
	c := newStarted(t, scenarioDeck(),
		WithRevealTimeout(time.Hour),
		WithPresenter(func(int) (Animator, Display) { return anim, nil }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.OnTileActivated(ctx, 3)
		close(done)
	}()
	anim.waitFor(ClipJump)
	cancel()
	<-done

	if got := c.Tile(3).Revealed(); got.IsZero() {
		t.Error("tile should still be revealed after cancellation")
	}
}

func TestCompletionOrderDeterminesDrawOrder(t *testing.T) {
	deck := scenarioDeck()
	anims := map[int]*manualAnimator{1: newManualAnimator(), 2: newManualAnimator()}
	c := newStarted(t, deck, WithPresenter(func(slot int) (Animator, Display) {
		if a, ok := anims[slot]; ok {
			return a, nil
		}
		return nil, nil
	}))
	ctx := context.Background()

	first := make(chan struct{})
	go func() {
		c.OnTileActivated(ctx, 1)
		close(first)
	}()
	anims[1].waitFor(ClipJump)

	second := make(chan struct{})
	go func() {
		c.OnTileActivated(ctx, 2)
		close(second)
	}()
	anims[2].waitFor(ClipJump)

	anims[2].finishJump()
	<-second
	anims[1].finishJump()
	<-first

	if got := c.Tile(2).Revealed(); got != deck[0] {
		t.Errorf("slot 2 (finished first) revealed %s, want %s", got, deck[0])
	}
	if got := c.Tile(1).Revealed(); got != deck[1] {
		t.Errorf("slot 1 (finished second) revealed %s, want %s", got, deck[1])
	}
}

func TestConcurrentActivationsDrawDistinctEntries(t *testing.T) {
	deck := reward.DefaultDeck()
	for seed := int64(1); seed <= 20; seed++ {
		c := newStarted(t, deck, WithShuffler(rand.New(rand.NewSource(seed))))

		var wg sync.WaitGroup
		for slot := range c.Len() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.OnTileActivated(context.Background(), slot)
			}()
		}
		wg.Wait()

		s := c.State()
		if s.DrawPointer != 15 || s.Phase != PhaseConcluded {
			t.Fatalf("seed %d: final state %+v", seed, s)
		}
		got := make(map[reward.Reward]int)
		for _, tile := range c.Tiles() {
			got[tile.Revealed()]++
		}
		for r, n := range deck.Counts() {
			if got[r] != n {
				t.Fatalf("seed %d: revealed %d x %s, want %d", seed, got[r], r, n)
			}
		}
	}
}

func TestInFlightTileRevealedAfterSweep(t *testing.T) {
	deck := reward.Deck{reward.End()}
	for range 7 {
		deck = append(deck, reward.RoundBonus(2))
	}
	deck = append(deck, reward.RoundBonus(1))
	for range 6 {
		deck = append(deck, reward.Multiplier(1))
	}

	slow := newManualAnimator()
	hud := &recordHUD{}
	c := newStarted(t, deck, WithHUD(hud), WithPresenter(func(slot int) (Animator, Display) {
		if slot == 1 {
			return slow, nil
		}
		return nil, nil
	}))
	ctx := context.Background()

	inflight := make(chan struct{})
	go func() {
		c.OnTileActivated(ctx, 1)
		close(inflight)
	}()
	slow.waitFor(ClipJump)

	c.OnTileActivated(ctx, 0) // draws END

	s := c.State()
	if !s.Ended || s.Phase != PhaseConcluding {
		t.Fatalf("with a reveal in flight: ended=%v phase=%s, want concluding", s.Ended, s.Phase)
	}
	if s.DrawPointer != 14 {
		t.Errorf("DrawPointer = %d after sweep, want 14", s.DrawPointer)
	}
	if !c.Tile(1).Revealed().IsZero() {
		t.Error("in-flight tile must not be swept")
	}
	if isClosed(c.Done()) {
		t.Error("round should not be done while a reveal is pending")
	}

	slow.finishJump()
	<-inflight

	s = c.State()
	if s.Phase != PhaseConcluded || s.DrawPointer != 15 {
		t.Fatalf("after late reveal: %+v", s)
	}
	if s.RoundCount != 1 || s.Multiplier != 1 {
		t.Errorf("late reveal changed counters: round=%d multiplier=%d", s.RoundCount, s.Multiplier)
	}
	late := c.Tile(1)
	if late.Revealed() != deck[14] || !late.Locked() {
		t.Errorf("late tile revealed=%s locked=%v, want %s locked", late.Revealed(), late.Locked(), deck[14])
	}
	if !isClosed(c.Done()) {
		t.Error("Done() should close once the late reveal lands")
	}

	hud.mu.Lock()
	defer hud.mu.Unlock()
	if len(hud.pulses) != 0 {
		t.Errorf("no counter pulses expected, got %v", hud.pulses)
	}
	if len(hud.concluded) != 1 {
		t.Errorf("RoundConcluded called %d times, want 1", len(hud.concluded))
	}
}

func TestStaleActivationDroppedAfterReset(t *testing.T) {
	slow := newManualAnimator()
	c := newStarted(t, scenarioDeck(), WithPresenter(func(slot int) (Animator, Display) {
		if slot == 3 {
			return slow, nil
		}
		return nil, nil
	}))

	done := make(chan struct{})
	go func() {
		c.OnTileActivated(context.Background(), 3)
		close(done)
	}()
	slow.waitFor(ClipJump)

	c.ResetRound()
	slow.finishJump()
	<-done

	s := c.State()
	if s.DrawPointer != 0 || s.Multiplier != 1 || s.RoundCount != 1 {
		t.Errorf("stale activation mutated the new round: %+v", s)
	}
	if c.Tile(3).Clicked() || !c.Tile(3).Revealed().IsZero() {
		t.Error("tile 3 should be fresh in the new round")
	}

	// The tile is usable again in the new round.
	again := make(chan struct{})
	go func() {
		c.OnTileActivated(context.Background(), 3)
		close(again)
	}()
	slow.waitFor(ClipJump)
	slow.finishJump()
	<-again
	if s := c.State(); s.DrawPointer != 1 {
		t.Errorf("DrawPointer = %d, want 1", s.DrawPointer)
	}
}

func TestSweepFallsBackWhenDeckExhausted(t *testing.T) {
	c := newStarted(t, reward.Deck{reward.End(), reward.RoundBonus(1)})

	// Shorten the dealt order so the sweep runs dry.
	c.mu.Lock()
	c.order = c.order[:1]
	c.mu.Unlock()

	c.OnTileActivated(context.Background(), 0)

	if got := c.Tile(1).Revealed(); got != reward.RoundBonus(0) {
		t.Errorf("exhausted sweep revealed %q, want +0", got)
	}
	if s := c.State(); s.Phase != PhaseConcluded || s.RoundCount != 1 {
		t.Errorf("final state %+v", s)
	}
}
