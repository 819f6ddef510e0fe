package flock

// SheepSnapshot captures one sheep.
type SheepSnapshot struct {
	Slot    int
	Clicked bool
	Locked  bool
	Reward  string // text form, empty while hidden
	Clip    string
	Held    bool // last frame of Clip frozen
	Star    bool
}

// Snapshot captures the complete game state for tests and debugging.
type Snapshot struct {
	Tick        uint64
	RoundID     string
	Phase       string
	DrawPointer int
	RoundCount  int
	Multiplier  int
	Cursor      int
	Paused      bool
	Pending     int // unfired reveal deadlines
	Sheep       []SheepSnapshot
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.ctrl == nil {
		return Snapshot{Tick: g.tick}
	}

	s := g.ctrl.State()
	snap := Snapshot{
		Tick:        g.tick,
		RoundID:     s.RoundID,
		Phase:       s.Phase.String(),
		DrawPointer: s.DrawPointer,
		RoundCount:  s.RoundCount,
		Multiplier:  s.Multiplier,
		Cursor:      g.cursor,
		Paused:      g.paused,
		Pending:     g.clock.pending(),
		Sheep:       make([]SheepSnapshot, 0, g.ctrl.Len()),
	}
	for _, t := range g.ctrl.Tiles() {
		clip, held := g.players[t.Slot()].current()
		snap.Sheep = append(snap.Sheep, SheepSnapshot{
			Slot:    t.Slot(),
			Clicked: t.Clicked(),
			Locked:  t.Locked(),
			Reward:  t.Revealed().String(),
			Clip:    string(clip),
			Held:    held,
			Star:    g.views[t.Slot()].label().Star,
		})
	}
	return snap
}
