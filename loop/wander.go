package loop

import (
	"gridsnake/game"
	"gridsnake/game/types"

	"golang.org/x/exp/rand"
)

// Snapshotter reports the current game state
type Snapshotter interface {
	Snapshot() game.Snapshot
}

// Wander wraps an Input and, with probability rate per game tick, adds a
// random turn that is never a reversal of the current heading. It rolls
// once per step whatever the frame rate or step interval, and stays quiet
// while the game is paused or over.
type Wander struct {
	inner  Input
	source Snapshotter
	rate   float64
	rng    *rand.Rand
	paused func() bool

	lastID   string
	lastStep int
	rolled   bool
}

func NewWander(inner Input, source Snapshotter, rate float64, seed uint64) *Wander {
	return &Wander{
		inner:  inner,
		source: source,
		rate:   rate,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// WithPaused sets the pause state source, usually Driver.Paused
func (w *Wander) WithPaused(paused func() bool) *Wander {
	w.paused = paused
	return w
}

func (w *Wander) Poll() []Command {
	cmds := w.inner.Poll()
	if w.rate <= 0 {
		return cmds
	}

	snap := w.source.Snapshot()
	if snap.Over() || (w.paused != nil && w.paused()) {
		return cmds
	}
	if w.rolled && snap.ID == w.lastID && snap.Steps == w.lastStep {
		return cmds
	}
	w.lastID, w.lastStep, w.rolled = snap.ID, snap.Steps, true
	if w.rng.Float64() >= w.rate {
		return cmds
	}

	options := make([]types.Direction, 0, 3)
	for _, d := range []types.Direction{types.Up, types.Right, types.Down, types.Left} {
		if d != snap.Direction.Opposite() {
			options = append(options, d)
		}
	}
	turn := options[w.rng.Intn(len(options))]
	// Player input wins over the drift, so the drift goes first
	return append([]Command{CommandFor(turn)}, cmds...)
}
