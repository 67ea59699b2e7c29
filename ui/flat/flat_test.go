package flat

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"gridsnake/game"
	"gridsnake/game/types"
	"gridsnake/loop"

	"github.com/hajimehoshi/ebiten/v2"
)

type quitAfter struct {
	polls int
}

func (q *quitAfter) Poll() []loop.Command {
	q.polls--
	if q.polls < 0 {
		return []loop.Command{loop.CmdQuit}
	}
	return nil
}

func newTestGame(t *testing.T, in loop.Input) (*Game, *Renderer) {
	t.Helper()
	g, err := game.NewGame(game.Config{Width: 20, Height: 15, Boundary: types.Toroidal, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	r := &Renderer{}
	d := loop.NewDriver(g, in, loop.WithRenderer(r), loop.WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	return NewGame(d, r), r
}

func TestUpdateRendersThenTerminates(t *testing.T) {
	eg, r := newTestGame(t, &quitAfter{polls: 2})
	clock := time.Unix(0, 0)
	eg.now = func() time.Time {
		clock = clock.Add(100 * time.Millisecond)
		return clock
	}

	for i := 0; i < 2; i++ {
		if err := eg.Update(); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	snap, ok := r.Last()
	if !ok {
		t.Fatal("Expected a rendered snapshot")
	}
	if snap.Steps != 1 {
		t.Errorf("Expected one step after two frames 100ms apart, got %d", snap.Steps)
	}
	if err := eg.Update(); err != ebiten.Termination {
		t.Errorf("Expected ebiten.Termination on quit, got %v", err)
	}
}

func TestLayoutMatchesGrid(t *testing.T) {
	eg, _ := newTestGame(t, &quitAfter{})
	w, h := eg.Layout(1280, 720)
	if w != 20*CellSize || h != 15*CellSize {
		t.Errorf("Expected %dx%d, got %dx%d", 20*CellSize, 15*CellSize, w, h)
	}
}

func TestCellRect(t *testing.T) {
	x, y, size := CellRect(2, 3, 1)
	if x != 2*CellSize || y != 3*CellSize || size != CellSize {
		t.Errorf("Unexpected full cell %v,%v,%v", x, y, size)
	}
	x, _, size = CellRect(0, 0, 0.5)
	if size != CellSize/2 || x != CellSize/4 {
		t.Errorf("Expected a centred half cell, got x=%v size=%v", x, size)
	}
}

func TestHUDLines(t *testing.T) {
	running := HUDLines(game.Snapshot{Score: 60, Level: 2, Alive: true}, false)
	if len(running) != 1 || running[0] != "Score: 60 | Level: 2" {
		t.Errorf("Unexpected running HUD %v", running)
	}
	if paused := HUDLines(game.Snapshot{Alive: true}, true); !strings.Contains(paused[1], "Paused") {
		t.Errorf("Expected paused line, got %v", paused)
	}
	if over := HUDLines(game.Snapshot{Score: 10}, false); !strings.HasPrefix(over[1], "GAME OVER!") {
		t.Errorf("Expected game over line, got %v", over)
	}
}
