package main

import (
	"testing"

	"gridsnake/game/types"
)

func TestNewGameMatchesBoard(t *testing.T) {
	g, err := newGame(1)
	if err != nil {
		t.Fatal(err)
	}
	if g.Grid.Width != 20 || g.Grid.Height != 20 || g.Grid.Boundary != types.Toroidal {
		t.Errorf("Unexpected grid %+v", g.Grid)
	}
	want := []types.Point{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}
	got := g.Snake()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if g.Direction() != types.Right {
		t.Errorf("Expected to start heading right, got %v", g.Direction())
	}
}
