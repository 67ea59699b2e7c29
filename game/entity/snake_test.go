package entity

import (
	"testing"

	"gridsnake/game/types"
)

func TestNewSnakeLayout(t *testing.T) {
	s := NewSnake(types.Point{X: 5, Y: 5}, types.Right, 3)
	want := []types.Point{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}
	for i, c := range s.Body {
		if c != want[i] {
			t.Errorf("cell %d: expected %v, got %v", i, want[i], c)
		}
		if !s.Occupies(c) {
			t.Errorf("cell %v missing from occupancy", c)
		}
	}
	if s.GetHead() != want[0] || s.GetTail() != want[2] {
		t.Errorf("Unexpected head %v / tail %v", s.GetHead(), s.GetTail())
	}
}

func TestMoveAndRemoveTailKeepOccupancy(t *testing.T) {
	s := NewSnake(types.Point{X: 5, Y: 5}, types.Right, 3)
	s.SetDirection(types.Down)
	next := s.NextHead()
	if next != (types.Point{X: 5, Y: 6}) {
		t.Fatalf("Expected next head (5,6), got %v", next)
	}
	if s.Direction != types.Right {
		t.Error("NextHead must not commit the pending direction")
	}

	s.Move(next)
	s.RemoveTail()
	if s.Direction != types.Down {
		t.Errorf("Expected direction down after move, got %v", s.Direction)
	}
	if s.Len() != 3 {
		t.Errorf("Expected length 3, got %d", s.Len())
	}
	if s.Occupies(types.Point{X: 3, Y: 5}) {
		t.Error("Old tail still marked occupied")
	}
	if !s.Occupies(next) {
		t.Error("New head not marked occupied")
	}
}

func TestSetDirectionIgnoresReverse(t *testing.T) {
	s := NewSnake(types.Point{X: 5, Y: 5}, types.Up, 1)
	if s.SetDirection(types.Down) {
		t.Error("Reverse direction accepted")
	}
	if s.SetDirection(types.NONE) {
		t.Error("NONE accepted")
	}
	if !s.SetDirection(types.Left) || s.Pending() != types.Left {
		t.Error("Expected left to be queued")
	}
}

func TestCellsIsACopy(t *testing.T) {
	s := FromCells([]types.Point{{X: 1, Y: 1}, {X: 1, Y: 2}}, types.Up)
	cells := s.Cells()
	cells[0] = types.Point{X: 9, Y: 9}
	if s.GetHead() != (types.Point{X: 1, Y: 1}) {
		t.Error("Cells leaked internal storage")
	}
}
