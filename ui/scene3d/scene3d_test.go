package scene3d

import (
	"math"
	"strings"
	"testing"

	"gridsnake/game"
	"gridsnake/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestCellToWorldCentresBoard(t *testing.T) {
	a := CellToWorld(20, 20, 0, 0)
	b := CellToWorld(20, 20, 19, 19)
	if a.X != -b.X || a.Z != -b.Z {
		t.Errorf("Expected corners to mirror around origin, got %v and %v", a, b)
	}
	if a.X != -9.5 || a.Y != 0.5 {
		t.Errorf("Expected (-9.5, 0.5, -9.5), got %v", a)
	}

	up := CellToWorld(20, 20, 5, 4)
	down := CellToWorld(20, 20, 5, 5)
	if !(up.Z < down.Z) {
		t.Errorf("Expected a smaller grid y further from the camera, got %v vs %v", up.Z, down.Z)
	}
}

func TestOrbitCameraLooksAtCentre(t *testing.T) {
	for _, tt := range []float64{0, 1, math.Pi / 2, 10} {
		pos, target := OrbitCamera(20, 20, tt)
		if target.X != 0 || target.Y != 0 || target.Z != 0 {
			t.Errorf("t=%v: expected target at origin, got %v", tt, target)
		}
		if pos.Y <= 0 || pos.Z <= 0 {
			t.Errorf("t=%v: expected camera above and in front of the board, got %v", tt, pos)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title(game.Snapshot{Score: 20, Alive: true}); got != "Snake Game - Score: 20" {
		t.Errorf("Unexpected running title %q", got)
	}
	if got := Title(game.Snapshot{Score: 20}); !strings.Contains(got, "GAME OVER! Press SPACE to restart or Q to quit") {
		t.Errorf("Unexpected game over title %q", got)
	}
	if got := Title(game.Snapshot{Score: 3970, Won: true}); !strings.Contains(got, "BOARD CLEARED!") {
		t.Errorf("Unexpected won title %q", got)
	}
}

func TestGraphPoints(t *testing.T) {
	points, top := GraphPoints([]int{0, 50, 100}, 200, 100)
	if top != 100 {
		t.Fatalf("Expected max score 100, got %d", top)
	}
	want := [][2]int32{{0, 100}, {1, 50}, {2, 0}}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d: expected %v, got %v", i, want[i], points[i])
		}
	}

	long := make([]int, maxScores+50)
	long[len(long)-1] = 7
	points, top = GraphPoints(long, 200, 100)
	if len(points) != maxScores || top != 7 {
		t.Errorf("Expected the last %d scores with max 7, got %d and %d", maxScores, len(points), top)
	}

	if points, top := GraphPoints(nil, 10, 10); len(points) != 0 || top != 1 {
		t.Errorf("Expected empty graph, got %v and %d", points, top)
	}
}

func TestCubesTintEachCell(t *testing.T) {
	snap := game.Snapshot{
		Grid:    types.Grid{Width: 10, Height: 10},
		Snake:   []types.Point{{X: 3, Y: 3}, {X: 2, Y: 3}, {X: 1, Y: 3}},
		Food:    types.Point{X: 7, Y: 7},
		HasFood: true,
	}

	cubes := Cubes(snap, false)
	want := []rl.Color{rl.Red, rl.Green, rl.Green, rl.Blue}
	if len(cubes) != len(want) {
		t.Fatalf("Expected %d cubes, got %d", len(want), len(cubes))
	}
	for i, c := range cubes {
		if c.Color != want[i] {
			t.Errorf("cube %d: expected %v, got %v", i, want[i], c.Color)
		}
	}
	if cubes[3].Pos != CellToWorld(10, 10, 7, 7) {
		t.Errorf("Expected the food cube at the food cell, got %v", cubes[3].Pos)
	}

	if got := Cubes(snap, true); len(got) != 3 {
		t.Errorf("Expected the food model to replace the food cube, got %d cubes", len(got))
	}
}

func TestLoadShaderMissingSource(t *testing.T) {
	if _, err := loadShader(t.TempDir()); err == nil {
		t.Error("Expected an error for a directory without shader sources")
	}
}
