package ai

import (
	"path/filepath"
	"testing"

	"gridsnake/game"
	"gridsnake/game/types"
	"gridsnake/loop"
)

type fixedSource struct {
	snap game.Snapshot
}

func (f *fixedSource) Snapshot() game.Snapshot { return f.snap }

func snapshot(cells []types.Point, dir types.Direction, food types.Point) game.Snapshot {
	return game.Snapshot{
		ID:        "s",
		Grid:      types.Grid{Width: 10, Height: 10, Boundary: types.Walled},
		Snake:     cells,
		Direction: dir,
		Food:      food,
		HasFood:   true,
		Alive:     true,
	}
}

func TestObserve(t *testing.T) {
	snap := snapshot([]types.Point{{X: 8, Y: 1}, {X: 7, Y: 1}, {X: 6, Y: 1}}, types.Right, types.Point{X: 3, Y: 5})
	s := Observe(snap)

	if s.RelativeFoodDir != [2]int{-1, 1} {
		t.Errorf("Expected food dir (-1,1), got %v", s.RelativeFoodDir)
	}
	if s.FoodDistance != 9 {
		t.Errorf("Expected distance 9, got %d", s.FoodDistance)
	}
	// Up and right are walls, left is the neck
	want := [4]bool{true, true, false, true}
	if s.DangerDirs != want {
		t.Errorf("Expected dangers %v, got %v", want, s.DangerDirs)
	}
}

func TestBestActionAvoidsDangerAndReverse(t *testing.T) {
	q := NewQLearning(1)
	s := NewState([2]int{1, 0}, 3, [4]bool{true, true, false, false})

	// Empty table: the first safe, non-forbidden action wins
	if a := q.BestAction(s, Left); a != Down {
		t.Errorf("Expected down, got %v", a)
	}

	q.QTable[s.Key()] = [numActions]float64{0, 0, 0, 5}
	if a := q.BestAction(s, Right); a != Left {
		t.Errorf("Expected learned left, got %v", a)
	}
	if a := q.BestAction(s, Left); a == Left {
		t.Error("Forbidden action returned")
	}
}

func TestUpdateMovesTowardsReward(t *testing.T) {
	q := NewQLearning(1)
	s := NewState([2]int{1, 0}, 2, [4]bool{})
	next := NewState([2]int{1, 0}, 1, [4]bool{})

	q.Update(s, Right, RewardFood, next, false)
	if v := q.QTable[s.Key()][Right]; v <= 0 {
		t.Errorf("Expected positive Q after reward, got %f", v)
	}
	q.Update(s, Up, RewardDeath, s, true)
	if v := q.QTable[s.Key()][Up]; v >= 0 {
		t.Errorf("Expected negative Q after death, got %f", v)
	}
	if q.GamesPlayed != 1 {
		t.Errorf("Expected 1 game played, got %d", q.GamesPlayed)
	}
}

func TestQTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai", "qtable.json")
	q := NewQLearning(1)
	s := NewState([2]int{0, -1}, 4, [4]bool{false, true, false, false})
	q.QTable[s.Key()] = [numActions]float64{1.5, -2, 0, 0.25}

	if err := q.SaveQTable(path); err != nil {
		t.Fatalf("SaveQTable failed: %v", err)
	}
	loaded := NewQLearning(2)
	if err := loaded.LoadQTable(path); err != nil {
		t.Fatalf("LoadQTable failed: %v", err)
	}
	if loaded.QTable[s.Key()] != q.QTable[s.Key()] {
		t.Errorf("Expected %v, got %v", q.QTable[s.Key()], loaded.QTable[s.Key()])
	}
	if err := loaded.LoadQTable(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestAutopilotOneDecisionPerTick(t *testing.T) {
	src := &fixedSource{snap: snapshot([]types.Point{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}, types.Right, types.Point{X: 7, Y: 5})}
	p := NewAutopilot(NewQLearning(3), src)

	first := p.Poll()
	if len(first) != 1 {
		t.Fatalf("Expected one command, got %v", first)
	}
	if dir, ok := first[0].Direction(); !ok || dir == types.Left {
		t.Errorf("Expected a legal heading, got %v", first[0])
	}
	if again := p.Poll(); again != nil {
		t.Errorf("Expected no command until the game steps, got %v", again)
	}

	src.snap.Steps++
	if next := p.Poll(); len(next) != 1 {
		t.Errorf("Expected a new decision after a step, got %v", next)
	}
}

func TestAutopilotLearnsFromDeathAndRestarts(t *testing.T) {
	src := &fixedSource{snap: snapshot([]types.Point{{X: 8, Y: 5}, {X: 7, Y: 5}, {X: 6, Y: 5}}, types.Right, types.Point{X: 2, Y: 2})}
	agent := NewQLearning(3)
	p := NewAutopilot(agent, src)
	p.Poll()

	src.snap.Alive = false
	cmds := p.Poll()
	if len(cmds) != 1 || cmds[0] != loop.CmdRestart {
		t.Fatalf("Expected restart, got %v", cmds)
	}
	if agent.GamesPlayed != 1 {
		t.Errorf("Expected the death to be learned, games=%d", agent.GamesPlayed)
	}

	p.AutoRestart = false
	if cmds := p.Poll(); cmds != nil {
		t.Errorf("Expected nothing without auto restart, got %v", cmds)
	}
}

func TestAutopilotPlaysRealGame(t *testing.T) {
	g, err := game.NewGame(game.Config{Width: 12, Height: 12, Boundary: types.Walled, Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	agent := NewQLearning(5)
	p := NewAutopilot(agent, g)

	for i := 0; i < 2000; i++ {
		for _, cmd := range p.Poll() {
			if cmd == loop.CmdRestart {
				g.Reset()
				continue
			}
			dir, _ := cmd.Direction()
			g.SetDirection(dir)
		}
		g.Step()
	}
	if games, _ := p.Agent().Stats(); games == 0 && g.Alive() && g.Score() == 0 {
		t.Error("Expected the autopilot to either score or finish a game")
	}
	if len(agent.QTable) == 0 {
		t.Error("Expected a populated Q-table")
	}
}
