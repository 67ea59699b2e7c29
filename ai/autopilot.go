package ai

import (
	"gridsnake/game"
	"gridsnake/game/entity"
	"gridsnake/game/manager"
	"gridsnake/game/types"
	"gridsnake/loop"
)

// Rewards used for learning
const (
	RewardFood    = 10.0
	RewardDeath   = -10.0
	RewardCloser  = 0.5
	RewardFarther = -0.3
)

// Snapshotter is anything that can report the current game state
type Snapshotter interface {
	Snapshot() game.Snapshot
}

type transition struct {
	id     string
	steps  int
	state  State
	action Action
	score  int
}

// Autopilot plays the game through the loop.Input interface, making one
// decision per game tick and learning from the outcome.
type Autopilot struct {
	agent       Agent
	source      Snapshotter
	last        *transition
	Learn       bool
	AutoRestart bool
}

func NewAutopilot(agent Agent, source Snapshotter) *Autopilot {
	return &Autopilot{
		agent:       agent,
		source:      source,
		Learn:       true,
		AutoRestart: true,
	}
}

// Agent exposes the underlying learner, e.g. to save it on exit
func (p *Autopilot) Agent() Agent {
	return p.agent
}

func (p *Autopilot) Poll() []loop.Command {
	snap := p.source.Snapshot()

	if snap.Over() {
		if p.last != nil && p.last.id == snap.ID {
			if p.Learn {
				reward := RewardDeath
				if snap.Won {
					reward = RewardFood
				}
				p.agent.Update(p.last.state, p.last.action, reward, p.last.state, true)
			}
			p.last = nil
		}
		if p.AutoRestart {
			return []loop.Command{loop.CmdRestart}
		}
		return nil
	}

	// One decision per tick
	if p.last != nil && p.last.id == snap.ID && p.last.steps == snap.Steps {
		return nil
	}

	state := Observe(snap)
	if p.Learn && p.last != nil && p.last.id == snap.ID {
		p.agent.Update(p.last.state, p.last.action, reward(p.last, state, snap), state, false)
	}

	forbidden := Action(-1)
	if current := actionFor(snap.Direction); current >= 0 {
		forbidden = current.Opposite()
	}
	var action Action
	if p.Learn {
		action = p.agent.GetAction(state, forbidden)
	} else {
		action = p.agent.BestAction(state, forbidden)
	}

	p.last = &transition{id: snap.ID, steps: snap.Steps, state: state, action: action, score: snap.Score}
	return []loop.Command{loop.CommandFor(action.Direction())}
}

func reward(prev *transition, next State, snap game.Snapshot) float64 {
	switch {
	case snap.Score > prev.score:
		return RewardFood
	case next.FoodDistance < prev.state.FoodDistance:
		return RewardCloser
	default:
		return RewardFarther
	}
}

// Observe turns a snapshot into the agent's view of the board
func Observe(snap game.Snapshot) State {
	head := snap.Head()
	snake := entity.FromCells(snap.Snake, snap.Direction)
	cm := manager.NewCollisionManager(snap.Grid)

	var dangers [4]bool
	for a := Up; a < numActions; a++ {
		dangers[a] = cm.IsDanger(head.Add(a.Direction().ToPoint()), snake)
	}

	var foodDir [2]int
	dist := 0
	if snap.HasFood {
		foodDir = [2]int{sign(snap.Food.X - head.X), sign(snap.Food.Y - head.Y)}
		dist = abs(snap.Food.X-head.X) + abs(snap.Food.Y-head.Y)
	}
	return NewState(foodDir, dist, dangers)
}

// Direction converts an action to a grid heading
func (a Action) Direction() types.Direction {
	switch a {
	case Up:
		return types.Up
	case Right:
		return types.Right
	case Down:
		return types.Down
	case Left:
		return types.Left
	default:
		return types.NONE
	}
}

func actionFor(d types.Direction) Action {
	switch d {
	case types.Up:
		return Up
	case types.Right:
		return Right
	case types.Down:
		return Down
	case types.Left:
		return Left
	default:
		return -1
	}
}

func sign(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
