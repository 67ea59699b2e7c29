package game

import (
	"time"

	"gridsnake/game/manager"
	"gridsnake/game/types"
)

// Snapshot is an immutable copy of the game state for one frame
type Snapshot struct {
	ID        string
	Grid      types.Grid
	Snake     []types.Point
	Direction types.Direction
	Food      types.Point
	HasFood   bool
	Score     int
	Level     int
	Steps     int
	Alive     bool
	Won       bool
	Collision manager.CollisionType
	StartTime time.Time
	EndTime   time.Time
}

// Head returns the first snake cell
func (s Snapshot) Head() types.Point {
	return s.Snake[0]
}

// Over reports whether the game has ended either way
func (s Snapshot) Over() bool {
	return !s.Alive
}

// Record converts a finished game into a history entry
func (s Snapshot) Record() manager.GameRecord {
	end := s.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	return manager.GameRecord{
		ID:        s.ID,
		StartTime: s.StartTime,
		EndTime:   end,
		Score:     s.Score,
		Length:    len(s.Snake),
		Won:       s.Won,
	}
}

// Snapshot copies the whole state under a single read lock
func (g *Game) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Snapshot{
		ID:        g.id,
		Grid:      g.Grid,
		Snake:     g.snake.Cells(),
		Direction: g.snake.Direction,
		Food:      g.foodPos,
		HasFood:   g.hasFood,
		Score:     g.score,
		Level:     SpeedLevel(g.score),
		Steps:     g.steps,
		Alive:     g.alive,
		Won:       g.won,
		Collision: g.lastCollision,
		StartTime: g.startTime,
		EndTime:   g.endTime,
	}
}
