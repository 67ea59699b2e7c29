package manager

import (
	"gridsnake/game/entity"
	"gridsnake/game/types"
)

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
)

func (c CollisionType) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	default:
		return "none"
	}
}

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// Resolve applies the grid's boundary policy to a raw next-head position.
// The returned point is only meaningful when the collision is NoCollision.
func (cm *CollisionManager) Resolve(pos types.Point, snake *entity.Snake) (types.Point, CollisionType) {
	pos = cm.grid.Wrap(pos)
	if cm.isWallCollision(pos) {
		return pos, WallCollision
	}
	// The tail has not moved yet, so it still counts as occupied
	if snake != nil && snake.Occupies(pos) {
		return pos, SelfCollision
	}
	return pos, NoCollision
}

// isWallCollision checks if a position collides with walls
func (cm *CollisionManager) isWallCollision(pos types.Point) bool {
	return !cm.grid.Contains(pos)
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos types.Point, food types.Point) bool {
	return pos == food
}

// IsDanger reports whether moving the head onto pos would end the game
func (cm *CollisionManager) IsDanger(pos types.Point, snake *entity.Snake) bool {
	_, c := cm.Resolve(pos, snake)
	return c != NoCollision
}
