package game

import (
	"sync"
	"time"

	"gridsnake/game/entity"
	"gridsnake/game/manager"
	"gridsnake/game/types"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// StepResult is the outcome of one tick
type StepResult int

const (
	Continue StepResult = iota
	Ate
	Collided
	// Won means the snake filled every playable cell
	Won
)

func (r StepResult) String() string {
	switch r {
	case Continue:
		return "continue"
	case Ate:
		return "ate"
	case Collided:
		return "collided"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

// Config describes the board a Game is played on
type Config struct {
	Width    int
	Height   int
	Boundary types.Boundary
	// Start is the head of the initial snake. Nil places it at the centre.
	Start *types.Point
	Seed  uint64
}

// Game owns the snake state for one board. All methods are safe to call
// from multiple goroutines; mutations are atomic with respect to reads.
type Game struct {
	mu sync.RWMutex

	Grid      types.Grid
	start     types.Point
	rng       *rand.Rand
	collision *manager.CollisionManager
	food      *manager.FoodManager

	id            string
	snake         *entity.Snake
	foodPos       types.Point
	hasFood       bool
	score         int
	steps         int
	alive         bool
	won           bool
	lastCollision manager.CollisionType
	startTime     time.Time
	endTime       time.Time
}

// NewGame validates cfg and returns a game in its initial state
func NewGame(cfg Config) (*Game, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Errorf("invalid grid %dx%d", cfg.Width, cfg.Height)
	}
	grid := types.Grid{Width: cfg.Width, Height: cfg.Height, Boundary: cfg.Boundary}
	if grid.Cells() <= types.StartLength {
		return nil, errors.Errorf("grid %dx%d (%s) has no room for a %d-cell snake",
			cfg.Width, cfg.Height, cfg.Boundary, types.StartLength)
	}

	start := types.Point{X: cfg.Width / 2, Y: cfg.Height / 2}
	if cfg.Start != nil {
		start = *cfg.Start
	}
	for i := 0; i < types.StartLength; i++ {
		p := types.Point{X: start.X - i, Y: start.Y}
		if !grid.Contains(p) {
			return nil, errors.Errorf("start cell %v is outside the playable area", p)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	g := &Game{
		Grid:      grid,
		start:     start,
		rng:       rng,
		collision: manager.NewCollisionManager(grid),
		food:      manager.NewFoodManager(grid, rng),
	}
	g.Reset()
	return g, nil
}

// Reset puts the game back to its canonical start: a 3-cell snake heading
// right, score 0, fresh food. Safe to call at any time.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.id = uuid.NewString()
	g.snake = entity.NewSnake(g.start, types.Right, types.StartLength)
	g.score = 0
	g.steps = 0
	g.alive = true
	g.won = false
	g.lastCollision = manager.NoCollision
	g.startTime = time.Now()
	g.endTime = time.Time{}
	g.foodPos, g.hasFood = g.food.GenerateFood(g.snake)
}

// SetDirection queues a heading change. Reversing onto the neck is ignored.
func (g *Game) SetDirection(dir types.Direction) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snake.SetDirection(dir)
}

// Step advances the game by one tick. It does nothing once the game is over.
func (g *Game) Step() StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.alive {
		if g.won {
			return Won
		}
		return Collided
	}

	newHead, collision := g.collision.Resolve(g.snake.NextHead(), g.snake)
	if collision != manager.NoCollision {
		g.lastCollision = collision
		g.finish(false)
		return Collided
	}

	g.steps++
	g.snake.Move(newHead)

	if g.hasFood && g.collision.IsFoodCollision(newHead, g.foodPos) {
		g.score += types.FoodReward
		g.foodPos, g.hasFood = g.food.GenerateFood(g.snake)
		if !g.hasFood {
			g.finish(true)
			return Won
		}
		return Ate
	}

	g.snake.RemoveTail()
	return Continue
}

func (g *Game) finish(won bool) {
	g.alive = false
	g.won = won
	g.endTime = time.Now()
}

// Snake returns a copy of the snake cells, head first
func (g *Game) Snake() []types.Point {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snake.Cells()
}

// Food returns the food cell and whether one is on the board
func (g *Game) Food() (types.Point, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.foodPos, g.hasFood
}

func (g *Game) Score() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.score
}

func (g *Game) Alive() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.alive
}

func (g *Game) Won() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.won
}

// Direction returns the heading of the last move
func (g *Game) Direction() types.Direction {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snake.Direction
}

// ID identifies the current session; it changes on every Reset
func (g *Game) ID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.id
}
