package manager

import (
	"gridsnake/game/entity"
	"gridsnake/game/types"

	"golang.org/x/exp/rand"
)

// FoodManager places food on free playable cells
type FoodManager struct {
	grid types.Grid
	rng  *rand.Rand
	free []types.Point // scratch buffer reused across placements
}

func NewFoodManager(grid types.Grid, rng *rand.Rand) *FoodManager {
	return &FoodManager{
		grid: grid,
		rng:  rng,
		free: make([]types.Point, 0, grid.Cells()),
	}
}

// GenerateFood picks a cell uniformly from the playable cells the snake does
// not occupy. It returns false when no free cell remains.
func (fm *FoodManager) GenerateFood(snake *entity.Snake) (types.Point, bool) {
	fm.free = fm.free[:0]
	minX, minY, maxX, maxY := 0, 0, fm.grid.Width-1, fm.grid.Height-1
	if fm.grid.Boundary == types.Walled {
		minX, minY, maxX, maxY = 1, 1, fm.grid.Width-2, fm.grid.Height-2
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := types.Point{X: x, Y: y}
			if snake != nil && snake.Occupies(p) {
				continue
			}
			fm.free = append(fm.free, p)
		}
	}

	if len(fm.free) == 0 {
		return types.Point{}, false
	}
	return fm.free[fm.rng.Intn(len(fm.free))], true
}
