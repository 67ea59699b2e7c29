package types

// Point is a cell on the grid
type Point struct {
	X, Y int
}

// Add returns p moved by d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Boundary decides what happens when the snake leaves the grid
type Boundary int

const (
	// Walled treats the outer ring of cells as a lethal wall
	Walled Boundary = iota
	// Toroidal wraps each axis around to the opposite edge
	Toroidal
)

func (b Boundary) String() string {
	switch b {
	case Walled:
		return "walled"
	case Toroidal:
		return "toroidal"
	default:
		return "unknown"
	}
}

// Grid represents the game grid dimensions
type Grid struct {
	Width    int
	Height   int
	Boundary Boundary
}

// Contains reports whether p is a playable cell. A walled grid keeps a
// one-cell border around the playable interior.
func (g Grid) Contains(p Point) bool {
	if g.Boundary == Walled {
		return p.X >= 1 && p.X <= g.Width-2 && p.Y >= 1 && p.Y <= g.Height-2
	}
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Wrap folds p back onto a toroidal grid. Walled grids are returned unchanged.
func (g Grid) Wrap(p Point) Point {
	if g.Boundary != Toroidal {
		return p
	}
	return Point{X: mod(p.X, g.Width), Y: mod(p.Y, g.Height)}
}

// Cells returns the number of playable cells
func (g Grid) Cells() int {
	if g.Boundary == Walled {
		if g.Width < 3 || g.Height < 3 {
			return 0
		}
		return (g.Width - 2) * (g.Height - 2)
	}
	return g.Width * g.Height
}

// Adjacent reports whether a and b are one step apart on this grid,
// counting the wrap seam of a toroidal grid.
func (g Grid) Adjacent(a, b Point) bool {
	for _, d := range []Direction{Up, Right, Down, Left} {
		if g.Wrap(a.Add(d.ToPoint())) == b {
			return true
		}
	}
	return false
}

func mod(a, n int) int {
	if n <= 0 {
		return a
	}
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Direction is a cardinal heading
type Direction int

const (
	NONE Direction = iota
	Up
	Right
	Down
	Left
)

// ToPoint converts a Direction into its unit delta. Y grows downwards.
func (d Direction) ToPoint() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Right:
		return Point{X: 1, Y: 0}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	default:
		return Point{}
	}
}

// Opposite returns the reverse heading
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	default:
		return NONE
	}
}

// TurnLeft rotates counter-clockwise
func (d Direction) TurnLeft() Direction {
	switch d {
	case Up:
		return Left
	case Right:
		return Up
	case Down:
		return Right
	case Left:
		return Down
	default:
		return d
	}
}

// TurnRight rotates clockwise
func (d Direction) TurnRight() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	default:
		return d
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// Game constants
const (
	FoodReward     = 10 // Score added per food eaten
	StartLength    = 3  // Cells in a freshly reset snake
	PointsPerLevel = 50 // Score needed to reach the next speed level
)
