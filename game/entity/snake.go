package entity

import (
	"gridsnake/game/types"
)

// Snake is the ordered list of cells the player controls, head first.
// The occupancy set mirrors Body so lookups stay constant time.
type Snake struct {
	Body      []types.Point
	Direction types.Direction
	pending   types.Direction
	occupied  map[types.Point]struct{}
}

// NewSnake lays out a straight snake of the given length behind head,
// facing dir. Callers are responsible for the cells being on the grid.
func NewSnake(head types.Point, dir types.Direction, length int) *Snake {
	if length < 1 {
		length = 1
	}
	s := &Snake{
		Body:      make([]types.Point, 0, length),
		Direction: dir,
		pending:   dir,
		occupied:  make(map[types.Point]struct{}, length),
	}
	back := dir.Opposite().ToPoint()
	p := head
	for i := 0; i < length; i++ {
		s.Body = append(s.Body, p)
		s.occupied[p] = struct{}{}
		p = p.Add(back)
	}
	return s
}

// FromCells builds a snake from explicit cells, head first, that last moved
// in dir. Cells are copied.
func FromCells(cells []types.Point, dir types.Direction) *Snake {
	s := &Snake{
		Body:      make([]types.Point, len(cells)),
		Direction: dir,
		pending:   dir,
		occupied:  make(map[types.Point]struct{}, len(cells)),
	}
	copy(s.Body, cells)
	for _, p := range cells {
		s.occupied[p] = struct{}{}
	}
	return s
}

// Move prepends newHead and makes the pending heading current
func (s *Snake) Move(newHead types.Point) {
	s.Body = append(s.Body, types.Point{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = newHead
	s.occupied[newHead] = struct{}{}
	s.Direction = s.pending
}

// RemoveTail drops the last cell
func (s *Snake) RemoveTail() {
	if len(s.Body) == 0 {
		return
	}
	tail := s.Body[len(s.Body)-1]
	s.Body = s.Body[:len(s.Body)-1]
	delete(s.occupied, tail)
}

func (s *Snake) GetHead() types.Point {
	return s.Body[0]
}

func (s *Snake) GetTail() types.Point {
	return s.Body[len(s.Body)-1]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Occupies reports whether p is one of the snake's cells, tail included
func (s *Snake) Occupies(p types.Point) bool {
	_, ok := s.occupied[p]
	return ok
}

// SetDirection queues dir for the next move. A request for the exact
// reverse of the heading the snake last moved in is ignored.
func (s *Snake) SetDirection(dir types.Direction) bool {
	if dir == types.NONE || dir == s.Direction.Opposite() {
		return false
	}
	s.pending = dir
	return true
}

// Pending returns the heading that the next move will use
func (s *Snake) Pending() types.Direction {
	return s.pending
}

// NextHead returns where the head goes on the pending heading, before any
// boundary policy is applied. The snake is not changed.
func (s *Snake) NextHead() types.Point {
	return s.GetHead().Add(s.pending.ToPoint())
}

// Cells returns a copy of the body
func (s *Snake) Cells() []types.Point {
	out := make([]types.Point, len(s.Body))
	copy(out, s.Body)
	return out
}
