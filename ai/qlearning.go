package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

type State struct {
	RelativeFoodDir [2]int  // Food direction relative to head (x, y)
	FoodDistance    int     // Manhattan distance to food
	DangerDirs      [4]bool // Danger in each direction (up, right, down, left)
}

// NewState creates a new state with initialized values
func NewState(foodDir [2]int, foodDist int, dangers [4]bool) State {
	return State{
		RelativeFoodDir: foodDir,
		FoodDistance:    foodDist,
		DangerDirs:      dangers,
	}
}

// Key is the table row for s. Distance is left out so the table stays small.
func (s State) Key() string {
	return fmt.Sprintf("%d,%d|%d%d%d%d",
		s.RelativeFoodDir[0], s.RelativeFoodDir[1],
		boolToInt(s.DangerDirs[0]), boolToInt(s.DangerDirs[1]),
		boolToInt(s.DangerDirs[2]), boolToInt(s.DangerDirs[3]))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type Action int

const (
	Up Action = iota
	Right
	Down
	Left
	numActions
)

// Opposite returns the reverse action
func (a Action) Opposite() Action {
	return (a + 2) % numActions
}

type QTable map[string][numActions]float64

// QLearning is a tabular agent with an epsilon-greedy policy
type QLearning struct {
	mu           sync.Mutex
	saveMu       sync.Mutex
	QTable       QTable
	LearningRate float64
	Discount     float64
	Epsilon      float64
	TotalReward  float64
	GamesPlayed  int
	rng          *rand.Rand
}

func NewQLearning(seed uint64) *QLearning {
	return &QLearning{
		QTable:       make(QTable),
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      0.1,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// GetAction picks a random action with probability Epsilon and the best
// known one otherwise. The forbidden action is never returned.
func (q *QLearning) GetAction(state State, forbidden Action) Action {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.rng.Float64() < q.Epsilon {
		for {
			a := Action(q.rng.Intn(int(numActions)))
			if a != forbidden {
				return a
			}
		}
	}
	return q.bestAction(state, forbidden)
}

// BestAction is the greedy choice without exploration
func (q *QLearning) BestAction(state State, forbidden Action) Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.bestAction(state, forbidden)
}

func (q *QLearning) bestAction(state State, forbidden Action) Action {
	row := q.QTable[state.Key()]
	best := Action(-1)
	bestValue := math.Inf(-1)
	for a := Up; a < numActions; a++ {
		if a == forbidden {
			continue
		}
		// Ties go to the first safe action so an empty row still avoids walls
		v := row[a]
		if state.DangerDirs[a] {
			v -= 1e-6
		}
		if v > bestValue {
			bestValue = v
			best = a
		}
	}
	return best
}

// Update applies the Q-learning rule for one transition. Terminal
// transitions do not bootstrap from the next state.
func (q *QLearning) Update(state State, action Action, reward float64, next State, terminal bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	maxNextQ := 0.0
	if !terminal {
		maxNextQ = math.Inf(-1)
		for _, v := range q.QTable[next.Key()] {
			if v > maxNextQ {
				maxNextQ = v
			}
		}
	}

	key := state.Key()
	row := q.QTable[key]
	row[action] += q.LearningRate * (reward + q.Discount*maxNextQ - row[action])
	q.QTable[key] = row

	q.TotalReward += reward
	if terminal {
		q.GamesPlayed++
	}
}

func (q *QLearning) Stats() (int, float64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.GamesPlayed, q.TotalReward
}

func (q *QLearning) Save(filename string) error { return q.SaveQTable(filename) }

func (q *QLearning) Load(filename string) error { return q.LoadQTable(filename) }

// SaveQTable writes the table as JSON
func (q *QLearning) SaveQTable(filename string) error {
	q.saveMu.Lock()
	defer q.saveMu.Unlock()

	q.mu.Lock()
	data, err := json.MarshalIndent(q.QTable, "", "  ")
	q.mu.Unlock()
	if err != nil {
		return errors.Wrap(err, "marshal q-table")
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "create q-table directory")
	}
	return errors.Wrapf(os.WriteFile(filename, data, 0644), "write q-table %s", filename)
}

// LoadQTable replaces the table with the one stored in filename
func (q *QLearning) LoadQTable(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "read q-table %s", filename)
	}

	table := make(QTable)
	if err := json.Unmarshal(data, &table); err != nil {
		return errors.Wrapf(err, "decode q-table %s", filename)
	}

	q.mu.Lock()
	q.QTable = table
	q.mu.Unlock()
	return nil
}
