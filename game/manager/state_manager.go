package manager

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// MaxHistory bounds the number of finished games kept on disk
const MaxHistory = 500

// GameRecord is one finished game
type GameRecord struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	Won       bool      `json:"won"`
}

// Duration is the wall-clock length of the game
func (r GameRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

type GameStats struct {
	HighScore    int          `json:"highScore"`
	ScoreHistory []GameRecord `json:"scoreHistory"`
}

// Summary aggregates the recorded history
type Summary struct {
	Games       int
	HighScore   int
	MeanScore   float64
	MedianScore float64
}

// StateManager keeps the high score and the history of finished games.
// With an empty path nothing is persisted.
type StateManager struct {
	mu           sync.RWMutex
	saveMu       sync.Mutex // serialises writers of the stats file
	path         string
	highScore    int
	scoreHistory []GameRecord
}

// NewStateManager loads any existing stats from path. A missing file is not
// an error; a corrupt one is.
func NewStateManager(path string) (*StateManager, error) {
	sm := &StateManager{
		path:         path,
		scoreHistory: make([]GameRecord, 0),
	}
	if path == "" {
		return sm, nil
	}
	if err := sm.LoadStats(path); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, err
	}
	return sm, nil
}

func (sm *StateManager) SaveStats(filename string) error {
	sm.saveMu.Lock()
	defer sm.saveMu.Unlock()

	sm.mu.RLock()
	stats := GameStats{
		HighScore:    sm.highScore,
		ScoreHistory: sm.scoreHistory,
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	sm.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "marshal stats")
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "create stats directory")
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrapf(err, "write stats file %s", filename)
	}
	return nil
}

func (sm *StateManager) LoadStats(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "read stats file %s", filename)
	}

	var stats GameStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return errors.Wrapf(err, "decode stats file %s", filename)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.highScore = stats.HighScore
	sm.scoreHistory = stats.ScoreHistory
	if sm.scoreHistory == nil {
		sm.scoreHistory = make([]GameRecord, 0)
	}
	return nil
}

// Record appends a finished game, updates the high score and persists
func (sm *StateManager) Record(rec GameRecord) error {
	sm.mu.Lock()
	if rec.Score > sm.highScore {
		sm.highScore = rec.Score
	}
	sm.scoreHistory = append(sm.scoreHistory, rec)
	if len(sm.scoreHistory) > MaxHistory {
		sm.scoreHistory = sm.scoreHistory[len(sm.scoreHistory)-MaxHistory:]
	}
	sm.mu.Unlock()

	if sm.path == "" {
		return nil
	}
	return sm.SaveStats(sm.path)
}

func (sm *StateManager) GetHighScore() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.highScore
}

func (sm *StateManager) GetScoreHistory() []GameRecord {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make([]GameRecord, len(sm.scoreHistory))
	copy(out, sm.scoreHistory)
	return out
}

// Scores returns just the scores of the recorded games, oldest first
func (sm *StateManager) Scores() []int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make([]int, len(sm.scoreHistory))
	for i, r := range sm.scoreHistory {
		out[i] = r.Score
	}
	return out
}

// Summary computes mean and median over the recorded scores
func (sm *StateManager) Summary() Summary {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s := Summary{
		Games:     len(sm.scoreHistory),
		HighScore: sm.highScore,
	}
	if s.Games == 0 {
		return s
	}

	scores := make([]float64, len(sm.scoreHistory))
	for i, r := range sm.scoreHistory {
		scores[i] = float64(r.Score)
	}
	sort.Float64s(scores)
	s.MeanScore = stat.Mean(scores, nil)
	s.MedianScore = median(scores)
	return s
}

// median of sorted scores; an even count averages the two middle values
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
