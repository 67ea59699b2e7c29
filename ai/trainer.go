package ai

import (
	"context"
	"log"
	"sync"
	"time"

	"gridsnake/game"
	"gridsnake/game/manager"
	"gridsnake/loop"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// TrainerConfig describes a headless training run
type TrainerConfig struct {
	Game game.Config
	// Workers play in parallel against the shared agent
	Workers int
	// SaveEvery writes the agent to SavePath every n episodes (0 = only at the end)
	SaveEvery int
	SavePath  string
	// MaxIdleSteps abandons an episode that goes this long without eating.
	// Zero means twice the board area.
	MaxIdleSteps int
}

// TrainingStats summarises a run
type TrainingStats struct {
	Episodes   int
	Abandoned  int
	BestScore  int
	TotalScore int
}

func (s TrainingStats) MeanScore() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Episodes)
}

// Trainer runs episodes as fast as possible, with no renderer and a zero
// step interval, through the same driver the frontends use.
type Trainer struct {
	agent    Agent
	cfg      TrainerConfig
	recorder loop.Recorder
	logger   *log.Logger

	mu        sync.Mutex
	stats     TrainingStats
	remaining int
}

func NewTrainer(agent Agent, cfg TrainerConfig, recorder loop.Recorder, logger *log.Logger) *Trainer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Trainer{agent: agent, cfg: cfg, recorder: recorder, logger: logger}
}

// Train plays episodes games split across the workers. It stops early when
// ctx is cancelled and returns what was completed so far.
func (t *Trainer) Train(ctx context.Context, episodes int) (TrainingStats, error) {
	t.mu.Lock()
	t.stats = TrainingStats{}
	t.remaining = episodes
	t.mu.Unlock()

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < t.cfg.Workers; w++ {
		cfg := t.cfg.Game
		if cfg.Seed != 0 {
			cfg.Seed += uint64(w)
		}
		eg.Go(func() error {
			return t.work(ctx, cfg)
		})
	}
	err := eg.Wait()

	t.mu.Lock()
	stats := t.stats
	t.mu.Unlock()

	if t.cfg.SavePath != "" {
		if serr := t.agent.Save(t.cfg.SavePath); serr != nil && err == nil {
			err = serr
		}
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return stats, err
}

// claim reserves one episode for a worker
func (t *Trainer) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining <= 0 {
		return false
	}
	t.remaining--
	return true
}

func (t *Trainer) work(ctx context.Context, cfg game.Config) error {
	g, err := game.NewGame(cfg)
	if err != nil {
		return err
	}
	maxIdle := t.cfg.MaxIdleSteps
	if maxIdle <= 0 {
		maxIdle = 2 * g.Grid.Cells()
	}

	// The pilot restarts finished games itself, which also rearms the
	// driver's recorder for the next episode.
	pilot := NewAutopilot(t.agent, g)
	rec := &episodeRecorder{trainer: t}
	d := loop.NewDriver(g, pilot,
		loop.WithRecorder(rec),
		loop.WithInterval(loop.Fixed(0)),
		loop.WithLogger(t.logger),
	)

	now := time.Unix(0, 0)
	for t.claim() {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec.done = false
		lastScore, idle := -1, 0
		for !rec.done {
			now = now.Add(time.Millisecond)
			if _, err := d.Frame(now); err != nil {
				return err
			}
			if score := g.Score(); score != lastScore {
				lastScore, idle = score, 0
			} else if idle++; idle > maxIdle {
				t.abandon()
				g.Reset()
				break
			}
		}
	}
	// Learn from the last game's ending
	pilot.Poll()
	return nil
}

func (t *Trainer) abandon() {
	t.mu.Lock()
	t.stats.Abandoned++
	t.mu.Unlock()
}

func (t *Trainer) finish(rec manager.GameRecord) error {
	t.mu.Lock()
	t.stats.Episodes++
	t.stats.TotalScore += rec.Score
	if rec.Score > t.stats.BestScore {
		t.stats.BestScore = rec.Score
	}
	episode, best := t.stats.Episodes, t.stats.BestScore
	mean := t.stats.MeanScore()
	t.mu.Unlock()

	if t.cfg.SaveEvery > 0 && episode%t.cfg.SaveEvery == 0 {
		t.logger.Printf("train: episode %d mean=%.1f best=%d", episode, mean, best)
		if t.cfg.SavePath != "" {
			if err := t.agent.Save(t.cfg.SavePath); err != nil {
				t.logger.Printf("train: save agent: %v", err)
			}
		}
	}
	if t.recorder != nil {
		return t.recorder.Record(rec)
	}
	return nil
}

type episodeRecorder struct {
	trainer *Trainer
	done    bool
}

func (r *episodeRecorder) Record(rec manager.GameRecord) error {
	r.done = true
	return r.trainer.finish(rec)
}
