// Command snake-train teaches the autopilot by playing headless games.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"gridsnake/ai"
	"gridsnake/game"
	"gridsnake/game/manager"
	"gridsnake/game/types"
	"gridsnake/internal/app"
	"gridsnake/internal/logging"

	"github.com/pkg/errors"
)

func main() {
	var opts app.Options
	opts.Register(flag.CommandLine)
	episodes := flag.Int("episodes", 1000, "Number of games to play")
	workers := flag.Int("workers", runtime.NumCPU(), "Games played in parallel")
	width := flag.Int("width", 20, "Board width in cells")
	height := flag.Int("height", 20, "Board height in cells")
	boundary := flag.String("boundary", "toroidal", "Board edges: toroidal or walled")
	saveEvery := flag.Int("save-every", 100, "Save the agent every n episodes")
	flag.Parse()
	opts.ApplyEnv(flag.CommandLine)

	logFile := logging.Setup(logging.Dir, "snake-train", opts.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	b, err := parseBoundary(*boundary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snake-train: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := ai.TrainerConfig{
		Game:      game.Config{Width: *width, Height: *height, Boundary: b, Seed: opts.Seed},
		Workers:   *workers,
		SaveEvery: *saveEvery,
		SavePath:  opts.AgentPath(),
	}
	stats, err := run(ctx, opts, cfg, *episodes)
	if err != nil {
		log.Printf("fatal: %v", err)
		fmt.Fprintf(os.Stderr, "snake-train: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("episodes=%d abandoned=%d best=%d mean=%.2f\n",
		stats.Episodes, stats.Abandoned, stats.BestScore, stats.MeanScore())
}

func run(ctx context.Context, opts app.Options, cfg ai.TrainerConfig, episodes int) (ai.TrainingStats, error) {
	agent, err := ai.NewAgent(opts.Agent, opts.Seed)
	if err != nil {
		return ai.TrainingStats{}, err
	}
	if err := agent.Load(cfg.SavePath); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return ai.TrainingStats{}, err
	}

	history, err := manager.NewStateManager(opts.StatsPath("train"))
	if err != nil {
		return ai.TrainingStats{}, errors.Wrap(err, "open score history")
	}

	return ai.NewTrainer(agent, cfg, history, log.Default()).Train(ctx, episodes)
}

func parseBoundary(s string) (types.Boundary, error) {
	switch strings.ToLower(s) {
	case "toroidal", "wrap":
		return types.Toroidal, nil
	case "walled", "wall":
		return types.Walled, nil
	default:
		return 0, errors.Errorf("unknown boundary %q", s)
	}
}
