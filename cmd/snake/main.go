// Command snake plays on a walled board the size of the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gridsnake/game"
	"gridsnake/game/types"
	"gridsnake/internal/app"
	"gridsnake/internal/logging"
	"gridsnake/loop"
	"gridsnake/ui/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

const frameRate = 60

func main() {
	var opts app.Options
	opts.Register(flag.CommandLine)
	wander := flag.Float64("wander", 0.01, "Chance per tick of a random turn (0 disables)")
	fixed := flag.Bool("fixed", false, "Step at a fixed 10 ticks per second instead of speeding up by level")
	flag.Parse()
	opts.ApplyEnv(flag.CommandLine)

	logFile := logging.Setup(logging.Dir, "snake", opts.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(opts, *wander, *fixed); err != nil {
		log.Printf("fatal: %v", err)
		fmt.Fprintf(os.Stderr, "snake: %v\n", err)
		os.Exit(1)
	}
}

func run(opts app.Options, wander float64, fixed bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	defer screen.Fini()

	g, err := newGame(screen, opts.Seed)
	if err != nil {
		return err
	}

	sess, err := app.Open("snake", opts, g, log.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("close session: %v", err)
		}
	}()

	in := sess.Input(terminal.Listen(screen))
	var drift *loop.Wander
	if wander > 0 && sess.Pilot == nil {
		drift = loop.NewWander(in, g, wander, seedOrNow(opts.Seed))
		in = drift
	}

	interval := loop.Adaptive()
	if fixed {
		interval = loop.Fixed(game.FixedInterval)
	}

	renderer := terminal.NewRenderer(screen).WithHighScore(sess.Stats.GetHighScore)
	d := loop.NewDriver(g, in,
		loop.WithRenderer(sess.Renderer(renderer)),
		loop.WithRecorder(sess.Stats),
		loop.WithInterval(interval),
		loop.WithFrameRate(frameRate),
		loop.WithLogger(log.Default()),
	)
	renderer.WithPaused(d.Paused)
	if drift != nil {
		drift.WithPaused(d.Paused)
	}

	log.Printf("session %s: %dx%d walled board", g.ID(), g.Grid.Width, g.Grid.Height)
	err = d.Run(context.Background())
	sum := sess.Stats.Summary()
	log.Printf("exit: games=%d high=%d mean=%.1f", sum.Games, sum.HighScore, sum.MeanScore)
	return err
}

// newGame sizes a walled board to the screen with the snake a quarter of
// the way across, heading right.
func newGame(screen tcell.Screen, seed uint64) (*game.Game, error) {
	w, h := screen.Size()
	start := types.Point{X: w / 4, Y: h / 2}
	g, err := game.NewGame(game.Config{
		Width:    w,
		Height:   h,
		Boundary: types.Walled,
		Start:    &start,
		Seed:     seed,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "terminal %dx%d is too small", w, h)
	}
	return g, nil
}

func seedOrNow(seed uint64) uint64 {
	if seed == 0 {
		return uint64(time.Now().UnixNano())
	}
	return seed
}
