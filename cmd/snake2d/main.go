// Command snake2d plays on a wrapping board in a plain ebiten window.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gridsnake/game"
	"gridsnake/game/types"
	"gridsnake/internal/app"
	"gridsnake/internal/logging"
	"gridsnake/loop"
	"gridsnake/ui/flat"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

func main() {
	var opts app.Options
	opts.Register(flag.CommandLine)
	width := flag.Int("width", 20, "Board width in cells")
	height := flag.Int("height", 20, "Board height in cells")
	adaptive := flag.Bool("adaptive", false, "Speed up with the score's level")
	flag.Parse()
	opts.ApplyEnv(flag.CommandLine)

	logFile := logging.Setup(logging.Dir, "snake2d", opts.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(opts, *width, *height, *adaptive); err != nil {
		log.Printf("fatal: %v", err)
		fmt.Fprintf(os.Stderr, "snake2d: %v\n", err)
		os.Exit(1)
	}
}

func run(opts app.Options, width, height int, adaptive bool) error {
	g, err := game.NewGame(game.Config{Width: width, Height: height, Boundary: types.Toroidal, Seed: opts.Seed})
	if err != nil {
		return err
	}

	sess, err := app.Open("snake2d", opts, g, log.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("close session: %v", err)
		}
	}()

	interval := loop.Fixed(game.FixedInterval)
	if adaptive {
		interval = loop.Adaptive()
	}

	renderer := &flat.Renderer{}
	d := loop.NewDriver(g, sess.Input(flat.Input{}),
		loop.WithRenderer(sess.Renderer(renderer)),
		loop.WithRecorder(sess.Stats),
		loop.WithInterval(interval),
		loop.WithLogger(log.Default()),
	)

	ebiten.SetWindowSize(width*flat.CellSize*2, height*flat.CellSize*2)
	ebiten.SetWindowTitle("Snake")
	ebiten.SetWindowResizable(true)

	log.Printf("session %s: %dx%d wrapping board", g.ID(), width, height)
	if err := ebiten.RunGame(flat.NewGame(d, renderer)); err != nil && err != ebiten.Termination {
		return errors.Wrap(err, "run window")
	}
	return nil
}
