// Command snake3d plays on a 20x20 wrapping board drawn in 3D with raylib.
package main

import (
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
	"gridsnake/ui/scene3d"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	boardSize = 20
	frameRate = 60
)

func main() {
	var opts app.Options
	opts.Register(flag.CommandLine)
	model := flag.String("model", "", "3D model file drawn as the food")
	shaderDir := flag.String("shader-dir", "", "Directory with snake.vs and snake.fs")
	speed := flag.Int("speed", int(game.FixedInterval/time.Millisecond), "Game speed in milliseconds per tick (lower = faster)")
	flag.Parse()
	opts.ApplyEnv(flag.CommandLine)

	logFile := logging.Setup(logging.Dir, "snake3d", opts.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(opts, *model, *shaderDir, time.Duration(*speed)*time.Millisecond); err != nil {
		log.Printf("fatal: %v", err)
		fmt.Fprintf(os.Stderr, "snake3d: %v\n", err)
		os.Exit(1)
	}
}

func newGame(seed uint64) (*game.Game, error) {
	start := types.Point{X: boardSize / 2, Y: boardSize / 2}
	return game.NewGame(game.Config{
		Width:    boardSize,
		Height:   boardSize,
		Boundary: types.Toroidal,
		Start:    &start,
		Seed:     seed,
	})
}

func run(opts app.Options, model, shaderDir string, tick time.Duration) error {
	g, err := newGame(opts.Seed)
	if err != nil {
		return err
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 800, scene3d.Title(g.Snapshot()))
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	rl.SetTargetFPS(frameRate)

	sess, err := app.Open("snake3d", opts, g, log.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("close session: %v", err)
		}
	}()

	renderer, err := scene3d.NewRenderer(scene3d.Options{
		ModelPath: model,
		ShaderDir: shaderDir,
		History:   sess.Stats,
	})
	if err != nil {
		return err
	}
	defer renderer.Close()
	if model != "" && !renderer.HasModel() {
		log.Printf("model %s did not load, drawing food as a cube", model)
	}

	d := loop.NewDriver(g, sess.Input(scene3d.Input{}),
		loop.WithRenderer(sess.Renderer(renderer)),
		loop.WithRecorder(sess.Stats),
		loop.WithInterval(loop.Fixed(tick)),
		loop.WithLogger(log.Default()),
	)

	log.Printf("session %s: %dx%d wrapping board", g.ID(), boardSize, boardSize)
	// raylib paces frames through SetTargetFPS and EndDrawing
	for {
		ok, err := d.Frame(time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
