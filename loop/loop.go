// Package loop runs the poll input, advance, render cycle shared by every
// frontend. It knows nothing about the toolkit that draws or reads keys.
package loop

import (
	"context"
	"log"
	"time"

	"gridsnake/game"
	"gridsnake/game/manager"
	"gridsnake/game/types"

	"github.com/pkg/errors"
)

// Command is one discrete player intent
type Command int

const (
	CmdNone Command = iota
	CmdUp
	CmdRight
	CmdDown
	CmdLeft
	CmdRestart
	CmdPause
	CmdQuit
)

// Direction maps a movement command onto a heading
func (c Command) Direction() (types.Direction, bool) {
	switch c {
	case CmdUp:
		return types.Up, true
	case CmdRight:
		return types.Right, true
	case CmdDown:
		return types.Down, true
	case CmdLeft:
		return types.Left, true
	default:
		return types.NONE, false
	}
}

// CommandFor is the inverse of Command.Direction
func CommandFor(d types.Direction) Command {
	switch d {
	case types.Up:
		return CmdUp
	case types.Right:
		return CmdRight
	case types.Down:
		return CmdDown
	case types.Left:
		return CmdLeft
	default:
		return CmdNone
	}
}

// Input delivers the commands that arrived since the previous call.
// Poll must not block.
type Input interface {
	Poll() []Command
}

// Renderer draws one frame. It must treat the snapshot as read-only.
type Renderer interface {
	Render(snap game.Snapshot) error
}

// Recorder receives every finished game exactly once
type Recorder interface {
	Record(rec manager.GameRecord) error
}

// IntervalFunc chooses the delay before the next step from the current score
type IntervalFunc func(score int) time.Duration

// Fixed returns an IntervalFunc that ignores the score
func Fixed(d time.Duration) IntervalFunc {
	return func(int) time.Duration { return d }
}

// Adaptive speeds up with the score's level
func Adaptive() IntervalFunc {
	return game.TickInterval
}

// Option configures a Driver
type Option func(*Driver)

func WithRenderer(r Renderer) Option { return func(d *Driver) { d.renderer = r } }

func WithRecorder(r Recorder) Option { return func(d *Driver) { d.recorder = r } }

func WithInterval(f IntervalFunc) Option { return func(d *Driver) { d.interval = f } }

func WithLogger(l *log.Logger) Option { return func(d *Driver) { d.logger = l } }

// WithFrameRate sets how often Run calls Frame
func WithFrameRate(fps int) Option {
	return func(d *Driver) {
		if fps > 0 {
			d.frame = time.Second / time.Duration(fps)
		}
	}
}

// Driver owns the game for the lifetime of a session. Every mutating call
// on the game goes through Frame, so ticks never overlap.
type Driver struct {
	game     *game.Game
	input    Input
	renderer Renderer
	recorder Recorder
	interval IntervalFunc
	logger   *log.Logger
	frame    time.Duration

	lastStep time.Time
	paused   bool
	recorded bool
	quit     bool
}

// NewDriver wires a game to an input source. The default cadence is the
// fixed 10 ticks per second of the 3D board.
func NewDriver(g *game.Game, in Input, opts ...Option) *Driver {
	d := &Driver{
		game:     g,
		input:    in,
		interval: Fixed(game.FixedInterval),
		logger:   log.Default(),
		frame:    time.Second / 60,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Game returns the driven game for read access
func (d *Driver) Game() *game.Game {
	return d.game
}

func (d *Driver) Paused() bool {
	return d.paused
}

// Frame runs one host frame at time now: apply queued input, step the game
// if its interval has elapsed, then render. It returns false once the
// player asked to quit.
func (d *Driver) Frame(now time.Time) (bool, error) {
	if d.quit {
		return false, nil
	}

	for _, cmd := range d.input.Poll() {
		d.apply(cmd, now)
		if d.quit {
			return false, nil
		}
	}

	if d.lastStep.IsZero() {
		d.lastStep = now
	}

	if !d.paused && d.game.Alive() && now.Sub(d.lastStep) >= d.interval(d.game.Score()) {
		d.lastStep = now
		switch res := d.game.Step(); res {
		case game.Collided, game.Won:
			d.finish(res)
		case game.Ate:
			d.logger.Printf("ate: score=%d level=%d", d.game.Score(), game.SpeedLevel(d.game.Score()))
		}
	}

	if d.renderer != nil {
		if err := d.renderer.Render(d.game.Snapshot()); err != nil {
			return false, errors.Wrap(err, "render frame")
		}
	}
	return true, nil
}

func (d *Driver) apply(cmd Command, now time.Time) {
	if dir, ok := cmd.Direction(); ok {
		d.game.SetDirection(dir)
		return
	}
	switch cmd {
	case CmdRestart:
		// A running game is not thrown away by a stray key press
		if d.game.Alive() {
			return
		}
		d.game.Reset()
		d.recorded = false
		d.paused = false
		d.lastStep = now
		d.logger.Printf("restart: session=%s", d.game.ID())
	case CmdPause:
		if d.game.Alive() {
			d.paused = !d.paused
		}
	case CmdQuit:
		d.quit = true
		if d.game.Alive() && d.game.Score() > 0 {
			d.record()
		}
	}
}

func (d *Driver) finish(res game.StepResult) {
	snap := d.game.Snapshot()
	d.logger.Printf("game over: result=%s collision=%s score=%d length=%d steps=%d",
		res, snap.Collision, snap.Score, len(snap.Snake), snap.Steps)
	d.record()
}

func (d *Driver) record() {
	if d.recorder == nil || d.recorded {
		return
	}
	d.recorded = true
	if err := d.recorder.Record(d.game.Snapshot().Record()); err != nil {
		d.logger.Printf("record game: %v", err)
	}
}

// Run drives Frame from its own ticker until the player quits, ctx is
// cancelled or rendering fails.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.frame)
	defer ticker.Stop()

	if ok, err := d.Frame(time.Now()); !ok || err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			ok, err := d.Frame(now)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
	}
}

// Multi fans one frame out to several renderers, stopping at the first error
func Multi(renderers ...Renderer) Renderer {
	return multiRenderer(renderers)
}

type multiRenderer []Renderer

func (m multiRenderer) Render(snap game.Snapshot) error {
	for _, r := range m {
		if err := r.Render(snap); err != nil {
			return err
		}
	}
	return nil
}

// Merge polls every input in order and concatenates their commands
func Merge(inputs ...Input) Input {
	return mergedInput(inputs)
}

type mergedInput []Input

func (m mergedInput) Poll() []Command {
	var cmds []Command
	for _, in := range m {
		cmds = append(cmds, in.Poll()...)
	}
	return cmds
}
