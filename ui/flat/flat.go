// Package flat is a plain 2D window frontend built on ebiten.
package flat

import (
	"fmt"
	"image/color"
	"time"

	"gridsnake/game"
	"gridsnake/loop"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const CellSize = 24

var (
	bgColor   = color.RGBA{18, 18, 24, 255}
	gridColor = color.RGBA{40, 40, 52, 255}
	headColor = color.RGBA{230, 60, 60, 255}
	bodyColor = color.RGBA{60, 200, 90, 255}
	foodColor = color.RGBA{70, 110, 240, 255}
)

// Input maps keys pressed this frame onto loop commands
type Input struct{}

func (Input) Poll() []loop.Command {
	var cmds []loop.Command
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW) {
		cmds = append(cmds, loop.CmdUp)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS) {
		cmds = append(cmds, loop.CmdDown)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		cmds = append(cmds, loop.CmdLeft)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		cmds = append(cmds, loop.CmdRight)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		cmds = append(cmds, loop.CmdRestart)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		cmds = append(cmds, loop.CmdPause)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		cmds = append(cmds, loop.CmdQuit)
	}
	return cmds
}

// Renderer keeps the latest snapshot for ebiten's Draw callback. The driver
// renders during Update, ebiten draws afterwards.
type Renderer struct {
	snap    game.Snapshot
	hasSnap bool
	paused  func() bool
}

func (r *Renderer) Render(snap game.Snapshot) error {
	r.snap = snap
	r.hasSnap = true
	return nil
}

// Last returns the most recent snapshot, if any
func (r *Renderer) Last() (game.Snapshot, bool) {
	return r.snap, r.hasSnap
}

func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	if !r.hasSnap {
		return
	}
	snap := r.snap
	w, h := snap.Grid.Width, snap.Grid.Height

	for x := 0; x < w; x++ {
		vector.DrawFilledRect(screen, float32(x*CellSize), 0, 1, float32(h*CellSize), gridColor, false)
	}
	for y := 0; y < h; y++ {
		vector.DrawFilledRect(screen, 0, float32(y*CellSize), float32(w*CellSize), 1, gridColor, false)
	}

	if snap.HasFood {
		drawCell(screen, snap.Food.X, snap.Food.Y, foodColor, 0.8)
	}
	for i, p := range snap.Snake {
		if i == 0 {
			drawCell(screen, p.X, p.Y, headColor, 1.0)
		} else {
			drawCell(screen, p.X, p.Y, bodyColor, 0.9)
		}
	}

	for i, line := range HUDLines(snap, r.paused != nil && r.paused()) {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*20)
	}
}

// CellRect is the pixel square for grid cell (x, y) shrunk by scale
func CellRect(x, y int, scale float32) (px, py, size float32) {
	size = CellSize * scale
	offset := CellSize * (1 - scale) / 2
	return float32(x*CellSize) + offset, float32(y*CellSize) + offset, size
}

func drawCell(screen *ebiten.Image, x, y int, c color.Color, scale float32) {
	px, py, size := CellRect(x, y, scale)
	vector.DrawFilledRect(screen, px, py, size, size, c, false)
}

// HUDLines is the overlay text for snap
func HUDLines(snap game.Snapshot, paused bool) []string {
	lines := []string{fmt.Sprintf("Score: %d | Level: %d", snap.Score, snap.Level)}
	switch {
	case snap.Won:
		lines = append(lines, fmt.Sprintf("Board cleared! Score: %d - Press SPACE to restart or Q to quit", snap.Score))
	case snap.Over():
		lines = append(lines, fmt.Sprintf("GAME OVER! Score: %d - Press SPACE to restart or Q to quit", snap.Score))
	case paused:
		lines = append(lines, "Paused - Press P to Resume")
	}
	return lines
}

// Game adapts a loop.Driver to ebiten.Game
type Game struct {
	driver   *loop.Driver
	renderer *Renderer
	now      func() time.Time
}

// NewGame builds the ebiten game. The driver must have been created with r as
// its renderer.
func NewGame(d *loop.Driver, r *Renderer) *Game {
	r.paused = d.Paused
	return &Game{driver: d, renderer: r, now: time.Now}
}

func (g *Game) Update() error {
	ok, err := g.driver.Frame(g.now())
	if err != nil {
		return err
	}
	if !ok {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	grid := g.driver.Game().Grid
	return grid.Width * CellSize, grid.Height * CellSize
}
