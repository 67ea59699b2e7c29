package terminal

import (
	"fmt"

	"gridsnake/game"

	"github.com/gdamore/tcell/v2"
)

const (
	snakeRune = '■'
	foodRune  = 'O'
)

var (
	snakeStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlack)
	foodStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlack)
	scoreStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack)
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
)

// Renderer draws snapshots onto a tcell screen. The grid maps one cell to
// one terminal cell, with the wall on the screen's outer ring.
type Renderer struct {
	screen    tcell.Screen
	highScore func() int
	paused    func() bool
}

func NewRenderer(screen tcell.Screen) *Renderer {
	screen.HideCursor()
	return &Renderer{screen: screen}
}

// WithHighScore shows the best recorded score next to the current one
func (r *Renderer) WithHighScore(f func() int) *Renderer {
	r.highScore = f
	return r
}

// WithPaused lets the renderer show a pause banner
func (r *Renderer) WithPaused(f func() bool) *Renderer {
	r.paused = f
	return r
}

func (r *Renderer) Render(snap game.Snapshot) error {
	r.screen.Clear()

	if snap.Over() {
		r.drawGameOver(snap)
		r.screen.Show()
		return nil
	}

	r.drawBorder(snap.Grid.Width, snap.Grid.Height)

	if snap.HasFood {
		r.screen.SetContent(snap.Food.X, snap.Food.Y, foodRune, nil, foodStyle)
	}
	for _, p := range snap.Snake {
		r.screen.SetContent(p.X, p.Y, snakeRune, nil, snakeStyle)
	}

	hud := fmt.Sprintf("Score: %d | Level: %d", snap.Score, snap.Level)
	if r.highScore != nil {
		hud = fmt.Sprintf("%s | Best: %d", hud, r.highScore())
	}
	r.drawText(snap.Grid.Width-len(hud)-1, 0, hud, scoreStyle)

	if r.paused != nil && r.paused() {
		msg := "PAUSED - press P to resume"
		r.drawText(snap.Grid.Width/2-len(msg)/2, snap.Grid.Height/2, msg, textStyle.Bold(true))
	}

	r.screen.Show()
	return nil
}

func (r *Renderer) drawBorder(w, h int) {
	for x := 1; x < w-1; x++ {
		r.screen.SetContent(x, 0, tcell.RuneHLine, nil, borderStyle)
		r.screen.SetContent(x, h-1, tcell.RuneHLine, nil, borderStyle)
	}
	for y := 1; y < h-1; y++ {
		r.screen.SetContent(0, y, tcell.RuneVLine, nil, borderStyle)
		r.screen.SetContent(w-1, y, tcell.RuneVLine, nil, borderStyle)
	}
	r.screen.SetContent(0, 0, tcell.RuneULCorner, nil, borderStyle)
	r.screen.SetContent(w-1, 0, tcell.RuneURCorner, nil, borderStyle)
	r.screen.SetContent(0, h-1, tcell.RuneLLCorner, nil, borderStyle)
	r.screen.SetContent(w-1, h-1, tcell.RuneLRCorner, nil, borderStyle)
}

func (r *Renderer) drawGameOver(snap game.Snapshot) {
	title := "GAME OVER!"
	if snap.Won {
		title = "YOU WIN!"
	}
	score := fmt.Sprintf("Final Score: %d", snap.Score)
	help := "Press Q to quit or SPACE to restart"

	cx, cy := snap.Grid.Width/2, snap.Grid.Height/2
	r.drawText(cx-len(title)/2, cy, title, textStyle.Bold(true))
	r.drawText(cx-len(score)/2, cy+1, score, textStyle)
	r.drawText(cx-len(help)/2, cy+3, help, textStyle)
}

func (r *Renderer) drawText(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
