package terminal

import (
	"gridsnake/loop"

	"github.com/gdamore/tcell/v2"
)

// Input turns tcell key events into loop commands. Events arrive on a
// channel fed by Listen, so Poll never blocks.
type Input struct {
	events <-chan tcell.Event
}

func NewInput(events <-chan tcell.Event) *Input {
	return &Input{events: events}
}

// Listen pumps screen events into a buffered channel until the screen is
// finalised.
func Listen(screen tcell.Screen) *Input {
	ch := make(chan tcell.Event, 100)
	go func() {
		defer close(ch)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			ch <- ev
		}
	}()
	return NewInput(ch)
}

func (in *Input) Poll() []loop.Command {
	var cmds []loop.Command
	for {
		select {
		case ev, ok := <-in.events:
			if !ok {
				return append(cmds, loop.CmdQuit)
			}
			if cmd := translate(ev); cmd != loop.CmdNone {
				cmds = append(cmds, cmd)
			}
		default:
			return cmds
		}
	}
}

func translate(ev tcell.Event) loop.Command {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return loop.CmdNone
	}

	switch key.Key() {
	case tcell.KeyUp:
		return loop.CmdUp
	case tcell.KeyDown:
		return loop.CmdDown
	case tcell.KeyLeft:
		return loop.CmdLeft
	case tcell.KeyRight:
		return loop.CmdRight
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return loop.CmdQuit
	case tcell.KeyRune:
		switch key.Rune() {
		case 'w', 'W':
			return loop.CmdUp
		case 's', 'S':
			return loop.CmdDown
		case 'a', 'A':
			return loop.CmdLeft
		case 'd', 'D':
			return loop.CmdRight
		case 'q', 'Q':
			return loop.CmdQuit
		case ' ':
			return loop.CmdRestart
		case 'p', 'P':
			return loop.CmdPause
		}
	}
	return loop.CmdNone
}
