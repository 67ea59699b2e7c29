package scene3d

import (
	"gridsnake/loop"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var keyCommands = []struct {
	key int32
	cmd loop.Command
}{
	{rl.KeyUp, loop.CmdUp},
	{rl.KeyW, loop.CmdUp},
	{rl.KeyDown, loop.CmdDown},
	{rl.KeyS, loop.CmdDown},
	{rl.KeyLeft, loop.CmdLeft},
	{rl.KeyA, loop.CmdLeft},
	{rl.KeyRight, loop.CmdRight},
	{rl.KeyD, loop.CmdRight},
	{rl.KeySpace, loop.CmdRestart},
	{rl.KeyP, loop.CmdPause},
	{rl.KeyQ, loop.CmdQuit},
}

// Input reads raylib's key state once per frame. Closing the window counts
// as quitting.
type Input struct{}

func (Input) Poll() []loop.Command {
	var cmds []loop.Command
	if rl.WindowShouldClose() {
		return []loop.Command{loop.CmdQuit}
	}
	for _, kc := range keyCommands {
		if rl.IsKeyPressed(kc.key) {
			cmds = append(cmds, kc.cmd)
		}
	}
	return cmds
}
