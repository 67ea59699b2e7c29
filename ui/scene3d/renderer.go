package scene3d

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gridsnake/game"
	"gridsnake/game/manager"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

const (
	maxScores     = 200 // Maximum number of scores to show in graph
	borderPadding = 10
	cellSize      = float32(1.0)
	modelScale    = float32(0.005)
	spinPerSecond = float32(90)
	orbitPerSec   = 0.05
)

// History is the score log shown in the stats panel
type History interface {
	Scores() []int
	Summary() manager.Summary
}

// Options configures the scene's optional assets
type Options struct {
	// ModelPath is a 3D model drawn as the food. A blue cube is used when empty
	// or when the model fails to load.
	ModelPath string
	// ShaderDir holds snake.vs and snake.fs. The built-in shader is used when empty.
	ShaderDir string
	History   History
}

// Renderer draws the board as cubes on a plane with a stats panel on the
// right. It must be created after rl.InitWindow and closed before
// rl.CloseWindow.
type Renderer struct {
	camera   rl.Camera3D
	shader   rl.Shader
	tint     rl.Color
	tintLoc  int32
	model    rl.Model
	hasModel bool
	history  History
	started  time.Time

	screenWidth  int32
	screenHeight int32
	statsPanel   int32
	graphWidth   int32
	graphHeight  int32
}

func NewRenderer(opts Options) (*Renderer, error) {
	r := &Renderer{
		history: opts.History,
		started: time.Now(),
		camera: rl.Camera3D{
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       45,
			Projection: rl.CameraPerspective,
		},
	}

	shader, err := loadShader(opts.ShaderDir)
	if err != nil {
		return nil, err
	}
	r.shader = shader
	r.tintLoc = rl.GetShaderLocation(shader, "tint")

	if opts.ModelPath != "" {
		if _, err := os.Stat(opts.ModelPath); err == nil {
			r.model = rl.LoadModel(opts.ModelPath)
			r.hasModel = r.model.MeshCount > 0
		}
	}

	r.UpdateDimensions()
	return r, nil
}

func loadShader(dir string) (rl.Shader, error) {
	if dir == "" {
		shader := rl.LoadShaderFromMemory(defaultVertexShader, defaultFragmentShader)
		if !rl.IsShaderReady(shader) {
			return rl.Shader{}, errors.New("built-in shader did not compile or link")
		}
		return shader, nil
	}
	vs := filepath.Join(dir, "snake.vs")
	fs := filepath.Join(dir, "snake.fs")
	for _, p := range []string{vs, fs} {
		if _, err := os.Stat(p); err != nil {
			return rl.Shader{}, errors.Wrap(err, "shader source")
		}
	}
	shader := rl.LoadShader(vs, fs)
	if !rl.IsShaderReady(shader) {
		return rl.Shader{}, errors.Errorf("shader %s did not compile or link", dir)
	}
	return shader, nil
}

// HasModel reports whether the food model loaded
func (r *Renderer) HasModel() bool {
	return r.hasModel
}

func (r *Renderer) Close() {
	if r.hasModel {
		rl.UnloadModel(r.model)
	}
	rl.UnloadShader(r.shader)
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())
	r.statsPanel = r.screenWidth / 5
	r.graphWidth = r.statsPanel - 20
	r.graphHeight = r.screenHeight / 5
}

func (r *Renderer) Render(snap game.Snapshot) error {
	r.UpdateDimensions()
	rl.SetWindowTitle(Title(snap))

	elapsed := float32(time.Since(r.started).Seconds())
	r.camera.Position, r.camera.Target = OrbitCamera(snap.Grid.Width, snap.Grid.Height, float64(elapsed)*orbitPerSec)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	rl.BeginMode3D(r.camera)
	rl.DrawGrid(int32(max(snap.Grid.Width, snap.Grid.Height)), cellSize)

	rl.BeginShaderMode(r.shader)
	for i, c := range Cubes(snap, r.hasModel) {
		// Uniforms apply to the whole pending batch, so draw what is
		// queued before switching tint.
		if i == 0 || c.Color != r.tint {
			rl.DrawRenderBatchActive()
			r.setTint(c.Color)
		}
		rl.DrawCube(c.Pos, c.Size, c.Size, c.Size, c.Color)
	}
	rl.EndShaderMode()

	if snap.HasFood && r.hasModel {
		pos := CellToWorld(snap.Grid.Width, snap.Grid.Height, snap.Food.X, snap.Food.Y)
		rl.DrawModelEx(r.model, pos, rl.NewVector3(0, 1, 0), elapsed*spinPerSecond,
			rl.NewVector3(modelScale, modelScale, modelScale), rl.White)
	}
	for _, p := range snap.Snake {
		rl.DrawCubeWires(CellToWorld(snap.Grid.Width, snap.Grid.Height, p.X, p.Y), cellSize*0.9, cellSize*0.9, cellSize*0.9, rl.DarkGray)
	}
	rl.EndMode3D()

	fontSize := min(r.screenHeight/45, r.statsPanel/12)
	if fontSize < 10 {
		fontSize = 10
	}
	r.drawOverlay(snap, fontSize)
	r.drawStatsPanel(fontSize)

	rl.EndDrawing()
	return nil
}

// Cube is one solid cell of the board
type Cube struct {
	Pos   rl.Vector3
	Size  float32
	Color rl.Color
}

// Cubes lists the shaded cubes of a frame: the head in red, the body in
// green and the food in blue unless a model stands in for it.
func Cubes(snap game.Snapshot, foodModel bool) []Cube {
	cubes := make([]Cube, 0, len(snap.Snake)+1)
	for i, p := range snap.Snake {
		color := rl.Green
		if i == 0 {
			color = rl.Red
		}
		cubes = append(cubes, Cube{
			Pos:   CellToWorld(snap.Grid.Width, snap.Grid.Height, p.X, p.Y),
			Size:  cellSize * 0.9,
			Color: color,
		})
	}
	if snap.HasFood && !foodModel {
		cubes = append(cubes, Cube{
			Pos:   CellToWorld(snap.Grid.Width, snap.Grid.Height, snap.Food.X, snap.Food.Y),
			Size:  cellSize * 0.8,
			Color: rl.Blue,
		})
	}
	return cubes
}

func (r *Renderer) setTint(c rl.Color) {
	r.tint = c
	if r.tintLoc < 0 {
		return
	}
	tint := []float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
	rl.SetShaderValue(r.shader, r.tintLoc, tint, rl.ShaderUniformVec3)
}

func (r *Renderer) drawOverlay(snap game.Snapshot, fontSize int32) {
	rl.DrawText(fmt.Sprintf("Score: %d  Level: %d", snap.Score, snap.Level), borderPadding, borderPadding, fontSize, rl.White)

	if !snap.Over() {
		return
	}
	title := "GAME OVER!"
	if snap.Won {
		title = "BOARD CLEARED!"
	}
	gameW := r.screenWidth - r.statsPanel
	lines := []string{title, fmt.Sprintf("Final Score: %d", snap.Score), "Press SPACE to restart or Q to quit"}
	y := r.screenHeight/2 - int32(len(lines))*fontSize
	for _, line := range lines {
		w := rl.MeasureText(line, fontSize*2)
		rl.DrawText(line, (gameW-w)/2, y, fontSize*2, rl.Yellow)
		y += fontSize * 2
	}
}

func (r *Renderer) drawStatsPanel(fontSize int32) {
	if r.history == nil {
		return
	}
	lineHeight := fontSize + fontSize/2
	statsX := r.screenWidth - r.statsPanel + 5
	statsY := int32(borderPadding)

	rl.DrawRectangle(statsX-5, 0, r.statsPanel, r.screenHeight, rl.DarkGray)

	sum := r.history.Summary()
	rows := []string{
		"History:",
		fmt.Sprintf("High: %d", sum.HighScore),
		fmt.Sprintf("Games: %d", sum.Games),
		fmt.Sprintf("Mean: %.1f", sum.MeanScore),
		fmt.Sprintf("Median: %.1f", sum.MedianScore),
	}
	for _, row := range rows {
		rl.DrawText(row, statsX, statsY, fontSize, rl.White)
		statsY += lineHeight
	}

	r.drawPerformanceGraph(statsX, fontSize, sum.MeanScore)
}

func (r *Renderer) drawPerformanceGraph(graphX, fontSize int32, mean float64) {
	graphY := r.screenHeight - r.graphHeight - fontSize*2

	rl.DrawRectangleLines(graphX, graphY, r.graphWidth, r.graphHeight, rl.White)
	rl.DrawText("Scores", graphX, graphY-fontSize-5, fontSize, rl.White)

	d := time.Since(r.started)
	timeText := fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	rl.DrawText(timeText, graphX, r.screenHeight-fontSize-5, fontSize, rl.White)

	points, maxScore := GraphPoints(r.history.Scores(), r.graphWidth, r.graphHeight)
	for j := 1; j < len(points); j++ {
		rl.DrawLine(graphX+points[j-1][0], graphY+points[j-1][1], graphX+points[j][0], graphY+points[j][1], rl.Green)
	}

	if len(points) > 1 {
		// Dashed mean line
		avgY := graphY + r.graphHeight - int32(float32(r.graphHeight)*float32(mean)/float32(maxScore))
		for x := graphX; x < graphX+r.graphWidth; x += 5 {
			rl.DrawLine(x, avgY, x+2, avgY, rl.Yellow)
		}
	}
}

// GraphPoints scales the most recent scores into a w by h box with the origin
// at the top left. It also returns the score mapped to the top edge.
func GraphPoints(scores []int, w, h int32) ([][2]int32, int) {
	if len(scores) > maxScores {
		scores = scores[len(scores)-maxScores:]
	}
	maxScore := 1
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	points := make([][2]int32, len(scores))
	for i, s := range scores {
		points[i] = [2]int32{
			int32(float32(w) * float32(i) / float32(maxScores)),
			h - int32(float32(h)*float32(s)/float32(maxScore)),
		}
	}
	return points, maxScore
}

// CellToWorld centres the board on the origin. Grid y grows towards the
// camera along world Z, so "up" on the keyboard moves away from the viewer.
func CellToWorld(width, height, x, y int) rl.Vector3 {
	return rl.NewVector3(
		(float32(x)-float32(width-1)/2)*cellSize,
		cellSize/2,
		(float32(y)-float32(height-1)/2)*cellSize,
	)
}

// Title is the window caption for snap
func Title(snap game.Snapshot) string {
	caption := fmt.Sprintf("Snake Game - Score: %d", snap.Score)
	if snap.Won {
		caption += " - BOARD CLEARED! Press SPACE to restart or Q to quit"
	} else if snap.Over() {
		caption += " - GAME OVER! Press SPACE to restart or Q to quit"
	}
	return caption
}
