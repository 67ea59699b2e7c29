package main

import (
	"context"
	"os"
	"testing"

	"gridsnake/ai"
	"gridsnake/game"
	"gridsnake/game/types"
	"gridsnake/internal/app"
)

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		in      string
		want    types.Boundary
		wantErr bool
	}{
		{"toroidal", types.Toroidal, false},
		{"Walled", types.Walled, false},
		{"wrap", types.Toroidal, false},
		{"diagonal", 0, true},
	}
	for _, tt := range tests {
		got, err := parseBoundary(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBoundary(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseBoundary(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRunWritesTableAndHistory(t *testing.T) {
	opts := app.Options{Seed: 5, DataDir: t.TempDir()}
	cfg := ai.TrainerConfig{
		Game:     game.Config{Width: 10, Height: 10, Boundary: types.Toroidal, Seed: 5},
		Workers:  2,
		SavePath: opts.AgentPath(),
	}

	stats, err := run(context.Background(), opts, cfg, 10)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Episodes+stats.Abandoned != 10 {
		t.Errorf("Expected 10 episodes, got %+v", stats)
	}
	if _, err := os.Stat(opts.AgentPath()); err != nil {
		t.Errorf("Expected q-table file: %v", err)
	}
	if stats.Episodes > 0 {
		if _, err := os.Stat(opts.StatsPath("train")); err != nil {
			t.Errorf("Expected history file: %v", err)
		}
	}
}

func TestRunTrainsDQN(t *testing.T) {
	opts := app.Options{Agent: ai.AgentDQN, Seed: 3, DataDir: t.TempDir()}
	cfg := ai.TrainerConfig{
		Game:         game.Config{Width: 6, Height: 6, Boundary: types.Walled, Seed: 3},
		Workers:      1,
		SavePath:     opts.AgentPath(),
		MaxIdleSteps: 40,
	}

	stats, err := run(context.Background(), opts, cfg, 3)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Episodes+stats.Abandoned != 3 {
		t.Errorf("Expected 3 episodes, got %+v", stats)
	}
	if _, err := os.Stat(opts.AgentPath()); err != nil {
		t.Errorf("Expected saved weights: %v", err)
	}
}

func TestRunRejectsUnknownAgent(t *testing.T) {
	opts := app.Options{Agent: "genetic", DataDir: t.TempDir()}
	cfg := ai.TrainerConfig{Game: game.Config{Width: 6, Height: 6}, SavePath: opts.AgentPath()}
	if _, err := run(context.Background(), opts, cfg, 1); err == nil {
		t.Error("Expected an error for an unknown agent")
	}
}
