// Package app holds the wiring every frontend binary shares: common flags,
// score history, audio and the optional autopilot.
package app

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gridsnake/ai"
	"gridsnake/audio"
	"gridsnake/game"
	"gridsnake/game/manager"
	"gridsnake/loop"

	"github.com/pkg/errors"
)

// Options are the flags shared by all frontends
type Options struct {
	Debug     bool
	Mute      bool
	Autopilot bool
	Agent     string
	Seed      uint64
	DataDir   string
}

// Register binds the shared flags on fs
func (o *Options) Register(fs *flag.FlagSet) {
	fs.BoolVar(&o.Debug, "debug", false, "Write a debug log under logs/")
	fs.BoolVar(&o.Mute, "mute", false, "Disable sound")
	fs.BoolVar(&o.Autopilot, "autopilot", false, "Let the learning agent play")
	fs.StringVar(&o.Agent, "agent", ai.AgentTable, "Learning agent: table (Q-table) or dqn (neural network)")
	fs.Uint64Var(&o.Seed, "seed", 0, "Random seed (0 = time based)")
	fs.StringVar(&o.DataDir, "data", "data", "Directory for score history and the agent's saved model")
}

// ApplyEnv lets GRIDSNAKE_DATA and GRIDSNAKE_DEBUG override the defaults.
// Flags given explicitly on the command line win.
func (o *Options) ApplyEnv(fs *flag.FlagSet) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if dir := os.Getenv("GRIDSNAKE_DATA"); dir != "" && !set["data"] {
		o.DataDir = dir
	}
	if debug := os.Getenv("GRIDSNAKE_DEBUG"); debug != "" && !set["debug"] {
		if val, err := strconv.ParseBool(debug); err == nil {
			o.Debug = val
		}
	}
}

// StatsPath is where the named frontend keeps its score history
func (o Options) StatsPath(name string) string {
	if o.DataDir == "" {
		return ""
	}
	return filepath.Join(o.DataDir, name+"-stats.json")
}

// AgentPath is shared by all frontends so the agent keeps what it learned.
// Each agent kind has its own file.
func (o Options) AgentPath() string {
	return filepath.Join(o.DataDir, ai.AgentFile(o.Agent))
}

// Session owns the optional services around one game
type Session struct {
	Stats *manager.StateManager
	Sound *audio.SoundManager
	Pilot *ai.Autopilot

	opts   Options
	logger *log.Logger
}

// Open loads the score history and starts audio and the autopilot as the
// options ask. Audio failure is logged, not returned.
func Open(name string, opts Options, g *game.Game, logger *log.Logger) (*Session, error) {
	stats, err := manager.NewStateManager(opts.StatsPath(name))
	if err != nil {
		return nil, errors.Wrap(err, "open score history")
	}
	s := &Session{Stats: stats, opts: opts, logger: logger}

	cfg := audio.LoadConfig()
	if opts.Mute {
		cfg.Enabled = false
	}
	s.Sound = audio.NewSoundManager(cfg)
	if err := s.Sound.Initialize(); err != nil {
		logger.Printf("audio disabled: %v", err)
	}

	if opts.Autopilot {
		agent, err := ai.NewAgent(opts.Agent, opts.Seed)
		if err != nil {
			return nil, err
		}
		if err := agent.Load(opts.AgentPath()); err != nil {
			if !os.IsNotExist(errors.Cause(err)) {
				return nil, err
			}
			logger.Printf("autopilot: starting an untrained %s agent", agentName(opts.Agent))
		}
		s.Pilot = ai.NewAutopilot(agent, g)
	}
	return s, nil
}

// Input puts the autopilot in front of the human's input. Keys still work
// for pause, restart and quit.
func (s *Session) Input(human loop.Input) loop.Input {
	if s.Pilot == nil {
		return human
	}
	return loop.Merge(human, s.Pilot)
}

// Renderer adds the audio cues after the frontend's own renderer
func (s *Session) Renderer(r loop.Renderer) loop.Renderer {
	return loop.Multi(r, audio.NewCues(s.Sound))
}

// Close stops audio and saves the autopilot's agent
func (s *Session) Close() error {
	s.Sound.Cleanup()
	if s.Pilot == nil {
		return nil
	}
	agent := s.Pilot.Agent()
	games, reward := agent.Stats()
	s.logger.Printf("autopilot: %d games, total reward %.1f", games, reward)
	return agent.Save(s.opts.AgentPath())
}

func agentName(kind string) string {
	if kind == "" {
		return ai.AgentTable
	}
	return kind
}
