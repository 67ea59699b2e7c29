package audio

import (
	"math"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// SoundType identifies a game cue
type SoundType int

const (
	SoundEat SoundType = iota
	SoundCrash
	SoundWin
)

// Config controls whether and how loud cues are played
type Config struct {
	Enabled bool
	// Volume is a 0..1 master gain
	Volume float64
}

func DefaultConfig() Config {
	return Config{Enabled: true, Volume: 0.5}
}

// LoadConfig applies GRIDSNAKE_MUTE and GRIDSNAKE_VOLUME (0-100) on top of
// the defaults.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if mute := os.Getenv("GRIDSNAKE_MUTE"); mute != "" {
		if val, err := strconv.ParseBool(mute); err == nil {
			cfg.Enabled = !val
		}
	}
	if volume := os.Getenv("GRIDSNAKE_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.Volume = math.Max(0, math.Min(1, float64(val)/100.0))
		}
	}
	return cfg
}

// SoundManager plays short synthesised cues. Every method is a no-op until
// Initialize succeeds, so the game runs the same without a sound device.
type SoundManager struct {
	mu          sync.Mutex
	cfg         Config
	initialized bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager(cfg Config) *SoundManager {
	return &SoundManager{
		cfg: cfg,
	}
}

// Initialize opens the speaker
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	sm.initialized = false
}

// Play queues the cue for st
func (sm *SoundManager) Play(st SoundType) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s, err := Cue(st, sm.cfg.Volume)
	if err != nil {
		return
	}
	speaker.Play(s)
}

// Cue builds the finite streamer for st at the given gain
func Cue(st SoundType, volume float64) (beep.Streamer, error) {
	var s beep.Streamer
	var err error
	switch st {
	case SoundEat:
		s, err = tone(880, 60*time.Millisecond)
	case SoundCrash:
		s = beep.Take(sampleRate.N(300*time.Millisecond), NewBuzzGenerator(sampleRate, 110))
	case SoundWin:
		notes := make([]beep.Streamer, 0, 4)
		for _, f := range []float64{523.25, 659.25, 783.99, 1046.5} {
			n, nerr := tone(f, 120*time.Millisecond)
			if nerr != nil {
				return nil, nerr
			}
			notes = append(notes, n)
		}
		s = beep.Seq(notes...)
	default:
		return nil, errors.Errorf("unknown sound type %d", st)
	}
	if err != nil {
		return nil, err
	}
	return gain(s, volume), nil
}

func tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, errors.Wrapf(err, "sine tone %.0fHz", freq)
	}
	return beep.Take(sampleRate.N(d), sine), nil
}

// gain maps a linear 0..1 volume onto beep's exponential volume control
func gain(s beep.Streamer, volume float64) beep.Streamer {
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(volume, 1))}
}

// BuzzGenerator generates a low-pitch buzz sound
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz sound generator
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{
		sr:   sr,
		freq: freq,
	}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.0
		sample += 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)

		// Short attack, then fade out
		envelope := math.Min(t/0.02, 1.0) * math.Exp(-4*t)
		sample *= envelope

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}
