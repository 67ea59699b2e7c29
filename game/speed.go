package game

import (
	"time"

	"gridsnake/game/types"
)

const (
	BaseInterval  = 100 * time.Millisecond
	LevelStep     = 5 * time.Millisecond
	MinInterval   = 50 * time.Millisecond
	FixedInterval = 100 * time.Millisecond // 10 ticks per second
)

// SpeedLevel is the difficulty level suggested for a score
func SpeedLevel(score int) int {
	if score < 0 {
		score = 0
	}
	return score/types.PointsPerLevel + 1
}

// TickInterval suggests how long a driver should wait between steps at the
// given score. The game itself never sleeps.
func TickInterval(score int) time.Duration {
	d := BaseInterval - time.Duration(SpeedLevel(score))*LevelStep
	if d < MinInterval {
		return MinInterval
	}
	return d
}
