package audio

import "gridsnake/game"

// Player is the part of SoundManager that Cues needs
type Player interface {
	Play(st SoundType)
}

// Cues is a renderer that plays a sound when the score goes up or the game
// ends. It only compares consecutive snapshots, so it never touches the game.
type Cues struct {
	player Player
	id     string
	score  int
	over   bool
	primed bool
}

func NewCues(p Player) *Cues {
	return &Cues{player: p}
}

func (c *Cues) Render(snap game.Snapshot) error {
	if !c.primed || snap.ID != c.id {
		c.id, c.score, c.over, c.primed = snap.ID, snap.Score, snap.Over(), true
		return nil
	}

	if snap.Score > c.score && !snap.Won {
		c.player.Play(SoundEat)
	}
	if snap.Over() && !c.over {
		if snap.Won {
			c.player.Play(SoundWin)
		} else {
			c.player.Play(SoundCrash)
		}
	}
	c.score, c.over = snap.Score, snap.Over()
	return nil
}
