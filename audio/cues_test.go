package audio

import (
	"reflect"
	"testing"

	"gridsnake/game"
)

type fakePlayer struct {
	played []SoundType
}

func (f *fakePlayer) Play(st SoundType) {
	f.played = append(f.played, st)
}

func TestCuesFollowSnapshots(t *testing.T) {
	p := &fakePlayer{}
	c := NewCues(p)

	frames := []game.Snapshot{
		{ID: "a", Alive: true},
		{ID: "a", Alive: true},
		{ID: "a", Score: 10, Alive: true},
		{ID: "a", Score: 10, Alive: true},
		{ID: "a", Score: 10},
		{ID: "a", Score: 10},
		{ID: "b", Alive: true},
		{ID: "b", Score: 10, Won: true},
	}
	for _, f := range frames {
		if err := c.Render(f); err != nil {
			t.Fatal(err)
		}
	}

	want := []SoundType{SoundEat, SoundCrash, SoundWin}
	if !reflect.DeepEqual(p.played, want) {
		t.Errorf("Expected %v, got %v", want, p.played)
	}
}

func TestCuesStaySilentOnFirstFrame(t *testing.T) {
	p := &fakePlayer{}
	c := NewCues(p)
	c.Render(game.Snapshot{ID: "a", Score: 40})
	if len(p.played) != 0 {
		t.Errorf("Expected no cue on the first frame, got %v", p.played)
	}
}
