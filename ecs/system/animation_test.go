package system

import (
	"math"
	"testing"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
)

func TestAnimationSystemAdvances(t *testing.T) {
	cases := []struct {
		name     string
		speed    float64
		param    float64
		start    float64
		wantTime float64
	}{
		{"forward", 3.5, 1, 0, 0.35},
		{"backward", 3.5, -1, 0.5, 0.15},
		{"wraps_backward", 3.5, -1, 0.1, 0.75},
		{"paused", 0, 1, 0.4, 0.4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			anim := &component.Animator{}
			anim.CrossFade(component.AnimClipLadder, 0.2)
			anim.SetSpeed(c.speed)
			anim.SetFloat(component.AnimParamSpeed, c.param)
			anim.Time = c.start
			mustAdd(t, ecs.Add(w, e, component.AnimatorComponent.Kind(), anim))

			s := ecs.NewScheduler(physicsDT, 8)
			s.Add(ecs.StageFrame, NewAnimationSystem())
			s.Update(w, 0.1)

			if math.Abs(anim.Time-c.wantTime) > 1e-9 {
				t.Fatalf("expected time %v, got %v", c.wantTime, anim.Time)
			}
			if math.Abs(anim.Weight()-0.5) > 1e-9 {
				t.Fatalf("expected half-way crossfade, got %v", anim.Weight())
			}
		})
	}
}
