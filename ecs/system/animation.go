package system

import (
	"math"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
)

// AnimationSystem advances every animator by the frame delta. Playback runs
// backwards while the animSpeed parameter is negative.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().Delta

	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(e ecs.Entity, anim *component.Animator) {
		if anim.FadeElapsed < anim.FadeDuration {
			anim.FadeElapsed = math.Min(anim.FadeElapsed+dt, anim.FadeDuration)
		}

		dir := 1.0
		if v, ok := anim.Params[component.AnimParamSpeed]; ok && v < 0 {
			dir = -1
		}
		anim.Time += dt * anim.Speed * dir
		// normalized looping clip
		anim.Time -= math.Floor(anim.Time)
	})
}
