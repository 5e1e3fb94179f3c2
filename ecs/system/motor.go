package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
)

const groundEpsilon = 1e-6

// characterMotor is the movement primitive handed to movement states. It
// translates the entity and then resolves it against the ground.
type characterMotor struct {
	w             *ecs.World
	e             ecs.Entity
	stepTolerance float64
}

func (m characterMotor) Move(delta mgl64.Vec3) {
	t, ok := ecs.Get(m.w, m.e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	prevY := t.Position.Y()
	t.Position = t.Position.Add(delta)

	p, ok := ecs.Get(m.w, m.e, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	pw := m.w.PhysicsWorld()
	if pw == nil {
		p.Grounded = false
		return
	}

	// a floor top crossed during this move still counts
	feetY := math.Max(prevY, t.Position.Y())
	ground := pw.GroundHeight(t.Position.X(), t.Position.Z(), feetY, m.stepTolerance)
	if t.Position.Y() <= ground+groundEpsilon {
		t.Position[1] = ground
		p.Grounded = true
		return
	}
	p.Grounded = false
}

func (m characterMotor) Position() mgl64.Vec3 {
	t, ok := ecs.Get(m.w, m.e, component.TransformComponent.Kind())
	if !ok {
		return mgl64.Vec3{}
	}
	return t.Position
}

func (m characterMotor) SetYaw(yaw float64) {
	if t, ok := ecs.Get(m.w, m.e, component.TransformComponent.Kind()); ok {
		t.Yaw = yaw
	}
}
