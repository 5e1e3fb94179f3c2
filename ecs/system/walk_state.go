package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/prefabs"
)

const locomotionFade = 0.2

// WalkState moves the actor on foot and through the air.
type WalkState struct {
	cfg prefabs.PlayerSpec
	log *zap.SugaredLogger

	actor  *component.Actor
	active bool
}

var (
	_ component.MovementState = (*WalkState)(nil)
	_ component.FixedUpdater  = (*WalkState)(nil)
	_ component.FrameUpdater  = (*WalkState)(nil)
	_ component.Jumper        = (*WalkState)(nil)
)

func NewWalkState(cfg prefabs.PlayerSpec, log *zap.SugaredLogger) *WalkState {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WalkState{cfg: cfg, log: log}
}

func (s *WalkState) Name() string { return component.StateWalking.String() }

func (s *WalkState) SetConfig(cfg prefabs.PlayerSpec) { s.cfg = cfg }

func (s *WalkState) Active() bool { return s.active }

func (s *WalkState) SetValues(actor *component.Actor) {
	s.actor = actor
}

func (s *WalkState) Activate() {
	if s.actor == nil {
		s.log.Error("walk state activated before SetValues")
		return
	}
	s.active = true
	if s.actor.Anim != nil {
		s.actor.Anim.SetSpeed(1)
		s.actor.Anim.CrossFade(component.AnimClipLocomotion, locomotionFade)
	}
}

func (s *WalkState) Deactivate() {
	s.active = false
}

// FixedUpdate integrates gravity into the host fall velocity and applies the
// horizontal input. MoveY walks along +Z, MoveX along +X.
func (s *WalkState) FixedUpdate(dt float64) {
	if !s.active || s.actor == nil {
		return
	}

	v := s.actor.FallVelocity()
	if s.actor.IsGrounded() && v <= 0 {
		v = 0
	} else {
		v -= s.cfg.Gravity * dt
	}

	x, z := s.actor.Input.MoveAxes()
	speed := s.cfg.WalkSpeed * dt
	s.actor.Move(mgl64.Vec3{x * speed, v * dt, z * speed})

	if s.actor.IsGrounded() && v < 0 {
		v = 0
	}
	s.actor.SetFallVelocity(v)
}

func (s *WalkState) FrameUpdate(_ float64) {
	if !s.active || s.actor == nil {
		return
	}
	if s.actor.IsGrounded() && s.actor.Input.WasJumpPressed() {
		s.Jump()
	}
}

// Jump launches the actor upward. It does not check for ground so other
// states can hand a jump over mid-air.
func (s *WalkState) Jump() {
	if s.actor == nil || s.actor.SetFallVelocity == nil {
		return
	}
	s.log.Debugw("jump", "speed", s.cfg.JumpSpeed)
	s.actor.SetFallVelocity(s.cfg.JumpSpeed)
}
