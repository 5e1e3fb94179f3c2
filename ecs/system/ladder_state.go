package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/common"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/prefabs"
)

// LadderClimbState drives the actor while it hangs on a ladder volume and
// while it mounts the ledge at the top. It is bound to one actor.
type LadderClimbState struct {
	cfg prefabs.LadderSpec
	log *zap.SugaredLogger

	actor  *component.Actor
	height float64
	active bool
	phase  *climbPhaseMachine

	surface      component.SurfaceID
	ledgeMinY    float64
	ledgeMaxY    float64
	climbingUp   bool
	climbElapsed float64

	// regrabCooldown runs on the physics tick even while inactive.
	regrabCooldown float64
	// actionDebounce runs on the frame tick, only while active.
	actionDebounce float64
}

// timerSlack absorbs the rounding of summed fixed steps, so forty 0.02s
// ticks count as 0.8s.
const timerSlack = 1e-9

var (
	_ component.MovementState   = (*LadderClimbState)(nil)
	_ component.FixedUpdater    = (*LadderClimbState)(nil)
	_ component.FrameUpdater    = (*LadderClimbState)(nil)
	_ component.TriggerListener = (*LadderClimbState)(nil)
)

func NewLadderClimbState(cfg prefabs.LadderSpec, log *zap.SugaredLogger) *LadderClimbState {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &LadderClimbState{cfg: cfg, log: log, climbingUp: true}
	s.phase = newClimbPhaseMachine(func(from, to ClimbPhase) {
		s.log.Debugw("climb phase", "from", string(from), "to", string(to))
	})
	return s
}

func (s *LadderClimbState) Name() string { return component.StateLadder.String() }

// SetConfig swaps the tunables. Running timers keep their current values.
func (s *LadderClimbState) SetConfig(cfg prefabs.LadderSpec) {
	s.cfg = cfg
}

func (s *LadderClimbState) Phase() ClimbPhase       { return s.phase.Current() }
func (s *LadderClimbState) Active() bool            { return s.active }
func (s *LadderClimbState) ClimbingUp() bool        { return s.climbingUp }
func (s *LadderClimbState) ClimbElapsed() float64   { return s.climbElapsed }
func (s *LadderClimbState) RegrabCooldown() float64 { return s.regrabCooldown }
func (s *LadderClimbState) ActionDebounce() float64 { return s.actionDebounce }

// Span returns the vertical bounds of the grabbed ladder.
func (s *LadderClimbState) Span() (minY, maxY float64) { return s.ledgeMinY, s.ledgeMaxY }

// Surface returns the handle of the grabbed ladder.
func (s *LadderClimbState) Surface() component.SurfaceID { return s.surface }

func (s *LadderClimbState) SetValues(actor *component.Actor) {
	s.actor = actor
	if actor == nil {
		s.log.Warn("ladder state bound to nil actor")
		return
	}
	s.height = actor.Height
	if !(s.height > 0) {
		s.log.Warnw("actor has no usable height, ladder contacts will be ignored", "height", s.height)
	}
}

func (s *LadderClimbState) Activate() {
	if s.actor == nil {
		s.log.Error("ladder state activated before SetValues")
		return
	}
	s.active = true

	if s.phase.fsm.Can(climbEventGrab) {
		if err := s.phase.Fire(climbEventGrab); err != nil {
			s.log.Warnw("grab transition failed", "phase", s.phase.Current(), "error", err)
		}
	} else {
		s.phase.Reset(PhaseClimbing)
	}
	s.climbingUp = true
	s.climbElapsed = 0

	s.setFloat(component.AnimParamLean, 0)
	if s.actor.Anim != nil {
		s.actor.Anim.CrossFade(component.AnimClipLadder, 0)
	}
	if s.actor.SetFallVelocity != nil {
		s.actor.SetFallVelocity(0)
	}
	s.regrabCooldown = s.cfg.RegrabCooldown
}

func (s *LadderClimbState) Deactivate() {
	s.active = false
	s.climbElapsed = 0
	if s.phase.Is(PhaseInactive) {
		return
	}
	if err := s.phase.Fire(climbEventRelease); err != nil {
		s.log.Warnw("release transition failed", "phase", s.phase.Current(), "error", err)
		s.phase.Reset(PhaseInactive)
	}
}

// FixedUpdate counts the re-grab cooldown down and, while active, moves the
// actor along the ladder or through the ledge mount.
func (s *LadderClimbState) FixedUpdate(dt float64) {
	if s.regrabCooldown > 0 {
		s.regrabCooldown -= dt
	}
	if !s.active || s.actor == nil {
		return
	}

	switch p := s.phase.Current(); {
	case p.Mounting():
		s.mountLedge(dt)
	case p == PhaseClimbing:
		s.climb(dt)
	}
}

func (s *LadderClimbState) climb(dt float64) {
	y := s.actor.Input.ClimbAxis()

	// only the switch to climbing down is edge-detected; climbing up is
	// re-asserted every tick
	if y < 0 {
		if s.climbingUp {
			s.climbingUp = false
			s.setFloat(component.AnimParamSpeed, -1)
		}
	} else {
		s.climbingUp = true
		s.setFloat(component.AnimParamSpeed, 1)
	}
	if s.actor.Anim != nil {
		s.actor.Anim.SetSpeed(math.Abs(y) * s.cfg.ClimbAnimScale)
	}
	s.actor.Move(mgl64.Vec3{0, y * s.cfg.ClimbSpeed * dt, 0})

	posY := s.actor.Position().Y()
	if posY < s.ledgeMinY || s.actor.IsGrounded() {
		s.log.Debugw("left ladder at the bottom", "y", posY, "min", s.ledgeMinY)
		s.setFloat(component.AnimParamSpeed, 1)
		s.actor.SwitchState(component.StateWalking)
		return
	}

	if posY+s.height > s.ledgeMaxY {
		if err := s.phase.Fire(climbEventReachTop); err != nil {
			s.log.Warnw("reach_top transition failed", "phase", s.phase.Current(), "error", err)
			return
		}
		s.climbElapsed = 0
		s.setFloat(component.AnimParamLean, 1)
	}
}

func (s *LadderClimbState) mountLedge(dt float64) {
	surf, ok := s.grabbedSurface()
	if !ok {
		s.log.Errorw("grabbed ladder is gone, aborting ledge mount", "surface", s.surface)
		s.abort()
		return
	}

	elapsed := s.climbElapsed + timerSlack
	switch {
	case elapsed < s.cfg.RiseDuration:
		s.actor.Move(mgl64.Vec3{0, s.cfg.RiseSpeed * dt, 0})
	case elapsed < s.cfg.ApproachDuration:
		if s.phase.Is(PhaseMountingRise) {
			s.fire(climbEventRiseDone)
		}
		fx, fz := common.YawForward(surf.Yaw)
		s.actor.Move(mgl64.Vec3{s.cfg.ApproachSpeed * fx * dt, 0, s.cfg.ApproachSpeed * fz * dt})
	default:
		if s.phase.Is(PhaseMountingRise) {
			s.fire(climbEventRiseDone)
		}
		s.fire(climbEventApproachDone)
		s.climbElapsed = 0
		s.log.Debugw("ledge mount finished", "position", s.actor.Position())
		s.actor.SwitchState(component.StateWalking)
		return
	}

	s.climbElapsed += dt
}

// FrameUpdate handles the jump and drop actions. Both are ignored until the
// action debounce started at grab time has run out.
func (s *LadderClimbState) FrameUpdate(dt float64) {
	if !s.active || s.actor == nil {
		return
	}
	if s.actionDebounce > 0 {
		s.actionDebounce -= dt
		return
	}
	if !s.phase.Is(PhaseClimbing) {
		return
	}

	in := s.actor.Input
	switch {
	case in.WasJumpPressed():
		s.log.Debug("jump off ladder")
		s.actor.SwitchState(component.StateWalking)
		if s.actor.Jump != nil {
			s.actor.Jump()
		}
	case in.WasDropPressed():
		surf, ok := s.grabbedSurface()
		s.actor.SwitchState(component.StateWalking)
		if !ok {
			s.log.Warnw("dropped from a ladder that no longer exists", "surface", s.surface)
			return
		}
		alpha := common.ClampAngle(surf.Yaw * common.Deg2Rad)
		d := s.cfg.DropDistance
		s.log.Debugw("drop off ladder", "angle", alpha)
		s.actor.Move(mgl64.Vec3{d * math.Cos(alpha), 0, d * math.Sin(alpha)})
	}
}

// OnTriggerStay grabs a ladder volume when every entry gate passes.
func (s *LadderClimbState) OnTriggerStay(other component.Surface) {
	if s.actor == nil || s.regrabCooldown > 0 || other.Tag != component.TagLadder {
		return
	}
	if s.actor.StateIndex() == component.StateLadder {
		return
	}
	if s.actor.IsHoldingObject != nil && s.actor.IsHoldingObject() {
		return
	}
	if !(s.height > 0) {
		return
	}
	minY, maxY, ok := other.VerticalSpan()
	if !ok {
		s.log.Errorw("ladder volume has no usable extents", "surface", other.ID, "size", other.Size, "position", other.Position)
		return
	}

	s.actionDebounce = s.cfg.ActionDebounce
	s.actor.SwitchState(component.StateLadder)
	if !s.active {
		s.log.Warnw("dispatcher did not activate ladder state", "surface", other.ID)
		return
	}

	s.surface = other.ID
	s.ledgeMinY = minY
	s.ledgeMaxY = maxY

	pos := s.actor.Position()
	s.actor.Move(mgl64.Vec3{other.Position.X() - pos.X(), 0, other.Position.Z() - pos.Z()})
	s.actor.SetYaw(other.Yaw)
	s.log.Debugw("grabbed ladder", "surface", other.ID, "min", minY, "max", maxY)
}

func (s *LadderClimbState) abort() {
	s.setFloat(component.AnimParamSpeed, 1)
	s.actor.SwitchState(component.StateWalking)
	if s.active {
		// no dispatcher took over; never leave the actor hanging
		s.Deactivate()
	}
}

func (s *LadderClimbState) grabbedSurface() (component.Surface, bool) {
	if s.actor == nil || s.actor.Surfaces == nil {
		return component.Surface{}, false
	}
	return s.actor.Surfaces.Surface(s.surface)
}

func (s *LadderClimbState) fire(event string) {
	if err := s.phase.Fire(event); err != nil {
		s.log.Warnw("climb transition failed", "event", event, "phase", s.phase.Current(), "error", err)
	}
}

func (s *LadderClimbState) setFloat(name string, v float64) {
	if s.actor != nil && s.actor.Anim != nil {
		s.actor.Anim.SetFloat(name, v)
	}
}
