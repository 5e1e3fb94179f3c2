package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/logger"
	"github.com/milk9111/ladderclimb/prefabs"
)

// NewPlayerStates builds the movement-state table for one player.
func NewPlayerStates(player prefabs.PlayerSpec, ladder prefabs.LadderSpec, log *zap.SugaredLogger) [component.StateCount]component.MovementState {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var states [component.StateCount]component.MovementState
	states[component.StateWalking] = NewWalkState(player, logger.For(log, logger.ComponentWalk))
	states[component.StateLadder] = NewLadderClimbState(ladder, logger.For(log, logger.ComponentLadder))
	return states
}

// PlayerFixedUpdateSystem binds player actors and runs the physics tick of
// every movement state.
type PlayerFixedUpdateSystem struct {
	log           *zap.SugaredLogger
	stepTolerance float64
}

func NewPlayerFixedUpdateSystem(stepTolerance float64, log *zap.SugaredLogger) *PlayerFixedUpdateSystem {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PlayerFixedUpdateSystem{log: log, stepTolerance: stepTolerance}
}

func (s *PlayerFixedUpdateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().Delta

	ecs.ForEach(w, component.PlayerStateMachineComponent.Kind(), func(e ecs.Entity, sm *component.PlayerStateMachine) {
		if sm.Actor == nil && !bindActor(w, e, sm, s.stepTolerance, s.log) {
			return
		}
		for _, st := range sm.States {
			if fu, ok := st.(component.FixedUpdater); ok {
				fu.FixedUpdate(dt)
			}
		}
	})
}

// PlayerFrameUpdateSystem runs the per-frame input handling of every
// movement state.
type PlayerFrameUpdateSystem struct{}

func NewPlayerFrameUpdateSystem() *PlayerFrameUpdateSystem {
	return &PlayerFrameUpdateSystem{}
}

func (s *PlayerFrameUpdateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().Delta

	ecs.ForEach(w, component.PlayerStateMachineComponent.Kind(), func(e ecs.Entity, sm *component.PlayerStateMachine) {
		if sm.Actor == nil {
			return
		}
		for _, st := range sm.States {
			if fu, ok := st.(component.FrameUpdater); ok {
				fu.FrameUpdate(dt)
			}
		}
	})
}

func bindActor(w *ecs.World, e ecs.Entity, sm *component.PlayerStateMachine, stepTolerance float64, log *zap.SugaredLogger) bool {
	player, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		log.Warnw("player state machine without player body", "entity", e)
		return false
	}
	if !ecs.Has(w, e, component.TransformComponent.Kind()) {
		log.Warnw("player state machine without transform", "entity", e)
		return false
	}
	input, _ := ecs.Get(w, e, component.InputComponent.Kind())

	motor := characterMotor{w: w, e: e, stepTolerance: stepTolerance}
	body := func() *component.Player {
		p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
		return p
	}

	actor := &component.Actor{
		Height:   player.Height,
		Input:    input,
		Surfaces: worldSurfaces{w: w},

		StateIndex: func() component.StateIndex { return sm.Active },
		SwitchState: func(next component.StateIndex) {
			switchState(w, e, sm, next, log)
		},
		Jump: func() {
			if j, ok := sm.States[sm.Active].(component.Jumper); ok {
				j.Jump()
			}
		},
		Move:     motor.Move,
		Position: motor.Position,
		SetYaw:   motor.SetYaw,
		IsGrounded: func() bool {
			p := body()
			return p != nil && p.Grounded
		},
		FallVelocity: func() float64 {
			if p := body(); p != nil {
				return p.FallVelocity
			}
			return 0
		},
		SetFallVelocity: func(v float64) {
			if p := body(); p != nil {
				p.FallVelocity = v
			}
		},
		IsHoldingObject: func() bool {
			p := body()
			return p != nil && p.HoldingObject
		},
	}
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		actor.Anim = anim
	}

	sm.Actor = actor
	for _, st := range sm.States {
		if st != nil {
			st.SetValues(actor)
		}
	}

	sm.Active = sm.Initial
	if st := activeState(sm); st != nil {
		st.Activate()
	}
	log.Debugw("player bound", "entity", e, "state", sm.Active)
	return true
}

func switchState(w *ecs.World, e ecs.Entity, sm *component.PlayerStateMachine, next component.StateIndex, log *zap.SugaredLogger) {
	if next < 0 || next >= component.StateCount || sm.States[next] == nil {
		log.Warnw("switch to unknown movement state", "entity", e, "state", int(next))
		return
	}
	if next == sm.Active {
		return
	}

	prev := sm.Active
	if st := activeState(sm); st != nil {
		st.Deactivate()
	}
	sm.Active = next
	sm.States[next].Activate()

	log.Debugw("movement state", "entity", e, "from", prev, "to", next)
	w.Emit(ecs.EventStateChanged, ecs.StateChangedEvent{Entity: e, From: prev.String(), To: next.String()})
}

func activeState(sm *component.PlayerStateMachine) component.MovementState {
	if sm.Active < 0 || sm.Active >= component.StateCount {
		return nil
	}
	return sm.States[sm.Active]
}
