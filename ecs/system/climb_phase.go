package system

import (
	"context"

	"github.com/looplab/fsm"
)

// ClimbPhase is the sub-behaviour the ladder state is in. Exactly one phase
// is current at a time.
type ClimbPhase string

const (
	PhaseInactive         ClimbPhase = "inactive"
	PhaseClimbing         ClimbPhase = "climbing"
	PhaseMountingRise     ClimbPhase = "mounting_rise"
	PhaseMountingApproach ClimbPhase = "mounting_approach"
	PhaseStandingUp       ClimbPhase = "standing_up"
)

// Mounting reports whether p is one of the scripted ledge-mount phases.
func (p ClimbPhase) Mounting() bool {
	return p == PhaseMountingRise || p == PhaseMountingApproach
}

const (
	climbEventGrab         = "grab"
	climbEventReachTop     = "reach_top"
	climbEventRiseDone     = "rise_done"
	climbEventApproachDone = "approach_done"
	climbEventRelease      = "release"
)

// climbPhaseMachine wraps the phase FSM so illegal jumps between phases are
// rejected instead of silently applied.
type climbPhaseMachine struct {
	fsm *fsm.FSM
}

func newClimbPhaseMachine(onEnter func(from, to ClimbPhase)) *climbPhaseMachine {
	callbacks := fsm.Callbacks{}
	if onEnter != nil {
		callbacks["enter_state"] = func(_ context.Context, e *fsm.Event) {
			onEnter(ClimbPhase(e.Src), ClimbPhase(e.Dst))
		}
	}
	return &climbPhaseMachine{
		fsm: fsm.NewFSM(
			string(PhaseInactive),
			fsm.Events{
				{Name: climbEventGrab, Src: []string{string(PhaseInactive), string(PhaseStandingUp)}, Dst: string(PhaseClimbing)},
				{Name: climbEventReachTop, Src: []string{string(PhaseClimbing)}, Dst: string(PhaseMountingRise)},
				{Name: climbEventRiseDone, Src: []string{string(PhaseMountingRise)}, Dst: string(PhaseMountingApproach)},
				{Name: climbEventApproachDone, Src: []string{string(PhaseMountingApproach)}, Dst: string(PhaseStandingUp)},
				{Name: climbEventRelease, Src: []string{
					string(PhaseClimbing),
					string(PhaseMountingRise),
					string(PhaseMountingApproach),
					string(PhaseStandingUp),
				}, Dst: string(PhaseInactive)},
			},
			callbacks,
		),
	}
}

func (m *climbPhaseMachine) Current() ClimbPhase {
	return ClimbPhase(m.fsm.Current())
}

func (m *climbPhaseMachine) Is(p ClimbPhase) bool {
	return m.fsm.Is(string(p))
}

// Fire applies event and returns an error if the current phase does not
// allow it.
func (m *climbPhaseMachine) Fire(event string) error {
	return m.fsm.Event(context.Background(), event)
}

// Reset forces the machine into p without callbacks; used on activation,
// which fully re-initializes the session.
func (m *climbPhaseMachine) Reset(p ClimbPhase) {
	m.fsm.SetState(string(p))
}
