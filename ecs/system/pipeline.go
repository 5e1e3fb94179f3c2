package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/logger"
)

// Pipeline holds the player systems a scheduler runs, so callers can reach
// them for hot reload and inspection.
type Pipeline struct {
	Fixed   *PlayerFixedUpdateSystem
	Trigger *TriggerSystem
	Frame   *PlayerFrameUpdateSystem
	Anim    *AnimationSystem
	Events  *EventLogSystem
}

// Install registers the simulation systems in their fixed order: player
// physics then triggers on every fixed step, then input, player frame
// update, animation and event logging once per frame.
func Install(s *ecs.Scheduler, input ecs.System, stepTolerance float64, log *zap.SugaredLogger, observe func(ecs.Clock, ecs.Event)) *Pipeline {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	p := &Pipeline{
		Fixed:   NewPlayerFixedUpdateSystem(stepTolerance, logger.For(log, logger.ComponentPlayer)),
		Trigger: NewTriggerSystem(logger.For(log, logger.ComponentTrigger)),
		Frame:   NewPlayerFrameUpdateSystem(),
		Anim:    NewAnimationSystem(),
		Events:  NewEventLogSystem(logger.For(log, logger.ComponentEvents), observe),
	}
	s.Add(ecs.StageFixed, p.Fixed)
	s.Add(ecs.StageFixed, p.Trigger)
	if input != nil {
		s.Add(ecs.StageFrame, input)
	}
	s.Add(ecs.StageFrame, p.Frame)
	s.Add(ecs.StageFrame, p.Anim)
	s.Add(ecs.StageFrame, p.Events)
	return p
}
