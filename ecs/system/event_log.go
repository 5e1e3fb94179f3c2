package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/ecs"
)

// EventLogSystem drains the world event queue at the end of a frame, logs
// every event and hands it to an optional observer.
type EventLogSystem struct {
	log     *zap.SugaredLogger
	observe func(ecs.Clock, ecs.Event)
}

func NewEventLogSystem(log *zap.SugaredLogger, observe func(ecs.Clock, ecs.Event)) *EventLogSystem {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &EventLogSystem{log: log, observe: observe}
}

func (s *EventLogSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	clock := w.Clock()
	for _, evt := range w.Events().Drain() {
		switch data := evt.Data.(type) {
		case ecs.StateChangedEvent:
			s.log.Infow(evt.Type, "entity", data.Entity, "from", data.From, "to", data.To, "t", evt.At.Elapsed, "tick", evt.At.Tick)
		case ecs.LadderGrabEvent:
			s.log.Infow(evt.Type, "entity", data.Entity, "ladder", data.Ladder, "t", evt.At.Elapsed, "tick", evt.At.Tick)
		default:
			s.log.Debugw(evt.Type, "data", evt.Data, "t", evt.At.Elapsed)
		}
		if s.observe != nil {
			s.observe(clock, evt)
		}
	}
}
