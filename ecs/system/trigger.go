package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
)

// worldSurfaces resolves surface handles to the volume entities of a world.
type worldSurfaces struct {
	w *ecs.World
}

func (s worldSurfaces) Surface(id component.SurfaceID) (component.Surface, bool) {
	return surfaceOf(s.w, ecs.Entity(id))
}

func surfaceOf(w *ecs.World, e ecs.Entity) (component.Surface, bool) {
	vol, ok := ecs.Get(w, e, component.VolumeComponent.Kind())
	if !ok {
		return component.Surface{}, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return component.Surface{}, false
	}
	return component.Surface{
		ID:       component.SurfaceID(e),
		Tag:      vol.Tag,
		Position: t.Position,
		Yaw:      t.Yaw,
		Size:     vol.Size,
	}, true
}

type syncedVolume struct {
	pos   mgl64.Vec3
	yaw   float64
	size  mgl64.Vec3
	solid bool
}

// TriggerSystem keeps the physics world in sync with volume entities and
// delivers a contact to every trigger listener for each volume a player
// overlaps, every fixed tick.
type TriggerSystem struct {
	log    *zap.SugaredLogger
	synced map[ecs.Entity]syncedVolume
}

func NewTriggerSystem(log *zap.SugaredLogger) *TriggerSystem {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &TriggerSystem{log: log, synced: make(map[ecs.Entity]syncedVolume)}
}

func (s *TriggerSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}
	s.syncVolumes(w, pw)

	ecs.ForEach3(w,
		component.PlayerStateMachineComponent.Kind(),
		component.PlayerComponent.Kind(),
		component.TransformComponent.Kind(),
		func(e ecs.Entity, sm *component.PlayerStateMachine, p *component.Player, t *component.Transform) {
			if sm.Actor == nil {
				return
			}
			for _, hit := range pw.Overlapping(t.Position, p.Radius, p.Height) {
				surf, ok := surfaceOf(w, hit)
				if !ok {
					continue
				}
				before := sm.Active
				for _, st := range sm.States {
					if l, ok := st.(component.TriggerListener); ok {
						l.OnTriggerStay(surf)
					}
				}
				if before != component.StateLadder && sm.Active == component.StateLadder {
					w.Emit(ecs.EventLadderGrab, ecs.LadderGrabEvent{Entity: e, Ladder: hit})
				}
			}
		})
}

func (s *TriggerSystem) syncVolumes(w *ecs.World, pw *ecs.PhysicsWorld) {
	seen := make(map[ecs.Entity]struct{}, len(s.synced))
	ecs.ForEach2(w, component.VolumeComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, v *component.Volume, t *component.Transform) {
		seen[e] = struct{}{}
		cur := syncedVolume{pos: t.Position, yaw: t.Yaw, size: v.Size, solid: v.Solid}
		if prev, ok := s.synced[e]; ok && prev == cur && pw.HasVolume(e) {
			return
		}
		if !(v.Size.Y() > 0) {
			s.log.Warnw("volume without height", "entity", e, "tag", v.Tag, "size", v.Size)
		}
		pw.SetVolume(e, t.Position, t.Yaw, v.Size, v.Solid)
		s.synced[e] = cur
	})

	for e := range s.synced {
		if _, ok := seen[e]; ok {
			continue
		}
		pw.RemoveVolume(e)
		delete(s.synced, e)
	}
}
