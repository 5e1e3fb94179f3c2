package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/levels"
	"github.com/milk9111/ladderclimb/prefabs"
)

// LoadLevelToWorld attaches a fresh physics world for lvl and creates one
// entity per volume.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) ([]ecs.Entity, error) {
	if w == nil || lvl == nil {
		return nil, fmt.Errorf("load level: nil world or level")
	}
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(lvl.GroundY))

	out := make([]ecs.Entity, 0, len(lvl.Volumes))
	for i, v := range lvl.Volumes {
		e, err := NewVolume(w, v)
		if err != nil {
			return nil, fmt.Errorf("level %q: volume %d: %w", lvl.Name, i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Scene is a loaded level with its player.
type Scene struct {
	World   *ecs.World
	Level   *levels.Level
	Player  ecs.Entity
	Volumes []ecs.Entity
}

// NewScene builds a world for lvl and spawns the player at its spawn point.
func NewScene(lvl *levels.Level, player prefabs.PlayerSpec, ladder prefabs.LadderSpec, log *zap.SugaredLogger) (*Scene, error) {
	w := ecs.NewWorld()
	vols, err := LoadLevelToWorld(w, lvl)
	if err != nil {
		return nil, err
	}
	p, err := NewPlayer(w, player, ladder, mgl64.Vec3(lvl.Spawn.Position), lvl.Spawn.Yaw, log)
	if err != nil {
		return nil, err
	}
	return &Scene{World: w, Level: lvl, Player: p, Volumes: vols}, nil
}

type ladderConfigurable interface {
	SetConfig(prefabs.LadderSpec)
}

type playerConfigurable interface {
	SetConfig(prefabs.PlayerSpec)
}

// ApplyLadderSpec pushes new ladder tuning into every movement state that
// takes it. It returns how many states were updated.
func (s *Scene) ApplyLadderSpec(spec prefabs.LadderSpec) int {
	n := 0
	ecs.ForEach(s.World, component.PlayerStateMachineComponent.Kind(), func(_ ecs.Entity, sm *component.PlayerStateMachine) {
		for _, st := range sm.States {
			if c, ok := st.(ladderConfigurable); ok {
				c.SetConfig(spec)
				n++
			}
		}
	})
	return n
}

// ApplyPlayerSpec pushes new player tuning into the movement states and the
// player bodies.
func (s *Scene) ApplyPlayerSpec(spec prefabs.PlayerSpec) int {
	n := 0
	ecs.ForEach2(s.World, component.PlayerStateMachineComponent.Kind(), component.PlayerComponent.Kind(), func(_ ecs.Entity, sm *component.PlayerStateMachine, p *component.Player) {
		p.Radius = spec.Radius
		for _, st := range sm.States {
			if c, ok := st.(playerConfigurable); ok {
				c.SetConfig(spec)
				n++
			}
		}
	})
	return n
}
