package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/ladderclimb/ecs"
	"github.com/milk9111/ladderclimb/ecs/component"
	"github.com/milk9111/ladderclimb/levels"
)

// NewVolume creates a tagged box volume and registers it with the physics
// world when one is attached.
func NewVolume(w *ecs.World, spec levels.Volume) (ecs.Entity, error) {
	pos := mgl64.Vec3(spec.Position)
	size := mgl64.Vec3(spec.Size)

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Yaw: spec.Yaw}); err != nil {
		return 0, fmt.Errorf("volume %s: add transform: %w", spec.Tag, err)
	}
	if err := ecs.Add(w, e, component.VolumeComponent.Kind(), &component.Volume{
		Tag:   spec.Tag,
		Size:  size,
		Solid: spec.Solid,
	}); err != nil {
		return 0, fmt.Errorf("volume %s: add volume: %w", spec.Tag, err)
	}
	if pw := w.PhysicsWorld(); pw != nil {
		pw.SetVolume(e, pos, spec.Yaw, size, spec.Solid)
	}
	return e, nil
}
