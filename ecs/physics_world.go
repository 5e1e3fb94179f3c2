package ecs

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ladderclimb/common"
)

// PhysicsWorld indexes world volumes in a Chipmunk space. The space is laid
// over the horizontal XZ plane (cp X = world X, cp Y = world Z) and is never
// stepped: it only answers footprint queries, while each volume keeps its own
// vertical span.
type PhysicsWorld struct {
	space   *cp.Space
	groundY float64

	volumes       map[Entity]*volumeShape
	shapeToEntity map[*cp.Shape]Entity
}

type volumeShape struct {
	body  *cp.Body
	shape *cp.Shape
	minY  float64
	maxY  float64
	solid bool
}

// NewPhysicsWorld creates an empty volume index over an infinite ground plane
// at groundY.
func NewPhysicsWorld(groundY float64) *PhysicsWorld {
	return &PhysicsWorld{
		space:         cp.NewSpace(),
		groundY:       groundY,
		volumes:       make(map[Entity]*volumeShape),
		shapeToEntity: make(map[*cp.Shape]Entity),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// GroundPlane returns the height of the infinite ground plane.
func (pw *PhysicsWorld) GroundPlane() float64 {
	if pw == nil {
		return math.Inf(-1)
	}
	return pw.groundY
}

// HasVolume reports whether e is registered.
func (pw *PhysicsWorld) HasVolume(e Entity) bool {
	if pw == nil {
		return false
	}
	_, ok := pw.volumes[e]
	return ok
}

// SetVolume registers (or re-registers) a box volume centred at pos with the
// given full size and yaw in degrees.
func (pw *PhysicsWorld) SetVolume(e Entity, pos mgl64.Vec3, yawDeg float64, size mgl64.Vec3, solid bool) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.RemoveVolume(e)

	body := cp.NewStaticBody()
	body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Z()})
	// world yaw turns clockwise seen from above, cp angles counter-clockwise
	body.SetAngle(-yawDeg * common.Deg2Rad)
	pw.space.AddBody(body)

	shape := cp.NewBox(body, math.Max(size.X(), 1e-6), math.Max(size.Z(), 1e-6), 0)
	pw.space.AddShape(shape)

	half := size.Y() / 2
	pw.volumes[e] = &volumeShape{
		body:  body,
		shape: shape,
		minY:  pos.Y() - half,
		maxY:  pos.Y() + half,
		solid: solid,
	}
	pw.shapeToEntity[shape] = e
}

// RemoveVolume unregisters e.
func (pw *PhysicsWorld) RemoveVolume(e Entity) bool {
	if pw == nil {
		return false
	}
	v, ok := pw.volumes[e]
	if !ok {
		return false
	}
	pw.space.RemoveShape(v.shape)
	pw.space.RemoveBody(v.body)
	delete(pw.shapeToEntity, v.shape)
	delete(pw.volumes, e)
	return true
}

// Overlapping returns the volumes a vertical capsule overlaps: a circle of
// radius around (feet.X, feet.Z) spanning [feet.Y, feet.Y+height]. Results
// are ordered by entity for deterministic dispatch.
func (pw *PhysicsWorld) Overlapping(feet mgl64.Vec3, radius, height float64) []Entity {
	if pw == nil || pw.space == nil {
		return nil
	}
	top := feet.Y() + height
	var out []Entity
	pw.pointQuery(feet.X(), feet.Z(), radius, func(e Entity, v *volumeShape) {
		if feet.Y() < v.maxY && top > v.minY {
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GroundHeight returns the highest walkable surface under (x, z) that is not
// above feetY+stepTolerance: the ground plane or the top of a solid volume.
func (pw *PhysicsWorld) GroundHeight(x, z, feetY, stepTolerance float64) float64 {
	ground := pw.GroundPlane()
	if pw == nil || pw.space == nil {
		return ground
	}
	pw.pointQuery(x, z, 0, func(_ Entity, v *volumeShape) {
		if !v.solid {
			return
		}
		if v.maxY <= feetY+stepTolerance && v.maxY > ground {
			ground = v.maxY
		}
	})
	return ground
}

func (pw *PhysicsWorld) pointQuery(x, z, radius float64, fn func(e Entity, v *volumeShape)) {
	seen := make(map[Entity]struct{})
	pt := cp.Vector{X: x, Y: z}
	pw.space.BBQuery(cp.NewBBForCircle(pt, radius), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		e, ok := pw.shapeToEntity[shape]
		if !ok {
			return
		}
		// distance is negative inside the box
		if shape.PointQuery(pt).Distance > radius {
			return
		}
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		fn(e, pw.volumes[e])
	}, nil)
}
