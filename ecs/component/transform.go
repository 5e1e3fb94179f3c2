package component

import "github.com/go-gl/mathgl/mgl64"

// Transform places an entity in the world. Position is the feet/pivot point
// for actors and the box centre for volumes. Yaw is in degrees about +Y;
// yaw 0 faces +Z.
type Transform struct {
	Position mgl64.Vec3
	Yaw      float64
}

var TransformComponent = NewComponent[Transform]()
