package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Volume tags understood by the movement states.
const (
	TagLadder = "Ladder"
	TagFloor  = "Floor"
)

// Volume is an axis-aligned (before yaw) box attached to a Transform. Solid
// volumes are walkable ground; the rest are trigger volumes.
type Volume struct {
	Tag   string
	Size  mgl64.Vec3
	Solid bool
}

var VolumeComponent = NewComponent[Volume]()

// SurfaceID is a handle to a world volume. It never owns the volume.
type SurfaceID uint64

// Surface is a snapshot of a volume as seen by a contact: tag, transform and
// extents.
type Surface struct {
	ID       SurfaceID
	Tag      string
	Position mgl64.Vec3
	Yaw      float64
	Size     mgl64.Vec3
}

// VerticalSpan returns the [min, max] height the surface covers, or ok=false
// when the extents are unusable.
func (s Surface) VerticalSpan() (minY, maxY float64, ok bool) {
	half := s.Size.Y() / 2
	y := s.Position.Y()
	if !(half > 0) || math.IsInf(half, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	return y - half, y + half, true
}

// SurfaceLookup resolves surface handles against the world that owns them.
type SurfaceLookup interface {
	Surface(id SurfaceID) (Surface, bool)
}
