package common

import "math"

const Deg2Rad = math.Pi / 180.0

// ClampAngle wraps an angle in radians into (-Pi, Pi].
func ClampAngle(rad float64) float64 {
	if math.IsNaN(rad) || math.IsInf(rad, 0) {
		return 0
	}
	a := math.Mod(rad+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// YawForward returns the unit XZ direction a yaw (degrees about +Y) faces.
// Yaw 0 faces +Z, yaw 90 faces +X.
func YawForward(yawDeg float64) (x, z float64) {
	r := yawDeg * Deg2Rad
	return math.Sin(r), math.Cos(r)
}
