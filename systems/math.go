// Package systems provides the simulation mechanics: size/speed laws,
// bot steering, collision resolution, and the spatial index.
package systems

import "math"

// RadiusForMass returns the collision and render radius for a mass
// under the square-root sizing law. Strictly increasing in mass.
func RadiusForMass(mass, scale float32) float32 {
	if mass <= 0 {
		return 0
	}
	return scale * float32(math.Sqrt(float64(mass)))
}

// SpeedForMass returns the movement speed for a mass: larger cells are
// strictly slower. base is the zero-radius speed, drag the slope of the
// divisor, scale the radius-law constant.
func SpeedForMass(mass, base, drag, scale float32) float32 {
	return base / (1 + RadiusForMass(mass, scale)*drag)
}

// ClampToBounds clamps a position so a circle of radius r stays fully
// inside [0,w]x[0,h]. Applied after every move, for every entity.
func ClampToBounds(x, y, r, w, h float32) (float32, float32) {
	return clampFloat(x, r, w-r), clampFloat(y, r, h-r)
}

// DistanceSq returns the squared distance between two points.
func DistanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// NormalizeDir returns the unit vector of (dx, dy). A near-zero vector
// yields (1, 0) instead of propagating NaN.
func NormalizeDir(dx, dy float32) (float32, float32) {
	magSq := dx*dx + dy*dy
	if magSq < 1e-12 {
		return 1, 0
	}
	mag := float32(math.Sqrt(float64(magSq)))
	return dx / mag, dy / mag
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float32) float32 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}
