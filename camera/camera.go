// Package camera provides a 2D camera for viewing the arena.
package camera

import "math"

// Camera controls the viewport into the simulation world. The world is
// a bounded rectangle: the camera clamps so the viewport never shows
// space outside it, and it can smoothly track a target.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions (for clamping)
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// FollowRate is the exponential smoothing rate for Follow, per
	// second. Higher snaps faster; 0 disables smoothing (hard lock).
	FollowRate float32
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		X:          worldW / 2,
		Y:          worldH / 2,
		Zoom:       1.0,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		WorldW:     worldW,
		WorldH:     worldH,
		MaxZoom:    4.0,
		FollowRate: 6.0,
	}
	c.updateMinZoom()
	c.clampToWorld()
	return c
}

// updateMinZoom keeps the visible area within the world: at zoom Z the
// visible extent is viewport/Z, which must not exceed the world extent.
func (c *Camera) updateMinZoom() {
	minZoomX := c.ViewportW / c.WorldW
	minZoomY := c.ViewportH / c.WorldH
	c.MinZoom = minZoomX
	if minZoomY > c.MinZoom {
		c.MinZoom = minZoomY
	}
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// clampToWorld keeps the viewport fully inside the world bounds.
func (c *Camera) clampToWorld() {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clamp(c.X, halfW, c.WorldW-halfW)
	c.Y = clamp(c.Y, halfH, c.WorldH-halfH)
}

// Follow moves the camera toward (tx, ty) with exponential smoothing
// over dt seconds, then re-clamps to the world.
func (c *Camera) Follow(tx, ty, dt float32) {
	if c.FollowRate <= 0 {
		c.X = tx
		c.Y = ty
	} else {
		// 1 - e^(-rate*dt) is frame-rate independent smoothing.
		alpha := 1 - float32(math.Exp(float64(-c.FollowRate*dt)))
		c.X += (tx - c.X) * alpha
		c.Y += (ty - c.Y) * alpha
	}
	c.clampToWorld()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
	c.clampToWorld()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampToWorld()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the world center at 1:1 zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampToWorld()
}

// VisibleWorldBounds returns the world-coordinate bounds of the
// visible area as (minX, minY, maxX, maxY).
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
