package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/ui"
)

// Grid line spacing in world units.
const gridSpacing = 100

// minRenderRadius keeps small pellets visible at any zoom. Render-only:
// collision math always uses the mass-derived radius.
const minRenderRadius = 2.0

// Draw renders one frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(18, 18, 24, 255))

	g.drawGrid()
	g.drawPellets()
	g.drawBots()
	g.drawPlayer()

	p := g.sim.Player()
	g.hud.Draw(ui.HUDData{
		Title:       Title,
		Score:       float64(p.Mass) / ScoreScale,
		PelletCount: g.sim.PelletCount(),
		BotCount:    g.sim.BotCount(),
		Tick:        g.sim.Tick(),
		FPS:         rl.GetFPS(),
		Boosting:    p.BoostRemaining > 0,
		Paused:      g.paused,
	})
	g.hud.DrawControls(int32(g.screenH))

	if g.panel.Draw(&g.tuning) {
		g.applyTuning()
	}

	rl.EndDrawing()
}

// drawGrid draws the background grid lines over the visible area, plus
// the world border.
func (g *Game) drawGrid() {
	minX, minY, maxX, maxY := g.cam.VisibleWorldBounds()
	worldW, worldH := g.sim.WorldSize()

	startX := int(minX/gridSpacing) * gridSpacing
	for x := float32(startX); x <= maxX; x += gridSpacing {
		if x < 0 || x > worldW {
			continue
		}
		sx1, sy1 := g.cam.WorldToScreen(x, clampf(minY, 0, worldH))
		sx2, sy2 := g.cam.WorldToScreen(x, clampf(maxY, 0, worldH))
		rl.DrawLineV(rl.Vector2{X: sx1, Y: sy1}, rl.Vector2{X: sx2, Y: sy2}, rl.NewColor(40, 40, 52, 255))
	}

	startY := int(minY/gridSpacing) * gridSpacing
	for y := float32(startY); y <= maxY; y += gridSpacing {
		if y < 0 || y > worldH {
			continue
		}
		sx1, sy1 := g.cam.WorldToScreen(clampf(minX, 0, worldW), y)
		sx2, sy2 := g.cam.WorldToScreen(clampf(maxX, 0, worldW), y)
		rl.DrawLineV(rl.Vector2{X: sx1, Y: sy1}, rl.Vector2{X: sx2, Y: sy2}, rl.NewColor(40, 40, 52, 255))
	}

	// World border
	x0, y0 := g.cam.WorldToScreen(0, 0)
	x1, y1 := g.cam.WorldToScreen(worldW, worldH)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 2, rl.NewColor(90, 90, 110, 255))
}

// drawPellets renders the visible pellets.
func (g *Game) drawPellets() {
	g.sim.ForEachPellet(func(pos components.Position, body components.Body, radius float32) {
		if !g.cam.IsVisible(pos.X, pos.Y, radius) {
			return
		}
		sx, sy := g.cam.WorldToScreen(pos.X, pos.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, g.renderRadius(radius), rlColor(body.Color))
	})
}

// drawBots renders the visible bots with an outline.
func (g *Game) drawBots() {
	g.sim.ForEachBot(func(pos components.Position, body components.Body, radius float32) {
		if !g.cam.IsVisible(pos.X, pos.Y, radius) {
			return
		}
		sx, sy := g.cam.WorldToScreen(pos.X, pos.Y)
		sr := g.renderRadius(radius)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, sr, rlColor(body.Color))
		rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, sr, rl.NewColor(230, 230, 230, 180))
	})
}

// drawPlayer renders the player cell with a bright outline, tinted
// while boosting.
func (g *Game) drawPlayer() {
	p := g.sim.Player()
	sx, sy := g.cam.WorldToScreen(p.X, p.Y)
	sr := g.renderRadius(p.Radius)

	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, sr, rlColor(p.Color))

	outline := rl.White
	if p.BoostRemaining > 0 {
		outline = rl.SkyBlue
	}
	rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, sr, outline)
}

// renderRadius converts a world radius to screen pixels with the
// visibility floor applied.
func (g *Game) renderRadius(r float32) float32 {
	sr := r * g.cam.Zoom
	if sr < minRenderRadius {
		return minRenderRadius
	}
	return sr
}

// rlColor converts a component color to a raylib color.
func rlColor(c components.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// clampf restricts a value to a range.
func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
