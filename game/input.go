package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/sim"
)

// handleInput processes keyboard and mouse input, returning the tick
// input (pointer target in world space) and the boost edge event.
func (g *Game) handleInput() (sim.Input, bool) {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.Toggle()
	}

	// Mouse wheel zoom
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1 + wheel*0.1)
	}

	// Pointer target in world space
	mouse := rl.GetMousePosition()
	wx, wy := g.cam.ScreenToWorld(mouse.X, mouse.Y)

	boost := rl.IsMouseButtonPressed(rl.MouseButtonLeft) || rl.IsKeyPressed(rl.KeySpace)

	return sim.Input{TargetX: wx, TargetY: wy}, boost
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenW && h == g.screenH {
		return
	}
	g.screenW = w
	g.screenH = h

	g.cam.Resize(w, h)
}

// applyTuning pushes panel changes into the simulation.
func (g *Game) applyTuning() {
	g.sim.SetPopulationTargets(g.tuning.FoodTarget, g.tuning.BotTarget)
	g.sim.SetBaseSpeed(g.tuning.BaseSpeed)
}
