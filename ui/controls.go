package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Tuning holds the live-adjustable simulation values shown in the
// panel. The game applies changes back to the simulation each frame.
type Tuning struct {
	FoodTarget int
	BotTarget  int
	BaseSpeed  float32
}

// ControlsPanel renders the tuning panel with raygui sliders.
type ControlsPanel struct {
	x, y    float32
	width   float32
	visible bool
}

// NewControlsPanel creates a tuning panel anchored at (x, y).
func NewControlsPanel(x, y, width float32) *ControlsPanel {
	return &ControlsPanel{x: x, y: y, width: width}
}

// Toggle switches panel visibility and returns the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Draw renders the panel and mutates t with any slider changes.
// Returns true if a value changed this frame.
func (c *ControlsPanel) Draw(t *Tuning) bool {
	if !c.visible {
		return false
	}

	const lineHeight = 38
	sliderW := c.width - 70

	panelH := float32(3*lineHeight + 50)
	rl.DrawRectangle(int32(c.x)-10, int32(c.y)-10, int32(c.width)+20, int32(panelH), rl.Fade(rl.Black, 0.6))
	rl.DrawText("Tuning", int32(c.x), int32(c.y), 18, rl.White)

	y := c.y + 28
	changed := false

	rl.DrawText("Food target", int32(c.x), int32(y), 12, rl.LightGray)
	newFood := gui.SliderBar(
		rl.Rectangle{X: c.x, Y: y + 14, Width: sliderW, Height: 16},
		"50", "800",
		float32(t.FoodTarget), 50, 800,
	)
	rl.DrawText(fmt.Sprintf("%d", t.FoodTarget), int32(c.x+sliderW+8), int32(y+14), 14, rl.White)
	if int(newFood) != t.FoodTarget {
		t.FoodTarget = int(newFood)
		changed = true
	}
	y += lineHeight

	rl.DrawText("Bot target", int32(c.x), int32(y), 12, rl.LightGray)
	newBots := gui.SliderBar(
		rl.Rectangle{X: c.x, Y: y + 14, Width: sliderW, Height: 16},
		"2", "40",
		float32(t.BotTarget), 2, 40,
	)
	rl.DrawText(fmt.Sprintf("%d", t.BotTarget), int32(c.x+sliderW+8), int32(y+14), 14, rl.White)
	if int(newBots) != t.BotTarget {
		t.BotTarget = int(newBots)
		changed = true
	}
	y += lineHeight

	rl.DrawText("Base speed", int32(c.x), int32(y), 12, rl.LightGray)
	newSpeed := gui.SliderBar(
		rl.Rectangle{X: c.x, Y: y + 14, Width: sliderW, Height: 16},
		"100", "900",
		t.BaseSpeed, 100, 900,
	)
	rl.DrawText(fmt.Sprintf("%.0f", t.BaseSpeed), int32(c.x+sliderW+8), int32(y+14), 14, rl.White)
	if newSpeed != t.BaseSpeed {
		t.BaseSpeed = newSpeed
		changed = true
	}

	return changed
}
