// Package ui renders the HUD and the tuning panel.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Score       float64 // player mass scaled for display
	PelletCount int
	BotCount    int
	Tick        int32
	FPS         int32
	Boosting    bool
	Paused      bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Score: %.1f", data.Score),
		10, 35, 20, rl.White,
	)

	rl.DrawText(
		fmt.Sprintf("Pellets: %d | Bots: %d | Tick: %d | FPS: %d", data.PelletCount, data.BotCount, data.Tick, data.FPS),
		10, 60, 16, rl.LightGray,
	)

	if data.Boosting {
		rl.DrawText("BOOST", 10, 80, 16, rl.SkyBlue)
	}
	if data.Paused {
		rl.DrawText("PAUSED", 10, 100, 20, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("mouse: steer | click/space: boost | P: pause | tab: tuning | wheel: zoom", 10, screenHeight-25, 14, rl.Gray)
}
