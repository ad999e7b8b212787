// Package game wires the simulation core to raylib presentation:
// input capture, camera control, rendering, and the HUD.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/camera"
	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/sim"
	"github.com/pthm-cable/petri/telemetry"
	"github.com/pthm-cable/petri/ui"
)

// Title is the window and HUD title.
const Title = "Petri"

// ScoreScale divides raw mass for HUD display.
const ScoreScale = 10.0

// headlessDT is the fixed timestep used when no display drives the
// loop.
const headlessDT = 1.0 / 60.0

// Options configures a new game session.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
}

// Game owns one session: the simulation, the camera, the UI, and the
// telemetry pipeline.
type Game struct {
	sim       *sim.Sim
	cam       *camera.Camera
	hud       *ui.HUD
	panel     *ui.ControlsPanel
	tuning    ui.Tuning
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	logStats bool
	headless bool
	paused   bool

	screenW, screenH float32

	// scratch buffer for window-end bot mass samples
	botMasses []float64
}

// NewGame creates a session from the global config and the given
// options.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	windowSec := opts.StatsWindowSec
	if windowSec <= 0 {
		windowSec = cfg.Telemetry.StatsWindow
	}
	collector := telemetry.NewCollector(windowSec)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("initializing output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g := &Game{
		sim:       sim.New(sim.Options{Seed: opts.Seed, Recorder: collector}),
		hud:       ui.NewHUD(),
		collector: collector,
		output:    output,
		logStats:  opts.LogStats,
		headless:  opts.Headless,
		screenW:   cfg.Derived.ScreenW32,
		screenH:   cfg.Derived.ScreenH32,
	}

	food, bots := g.sim.PopulationTargets()
	g.tuning = ui.Tuning{
		FoodTarget: food,
		BotTarget:  bots,
		BaseSpeed:  g.sim.BaseSpeed(),
	}

	if !opts.Headless {
		worldW, worldH := g.sim.WorldSize()
		g.cam = camera.New(g.screenW, g.screenH, worldW, worldH)
		g.panel = ui.NewControlsPanel(g.screenW-260, 20, 230)

		p := g.sim.Player()
		g.cam.Follow(p.X, p.Y, 1000) // snap on first frame
	}

	slog.Info("session started",
		"seed", opts.Seed,
		"pellets", g.sim.PelletCount(),
		"bots", g.sim.BotCount(),
	)

	return g, nil
}

// Update runs one frame in graphical mode: capture input, advance the
// simulation unless paused, and track the player with the camera.
func (g *Game) Update() {
	in, boost := g.handleInput()

	dt := rl.GetFrameTime()

	if !g.paused {
		in.Boost = boost
		g.sim.Step(in, dt)
		g.afterStep(float64(dt))
	}

	p := g.sim.Player()
	g.cam.Follow(p.X, p.Y, dt)
}

// UpdateHeadless runs one fixed-dt tick with synthetic input: the
// player holds position at the world center target. Used for soak
// runs and profiling without a display.
func (g *Game) UpdateHeadless() {
	worldW, worldH := g.sim.WorldSize()
	in := sim.Input{TargetX: worldW / 2, TargetY: worldH / 2}

	g.sim.Step(in, headlessDT)
	g.afterStep(headlessDT)
}

// afterStep feeds the telemetry pipeline after a completed tick.
func (g *Game) afterStep(dt float64) {
	if !g.collector.Advance(dt) {
		return
	}

	g.botMasses = g.botMasses[:0]
	g.sim.ForEachBot(func(_ components.Position, body components.Body, _ float32) {
		g.botMasses = append(g.botMasses, float64(body.Mass))
	})

	p := g.sim.Player()
	stats := g.collector.Flush(g.sim.Tick(), g.sim.PelletCount(), g.sim.BotCount(), float64(p.Mass), g.botMasses)

	if g.logStats {
		stats.Log()
	}
	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("writing telemetry", "error", err)
	}
}

// Tick returns the number of completed simulation steps.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Unload closes the telemetry output.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
