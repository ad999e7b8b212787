package sim

import (
	"math/rand"
	"os"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/systems"
)

func TestMain(m *testing.M) {
	config.MustInit("")
	os.Exit(m.Run())
}

// newBareSim builds a simulation with empty population targets so
// scenario tests control exactly which entities exist. Wiring matches
// New; only the seeding differs.
func newBareSim() *Sim {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	s := &Sim{
		world: world,
		rng:   rand.New(rand.NewSource(99)),
		rec:   nopRecorder{},
		t:     tuningFromConfig(cfg),

		pelletMapper: ecs.NewMap3[components.Position, components.Body, components.Pellet](world),
		botMapper:    ecs.NewMap3[components.Position, components.Body, components.Bot](world),
		playerMapper: ecs.NewMap3[components.Position, components.Body, components.Player](world),

		pelletFilter: ecs.NewFilter3[components.Position, components.Body, components.Pellet](world),
		botFilter:    ecs.NewFilter3[components.Position, components.Body, components.Bot](world),

		posMap:  ecs.NewMap1[components.Position](world),
		bodyMap: ecs.NewMap1[components.Body](world),
	}
	s.t.foodTarget = 0
	s.t.botTarget = 0
	s.grid = systems.NewSpatialGrid(s.t.worldW, s.t.worldH, float32(cfg.Physics.GridCellSize))
	s.spawnPlayer()
	return s
}

// addPelletAt places a pellet at an exact position for scenario tests.
func (s *Sim) addPelletAt(x, y, mass float32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	body := components.Body{Mass: mass, Color: components.Color{A: 255}}
	e := s.pelletMapper.NewEntity(&pos, &body, &components.Pellet{})
	s.pelletCount++
	return e
}

// addBotAt places a bot at an exact position for scenario tests.
func (s *Sim) addBotAt(x, y, mass, heading float32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	body := components.Body{Mass: mass, Color: components.Color{A: 255}}
	bot := components.Bot{Heading: heading, WanderTimer: 10}
	e := s.botMapper.NewEntity(&pos, &body, &bot)
	s.botCount++
	return e
}

// movePlayerTo teleports the player for scenario tests.
func (s *Sim) movePlayerTo(x, y, mass float32) {
	pos, body, _ := s.playerMapper.Get(s.player)
	pos.X = x
	pos.Y = y
	body.Mass = mass
}

func TestNewSeedsPopulations(t *testing.T) {
	s := New(Options{Seed: 1})
	cfg := config.Cfg()

	if s.PelletCount() != cfg.Population.FoodCount {
		t.Errorf("expected %d pellets, got %d", cfg.Population.FoodCount, s.PelletCount())
	}
	if s.BotCount() != cfg.Population.BotCount {
		t.Errorf("expected %d bots, got %d", cfg.Population.BotCount, s.BotCount())
	}

	p := s.Player()
	w, h := s.WorldSize()
	if p.X != w/2 || p.Y != h/2 {
		t.Errorf("player not at world center: (%f, %f)", p.X, p.Y)
	}
	if p.Mass != float32(cfg.Player.StartMass) {
		t.Errorf("player mass %f, want %f", p.Mass, cfg.Player.StartMass)
	}
}

func TestPopulationInvariantAtTickBoundaries(t *testing.T) {
	s := New(Options{Seed: 2})
	in := Input{TargetX: 100, TargetY: 100, Boost: false}

	for i := 0; i < 600; i++ {
		s.Step(in, 1.0/60.0)

		if s.PelletCount() < s.t.foodTarget {
			t.Fatalf("tick %d: pellet count %d below target %d", i, s.PelletCount(), s.t.foodTarget)
		}
		if s.BotCount() < s.t.botTarget {
			t.Fatalf("tick %d: bot count %d below target %d", i, s.BotCount(), s.t.botTarget)
		}
	}
}

func TestBoundaryInvariantHoldsEveryTick(t *testing.T) {
	s := New(Options{Seed: 3})
	w, h := s.WorldSize()

	// Drive the player hard at a corner to force clamping.
	in := Input{TargetX: -5000, TargetY: -5000, Boost: true}

	for i := 0; i < 300; i++ {
		s.Step(in, 1.0/60.0)

		p := s.Player()
		if p.X < p.Radius || p.X > w-p.Radius || p.Y < p.Radius || p.Y > h-p.Radius {
			t.Fatalf("tick %d: player at (%f, %f) radius %f escapes bounds", i, p.X, p.Y, p.Radius)
		}

		s.ForEachBot(func(pos components.Position, body components.Body, r float32) {
			if pos.X < r || pos.X > w-r || pos.Y < r || pos.Y > h-r {
				t.Fatalf("tick %d: bot at (%f, %f) radius %f escapes bounds", i, pos.X, pos.Y, r)
			}
		})
	}
}

func TestZeroDTIsIdempotent(t *testing.T) {
	s := newBareSim()
	s.addPelletAt(400, 400, 5)
	s.addBotAt(2000, 2000, 150, 0.7)
	// Spawns may land on top of an entity, so overlaps can already
	// exist at a tick boundary. They must not be consumed at dt=0.
	s.addPelletAt(1510, 1500, 5)
	s.addBotAt(1490, 1500, 50, 0)

	type snap struct {
		x, y, mass float32
	}
	capture := func() []snap {
		var out []snap
		p := s.Player()
		out = append(out, snap{p.X, p.Y, p.Mass})
		s.ForEachBot(func(pos components.Position, body components.Body, _ float32) {
			out = append(out, snap{pos.X, pos.Y, body.Mass})
		})
		s.ForEachPellet(func(pos components.Position, body components.Body, _ float32) {
			out = append(out, snap{pos.X, pos.Y, body.Mass})
		})
		return out
	}

	before := capture()
	for i := 0; i < 10; i++ {
		s.Step(Input{TargetX: 100, TargetY: 2900}, 0)
	}
	after := capture()

	if len(before) != len(after) {
		t.Fatalf("entity count changed across zero-dt ticks: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("entity %d changed across zero-dt ticks: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestDTCap(t *testing.T) {
	s := newBareSim()

	// A huge elapsed time must move the player no farther than the cap
	// allows.
	p0 := s.Player()
	s.Step(Input{TargetX: 3000, TargetY: p0.Y}, 10.0)
	p1 := s.Player()

	maxStep := systems.SpeedForMass(p0.Mass, s.t.baseSpeed, s.t.sizeDrag, s.t.radiusScale) * s.t.dtCap
	moved := p1.X - p0.X
	if moved > maxStep+0.001 {
		t.Errorf("player moved %f, more than capped displacement %f", moved, maxStep)
	}
}
