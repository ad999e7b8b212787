// Package sim implements the arena simulation core: one player cell,
// stationary food pellets, and autonomous bot cells in a bounded world.
// The package is presentation-free; rendering and input capture live in
// the game package and talk to the core through Input and the read
// accessors.
package sim

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/systems"
)

// Input is everything the simulation consumes per tick.
type Input struct {
	// TargetX, TargetY is the point in world space the player is
	// steering toward (the pointer position, converted by the
	// presentation layer).
	TargetX, TargetY float32

	// Boost (re)starts the boost countdown at its full duration.
	Boost bool
}

// Recorder receives gameplay events as they happen. The telemetry
// collector implements it; a nil recorder is replaced by a no-op.
type Recorder interface {
	RecordPelletEaten(byPlayer bool)
	RecordBotEaten()
	RecordPlayerReset()
	RecordBounce()
}

type nopRecorder struct{}

func (nopRecorder) RecordPelletEaten(bool) {}
func (nopRecorder) RecordBotEaten()        {}
func (nopRecorder) RecordPlayerReset()     {}
func (nopRecorder) RecordBounce()          {}

// Options configures a new simulation.
type Options struct {
	Seed     int64
	Recorder Recorder
}

// tuning holds the config values the tick loop reads, converted to
// float32 once so the hot path never touches the config singleton.
type tuning struct {
	worldW, worldH float32
	dtCap          float32

	baseSpeed, sizeDrag, radiusScale float32

	startMass     float32
	boostMult     float32
	boostDuration float32

	pelletMinMass, pelletMaxMass float32
	eatMargin                    float32
	botGain                      float32

	botMinMass, botMaxMass float32
	spawnInset             float32

	behavior systems.BehaviorParams

	dominance float32
	absorb    float32
	pushSpeed float32

	foodTarget int
	botTarget  int
}

// Sim owns every entity for the session's lifetime. All mutation
// happens inside Step; the read accessors expose state for rendering.
type Sim struct {
	world *ecs.World
	rng   *rand.Rand
	rec   Recorder
	t     tuning

	pelletMapper *ecs.Map3[components.Position, components.Body, components.Pellet]
	botMapper    *ecs.Map3[components.Position, components.Body, components.Bot]
	playerMapper *ecs.Map3[components.Position, components.Body, components.Player]

	pelletFilter *ecs.Filter3[components.Position, components.Body, components.Pellet]
	botFilter    *ecs.Filter3[components.Position, components.Body, components.Bot]

	posMap  *ecs.Map1[components.Position]
	bodyMap *ecs.Map1[components.Body]

	player ecs.Entity
	grid   *systems.SpatialGrid

	pelletCount int
	botCount    int
	tick        int32

	// scratch buffers reused across ticks
	neighbors  []systems.Neighbor
	botScratch []ecs.Entity
}

// New creates a simulation seeded with the configured pellet and bot
// populations and the player at world center.
func New(opts Options) *Sim {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	rec := opts.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}

	s := &Sim{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		rec:   rec,
		t:     tuningFromConfig(cfg),

		pelletMapper: ecs.NewMap3[components.Position, components.Body, components.Pellet](world),
		botMapper:    ecs.NewMap3[components.Position, components.Body, components.Bot](world),
		playerMapper: ecs.NewMap3[components.Position, components.Body, components.Player](world),

		pelletFilter: ecs.NewFilter3[components.Position, components.Body, components.Pellet](world),
		botFilter:    ecs.NewFilter3[components.Position, components.Body, components.Bot](world),

		posMap:  ecs.NewMap1[components.Position](world),
		bodyMap: ecs.NewMap1[components.Body](world),
	}

	s.grid = systems.NewSpatialGrid(s.t.worldW, s.t.worldH, float32(cfg.Physics.GridCellSize))

	s.spawnPlayer()
	s.replenish()

	return s
}

func tuningFromConfig(cfg *config.Config) tuning {
	return tuning{
		worldW: cfg.Derived.WorldW32,
		worldH: cfg.Derived.WorldH32,
		dtCap:  float32(cfg.Physics.DTCap),

		baseSpeed:   float32(cfg.Movement.BaseSpeed),
		sizeDrag:    float32(cfg.Movement.SizeDrag),
		radiusScale: float32(cfg.Movement.RadiusScale),

		startMass:     float32(cfg.Player.StartMass),
		boostMult:     float32(cfg.Player.BoostMult),
		boostDuration: float32(cfg.Player.BoostDuration),

		pelletMinMass: float32(cfg.Pellet.MinMass),
		pelletMaxMass: float32(cfg.Pellet.MaxMass),
		eatMargin:     float32(cfg.Pellet.EatMargin),
		botGain:       float32(cfg.Pellet.BotGain),

		botMinMass: float32(cfg.Bot.MinMass),
		botMaxMass: float32(cfg.Bot.MaxMass),
		spawnInset: float32(cfg.Bot.SpawnInset),

		behavior: systems.BehaviorParams{
			WanderMin:    float32(cfg.Bot.WanderMin),
			WanderMax:    float32(cfg.Bot.WanderMax),
			WanderJitter: float32(cfg.Bot.WanderJitter),
			ReactRange:   float32(cfg.Bot.ReactRange),
			FleeRatio:    float32(cfg.Bot.FleeRatio),
			ChaseRatio:   float32(cfg.Bot.ChaseRatio),
			FleeJitter:   float32(cfg.Bot.FleeJitter),
			ChaseJitter:  float32(cfg.Bot.ChaseJitter),
		},

		dominance: float32(cfg.Duel.DominanceThreshold),
		absorb:    float32(cfg.Duel.AbsorbFraction),
		pushSpeed: float32(cfg.Duel.PushSpeed),

		foodTarget: cfg.Population.FoodCount,
		botTarget:  cfg.Population.BotCount,
	}
}

// spawnPlayer creates the single player entity at world center.
func (s *Sim) spawnPlayer() {
	pos := components.Position{X: s.t.worldW / 2, Y: s.t.worldH / 2}
	body := components.Body{Mass: s.t.startMass, Color: s.randomColor()}
	pl := components.Player{}
	s.player = s.playerMapper.NewEntity(&pos, &body, &pl)
}

// spawnPellet creates one pellet at a random position with a random
// mass in the configured range.
func (s *Sim) spawnPellet() {
	mass := s.t.pelletMinMass + s.rng.Float32()*(s.t.pelletMaxMass-s.t.pelletMinMass)
	r := systems.RadiusForMass(mass, s.t.radiusScale)

	pos := components.Position{
		X: r + s.rng.Float32()*(s.t.worldW-2*r),
		Y: r + s.rng.Float32()*(s.t.worldH-2*r),
	}
	body := components.Body{Mass: mass, Color: s.randomColor()}
	s.pelletMapper.NewEntity(&pos, &body, &components.Pellet{})
	s.pelletCount++
}

// spawnBot creates one bot inset from the border so a fresh spawn is
// never immediately border-clamped.
func (s *Sim) spawnBot() {
	mass := s.t.botMinMass + s.rng.Float32()*(s.t.botMaxMass-s.t.botMinMass)

	pos := components.Position{
		X: s.t.spawnInset + s.rng.Float32()*(s.t.worldW-2*s.t.spawnInset),
		Y: s.t.spawnInset + s.rng.Float32()*(s.t.worldH-2*s.t.spawnInset),
	}
	body := components.Body{Mass: mass, Color: s.randomColor()}
	bot := components.Bot{
		Heading:     s.rng.Float32() * 2 * math.Pi,
		WanderTimer: s.t.behavior.WanderMin + s.rng.Float32()*(s.t.behavior.WanderMax-s.t.behavior.WanderMin),
	}
	s.botMapper.NewEntity(&pos, &body, &bot)
	s.botCount++
}

// replenish restores pellet and bot counts to their targets. Runs at
// the end of every tick so the targets hold at tick boundaries.
func (s *Sim) replenish() {
	for s.pelletCount < s.t.foodTarget {
		s.spawnPellet()
	}
	for s.botCount < s.t.botTarget {
		s.spawnBot()
	}
}

func (s *Sim) randomColor() components.Color {
	// Bias bright: cosmetic only, dark cells read poorly on the grid.
	return components.Color{
		R: uint8(80 + s.rng.Intn(176)),
		G: uint8(80 + s.rng.Intn(176)),
		B: uint8(80 + s.rng.Intn(176)),
		A: 255,
	}
}

// Tick returns the number of completed simulation steps.
func (s *Sim) Tick() int32 {
	return s.tick
}

// PelletCount returns the number of live pellets.
func (s *Sim) PelletCount() int {
	return s.pelletCount
}

// BotCount returns the number of live bots.
func (s *Sim) BotCount() int {
	return s.botCount
}

// PlayerState is a read-only snapshot of the player cell.
type PlayerState struct {
	X, Y           float32
	Mass           float32
	Radius         float32
	Color          components.Color
	BoostRemaining float32
}

// Player returns the current player state.
func (s *Sim) Player() PlayerState {
	pos, body, pl := s.playerMapper.Get(s.player)
	return PlayerState{
		X:              pos.X,
		Y:              pos.Y,
		Mass:           body.Mass,
		Radius:         systems.RadiusForMass(body.Mass, s.t.radiusScale),
		Color:          body.Color,
		BoostRemaining: pl.BoostRemaining,
	}
}

// ForEachPellet calls fn for every live pellet. Read-only: fn must not
// mutate the simulation.
func (s *Sim) ForEachPellet(fn func(pos components.Position, body components.Body, radius float32)) {
	query := s.pelletFilter.Query()
	for query.Next() {
		pos, body, _ := query.Get()
		fn(*pos, *body, systems.RadiusForMass(body.Mass, s.t.radiusScale))
	}
}

// ForEachBot calls fn for every live bot. Read-only: fn must not
// mutate the simulation.
func (s *Sim) ForEachBot(fn func(pos components.Position, body components.Body, radius float32)) {
	query := s.botFilter.Query()
	for query.Next() {
		pos, body, _ := query.Get()
		fn(*pos, *body, systems.RadiusForMass(body.Mass, s.t.radiusScale))
	}
}

// WorldSize returns the arena dimensions.
func (s *Sim) WorldSize() (float32, float32) {
	return s.t.worldW, s.t.worldH
}

// PopulationTargets returns the current replenishment targets.
func (s *Sim) PopulationTargets() (food, bots int) {
	return s.t.foodTarget, s.t.botTarget
}

// SetPopulationTargets adjusts the replenishment targets. Lowering a
// target does not cull live entities; consumption brings the count
// down naturally.
func (s *Sim) SetPopulationTargets(food, bots int) {
	if food >= 0 {
		s.t.foodTarget = food
	}
	if bots >= 0 {
		s.t.botTarget = bots
	}
}

// BaseSpeed returns the speed law's base speed.
func (s *Sim) BaseSpeed() float32 {
	return s.t.baseSpeed
}

// SetBaseSpeed adjusts the speed law's base speed for live tuning.
func (s *Sim) SetBaseSpeed(base float32) {
	if base > 0 {
		s.t.baseSpeed = base
	}
}
