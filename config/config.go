// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Movement   MovementConfig   `yaml:"movement"`
	Player     PlayerConfig     `yaml:"player"`
	Pellet     PelletConfig     `yaml:"pellet"`
	Bot        BotConfig        `yaml:"bot"`
	Duel       DuelConfig       `yaml:"duel"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the arena dimensions in world units.
// The arena is a bounded rectangle; entities are clamped to it, not wrapped.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig holds timestep and spatial index parameters.
type PhysicsConfig struct {
	DTCap        float64 `yaml:"dt_cap"`         // Max seconds applied per tick; bounds displacement on slow frames
	GridCellSize float64 `yaml:"grid_cell_size"` // Spatial grid cell size for pellet lookups
}

// MovementConfig holds the shared speed and size laws.
type MovementConfig struct {
	BaseSpeed   float64 `yaml:"base_speed"`   // Speed at zero radius, world units/sec
	SizeDrag    float64 `yaml:"size_drag"`    // Speed divisor slope: speed = base / (1 + r*drag)
	RadiusScale float64 `yaml:"radius_scale"` // radius = scale * sqrt(mass)
}

// PlayerConfig holds player tuning.
type PlayerConfig struct {
	StartMass     float64 `yaml:"start_mass"`     // Baseline mass, also restored on reset
	BoostMult     float64 `yaml:"boost_mult"`     // Speed multiplier while boosting
	BoostDuration float64 `yaml:"boost_duration"` // Seconds of boost per trigger
}

// PelletConfig holds food pellet tuning.
type PelletConfig struct {
	MinMass   float64 `yaml:"min_mass"`
	MaxMass   float64 `yaml:"max_mass"`
	EatMargin float64 `yaml:"eat_margin"` // Extra overlap slack for pellet pickup
	BotGain   float64 `yaml:"bot_gain"`   // Fraction of pellet mass a bot keeps
}

// BotConfig holds bot spawn and behavior tuning.
type BotConfig struct {
	MinMass    float64 `yaml:"min_mass"`
	MaxMass    float64 `yaml:"max_mass"`
	SpawnInset float64 `yaml:"spawn_inset"` // Keep spawns away from the border

	WanderMin    float64 `yaml:"wander_min"`    // Seconds between heading perturbations (lower bound)
	WanderMax    float64 `yaml:"wander_max"`    // Seconds between heading perturbations (upper bound)
	WanderJitter float64 `yaml:"wander_jitter"` // Max heading perturbation, radians

	ReactRange  float64 `yaml:"react_range"`  // Distance to the player that triggers flee/chase
	FleeRatio   float64 `yaml:"flee_ratio"`   // Flee when player/bot mass ratio exceeds this
	ChaseRatio  float64 `yaml:"chase_ratio"`  // Chase when player/bot mass ratio is below this
	FleeJitter  float64 `yaml:"flee_jitter"`  // Heading noise while fleeing, radians
	ChaseJitter float64 `yaml:"chase_jitter"` // Heading noise while chasing, radians
}

// DuelConfig holds player-vs-bot resolution tuning.
type DuelConfig struct {
	DominanceThreshold float64 `yaml:"dominance_threshold"` // Mass ratio required to eat the other
	AbsorbFraction     float64 `yaml:"absorb_fraction"`     // Fraction of a beaten bot's mass the player keeps
	PushSpeed          float64 `yaml:"push_speed"`          // Separation speed for near-equal collisions, units/sec
}

// PopulationConfig holds the replenishment targets.
type PopulationConfig struct {
	FoodCount int `yaml:"food_count"` // Minimum live pellets at tick boundaries
	BotCount  int `yaml:"bot_count"`  // Minimum live bots at tick boundaries
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	WorldW32  float32
	WorldH32  float32
}

// global holds the loaded configuration.
var global *Config

// Init loads the configuration and installs it as the global instance.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on failure. Intended for tests and tools.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
