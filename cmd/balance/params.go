// Package main provides CMA-ES search for arena tuning parameters that
// produce lively, survivable sessions.
package main

import (
	"github.com/pthm-cable/petri/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Movement
			{Name: "base_speed", Path: "movement.base_speed", Min: 250, Max: 700, Default: 420},
			{Name: "size_drag", Path: "movement.size_drag", Min: 0.01, Max: 0.10, Default: 0.04},
			// Player
			{Name: "boost_mult", Path: "player.boost_mult", Min: 1.2, Max: 2.5, Default: 1.8},
			// Pellets
			{Name: "bot_gain", Path: "pellet.bot_gain", Min: 0.5, Max: 1.0, Default: 0.9},
			// Bot behavior
			{Name: "react_range", Path: "bot.react_range", Min: 300, Max: 1200, Default: 600},
			{Name: "flee_ratio", Path: "bot.flee_ratio", Min: 1.05, Max: 2.0, Default: 1.2},
			{Name: "chase_ratio", Path: "bot.chase_ratio", Min: 0.4, Max: 1.0, Default: 0.8},
			// Duels
			{Name: "dominance", Path: "duel.dominance_threshold", Min: 1.05, Max: 1.5, Default: 1.15},
			{Name: "absorb_fraction", Path: "duel.absorb_fraction", Min: 0.5, Max: 1.0, Default: 0.8},
			{Name: "push_speed", Path: "duel.push_speed", Min: 20, Max: 150, Default: 60},
			// Population
			{Name: "food_count", Path: "population.food_count", Min: 100, Max: 600, Default: 300},
			{Name: "bot_count", Path: "population.bot_count", Min: 6, Max: 30, Default: 14},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	i := 0
	cfg.Movement.BaseSpeed = clamped[i]
	i++
	cfg.Movement.SizeDrag = clamped[i]
	i++
	cfg.Player.BoostMult = clamped[i]
	i++
	cfg.Pellet.BotGain = clamped[i]
	i++
	cfg.Bot.ReactRange = clamped[i]
	i++
	cfg.Bot.FleeRatio = clamped[i]
	i++
	cfg.Bot.ChaseRatio = clamped[i]
	i++
	cfg.Duel.DominanceThreshold = clamped[i]
	i++
	cfg.Duel.AbsorbFraction = clamped[i]
	i++
	cfg.Duel.PushSpeed = clamped[i]
	i++
	cfg.Population.FoodCount = int(clamped[i])
	i++
	cfg.Population.BotCount = int(clamped[i])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Movement.BaseSpeed,
		cfg.Movement.SizeDrag,
		cfg.Player.BoostMult,
		cfg.Pellet.BotGain,
		cfg.Bot.ReactRange,
		cfg.Bot.FleeRatio,
		cfg.Bot.ChaseRatio,
		cfg.Duel.DominanceThreshold,
		cfg.Duel.AbsorbFraction,
		cfg.Duel.PushSpeed,
		float64(cfg.Population.FoodCount),
		float64(cfg.Population.BotCount),
	}
}
