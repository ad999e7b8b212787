package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/sim"
	"github.com/pthm-cable/petri/telemetry"
)

// Evaluator runs headless simulations with a scripted pilot and scores
// how lively the resulting session is.
type Evaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	bestWindows []telemetry.WindowStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewEvaluator creates a new evaluator.
func NewEvaluator(params *ParamVector, maxTicks int32, seeds []int64) *Evaluator {
	return &Evaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the window stats from the best evaluation.
func (e *Evaluator) BestWindows() []telemetry.WindowStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bestWindows
}

// LastQuality returns the quality score from the most recent evaluation.
func (e *Evaluator) LastQuality() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastQuality
}

// seedResult holds the result from one seed run.
type seedResult struct {
	quality float64
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative session quality, averaged over seeds.
func (e *Evaluator) Evaluate(x []float64) float64 {
	// Every seed in this evaluation shares one parameter vector. The
	// config singleton is written once here, before any run starts.
	e.params.ApplyToConfig(config.Cfg(), x)

	results := make([]seedResult, len(e.seeds))
	var wg sync.WaitGroup
	for i, seed := range e.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := e.runSession(s)
			results[idx] = seedResult{
				quality: sessionQuality(windows),
				windows: windows,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalQuality float64
	bestSeedQuality := math.Inf(-1)
	var bestSeedWindows []telemetry.WindowStats
	for _, r := range results {
		totalQuality += r.quality
		if r.quality > bestSeedQuality {
			bestSeedQuality = r.quality
			bestSeedWindows = r.windows
		}
	}

	avgQuality := totalQuality / float64(len(e.seeds))
	fitness := -avgQuality

	e.mu.Lock()
	if fitness < e.bestFitness {
		e.bestFitness = fitness
		e.bestWindows = bestSeedWindows
	}
	e.lastQuality = avgQuality
	e.mu.Unlock()

	return fitness
}

const (
	pilotDT        = 1.0 / 60.0
	pilotTurnRate  = 0.15 // radians of orbit per sim-second
	pilotBoostEach = 8.0  // seconds between boost pulses
)

// runSession executes one headless run. A scripted pilot orbits the
// arena center so the player crosses pellet fields and bot territory
// instead of parking in one spot.
func (e *Evaluator) runSession(seed int64) []telemetry.WindowStats {
	collector := telemetry.NewCollector(e.statsWindow)
	s := sim.New(sim.Options{Seed: seed, Recorder: collector})

	w, h := s.WorldSize()
	cx, cy := w/2, h/2
	orbit := 0.35 * float32(math.Min(float64(w), float64(h)))

	var windows []telemetry.WindowStats
	var botMasses []float64
	nextBoost := pilotBoostEach

	for s.Tick() < e.maxTicks {
		t := collector.SimTime()
		angle := pilotTurnRate * t

		in := sim.Input{
			TargetX: cx + orbit*float32(math.Cos(angle)),
			TargetY: cy + orbit*float32(math.Sin(angle)),
		}
		if t >= nextBoost {
			in.Boost = true
			nextBoost += pilotBoostEach
		}

		s.Step(in, pilotDT)

		if collector.Advance(pilotDT) {
			botMasses = botMasses[:0]
			s.ForEachBot(func(_ components.Position, body components.Body, _ float32) {
				botMasses = append(botMasses, float64(body.Mass))
			})
			windows = append(windows, collector.Flush(
				s.Tick(), s.PelletCount(), s.BotCount(),
				float64(s.Player().Mass), botMasses,
			))
		}
	}

	return windows
}

// Quality component weights.
const (
	qualityWeightForage = 0.30
	qualityWeightDuels  = 0.30
	qualityWeightPeril  = 0.20
	qualityWeightSpread = 0.20

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// sessionQuality scores a run in [0, 1] from its window stats.
func sessionQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var forageSum, duelSum, perilSum, spreadSum float64
	for _, w := range valid {
		// 1. Foraging: both the player and the bots should be finding
		// food. Saturating curves so more is better but never dominant.
		playerForage := 1.0 - math.Exp(-float64(w.PelletsEatenPlayer)/4.0)
		botForage := 1.0 - math.Exp(-float64(w.PelletsEatenBots)/8.0)
		forageSum += (playerForage + botForage) / 2.0

		// 2. Duel activity: player-bot contact should happen every
		// window, whichever way it resolves.
		duels := float64(w.Bounces + w.BotsEaten + w.PlayerResets)
		duelSum += 1.0 - math.Exp(-duels/3.0)

		// 3. Peril: occasional defeats are healthy, constant defeats
		// are not. Peaks at about one reset per two windows.
		resets := float64(w.PlayerResets)
		perilSum += math.Exp(-math.Pow((resets-0.5)/1.0, 2))

		// 4. Bot mass spread: a mixed field of threats and snacks.
		// Coefficient of variation targeted around 0.35.
		if w.BotMassMean > 0 {
			cv := w.BotMassStd / w.BotMassMean
			spreadSum += math.Exp(-math.Pow((cv-0.35)/0.25, 2))
		}
	}

	n := float64(len(valid))
	quality := qualityWeightForage*forageSum/n +
		qualityWeightDuels*duelSum/n +
		qualityWeightPeril*perilSum/n +
		qualityWeightSpread*spreadSum/n

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
