// Package telemetry aggregates gameplay events into windowed stats and
// writes them to structured logs and CSV files.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowEndTick int32   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Population counts at window end
	PelletCount int `csv:"pellets"`
	BotCount    int `csv:"bots"`

	// Player state at window end
	PlayerMass float64 `csv:"player_mass"`

	// Events during the window
	PelletsEatenPlayer int `csv:"pellets_eaten_player"`
	PelletsEatenBots   int `csv:"pellets_eaten_bots"`
	BotsEaten          int `csv:"bots_eaten"`
	PlayerResets       int `csv:"player_resets"`
	Bounces            int `csv:"bounces"`

	// Bot mass distribution (sampled at window end)
	BotMassMean float64 `csv:"bot_mass_mean"`
	BotMassStd  float64 `csv:"bot_mass_std"`
	BotMassP10  float64 `csv:"bot_mass_p10"`
	BotMassP50  float64 `csv:"bot_mass_p50"`
	BotMassP90  float64 `csv:"bot_mass_p90"`
}

// ComputeMassStats calculates mean, standard deviation, and percentiles
// from a sample of masses. Returns zeros for an empty sample.
func ComputeMassStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if n > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// Log emits the window stats as a structured log record.
func (w WindowStats) Log() {
	slog.Info("window stats",
		"window_end", w.WindowEndTick,
		"sim_time", w.SimTimeSec,
		"pellets", w.PelletCount,
		"bots", w.BotCount,
		"player_mass", w.PlayerMass,
		"pellets_eaten_player", w.PelletsEatenPlayer,
		"pellets_eaten_bots", w.PelletsEatenBots,
		"bots_eaten", w.BotsEaten,
		"player_resets", w.PlayerResets,
		"bounces", w.Bounces,
		"bot_mass_mean", w.BotMassMean,
		"bot_mass_p50", w.BotMassP50,
	)
}
