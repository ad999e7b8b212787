package telemetry

// Collector accumulates gameplay events within time windows and
// produces WindowStats. It implements the simulation's Recorder
// interface, so events arrive as they happen inside the tick.
type Collector struct {
	windowDurationSec float64

	simTime       float64
	windowElapsed float64

	// Event counters for the current window
	pelletsEatenPlayer int
	pelletsEatenBots   int
	botsEaten          int
	playerResets       int
	bounces            int
}

// NewCollector creates a stats collector with the given window length
// in simulation seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 5
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordPelletEaten records a pellet consumption.
func (c *Collector) RecordPelletEaten(byPlayer bool) {
	if byPlayer {
		c.pelletsEatenPlayer++
	} else {
		c.pelletsEatenBots++
	}
}

// RecordBotEaten records a bot absorbed by the player.
func (c *Collector) RecordBotEaten() {
	c.botsEaten++
}

// RecordPlayerReset records a player defeat.
func (c *Collector) RecordPlayerReset() {
	c.playerResets++
}

// RecordBounce records a near-equal-mass collision.
func (c *Collector) RecordBounce() {
	c.bounces++
}

// Advance adds dt seconds of simulated time and reports whether the
// current window is complete. Call Flush to collect the stats and
// start the next window.
func (c *Collector) Advance(dt float64) bool {
	c.simTime += dt
	c.windowElapsed += dt
	return c.windowElapsed >= c.windowDurationSec
}

// SimTime returns the total simulated seconds observed so far.
func (c *Collector) SimTime() float64 {
	return c.simTime
}

// Flush builds the stats for the completed window and resets the
// counters. The caller supplies the current population sample.
func (c *Collector) Flush(tick int32, pelletCount, botCount int, playerMass float64, botMasses []float64) WindowStats {
	mean, std, p10, p50, p90 := ComputeMassStats(botMasses)

	stats := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    c.simTime,

		PelletCount: pelletCount,
		BotCount:    botCount,
		PlayerMass:  playerMass,

		PelletsEatenPlayer: c.pelletsEatenPlayer,
		PelletsEatenBots:   c.pelletsEatenBots,
		BotsEaten:          c.botsEaten,
		PlayerResets:       c.playerResets,
		Bounces:            c.bounces,

		BotMassMean: mean,
		BotMassStd:  std,
		BotMassP10:  p10,
		BotMassP50:  p50,
		BotMassP90:  p90,
	}

	c.windowElapsed = 0
	c.pelletsEatenPlayer = 0
	c.pelletsEatenBots = 0
	c.botsEaten = 0
	c.playerResets = 0
	c.bounces = 0

	return stats
}
