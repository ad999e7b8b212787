package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/petri/components"
)

// BehaviorParams holds the bot steering tunables.
type BehaviorParams struct {
	WanderMin    float32 // seconds until next perturbation, lower bound
	WanderMax    float32 // upper bound
	WanderJitter float32 // max perturbation, radians

	ReactRange  float32 // distance to player that triggers flee/chase
	FleeRatio   float32 // flee when player/bot mass ratio > this
	ChaseRatio  float32 // chase when player/bot mass ratio < this
	FleeJitter  float32 // radians
	ChaseJitter float32 // radians
}

// UpdateWander advances a bot's wander timer and, on expiry, perturbs
// the stored heading by a random offset and re-arms the timer.
func UpdateWander(bot *components.Bot, dt float32, rng *rand.Rand, p BehaviorParams) {
	bot.WanderTimer -= dt
	if bot.WanderTimer > 0 {
		return
	}
	bot.Heading = normalizeAngle(bot.Heading + (rng.Float32()*2-1)*p.WanderJitter)
	bot.WanderTimer = p.WanderMin + rng.Float32()*(p.WanderMax-p.WanderMin)
}

// DecideHeading returns the heading a bot should travel this tick.
// The wander heading stands unless the player is within ReactRange and
// the mass ratio is lopsided, in which case the bot flees or chases.
// The override is per-tick only: bot.Heading keeps the wander value.
func DecideHeading(bot *components.Bot, botPos components.Position, botMass float32,
	playerPos components.Position, playerMass float32, rng *rand.Rand, p BehaviorParams) float32 {

	if DistanceSq(botPos.X, botPos.Y, playerPos.X, playerPos.Y) > p.ReactRange*p.ReactRange {
		return bot.Heading
	}

	// botMass starts > 0 and only grows, so the ratio is well defined.
	ratio := playerMass / botMass
	switch {
	case ratio > p.FleeRatio:
		away := float32(math.Atan2(float64(botPos.Y-playerPos.Y), float64(botPos.X-playerPos.X)))
		return normalizeAngle(away + (rng.Float32()*2-1)*p.FleeJitter)
	case ratio < p.ChaseRatio:
		toward := float32(math.Atan2(float64(playerPos.Y-botPos.Y), float64(playerPos.X-botPos.X)))
		return normalizeAngle(toward + (rng.Float32()*2-1)*p.ChaseJitter)
	default:
		return bot.Heading
	}
}
