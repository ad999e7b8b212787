package sim

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/systems"
)

// Step advances the simulation by one tick. dt is wall-clock seconds
// since the last tick; it is clamped to the configured cap so a slow
// frame can never move an entity far enough to tunnel through a
// collision. A zero-length tick advances nothing but the boost trigger:
// positions and masses are untouched even when entities already overlap
// (replenishment can spawn on top of an entity). Pausing is the
// caller's concern: a paused session simply does not call Step.
func (s *Sim) Step(in Input, dt float32) {
	if dt < 0 {
		dt = 0
	}
	if dt > s.t.dtCap {
		dt = s.t.dtCap
	}

	s.updateBoost(in.Boost, dt)
	if dt == 0 {
		s.tick++
		return
	}

	s.movePlayer(in, dt)
	s.rebuildPelletGrid()
	s.feedPlayer()
	s.updateBots(dt)
	s.feedBots()
	s.resolveDuels(dt)
	s.replenish()

	s.tick++
}

// updateBoost handles the boost countdown. A trigger (re)arms the full
// duration; triggers never stack. The decay for the trigger tick's dt
// lands on the following tick, so the boost covers exactly the
// configured duration of simulated time.
func (s *Sim) updateBoost(trigger bool, dt float32) {
	_, _, pl := s.playerMapper.Get(s.player)
	if trigger {
		pl.BoostRemaining = s.t.boostDuration
		return
	}
	pl.BoostRemaining -= dt
	if pl.BoostRemaining < 0 {
		pl.BoostRemaining = 0
	}
}

// movePlayer steers the player toward the pointer target under the
// mass-dependent speed law, then re-clamps to the arena.
func (s *Sim) movePlayer(in Input, dt float32) {
	pos, body, pl := s.playerMapper.Get(s.player)

	ux, uy := systems.NormalizeDir(in.TargetX-pos.X, in.TargetY-pos.Y)
	speed := systems.SpeedForMass(body.Mass, s.t.baseSpeed, s.t.sizeDrag, s.t.radiusScale)
	if pl.BoostRemaining > 0 {
		speed *= s.t.boostMult
	}

	pos.X += ux * speed * dt
	pos.Y += uy * speed * dt

	r := systems.RadiusForMass(body.Mass, s.t.radiusScale)
	pos.X, pos.Y = systems.ClampToBounds(pos.X, pos.Y, r, s.t.worldW, s.t.worldH)
}

// rebuildPelletGrid refreshes the spatial index over the pellet set.
// Pellets are stationary, so the grid stays valid for the whole tick;
// consumed pellets are removed from it as they are eaten.
func (s *Sim) rebuildPelletGrid() {
	s.grid.Clear()

	query := s.pelletFilter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		s.grid.Insert(query.Entity(), pos.X, pos.Y)
	}
}

// feedPlayer consumes every pellet overlapping the player. The player
// gains the full pellet mass. Growth mid-pass is deliberate: a pellet
// eaten early enlarges the player for pellets checked later in the
// same tick.
func (s *Sim) feedPlayer() {
	pos, body, _ := s.playerMapper.Get(s.player)
	s.eatPellets(pos, body, 1.0, true)
}

// eatPellets removes all pellets overlapping the given eater and adds
// gain*pelletMass to its body.
func (s *Sim) eatPellets(pos *components.Position, body *components.Body, gain float32, byPlayer bool) {
	r := systems.RadiusForMass(body.Mass, s.t.radiusScale)
	maxPelletR := systems.RadiusForMass(s.t.pelletMaxMass, s.t.radiusScale)

	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], pos.X, pos.Y, r+maxPelletR+s.t.eatMargin, s.posMap)

	for _, n := range s.neighbors {
		pBody := s.bodyMap.Get(n.E)
		pPos := s.posMap.Get(n.E)
		if pBody == nil || pPos == nil {
			continue
		}

		pr := systems.RadiusForMass(pBody.Mass, s.t.radiusScale)
		if !systems.Overlaps(pos.X, pos.Y, r, pPos.X, pPos.Y, pr, s.t.eatMargin) {
			continue
		}

		body.Mass += pBody.Mass * gain
		r = systems.RadiusForMass(body.Mass, s.t.radiusScale)

		s.grid.Remove(n.E, pPos.X, pPos.Y)
		s.world.RemoveEntity(n.E)
		s.pelletCount--
		s.rec.RecordPelletEaten(byPlayer)
	}
}

// updateBots advances each bot's wander state, applies the reactive
// flee/chase override, and integrates its movement.
func (s *Sim) updateBots(dt float32) {
	playerPos, playerBody, _ := s.playerMapper.Get(s.player)
	pPos := *playerPos
	pMass := playerBody.Mass

	query := s.botFilter.Query()
	for query.Next() {
		pos, body, bot := query.Get()

		systems.UpdateWander(bot, dt, s.rng, s.t.behavior)
		heading := systems.DecideHeading(bot, *pos, body.Mass, pPos, pMass, s.rng, s.t.behavior)

		speed := systems.SpeedForMass(body.Mass, s.t.baseSpeed, s.t.sizeDrag, s.t.radiusScale)
		pos.X += float32(math.Cos(float64(heading))) * speed * dt
		pos.Y += float32(math.Sin(float64(heading))) * speed * dt

		r := systems.RadiusForMass(body.Mass, s.t.radiusScale)
		pos.X, pos.Y = systems.ClampToBounds(pos.X, pos.Y, r, s.t.worldW, s.t.worldH)
	}
}

// feedBots lets each bot consume overlapping pellets at the damped
// gain fraction. Bot entities are collected first because eating
// removes pellet entities, which is not allowed while a query is open.
func (s *Sim) feedBots() {
	s.botScratch = s.botScratch[:0]
	query := s.botFilter.Query()
	for query.Next() {
		s.botScratch = append(s.botScratch, query.Entity())
	}

	for _, e := range s.botScratch {
		pos, body, _ := s.botMapper.Get(e)
		s.eatPellets(pos, body, s.t.botGain, false)
	}
}

// resolveDuels processes every player-bot overlap. For each pair
// exactly one of three outcomes applies, decided by the dominance
// threshold: the player absorbs the bot, the bot defeats the player
// (reset), or the two push apart. Bots removed here are collected and
// compacted after the query so iteration is never invalidated, and a
// mid-pass player reset leaves later bots evaluating the fresh state.
func (s *Sim) resolveDuels(dt float32) {
	playerPos, playerBody, _ := s.playerMapper.Get(s.player)

	var eaten []ecs.Entity

	query := s.botFilter.Query()
	for query.Next() {
		pos, body, _ := query.Get()

		pr := systems.RadiusForMass(playerBody.Mass, s.t.radiusScale)
		br := systems.RadiusForMass(body.Mass, s.t.radiusScale)
		if !systems.Overlaps(playerPos.X, playerPos.Y, pr, pos.X, pos.Y, br, 0) {
			continue
		}

		switch systems.ResolveDuel(playerBody.Mass, body.Mass, s.t.dominance) {
		case systems.DuelPlayerEats:
			playerBody.Mass += body.Mass * s.t.absorb
			eaten = append(eaten, query.Entity())
			s.rec.RecordBotEaten()

		case systems.DuelBotEats:
			s.resetPlayer(playerPos, playerBody)
			s.rec.RecordPlayerReset()

		case systems.DuelBounce:
			// Both pushes derive from the pre-push positions so the
			// separation is symmetric.
			ux, uy := systems.SeparationAxis(playerPos.X, playerPos.Y, pos.X, pos.Y)
			push := s.t.pushSpeed * dt

			playerPos.X, playerPos.Y = systems.ClampToBounds(
				playerPos.X+ux*push, playerPos.Y+uy*push, pr, s.t.worldW, s.t.worldH)
			pos.X, pos.Y = systems.ClampToBounds(
				pos.X-ux*push, pos.Y-uy*push, br, s.t.worldW, s.t.worldH)
			s.rec.RecordBounce()
		}
	}

	for _, e := range eaten {
		s.world.RemoveEntity(e)
		s.botCount--
	}
}

// resetPlayer returns the player to world center at baseline mass with
// boost cleared. This is normal gameplay, not an error: the player is
// never destroyed within a session.
func (s *Sim) resetPlayer(pos *components.Position, body *components.Body) {
	_, _, pl := s.playerMapper.Get(s.player)
	pos.X = s.t.worldW / 2
	pos.Y = s.t.worldH / 2
	body.Mass = s.t.startMass
	pl.BoostRemaining = 0
}
