package sim

import (
	"math"
	"testing"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/systems"
)

func TestPlayerEatsPelletFullMass(t *testing.T) {
	s := newBareSim()
	s.movePlayerTo(1500, 1500, 100)
	s.addPelletAt(1510, 1500, 5)

	s.rebuildPelletGrid()
	s.feedPlayer()

	p := s.Player()
	if p.Mass != 105 {
		t.Errorf("expected player mass 105, got %f", p.Mass)
	}
	if s.PelletCount() != 0 {
		t.Errorf("expected pellet removed, count %d", s.PelletCount())
	}
}

func TestPlayerEatsMultiplePelletsSameTick(t *testing.T) {
	s := newBareSim()
	s.movePlayerTo(1500, 1500, 100)
	s.addPelletAt(1510, 1500, 4)
	s.addPelletAt(1490, 1500, 6)
	s.addPelletAt(1500, 1512, 2)

	s.rebuildPelletGrid()
	s.feedPlayer()

	p := s.Player()
	if p.Mass != 112 {
		t.Errorf("expected player mass 112, got %f", p.Mass)
	}
	if s.PelletCount() != 0 {
		t.Errorf("expected all pellets removed, count %d", s.PelletCount())
	}
}

func TestOutOfReachPelletSurvives(t *testing.T) {
	s := newBareSim()
	s.movePlayerTo(1500, 1500, 100) // radius 25
	s.addPelletAt(1600, 1500, 5)    // well past radius + margin

	s.rebuildPelletGrid()
	s.feedPlayer()

	if s.PelletCount() != 1 {
		t.Errorf("distant pellet was eaten")
	}
	if p := s.Player(); p.Mass != 100 {
		t.Errorf("player mass changed: %f", p.Mass)
	}
}

func TestBotEatsPelletDampedGain(t *testing.T) {
	s := newBareSim()
	s.movePlayerTo(100, 100, 100)
	e := s.addBotAt(2000, 2000, 150, 0)
	s.addPelletAt(2010, 2000, 10)

	s.rebuildPelletGrid()
	s.feedBots()

	_, body, _ := s.botMapper.Get(e)
	if math.Abs(float64(body.Mass-159)) > 0.001 { // 150 + 0.9*10
		t.Errorf("expected bot mass 159, got %f", body.Mass)
	}
	if s.PelletCount() != 0 {
		t.Errorf("expected pellet removed, count %d", s.PelletCount())
	}
}

func TestPelletEatenOnlyOnce(t *testing.T) {
	s := newBareSim()
	s.movePlayerTo(100, 100, 100)
	// Two bots overlapping the same pellet: only the first gets it.
	a := s.addBotAt(2000, 2000, 100, 0)
	b := s.addBotAt(2020, 2000, 100, 0)
	s.addPelletAt(2010, 2000, 10)

	s.rebuildPelletGrid()
	s.feedBots()

	_, bodyA, _ := s.botMapper.Get(a)
	_, bodyB, _ := s.botMapper.Get(b)
	total := bodyA.Mass + bodyB.Mass
	if math.Abs(float64(total-209)) > 0.001 { // one bot gained 9
		t.Errorf("pellet mass applied more than once: total %f", total)
	}
	if s.PelletCount() != 0 {
		t.Errorf("expected pellet removed, count %d", s.PelletCount())
	}
}

func TestDuelPlayerAbsorbsBot(t *testing.T) {
	s := newBareSim()
	s.movePlayerTo(1500, 1500, 100)
	s.addBotAt(1510, 1500, 50, 0)

	s.resolveDuels(1.0 / 60.0)

	p := s.Player()
	if math.Abs(float64(p.Mass-140)) > 0.001 { // 100 + 0.8*50
		t.Errorf("expected player mass 140, got %f", p.Mass)
	}
	if s.BotCount() != 0 {
		t.Errorf("expected bot removed, count %d", s.BotCount())
	}
}

func TestDuelBotDefeatsPlayer(t *testing.T) {
	s := newBareSim()
	s.movePlayerTo(400, 400, 50)
	s.addBotAt(410, 400, 100, 0)

	// Give the player an active boost to verify the reset clears it.
	_, _, pl := s.playerMapper.Get(s.player)
	pl.BoostRemaining = 0.2

	s.resolveDuels(1.0 / 60.0)

	p := s.Player()
	w, h := s.WorldSize()
	if p.X != w/2 || p.Y != h/2 {
		t.Errorf("player not reset to center: (%f, %f)", p.X, p.Y)
	}
	if p.Mass != s.t.startMass {
		t.Errorf("player mass not reset: %f", p.Mass)
	}
	if p.BoostRemaining != 0 {
		t.Errorf("boost not cleared on reset: %f", p.BoostRemaining)
	}
	if s.BotCount() != 1 {
		t.Errorf("winning bot removed, count %d", s.BotCount())
	}
}

func TestDuelBounceSymmetric(t *testing.T) {
	s := newBareSim()
	s.movePlayerTo(1500, 1500, 100)
	e := s.addBotAt(1510, 1500, 95, 0) // ratio ~1.05, inside the band

	const dt = 1.0 / 60.0
	s.resolveDuels(dt)

	p := s.Player()
	botPos, botBody, _ := s.botMapper.Get(e)

	if p.Mass != 100 || botBody.Mass != 95 {
		t.Errorf("bounce must not transfer mass: player %f, bot %f", p.Mass, botBody.Mass)
	}

	push := s.t.pushSpeed * dt
	// Player is left of the bot: pushed further left, bot further right.
	if math.Abs(float64(p.X-(1500-push))) > 0.001 {
		t.Errorf("player x %f, want %f", p.X, 1500-push)
	}
	if math.Abs(float64(botPos.X-(1510+push))) > 0.001 {
		t.Errorf("bot x %f, want %f", botPos.X, 1510+push)
	}
	if p.Y != 1500 || botPos.Y != 1500 {
		t.Errorf("push must stay on the center line: player y %f, bot y %f", p.Y, botPos.Y)
	}
}

func TestDuelResetMidPassKeepsProcessing(t *testing.T) {
	s := newBareSim()
	// Player overlaps a dominant bot near the corner, and another bot
	// sits at the world center where the reset lands.
	s.movePlayerTo(400, 400, 50)
	s.addBotAt(410, 400, 200, 0)
	center := s.addBotAt(1500, 1500, 30, 0)

	s.resolveDuels(1.0 / 60.0)

	// The reset player (mass 100) lands on the 30-mass bot. Whether
	// that duel resolves this tick depends on iteration order, so just
	// verify the pass completed without corruption and the center bot
	// is in a consistent state.
	if s.BotCount() < 1 || s.BotCount() > 2 {
		t.Fatalf("bot count corrupted: %d", s.BotCount())
	}
	if s.world.Alive(center) {
		_, body, _ := s.botMapper.Get(center)
		if body.Mass != 30 {
			t.Errorf("surviving center bot mass changed: %f", body.Mass)
		}
	}
	p := s.Player()
	if p.Mass < s.t.startMass {
		t.Errorf("player mass below baseline after reset: %f", p.Mass)
	}
}

func TestBoostDecaysToZeroAtDuration(t *testing.T) {
	s := newBareSim()
	in := Input{TargetX: 1500, TargetY: 1500}

	const dt = 0.025 // below the dt cap; duration 0.25 = 10 ticks

	s.Step(Input{TargetX: 1500, TargetY: 1500, Boost: true}, dt)
	if p := s.Player(); p.BoostRemaining != s.t.boostDuration {
		t.Fatalf("boost not armed: %f", p.BoostRemaining)
	}

	// Decay covers the trigger tick's dt on the following ticks: after
	// a total of duration seconds past the trigger, boost is gone.
	for i := 0; i < 9; i++ {
		s.Step(in, dt)
	}
	if p := s.Player(); p.BoostRemaining <= 0 {
		t.Errorf("boost expired early: %f", p.BoostRemaining)
	}
	s.Step(in, dt)
	if p := s.Player(); p.BoostRemaining > 1e-4 {
		t.Errorf("boost still active after full duration: %f", p.BoostRemaining)
	}
}

func TestBoostRetriggerResetsTimer(t *testing.T) {
	s := newBareSim()
	const dt = 0.025

	s.Step(Input{TargetX: 1500, TargetY: 1500, Boost: true}, dt)
	s.Step(Input{TargetX: 1500, TargetY: 1500}, dt)
	s.Step(Input{TargetX: 1500, TargetY: 1500, Boost: true}, dt)

	// Retrigger restores the full duration rather than stacking.
	if p := s.Player(); p.BoostRemaining != s.t.boostDuration {
		t.Errorf("expected boost %f after retrigger, got %f", s.t.boostDuration, p.BoostRemaining)
	}
}

func TestBoostSpeedsPlayerUp(t *testing.T) {
	a := newBareSim()
	b := newBareSim()
	const dt = 1.0 / 60.0

	a.Step(Input{TargetX: 3000, TargetY: 1500}, dt)
	b.Step(Input{TargetX: 3000, TargetY: 1500, Boost: true}, dt)

	pa := a.Player()
	pb := b.Player()
	if pb.X <= pa.X {
		t.Errorf("boosted player (%f) not ahead of unboosted (%f)", pb.X, pa.X)
	}

	ratio := (pb.X - 1500) / (pa.X - 1500)
	if math.Abs(float64(ratio)-float64(a.t.boostMult)) > 0.01 {
		t.Errorf("boost ratio %f, want %f", ratio, a.t.boostMult)
	}
}

func TestReplenishRestoresTargets(t *testing.T) {
	s := newBareSim()
	s.t.foodTarget = 20
	s.t.botTarget = 5

	s.replenish()

	if s.PelletCount() != 20 {
		t.Errorf("expected 20 pellets, got %d", s.PelletCount())
	}
	if s.BotCount() != 5 {
		t.Errorf("expected 5 bots, got %d", s.BotCount())
	}

	// A tick that consumes pellets still ends back at the targets.
	s.movePlayerTo(1500, 1500, 100)
	s.Step(Input{TargetX: 1500, TargetY: 1500}, 1.0/60.0)
	if s.PelletCount() < 20 {
		t.Errorf("pellet target not restored: %d", s.PelletCount())
	}
	if s.BotCount() < 5 {
		t.Errorf("bot target not restored: %d", s.BotCount())
	}
}

func TestBotSpawnInset(t *testing.T) {
	s := newBareSim()
	s.t.botTarget = 50
	s.replenish()

	w, h := s.WorldSize()
	inset := s.t.spawnInset
	s.ForEachBot(func(pos components.Position, _ components.Body, _ float32) {
		if pos.X < inset || pos.X > w-inset || pos.Y < inset || pos.Y > h-inset {
			t.Errorf("bot spawned outside inset: (%f, %f)", pos.X, pos.Y)
		}
	})
}

func TestPelletSpawnInsideBounds(t *testing.T) {
	s := newBareSim()
	s.t.foodTarget = 200
	s.replenish()

	w, h := s.WorldSize()
	s.ForEachPellet(func(pos components.Position, body components.Body, r float32) {
		if pos.X < r || pos.X > w-r || pos.Y < r || pos.Y > h-r {
			t.Errorf("pellet outside bounds: (%f, %f) radius %f", pos.X, pos.Y, r)
		}
		if body.Mass < s.t.pelletMinMass || body.Mass > s.t.pelletMaxMass {
			t.Errorf("pellet mass %f outside range", body.Mass)
		}
	})
}

func TestBotChasesPlayerInStep(t *testing.T) {
	s := newBareSim()

	// A big bot near a small player closes distance over ticks.
	s.movePlayerTo(1500, 1500, 100)
	chaser := s.addBotAt(1800, 1500, 200, math.Pi) // heading irrelevant, chase overrides

	distBefore := systems.DistanceSq(1800, 1500, 1500, 1500)
	for i := 0; i < 30; i++ {
		pos, _, _ := s.playerMapper.Get(s.player)
		px, py := pos.X, pos.Y
		s.Step(Input{TargetX: px, TargetY: py}, 1.0/60.0)
	}
	cPos, _, _ := s.botMapper.Get(chaser)
	p := s.Player()
	distAfter := systems.DistanceSq(cPos.X, cPos.Y, p.X, p.Y)
	if distAfter >= distBefore {
		t.Errorf("chasing bot did not close distance: %f -> %f", distBefore, distAfter)
	}
}
