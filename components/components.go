// Package components defines ECS components for the simulation.
package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Color is a cosmetic RGBA tint assigned at spawn. It never affects
// simulation behavior.
type Color struct {
	R, G, B, A uint8
}

// Body holds an entity's mass and cosmetic color. Radius is derived
// from mass by the radius law in systems; it is not stored here.
type Body struct {
	Mass  float32
	Color Color
}

// Pellet marks an entity as a stationary food pellet. Pellets are
// immutable once spawned and are removed atomically on consumption.
type Pellet struct{}

// Bot holds the autonomous cell's steering state. Heading is the
// current travel direction; WanderTimer counts down to the next
// random heading perturbation.
type Bot struct {
	Heading     float32
	WanderTimer float32
}

// Player holds the player cell's state. BoostRemaining is the seconds
// of speed boost left; zero means no boost is active.
type Player struct {
	BoostRemaining float32
}
