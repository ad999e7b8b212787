package systems

// Overlaps reports whether two circles overlap, with an extra margin of
// slack added to the combined radii. Pass margin 0 for exact contact.
func Overlaps(ax, ay, ar, bx, by, br, margin float32) bool {
	reach := ar + br + margin
	return DistanceSq(ax, ay, bx, by) <= reach*reach
}

// DuelOutcome is the resolution of an overlapping player-bot pair.
// Exactly one outcome applies, chosen solely by the mass ratio.
type DuelOutcome int

const (
	DuelBounce     DuelOutcome = iota // near-equal masses: push apart, no consumption
	DuelPlayerEats                    // player dominant: bot removed, mass absorbed
	DuelBotEats                       // bot dominant: player resets
)

// ResolveDuel picks the outcome for an overlapping player-bot pair.
// threshold is the dominance ratio either side must exceed to eat.
func ResolveDuel(playerMass, botMass, threshold float32) DuelOutcome {
	if playerMass > botMass*threshold {
		return DuelPlayerEats
	}
	if botMass > playerMass*threshold {
		return DuelBotEats
	}
	return DuelBounce
}

// SeparationAxis returns the unit vector pointing from (bx, by) toward
// (ax, ay). Coincident centers fall back to (1, 0) so the push is still
// well defined.
func SeparationAxis(ax, ay, bx, by float32) (float32, float32) {
	return NormalizeDir(ax-bx, ay-by)
}
