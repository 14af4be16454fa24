// Package score implements the Superfan Score formula and its fan-level
// banding. All functions here are total over non-negative inputs: no I/O,
// no errors. Callers are responsible for degrading failed reads to zero
// before calling in.
package score

import "math"

// Level is a coarse banding of the Superfan Score.
type Level string

// Fan levels, from lowest to highest.
const (
	LevelRookie Level = "Rookie"
	LevelPro    Level = "Pro"
	LevelLegend Level = "Legend"
)

// Scoring constants. Each input dimension is individually bounded so no
// single one can dominate: the balance term is capped before the final
// clamp, and the clamp keeps the score on a fixed 0-1000 scale.
const (
	// MaxScore is the upper bound of the Superfan Score.
	MaxScore = 1000

	pointsPerNFT    = 50
	pointsPerRitual = 20

	// 5 points per 10 tokens held, capped at 500 points total.
	balanceStep     = 10
	pointsPerStep   = 5
	balancePointCap = 500

	proThreshold    = 300
	legendThreshold = 700
)

// Compute maps holdings and activity counters to a bounded score in
// [0, MaxScore].
func Compute(nftsHeld, ritualsCompleted int, balance float64) int {
	raw := nftsHeld*pointsPerNFT + ritualsCompleted*pointsPerRitual

	// Cap the balance contribution before converting, so an arbitrarily
	// large balance cannot overflow or dominate.
	balancePoints := math.Floor(balance/balanceStep) * pointsPerStep
	balancePoints = math.Max(0, math.Min(balancePoints, balancePointCap))
	raw += int(balancePoints)

	if raw < 0 {
		return 0
	}
	if raw > MaxScore {
		return MaxScore
	}
	return raw
}

// LevelFor bands a score into a fan level. Boundaries are inclusive on
// the lower band: 300 is still Rookie, 700 is still Pro.
func LevelFor(s int) Level {
	switch {
	case s > legendThreshold:
		return LevelLegend
	case s > proThreshold:
		return LevelPro
	default:
		return LevelRookie
	}
}
