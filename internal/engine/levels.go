package engine

import (
	"math"

	"mindpalace/internal/storage"
)

const (
	// SkillXPCoef and SkillXPGrowth define the per-level skill requirement:
	// floor(50 * 1.15^(level-1)). The requirement is per level, not cumulative.
	SkillXPCoef   = 50.0
	SkillXPGrowth = 1.15

	// PlayerXPCoef and PlayerXPGrowth define the steeper player curve:
	// floor(100 * 1.3^(level-1)).
	PlayerXPCoef   = 100.0
	PlayerXPGrowth = 1.3

	MaxSkillLevel = 99
)

// SkillXPForLevel returns the XP needed to clear the given skill level.
func SkillXPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(SkillXPCoef * math.Pow(SkillXPGrowth, float64(level-1))))
}

// PlayerXPForLevel returns the XP needed to clear the given player level.
func PlayerXPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(PlayerXPCoef * math.Pow(PlayerXPGrowth, float64(level-1))))
}

// PlayerXPIntoLevel returns the XP banked toward the player's next level:
// total XP minus everything already spent on cleared levels.
func PlayerXPIntoLevel(p *storage.Player) int {
	spent := 0
	for l := 1; l < p.Level; l++ {
		spent += PlayerXPForLevel(l)
	}
	return p.TotalXP - spent
}

// applyPlayerXP adds XP to the player and rolls levels via iterative
// subtraction, handling multi-level jumps from one large award. Returns
// levels gained.
func applyPlayerXP(p *storage.Player, xp int) int {
	if xp <= 0 {
		return 0
	}
	p.TotalXP += xp

	gained := 0
	for PlayerXPIntoLevel(p) >= PlayerXPForLevel(p.Level) {
		p.Level++
		gained++
	}
	return gained
}

// applySkillXP adds XP to a skill and rolls levels up to the cap. Past the
// cap further awards keep banking into XP with no level consequence.
func applySkillXP(ss *storage.SkillState, xp int) int {
	if ss.Level < 1 {
		ss.Level = 1
	}
	if xp <= 0 {
		return 0
	}
	ss.XP += xp

	gained := 0
	for ss.Level < MaxSkillLevel && ss.XP >= SkillXPForLevel(ss.Level) {
		ss.XP -= SkillXPForLevel(ss.Level)
		ss.Level++
		gained++
	}
	return gained
}
