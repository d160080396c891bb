package engine

import "math"

type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	// GradeF never comes out of CalcGrade; it exists for failed exam attempts.
	GradeF Grade = "F"
)

// rank orders grades for best-grade comparisons. Higher is better.
func (g Grade) rank() int {
	switch g {
	case GradeS:
		return 4
	case GradeA:
		return 3
	case GradeB:
		return 2
	case GradeC:
		return 1
	default:
		return 0
	}
}

// Better reports whether g outranks other.
func (g Grade) Better(other Grade) bool {
	return g.rank() > other.rank()
}

const (
	baseXPPerDifficulty = 20
	hintPenaltyXP       = 10
	timeBonusInBudget   = 20
	timeBonusNearBudget = 10
	// MinXPAward is the hard XP floor per completion, regardless of grade.
	MinXPAward = 10
)

// CalcGrade rates one attempt. The cascade is strict and ordered: the S
// condition is evaluated first, then A, then B, else C.
func CalcGrade(hintsUsed int, timeSeconds float64, difficulty int, budgetSeconds float64) Grade {
	switch {
	case hintsUsed == 0 && timeSeconds <= budgetSeconds && difficulty >= 2:
		return GradeS
	case hintsUsed <= 1 && timeSeconds <= 2*budgetSeconds:
		return GradeA
	case hintsUsed <= 2 || timeSeconds <= 300:
		return GradeB
	default:
		return GradeC
	}
}

func gradeMultiplier(g Grade) float64 {
	switch g {
	case GradeS:
		return 1.5
	case GradeA:
		return 1.2
	case GradeB:
		return 1.0
	default:
		return 0.8
	}
}

// CalcXP computes the XP award for one attempt.
func CalcXP(difficulty, hintsUsed int, timeSeconds float64, grade Grade, budgetSeconds float64) int {
	base := difficulty * baseXPPerDifficulty
	penalty := hintsUsed * hintPenaltyXP

	timeBonus := 0
	switch {
	case timeSeconds <= budgetSeconds:
		timeBonus = timeBonusInBudget
	case timeSeconds <= 2*budgetSeconds:
		timeBonus = timeBonusNearBudget
	}

	xp := int(math.Floor(float64(base-penalty+timeBonus) * gradeMultiplier(grade)))
	if xp < MinXPAward {
		xp = MinXPAward
	}
	return xp
}

// MasteryMultiplier returns the diminishing-returns factor for a repeat
// attempt, keyed strictly by the pre-increment completions counter:
// first attempt 100%, second 50%, third and beyond 25%.
func MasteryMultiplier(priorCompletions int) float64 {
	switch {
	case priorCompletions <= 0:
		return 1.0
	case priorCompletions == 1:
		return 0.5
	default:
		return 0.25
	}
}
