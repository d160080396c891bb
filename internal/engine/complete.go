package engine

import (
	"context"

	"mindpalace/internal/events"
	"mindpalace/internal/storage"
)

// CompletionSignal carries the raw signals the exercise UI reports for one
// submission. Hints and timing are client-reported and trusted as-is.
type CompletionSignal struct {
	ExerciseID string
	VariantID  string
	Difficulty int
	HintsUsed  int
	// TimeSpent is elapsed seconds.
	TimeSpent float64
	Concept   string
}

// Key returns the compound completion key, unique per exercise variant.
func (sig CompletionSignal) Key() string {
	return sig.ExerciseID + "_" + sig.VariantID
}

// normalized clamps out-of-range input instead of rejecting it: zero or
// negative difficulty defaults to 1, negative hints and time to 0.
func (sig CompletionSignal) normalized() CompletionSignal {
	if sig.Difficulty < 1 {
		sig.Difficulty = 1
	}
	if sig.Difficulty > 5 {
		sig.Difficulty = 5
	}
	if sig.HintsUsed < 0 {
		sig.HintsUsed = 0
	}
	if sig.TimeSpent < 0 {
		sig.TimeSpent = 0
	}
	return sig
}

type CompleteResult struct {
	ExerciseKey string
	Grade       Grade
	XPEarned    int
	TotalXP     int
	Level       int
	XPProgress  int

	SkillKey          SkillKey
	SkillLevel        int
	LevelsGained      int
	SkillLevelsGained int
	StatIncreases     map[string]int

	ChallengesCompleted []storage.DailyChallenge
}

// CompleteExercise is the single entry point for official completions.
//
// The idempotency gate is the load-bearing invariant: the first completion of
// a variant is authoritative, and any later submission for the same key
// returns (nil, nil) with no XP, no state change, and no events. Repeat raw
// attempts accumulate through RecordAttempt instead.
func (s *Service) CompleteExercise(ctx context.Context, sig CompletionSignal) (*CompleteResult, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	key := sig.Key()
	if _, done := doc.Completions[key]; done {
		return nil, nil
	}
	sig = sig.normalized()

	budget := float64(doc.Settings.TimeBudgetSeconds)
	grade := CalcGrade(sig.HintsUsed, sig.TimeSpent, sig.Difficulty, budget)
	xp := CalcXP(sig.Difficulty, sig.HintsUsed, sig.TimeSpent, grade, budget)
	skill := ResolveSkill(sig.Concept)

	now := s.now().UTC()
	doc.Completions[key] = storage.CompletionRecord{
		Grade:       string(grade),
		XPEarned:    xp,
		HintsUsed:   sig.HintsUsed,
		TimeSeconds: sig.TimeSpent,
		Difficulty:  sig.Difficulty,
		SkillKey:    string(skill),
		CompletedAt: now,
	}

	// Player XP, with one stat increment per level gained.
	increases := map[string]int{}
	levelsGained := s.grantXP(doc, xp, StatForSkill(skill), increases)

	// Flat stat bonuses, independent of leveling. Both can stack.
	if grade == GradeS {
		doc.Player.Stats.Charm++
	}
	if sig.HintsUsed == 0 && sig.Difficulty <= 2 {
		doc.Player.Stats.Kindness++
	}

	skillLevelsGained := 0
	skillLevel := 0
	if skill != SkillNone {
		ss, ok := doc.Skills[string(skill)]
		if !ok {
			ss = storage.SkillState{Level: 1}
		}
		skillLevelsGained = applySkillXP(&ss, xp)
		skillLevel = ss.Level
		doc.Skills[string(skill)] = ss
	}

	// Reached at most once per key because of the gate above, so this only
	// ever sees a fresh counter; multi-attempt accumulation lives on the
	// ungated RecordAttempt path.
	accumulateMastery(doc, key, xp, grade)

	today := now.Format(storage.DateLayout)
	updateStreak(&doc.Streak, today)
	day := doc.Calendar[today]
	day.ExercisesCompleted++
	day.XPEarned += xp
	doc.Calendar[today] = day

	completed := s.applyDailyProgress(doc, sig, grade, xp, budget, today, increases)

	recomputePalaces(doc)

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}

	res := &CompleteResult{
		ExerciseKey:         key,
		Grade:               grade,
		XPEarned:            xp,
		TotalXP:             doc.Player.TotalXP,
		Level:               doc.Player.Level,
		XPProgress:          PlayerXPIntoLevel(&doc.Player),
		SkillKey:            skill,
		SkillLevel:          skillLevel,
		LevelsGained:        levelsGained,
		SkillLevelsGained:   skillLevelsGained,
		StatIncreases:       increases,
		ChallengesCompleted: completed,
	}

	s.publish(events.GradeCalculated{
		ExerciseKey: key,
		Grade:       string(grade),
		XPEarned:    xp,
		TotalXP:     res.TotalXP,
		Level:       res.Level,
		XPProgress:  res.XPProgress,
	})
	if len(increases) > 0 {
		s.publish(events.LevelUp{
			NewLevel:      res.Level,
			TotalXP:       res.TotalXP,
			StatIncreases: increases,
		})
	}
	if skillLevelsGained > 0 {
		s.publish(events.SkillLevelUp{
			SkillKey:  string(skill),
			SkillName: SkillName(skill),
			NewLevel:  skillLevel,
		})
	}

	return res, nil
}
