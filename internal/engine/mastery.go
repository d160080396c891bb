package engine

import (
	"context"
	"math"

	"mindpalace/internal/storage"
)

type AttemptResult struct {
	ExerciseKey string
	Grade       Grade
	// RawXP is what the attempt would earn at full value; MasteryXP is what
	// was banked after diminishing returns.
	RawXP     int
	MasteryXP int
	Attempts  int
	BestGrade Grade
}

// RecordAttempt is the ungated mastery path: retries and practice runs land
// here, before or after the official completion, and every call accumulates.
// Each repeat earns a diminishing share of the raw XP (100%, 50%, then 25%)
// into the variant's MasteryRecord only; player and skill XP are untouched.
func (s *Service) RecordAttempt(ctx context.Context, sig CompletionSignal) (*AttemptResult, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	sig = sig.normalized()

	budget := float64(doc.Settings.TimeBudgetSeconds)
	grade := CalcGrade(sig.HintsUsed, sig.TimeSpent, sig.Difficulty, budget)
	raw := CalcXP(sig.Difficulty, sig.HintsUsed, sig.TimeSpent, grade, budget)

	key := sig.Key()
	awarded := accumulateMastery(doc, key, raw, grade)

	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}

	rec := doc.Mastery[key]
	return &AttemptResult{
		ExerciseKey: key,
		Grade:       grade,
		RawXP:       raw,
		MasteryXP:   awarded,
		Attempts:    rec.Completions,
		BestGrade:   Grade(rec.BestGrade),
	}, nil
}

// accumulateMastery applies one attempt to the variant's mastery record. The
// multiplier is keyed to the counter value before the increment.
func accumulateMastery(doc *storage.Document, key string, rawXP int, grade Grade) int {
	rec := doc.Mastery[key]

	awarded := int(math.Floor(float64(rawXP) * MasteryMultiplier(rec.Completions)))
	rec.XP += awarded
	rec.Completions++
	if grade.Better(Grade(rec.BestGrade)) {
		rec.BestGrade = string(grade)
	}

	doc.Mastery[key] = rec
	return awarded
}
