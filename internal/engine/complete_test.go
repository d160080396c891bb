package engine

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"mindpalace/internal/events"
	"mindpalace/internal/storage"
)

func newTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	svc, _, ctx := newTestServiceWithBus(t)
	return svc, ctx
}

func newTestServiceWithBus(t *testing.T) (*Service, *events.Bus, context.Context) {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewBus(nil)
	svc := NewService(db, bus)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc, bus, ctx
}

func TestCompleteExerciseAwards(t *testing.T) {
	svc, ctx := newTestService(t)

	res, err := svc.CompleteExercise(ctx, CompletionSignal{
		ExerciseID: "slices-basics",
		VariantID:  "v1",
		Difficulty: 2,
		HintsUsed:  0,
		TimeSpent:  30,
		Concept:    "slices",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res == nil {
		t.Fatalf("first completion returned nil result")
	}
	if res.Grade != GradeS {
		t.Fatalf("grade=%s, want S", res.Grade)
	}
	if res.XPEarned != 90 {
		t.Fatalf("xpEarned=%d, want 90", res.XPEarned)
	}
	if res.SkillKey != SkillSlices {
		t.Fatalf("skillKey=%s, want %s", res.SkillKey, SkillSlices)
	}
	if res.TotalXP < res.XPEarned {
		t.Fatalf("totalXP=%d below award %d", res.TotalXP, res.XPEarned)
	}

	doc, err := svc.Store().Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rec, ok := doc.Completions["slices-basics_v1"]
	if !ok {
		t.Fatalf("completion record missing")
	}
	if rec.Grade != "S" || rec.XPEarned != 90 {
		t.Fatalf("record grade=%s xp=%d", rec.Grade, rec.XPEarned)
	}
	if doc.Streak.Current != 1 {
		t.Fatalf("streak=%d, want 1", doc.Streak.Current)
	}
	if day := doc.Calendar["2026-03-10"]; day.ExercisesCompleted != 1 {
		t.Fatalf("calendar completions=%d, want 1", day.ExercisesCompleted)
	}
}

func TestCompleteExerciseIdempotent(t *testing.T) {
	svc, ctx := newTestService(t)

	sig := CompletionSignal{
		ExerciseID: "maps-basics",
		VariantID:  "v2",
		Difficulty: 3,
		HintsUsed:  1,
		TimeSpent:  60,
		Concept:    "maps",
	}
	first, err := svc.CompleteExercise(ctx, sig)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if first == nil {
		t.Fatalf("first completion returned nil")
	}
	before, err := svc.Store().Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Replays with different signals must still be swallowed whole.
	sig.HintsUsed = 0
	sig.TimeSpent = 5
	dup, err := svc.CompleteExercise(ctx, sig)
	if err != nil {
		t.Fatalf("duplicate complete: %v", err)
	}
	if dup != nil {
		t.Fatalf("duplicate completion returned a result: %+v", dup)
	}

	after, err := svc.Store().Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("duplicate completion mutated state")
	}
}

func TestCompleteExerciseVariantsAreDistinct(t *testing.T) {
	svc, ctx := newTestService(t)

	sig := CompletionSignal{ExerciseID: "goroutines-intro", VariantID: "v1", Difficulty: 4, TimeSpent: 40, Concept: "goroutines"}
	if _, err := svc.CompleteExercise(ctx, sig); err != nil {
		t.Fatalf("v1: %v", err)
	}
	sig.VariantID = "v2"
	res, err := svc.CompleteExercise(ctx, sig)
	if err != nil {
		t.Fatalf("v2: %v", err)
	}
	if res == nil {
		t.Fatalf("second variant was gated as a duplicate")
	}
	n, err := svc.CompletionCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("completion count=%d, want 2", n)
	}
}

func TestStatBonuses(t *testing.T) {
	svc, ctx := newTestService(t)

	// S grade at difficulty 2 with no hints stacks both flat bonuses.
	if _, err := svc.CompleteExercise(ctx, CompletionSignal{
		ExerciseID: "variables-warmup",
		VariantID:  "v1",
		Difficulty: 2,
		TimeSpent:  20,
		Concept:    "variables",
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	doc, err := svc.Store().Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Player.Stats.Charm < 1 {
		t.Fatalf("charm=%d, want the S-rank bonus", doc.Player.Stats.Charm)
	}
	if doc.Player.Stats.Kindness < 1 {
		t.Fatalf("kindness=%d, want the hintless easy bonus", doc.Player.Stats.Kindness)
	}
}

func TestStreakAcrossDays(t *testing.T) {
	svc, ctx := newTestService(t)

	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	complete := func(id string) {
		t.Helper()
		_, err := svc.CompleteExercise(ctx, CompletionSignal{
			ExerciseID: id, VariantID: "v1", Difficulty: 2, TimeSpent: 30, Concept: "structs",
		})
		if err != nil {
			t.Fatalf("complete %s: %v", id, err)
		}
	}

	complete("day-one")
	clock = clock.AddDate(0, 0, 1)
	complete("day-two")

	doc, _ := svc.Store().Load(ctx)
	if doc.Streak.Current != 2 {
		t.Fatalf("streak=%d after consecutive days, want 2", doc.Streak.Current)
	}

	clock = clock.AddDate(0, 0, 3)
	complete("after-gap")

	doc, _ = svc.Store().Load(ctx)
	if doc.Streak.Current != 1 {
		t.Fatalf("streak=%d after gap, want 1", doc.Streak.Current)
	}
	if doc.Streak.Longest != 2 {
		t.Fatalf("longest=%d, want 2", doc.Streak.Longest)
	}
}

func TestUnknownConceptStillCompletes(t *testing.T) {
	svc, ctx := newTestService(t)

	res, err := svc.CompleteExercise(ctx, CompletionSignal{
		ExerciseID: "mystery",
		VariantID:  "v1",
		Difficulty: 3,
		TimeSpent:  30,
		Concept:    "Quantum Flux / Capacitors",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res == nil {
		t.Fatalf("nil result for unknown concept")
	}
	if res.SkillKey != SkillKey("quantum-flux-capacitors") {
		t.Fatalf("derived skill key=%s", res.SkillKey)
	}
	if res.XPEarned <= 0 {
		t.Fatalf("no XP for unknown concept")
	}
}

func TestCompleteExerciseEmitsEvents(t *testing.T) {
	svc, bus, ctx := newTestServiceWithBus(t)

	var got []events.Envelope
	recordEvents(bus, &got)

	// Difficulty 5, no hints, in budget: S grade, floor((100+20)*1.5)=180 XP.
	// Enough to cross player level 1 and lift a fresh skill to level 4.
	sig := CompletionSignal{
		ExerciseID: "channels-deep",
		VariantID:  "v1",
		Difficulty: 5,
		TimeSpent:  30,
		Concept:    "channels",
	}
	res, err := svc.CompleteExercise(ctx, sig)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.XPEarned != 180 {
		t.Fatalf("xpEarned=%d, want 180", res.XPEarned)
	}

	byKind := map[events.Kind]int{}
	for _, env := range got {
		byKind[env.Kind]++
	}
	if byKind[events.KindGradeCalculated] != 1 {
		t.Fatalf("GradeCalculated emitted %d times, want 1", byKind[events.KindGradeCalculated])
	}
	if byKind[events.KindLevelUp] != 1 {
		t.Fatalf("LevelUp emitted %d times, want 1", byKind[events.KindLevelUp])
	}
	if byKind[events.KindSkillLevelUp] != 1 {
		t.Fatalf("SkillLevelUp emitted %d times, want 1", byKind[events.KindSkillLevelUp])
	}
	if got[0].Kind != events.KindGradeCalculated {
		t.Fatalf("first event kind=%s, want GradeCalculated", got[0].Kind)
	}

	gc, ok := got[0].Event.(events.GradeCalculated)
	if !ok {
		t.Fatalf("payload type %T", got[0].Event)
	}
	if gc.ExerciseKey != "channels-deep_v1" || gc.Grade != "S" || gc.XPEarned != 180 {
		t.Fatalf("GradeCalculated payload: %+v", gc)
	}
	if gc.Level < 2 || gc.TotalXP < 180 {
		t.Fatalf("GradeCalculated level=%d totalXP=%d", gc.Level, gc.TotalXP)
	}

	for _, env := range got {
		switch e := env.Event.(type) {
		case events.LevelUp:
			if e.NewLevel < 2 || len(e.StatIncreases) == 0 {
				t.Fatalf("LevelUp payload: %+v", e)
			}
		case events.SkillLevelUp:
			if e.SkillKey != "channels" || e.SkillName != "Channels" || e.NewLevel != 4 {
				t.Fatalf("SkillLevelUp payload: %+v", e)
			}
		}
	}

	// A duplicate submission is silent: no result, no events.
	got = nil
	dup, err := svc.CompleteExercise(ctx, sig)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup != nil {
		t.Fatalf("duplicate returned a result")
	}
	if len(got) != 0 {
		t.Fatalf("duplicate emitted %d events, want 0", len(got))
	}
}

func TestRecordAttemptDiminishingReturns(t *testing.T) {
	svc, ctx := newTestService(t)

	sig := CompletionSignal{
		ExerciseID: "errors-drill",
		VariantID:  "v1",
		Difficulty: 2,
		TimeSpent:  30,
		Concept:    "errors",
	}

	var awards []int
	for i := 0; i < 4; i++ {
		res, err := svc.RecordAttempt(ctx, sig)
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		if res.RawXP != 90 {
			t.Fatalf("attempt %d rawXP=%d, want 90", i+1, res.RawXP)
		}
		awards = append(awards, res.MasteryXP)
	}

	want := []int{90, 45, 22, 22}
	if !reflect.DeepEqual(awards, want) {
		t.Fatalf("mastery awards=%v, want %v", awards, want)
	}

	doc, _ := svc.Store().Load(ctx)
	rec := doc.Mastery["errors-drill_v1"]
	if rec.Completions != 4 {
		t.Fatalf("attempts=%d, want 4", rec.Completions)
	}
	if rec.XP != 179 {
		t.Fatalf("banked mastery XP=%d, want 179", rec.XP)
	}
	if rec.BestGrade != "S" {
		t.Fatalf("bestGrade=%s, want S", rec.BestGrade)
	}
	// Attempts never touch player XP.
	if doc.Player.TotalXP != 0 {
		t.Fatalf("player XP=%d after practice attempts, want 0", doc.Player.TotalXP)
	}
}

func TestRecordExamResult(t *testing.T) {
	svc, ctx := newTestService(t)

	res, err := svc.RecordExamResult(ctx, ExamInput{ID: "midterm", Title: "Midterm", Score: 92, MaxScore: 100})
	if err != nil {
		t.Fatalf("exam: %v", err)
	}
	if res.Grade != "S" || res.XPBonus != 92 {
		t.Fatalf("grade=%s bonus=%d, want S/92", res.Grade, res.XPBonus)
	}

	fail, err := svc.RecordExamResult(ctx, ExamInput{ID: "final", Title: "Final", Score: 30, MaxScore: 100})
	if err != nil {
		t.Fatalf("failing exam: %v", err)
	}
	if fail.Grade != "F" || fail.XPBonus != 0 {
		t.Fatalf("grade=%s bonus=%d, want F/0", fail.Grade, fail.XPBonus)
	}

	doc, _ := svc.Store().Load(ctx)
	if len(doc.Exams) != 2 {
		t.Fatalf("exams stored=%d, want 2", len(doc.Exams))
	}
	if doc.Player.TotalXP != 92 {
		t.Fatalf("totalXP=%d, want 92 from the passing exam only", doc.Player.TotalXP)
	}
}
