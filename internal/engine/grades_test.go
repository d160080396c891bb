package engine

import "testing"

func TestCalcGradeCascade(t *testing.T) {
	budget := 45.0

	// Worked example: no hints, in budget, difficulty 2.
	if g := CalcGrade(0, 30, 2, budget); g != GradeS {
		t.Fatalf("CalcGrade(0,30,2,45)=%s, want S", g)
	}
	// Difficulty 1 can never be an S.
	if g := CalcGrade(0, 30, 1, budget); g == GradeS {
		t.Fatalf("difficulty 1 produced an S")
	}
	// One hint drops to A even in budget.
	if g := CalcGrade(1, 30, 3, budget); g != GradeA {
		t.Fatalf("CalcGrade(1,30,3,45)=%s, want A", g)
	}
	// Over 2x budget but two hints is still a B.
	if g := CalcGrade(2, 500, 3, budget); g != GradeB {
		t.Fatalf("CalcGrade(2,500,3,45)=%s, want B", g)
	}
	// Many hints but fast is a B via the time arm.
	if g := CalcGrade(5, 200, 3, budget); g != GradeB {
		t.Fatalf("CalcGrade(5,200,3,45)=%s, want B", g)
	}
	// Many hints, slow: C.
	if g := CalcGrade(5, 600, 3, budget); g != GradeC {
		t.Fatalf("CalcGrade(5,600,3,45)=%s, want C", g)
	}
	// F never comes out of the cascade.
	for hints := 0; hints <= 10; hints++ {
		if g := CalcGrade(hints, 9999, 1, budget); g == GradeF {
			t.Fatalf("cascade produced F at hints=%d", hints)
		}
	}
}

func TestGradeWorsensWithHints(t *testing.T) {
	budget := 45.0
	prev := CalcGrade(0, 30, 3, budget)
	for hints := 1; hints <= 6; hints++ {
		g := CalcGrade(hints, 30, 3, budget)
		if g.rank() > prev.rank() {
			t.Fatalf("grade improved from %s to %s at hints=%d", prev, g, hints)
		}
		prev = g
	}
}

func TestCalcXPWorkedExample(t *testing.T) {
	// base=40, penalty=0, timeBonus=20, multiplier=1.5 -> floor(60*1.5)=90.
	if xp := CalcXP(2, 0, 30, GradeS, 45); xp != 90 {
		t.Fatalf("CalcXP(2,0,30,S,45)=%d, want 90", xp)
	}
}

func TestCalcXPFloor(t *testing.T) {
	cases := []struct {
		difficulty, hints int
		timeSeconds       float64
		grade             Grade
	}{
		{1, 10, 9999, GradeC},
		{1, 0, 9999, GradeC},
		{5, 50, 600, GradeC},
	}
	for _, c := range cases {
		if xp := CalcXP(c.difficulty, c.hints, c.timeSeconds, c.grade, 45); xp < MinXPAward {
			t.Fatalf("CalcXP(%d,%d,%.0f,%s)=%d, below floor %d",
				c.difficulty, c.hints, c.timeSeconds, c.grade, xp, MinXPAward)
		}
	}
}

func TestMasteryMultiplier(t *testing.T) {
	if m := MasteryMultiplier(0); m != 1.0 {
		t.Fatalf("first attempt multiplier=%v, want 1.0", m)
	}
	if m := MasteryMultiplier(1); m != 0.5 {
		t.Fatalf("second attempt multiplier=%v, want 0.5", m)
	}
	for prior := 2; prior <= 5; prior++ {
		if m := MasteryMultiplier(prior); m != 0.25 {
			t.Fatalf("attempt %d multiplier=%v, want 0.25", prior+1, m)
		}
	}
}

func TestBestGradeOrdering(t *testing.T) {
	if !GradeS.Better(GradeA) || !GradeA.Better(GradeB) || !GradeB.Better(GradeC) || !GradeC.Better(GradeF) {
		t.Fatalf("grade ordering broken")
	}
	if GradeC.Better(GradeS) {
		t.Fatalf("C outranked S")
	}
	// Empty best grade (fresh record) loses to everything.
	if !GradeC.Better(Grade("")) {
		t.Fatalf("C did not outrank empty grade")
	}
}
