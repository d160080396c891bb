package engine

import (
	"testing"

	"mindpalace/internal/storage"
)

func TestSkillXPForLevel(t *testing.T) {
	if got := SkillXPForLevel(1); got != 50 {
		t.Fatalf("SkillXPForLevel(1)=%d, want 50", got)
	}
	// floor(50 * 1.15) = 57
	if got := SkillXPForLevel(2); got != 57 {
		t.Fatalf("SkillXPForLevel(2)=%d, want 57", got)
	}
	prev := 0
	for l := 1; l <= 40; l++ {
		req := SkillXPForLevel(l)
		if req <= prev {
			t.Fatalf("requirement not strictly increasing at level %d: %d <= %d", l, req, prev)
		}
		prev = req
	}
}

func TestPlayerXPForLevel(t *testing.T) {
	if got := PlayerXPForLevel(1); got != 100 {
		t.Fatalf("PlayerXPForLevel(1)=%d, want 100", got)
	}
	// floor(100 * 1.3) = 130
	if got := PlayerXPForLevel(2); got != 130 {
		t.Fatalf("PlayerXPForLevel(2)=%d, want 130", got)
	}
}

func TestPlayerXPRollover(t *testing.T) {
	p := &storage.Player{Level: 1}

	if gained := applyPlayerXP(p, 90); gained != 0 {
		t.Fatalf("90 XP gained %d levels, want 0", gained)
	}
	if p.Level != 1 || p.TotalXP != 90 {
		t.Fatalf("after 90 XP: level=%d totalXP=%d", p.Level, p.TotalXP)
	}

	// 90 + 50 = 140 crosses the level-1 requirement of 100.
	if gained := applyPlayerXP(p, 50); gained != 1 {
		t.Fatalf("next 50 XP gained %d levels, want 1", gained)
	}
	if p.Level != 2 {
		t.Fatalf("level=%d, want 2", p.Level)
	}
	if into := PlayerXPIntoLevel(p); into != 40 {
		t.Fatalf("XP into level 2 = %d, want 40", into)
	}
}

func TestPlayerXPMultiLevel(t *testing.T) {
	p := &storage.Player{Level: 1}
	// 100 + 130 = 230 clears two levels in one award.
	if gained := applyPlayerXP(p, 235); gained != 2 {
		t.Fatalf("gained %d levels, want 2", gained)
	}
	if p.Level != 3 {
		t.Fatalf("level=%d, want 3", p.Level)
	}
	if into := PlayerXPIntoLevel(p); into != 5 {
		t.Fatalf("residual=%d, want 5", into)
	}
}

func TestSkillXPRollover(t *testing.T) {
	s := &storage.SkillState{Level: 1}
	if gained := applySkillXP(s, 49); gained != 0 {
		t.Fatalf("49 XP gained %d levels, want 0", gained)
	}
	if gained := applySkillXP(s, 1); gained != 1 {
		t.Fatalf("1 more XP gained %d levels, want 1", gained)
	}
	if s.Level != 2 || s.XP != 0 {
		t.Fatalf("after rollover: level=%d xp=%d", s.Level, s.XP)
	}
}

func TestSkillLevelCap(t *testing.T) {
	s := &storage.SkillState{Level: MaxSkillLevel}
	if gained := applySkillXP(s, 1_000_000); gained != 0 {
		t.Fatalf("capped skill gained %d levels", gained)
	}
	if s.Level != MaxSkillLevel {
		t.Fatalf("level=%d, want %d", s.Level, MaxSkillLevel)
	}
	if s.XP != 1_000_000 {
		t.Fatalf("banked XP=%d, want 1000000", s.XP)
	}
}
