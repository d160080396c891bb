package engine

import (
	"context"
	"time"

	"mindpalace/internal/events"
	"mindpalace/internal/storage"
)

type AchievementDef struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Check       func(doc *storage.Document) bool
}

// achievementDefs is the fixed catalog. Every predicate is evaluated against
// the full document snapshot; nothing is tracked incrementally.
func achievementDefs() []AchievementDef {
	return []AchievementDef{
		completionCountDef("first_clear", "First Steps", "Clear 1 exercise", "🌱", 1),
		completionCountDef("ten_clears", "Warming Up", "Clear 10 exercises", "🌿", 10),
		completionCountDef("fifty_clears", "Dedicated", "Clear 50 exercises", "🌳", 50),
		completionCountDef("hundred_clears", "Relentless", "Clear 100 exercises", "🏆", 100),

		playerLevelDef("level_5", "Apprentice", "Reach level 5", "⭐", 5),
		playerLevelDef("level_10", "Adept", "Reach level 10", "🌟", 10),
		playerLevelDef("level_25", "Master", "Reach level 25", "💫", 25),

		streakDef("streak_3", "Momentum", "3-day streak", "🔥", 3),
		streakDef("streak_7", "Week of Fire", "7-day streak", "🔥", 7),
		streakDef("streak_30", "Iron Will", "30-day streak", "💪", 30),

		sRankDef("first_s", "Flawless", "Earn an S rank", "✨", 1),
		sRankDef("ten_s", "Perfectionist", "Earn 10 S ranks", "👑", 10),

		skillLevelDef("skill_10", "Specialist", "Raise any skill to level 10", "📚", 10),
		skillLevelDef("skill_25", "Virtuoso", "Raise any skill to level 25", "🧙", 25),

		{
			ID: "all_skills_touched", Name: "Renaissance Gopher",
			Description: "Clear an exercise in every course concept", Icon: "🗺️",
			Check: func(doc *storage.Document) bool {
				touched := map[string]bool{}
				for _, rec := range doc.Completions {
					if rec.SkillKey != "" {
						touched[rec.SkillKey] = true
					}
				}
				for _, d := range skillDefs {
					if !touched[string(d.Key)] {
						return false
					}
				}
				return true
			},
		},
		{
			ID: "first_palace", Name: "Heart Stolen",
			Description: "Defeat any palace ruler", Icon: "🃏",
			Check: func(doc *storage.Document) bool {
				for _, st := range doc.Palaces {
					if st.Defeated {
						return true
					}
				}
				return false
			},
		},
		{
			ID: "all_palaces", Name: "True Ending",
			Description: "Defeat every palace ruler", Icon: "🎭",
			Check: func(doc *storage.Document) bool {
				for _, def := range palaceDefs {
					if !doc.Palaces[string(def.Key)].Defeated {
						return false
					}
				}
				return true
			},
		},
		{
			ID: "grinder", Name: "Grinder",
			Description: "Accumulate 10 attempts on a single exercise", Icon: "🔁",
			Check: func(doc *storage.Document) bool {
				for _, rec := range doc.Mastery {
					if rec.Completions >= 10 {
						return true
					}
				}
				return false
			},
		},
		{
			ID: "exam_ace", Name: "Honor Student",
			Description: "Score an S on any exam", Icon: "🎓",
			Check: func(doc *storage.Document) bool {
				for _, e := range doc.Exams {
					if e.Grade == string(GradeS) {
						return true
					}
				}
				return false
			},
		},
	}
}

func completionCountDef(id, name, desc, icon string, n int) AchievementDef {
	return AchievementDef{ID: id, Name: name, Description: desc, Icon: icon,
		Check: func(doc *storage.Document) bool { return len(doc.Completions) >= n }}
}

func playerLevelDef(id, name, desc, icon string, level int) AchievementDef {
	return AchievementDef{ID: id, Name: name, Description: desc, Icon: icon,
		Check: func(doc *storage.Document) bool { return doc.Player.Level >= level }}
}

func streakDef(id, name, desc, icon string, days int) AchievementDef {
	return AchievementDef{ID: id, Name: name, Description: desc, Icon: icon,
		Check: func(doc *storage.Document) bool { return doc.Streak.Longest >= days }}
}

func sRankDef(id, name, desc, icon string, n int) AchievementDef {
	return AchievementDef{ID: id, Name: name, Description: desc, Icon: icon,
		Check: func(doc *storage.Document) bool {
			count := 0
			for _, rec := range doc.Completions {
				if rec.Grade == string(GradeS) {
					count++
				}
			}
			return count >= n
		}}
}

func skillLevelDef(id, name, desc, icon string, level int) AchievementDef {
	return AchievementDef{ID: id, Name: name, Description: desc, Icon: icon,
		Check: func(doc *storage.Document) bool {
			for _, ss := range doc.Skills {
				if ss.Level >= level {
					return true
				}
			}
			return false
		}}
}

type AchievementStatus struct {
	AchievementDef
	Unlocked   bool
	UnlockedAt time.Time
}

// CheckAchievements evaluates the catalog against the current document,
// records any newly-true predicates with a timestamp, and returns only those.
// The unlock set is monotone: already-unlocked achievements are skipped and
// never re-returned.
func (s *Service) CheckAchievements(ctx context.Context) ([]AchievementDef, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var newly []AchievementDef
	now := s.now().UTC()
	for _, def := range achievementDefs() {
		if _, got := doc.Achievements[def.ID]; got {
			continue
		}
		if !def.Check(doc) {
			continue
		}
		doc.Achievements[def.ID] = now
		newly = append(newly, def)
	}

	if len(newly) > 0 {
		if err := s.store.Save(ctx, doc); err != nil {
			return nil, err
		}
		for _, def := range newly {
			s.publish(events.AchievementUnlocked{ID: def.ID, Name: def.Name})
		}
	}
	return newly, nil
}

// Achievements returns the full catalog with unlock status.
func (s *Service) Achievements(ctx context.Context) ([]AchievementStatus, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AchievementStatus, 0, len(achievementDefs()))
	for _, def := range achievementDefs() {
		at, got := doc.Achievements[def.ID]
		out = append(out, AchievementStatus{AchievementDef: def, Unlocked: got, UnlockedAt: at})
	}
	return out, nil
}
